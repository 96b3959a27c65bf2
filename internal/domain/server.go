package domain

import "strings"

type ServerHandle struct {
	HubBaseURL      string
	User            string
	ServerName      string
	ResolvedBaseURL string
}

func (h ServerHandle) ContentsURL() string {
	return withTrailingSlash(h.ResolvedBaseURL) + "api/contents"
}

func (h ServerHandle) KernelsURL() string {
	return withTrailingSlash(h.ResolvedBaseURL) + "api/kernels"
}

// ChannelsBaseURL is the kernels URL with its scheme switched to the websocket equivalent.
func (h ServerHandle) ChannelsBaseURL() string {
	return WebsocketURL(h.KernelsURL())
}

func WebsocketURL(httpURL string) string {
	switch {
	case strings.HasPrefix(httpURL, "https://"):
		return "wss://" + strings.TrimPrefix(httpURL, "https://")
	case strings.HasPrefix(httpURL, "http://"):
		return "ws://" + strings.TrimPrefix(httpURL, "http://")
	default:
		return httpURL
	}
}

func withTrailingSlash(raw string) string {
	if strings.HasSuffix(raw, "/") {
		return raw
	}
	return raw + "/"
}
