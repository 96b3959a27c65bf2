package domain

import (
	"strings"
)

type DestinationKind string

const (
	DestinationFilesystem  DestinationKind = "filesystem"
	DestinationHTTPAPI     DestinationKind = "http_api"
	DestinationObjectStore DestinationKind = "object_store"
)

const DefaultServerName = "cortex_job"

// KindForHostname resolves the destination variant from the hostname scheme.
func KindForHostname(hostname string) DestinationKind {
	lower := strings.ToLower(strings.TrimSpace(hostname))
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return DestinationHTTPAPI
	case strings.HasPrefix(lower, "s3://"):
		return DestinationObjectStore
	default:
		return DestinationFilesystem
	}
}

type EndpointConfig struct {
	Name           string
	Hostname       string
	Kind           DestinationKind
	Token          string
	IsMultiUserHub bool
	User           string
	ServerName     string
}

type EndpointOptions struct {
	Name           string
	Hostname       string
	Token          string
	IsMultiUserHub bool
	User           string
	ServerName     string
}

func NewEndpointConfig(opts EndpointOptions) (EndpointConfig, error) {
	hostname := strings.TrimSpace(opts.Hostname)
	if hostname == "" {
		return EndpointConfig{}, &ConfigError{Key: opts.Name + "_hostname", Reason: "hostname parameter is missing"}
	}

	cfg := EndpointConfig{
		Name:           opts.Name,
		Hostname:       hostname,
		Kind:           KindForHostname(hostname),
		Token:          strings.TrimSpace(opts.Token),
		IsMultiUserHub: opts.IsMultiUserHub,
		User:           strings.TrimSpace(opts.User),
		ServerName:     strings.TrimSpace(opts.ServerName),
	}
	if cfg.ServerName == "" {
		cfg.ServerName = DefaultServerName
	}

	if cfg.Kind != DestinationHTTPAPI {
		if cfg.IsMultiUserHub {
			return EndpointConfig{}, &ConfigError{Key: opts.Name + "_handler_http_is_jupyterhub", Reason: "a multi-user hub requires an http(s) hostname"}
		}
		return cfg, nil
	}

	if cfg.Token == "" {
		return EndpointConfig{}, &ConfigError{Key: opts.Name + "_handler_http_service_api_token", Reason: "an HTTP handler is used but no service API token was provided"}
	}
	if cfg.User == "" {
		return EndpointConfig{}, &ConfigError{Key: "any_handler_http_user", Reason: "an HTTP handler is used but no user was provided"}
	}

	return cfg, nil
}

func (c EndpointConfig) AuthHeaders() map[string]string {
	if c.Token == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "token " + c.Token}
}

// DirectHandle addresses a single-user server without going through the hub.
func (c EndpointConfig) DirectHandle() ServerHandle {
	return ServerHandle{
		User:            c.User,
		ResolvedBaseURL: c.Hostname,
	}
}
