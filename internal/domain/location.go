package domain

import (
	"net/url"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// OutputTarget is everything the output location depends on besides the run inputs.
type OutputTarget struct {
	Kind        DestinationKind
	Hostname    string
	ContentsURL string
	Token       string
	User        string
}

type Location struct {
	API    string
	Direct string
}

func (l Location) String() string { return l.Direct }

func OutputLocation(target OutputTarget, folder string, date time.Time, trigger, notebookPath string) Location {
	name := date.Format(DateLayout) + "-" + trigger + "-" + TrimLeadingSeparator(notebookPath)

	if target.Kind == DestinationHTTPAPI {
		return Location{
			API:    target.ContentsURL + folder + name + "?token=" + url.QueryEscape(target.Token),
			Direct: strings.TrimRight(target.Hostname, "/") + "/user/" + target.User + "/tree" + folder + name,
		}
	}

	path := target.Hostname + folder + name
	return Location{API: path, Direct: path}
}

// InputLocation addresses an input notebook on its endpoint.
func InputLocation(kind DestinationKind, hostname, contentsURL, token, notebookPath string) string {
	if kind == DestinationHTTPAPI {
		return contentsURL + "/" + TrimLeadingSeparator(notebookPath) + "?token=" + url.QueryEscape(token)
	}
	return hostname + notebookPath
}

func TrimLeadingSeparator(path string) string {
	if strings.HasPrefix(path, "/") {
		return path[1:]
	}
	return path
}

// StripToken removes a "?token=" query carrying the given secret, as written into notebook metadata.
func StripToken(location, token string) string {
	if token == "" {
		return location
	}
	location = strings.ReplaceAll(location, "?token="+url.QueryEscape(token), "")
	return strings.ReplaceAll(location, "?token="+token, "")
}
