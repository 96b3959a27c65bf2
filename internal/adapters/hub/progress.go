package hub

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bnema/notebook-runner-cli/internal/domain"
)

const (
	eventMarker       = "data:"
	maxEventLineBytes = 1 << 20
)

type ProgressEvent struct {
	Progress int
	Message  string
	Ready    bool
	Failed   bool
	URL      string
	Raw      json.RawMessage
}

// ProgressStream reads a server progress event stream one event at a time.
type ProgressStream struct {
	url     string
	body    io.ReadCloser
	scanner *bufio.Scanner
}

func OpenProgressStream(ctx context.Context, client *http.Client, url string, headers map[string]string) (*ProgressStream, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.TransportError{Op: "create progress request", URL: url, Err: err}
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: "open progress stream", URL: url, Err: err}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet := readSnippet(resp.Body)
		_ = resp.Body.Close()
		return nil, &domain.TransportError{Op: "open progress stream", URL: url, StatusCode: resp.StatusCode, Err: errorFromSnippet(snippet)}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventLineBytes)

	return &ProgressStream{url: url, body: resp.Body, scanner: scanner}, nil
}

// Next returns the next event, or io.EOF once the server closes the stream.
func (s *ProgressStream) Next() (ProgressEvent, error) {
	for s.scanner.Scan() {
		line := strings.TrimRight(s.scanner.Text(), "\r")
		if !strings.HasPrefix(line, eventMarker) {
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, eventMarker))
		event, err := parseProgressEvent([]byte(payload))
		if err != nil {
			return ProgressEvent{}, &domain.ProtocolError{Op: "decode progress event", Err: err}
		}
		return event, nil
	}

	if err := s.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return ProgressEvent{}, &domain.ProtocolError{Op: "read progress event", Err: err}
		}
		return ProgressEvent{}, &domain.TransportError{Op: "read progress stream", URL: s.url, Err: err}
	}

	return ProgressEvent{}, io.EOF
}

func (s *ProgressStream) Close() error {
	return s.body.Close()
}

func parseProgressEvent(payload []byte) (ProgressEvent, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return ProgressEvent{}, err
	}
	if fields == nil {
		return ProgressEvent{}, errors.New("event is not a JSON object")
	}

	event := ProgressEvent{
		Ready:  truthy(fields["ready"]),
		Failed: truthy(fields["failed"]),
		Raw:    json.RawMessage(payload),
	}

	if raw, ok := fields["url"]; ok {
		if err := json.Unmarshal(raw, &event.URL); err != nil {
			return ProgressEvent{}, fmt.Errorf("decode url: %w", err)
		}
	}
	if raw, ok := fields["message"]; ok {
		_ = json.Unmarshal(raw, &event.Message)
	}
	if raw, ok := fields["progress"]; ok {
		var progress float64
		if err := json.Unmarshal(raw, &progress); err == nil {
			event.Progress = int(progress)
		}
	}

	return event, nil
}

// truthy follows the hub's loose typing: null, false, 0, "" and empty containers are false.
func truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return false
	}

	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}
