package contents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bnema/notebook-runner-cli/internal/ctxlog"
	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/bnema/notebook-runner-cli/internal/ports"
)

const maxNotebookBytes = 64 << 20

// Store reads and writes notebooks through a Jupyter contents API URL.
type Store struct {
	HTTPClient *http.Client
	Headers    map[string]string
}

var _ ports.NotebookStore = (*Store)(nil)

type contentsModel struct {
	Type    string          `json:"type"`
	Format  string          `json:"format,omitempty"`
	Content json.RawMessage `json:"content"`
}

func (s *Store) Load(ctx context.Context, location string) (*domain.Notebook, error) {
	display := redact(location)

	req, err := s.newRequest(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient().Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: "load notebook", URL: display, Err: scrub(err, location, display)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotebookNotFound, display)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &domain.TransportError{Op: "load notebook", URL: display, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxNotebookBytes))
	if err != nil {
		return nil, &domain.TransportError{Op: "read notebook", URL: display, Err: err}
	}

	var model contentsModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, &domain.ProtocolError{Op: "decode contents model", Err: err}
	}

	// Plain notebook documents are accepted as well as contents models.
	payload := data
	if len(model.Content) > 0 && string(model.Content) != "null" {
		if model.Type != "" && model.Type != "notebook" {
			return nil, &domain.ProtocolError{Op: "decode contents model", Err: fmt.Errorf("%s is a %s, not a notebook", display, model.Type)}
		}
		payload = model.Content
	}

	nb, err := domain.ParseNotebook(payload)
	if err != nil {
		return nil, &domain.ProtocolError{Op: "decode notebook", Err: err}
	}

	ctxlog.FromContext(ctx).Debug("notebook loaded", "location", display, "cells", len(nb.Cells))
	return nb, nil
}

func (s *Store) Write(ctx context.Context, nb *domain.Notebook, location string) error {
	if nb == nil {
		return errors.New("notebook is required")
	}
	display := redact(location)

	content, err := json.Marshal(nb)
	if err != nil {
		return fmt.Errorf("encode notebook: %w", err)
	}
	body, err := json.Marshal(contentsModel{Type: "notebook", Format: "json", Content: content})
	if err != nil {
		return fmt.Errorf("encode contents model: %w", err)
	}

	req, err := s.newRequest(ctx, http.MethodPut, location, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient().Do(req)
	if err != nil {
		return &domain.TransportError{Op: "write notebook", URL: display, Err: scrub(err, location, display)}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &domain.TransportError{Op: "write notebook", URL: display, StatusCode: resp.StatusCode}
	}

	ctxlog.FromContext(ctx).Info("notebook written", "location", display)
	return nil
}

func (s *Store) newRequest(ctx context.Context, method, location string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, location, body)
	if err != nil {
		return nil, &domain.TransportError{Op: "create contents request", URL: redact(location), Err: errors.New("invalid location")}
	}
	for key, value := range s.Headers {
		req.Header.Set(key, value)
	}
	return req, nil
}

func (s *Store) httpClient() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return http.DefaultClient
}

// redact drops the query string so tokens never reach logs or errors.
func redact(location string) string {
	parsed, err := url.Parse(location)
	if err != nil {
		if idx := strings.IndexByte(location, '?'); idx >= 0 {
			return location[:idx]
		}
		return location
	}
	parsed.RawQuery = ""
	parsed.User = nil
	return parsed.String()
}

// scrub rewrites transport errors, which embed the request URL, without its query.
func scrub(err error, location, display string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return errors.New(strings.ReplaceAll(err.Error(), location, display))
}
