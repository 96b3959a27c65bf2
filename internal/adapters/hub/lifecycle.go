package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/notebook-runner-cli/internal/ctxlog"
	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/bnema/notebook-runner-cli/internal/ports"
)

const (
	maxHubResponseBytes = 1 << 20
	defaultPollInterval = time.Second
)

// Manager drives single-user server lifecycle through the hub REST API.
type Manager struct {
	HubURL       string
	Headers      map[string]string
	HTTPClient   *http.Client
	PollInterval time.Duration
}

type userModel struct {
	Name    string                 `json:"name"`
	Servers map[string]serverModel `json:"servers"`
}

type serverModel struct {
	Name        string          `json:"name"`
	Ready       bool            `json:"ready"`
	Pending     json.RawMessage `json:"pending"`
	URL         string          `json:"url"`
	ProgressURL string          `json:"progress_url"`
}

func (s serverModel) isPending() bool {
	return truthy(s.Pending)
}

var _ ports.ServerManager = (*Manager)(nil)

func NewManager(hubURL string, headers map[string]string, client *http.Client) *Manager {
	return &Manager{
		HubURL:     hubURL,
		Headers:    headers,
		HTTPClient: client,
	}
}

func (m *Manager) EnsureStarted(ctx context.Context, user, serverName string) (domain.ServerHandle, error) {
	logger := ctxlog.FromContext(ctx).With("user", user, "server", serverName)

	model, err := m.fetchUser(ctx, user)
	if err != nil {
		return domain.ServerHandle{}, err
	}

	server, ok := model.Servers[serverName]
	if !ok {
		logger.Info("requesting server start")
		if err := m.send(ctx, http.MethodPost, m.serverURL(user, serverName)); err != nil {
			return domain.ServerHandle{}, err
		}

		model, err = m.fetchUser(ctx, user)
		if err != nil {
			return domain.ServerHandle{}, err
		}
		server, ok = model.Servers[serverName]
		if !ok {
			return domain.ServerHandle{}, &domain.UnexpectedServerStateError{User: user, Server: serverName, Detail: "server missing after start request"}
		}
	}

	if server.ProgressURL == "" {
		return domain.ServerHandle{}, &domain.ProtocolError{Op: "read server model", Err: errors.New("server has no progress_url")}
	}

	stream, err := OpenProgressStream(ctx, m.httpClient(), m.hubBase()+server.ProgressURL, m.Headers)
	if err != nil {
		return domain.ServerHandle{}, err
	}
	defer func() { _ = stream.Close() }()

	for {
		event, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return domain.ServerHandle{}, &domain.ServerNeverReadyError{User: user, Server: serverName}
		}
		if err != nil {
			return domain.ServerHandle{}, err
		}

		logger.Debug("server progress", "progress", event.Progress, "message", event.Message)
		if event.Ready {
			if event.URL == "" {
				return domain.ServerHandle{}, &domain.ProtocolError{Op: "read ready event", Err: errors.New("ready event has no url")}
			}
			handle := domain.ServerHandle{
				HubBaseURL:      m.hubBase(),
				User:            user,
				ServerName:      serverName,
				ResolvedBaseURL: m.hubBase() + event.URL,
			}
			logger.Info("server ready", "url", handle.ResolvedBaseURL)
			return handle, nil
		}
	}
}

// EnsureStopped polls the server map until serverName disappears from it.
func (m *Manager) EnsureStopped(ctx context.Context, user, serverName string) error {
	logger := ctxlog.FromContext(ctx).With("user", user, "server", serverName)

	interval := m.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	for {
		model, err := m.fetchUser(ctx, user)
		if err != nil {
			return err
		}

		server, ok := model.Servers[serverName]
		if !ok {
			logger.Info("server stopped")
			return nil
		}
		if !server.isPending() {
			return &domain.UnexpectedServerStateError{User: user, Server: serverName, Detail: "server is present but not pending"}
		}
		logger.Debug("server still stopping", "pending", string(server.Pending))

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RequestStop asks the hub to shut the named server down; an absent server is not an error.
func (m *Manager) RequestStop(ctx context.Context, user, serverName string) error {
	err := m.send(ctx, http.MethodDelete, m.serverURL(user, serverName))
	var transportErr *domain.TransportError
	if errors.As(err, &transportErr) && transportErr.StatusCode == http.StatusNotFound {
		return nil
	}
	return err
}

func (m *Manager) fetchUser(ctx context.Context, user string) (userModel, error) {
	endpoint := m.userURL(user)

	req, err := m.newRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return userModel{}, err
	}

	resp, err := m.httpClient().Do(req)
	if err != nil {
		return userModel{}, &domain.TransportError{Op: "fetch user", URL: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return userModel{}, &domain.TransportError{Op: "fetch user", URL: endpoint, StatusCode: resp.StatusCode, Err: errorFromSnippet(readSnippet(resp.Body))}
	}

	var model userModel
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxHubResponseBytes)).Decode(&model); err != nil {
		return userModel{}, &domain.ProtocolError{Op: "decode user model", Err: err}
	}
	return model, nil
}

func (m *Manager) send(ctx context.Context, method, endpoint string) error {
	req, err := m.newRequest(ctx, method, endpoint)
	if err != nil {
		return err
	}

	op := "start server"
	if method == http.MethodDelete {
		op = "stop server"
	}

	resp, err := m.httpClient().Do(req)
	if err != nil {
		return &domain.TransportError{Op: op, URL: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &domain.TransportError{Op: op, URL: endpoint, StatusCode: resp.StatusCode, Err: errorFromSnippet(readSnippet(resp.Body))}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxHubResponseBytes))
	return nil
}

func (m *Manager) newRequest(ctx context.Context, method, endpoint string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, &domain.TransportError{Op: "create hub request", URL: endpoint, Err: err}
	}
	for key, value := range m.Headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (m *Manager) httpClient() *http.Client {
	if m.HTTPClient != nil {
		return m.HTTPClient
	}
	return http.DefaultClient
}

func (m *Manager) hubBase() string {
	return strings.TrimRight(m.HubURL, "/")
}

func (m *Manager) userURL(user string) string {
	return m.hubBase() + "/hub/api/users/" + url.PathEscape(user)
}

func (m *Manager) serverURL(user, serverName string) string {
	return m.userURL(user) + "/servers/" + url.PathEscape(serverName)
}

func readSnippet(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, 512))
	return strings.TrimSpace(string(data))
}

func errorFromSnippet(snippet string) error {
	if snippet == "" {
		return nil
	}
	return fmt.Errorf("response: %s", snippet)
}
