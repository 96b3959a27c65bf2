package kernel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bnema/notebook-runner-cli/internal/ctxlog"
	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/bnema/notebook-runner-cli/internal/ports"
)

const (
	DefaultKernelName      = "python3"
	maxKernelResponseBytes = 1 << 20
)

// Client creates kernels over REST and attaches to their websocket channel.
type Client struct {
	HTTPClient *http.Client
	Dialer     *websocket.Dialer
	KernelName string
	// Timeout bounds each Execute call; zero waits until the reply or cancellation.
	Timeout time.Duration
}

var _ ports.KernelClient = Client{}

type createKernelRequest struct {
	Name string `json:"name"`
}

type kernelModel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Open starts a kernel on the server and connects its channel. The session closes when ctx ends.
func (c Client) Open(ctx context.Context, server domain.ServerHandle, headers map[string]string) (ports.KernelSession, error) {
	id, err := c.createKernel(ctx, server.KernelsURL(), headers)
	if err != nil {
		return nil, err
	}

	channelsURL := server.ChannelsBaseURL() + "/" + url.PathEscape(id) + "/channels"
	header := http.Header{}
	for key, value := range headers {
		header.Set(key, value)
	}

	conn, resp, err := c.dialer().DialContext(ctx, channelsURL, header)
	if err != nil {
		transportErr := &domain.TransportError{Op: "connect kernel channel", URL: channelsURL, Err: err}
		if resp != nil {
			transportErr.StatusCode = resp.StatusCode
			_ = resp.Body.Close()
		}
		return nil, transportErr
	}

	logger := ctxlog.FromContext(ctx).With("kernel_id", id)
	logger.Info("kernel channel connected")

	return startSession(ctx, id, channelsURL, conn, c.Timeout, logger), nil
}

func (c Client) createKernel(ctx context.Context, kernelsURL string, headers map[string]string) (string, error) {
	body, err := json.Marshal(createKernelRequest{Name: c.kernelName()})
	if err != nil {
		return "", &domain.ProtocolError{Op: "encode kernel request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, kernelsURL, bytes.NewReader(body))
	if err != nil {
		return "", &domain.TransportError{Op: "create kernel request", URL: kernelsURL, Err: err}
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", &domain.TransportError{Op: "create kernel", URL: kernelsURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		var detail error
		if text := strings.TrimSpace(string(snippet)); text != "" {
			detail = errors.New(text)
		}
		return "", &domain.TransportError{Op: "create kernel", URL: kernelsURL, StatusCode: resp.StatusCode, Err: detail}
	}

	var model kernelModel
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxKernelResponseBytes)).Decode(&model); err != nil {
		return "", &domain.ProtocolError{Op: "decode kernel model", Err: err}
	}
	if model.ID == "" {
		return "", &domain.ProtocolError{Op: "decode kernel model", Err: errors.New("kernel id is missing")}
	}
	return model.ID, nil
}

func (c Client) kernelName() string {
	if c.KernelName != "" {
		return c.KernelName
	}
	return DefaultKernelName
}

func (c Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c Client) dialer() *websocket.Dialer {
	if c.Dialer != nil {
		return c.Dialer
	}
	return websocket.DefaultDialer
}
