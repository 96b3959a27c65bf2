package hub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureStartedStartsMissingServerAndReturnsFirstReadyURL(t *testing.T) {
	t.Parallel()

	var userFetches, startRequests atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /hub/api/users/analyst", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token secret", r.Header.Get("Authorization"))
		if userFetches.Add(1) == 1 {
			_, _ = io.WriteString(w, `{"name":"analyst","servers":{}}`)
			return
		}
		_, _ = io.WriteString(w, `{"name":"analyst","servers":{"cortex_job":{"name":"cortex_job","pending":"spawn","progress_url":"/hub/api/users/analyst/servers/cortex_job/progress"}}}`)
	})
	mux.HandleFunc("POST /hub/api/users/analyst/servers/cortex_job", func(w http.ResponseWriter, r *http.Request) {
		startRequests.Add(1)
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /hub/api/users/analyst/servers/cortex_job/progress", func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		_, _ = io.WriteString(w, "data: {\"progress\": 50}\n\n")
		_, _ = io.WriteString(w, "data: {\"progress\": 100, \"ready\": true, \"url\": \"/user/analyst/cortex_job/\"}\n\n")
		flusher.Flush()
		// A reader that kept consuming would block here until the test deadline.
		<-r.Context().Done()
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	manager := NewManager(server.URL+"/", map[string]string{"Authorization": "token secret"}, server.Client())
	handle, err := manager.EnsureStarted(ctx, "analyst", "cortex_job")
	require.NoError(t, err)
	require.NoError(t, ctx.Err())

	assert.Equal(t, server.URL+"/user/analyst/cortex_job/", handle.ResolvedBaseURL)
	assert.Equal(t, server.URL, handle.HubBaseURL)
	assert.Equal(t, "analyst", handle.User)
	assert.Equal(t, "cortex_job", handle.ServerName)
	assert.Equal(t, int32(1), startRequests.Load())
	assert.Equal(t, int32(2), userFetches.Load())
}

func TestEnsureStartedSkipsStartForExistingServer(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /hub/api/users/analyst", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"servers":{"cortex_job":{"ready":true,"pending":null,"progress_url":"/progress"}}}`)
	})
	mux.HandleFunc("POST /hub/api/users/analyst/servers/cortex_job", func(w http.ResponseWriter, r *http.Request) {
		t.Error("start must not be requested for a running server")
	})
	mux.HandleFunc("GET /progress", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "data: {\"ready\": true, \"url\": \"/user/analyst/cortex_job/\"}\n")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	manager := NewManager(server.URL, nil, server.Client())
	handle, err := manager.EnsureStarted(context.Background(), "analyst", "cortex_job")
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/user/analyst/cortex_job/", handle.ResolvedBaseURL)
}

func TestEnsureStartedFailsWhenStreamEndsWithoutReady(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /hub/api/users/analyst", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"servers":{"cortex_job":{"pending":"spawn","progress_url":"/progress"}}}`)
	})
	mux.HandleFunc("GET /progress", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "data: {\"progress\": 10}\n\ndata: {\"progress\": 20, \"ready\": false}\n\n")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	manager := NewManager(server.URL, nil, server.Client())
	_, err := manager.EnsureStarted(context.Background(), "analyst", "cortex_job")
	require.Error(t, err)

	var neverReady *domain.ServerNeverReadyError
	require.ErrorAs(t, err, &neverReady)
	assert.Equal(t, "analyst", neverReady.User)
	assert.Equal(t, "cortex_job", neverReady.Server)
}

func TestEnsureStartedReadyEventWithoutURLIsProtocolError(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /hub/api/users/analyst", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"servers":{"cortex_job":{"pending":"spawn","progress_url":"/progress"}}}`)
	})
	mux.HandleFunc("GET /progress", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "data: {\"progress\": 100, \"ready\": true}\n\n")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	manager := NewManager(server.URL, nil, server.Client())
	_, err := manager.EnsureStarted(context.Background(), "analyst", "cortex_job")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProtocol))
}

func TestEnsureStartedServerMissingAfterStartRequest(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /hub/api/users/analyst", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"servers":{}}`)
	})
	mux.HandleFunc("POST /hub/api/users/analyst/servers/cortex_job", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	manager := NewManager(server.URL, nil, server.Client())
	_, err := manager.EnsureStarted(context.Background(), "analyst", "cortex_job")
	assert.True(t, errors.Is(err, domain.ErrUnexpectedServerState))
}

func TestEnsureStartedHubErrorIsTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	manager := NewManager(server.URL, nil, server.Client())
	_, err := manager.EnsureStarted(context.Background(), "ghost", "cortex_job")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransport))
	assert.Contains(t, err.Error(), "status 404")
}

func TestEnsureStoppedPollsUntilServerAbsent(t *testing.T) {
	t.Parallel()

	var polls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hub/api/users/analyst", r.URL.Path)
		if polls.Add(1) < 3 {
			_, _ = io.WriteString(w, `{"servers":{"cortex_job":{"pending":"stop"}}}`)
			return
		}
		_, _ = io.WriteString(w, `{"servers":{}}`)
	}))
	t.Cleanup(server.Close)

	manager := NewManager(server.URL, nil, server.Client())
	manager.PollInterval = 5 * time.Millisecond

	require.NoError(t, manager.EnsureStopped(context.Background(), "analyst", "cortex_job"))
	assert.Equal(t, int32(3), polls.Load())
}

func TestEnsureStoppedPresentWithoutPendingIsUnexpected(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"servers":{"cortex_job":{"ready":true,"pending":null}}}`)
	}))
	t.Cleanup(server.Close)

	manager := NewManager(server.URL, nil, server.Client())
	manager.PollInterval = time.Millisecond

	err := manager.EnsureStopped(context.Background(), "analyst", "cortex_job")
	var unexpected *domain.UnexpectedServerStateError
	require.ErrorAs(t, err, &unexpected)
	assert.Equal(t, "waiting for analyst/cortex_job: server is present but not pending", unexpected.Error())
}

func TestEnsureStoppedHonorsCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"servers":{"cortex_job":{"pending":"stop"}}}`)
	}))
	t.Cleanup(server.Close)

	manager := NewManager(server.URL, nil, server.Client())
	manager.PollInterval = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := manager.EnsureStopped(ctx, "analyst", "cortex_job")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRequestStop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "accepted", status: http.StatusAccepted},
		{name: "no content", status: http.StatusNoContent},
		{name: "already gone", status: http.StatusNotFound},
		{name: "forbidden", status: http.StatusForbidden, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "/hub/api/users/analyst/servers/cortex_job", r.URL.Path)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			manager := NewManager(server.URL, nil, server.Client())
			err := manager.RequestStop(context.Background(), "analyst", "cortex_job")
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), fmt.Sprintf("status %d", tt.status))
				return
			}
			require.NoError(t, err)
		})
	}
}
