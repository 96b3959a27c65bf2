package hub

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressStreamYieldsOnlyMarkedLines(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token abc", r.Header.Get("Authorization"))
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, ": keep-alive\n\n")
		_, _ = io.WriteString(w, "data: {\"progress\": 10, \"message\": \"spawning\"}\r\n\n")
		_, _ = io.WriteString(w, "event: noise\n")
		_, _ = io.WriteString(w, "data: {\"progress\": 100, \"ready\": true, \"url\": \"/user/u/s/\"}\n\n")
	}))
	t.Cleanup(server.Close)

	stream, err := OpenProgressStream(context.Background(), server.Client(), server.URL, map[string]string{"Authorization": "token abc"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = stream.Close() })

	first, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, 10, first.Progress)
	assert.Equal(t, "spawning", first.Message)
	assert.False(t, first.Ready)

	second, err := stream.Next()
	require.NoError(t, err)
	assert.True(t, second.Ready)
	assert.Equal(t, "/user/u/s/", second.URL)

	_, err = stream.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestProgressStreamMalformedEventIsProtocolError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "data: {not json\n")
	}))
	t.Cleanup(server.Close)

	stream, err := OpenProgressStream(context.Background(), server.Client(), server.URL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stream.Close() })

	_, err = stream.Next()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProtocol))
}

func TestProgressStreamOversizedEventIsProtocolError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "data: {\"message\": \""+strings.Repeat("x", maxEventLineBytes)+"\"}\n")
	}))
	t.Cleanup(server.Close)

	stream, err := OpenProgressStream(context.Background(), server.Client(), server.URL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stream.Close() })

	_, err = stream.Next()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProtocol))
	assert.False(t, errors.Is(err, domain.ErrTransport))
}

func TestOpenProgressStreamNonSuccessIsTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	_, err := OpenProgressStream(context.Background(), server.Client(), server.URL, nil)
	require.Error(t, err)

	var transportErr *domain.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusForbidden, transportErr.StatusCode)
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{raw: ``, want: false},
		{raw: `null`, want: false},
		{raw: `false`, want: false},
		{raw: `true`, want: true},
		{raw: `0`, want: false},
		{raw: `1`, want: true},
		{raw: `""`, want: false},
		{raw: `"stop"`, want: true},
		{raw: `[]`, want: false},
		{raw: `{"a":1}`, want: true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, truthy([]byte(tt.raw)), "raw %q", tt.raw)
	}
}
