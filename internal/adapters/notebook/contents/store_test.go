package contents

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/notebook-runner-cli/internal/domain"
)

const notebookJSON = `{"nbformat":4,"nbformat_minor":5,"metadata":{},"cells":[{"cell_type":"code","metadata":{},"source":"print('ok')","outputs":[],"execution_count":null}]}`

func TestLoadUnwrapsContentsModel(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/contents/triage.ipynb", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		_, _ = io.WriteString(w, `{"name":"triage.ipynb","type":"notebook","format":"json","content":`+notebookJSON+`}`)
	}))
	t.Cleanup(server.Close)

	store := &Store{HTTPClient: server.Client()}
	nb, err := store.Load(context.Background(), server.URL+"/api/contents/triage.ipynb?token=secret")
	require.NoError(t, err)
	require.Len(t, nb.Cells, 1)
	assert.Equal(t, "print('ok')", nb.Cells[0].Source)
}

func TestLoadAcceptsPlainNotebook(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, notebookJSON)
	}))
	t.Cleanup(server.Close)

	nb, err := (&Store{HTTPClient: server.Client()}).Load(context.Background(), server.URL+"/n.ipynb")
	require.NoError(t, err)
	assert.Len(t, nb.Cells, 1)
}

func TestLoadNotFoundDoesNotLeakToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)

	_, err := (&Store{HTTPClient: server.Client()}).Load(context.Background(), server.URL+"/api/contents/missing.ipynb?token=secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotebookNotFound))
	assert.NotContains(t, err.Error(), "secret")
}

func TestLoadRejectsDirectoryModel(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"type":"directory","content":[]}`)
	}))
	t.Cleanup(server.Close)

	_, err := (&Store{HTTPClient: server.Client()}).Load(context.Background(), server.URL+"/api/contents/dir")
	assert.True(t, errors.Is(err, domain.ErrProtocol))
}

func TestWritePutsNotebookModel(t *testing.T) {
	t.Parallel()

	var received map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "token t", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/contents/out/2026-01-02-x-a.ipynb", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(server.Close)

	store := &Store{HTTPClient: server.Client(), Headers: map[string]string{"Authorization": "token t"}}
	err := store.Write(context.Background(), domain.NewNotebook(domain.NewCodeCell("1")), server.URL+"/api/contents/out/2026-01-02-x-a.ipynb?token=t")
	require.NoError(t, err)

	assert.JSONEq(t, `"notebook"`, string(received["type"]))
	nb, err := domain.ParseNotebook(received["content"])
	require.NoError(t, err)
	assert.Len(t, nb.Cells, 1)
}

func TestWriteFailureIsTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	err := (&Store{HTTPClient: server.Client()}).Write(context.Background(), domain.NewNotebook(), server.URL+"/api/contents/a.ipynb?token=secret")
	var transportErr *domain.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusForbidden, transportErr.StatusCode)
	assert.NotContains(t, err.Error(), "secret")
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "https://hub/api/contents/a.ipynb", redact("https://hub/api/contents/a.ipynb?token=x"))
	assert.Equal(t, "/plain/path", redact("/plain/path"))
}
