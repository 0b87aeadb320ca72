package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()

	server, err := NewServer(ports)
	require.NoError(t, err)

	return server
}

// doJSON performs an in-process request against the server, marshalling
// body as JSON when present.
func doJSON(t *testing.T, server *Server, method, target string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := server.app.Test(req)
	require.NoError(t, err)

	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return out
}

func TestNewServer(t *testing.T) {
	t.Run("requires a rag service", func(t *testing.T) {
		_, err := NewServer(&Ports{})

		assert.ErrorIs(t, err, ErrMissingRAGService)
	})

	t.Run("creates server with valid ports", func(t *testing.T) {
		server, err := NewServer(&Ports{RAG: &mockRAGService{}})

		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestServer_Health(t *testing.T) {
	server := newTestServer(t, &Ports{RAG: &mockRAGService{}})

	resp := doJSON(t, server, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody(t, resp)
	assert.Equal(t, "ok", out["status"])
}

func TestServer_RequestID(t *testing.T) {
	server := newTestServer(t, &Ports{RAG: &mockRAGService{}})

	t.Run("assigns an id when the caller sends none", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodGet, "/healthz", nil)

		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Request-ID", "req-42")

		resp, err := server.app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))
	})
}

func TestServer_OptionalRoutes(t *testing.T) {
	t.Run("answer route absent without an answer service", func(t *testing.T) {
		server := newTestServer(t, &Ports{RAG: &mockRAGService{}})

		resp := doJSON(t, server, http.MethodPost, "/v1/answer", map[string]any{"question": "q"})

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("assistant routes absent without an assistant service", func(t *testing.T) {
		server := newTestServer(t, &Ports{RAG: &mockRAGService{}})

		resp := doJSON(t, server, http.MethodPost, "/v1/generate", map[string]any{"prompt": "p"})

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
