package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"ai-navigation/backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOllamaServer(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOllamaClient(srv.URL+"/", srv.Client())
}

func TestOllamaClient_Generate_Success(t *testing.T) {
	var captured map[string]any
	client := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"model":"llama2","response":"  Contact_Support \n","done":true}`))
	})

	got, err := client.Generate(context.Background(), GenerateRequest{
		Model:       "llama2",
		Prompt:      "hello",
		Temperature: 0.3,
		TopP:        0.9,
	})

	require.NoError(t, err)
	assert.Equal(t, "  Contact_Support \n", got)
	assert.Equal(t, "llama2", captured["model"])
	assert.Equal(t, "hello", captured["prompt"])
	assert.Equal(t, false, captured["stream"])
	assert.Equal(t, map[string]any{"temperature": 0.3, "top_p": 0.9}, captured["options"])
}

func TestOllamaClient_Generate_Failures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"model crashed"}`, wantStatus: 500},
		{name: "model not found", status: http.StatusNotFound, body: `{"error":"model 'x' not found"}`, wantStatus: 404},
		{name: "malformed json", status: http.StatusOK, body: `{"response":`},
		{name: "response not a string", status: http.StatusOK, body: `{"response":42}`},
		{name: "array envelope", status: http.StatusOK, body: `["nope"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Generate(context.Background(), GenerateRequest{Model: "llama2", Prompt: "p"})
			require.Error(t, err)

			var statusErr *StatusError
			if tt.wantStatus != 0 {
				require.True(t, errors.As(err, &statusErr))
				assert.Equal(t, tt.wantStatus, statusErr.StatusCode)
				assert.Contains(t, err.Error(), tt.body)
			} else {
				assert.False(t, errors.As(err, &statusErr))
			}
		})
	}
}

func TestOllamaClient_Generate_MissingResponseField(t *testing.T) {
	client := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"done":true}`))
	})

	got, err := client.Generate(context.Background(), GenerateRequest{Model: "llama2"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOllamaClient_Generate_ContextTimeout(t *testing.T) {
	release := make(chan struct{})
	client := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Generate(ctx, GenerateRequest{Model: "llama2"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestOllamaClient_Generate_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewOllamaClient(url, nil)
	_, err := client.Generate(context.Background(), GenerateRequest{Model: "llama2"})
	assert.Error(t, err)
}

func TestOllamaClient_ListModels(t *testing.T) {
	client := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models":[{"name":"llama2","size":1},{"model":"nameless"},{"name":7},{"name":"mistral:7b"}]}`))
	})

	got, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama2", "mistral:7b"}, got)
}

func TestOllamaClient_ListModels_SkipsMalformedEntries(t *testing.T) {
	client := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":["broken",{"name":"llama2"},null,42,[1],{"name":""}]}`))
	})

	got, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama2"}, got)
}

func TestOllamaClient_ListModels_Empty(t *testing.T) {
	client := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	got, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestOllamaClient_ListModels_NonOKStatus(t *testing.T) {
	client := newOllamaServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.ListModels(context.Background())
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "inference server returned status 503", err.Error())
}

func TestNewClient(t *testing.T) {
	c, err := NewClient(&config.Config{Provider: config.ProviderOllama, OllamaBaseURL: "http://localhost:11434"})
	require.NoError(t, err)
	assert.Equal(t, config.ProviderOllama, c.Provider())

	c, err = NewClient(&config.Config{Provider: config.ProviderOpenAI, OllamaBaseURL: "http://localhost:11434"})
	require.NoError(t, err)
	assert.Equal(t, config.ProviderOpenAI, c.Provider())

	_, err = NewClient(&config.Config{Provider: "bedrock"})
	assert.Error(t, err)
}

func TestTruncateBody(t *testing.T) {
	long := make([]byte, maxErrorBody*2)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, truncateBody(long), maxErrorBody)
	assert.Equal(t, "ok", truncateBody([]byte("  ok\n")))

	multi := []byte("a" + strings.Repeat("é", maxErrorBody))
	got := truncateBody(multi)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), maxErrorBody)
	assert.Equal(t, maxErrorBody-1, len(got))
}
