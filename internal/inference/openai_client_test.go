package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenAICompatServer(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAICompatClient(srv.URL, "ollama", srv.Client())
}

func TestOpenAICompatClient_Generate(t *testing.T) {
	var captured map[string]any
	client := newOpenAICompatServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/completions", r.URL.Path)
		assert.Equal(t, "Bearer ollama", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cmpl-1","object":"text_completion","model":"llama2","choices":[{"text":"find_information","index":0,"finish_reason":"stop"}]}`))
	})

	got, err := client.Generate(context.Background(), GenerateRequest{
		Model:       "llama2",
		Prompt:      "classify me",
		Temperature: 0.3,
		TopP:        0.9,
	})

	require.NoError(t, err)
	assert.Equal(t, "find_information", got)
	assert.Equal(t, "llama2", captured["model"])
	assert.Equal(t, "classify me", captured["prompt"])
	assert.InDelta(t, 0.3, captured["temperature"], 1e-6)
	assert.InDelta(t, 0.9, captured["top_p"], 1e-6)
}

func TestOpenAICompatClient_Generate_NoChoices(t *testing.T) {
	client := newOpenAICompatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cmpl-1","choices":[]}`))
	})

	_, err := client.Generate(context.Background(), GenerateRequest{Model: "llama2", Prompt: "p"})
	assert.EqualError(t, err, "completion returned no choices")
}

func TestOpenAICompatClient_Generate_StatusError(t *testing.T) {
	client := newOpenAICompatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"message":"model \"x\" not found","type":"api_error"}}`))
	})

	_, err := client.Generate(context.Background(), GenerateRequest{Model: "x", Prompt: "p"})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "not found")
}

func TestOpenAICompatClient_ListModels(t *testing.T) {
	client := newOpenAICompatServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[{"id":"llama2","object":"model"},{"id":"","object":"model"},{"id":"mistral","object":"model"}]}`))
	})

	got, err := client.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama2", "mistral"}, got)
}

func TestOpenAICompatClient_ListModels_StatusError(t *testing.T) {
	client := newOpenAICompatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	})

	_, err := client.ListModels(context.Background())
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}
