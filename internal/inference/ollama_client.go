package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"ai-navigation/backend/internal/config"
)

// maxErrorBody bounds how much of an error response is kept in a StatusError.
const maxErrorBody = 512

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Options ollamaOptions `json:"options"`
	Stream  bool          `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

type ollamaTagsResponse struct {
	Models []json.RawMessage `json:"models"`
}

type ollamaModel struct {
	Name string `json:"name"`
}

// ollamaClient talks to the native Ollama HTTP API.
type ollamaClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOllamaClient creates a client for the Ollama server at baseURL.
func NewOllamaClient(baseURL string, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &ollamaClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *ollamaClient) Provider() string {
	return config.ProviderOllama
}

// Generate calls POST /api/generate with streaming disabled.
func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	payload := ollamaGenerateRequest{
		Model:  req.Model,
		Prompt: req.Prompt,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			TopP:        req.TopP,
		},
		Stream: false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: truncateBody(respBody)}
	}

	var parsed ollamaGenerateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return parsed.Response, nil
}

// ListModels calls GET /api/tags. Entries that are not objects with a
// non-empty string name are skipped.
func (c *ollamaClient) ListModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncateBody(respBody)}
	}

	var parsed ollamaTagsResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	names := make([]string, 0, len(parsed.Models))
	for _, raw := range parsed.Models {
		var m ollamaModel
		if err := json.Unmarshal(raw, &m); err != nil || m.Name == "" {
			continue
		}
		names = append(names, m.Name)
	}
	return names, nil
}

func truncateBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= maxErrorBody {
		return s
	}
	cut := maxErrorBody
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
