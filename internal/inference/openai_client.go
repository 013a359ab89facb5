package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"ai-navigation/backend/internal/config"

	openai "github.com/sashabaranov/go-openai"
)

// openAICompatClient uses the OpenAI-compatible API that Ollama serves under /v1.
type openAICompatClient struct {
	client *openai.Client
}

// NewOpenAICompatClient creates a client for the OpenAI-compatible endpoint of
// the server at baseURL. Ollama accepts any API key.
func NewOpenAICompatClient(baseURL, apiKey string, httpClient *http.Client) Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/") + "/v1"
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &openAICompatClient{client: openai.NewClientWithConfig(cfg)}
}

func (c *openAICompatClient) Provider() string {
	return config.ProviderOpenAI
}

// Generate calls POST /v1/completions.
func (c *openAICompatClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	resp, err := c.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       req.Model,
		Prompt:      req.Prompt,
		Temperature: float32(req.Temperature),
		TopP:        float32(req.TopP),
	})
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", translateOpenAIError(err))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return resp.Choices[0].Text, nil
}

// ListModels calls GET /v1/models.
func (c *openAICompatClient) ListModels(ctx context.Context) ([]string, error) {
	list, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models failed: %w", translateOpenAIError(err))
	}
	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		if m.ID != "" {
			names = append(names, m.ID)
		}
	}
	return names, nil
}

// translateOpenAIError maps HTTP status failures onto StatusError so callers
// handle both providers the same way.
func translateOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &StatusError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		body := ""
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return &StatusError{StatusCode: reqErr.HTTPStatusCode, Body: body}
	}
	return err
}
