package inference

import (
	"context"
	"fmt"
	"net/http"

	"ai-navigation/backend/internal/config"
)

// GenerateRequest is a single non-streaming completion against the inference server.
type GenerateRequest struct {
	Model       string
	Prompt      string
	Temperature float64
	TopP        float64
}

// Client defines the operations the service needs from the inference server.
type Client interface {
	// Generate returns the raw text produced for the prompt.
	Generate(ctx context.Context, req GenerateRequest) (string, error)

	// ListModels returns the names of the models installed on the server.
	ListModels(ctx context.Context) ([]string, error)

	// Provider names the upstream protocol, used as a metrics label.
	Provider() string
}

// StatusError is returned when the inference server answers with an unexpected HTTP status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("inference server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("inference server returned status %d: %s", e.StatusCode, e.Body)
}

// NewClient creates the client for the configured provider. Timeouts
// are applied per call through the context, so the shared http.Client has none.
func NewClient(cfg *config.Config) (Client, error) {
	httpClient := &http.Client{}
	switch cfg.Provider {
	case config.ProviderOllama:
		return NewOllamaClient(cfg.OllamaBaseURL, httpClient), nil
	case config.ProviderOpenAI:
		return NewOpenAICompatClient(cfg.OllamaBaseURL, cfg.OpenAIAPIKey, httpClient), nil
	default:
		return nil, fmt.Errorf("unsupported inference provider %q", cfg.Provider)
	}
}
