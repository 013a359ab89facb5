package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-navigation/backend/internal/inference"
	"ai-navigation/backend/internal/metrics"

	"go.uber.org/zap"
)

// Values of HealthStatus.Status.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

const operationHealth = "health"

// HealthStatus describes the reachability of the inference server.
type HealthStatus struct {
	Status          string   `json:"status"`
	OllamaConnected bool     `json:"ollama_connected"`
	AvailableModels []string `json:"available_models,omitzero"`
	Error           string   `json:"error,omitempty"`
}

// HealthService defines the interface for the health check.
type HealthService interface {
	Check(ctx context.Context) HealthStatus
}

// healthService is the implementation of HealthService.
type healthService struct {
	client  inference.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewHealthService creates a new instance of healthService.
func NewHealthService(client inference.Client, timeout time.Duration, logger *zap.Logger) HealthService {
	return &healthService{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

// Check lists the upstream models. It never fails: an unreachable or
// misbehaving server is reported inside the returned status.
func (s *healthService) Check(ctx context.Context) HealthStatus {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	models, err := s.client.ListModels(ctx)
	metrics.UpstreamDuration.WithLabelValues(operationHealth, s.client.Provider()).Observe(time.Since(start).Seconds())

	if err != nil {
		s.logger.Warn("inference server health check failed", zap.Error(err))
		metrics.Requests.WithLabelValues(operationHealth, metrics.OutcomeError).Inc()
		return HealthStatus{
			Status:          StatusUnhealthy,
			OllamaConnected: false,
			Error:           describeError(err),
		}
	}

	metrics.Requests.WithLabelValues(operationHealth, metrics.OutcomeSuccess).Inc()
	if models == nil {
		models = []string{}
	}
	return HealthStatus{
		Status:          StatusHealthy,
		OllamaConnected: true,
		AvailableModels: models,
	}
}

func describeError(err error) string {
	var statusErr *inference.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("Ollama returned status %d", statusErr.StatusCode)
	}
	return err.Error()
}
