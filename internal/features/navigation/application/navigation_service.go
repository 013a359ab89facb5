package application

import (
	"context"
	"time"

	"ai-navigation/backend/internal/config"
	"ai-navigation/backend/internal/features/navigation/domain"
	"ai-navigation/backend/internal/inference"
	"ai-navigation/backend/internal/metrics"

	"go.uber.org/zap"
)

// Operation names used in logs and metric labels.
const (
	OperationDetectIntent     = "detect_intent"
	OperationGenerateResponse = "generate_response"
)

const (
	intentTemperature   = 0.3
	guidanceTemperature = 0.7
	defaultTopP         = 0.9
)

// NavigationService defines the interface for the navigation application service.
// Both operations always produce a usable answer; upstream failures are
// reported through the result instead of an error return.
type NavigationService interface {
	DetectIntent(ctx context.Context, req *domain.IntentDetectionRequest) IntentResult
	GenerateResponse(ctx context.Context, req *domain.GenerateResponseRequest) MessageResult
}

// navigationService is the implementation of NavigationService.
type navigationService struct {
	cfg    *config.Config
	client inference.Client
	logger *zap.Logger
}

// NewNavigationService creates a new instance of navigationService.
func NewNavigationService(cfg *config.Config, client inference.Client, logger *zap.Logger) NavigationService {
	return &navigationService{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
}

// DetectIntent classifies free text into one of the caller's intents.
func (s *navigationService) DetectIntent(ctx context.Context, req *domain.IntentDetectionRequest) IntentResult {
	model := s.cfg.ModelFor(req.TenantID)
	prompt := BuildIntentPrompt(req.Input, req.AvailableIntents)
	// The summary is not part of the prompt; it is only traced.
	s.logger.Debug("content summary",
		zap.String("tenant_id", req.TenantID),
		zap.String("summary", BuildContentSummary(req.ContentIndex)))

	raw, err := s.generate(ctx, OperationDetectIntent, inference.GenerateRequest{
		Model:       model,
		Prompt:      prompt,
		Temperature: intentTemperature,
		TopP:        defaultTopP,
	})

	var result IntentResult
	if err != nil {
		result = IntentFallback(err)
	} else {
		result = DecideIntent(raw, req.AvailableIntents)
	}

	fields := []zap.Field{
		zap.String("tenant_id", req.TenantID),
		zap.String("model", model),
		zap.String("intent", result.Response.Intent),
		zap.Bool("fallback", result.Fallback),
	}
	if result.Err != nil {
		s.logger.Warn("intent detection fell back after upstream failure", append(fields, zap.Error(result.Err))...)
	} else {
		s.logger.Info("intent detected", fields...)
	}
	metrics.ObserveRequest(OperationDetectIntent, result.Fallback)
	return result
}

// GenerateResponse produces a short guidance message for the current flow.
func (s *navigationService) GenerateResponse(ctx context.Context, req *domain.GenerateResponseRequest) MessageResult {
	tenantID := req.TenantID()
	model := s.cfg.ModelFor(tenantID)
	prompt := BuildGuidancePrompt(req.Intent, req.CurrentStep, req.Flow)

	raw, err := s.generate(ctx, OperationGenerateResponse, inference.GenerateRequest{
		Model:       model,
		Prompt:      prompt,
		Temperature: guidanceTemperature,
		TopP:        defaultTopP,
	})

	var result MessageResult
	if err != nil {
		result = MessageFallback(err, req.HasCurrentStep())
		s.logger.Warn("response generation fell back after upstream failure",
			zap.String("tenant_id", tenantID),
			zap.String("model", model),
			zap.Error(err))
	} else {
		result = DecideMessage(raw, req.HasCurrentStep())
		s.logger.Info("response generated",
			zap.String("tenant_id", tenantID),
			zap.String("model", model),
			zap.Int("message_length", len(result.Response.Message)))
	}
	metrics.ObserveRequest(OperationGenerateResponse, result.Fallback)
	return result
}

// generate performs one upstream call bounded by the configured timeout. The
// caller's context is the parent, so a disconnected client cancels the call.
func (s *navigationService) generate(ctx context.Context, operation string, req inference.GenerateRequest) (string, error) {
	if s.cfg.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.GenerateTimeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := s.client.Generate(ctx, req)
	metrics.UpstreamDuration.WithLabelValues(operation, s.client.Provider()).Observe(time.Since(start).Seconds())
	return raw, err
}
