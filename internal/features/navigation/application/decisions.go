package application

import (
	"slices"
	"strings"
	"unicode/utf8"

	"ai-navigation/backend/internal/features/navigation/domain"
)

const (
	reasoningMinLength = 50
	reasoningMaxLength = 200
)

// IntentResult is the outcome of an intent detection. Fallback is set whenever
// the model reply was not used as the intent; Err carries the upstream failure
// that caused it, if any.
type IntentResult struct {
	Response domain.IntentDetectionResponse
	Fallback bool
	Err      error
}

// MessageResult is the outcome of a guidance message generation.
type MessageResult struct {
	Response domain.GenerateResponseResponse
	Fallback bool
	Err      error
}

// DecideIntent validates a raw model reply against the allowed intents.
func DecideIntent(raw string, availableIntents []string) IntentResult {
	detected := strings.ToLower(strings.TrimSpace(raw))

	result := IntentResult{
		Response: domain.IntentDetectionResponse{
			Intent:     detected,
			Confidence: domain.ConfidenceRecognized,
		},
	}
	if !slices.Contains(availableIntents, detected) {
		result.Response.Intent = domain.IntentFindInformation
		result.Response.Confidence = domain.ConfidenceFallback
		result.Fallback = true
	}

	if utf8.RuneCountInString(raw) > reasoningMinLength {
		reasoning := truncateRunes(raw, reasoningMaxLength)
		result.Response.Reasoning = &reasoning
	}
	return result
}

// IntentFallback is the answer used when the upstream call failed.
func IntentFallback(err error) IntentResult {
	reasoning := "Error: " + err.Error()
	return IntentResult{
		Response: domain.IntentDetectionResponse{
			Intent:     domain.IntentFindInformation,
			Confidence: domain.ConfidenceFallback,
			Reasoning:  &reasoning,
		},
		Fallback: true,
		Err:      err,
	}
}

// DecideMessage cleans a raw model reply into a guidance message.
func DecideMessage(raw string, hasCurrentStep bool) MessageResult {
	return MessageResult{
		Response: domain.GenerateResponseResponse{
			Message:          CleanMessage(raw),
			SuggestedActions: suggestedActionsFor(hasCurrentStep),
		},
	}
}

// MessageFallback is the answer used when the upstream call failed.
func MessageFallback(err error, hasCurrentStep bool) MessageResult {
	return MessageResult{
		Response: domain.GenerateResponseResponse{
			Message:          domain.FallbackMessage,
			SuggestedActions: suggestedActionsFor(hasCurrentStep),
		},
		Fallback: true,
		Err:      err,
	}
}

// CleanMessage trims the reply and removes one pair of wrapping double quotes.
func CleanMessage(raw string) string {
	msg := strings.TrimSpace(raw)
	if len(msg) >= 2 && strings.HasPrefix(msg, `"`) && strings.HasSuffix(msg, `"`) {
		msg = msg[1 : len(msg)-1]
	}
	return msg
}

func suggestedActionsFor(hasCurrentStep bool) []string {
	if !hasCurrentStep {
		return nil
	}
	return domain.SuggestedActions()
}
