package domain

import "fmt"

// Intents the prompt always mentions. IntentFindInformation is also the fallback intent.
const (
	IntentContactSupport  = "contact_support"
	IntentFindInformation = "find_information"
)

// Confidence reported for a recognized intent and for the fallback intent.
const (
	ConfidenceRecognized = 0.85
	ConfidenceFallback   = 0.5
)

// DefaultTenantID is used when user_context carries no tenant_id.
const DefaultTenantID = "default"

// FallbackMessage is the guidance message returned when generation fails.
const FallbackMessage = "I'll help you navigate. Let me guide you to the right page."

// SuggestedActions returns the actions offered while the user is inside a step.
func SuggestedActions() []string {
	return []string{"Continue", "Skip"}
}

// IntentDetectionRequest is the body of POST /detect-intent.
type IntentDetectionRequest struct {
	Input            string           `json:"input"`
	TenantID         string           `json:"tenant_id"`
	AvailableIntents []string         `json:"available_intents"` // Order is kept in the prompt
	ContentIndex     []map[string]any `json:"content_index"`
	UserContext      map[string]any   `json:"user_context"`
}

// IntentDetectionResponse is the answer of POST /detect-intent.
type IntentDetectionResponse struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Reasoning  *string `json:"reasoning,omitempty"`
}

// GenerateResponseRequest is the body of POST /generate-response.
type GenerateResponseRequest struct {
	Intent       string           `json:"intent"`
	CurrentStep  map[string]any   `json:"current_step,omitempty"`
	Flow         map[string]any   `json:"flow"`
	UserContext  map[string]any   `json:"user_context"`
	ContentIndex []map[string]any `json:"content_index"` // Accepted, not used for prompting yet
}

// HasCurrentStep reports whether the caller is positioned inside a flow step.
// A null or empty object does not count as a step.
func (r *GenerateResponseRequest) HasCurrentStep() bool {
	return len(r.CurrentStep) > 0
}

// TenantID reads the tenant from the user context.
func (r *GenerateResponseRequest) TenantID() string {
	v, ok := r.UserContext["tenant_id"]
	if !ok || v == nil {
		return DefaultTenantID
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// GenerateResponseResponse is the answer of POST /generate-response.
type GenerateResponseResponse struct {
	Message          string   `json:"message"`
	SuggestedActions []string `json:"suggested_actions,omitempty"`
}
