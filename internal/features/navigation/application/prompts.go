package application

import (
	"fmt"
	"strings"

	"ai-navigation/backend/internal/features/navigation/domain"
)

const (
	maxContentEntries    = 10
	maxDescriptionLength = 100
)

const intentPromptTemplate = `You are an AI assistant that helps users navigate complex websites by understanding their intent.

Available intents: %s

User query: "%s"

Based on the user's query, determine their intent. Respond with ONLY one of these intents: %s

If the user wants to contact someone or get contact information, respond with: ` + domain.IntentContactSupport + `
If the user wants to find information, read about something, or explore content, respond with: ` + domain.IntentFindInformation + `

Respond with ONLY the intent name, nothing else.`

const guidancePromptTemplate = `You are a helpful AI assistant guiding users through a website navigation system.

%s
%s

User intent: %s

Generate a friendly, concise message (1-2 sentences) that guides the user to their destination. Be natural and helpful.

Response:`

// BuildContentSummary renders at most the first 10 content entries, one line
// each, with descriptions cut to 100 characters.
func BuildContentSummary(contentIndex []map[string]any) string {
	n := min(len(contentIndex), maxContentEntries)
	lines := make([]string, 0, n)
	for _, item := range contentIndex[:n] {
		title := stringField(item, "title", "Unknown")
		description := truncateRunes(stringField(item, "description", ""), maxDescriptionLength)
		lines = append(lines, fmt.Sprintf("- %s: %s", title, description))
	}
	return strings.Join(lines, "\n")
}

// BuildIntentPrompt renders the classification prompt. An empty intent list
// still yields a prompt; the reply can then only end on the fallback intent.
func BuildIntentPrompt(input string, availableIntents []string) string {
	intents := strings.Join(availableIntents, ", ")
	return fmt.Sprintf(intentPromptTemplate, intents, input, intents)
}

// BuildGuidancePrompt renders the guidance prompt for a flow and optional step.
func BuildGuidancePrompt(intent string, currentStep, flow map[string]any) string {
	stepInfo := ""
	if len(currentStep) > 0 {
		stepInfo = fmt.Sprintf("Current step: %s - %s",
			stringField(currentStep, "title", ""),
			stringField(currentStep, "description", ""))
	}
	flowInfo := "Flow: " + stringField(flow, "title", "Unknown flow")
	return fmt.Sprintf(guidancePromptTemplate, flowInfo, stepInfo, intent)
}

// stringField reads key from a loosely typed record. Missing and null values
// yield fallback, non-string values are formatted with fmt.
func stringField(m map[string]any, key, fallback string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
