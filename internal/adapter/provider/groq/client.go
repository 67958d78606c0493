// Package groq adapts the Groq API, which speaks the OpenAI chat
// completions dialect, by configuring the shared OpenAI adapter with
// Groq's base URL.
package groq

import (
	"github.com/fairyhunter13/agent-orchestrator/internal/adapter/provider/openai"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// New builds the Groq provider adapter. An empty baseURL uses the public
// Groq endpoint; a missing key leaves the adapter registered but
// unavailable.
func New(apiKey, baseURL string) *openai.Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return openai.NewCompatible("groq", apiKey, baseURL)
}
