// Package stub provides a deterministic in-process provider for
// development and end-to-end tests. It echoes the last user message so
// assertions can watch their own input come back, with fixed token
// counts so credit math stays predictable.
package stub

import (
	"context"
	"fmt"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

const (
	promptTokens     = 10
	completionTokens = 20
)

// Client implements domain.ModelProvider without any network calls.
type Client struct{}

// New returns the stub provider.
func New() *Client { return &Client{} }

// Name returns the provider name this adapter registers under.
func (c *Client) Name() string { return "stub" }

// Available always reports true.
func (c *Client) Available() bool { return true }

// HealthCheck always passes.
func (c *Client) HealthCheck(context.Context) error { return nil }

// Generate echoes the last user turn.
func (c *Client) Generate(_ context.Context, messages []domain.ChatMessage, opts domain.GenerationOptions) (domain.GenerationResult, error) {
	var lastUser string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			lastUser = messages[i].Content
			break
		}
	}
	content := "Acknowledged."
	if lastUser != "" {
		content = fmt.Sprintf("Acknowledged: %s", lastUser)
	}
	return domain.GenerationResult{
		Content: content,
		TokenUsage: map[string]int{
			domain.TokenPrompt:     promptTokens,
			domain.TokenCompletion: completionTokens,
			domain.TokenTotal:      promptTokens + completionTokens,
		},
		Model:    opts.Model,
		Provider: "stub",
	}, nil
}
