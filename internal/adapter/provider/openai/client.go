// Package openai adapts the OpenAI Chat Completions API to the
// domain.ModelProvider port via github.com/sashabaranov/go-openai. The
// same client serves any OpenAI-compatible endpoint through
// NewCompatible (Groq uses it with its own base URL).
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

const callTimeout = 30 * time.Second

// ChatAPI is the subset of the go-openai client the adapter uses. It is
// satisfied by *openai.Client so tests can swap in a fake.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// Client implements domain.ModelProvider over an OpenAI-compatible
// chat completions endpoint.
type Client struct {
	name         string
	api          ChatAPI
	defaultModel string
	timeout      time.Duration
}

// New builds the OpenAI adapter. A missing key leaves the adapter
// registered but unavailable so startup never fails on configuration.
func New(apiKey string) *Client {
	return NewCompatible("openai", apiKey, "")
}

// NewCompatible builds an adapter for an OpenAI-compatible endpoint
// under the given provider name. An empty baseURL keeps the SDK
// default.
func NewCompatible(name, apiKey, baseURL string) *Client {
	c := &Client{name: name, timeout: callTimeout}
	if apiKey == "" {
		slog.Warn("provider api key missing, adapter unavailable", slog.String("provider", name))
		return c
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	c.api = openai.NewClientWithConfig(cfg)
	return c
}

// WithDefaultModel sets the model used when a request names none.
func (c *Client) WithDefaultModel(model string) *Client {
	c.defaultModel = model
	return c
}

// Name returns the provider name this adapter registers under.
func (c *Client) Name() string { return c.name }

// Available reports whether the adapter was configured with a key.
func (c *Client) Available() bool { return c.api != nil }

// HealthCheck verifies the endpoint answers a model listing.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.api == nil {
		return fmt.Errorf("op=%s.HealthCheck: adapter not configured: %w", c.name, domain.ErrInternal)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if _, err := c.api.ListModels(ctx); err != nil {
		return c.wrapErr("HealthCheck", err)
	}
	return nil
}

// Generate performs one chat completion.
func (c *Client) Generate(ctx context.Context, messages []domain.ChatMessage, opts domain.GenerationOptions) (domain.GenerationResult, error) {
	if c.api == nil {
		return domain.GenerationResult{}, fmt.Errorf("op=%s.Generate: adapter not configured: %w", c.name, domain.ErrInternal)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := opts.Model
	if model == "" {
		model = c.defaultModel
	}
	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    encodeMessages(messages),
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.GenerationResult{}, c.wrapErr("Generate", err)
	}
	if len(resp.Choices) == 0 {
		return domain.GenerationResult{}, fmt.Errorf("op=%s.Generate: response has no choices", c.name)
	}

	return domain.GenerationResult{
		Content: resp.Choices[0].Message.Content,
		TokenUsage: map[string]int{
			domain.TokenPrompt:     resp.Usage.PromptTokens,
			domain.TokenCompletion: resp.Usage.CompletionTokens,
			domain.TokenTotal:      resp.Usage.TotalTokens,
		},
		Model:    model,
		Provider: c.name,
	}, nil
}

func encodeMessages(messages []domain.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

// wrapErr maps upstream failures onto the domain sentinels the breaker
// and dispatcher branch on.
func (c *Client) wrapErr(op string, err error) error {
	if status, ok := statusOf(err); ok && status == http.StatusTooManyRequests {
		return fmt.Errorf("op=%s.%s: %w: %w", c.name, op, domain.ErrUpstreamRateLimit, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("op=%s.%s: %w: %w", c.name, op, domain.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("op=%s.%s: %w", c.name, op, err)
}

func statusOf(err error) (int, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, true
	}
	return 0, false
}
