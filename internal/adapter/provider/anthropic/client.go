// Package anthropic adapts the Claude Messages API to the
// domain.ModelProvider port via github.com/anthropics/anthropic-sdk-go.
// System prompts are lifted out of the conversation into the request's
// System blocks, as the Messages API requires.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

const (
	callTimeout = 30 * time.Second

	// defaultMaxTokens caps completions when the caller sets none; the
	// Messages API rejects requests without a positive max_tokens.
	defaultMaxTokens = 1024
)

// MessagesAPI is the subset of the Anthropic SDK the adapter uses. It
// is satisfied by *sdk.MessageService so tests can swap in a fake.
type MessagesAPI interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Client implements domain.ModelProvider over Claude Messages.
type Client struct {
	messages MessagesAPI
	timeout  time.Duration
}

// New builds the Anthropic adapter. A missing key leaves the adapter
// registered but unavailable so startup never fails on configuration.
func New(apiKey string) *Client {
	c := &Client{timeout: callTimeout}
	if apiKey == "" {
		slog.Warn("provider api key missing, adapter unavailable", slog.String("provider", "anthropic"))
		return c
	}
	ac := sdk.NewClient(option.WithAPIKey(apiKey))
	c.messages = &ac.Messages
	return c
}

// Name returns the provider name this adapter registers under.
func (c *Client) Name() string { return "anthropic" }

// Available reports whether the adapter was configured with a key.
func (c *Client) Available() bool { return c.messages != nil }

// HealthCheck reports configuration health. Anthropic has no free ping
// endpoint, so a configured adapter counts as healthy and dispatch
// failures feed the circuit breaker instead.
func (c *Client) HealthCheck(context.Context) error {
	if c.messages == nil {
		return fmt.Errorf("op=anthropic.HealthCheck: adapter not configured: %w", domain.ErrInternal)
	}
	return nil
}

// Generate performs one Messages call.
func (c *Client) Generate(ctx context.Context, messages []domain.ChatMessage, opts domain.GenerationOptions) (domain.GenerationResult, error) {
	if c.messages == nil {
		return domain.GenerationResult{}, fmt.Errorf("op=anthropic.Generate: adapter not configured: %w", domain.ErrInternal)
	}

	params, err := buildParams(messages, opts)
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("op=anthropic.Generate: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := c.messages.New(ctx, params)
	if err != nil {
		return domain.GenerationResult{}, wrapErr("Generate", err)
	}

	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			parts = append(parts, block.Text)
		}
	}

	in := int(msg.Usage.InputTokens)
	out := int(msg.Usage.OutputTokens)
	return domain.GenerationResult{
		Content: strings.Join(parts, "\n"),
		TokenUsage: map[string]int{
			domain.TokenPrompt:     in,
			domain.TokenCompletion: out,
			domain.TokenTotal:      in + out,
		},
		Model:    opts.Model,
		Provider: "anthropic",
	}, nil
}

// buildParams splits system turns into System blocks and maps the rest
// of the conversation onto user/assistant messages.
func buildParams(messages []domain.ChatMessage, opts domain.GenerationOptions) (sdk.MessageNewParams, error) {
	var system []sdk.TextBlockParam
	conversation := make([]sdk.MessageParam, 0, len(messages))

	for _, m := range messages {
		if m.Content == "" {
			continue
		}
		switch m.Role {
		case domain.RoleSystem:
			system = append(system, sdk.TextBlockParam{Text: m.Content})
		case domain.RoleUser:
			conversation = append(conversation, sdk.NewUserMessage(sdk.NewTextBlock(m.Content)))
		case domain.RoleAssistant:
			conversation = append(conversation, sdk.NewAssistantMessage(sdk.NewTextBlock(m.Content)))
		default:
			return sdk.MessageNewParams{}, fmt.Errorf("unsupported message role %q", m.Role)
		}
	}
	if len(conversation) == 0 {
		return sdk.MessageNewParams{}, errors.New("at least one user or assistant message is required")
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	params := sdk.MessageNewParams{
		Model:     sdk.Model(opts.Model),
		MaxTokens: int64(maxTokens),
		Messages:  conversation,
	}
	if len(system) > 0 {
		params.System = system
	}
	if opts.Temperature > 0 {
		params.Temperature = sdk.Float(float64(opts.Temperature))
	}
	return params, nil
}

// wrapErr maps upstream failures onto the domain sentinels the breaker
// and dispatcher branch on.
func wrapErr(op string, err error) error {
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("op=anthropic.%s: %w: %w", op, domain.ErrUpstreamRateLimit, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("op=anthropic.%s: %w: %w", op, domain.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("op=anthropic.%s: %w", op, err)
}
