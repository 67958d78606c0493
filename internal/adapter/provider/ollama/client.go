// Package ollama adapts a local Ollama daemon to the
// domain.ModelProvider port over its plain HTTP API. Local models run
// free of charge, so the orchestrator prefers them whenever task
// requirements allow; generation is slower than the hosted providers,
// hence the generous call timeout.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

const defaultBaseURL = "http://localhost:11434"

// Client implements domain.ModelProvider against one Ollama daemon.
type Client struct {
	baseURL string
	enabled bool
	hc      *http.Client

	chatTimeout   time.Duration
	healthTimeout time.Duration
	pullTimeout   time.Duration
}

// New builds the Ollama adapter. The adapter stays registered when
// disabled so the registry can report why local models are skipped.
func New(baseURL string, enabled bool) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		enabled:       enabled,
		hc:            &http.Client{},
		chatTimeout:   120 * time.Second,
		healthTimeout: 5 * time.Second,
		pullTimeout:   10 * time.Minute,
	}
}

// Name returns the provider name this adapter registers under.
func (c *Client) Name() string { return "ollama" }

// Available reports whether local dispatch is enabled.
func (c *Client) Available() bool { return c.enabled }

// HealthCheck verifies the daemon answers its tag listing.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("op=ollama.HealthCheck: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return wrapErr("HealthCheck", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("op=ollama.HealthCheck: status %d", resp.StatusCode)
	}
	return nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatResponse struct {
	Message         chatMessage `json:"message"`
	PromptEvalCount int         `json:"prompt_eval_count"`
	EvalCount       int         `json:"eval_count"`
	Done            bool        `json:"done"`
}

// Generate performs one non-streaming chat call against /api/chat.
func (c *Client) Generate(ctx context.Context, messages []domain.ChatMessage, opts domain.GenerationOptions) (domain.GenerationResult, error) {
	body := chatRequest{
		Model:  opts.Model,
		Stream: false,
		Options: chatOptions{
			NumPredict:  opts.MaxTokens,
			Temperature: opts.Temperature,
		},
	}
	for _, m := range messages {
		body.Messages = append(body.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	ctx, cancel := context.WithTimeout(ctx, c.chatTimeout)
	defer cancel()

	var out chatResponse
	if err := c.post(ctx, "/api/chat", body, &out); err != nil {
		return domain.GenerationResult{}, wrapErr("Generate", err)
	}

	return domain.GenerationResult{
		Content: out.Message.Content,
		TokenUsage: map[string]int{
			domain.TokenPrompt:     out.PromptEvalCount,
			domain.TokenCompletion: out.EvalCount,
			domain.TokenTotal:      out.PromptEvalCount + out.EvalCount,
		},
		Model:    opts.Model,
		Provider: "ollama",
	}, nil
}

// Models lists the locally installed model tags.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("op=ollama.Models: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, wrapErr("Models", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("op=ollama.Models: status %d", resp.StatusCode)
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("op=ollama.Models: decode: %w", err)
	}
	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Pull downloads a model onto the daemon. Pulls move gigabytes, so the
// timeout is far beyond the chat budget.
func (c *Client) Pull(ctx context.Context, model string) error {
	ctx, cancel := context.WithTimeout(ctx, c.pullTimeout)
	defer cancel()

	payload := map[string]any{"name": model, "stream": false}
	if err := c.post(ctx, "/api/pull", payload, nil); err != nil {
		return wrapErr("Pull", err)
	}
	return nil
}

// post sends a JSON body and decodes a JSON reply into out when out is
// non-nil. Non-2xx statuses surface as statusError.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	if e.body == "" {
		return fmt.Sprintf("status %d", e.status)
	}
	return fmt.Sprintf("status %d: %s", e.status, e.body)
}

// wrapErr maps upstream failures onto the domain sentinels the breaker
// and dispatcher branch on.
func wrapErr(op string, err error) error {
	var se *statusError
	if errors.As(err, &se) && se.status == http.StatusTooManyRequests {
		return fmt.Errorf("op=ollama.%s: %w: %w", op, domain.ErrUpstreamRateLimit, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("op=ollama.%s: %w: %w", op, domain.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("op=ollama.%s: %w", op, err)
}
