package openai

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/agent-orchestrator/internal/domain"
)

type fakeChatAPI struct {
	lastRequest openai.ChatCompletionRequest
	response    openai.ChatCompletionResponse
	chatErr     error
	listErr     error
}

func (f *fakeChatAPI) CreateChatCompletion(_ context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastRequest = request
	return f.response, f.chatErr
}

func (f *fakeChatAPI) ListModels(context.Context) (openai.ModelsList, error) {
	return openai.ModelsList{}, f.listErr
}

func newTestClient(api ChatAPI) *Client {
	return &Client{name: "openai", api: api, timeout: time.Second}
}

func TestNewWithoutKeyUnavailable(t *testing.T) {
	c := New("")
	require.Equal(t, "openai", c.Name())
	require.False(t, c.Available())

	_, err := c.Generate(context.Background(), nil, domain.GenerationOptions{})
	require.ErrorIs(t, err, domain.ErrInternal)
	require.ErrorIs(t, c.HealthCheck(context.Background()), domain.ErrInternal)
}

func TestNewCompatibleOverridesName(t *testing.T) {
	c := NewCompatible("groq", "key", "https://api.groq.com/openai/v1")
	require.Equal(t, "groq", c.Name())
	require.True(t, c.Available())
}

func TestGenerateMapsRequestAndResponse(t *testing.T) {
	api := &fakeChatAPI{
		response: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: domain.RoleAssistant, Content: "hello there"}},
			},
			Usage: openai.Usage{PromptTokens: 12, CompletionTokens: 7, TotalTokens: 19},
		},
	}
	c := newTestClient(api)

	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "be brief"},
		{Role: domain.RoleUser, Content: "say hello"},
	}
	res, err := c.Generate(context.Background(), messages, domain.GenerationOptions{
		Model:       "gpt-4o-mini",
		MaxTokens:   256,
		Temperature: 0.2,
	})
	require.NoError(t, err)

	require.Equal(t, "gpt-4o-mini", api.lastRequest.Model)
	require.Equal(t, 256, api.lastRequest.MaxTokens)
	require.Equal(t, float32(0.2), api.lastRequest.Temperature)
	require.Len(t, api.lastRequest.Messages, 2)
	require.Equal(t, domain.RoleSystem, api.lastRequest.Messages[0].Role)
	require.Equal(t, "say hello", api.lastRequest.Messages[1].Content)

	require.Equal(t, "hello there", res.Content)
	require.Equal(t, "gpt-4o-mini", res.Model)
	require.Equal(t, "openai", res.Provider)
	require.Equal(t, 12, res.TokenUsage[domain.TokenPrompt])
	require.Equal(t, 7, res.TokenUsage[domain.TokenCompletion])
	require.Equal(t, 19, res.TokenUsage[domain.TokenTotal])
}

func TestGenerateFallsBackToDefaultModel(t *testing.T) {
	api := &fakeChatAPI{
		response: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: domain.RoleAssistant, Content: "ok"}},
			},
		},
	}
	c := newTestClient(api).WithDefaultModel("gpt-4-turbo")

	res, err := c.Generate(context.Background(), []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}}, domain.GenerationOptions{})
	require.NoError(t, err)
	require.Equal(t, "gpt-4-turbo", api.lastRequest.Model)
	require.Equal(t, "gpt-4-turbo", res.Model)

	// An explicit model always wins over the configured default.
	_, err = c.Generate(context.Background(), nil, domain.GenerationOptions{Model: "gpt-4o-mini"})
	require.NoError(t, err)
	require.Equal(t, "gpt-4o-mini", api.lastRequest.Model)
}

func TestGenerateNoChoices(t *testing.T) {
	c := newTestClient(&fakeChatAPI{})
	_, err := c.Generate(context.Background(), []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}}, domain.GenerationOptions{Model: "gpt-4o-mini"})
	require.ErrorContains(t, err, "response has no choices")
}

func TestGenerateMapsRateLimit(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "api error", err: &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"}},
		{name: "request error", err: &openai.RequestError{HTTPStatusCode: http.StatusTooManyRequests, Err: errors.New("too many requests")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(&fakeChatAPI{chatErr: tt.err})
			_, err := c.Generate(context.Background(), nil, domain.GenerationOptions{Model: "gpt-4o-mini"})
			require.ErrorIs(t, err, domain.ErrUpstreamRateLimit)
		})
	}
}

func TestGenerateMapsDeadline(t *testing.T) {
	c := newTestClient(&fakeChatAPI{chatErr: context.DeadlineExceeded})
	_, err := c.Generate(context.Background(), nil, domain.GenerationOptions{Model: "gpt-4o-mini"})
	require.ErrorIs(t, err, domain.ErrUpstreamTimeout)
}

func TestGenerateWrapsOtherErrors(t *testing.T) {
	boom := errors.New("connection reset")
	c := newTestClient(&fakeChatAPI{chatErr: boom})
	_, err := c.Generate(context.Background(), nil, domain.GenerationOptions{Model: "gpt-4o-mini"})
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, domain.ErrUpstreamRateLimit)
	require.NotErrorIs(t, err, domain.ErrUpstreamTimeout)
}

func TestHealthCheck(t *testing.T) {
	c := newTestClient(&fakeChatAPI{})
	require.NoError(t, c.HealthCheck(context.Background()))

	c = newTestClient(&fakeChatAPI{listErr: errors.New("listing failed")})
	require.ErrorContains(t, c.HealthCheck(context.Background()), "listing failed")
}

func TestServerErrorKeepsStatus(t *testing.T) {
	c := newTestClient(&fakeChatAPI{chatErr: &openai.APIError{HTTPStatusCode: http.StatusInternalServerError, Message: "oops"}})
	_, err := c.Generate(context.Background(), nil, domain.GenerationOptions{Model: "gpt-4o-mini"})
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrUpstreamRateLimit)
}
