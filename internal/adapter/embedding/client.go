// Package embedding provides the OpenAI embeddings client backing the
// semantic memory index. Vectors come from text-embedding-3-small
// (1536 dimensions), matching the Qdrant collection schema.
package embedding

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

// Dimensions is the vector width of the embedding model.
const Dimensions = 1536

// API is the subset of the go-openai client the adapter uses.
type API interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Client implements domain.Embedder over the OpenAI embeddings API.
type Client struct {
	api     API
	model   openai.EmbeddingModel
	timeout time.Duration
}

// New builds the embeddings client for the given model (empty means
// text-embedding-3-small). A missing key leaves it non-functional;
// memory search then degrades to the Postgres fallback.
func New(apiKey, model string) *Client {
	c := &Client{model: openai.EmbeddingModel(model), timeout: callTimeout}
	if model == "" {
		c.model = openai.SmallEmbedding3
	}
	if apiKey == "" {
		slog.Warn("openai api key missing, embeddings unavailable")
		return c
	}
	c.api = openai.NewClient(apiKey)
	return c
}

// Embed converts texts to vectors, preserving input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	if c.api == nil {
		return nil, fmt.Errorf("op=embedding.Embed: client not configured: %w", domain.ErrInternal)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: c.model,
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("op=embedding.Embed: got %d vectors for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, d := range resp.Data {
		idx := d.Index
		if idx < 0 || idx >= len(vectors) {
			idx = i
		}
		vectors[idx] = d.Embedding
	}
	return vectors, nil
}

func wrapErr(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("op=embedding.Embed: %w: %w", domain.ErrUpstreamRateLimit, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("op=embedding.Embed: %w: %w", domain.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("op=embedding.Embed: %w", err)
}
