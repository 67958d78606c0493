package embedding

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

type fakeAPI struct {
	lastRequest openai.EmbeddingRequestConverter
	response    openai.EmbeddingResponse
	err         error
}

func (f *fakeAPI) CreateEmbeddings(_ context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	f.lastRequest = conv
	return f.response, f.err
}

func newTestClient(api API) *Client {
	return &Client{api: api, model: openai.SmallEmbedding3, timeout: time.Second}
}

func TestEmbedMapsVectors(t *testing.T) {
	api := &fakeAPI{
		response: openai.EmbeddingResponse{
			Data: []openai.Embedding{
				{Index: 0, Embedding: []float32{0.1, 0.2}},
				{Index: 1, Embedding: []float32{0.3, 0.4}},
			},
		},
	}
	c := newTestClient(api)

	vectors, err := c.Embed(context.Background(), []string{"alpha", "beta"})
	require.NoError(t, err)
	require.Equal(t, [][]float32{{0.1, 0.2}, {0.3, 0.4}}, vectors)

	req, ok := api.lastRequest.(openai.EmbeddingRequestStrings)
	require.True(t, ok)
	require.Equal(t, []string{"alpha", "beta"}, req.Input)
	require.Equal(t, openai.SmallEmbedding3, req.Model)
}

func TestEmbedRestoresIndexOrder(t *testing.T) {
	api := &fakeAPI{
		response: openai.EmbeddingResponse{
			Data: []openai.Embedding{
				{Index: 1, Embedding: []float32{0.3}},
				{Index: 0, Embedding: []float32{0.1}},
			},
		},
	}
	vectors, err := newTestClient(api).Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Equal(t, [][]float32{{0.1}, {0.3}}, vectors)
}

func TestEmbedEmptyInput(t *testing.T) {
	vectors, err := newTestClient(&fakeAPI{}).Embed(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, vectors)
}

func TestEmbedCountMismatch(t *testing.T) {
	api := &fakeAPI{
		response: openai.EmbeddingResponse{Data: []openai.Embedding{{Index: 0, Embedding: []float32{0.1}}}},
	}
	_, err := newTestClient(api).Embed(context.Background(), []string{"a", "b"})
	require.ErrorContains(t, err, "got 1 vectors for 2 texts")
}

func TestEmbedWithoutKey(t *testing.T) {
	c := New("", "")
	_, err := c.Embed(context.Background(), []string{"a"})
	require.ErrorIs(t, err, domain.ErrInternal)
}

func TestNewModelSelection(t *testing.T) {
	require.Equal(t, openai.SmallEmbedding3, New("key", "").model)
	require.Equal(t, openai.EmbeddingModel("text-embedding-3-large"), New("key", "text-embedding-3-large").model)
}

func TestEmbedMapsRateLimit(t *testing.T) {
	api := &fakeAPI{err: &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}}
	_, err := newTestClient(api).Embed(context.Background(), []string{"a"})
	require.ErrorIs(t, err, domain.ErrUpstreamRateLimit)
}

func TestEmbedWrapsOtherErrors(t *testing.T) {
	boom := errors.New("wire broke")
	api := &fakeAPI{err: boom}
	_, err := newTestClient(api).Embed(context.Background(), []string{"a"})
	require.ErrorIs(t, err, boom)
}
