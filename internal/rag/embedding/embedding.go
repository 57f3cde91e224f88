package embedding

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// ErrUnavailable is returned when the embedding model failed to load at
// startup. Calls fail outright instead of attempting a degraded computation
var ErrUnavailable = errors.New("embedding model is not available")

// Embedder maps text to fixed-length numeric vectors. Embedding is a pure
// function of the text content. Implementations must be safe for concurrent use
type Embedder interface {
	// Embed returns one vector per input text, in input order
	Embed(ctx context.Context, texts []string) ([][]float64, error)

	// Dimension returns the vector dimensionality, or 0 if not yet known
	Dimension() int
}

// OpenAIEmbedder produces embeddings through an OpenAI-compatible API.
// It is constructed once per process and shared across all requests
type OpenAIEmbedder struct {
	client    openai.Client
	model     string
	dimension atomic.Int64
}

// NewOpenAIEmbedder creates an embedder against the given OpenAI-compatible
// endpoint. The API key is required; a positive timeout bounds every
// embedding request
func NewOpenAIEmbedder(apiKey, baseURL, model string, timeout time.Duration) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, errors.New("missing embedding API key")
	}
	if model == "" {
		model = string(openai.EmbeddingModelTextEmbedding3Small)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}

	return &OpenAIEmbedder{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// Embed requests embeddings for all texts in a single batch call
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response has %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(resp.Data))
	for _, item := range resp.Data {
		i := int(item.Index)
		if i < 0 || i >= len(vectors) {
			return nil, fmt.Errorf("embedding response index %d out of range", i)
		}
		vectors[i] = item.Embedding
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return nil, fmt.Errorf("no embedding returned for input %d", i)
		}
	}
	e.dimension.CompareAndSwap(0, int64(len(vectors[0])))

	return vectors, nil
}

// Dimension returns the vector dimensionality observed on the first call
func (e *OpenAIEmbedder) Dimension() int { return int(e.dimension.Load()) }

// Unavailable is the sentinel Embedder installed when the real model fails to
// load. Every call fails with ErrUnavailable
type Unavailable struct{}

func (Unavailable) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	return nil, ErrUnavailable
}

func (Unavailable) Dimension() int { return 0 }
