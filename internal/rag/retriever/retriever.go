package retriever

import (
	"context"
	"fmt"

	"github.com/ethanbaker/ytchat/internal/rag/embedding"
	"github.com/ethanbaker/ytchat/internal/rag/vectorstore"
)

// DefaultK is the number of segments retrieved when no k is given
const DefaultK = 4

// Retriever embeds a query and returns the most similar indexed segments
type Retriever struct {
	index    *vectorstore.Index
	embedder embedding.Embedder
	defaultK int
}

// New creates a retriever over the given index. A non-positive defaultK falls
// back to DefaultK
func New(index *vectorstore.Index, embedder embedding.Embedder, defaultK int) *Retriever {
	if defaultK <= 0 {
		defaultK = DefaultK
	}
	return &Retriever{index: index, embedder: embedder, defaultK: defaultK}
}

// Retrieve embeds query and returns the text of the k nearest segments in
// ranked order. k <= 0 uses the retriever's default
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	if k <= 0 {
		k = r.defaultK
	}

	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected one query embedding, got %d", len(vectors))
	}

	results, err := r.index.Query(vectors[0], k)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(results))
	for i, res := range results {
		texts[i] = res.Segment.Text
	}
	return texts, nil
}
