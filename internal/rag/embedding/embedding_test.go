package embedding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIEmbedder(t *testing.T) {
	t.Run("missing API key", func(t *testing.T) {
		_, err := NewOpenAIEmbedder("", "", "text-embedding-3-small", time.Minute)
		assert.Error(t, err)
	})
}

func TestEmbed(t *testing.T) {
	t.Run("vectors are returned in input order", func(t *testing.T) {
		// The response lists the second input first; Embed must reorder by index
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"object":"list","model":"m","data":[{"object":"embedding","index":1,"embedding":[3,4]},{"object":"embedding","index":0,"embedding":[1,2]}],"usage":{"prompt_tokens":1,"total_tokens":1}}`))
		}))
		t.Cleanup(server.Close)

		embedder, err := NewOpenAIEmbedder("key", server.URL, "text-embedding-3-small", time.Minute)
		require.NoError(t, err)

		vectors, err := embedder.Embed(context.Background(), []string{"first", "second"})
		require.NoError(t, err)

		require.Len(t, vectors, 2)
		assert.Equal(t, []float64{1, 2}, vectors[0])
		assert.Equal(t, []float64{3, 4}, vectors[1])
		assert.Equal(t, 2, embedder.Dimension())
	})

	t.Run("vector count mismatch fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"object":"list","model":"m","data":[{"object":"embedding","index":0,"embedding":[1,2]}],"usage":{"prompt_tokens":1,"total_tokens":1}}`))
		}))
		t.Cleanup(server.Close)

		embedder, err := NewOpenAIEmbedder("key", server.URL, "text-embedding-3-small", time.Minute)
		require.NoError(t, err)

		_, err = embedder.Embed(context.Background(), []string{"first", "second"})
		assert.Error(t, err)
	})

	t.Run("no texts is a no-op", func(t *testing.T) {
		embedder, err := NewOpenAIEmbedder("key", "", "text-embedding-3-small", time.Minute)
		require.NoError(t, err)

		vectors, err := embedder.Embed(context.Background(), nil)
		require.NoError(t, err)
		assert.Nil(t, vectors)
	})

	t.Run("slow upstream is cut off by the configured timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(func() {
			close(release)
			server.Close()
		})

		embedder, err := NewOpenAIEmbedder("key", server.URL, "text-embedding-3-small", 50*time.Millisecond)
		require.NoError(t, err)

		_, err = embedder.Embed(context.Background(), []string{"first"})
		assert.Error(t, err)
	})

	t.Run("unavailable sentinel always fails", func(t *testing.T) {
		_, err := Unavailable{}.Embed(context.Background(), []string{"first"})
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Equal(t, 0, Unavailable{}.Dimension())
	})
}
