package pyprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingClientEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/python/embeddings", r.URL.Path)
		assert.Equal(t, "all-MiniLM-L6-v2", r.URL.Query().Get("model"))
		assert.Equal(t, "mean", r.URL.Query().Get("pooling"))
		assert.Equal(t, "true", r.URL.Query().Get("normalize"))

		var req EmbeddingRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello world", req.Text)

		_ = json.NewEncoder(w).Encode(EmbeddingResponse{
			Success:    true,
			Model:      "all-MiniLM-L6-v2",
			Dimension:  3,
			Embedding:  []float32{0.6, 0.8, 0},
			Normalized: true,
		})
	}))
	defer server.Close()

	client := NewEmbeddingClient(newTestClient(t, server, 0))

	vec, err := client.Embed(context.Background(), "hello world", EmbedOptions{
		Model:     "all-MiniLM-L6-v2",
		Normalize: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.6, 0.8, 0}, vec)
}

func TestEmbeddingClientRejectsEmptyText(t *testing.T) {
	client := NewEmbeddingClient(nil)
	_, err := client.Embed(context.Background(), "", EmbedOptions{})
	assert.Error(t, err)
}

func TestEmbeddingClientFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer server.Close()

	client := NewEmbeddingClient(newTestClient(t, server, 0))
	_, err := client.Embed(context.Background(), "text", EmbedOptions{})
	assert.Error(t, err)
}
