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

func TestModelClientLoad(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/python/models/load", r.URL.Path)

		var req LoadRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, TaskFeatureExtraction, req.Task)

		_ = json.NewEncoder(w).Encode(LoadResponse{
			Success: true,
			Task:    req.Task,
			Model:   req.Model,
			Cached:  true,
		})
	}))
	defer server.Close()

	client := NewModelClient(newTestClient(t, server, 0))
	resp, err := client.Load(context.Background(), TaskFeatureExtraction, "all-MiniLM-L6-v2")
	require.NoError(t, err)
	assert.True(t, resp.Cached)
	assert.Equal(t, "all-MiniLM-L6-v2", resp.Model)
}

func TestModelClientLoadRequiresModel(t *testing.T) {
	client := NewModelClient(nil)
	_, err := client.Load(context.Background(), TaskQuestionAnswering, "")
	assert.Error(t, err)
}
