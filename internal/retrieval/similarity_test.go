package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 2}, []float32{-1, -2}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"scaled", []float32{1, 1}, []float32{3, 3}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestCosineSimilaritySymmetricAndBounded(t *testing.T) {
	vectors := [][]float32{
		{0.1, 0.9, -0.3},
		{-5, 2, 7},
		{1e-3, 1e-3, 1e-3},
		{0.577, 0.577, 0.577},
	}

	for _, a := range vectors {
		self, err := CosineSimilarity(a, a)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, self, 1e-9)
		assert.LessOrEqual(t, self, 1.0)

		for _, b := range vectors {
			ab, err := CosineSimilarity(a, b)
			require.NoError(t, err)
			ba, err := CosineSimilarity(b, a)
			require.NoError(t, err)

			assert.Equal(t, ab, ba)
			assert.GreaterOrEqual(t, ab, -1.0)
			assert.LessOrEqual(t, ab, 1.0)
		}
	}
}

func TestCosineSimilarityDimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}
