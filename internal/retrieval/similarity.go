package retrieval

import (
	"errors"
	"fmt"
	"math"
)

// ErrDimensionMismatch 向量维度不一致
var ErrDimensionMismatch = errors.New("vector dimensions do not match")

// CosineSimilarity 计算两个向量的余弦相似度
// 分母为0时按1处理，结果截断到[-1, 1]
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		denom = 1
	}

	return math.Max(-1, math.Min(1, dot/denom)), nil
}
