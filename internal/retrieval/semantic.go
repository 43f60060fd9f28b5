package retrieval

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/doc-analyzer/internal/document"
	"github.com/fyerfyer/doc-analyzer/internal/embedding"
)

// RankerConfig 语义排序配置
type RankerConfig struct {
	LexicalTopK    int     // 参与语义排序的关键词候选数
	FallbackBlocks int     // 关键词无命中时参与语义排序的前若干分块
	LexicalWeight  float64 // 关键词得分在最终得分中的权重
	MinSimilarity  float64 // 最终得分下限（不含）
}

// DefaultRankerConfig 返回默认语义排序配置
func DefaultRankerConfig() RankerConfig {
	return RankerConfig{
		LexicalTopK:    15,
		FallbackBlocks: 30,
		LexicalWeight:  0.1,
		MinSimilarity:  0.15,
	}
}

// SemanticRanker 语义重排序器
// 查询向量只计算一次，候选分块按顺序逐个计算向量，不并发
type SemanticRanker struct {
	embedder embedding.Client
	config   RankerConfig
	logger   *logrus.Logger
}

// RankerOption 语义排序器配置选项
type RankerOption func(*SemanticRanker)

// WithRankerConfig 设置排序参数
func WithRankerConfig(config RankerConfig) RankerOption {
	return func(r *SemanticRanker) {
		r.config = config
	}
}

// WithRankerLogger 设置日志记录器
func WithRankerLogger(logger *logrus.Logger) RankerOption {
	return func(r *SemanticRanker) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewSemanticRanker 创建语义排序器
func NewSemanticRanker(embedder embedding.Client, opts ...RankerOption) *SemanticRanker {
	r := &SemanticRanker{
		embedder: embedder,
		config:   DefaultRankerConfig(),
		logger:   logrus.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config 返回排序参数
func (r *SemanticRanker) Config() RankerConfig {
	return r.config
}

// Rank 对候选分块做语义重排序
// candidates 为关键词阶段的结果；为空时退回到文档的前 FallbackBlocks 个分块。
// 向量服务任何失败都会放弃语义阶段，原样返回关键词结果
func (r *SemanticRanker) Rank(ctx context.Context, query string, candidates []Candidate, allBlocks []document.Block) []Candidate {
	pool := r.selectPool(candidates, allBlocks)
	if len(pool) == 0 {
		return []Candidate{}
	}

	start := time.Now()
	ranked, err := r.rank(ctx, query, pool)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"model":      r.embedder.Name(),
			"candidates": len(pool),
			"error":      err.Error(),
		}).Warn("Semantic ranking failed, falling back to keyword results")
		return candidates
	}

	r.logger.WithFields(logrus.Fields{
		"candidates": len(pool),
		"relevant":   len(ranked),
		"elapsed":    time.Since(start).String(),
	}).Debug("Semantic ranking finished")
	return ranked
}

func (r *SemanticRanker) selectPool(candidates []Candidate, allBlocks []document.Block) []Candidate {
	if len(candidates) > 0 {
		n := min(len(candidates), r.config.LexicalTopK)
		return candidates[:n]
	}

	n := min(len(allBlocks), r.config.FallbackBlocks)
	pool := make([]Candidate, 0, n)
	for _, block := range allBlocks[:n] {
		pool = append(pool, Candidate{Block: block})
	}
	return pool
}

func (r *SemanticRanker) rank(ctx context.Context, query string, pool []Candidate) ([]Candidate, error) {
	queryVec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	ranked := make([]Candidate, 0, len(pool))
	for i, cand := range pool {
		r.logger.WithFields(logrus.Fields{
			"pass":  i + 1,
			"total": len(pool),
			"block": cand.Index(),
		}).Debug("Semantic pass")

		blockVec, err := r.embedder.Embed(ctx, cand.Text)
		if err != nil {
			return nil, err
		}

		sim, err := CosineSimilarity(queryVec, blockVec)
		if err != nil {
			return nil, err
		}

		final := sim + r.config.LexicalWeight*float64(cand.Lexical)
		if final > r.config.MinSimilarity {
			cand.Score = final
			ranked = append(ranked, cand)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}
