package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/doc-analyzer/internal/cache"
	"github.com/fyerfyer/doc-analyzer/internal/document"
	"github.com/fyerfyer/doc-analyzer/internal/embedding"
	"github.com/fyerfyer/doc-analyzer/internal/extractive"
	"github.com/fyerfyer/doc-analyzer/internal/retrieval"
)

// Warmer 可预热的推理后端
type Warmer interface {
	EnsureReady(ctx context.Context) error
	Ready() bool
}

// Analyzer 单文档问答流水线
// 依次执行分块、关键词预筛选、语义排序和答案合成，任何情况下都返回可展示的文本
type Analyzer struct {
	embedder    embedding.Client
	qa          extractive.Client
	chunker     document.Chunker
	ranker      *retrieval.SemanticRanker
	synthesizer *Synthesizer

	cache         cache.Cache   // 分块结果缓存，可为空
	blockCacheTTL time.Duration // 分块缓存有效期

	rankerConfig retrieval.RankerConfig
	synthConfig  SynthesizerConfig
	logger       *logrus.Logger
}

// AnalyzerOption 问答流水线配置选项
type AnalyzerOption func(*Analyzer)

// WithChunker 设置分块器
func WithChunker(chunker document.Chunker) AnalyzerOption {
	return func(a *Analyzer) {
		a.chunker = chunker
	}
}

// WithBlockCache 设置分块结果缓存
func WithBlockCache(c cache.Cache, ttl time.Duration) AnalyzerOption {
	return func(a *Analyzer) {
		a.cache = c
		a.blockCacheTTL = ttl
	}
}

// WithRankerConfig 设置语义排序参数
func WithRankerConfig(config retrieval.RankerConfig) AnalyzerOption {
	return func(a *Analyzer) {
		a.rankerConfig = config
	}
}

// WithSynthesizerSettings 设置答案合成参数
func WithSynthesizerSettings(config SynthesizerConfig) AnalyzerOption {
	return func(a *Analyzer) {
		a.synthConfig = config
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *logrus.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer 创建问答流水线
func NewAnalyzer(embedder embedding.Client, qa extractive.Client, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		embedder:      embedder,
		qa:            qa,
		chunker:       document.NewSentenceChunker(document.DefaultChunkerConfig()),
		blockCacheTTL: time.Hour,
		rankerConfig:  retrieval.DefaultRankerConfig(),
		synthConfig:   DefaultSynthesizerConfig(),
		logger:        logrus.New(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.ranker = retrieval.NewSemanticRanker(embedder,
		retrieval.WithRankerConfig(a.rankerConfig),
		retrieval.WithRankerLogger(a.logger),
	)
	a.synthesizer = NewSynthesizer(qa,
		WithSynthesizerConfig(a.synthConfig),
		WithSynthesizerLogger(a.logger),
	)
	return a
}

// AnswerQuery 回答关于文档的问题
// 不返回错误也不会panic：后端失败统一转换为提示信息
func (a *Analyzer) AnswerQuery(ctx context.Context, query, documentText string) (answer string) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			a.logger.WithFields(logrus.Fields{
				"panic": fmt.Sprint(r),
				"stack": string(debug.Stack()),
			}).Error("Document analysis panicked")
			answer = MsgBackendUnavailable
		}
		a.logger.WithFields(logrus.Fields{
			"elapsed": time.Since(start).String(),
		}).Info("Document analysis finished")
	}()

	blocks := a.Blocks(ctx, documentText)
	if len(blocks) == 0 {
		return MsgUnreadableDocument
	}
	if strings.TrimSpace(query) == "" {
		return MsgEmptyQuestion
	}

	lexical := retrieval.LexicalScore(query, blocks)
	ranked := a.ranker.Rank(ctx, query, lexical, blocks)

	a.logger.WithFields(logrus.Fields{
		"blocks":   len(blocks),
		"lexical":  len(lexical),
		"relevant": len(ranked),
	}).Debug("Retrieval finished")

	resp, err := a.synthesizer.Synthesize(ctx, query, ranked)
	if err != nil {
		a.logger.WithFields(logrus.Fields{
			"model": a.qa.Name(),
			"error": err.Error(),
		}).Error("Answer synthesis failed")
		return MsgBackendUnavailable
	}
	return resp
}

// Blocks 返回文档的分块结果
// 结果按文档内容哈希缓存；缓存不可用时直接重新分块
func (a *Analyzer) Blocks(ctx context.Context, documentText string) []document.Block {
	if strings.TrimSpace(documentText) == "" {
		return nil
	}
	if a.cache == nil {
		return a.chunker.Chunk(documentText)
	}

	key := cache.GenerateCacheKey("blocks", cache.ContentHash(documentText))
	if cached, found, err := a.cache.Get(ctx, key); err == nil && found {
		var blocks []document.Block
		if err := json.Unmarshal([]byte(cached), &blocks); err == nil {
			return blocks
		}
		a.logger.WithField("key", key).Warn("Discarding undecodable cached blocks")
	} else if err != nil {
		a.logger.WithField("error", err.Error()).Warn("Block cache lookup failed")
	}

	blocks := a.chunker.Chunk(documentText)
	if data, err := json.Marshal(blocks); err == nil {
		if err := a.cache.Set(ctx, key, string(data), a.blockCacheTTL); err != nil {
			a.logger.WithField("error", err.Error()).Warn("Failed to cache blocks")
		}
	}
	return blocks
}

// Warmup 初始化两个推理后端
func (a *Analyzer) Warmup(ctx context.Context) error {
	var errs []error
	for _, w := range a.warmers() {
		if err := w.EnsureReady(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Ready 报告推理后端是否都已初始化
func (a *Analyzer) Ready() bool {
	for _, w := range a.warmers() {
		if !w.Ready() {
			return false
		}
	}
	return true
}

func (a *Analyzer) warmers() []Warmer {
	var ws []Warmer
	if w, ok := a.embedder.(Warmer); ok {
		ws = append(ws, w)
	}
	if w, ok := a.qa.(Warmer); ok {
		ws = append(ws, w)
	}
	return ws
}
