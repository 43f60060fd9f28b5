package embedding

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/doc-analyzer/internal/pyprovider"
)

// PythonClient 通过Python推理服务生成句向量
type PythonClient struct {
	config   *Config
	embedder *pyprovider.EmbeddingClient
	models   *pyprovider.ModelClient
	logger   *logrus.Logger
}

func init() {
	RegisterClient("python", func(opts ...Option) (Client, error) {
		return NewPythonClient(nil, opts...)
	})
}

// NewPythonClient 创建Python嵌入客户端
// logger为nil时使用默认logger
func NewPythonClient(logger *logrus.Logger, opts ...Option) (*PythonClient, error) {
	cfg := NewConfig(opts...)
	if logger == nil {
		logger = logrus.New()
	}

	pyCfg := pyprovider.DefaultConfig().
		WithBaseURL(cfg.BaseURL).
		WithTimeout(cfg.Timeout).
		WithLoadTimeout(cfg.LoadTimeout)
	pyCfg.MaxRetries = cfg.MaxRetries

	httpClient, err := pyprovider.NewClient(pyCfg, logger)
	if err != nil {
		return nil, NewEmbeddingError(ErrCodeInvalidRequest, err.Error())
	}

	return &PythonClient{
		config:   cfg,
		embedder: pyprovider.NewEmbeddingClient(httpClient),
		models:   pyprovider.NewModelClient(httpClient),
		logger:   logger,
	}, nil
}

// Warmup 要求推理服务加载嵌入模型
func (c *PythonClient) Warmup(ctx context.Context) error {
	resp, err := c.models.Load(ctx, pyprovider.TaskFeatureExtraction, c.config.Model)
	if err != nil {
		return c.wrapError(err)
	}

	c.logger.WithFields(logrus.Fields{
		"model":        c.config.Model,
		"cached":       resp.Cached,
		"load_time_ms": resp.LoadTimeMs,
	}).Info("Embedding model loaded")
	return nil
}

// Embed 生成单条文本的向量表示
func (c *PythonClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	vec, err := c.embedder.Embed(ctx, text, pyprovider.EmbedOptions{
		Model:     c.config.Model,
		Pooling:   c.config.Pooling,
		Normalize: c.config.Normalize,
	})
	if err != nil {
		return nil, c.wrapError(err)
	}

	if len(vec) == 0 {
		return nil, ErrEmptyVector
	}
	if c.config.Dimensions > 0 && len(vec) != c.config.Dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnexpectedShape, len(vec), c.config.Dimensions)
	}

	for _, v := range vec {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, NewEmbeddingError(ErrCodeServerError, "embedding contains non-finite values")
		}
	}

	return vec, nil
}

// Name 返回模型名称
func (c *PythonClient) Name() string {
	return c.config.Model
}

func (c *PythonClient) wrapError(err error) error {
	if pyprovider.IsModelLoading(err) {
		return fmt.Errorf("%w: %w", NewEmbeddingError(ErrCodeNotReady, "embedding model is still loading"), err)
	}
	return fmt.Errorf("%w: %w", NewEmbeddingError(ErrCodeNetworkError, "embedding request failed"), err)
}
