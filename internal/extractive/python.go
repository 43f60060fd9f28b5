package extractive

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/doc-analyzer/internal/pyprovider"
)

// PythonClient 通过Python推理服务执行抽取式问答
type PythonClient struct {
	config *Config
	qa     *pyprovider.QAClient
	models *pyprovider.ModelClient
	logger *logrus.Logger
}

func init() {
	RegisterClient("python", func(opts ...Option) (Client, error) {
		return NewPythonClient(nil, opts...)
	})
}

// NewPythonClient 创建Python问答客户端
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
		return nil, NewQAError(ErrCodeInvalidRequest, err.Error())
	}

	return &PythonClient{
		config: cfg,
		qa:     pyprovider.NewQAClient(httpClient),
		models: pyprovider.NewModelClient(httpClient),
		logger: logger,
	}, nil
}

// Warmup 要求推理服务加载问答模型
func (c *PythonClient) Warmup(ctx context.Context) error {
	resp, err := c.models.Load(ctx, pyprovider.TaskQuestionAnswering, c.config.Model)
	if err != nil {
		return c.wrapError(err)
	}

	c.logger.WithFields(logrus.Fields{
		"model":        c.config.Model,
		"cached":       resp.Cached,
		"load_time_ms": resp.LoadTimeMs,
	}).Info("QA model loaded")
	return nil
}

// Answer 在上下文中抽取答案片段
func (c *PythonClient) Answer(ctx context.Context, question, passage string) (*Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if strings.TrimSpace(passage) == "" {
		return nil, ErrEmptyContext
	}

	resp, err := c.qa.Answer(ctx, c.config.Model, question, passage)
	if err != nil {
		return nil, c.wrapError(err)
	}

	score := resp.Score
	if math.IsNaN(score) {
		score = 0
	}
	score = math.Max(0, math.Min(1, score))

	return &Result{
		Text:  resp.Answer,
		Score: score,
		Start: resp.Start,
		End:   resp.End,
	}, nil
}

// Name 返回模型名称
func (c *PythonClient) Name() string {
	return c.config.Model
}

func (c *PythonClient) wrapError(err error) error {
	if pyprovider.IsModelLoading(err) {
		return fmt.Errorf("%w: %w", NewQAError(ErrCodeNotReady, "qa model is still loading"), err)
	}
	return fmt.Errorf("%w: %w", NewQAError(ErrCodeNetworkError, "qa request failed"), err)
}
