// Package extractive 提供抽取式问答模型客户端
package extractive

import (
	"context"
	"time"
)

// Client 抽取式问答客户端接口
// 从给定上下文中选出回答问题的一段原文，并给出置信度
type Client interface {
	// Answer 在上下文中抽取答案片段
	Answer(ctx context.Context, question, passage string) (*Result, error)

	// Name 返回模型名称
	Name() string
}

// Result 抽取结果
type Result struct {
	Text  string  `json:"answer"` // 答案片段
	Score float64 `json:"score"`  // 置信度，范围[0,1]
	Start int     `json:"start"`  // 片段在上下文中的起始偏移
	End   int     `json:"end"`    // 片段在上下文中的结束偏移
}

// Config 问答客户端配置
type Config struct {
	BaseURL     string        // 推理服务基础URL
	Model       string        // 模型名称
	Timeout     time.Duration // 请求超时时间
	LoadTimeout time.Duration // 模型加载超时时间
	MaxRetries  int           // 最大重试次数
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "http://localhost:8000/api",
		Model:       "distilbert-base-cased-distilled-squad",
		Timeout:     60 * time.Second,
		MaxRetries:  2,
		LoadTimeout: 5 * time.Minute,
	}
}

// Option 客户端配置选项函数类型
type Option func(*Config)

// WithBaseURL 设置推理服务基础URL
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithModel 设置模型名称
func WithModel(model string) Option {
	return func(c *Config) {
		c.Model = model
	}
}

// WithTimeout 设置请求超时时间
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithLoadTimeout 设置模型加载超时时间
func WithLoadTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.LoadTimeout = timeout
	}
}

// WithMaxRetries 设置最大重试次数
func WithMaxRetries(retries int) Option {
	return func(c *Config) {
		c.MaxRetries = retries
	}
}

// NewConfig 创建一个新的配置并应用选项
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Factory 问答客户端工厂函数类型
type Factory func(opts ...Option) (Client, error)

// 全局注册的问答客户端工厂函数
var clientFactories = make(map[string]Factory)

// RegisterClient 注册问答客户端工厂函数
func RegisterClient(name string, factory Factory) {
	clientFactories[name] = factory
}

// NewClient 根据名称创建问答客户端
func NewClient(name string, opts ...Option) (Client, error) {
	factory, exists := clientFactories[name]
	if !exists {
		return nil, NewQAError(
			ErrCodeInvalidRequest,
			"qa client type not registered: "+name)
	}
	return factory(opts...)
}
