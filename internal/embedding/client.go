package embedding

import (
	"context"
	"time"
)

// Client 嵌入模型客户端接口
// 负责将文本转换为固定维度、均值池化并L2归一化的向量
type Client interface {
	// Embed 生成单条文本的向量表示
	Embed(ctx context.Context, text string) ([]float32, error)

	// Name 返回模型名称
	Name() string
}

// Config 嵌入客户端配置
type Config struct {
	BaseURL     string        // 推理服务基础URL
	Model       string        // 模型名称
	Timeout     time.Duration // 请求超时时间
	LoadTimeout time.Duration // 模型加载超时时间
	MaxRetries  int           // 最大重试次数
	Dimensions  int           // 向量维度（0表示不校验）
	Pooling     string        // 池化方式
	Normalize   bool          // 是否归一化
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

// WithDimensions 设置向量维度
func WithDimensions(dimensions int) Option {
	return func(c *Config) {
		c.Dimensions = dimensions
	}
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "http://localhost:8000/api",
		Model:       "sentence-transformers/all-MiniLM-L6-v2",
		Timeout:     30 * time.Second,
		MaxRetries:  2,
		LoadTimeout: 5 * time.Minute,
		Dimensions:  384,
		Pooling:     "mean",
		Normalize:   true,
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

// Factory 嵌入客户端工厂函数类型
type Factory func(opts ...Option) (Client, error)

// 全局注册的嵌入客户端工厂函数
var clientFactories = make(map[string]Factory)

// RegisterClient 注册嵌入客户端工厂函数
func RegisterClient(name string, factory Factory) {
	clientFactories[name] = factory
}

// NewClient 根据名称创建嵌入客户端
func NewClient(name string, opts ...Option) (Client, error) {
	factory, exists := clientFactories[name]
	if !exists {
		return nil, NewEmbeddingError(
			ErrCodeInvalidRequest,
			"embedding client type not registered: "+name)
	}
	return factory(opts...)
}
