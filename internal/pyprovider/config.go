package pyprovider

import (
	"time"
)

// PyServiceConfig 存储Python推理服务连接配置
type PyServiceConfig struct {
	BaseURL     string        // Python服务基础URL
	Timeout     time.Duration // 单次请求超时时间
	LoadTimeout time.Duration // 模型加载请求超时时间（首次加载需要下载权重）
	MaxRetries  int           // 最大重试次数
	RetryDelay  time.Duration // 重试间隔（按次数线性增加）
	EnableTLS   bool          // 是否启用TLS
}

// DefaultConfig 返回默认配置
func DefaultConfig() *PyServiceConfig {
	return &PyServiceConfig{
		BaseURL:     "http://localhost:8000/api",
		Timeout:     30 * time.Second,
		LoadTimeout: 5 * time.Minute,
		MaxRetries:  2,
		RetryDelay:  time.Second,
		EnableTLS:   false,
	}
}

// WithBaseURL 设置基础URL
func (c *PyServiceConfig) WithBaseURL(url string) *PyServiceConfig {
	c.BaseURL = url
	return c
}

// WithTimeout 设置请求超时时间
func (c *PyServiceConfig) WithTimeout(timeout time.Duration) *PyServiceConfig {
	c.Timeout = timeout
	return c
}

// WithLoadTimeout 设置模型加载超时时间
func (c *PyServiceConfig) WithLoadTimeout(timeout time.Duration) *PyServiceConfig {
	c.LoadTimeout = timeout
	return c
}

// WithRetry 设置重试参数
func (c *PyServiceConfig) WithRetry(maxRetries int, retryDelay time.Duration) *PyServiceConfig {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
	return c
}
