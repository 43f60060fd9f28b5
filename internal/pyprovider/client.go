package pyprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Client 是Python推理服务的HTTP客户端接口
type Client interface {
	// Get 发送GET请求
	Get(ctx context.Context, path string, result interface{}) error
	// Post 发送POST请求
	Post(ctx context.Context, path string, data interface{}, result interface{}) error
	// GetConfig 获取客户端配置
	GetConfig() *PyServiceConfig
}

// HTTPClient 实现了Python服务的HTTP客户端
type HTTPClient struct {
	client  *http.Client
	config  *PyServiceConfig
	headers map[string]string
	logger  *logrus.Logger
}

// APIError 表示API调用返回的错误
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Detail     string `json:"detail"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status code: %d): %s - %s", e.StatusCode, e.Message, e.Detail)
}

// Temporary 报告错误是否可能在重试后消失（服务启动中或模型加载中）
func (e *APIError) Temporary() bool {
	switch e.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// IsModelLoading 判断错误是否表示推理服务仍在加载模型
func IsModelLoading(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusServiceUnavailable ||
		strings.Contains(strings.ToLower(apiErr.Detail), "loading")
}

// NewClient 创建一个新的Python服务HTTP客户端
func NewClient(config *PyServiceConfig, logger *logrus.Logger) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		return nil, errors.New("python service base URL is required")
	}
	if logger == nil {
		logger = logrus.New()
	}

	client := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &HTTPClient{
		client: client,
		config: config,
		headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
			"User-Agent":   "Doc-Analyzer-Go-Client/1.0",
		},
		logger: logger,
	}, nil
}

// Get 发送GET请求到Python服务
func (c *HTTPClient) Get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Post 发送POST请求到Python服务
func (c *HTTPClient) Post(ctx context.Context, path string, data interface{}, result interface{}) error {
	var payload []byte
	if data != nil {
		var err error
		payload, err = json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
	}
	return c.do(ctx, http.MethodPost, path, payload, result)
}

// do 执行HTTP请求并在网络错误或服务暂不可用时重试
// 每次尝试都重新构造请求，保证请求体可以重复发送
func (c *HTTPClient) do(ctx context.Context, method, path string, payload []byte, result interface{}) error {
	url := c.config.BaseURL + path

	// 调用方未设置截止时间时使用默认超时
	if _, ok := ctx.Deadline(); !ok && c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("request context canceled: %w", ctx.Err())
			case <-time.After(c.config.RetryDelay * time.Duration(attempt)):
			}
		}

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		for key, value := range c.headers {
			req.Header.Set(key, value)
		}

		lastErr = c.send(req, result)
		if lastErr == nil {
			return nil
		}

		var apiErr *APIError
		if errors.As(lastErr, &apiErr) && !apiErr.Temporary() {
			return lastErr
		}

		c.logger.WithFields(logrus.Fields{
			"method":  method,
			"path":    path,
			"attempt": attempt + 1,
			"error":   lastErr.Error(),
		}).Debug("Python service request failed")
	}

	return lastErr
}

// send 发送单次请求并解析响应
func (c *HTTPClient) send(req *http.Request, result interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    "API call failed",
		}

		// 尝试解析错误详情
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail != "" {
			apiErr.Detail = errResp.Detail
		} else {
			apiErr.Detail = string(body)
		}
		return apiErr
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to unmarshal response JSON: %w", err)
		}
	}

	return nil
}

// GetConfig 返回客户端配置
func (c *HTTPClient) GetConfig() *PyServiceConfig {
	return c.config
}

// WithHeader 添加自定义请求头
func (c *HTTPClient) WithHeader(key, value string) *HTTPClient {
	c.headers[key] = value
	return c
}
