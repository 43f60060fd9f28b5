package pyprovider

import (
	"context"
	"errors"
	"fmt"
)

// 推理服务支持的任务类型
const (
	TaskFeatureExtraction  = "feature-extraction"
	TaskQuestionAnswering = "question-answering"
)

// ModelClient 管理推理服务中的模型加载
type ModelClient struct {
	client Client
}

// LoadRequest 表示模型加载请求
type LoadRequest struct {
	Task  string `json:"task"`
	Model string `json:"model"`
}

// LoadResponse 表示模型加载响应
type LoadResponse struct {
	Success    bool   `json:"success"`
	Task       string `json:"task"`
	Model      string `json:"model"`
	Cached     bool   `json:"cached"`
	LoadTimeMs int    `json:"load_time_ms"`
}

// NewModelClient 创建模型管理客户端
func NewModelClient(client Client) *ModelClient {
	return &ModelClient{
		client: client,
	}
}

// Load 要求推理服务加载指定模型，首次加载可能需要下载权重
func (c *ModelClient) Load(ctx context.Context, task, model string) (*LoadResponse, error) {
	if task == "" || model == "" {
		return nil, errors.New("task and model are required to load a model")
	}

	timeout := c.client.GetConfig().LoadTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var response LoadResponse
	if err := c.client.Post(ctx, "/python/models/load", LoadRequest{Task: task, Model: model}, &response); err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", model, err)
	}

	if !response.Success {
		return nil, fmt.Errorf("model %s failed to load: API returned failure status", model)
	}

	return &response, nil
}
