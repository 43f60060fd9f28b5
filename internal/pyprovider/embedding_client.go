package pyprovider

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// EmbeddingClient 是Python嵌入服务的客户端
type EmbeddingClient struct {
	client Client
}

// EmbeddingRequest 表示单个文本的嵌入请求
type EmbeddingRequest struct {
	Text string `json:"text"`
}

// EmbeddingResponse 表示单个文本的嵌入响应
type EmbeddingResponse struct {
	Success       bool      `json:"success"`
	Model         string    `json:"model"`
	Dimension     int       `json:"dimension"`
	Embedding     []float32 `json:"embedding"`
	Normalized    bool      `json:"normalized"`
	TextLength    int       `json:"text_length"`
	ProcessTimeMs int       `json:"process_time_ms"`
}

// EmbedOptions 嵌入请求参数
type EmbedOptions struct {
	Model     string // 模型名称
	Pooling   string // 池化方式，默认mean
	Normalize bool   // 是否L2归一化
}

// NewEmbeddingClient 创建一个新的嵌入客户端
func NewEmbeddingClient(client Client) *EmbeddingClient {
	return &EmbeddingClient{
		client: client,
	}
}

// Embed 使用指定参数将单个文本转换为嵌入向量
func (c *EmbeddingClient) Embed(ctx context.Context, text string, opts EmbedOptions) ([]float32, error) {
	if text == "" {
		return nil, errors.New("empty text provided for embedding")
	}

	reqPath := "/python/embeddings?" + embedQuery(opts).Encode()

	var response EmbeddingResponse
	if err := c.client.Post(ctx, reqPath, EmbeddingRequest{Text: text}, &response); err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if !response.Success {
		return nil, errors.New("embedding generation failed: API returned failure status")
	}

	return response.Embedding, nil
}

func embedQuery(opts EmbedOptions) url.Values {
	q := url.Values{}
	model := opts.Model
	if model == "" {
		model = "default"
	}
	q.Set("model", model)

	pooling := opts.Pooling
	if pooling == "" {
		pooling = "mean"
	}
	q.Set("pooling", pooling)

	if opts.Normalize {
		q.Set("normalize", "true")
	}
	return q
}
