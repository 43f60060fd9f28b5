package pyprovider

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// QAClient 是Python抽取式问答服务的客户端
type QAClient struct {
	client Client
}

// QARequest 表示抽取式问答请求
type QARequest struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

// QAResponse 表示抽取式问答响应
// Start和End是答案在上下文中的字符偏移
type QAResponse struct {
	Success       bool    `json:"success"`
	Model         string  `json:"model"`
	Answer        string  `json:"answer"`
	Score         float64 `json:"score"`
	Start         int     `json:"start"`
	End           int     `json:"end"`
	ProcessTimeMs int     `json:"process_time_ms"`
}

// NewQAClient 创建一个新的问答客户端
func NewQAClient(client Client) *QAClient {
	return &QAClient{
		client: client,
	}
}

// Answer 从上下文中抽取问题的答案片段
func (c *QAClient) Answer(ctx context.Context, model, question, passage string) (*QAResponse, error) {
	if question == "" {
		return nil, errors.New("empty question provided for answering")
	}
	if passage == "" {
		return nil, errors.New("empty context provided for answering")
	}
	if model == "" {
		model = "default"
	}

	reqPath := "/python/qa?model=" + url.QueryEscape(model)

	var response QAResponse
	req := QARequest{Question: question, Context: passage}
	if err := c.client.Post(ctx, reqPath, req, &response); err != nil {
		return nil, fmt.Errorf("failed to answer question: %w", err)
	}

	if !response.Success {
		return nil, errors.New("question answering failed: API returned failure status")
	}

	return &response, nil
}
