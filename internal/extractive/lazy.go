package extractive

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/doc-analyzer/internal/backend"
)

// LazyClient 惰性初始化的问答客户端
type LazyClient struct {
	model    string
	resource *backend.Lazy[Client]
}

// NewLazyClient 创建惰性问答客户端
func NewLazyClient(model string, init backend.InitFunc[Client], logger *logrus.Logger) *LazyClient {
	return &LazyClient{
		model:    model,
		resource: backend.NewLazy("qa:"+model, init, backend.WithLogger[Client](logger)),
	}
}

// Answer 确保后端就绪后抽取答案
func (c *LazyClient) Answer(ctx context.Context, question, passage string) (*Result, error) {
	client, err := c.resource.Get(ctx)
	if err != nil {
		return nil, err
	}
	return client.Answer(ctx, question, passage)
}

// Name 返回模型名称
func (c *LazyClient) Name() string {
	return c.model
}

// EnsureReady 触发或等待后端初始化
func (c *LazyClient) EnsureReady(ctx context.Context) error {
	return c.resource.EnsureReady(ctx)
}

// Ready 报告后端是否已初始化
func (c *LazyClient) Ready() bool {
	return c.resource.Ready()
}
