package embedding

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/doc-analyzer/internal/backend"
)

// LazyClient 惰性初始化的嵌入客户端
// 第一次Embed时才构造底层客户端（包括远端模型加载），并发调用共享同一次初始化
type LazyClient struct {
	model    string
	resource *backend.Lazy[Client]
}

// NewLazyClient 创建惰性嵌入客户端
func NewLazyClient(model string, init backend.InitFunc[Client], logger *logrus.Logger) *LazyClient {
	return &LazyClient{
		model:    model,
		resource: backend.NewLazy("embedding:"+model, init, backend.WithLogger[Client](logger)),
	}
}

// Embed 确保后端就绪后生成向量
func (c *LazyClient) Embed(ctx context.Context, text string) ([]float32, error) {
	client, err := c.resource.Get(ctx)
	if err != nil {
		return nil, err
	}
	return client.Embed(ctx, text)
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
