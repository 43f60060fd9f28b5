package embedding

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// SerialClient 串行化的嵌入客户端
// 用权重为1的信号量包装底层客户端，保证推理后端同一时刻最多处理一个嵌入请求
type SerialClient struct {
	inner Client
	sem   *semaphore.Weighted
}

// NewSerialClient 创建串行嵌入客户端
func NewSerialClient(inner Client) *SerialClient {
	return &SerialClient{
		inner: inner,
		sem:   semaphore.NewWeighted(1),
	}
}

// Embed 获取信号量后调用底层客户端
func (c *SerialClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	return c.inner.Embed(ctx, text)
}

// Name 返回模型名称
func (c *SerialClient) Name() string {
	return c.inner.Name()
}
