package services

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/fyerfyer/doc-analyzer/internal/extractive"
)

// mockEmbedder 嵌入客户端Mock
type mockEmbedder struct {
	mock.Mock
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	vec, _ := args.Get(0).([]float32)
	return vec, args.Error(1)
}

func (m *mockEmbedder) Name() string {
	return "mock-embedding"
}

// mockQA 抽取式问答客户端Mock
type mockQA struct {
	mock.Mock
}

func (m *mockQA) Answer(ctx context.Context, question, passage string) (*extractive.Result, error) {
	args := m.Called(ctx, question, passage)
	res, _ := args.Get(0).(*extractive.Result)
	return res, args.Error(1)
}

func (m *mockQA) Name() string {
	return "mock-qa"
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
