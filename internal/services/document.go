package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/doc-analyzer/internal/document"
)

// DocumentInfo 上传文档的摘要信息
type DocumentInfo struct {
	ID         string `json:"document_id"`
	Filename   string `json:"filename"`
	Characters int    `json:"characters"`
	Blocks     int    `json:"blocks"`
}

// DocumentService 文档服务
// 负责解析上传的文档、建立会话，并在会话上回答问题
type DocumentService struct {
	sessions *SessionStore
	analyzer *Analyzer
	logger   *logrus.Logger
}

// NewDocumentService 创建文档服务
func NewDocumentService(sessions *SessionStore, analyzer *Analyzer, logger *logrus.Logger) *DocumentService {
	if logger == nil {
		logger = logrus.New()
	}
	return &DocumentService{
		sessions: sessions,
		analyzer: analyzer,
		logger:   logger,
	}
}

// Upload 解析文档并创建会话
// 无法提取文本的文档也会建立会话，提问时返回无可读文本的提示
func (s *DocumentService) Upload(ctx context.Context, filename string, r io.Reader) (*DocumentInfo, error) {
	text, err := document.ParseReader(r, filename)
	if err != nil && !errors.Is(err, document.ErrEmptyDocument) {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	// 预先分块，后续提问直接命中分块缓存
	blocks := s.analyzer.Blocks(ctx, text)

	session, err := s.sessions.Create(ctx, filename, text)
	if err != nil {
		return nil, err
	}

	info := &DocumentInfo{
		ID:         session.ID,
		Filename:   filename,
		Characters: utf8.RuneCountInString(text),
		Blocks:     len(blocks),
	}

	s.logger.WithFields(logrus.Fields{
		"document_id": info.ID,
		"filename":    filename,
		"characters":  info.Characters,
		"blocks":      info.Blocks,
	}).Info("Document uploaded")
	return info, nil
}

// Ask 针对已上传的文档提问
func (s *DocumentService) Ask(ctx context.Context, documentID, question string) (string, error) {
	session, err := s.sessions.Get(ctx, documentID)
	if err != nil {
		return "", err
	}
	return s.analyzer.AnswerQuery(ctx, question, session.Text), nil
}

// AskText 针对直接提交的文本提问
func (s *DocumentService) AskText(ctx context.Context, text, question string) string {
	return s.analyzer.AnswerQuery(ctx, question, text)
}

// Remove 删除文档会话
func (s *DocumentService) Remove(ctx context.Context, documentID string) error {
	return s.sessions.Delete(ctx, documentID)
}

// Warmup 预热推理后端
func (s *DocumentService) Warmup(ctx context.Context) error {
	return s.analyzer.Warmup(ctx)
}

// Ready 报告推理后端是否就绪
func (s *DocumentService) Ready() bool {
	return s.analyzer.Ready()
}
