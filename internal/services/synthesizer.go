package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/doc-analyzer/internal/document"
	"github.com/fyerfyer/doc-analyzer/internal/extractive"
	"github.com/fyerfyer/doc-analyzer/internal/retrieval"
)

// SynthesizerConfig 答案合成配置
type SynthesizerConfig struct {
	MinConfidence float64 // 接受抽取答案的最低置信度（不含）
	TopBlocks     int     // 回复中引用的分块数
}

// DefaultSynthesizerConfig 返回默认答案合成配置
func DefaultSynthesizerConfig() SynthesizerConfig {
	return SynthesizerConfig{
		MinConfidence: 0.01,
		TopBlocks:     2,
	}
}

// AnswerResult 抽取式答案及其来源分块
type AnswerResult struct {
	AnswerText string
	Confidence float64
	Source     document.Block
}

// Synthesizer 答案合成器
// 在排名第一的分块上运行抽取式问答，置信度足够时给出答案和证据，否则只列出原文片段
type Synthesizer struct {
	qa     extractive.Client
	config SynthesizerConfig
	logger *logrus.Logger
}

// SynthesizerOption 答案合成器配置选项
type SynthesizerOption func(*Synthesizer)

// WithSynthesizerConfig 设置合成参数
func WithSynthesizerConfig(config SynthesizerConfig) SynthesizerOption {
	return func(s *Synthesizer) {
		s.config = config
	}
}

// WithSynthesizerLogger 设置日志记录器
func WithSynthesizerLogger(logger *logrus.Logger) SynthesizerOption {
	return func(s *Synthesizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSynthesizer 创建答案合成器
func NewSynthesizer(qa extractive.Client, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		qa:     qa,
		config: DefaultSynthesizerConfig(),
		logger: logrus.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config.TopBlocks < 1 {
		s.config.TopBlocks = 1
	}
	return s
}

// Synthesize 根据排序后的分块生成回复
// 问答服务的错误直接返回给调用方
func (s *Synthesizer) Synthesize(ctx context.Context, query string, ranked []retrieval.Candidate) (string, error) {
	if len(ranked) == 0 {
		return MsgNoRelevantSections, nil
	}

	top := ranked[:min(len(ranked), s.config.TopBlocks)]

	result, err := s.Extract(ctx, query, top[0])
	if err != nil {
		return "", err
	}

	if result != nil && result.Confidence > s.config.MinConfidence {
		return formatAnswer(result, top[1:]), nil
	}

	s.logger.WithFields(logrus.Fields{
		"block": top[0].Index(),
		"score": confidenceOf(result),
	}).Debug("Low-confidence answer, falling back to snippets")
	return formatSnippets(top), nil
}

// Extract 在单个候选分块上运行抽取式问答
func (s *Synthesizer) Extract(ctx context.Context, query string, primary retrieval.Candidate) (*AnswerResult, error) {
	res, err := s.qa.Answer(ctx, query, primary.Text)
	if err != nil {
		return nil, fmt.Errorf("extractive answer failed: %w", err)
	}
	if res == nil {
		return nil, nil
	}

	return &AnswerResult{
		AnswerText: res.Text,
		Confidence: res.Score,
		Source:     primary.Block,
	}, nil
}

func confidenceOf(result *AnswerResult) float64 {
	if result == nil {
		return 0
	}
	return result.Confidence
}

func formatAnswer(result *AnswerResult, rest []retrieval.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Answer:** %s\n\n", capitalize(result.AnswerText))
	fmt.Fprintf(&b, "### Evidence\n> \"%s\"\n\n*(Section %d)*", result.Source.Text, result.Source.Citation())

	for _, cand := range rest {
		fmt.Fprintf(&b, "\n\n### Context\n> \"%s\"\n\n*(Section %d)*", cand.Text, cand.Citation())
	}
	return b.String()
}

func formatSnippets(top []retrieval.Candidate) string {
	var b strings.Builder
	b.WriteString("Based on the document context, here is what I found:\n\n")
	for i, cand := range top {
		fmt.Fprintf(&b, "### Finding %d\n> \"%s\"\n\n*(Section %d)*\n\n", i+1, cand.Text, cand.Citation())
	}
	return b.String()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
