package document

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildLongText 生成指定数量的编号句子
func buildLongText(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "Sentence number %d describes the quarterly revenue of the company. ", i)
	}
	return b.String()
}

// TestChunkEmpty 测试空文本和噪声文本
func TestChunkEmpty(t *testing.T) {
	chunker := NewSentenceChunker(DefaultChunkerConfig())

	t.Run("empty text", func(t *testing.T) {
		blocks := chunker.Chunk("")
		assert.NotNil(t, blocks)
		assert.Empty(t, blocks)
	})

	t.Run("only short segments", func(t *testing.T) {
		blocks := chunker.Chunk("Hi.\n\nOk!")
		assert.Empty(t, blocks, "分块长度不超过20个字符时应被丢弃")
	})

	t.Run("whitespace only", func(t *testing.T) {
		assert.Empty(t, chunker.Chunk(" \n\t\r\n  "))
	})
}

// TestChunkSingleSentence 测试单句文档
func TestChunkSingleSentence(t *testing.T) {
	chunker := NewSentenceChunker(DefaultChunkerConfig())

	blocks := chunker.Chunk("The deadline is March 5, 2024.")
	require.Len(t, blocks, 1)
	assert.Equal(t, 0, blocks[0].Index)
	assert.Equal(t, 1, blocks[0].Citation())
	assert.Equal(t, "The deadline is March 5, 2024.", blocks[0].Text)
}

// TestChunkNoTerminator 测试没有终止符的文本
func TestChunkNoTerminator(t *testing.T) {
	chunker := NewSentenceChunker(DefaultChunkerConfig())

	blocks := chunker.Chunk("a heading without any punctuation at all")
	require.Len(t, blocks, 1)
	assert.Equal(t, "a heading without any punctuation at all", blocks[0].Text)
}

// TestChunkTrailingText 测试最后一个终止符之后的文本不会丢失
func TestChunkTrailingText(t *testing.T) {
	chunker := NewSentenceChunker(DefaultChunkerConfig())

	blocks := chunker.Chunk("The first sentence ends here. The tail has no final stop")
	require.Len(t, blocks, 1)
	assert.Contains(t, blocks[0].Text, "The tail has no final stop")
}

// TestChunkNormalization 测试换行和制表符规范化
func TestChunkNormalization(t *testing.T) {
	chunker := NewSentenceChunker(DefaultChunkerConfig())

	blocks := chunker.Chunk("Line one\twith a tab\r\nLine two continues here\r\n")
	require.Len(t, blocks, 1)
	assert.NotContains(t, blocks[0].Text, "\t")
	assert.NotContains(t, blocks[0].Text, "\r")
	assert.Equal(t, "Line one with a tab Line two continues here", blocks[0].Text)
}

// TestChunkIndicesAndLength 测试分块编号连续且长度满足要求
func TestChunkIndicesAndLength(t *testing.T) {
	chunker := NewSentenceChunker(DefaultChunkerConfig())

	blocks := chunker.Chunk(buildLongText(60))
	require.Greater(t, len(blocks), 1, "长文本应该被切分为多个分块")

	for i, block := range blocks {
		assert.Equal(t, i, block.Index, "分块编号应该从0开始连续递增")
		assert.Equal(t, strings.TrimSpace(block.Text), block.Text)
		assert.Greater(t, utf8.RuneCountInString(block.Text), 20)
	}
}

// TestChunkOverlap 测试相邻分块之间的单词重叠
func TestChunkOverlap(t *testing.T) {
	config := DefaultChunkerConfig()
	chunker := NewSentenceChunker(config)

	blocks := chunker.Chunk(buildLongText(40))
	require.Greater(t, len(blocks), 1)

	for i := 1; i < len(blocks); i++ {
		prevWords := strings.Split(blocks[i-1].Text, " ")
		tail := strings.Join(prevWords[len(prevWords)-config.OverlapWords:], " ")
		assert.True(t, strings.HasPrefix(blocks[i].Text, tail),
			"分块 %d 应以上一分块的最后 %d 个单词开头", i, config.OverlapWords)
	}
}

// TestChunkPreservesContent 测试所有句子都出现在某个分块中
func TestChunkPreservesContent(t *testing.T) {
	chunker := NewSentenceChunker(DefaultChunkerConfig())

	text := buildLongText(30)
	blocks := chunker.Chunk(text)

	var joined strings.Builder
	for _, block := range blocks {
		joined.WriteString(block.Text)
		joined.WriteString(" ")
	}

	for i := 0; i < 30; i++ {
		sentence := fmt.Sprintf("Sentence number %d describes the quarterly revenue of the company.", i)
		assert.Contains(t, joined.String(), sentence)
	}
}

// TestChunkDeterministic 测试重复分块结果一致
func TestChunkDeterministic(t *testing.T) {
	chunker := NewSentenceChunker(DefaultChunkerConfig())
	text := buildLongText(25)

	assert.Equal(t, chunker.Chunk(text), chunker.Chunk(text))
}

// TestChunkCustomConfig 测试自定义配置
func TestChunkCustomConfig(t *testing.T) {
	chunker := NewSentenceChunker(ChunkerConfig{
		ChunkSize:      80,
		OverlapWords:   0,
		MinBlockLength: 5,
	})

	blocks := chunker.Chunk("Alpha beta gamma delta epsilon. Zeta eta theta iota kappa. Lambda mu nu xi omicron. Pi rho sigma tau upsilon.")
	require.Len(t, blocks, 2)
	assert.Equal(t, "Alpha beta gamma delta epsilon. Zeta eta theta iota kappa.", blocks[0].Text)
	assert.Equal(t, "Lambda mu nu xi omicron. Pi rho sigma tau upsilon.", blocks[1].Text)
}
