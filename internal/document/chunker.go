package document

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Block 文档分块
// 分块在文档加载时生成一次，之后只读
type Block struct {
	Text  string `json:"text"`  // 分块文本（已去除首尾空白）
	Index int    `json:"index"` // 分块序号，从0开始，用于引用标注
}

// Citation 返回面向用户的分块编号（从1开始）
func (b Block) Citation() int {
	return b.Index + 1
}

// Chunker 文本分块器接口
// 负责将文档全文切分成带序号的重叠分块
type Chunker interface {
	// Chunk 将文本切分为分块，空文本返回空切片
	Chunk(text string) []Block
}

// ChunkerConfig 分块器配置
type ChunkerConfig struct {
	ChunkSize      int // 分块长度阈值（字符数）
	OverlapWords   int // 相邻分块之间重叠的单词数
	MinBlockLength int // 分块最小长度，小于等于该值的分块会被丢弃
}

// DefaultChunkerConfig 返回默认分块器配置
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		ChunkSize:      500,
		OverlapWords:   12,
		MinBlockLength: 20,
	}
}

// 句子片段：若干非终止符 + 至少一个终止符
var segmentPattern = regexp.MustCompile(`[^.!?\n]+[.!?\n]+`)

// SentenceChunker 按句子累积的分块器
// 句子依次追加到缓冲区，超过阈值时输出一个分块，
// 并以上一分块末尾的若干单词作为下一分块的开头
type SentenceChunker struct {
	config ChunkerConfig
}

// NewSentenceChunker 创建新的句子分块器
func NewSentenceChunker(config ChunkerConfig) *SentenceChunker {
	defaults := DefaultChunkerConfig()
	if config.ChunkSize <= 0 {
		config.ChunkSize = defaults.ChunkSize
	}
	if config.OverlapWords < 0 {
		config.OverlapWords = 0
	}
	if config.MinBlockLength < 0 {
		config.MinBlockLength = 0
	}
	return &SentenceChunker{config: config}
}

// Config 返回分块器配置
func (c *SentenceChunker) Config() ChunkerConfig {
	return c.config
}

// Chunk 将文本切分为分块
func (c *SentenceChunker) Chunk(text string) []Block {
	if text == "" {
		return []Block{}
	}

	normalized := normalizeText(text)
	segments := splitSegments(normalized)

	var chunks []string
	var current string

	for _, segment := range segments {
		trimmed := strings.TrimSpace(segment)
		if trimmed == "" {
			continue
		}

		if runeLen(current)+runeLen(trimmed) > c.config.ChunkSize {
			if closed := strings.TrimSpace(current); closed != "" {
				chunks = append(chunks, closed)
			}
			overlap := lastWords(current, c.config.OverlapWords)
			current = strings.TrimSpace(overlap + " " + trimmed)
		} else if current == "" {
			current = trimmed
		} else {
			current += " " + trimmed
		}
	}

	if last := strings.TrimSpace(current); last != "" {
		chunks = append(chunks, last)
	}

	// 过滤噪声分块并按输出顺序编号
	blocks := make([]Block, 0, len(chunks))
	for _, chunk := range chunks {
		if runeLen(chunk) <= c.config.MinBlockLength {
			continue
		}
		blocks = append(blocks, Block{
			Text:  chunk,
			Index: len(blocks),
		})
	}

	return blocks
}

// normalizeText 统一换行符并将制表符替换为空格
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\t", " ")
}

// splitSegments 按句末标点或换行切分文本
// 最后一个终止符之后的剩余文本作为单独片段保留
func splitSegments(text string) []string {
	locs := segmentPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}

	segments := make([]string, 0, len(locs)+1)
	for _, loc := range locs {
		segments = append(segments, text[loc[0]:loc[1]])
	}

	if tail := text[locs[len(locs)-1][1]:]; strings.TrimSpace(tail) != "" {
		segments = append(segments, tail)
	}

	return segments
}

// lastWords 返回文本按空格切分后的最后n个单词
func lastWords(text string, n int) string {
	if n <= 0 || text == "" {
		return ""
	}
	words := strings.Split(text, " ")
	if len(words) > n {
		words = words[len(words)-n:]
	}
	return strings.Join(words, " ")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
