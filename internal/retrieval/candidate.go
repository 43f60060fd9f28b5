// Package retrieval 实现两阶段检索：关键词预筛选与语义重排序
package retrieval

import "github.com/fyerfyer/doc-analyzer/internal/document"

// Candidate 单次查询中的候选分块及其得分
// 只在一次查询内有效，不做持久化
type Candidate struct {
	document.Block
	Score   float64 `json:"score"`   // 当前阶段的得分
	Lexical int     `json:"lexical"` // 关键词得分
}

// Index 返回候选所属分块的序号
func (c Candidate) Index() int {
	return c.Block.Index
}
