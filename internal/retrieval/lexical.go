package retrieval

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fyerfyer/doc-analyzer/internal/document"
)

const (
	substringWeight = 1 // 子串命中得分
	wholeWordWeight = 2 // 整词命中的额外得分
	minTermLength   = 3 // 过滤后保留的最短查询词
)

var punctuationPattern = regexp.MustCompile(`[^\w\s]`)

// QueryTerms 提取查询词
// 小写化、去标点后按空白切分，去掉停用词和过短的词；
// 若全部被过滤，则退回到原始查询小写化后按空白切分的结果
func QueryTerms(query string) []string {
	lower := strings.ToLower(query)
	stripped := punctuationPattern.ReplaceAllString(lower, "")

	var terms []string
	for _, term := range strings.Fields(stripped) {
		if len(term) < minTermLength || IsStopWord(term) {
			continue
		}
		terms = append(terms, term)
	}

	if len(terms) == 0 {
		return strings.Fields(lower)
	}
	return terms
}

type termMatcher struct {
	term      string
	wholeWord *regexp.Regexp
}

// LexicalScore 按关键词对分块打分
// 每个查询词子串命中+1，整词命中再+2；只保留得分大于0的分块，
// 按得分降序排列，同分保持原始顺序
func LexicalScore(query string, blocks []document.Block) []Candidate {
	terms := QueryTerms(query)
	if len(terms) == 0 || len(blocks) == 0 {
		return []Candidate{}
	}

	matchers := make([]termMatcher, 0, len(terms))
	for _, term := range terms {
		matchers = append(matchers, termMatcher{
			term:      term,
			wholeWord: regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`),
		})
	}

	candidates := make([]Candidate, 0, len(blocks))
	for _, block := range blocks {
		text := strings.ToLower(block.Text)

		score := 0
		for _, m := range matchers {
			if !strings.Contains(text, m.term) {
				continue
			}
			score += substringWeight
			if m.wholeWord.MatchString(text) {
				score += wholeWordWeight
			}
		}

		if score > 0 {
			candidates = append(candidates, Candidate{
				Block:   block,
				Score:   float64(score),
				Lexical: score,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
