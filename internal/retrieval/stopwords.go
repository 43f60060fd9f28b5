package retrieval

// 停用词表
var stopWords = map[string]struct{}{
	"the": {}, "is": {}, "at": {}, "which": {}, "on": {}, "and": {}, "a": {}, "an": {},
	"of": {}, "for": {}, "with": {}, "in": {}, "to": {}, "it": {}, "this": {}, "that": {},
	"by": {}, "from": {}, "up": {}, "out": {}, "into": {}, "over": {}, "after": {},
	"are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"but": {}, "or": {}, "so": {}, "if": {}, "then": {}, "else": {},
	"when": {}, "where": {}, "why": {}, "how": {},
}

// IsStopWord 判断词是否为停用词
func IsStopWord(term string) bool {
	_, ok := stopWords[term]
	return ok
}
