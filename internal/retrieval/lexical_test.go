package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/doc-analyzer/internal/document"
)

func blocks(texts ...string) []document.Block {
	out := make([]document.Block, len(texts))
	for i, text := range texts {
		out[i] = document.Block{Text: text, Index: i}
	}
	return out
}

func TestQueryTerms(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"stop words removed", "What is the deadline?", []string{"what", "deadline"}},
		{"punctuation stripped", "Budget, revenue & costs!", []string{"budget", "revenue", "costs"}},
		{"short terms removed", "go to db migration", []string{"migration"}},
		{"fallback to raw terms", "Is it?", []string{"is", "it?"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QueryTerms(tt.query))
		})
	}

	assert.Empty(t, QueryTerms("   "))
}

func TestLexicalScoreWholeWordBeatsSubstring(t *testing.T) {
	docs := blocks(
		"Payment plans are described in the appendix section.",
		"The plan was approved by the board last quarter.",
	)

	results := LexicalScore("plan", docs)
	require.Len(t, results, 2)

	assert.Equal(t, 1, results[0].Index())
	assert.Equal(t, 3, results[0].Lexical)
	assert.Equal(t, 0, results[1].Index())
	assert.Equal(t, 1, results[1].Lexical)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestLexicalScoreDropsZeroAndKeepsOrderOnTies(t *testing.T) {
	docs := blocks(
		"Revenue grew in every region this year.",
		"Nothing relevant is mentioned in this block.",
		"Revenue targets were set for next year.",
	)

	results := LexicalScore("revenue", docs)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Index())
	assert.Equal(t, 2, results[1].Index())
	assert.Equal(t, results[0].Score, results[1].Score)
}

func TestLexicalScoreAccumulatesTerms(t *testing.T) {
	docs := blocks(
		"The budget covers travel.",
		"The budget covers travel and hardware purchases.",
	)

	results := LexicalScore("budget hardware", docs)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Index())
	assert.Equal(t, 6, results[0].Lexical)
	assert.Equal(t, 3, results[1].Lexical)
}

func TestLexicalScoreCaseInsensitive(t *testing.T) {
	results := LexicalScore("DEADLINE", blocks("The Deadline is March 5, 2024."))
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].Lexical)
}

func TestLexicalScoreQuotesMetaCharacters(t *testing.T) {
	results := LexicalScore("c++", blocks("Code samples use c++ and go."))
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Index())
}

func TestLexicalScoreEmptyInputs(t *testing.T) {
	assert.Empty(t, LexicalScore("deadline", nil))
	assert.Empty(t, LexicalScore("", blocks("Some text that is long enough.")))
}
