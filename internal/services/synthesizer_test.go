package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fyerfyer/doc-analyzer/internal/document"
	"github.com/fyerfyer/doc-analyzer/internal/extractive"
	"github.com/fyerfyer/doc-analyzer/internal/retrieval"
)

func candidate(index int, text string, score float64) retrieval.Candidate {
	return retrieval.Candidate{
		Block: document.Block{Text: text, Index: index},
		Score: score,
	}
}

func newSynthesizer(qa *mockQA) *Synthesizer {
	return NewSynthesizer(qa, WithSynthesizerLogger(quietLogger()))
}

func TestSynthesizeNoCandidates(t *testing.T) {
	qa := &mockQA{}
	out, err := newSynthesizer(qa).Synthesize(context.Background(), "anything", nil)

	require.NoError(t, err)
	assert.Equal(t, MsgNoRelevantSections, out)
	qa.AssertNotCalled(t, "Answer", mock.Anything, mock.Anything, mock.Anything)
}

func TestSynthesizeAnswerWithContext(t *testing.T) {
	ranked := []retrieval.Candidate{
		candidate(4, "Invoices are due within thirty days of receipt.", 0.9),
		candidate(1, "Late invoices incur a two percent monthly fee.", 0.6),
		candidate(7, "This third block must never be quoted.", 0.5),
	}

	qa := &mockQA{}
	qa.On("Answer", mock.Anything, "When are invoices due?", ranked[0].Text).
		Return(&extractive.Result{Text: "within thirty days", Score: 0.42}, nil).Once()

	out, err := newSynthesizer(qa).Synthesize(context.Background(), "When are invoices due?", ranked)
	require.NoError(t, err)

	want := "**Answer:** Within thirty days\n\n" +
		"### Evidence\n> \"Invoices are due within thirty days of receipt.\"\n\n*(Section 5)*" +
		"\n\n### Context\n> \"Late invoices incur a two percent monthly fee.\"\n\n*(Section 2)*"
	assert.Equal(t, want, out)
	assert.NotContains(t, out, "third block")
	qa.AssertExpectations(t)
}

func TestSynthesizeAnswerWithoutSecondary(t *testing.T) {
	ranked := []retrieval.Candidate{candidate(0, "The deadline is March 5, 2024.", 1.3)}

	qa := &mockQA{}
	qa.On("Answer", mock.Anything, mock.Anything, mock.Anything).
		Return(&extractive.Result{Text: "March 5, 2024", Score: 0.9}, nil)

	out, err := newSynthesizer(qa).Synthesize(context.Background(), "What is the deadline?", ranked)
	require.NoError(t, err)
	assert.Equal(t, "**Answer:** March 5, 2024\n\n### Evidence\n> \"The deadline is March 5, 2024.\"\n\n*(Section 1)*", out)
	assert.NotContains(t, out, "### Context")
}

func TestSynthesizeLowConfidenceFallsBackToSnippets(t *testing.T) {
	ranked := []retrieval.Candidate{
		candidate(2, "First relevant passage of the document.", 0.8),
		candidate(0, "Second relevant passage of the document.", 0.7),
	}

	for _, score := range []float64{0.001, 0.01} {
		qa := &mockQA{}
		qa.On("Answer", mock.Anything, mock.Anything, mock.Anything).
			Return(&extractive.Result{Text: "x", Score: score}, nil)

		out, err := newSynthesizer(qa).Synthesize(context.Background(), "question", ranked)
		require.NoError(t, err)

		want := "Based on the document context, here is what I found:\n\n" +
			"### Finding 1\n> \"First relevant passage of the document.\"\n\n*(Section 3)*\n\n" +
			"### Finding 2\n> \"Second relevant passage of the document.\"\n\n*(Section 1)*\n\n"
		assert.Equal(t, want, out)
		assert.NotContains(t, out, "**Answer:**")
	}
}

func TestSynthesizeNilResultFallsBackToSnippets(t *testing.T) {
	qa := &mockQA{}
	qa.On("Answer", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	out, err := newSynthesizer(qa).Synthesize(context.Background(), "q",
		[]retrieval.Candidate{candidate(0, "Only passage in the whole document.", 0.5)})
	require.NoError(t, err)
	assert.Contains(t, out, "### Finding 1")
}

func TestSynthesizeQAError(t *testing.T) {
	backendErr := errors.New("model not loaded")
	qa := &mockQA{}
	qa.On("Answer", mock.Anything, mock.Anything, mock.Anything).Return(nil, backendErr)

	_, err := newSynthesizer(qa).Synthesize(context.Background(), "q",
		[]retrieval.Candidate{candidate(0, "Only passage in the whole document.", 0.5)})
	assert.ErrorIs(t, err, backendErr)
}

func TestSynthesizeCustomThreshold(t *testing.T) {
	qa := &mockQA{}
	qa.On("Answer", mock.Anything, mock.Anything, mock.Anything).
		Return(&extractive.Result{Text: "yes", Score: 0.3}, nil)

	s := NewSynthesizer(qa,
		WithSynthesizerConfig(SynthesizerConfig{MinConfidence: 0.5, TopBlocks: 1}),
		WithSynthesizerLogger(quietLogger()),
	)
	out, err := s.Synthesize(context.Background(), "q", []retrieval.Candidate{
		candidate(0, "Only passage in the whole document.", 0.5),
		candidate(1, "Another passage that is not quoted.", 0.4),
	})
	require.NoError(t, err)
	assert.Contains(t, out, "### Finding 1")
	assert.NotContains(t, out, "### Finding 2")
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "March", capitalize("march"))
	assert.Equal(t, "Élan", capitalize("élan"))
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "42 days", capitalize("42 days"))
}
