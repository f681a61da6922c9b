package observability

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/masato/tag-generator/internal/types"
)

func TestPrintVocabulary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.OptimizeResult{
		TagCandidates:  []string{"Python", "機械学習", "データ分析"},
		CandidateCount: 3,
		ProcessingTime: 1250 * time.Millisecond,
	}

	p.PrintVocabulary(result)
	output := buf.String()

	assert.Contains(t, output, "Tag Vocabulary")
	assert.Contains(t, output, "Candidates: 3")
	assert.Contains(t, output, "Python")
	assert.NotContains(t, output, "frequency fallback")
}

func TestPrintVocabularyFallbackAndOverflow(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	candidates := make([]string, 25)
	for i := range candidates {
		candidates[i] = "tag"
	}
	p.PrintVocabulary(&types.OptimizeResult{
		TagCandidates:         candidates,
		CandidateCount:        25,
		UsedFrequencyFallback: true,
	})
	output := buf.String()

	assert.Contains(t, output, "frequency fallback")
	assert.Contains(t, output, "and 15 more")
}

func TestPrintVocabulary_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintVocabulary(nil)

	assert.Empty(t, buf.String())
}

func TestPrintAssignment(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAssignment(&types.Assignment{
		RowIndex:   2,
		Title:      "Python入門",
		Tags:       []string{"Python", "プログラミング"},
		TagCount:   2,
		Confidence: 0.78,
		Status:     types.StatusDone,
	})
	output := buf.String()

	assert.Contains(t, output, "Assignment #2")
	assert.Contains(t, output, "Python入門")
	assert.Contains(t, output, "0.78")
	assert.Contains(t, output, "Python, プログラミング")
}

func TestPrintAssignment_Failed(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAssignment(&types.Assignment{
		RowIndex: 5,
		Status:   types.StatusFailed,
		Err:      "all providers exhausted",
	})
	output := buf.String()

	assert.Contains(t, output, "failed")
	assert.Contains(t, output, "all providers exhausted")
	assert.NotContains(t, output, "Confidence")
}

func TestPrintBatchSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintBatchSummary(&types.BatchSummary{
		RunID:         "run-xyz",
		TotalRows:     30,
		ProcessedRows: 30,
		FailedRows:    2,
		Resumed:       true,
		Elapsed:       90 * time.Second,
	})
	output := buf.String()

	assert.Contains(t, output, "run-xyz")
	assert.Contains(t, output, "30 total, 30 processed, 2 failed")
	assert.Contains(t, output, "Resumed:    yes")
	assert.NotContains(t, output, "Interrupted")
}
