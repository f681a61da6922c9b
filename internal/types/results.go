package types

import "time"

// ExtractResult is the Stage 1A output for a single row.
type ExtractResult struct {
	RowIndex int       `json:"row_index"`
	Keywords []string  `json:"keywords"`
	Status   RowStatus `json:"status"`
	Err      string    `json:"error,omitempty"`
}

// OptimizeResult is the Stage 1B output: the approved tag vocabulary.
type OptimizeResult struct {
	TagCandidates  []string      `json:"tag_candidates"`
	CandidateCount int           `json:"candidate_count"`
	ProcessingTime time.Duration `json:"processing_time"`
	// UsedFrequencyFallback is set when the final optimize call failed and
	// the vocabulary was produced by frequency ranking alone.
	UsedFrequencyFallback bool `json:"used_frequency_fallback,omitempty"`
}

// Assignment is the Stage 2 output for a single row. Tags is always a
// subset of the approved vocabulary passed to the selection call.
type Assignment struct {
	RowIndex       int           `json:"row_index"`
	Title          string        `json:"title"`
	Tags           []string      `json:"selected_tags"`
	TagCount       int           `json:"tag_count"`
	Confidence     float64       `json:"confidence"`
	ProcessingTime time.Duration `json:"processing_time"`
	Status         RowStatus     `json:"status"`
	Err            string        `json:"error,omitempty"`
}

// BatchSummary reports the outcome of a batch run. Partial success is
// success: a run with some failed rows still completes with FailedRows > 0.
type BatchSummary struct {
	RunID         string        `json:"run_id"`
	TotalRows     int           `json:"total_rows"`
	ProcessedRows int           `json:"processed_rows"`
	FailedRows    int           `json:"failed_rows"`
	Resumed       bool          `json:"resumed"`
	Interrupted   bool          `json:"interrupted"`
	Elapsed       time.Duration `json:"elapsed"`
}
