// Package types defines the shared data structures for the tag generation pipeline.
package types

// Row is one input video-metadata record. All fields are optional; absent
// fields are treated as empty strings. Rows are never mutated after loading —
// truncation happens on copies built by the normalizer.
type Row struct {
	Title       string `json:"title"`
	Skill       string `json:"skill"`
	Description string `json:"description"`
	Summary     string `json:"summary"`
	Transcript  string `json:"transcript"`
}

// IsEmpty reports whether every field of the row is empty.
func (r Row) IsEmpty() bool {
	return r.Title == "" && r.Skill == "" && r.Description == "" &&
		r.Summary == "" && r.Transcript == ""
}

// RowStatus tracks a row through its per-stage state machine.
type RowStatus string

// Row processing states. Stage 1A moves pending -> extracting -> done|failed;
// Stage 2 moves pending -> selecting -> validating -> done|failed.
const (
	StatusPending    RowStatus = "pending"
	StatusExtracting RowStatus = "extracting"
	StatusSelecting  RowStatus = "selecting"
	StatusValidating RowStatus = "validating"
	StatusDone       RowStatus = "done"
	StatusFailed     RowStatus = "failed"
)
