package types

import "time"

// CheckpointVersion is the current checkpoint schema version. Loads of a
// record with a different version are rejected rather than reinterpreted.
const CheckpointVersion = 1

// Checkpoint is a snapshot of Stage 1A progress. It is written after every
// checkpoint interval and on completion, and read once at the start of a
// run to decide whether to resume. A checkpoint either fully replaces the
// previous one or leaves it intact; partial writes must never be visible.
type Checkpoint struct {
	Version   int       `json:"version"`
	RunID     string    `json:"run_id"`
	Keywords  []string  `json:"keywords"`
	LastIndex int       `json:"last_index"`
	Timestamp time.Time `json:"timestamp"`
}
