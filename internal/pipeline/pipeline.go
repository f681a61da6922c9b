// Package pipeline implements the staged tag generation workflow: per-row
// keyword extraction (Stage 1A), global vocabulary optimization (Stage 1B),
// per-row tag assignment (Stage 2), and the batch controller that drives
// them with checkpointed resume.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/masato/tag-generator/internal/normalize"
)

// RowDelay returns the configured inter-row pacing delay.
func (c Config) RowDelay() time.Duration {
	return time.Duration(c.RowDelayMS) * time.Millisecond
}

// TagService is the provider-backed capability the pipeline consumes: the
// gateway operations already wrapped in fallback orchestration.
type TagService interface {
	ExtractKeywordsLight(ctx context.Context, text string) ([]string, error)
	OptimizeTags(ctx context.Context, keywords []string) ([]string, error)
	SelectTagsForVideo(ctx context.Context, content string, vocabulary []string) ([]string, error)
}

// Config holds every pipeline threshold. The source history shows these
// numbers being re-tuned constantly; they are policy, injected here rather
// than baked into control flow.
type Config struct {
	// Stage 1B pooling and batching.
	LargePoolThreshold    int `yaml:"large_pool_threshold" validate:"gt=0"`
	FrequencyTopK         int `yaml:"frequency_top_k" validate:"gt=0"`
	OptimizeBatchSize     int `yaml:"optimize_batch_size" validate:"gt=0"`
	IntermediatePerBatch  int `yaml:"intermediate_per_batch" validate:"gt=0"`
	TargetVocabularySize  int `yaml:"target_vocabulary_size" validate:"gt=0"`
	HardVocabularyCeiling int `yaml:"hard_vocabulary_ceiling" validate:"gt=0"`
	MinKeywordRunes       int `yaml:"min_keyword_runes" validate:"gt=0"`
	MaxHeuristicKeywords  int `yaml:"max_heuristic_keywords" validate:"gte=0"`

	// Stage 2 assignment bounds and salvage policy.
	MinAssignment        int `yaml:"min_assignment" validate:"gt=0"`
	MaxAssignment        int `yaml:"max_assignment" validate:"gt=0"`
	SalvageMaxLengthDiff int `yaml:"salvage_max_length_diff" validate:"gte=0"`

	// Batch control. The row delay is in milliseconds so it reads naturally
	// from the YAML limits file.
	RowDelayMS         int `yaml:"row_delay_ms" validate:"gte=0"`
	CheckpointInterval int `yaml:"checkpoint_interval" validate:"gt=0"`
	Stage2Workers      int `yaml:"stage2_workers" validate:"gt=0"`

	// Blob construction limits per stage.
	Stage1Limits normalize.FieldLimits `yaml:"stage1_limits"`
	Stage2Limits normalize.FieldLimits `yaml:"stage2_limits"`
}

// DefaultConfig returns the canonical thresholds: 5000-keyword large-pool
// cutoff, top-2000 frequency retention, 500-keyword optimize batches,
// 200-tag target vocabulary with a 300 ceiling, 10-15 tags per row.
func DefaultConfig() Config {
	return Config{
		LargePoolThreshold:    5000,
		FrequencyTopK:         2000,
		OptimizeBatchSize:     500,
		IntermediatePerBatch:  40,
		TargetVocabularySize:  200,
		HardVocabularyCeiling: 300,
		MinKeywordRunes:       2,
		MaxHeuristicKeywords:  30,
		MinAssignment:         10,
		MaxAssignment:         15,
		SalvageMaxLengthDiff:  3,
		RowDelayMS:            500,
		CheckpointInterval:    10,
		Stage2Workers:         1,
		Stage1Limits:          normalize.Stage1Limits(),
		Stage2Limits:          normalize.Stage2Limits(),
	}
}

// Pipeline runs the staged workflow against a TagService.
type Pipeline struct {
	svc    TagService
	cfg    Config
	logger *slog.Logger
}

// New creates a pipeline.
func New(svc TagService, cfg Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{svc: svc, cfg: cfg, logger: logger}
}
