package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/masato/tag-generator/internal/types"
)

// CheckpointStore persists Stage 1A progress between runs. Save must be
// atomic: a crash mid-save leaves the previous checkpoint readable.
type CheckpointStore interface {
	Load(ctx context.Context) (*types.Checkpoint, error)
	Save(ctx context.Context, cp *types.Checkpoint) error
	Clear(ctx context.Context) error
}

// BatchResult is the full output of a batch run.
type BatchResult struct {
	Extracts    []types.ExtractResult
	Vocabulary  types.OptimizeResult
	Assignments []types.Assignment
	Summary     types.BatchSummary
}

// RunBatch drives the whole pipeline over a row set: Stage 1A row by row
// with periodic checkpoints, Stage 1B once over the pooled keywords, then
// Stage 2 per row. A store is optional; without one the run neither
// resumes nor checkpoints. Context cancellation produces a clean partial
// result with Interrupted set, after saving a final checkpoint.
func (p *Pipeline) RunBatch(ctx context.Context, rows []types.Row, store CheckpointStore) (*BatchResult, error) {
	start := time.Now()
	result := &BatchResult{
		Summary: types.BatchSummary{
			RunID:     uuid.NewString(),
			TotalRows: len(rows),
		},
	}

	startIndex := 0
	var pooled [][]string
	if store != nil {
		cp, err := store.Load(ctx)
		if err != nil {
			p.logger.Warn("checkpoint load failed, starting fresh", "error", err)
		} else if cp != nil {
			startIndex = cp.LastIndex + 1
			pooled = append(pooled, cp.Keywords)
			result.Summary.RunID = cp.RunID
			result.Summary.Resumed = true
			p.logger.Info("resuming from checkpoint",
				"run_id", cp.RunID, "last_index", cp.LastIndex)
		}
	}

	interrupted := p.extractRows(ctx, rows, startIndex, store, result, &pooled)
	if interrupted {
		result.Summary.Interrupted = true
		result.Summary.Elapsed = time.Since(start)
		return result, nil
	}

	var flat []string
	for _, kws := range pooled {
		flat = append(flat, kws...)
	}
	vocab, err := p.Optimize(ctx, flat)
	if err != nil {
		result.Summary.Elapsed = time.Since(start)
		return result, err
	}
	result.Vocabulary = vocab
	if len(result.Vocabulary.TagCandidates) == 0 {
		result.Summary.Elapsed = time.Since(start)
		return result, errors.New("empty vocabulary after optimization, nothing to assign")
	}

	result.Assignments = p.selectRows(ctx, rows, result.Vocabulary.TagCandidates)
	for _, a := range result.Assignments {
		if a.Status == types.StatusFailed {
			result.Summary.FailedRows++
		}
	}
	if ctx.Err() != nil {
		result.Summary.Interrupted = true
	} else if store != nil {
		if err := store.Clear(ctx); err != nil {
			p.logger.Warn("checkpoint clear failed", "error", err)
		}
	}

	result.Summary.Elapsed = time.Since(start)
	return result, nil
}

// extractRows runs Stage 1A sequentially from startIndex, pacing rows with
// the configured delay and checkpointing every interval. Reports whether
// the run was interrupted by context cancellation.
func (p *Pipeline) extractRows(ctx context.Context, rows []types.Row, startIndex int, store CheckpointStore, result *BatchResult, pooled *[][]string) bool {
	saveCheckpoint := func(lastIndex int) {
		if store == nil || lastIndex < 0 {
			return
		}
		var flat []string
		for _, kws := range *pooled {
			flat = append(flat, kws...)
		}
		cp := &types.Checkpoint{
			Version:   types.CheckpointVersion,
			RunID:     result.Summary.RunID,
			Keywords:  flat,
			LastIndex: lastIndex,
			Timestamp: time.Now().UTC(),
		}
		// Interrupt-time saves run after ctx is already cancelled; the
		// store must still be able to write.
		if err := store.Save(context.WithoutCancel(ctx), cp); err != nil {
			p.logger.Warn("checkpoint save failed", "last_index", lastIndex, "error", err)
		}
	}

	for i := startIndex; i < len(rows); i++ {
		if ctx.Err() != nil {
			saveCheckpoint(i - 1)
			return true
		}

		extract := p.Extract(ctx, rows[i], i)
		result.Extracts = append(result.Extracts, extract)
		result.Summary.ProcessedRows++
		if extract.Status == types.StatusFailed {
			result.Summary.FailedRows++
		} else {
			*pooled = append(*pooled, extract.Keywords)
		}

		if store != nil && (i+1-startIndex)%p.cfg.CheckpointInterval == 0 {
			saveCheckpoint(i)
		}

		if delay := p.cfg.RowDelay(); delay > 0 && i < len(rows)-1 {
			select {
			case <-ctx.Done():
				saveCheckpoint(i)
				return true
			case <-time.After(delay):
			}
		}
	}
	saveCheckpoint(len(rows) - 1)
	return false
}

// selectRows runs Stage 2 for every row. With one worker rows are
// processed in order with the same inter-row pacing as Stage 1A; with
// more, a bounded errgroup fans them out and the results land at their
// row index either way.
func (p *Pipeline) selectRows(ctx context.Context, rows []types.Row, vocabulary []string) []types.Assignment {
	assignments := make([]types.Assignment, len(rows))

	if p.cfg.Stage2Workers <= 1 {
		for i, row := range rows {
			if ctx.Err() != nil {
				p.markRemaining(assignments, rows, i)
				break
			}
			assignments[i] = p.Select(ctx, row, i, vocabulary)

			if delay := p.cfg.RowDelay(); delay > 0 && i < len(rows)-1 {
				select {
				case <-ctx.Done():
					p.markRemaining(assignments, rows, i+1)
					return assignments
				case <-time.After(delay):
				}
			}
		}
		return assignments
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Stage2Workers)
	for i, row := range rows {
		g.Go(func() error {
			a := p.Select(gctx, row, i, vocabulary)
			mu.Lock()
			assignments[i] = a
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return assignments
}

func (p *Pipeline) markRemaining(assignments []types.Assignment, rows []types.Row, from int) {
	for i := from; i < len(rows); i++ {
		assignments[i] = types.Assignment{
			RowIndex: i,
			Title:    rows[i].Title,
			Tags:     []string{},
			Status:   types.StatusFailed,
			Err:      context.Canceled.Error(),
		}
	}
}
