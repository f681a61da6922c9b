package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/masato/tag-generator/internal/normalize"
	"github.com/masato/tag-generator/internal/tagparse"
	"github.com/masato/tag-generator/internal/types"
)

// Extract runs Stage 1A for one row: build the transcript-free blob and
// ask for lightweight keywords. A row whose providers are all exhausted
// contributes nothing but never aborts the batch.
func (p *Pipeline) Extract(ctx context.Context, row types.Row, index int) types.ExtractResult {
	result := types.ExtractResult{RowIndex: index, Status: types.StatusExtracting}

	blob := normalize.BuildBlob(row, p.cfg.Stage1Limits)
	if blob == "" {
		result.Status = types.StatusDone
		return result
	}

	keywords, err := p.svc.ExtractKeywordsLight(ctx, blob)
	if err != nil {
		p.logger.Warn("stage 1A extraction failed", "row", index, "error", err)
		result.Status = types.StatusFailed
		result.Err = err.Error()
		return result
	}

	result.Keywords = keywords
	result.Status = types.StatusDone
	return result
}

// Optimize runs Stage 1B over the pooled keywords from all rows and
// converges on the approved vocabulary. The pipeline always produces some
// vocabulary when any keywords exist: failed optimize batches are skipped,
// and a failed final call falls back to frequency ranking.
func (p *Pipeline) Optimize(ctx context.Context, pooled []string) (types.OptimizeResult, error) {
	start := time.Now()
	result := types.OptimizeResult{}

	cleaned := p.cleanKeywords(pooled)
	if len(cleaned) == 0 {
		result.TagCandidates = []string{}
		result.ProcessingTime = time.Since(start)
		return result, nil
	}

	retained := cleaned
	if len(cleaned) > p.cfg.LargePoolThreshold {
		retained = frequencyTopK(pooled, cleaned, p.cfg.FrequencyTopK)
		p.logger.Info("large pool frequency-ranked",
			"pooled", len(cleaned), "retained", len(retained))
	}

	var vocabulary []string
	if len(retained) > p.cfg.OptimizeBatchSize {
		vocabulary = p.optimizeBatched(ctx, retained)
	} else {
		tags, err := p.svc.OptimizeTags(ctx, retained)
		if err != nil {
			p.logger.Warn("optimize call failed, using frequency fallback", "error", err)
			vocabulary = nil
		} else {
			vocabulary = tags
		}
	}

	if len(vocabulary) == 0 {
		vocabulary = frequencyTopK(pooled, cleaned, p.cfg.TargetVocabularySize)
		result.UsedFrequencyFallback = true
	}

	vocabulary = p.finalizeVocabulary(vocabulary)
	result.TagCandidates = vocabulary
	result.CandidateCount = len(vocabulary)
	result.ProcessingTime = time.Since(start)
	return result, nil
}

// optimizeBatched partitions the retained pool into fixed-size batches,
// optimizes each (keeping the top slice per batch), then converges the
// intermediates with one final optimize call.
func (p *Pipeline) optimizeBatched(ctx context.Context, retained []string) []string {
	var intermediates []string
	batches := 0
	for start := 0; start < len(retained); start += p.cfg.OptimizeBatchSize {
		end := start + p.cfg.OptimizeBatchSize
		if end > len(retained) {
			end = len(retained)
		}
		batches++

		tags, err := p.svc.OptimizeTags(ctx, retained[start:end])
		if err != nil {
			p.logger.Warn("optimize batch failed, skipping", "batch", batches, "error", err)
			continue
		}
		if len(tags) > p.cfg.IntermediatePerBatch {
			tags = tags[:p.cfg.IntermediatePerBatch]
		}
		intermediates = append(intermediates, tags...)
	}

	intermediates = dedupeKeywords(intermediates)
	if len(intermediates) == 0 {
		return nil
	}

	final, err := p.svc.OptimizeTags(ctx, intermediates)
	if err != nil {
		p.logger.Warn("final optimize call failed", "error", err)
		return nil
	}
	return final
}

// cleanKeywords deduplicates case-insensitively and drops short keywords
// and stop words.
func (p *Pipeline) cleanKeywords(pooled []string) []string {
	seen := make(map[string]struct{}, len(pooled))
	var cleaned []string
	for _, kw := range pooled {
		kw = tagparse.CleanTag(kw)
		if len([]rune(kw)) < p.cfg.MinKeywordRunes || tagparse.IsStopWord(kw) {
			continue
		}
		key := tagparse.NormalizeKey(kw)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, kw)
	}
	return cleaned
}

// finalizeVocabulary applies the generic filter, deduplicates, and caps at
// the hard ceiling. The target size bounds the final optimize request; the
// ceiling is the absolute protection for downstream consumers.
func (p *Pipeline) finalizeVocabulary(vocabulary []string) []string {
	var kept []string
	for _, tag := range vocabulary {
		tag = tagparse.CleanTag(tag)
		if tag == "" || tagparse.IsGenericTag(tag) {
			continue
		}
		kept = append(kept, tag)
	}
	// Over-strict filtering must not empty a non-empty vocabulary.
	if len(kept) == 0 {
		for _, tag := range vocabulary {
			if tag = tagparse.CleanTag(tag); tag != "" {
				kept = append(kept, tag)
			}
		}
	}
	kept = dedupeKeywords(kept)
	if len(kept) > p.cfg.HardVocabularyCeiling {
		kept = kept[:p.cfg.HardVocabularyCeiling]
	}
	return kept
}

// frequencyTopK ranks the cleaned keywords by occurrence count of their
// normalized form in the raw pool and keeps the top k. Ties break by pool
// order, which keeps the selection deterministic.
func frequencyTopK(pooled, cleaned []string, k int) []string {
	counts := make(map[string]int, len(cleaned))
	for _, kw := range pooled {
		counts[tagparse.NormalizeKey(tagparse.CleanTag(kw))]++
	}

	ranked := append([]string{}, cleaned...)
	order := make(map[string]int, len(cleaned))
	for i, kw := range cleaned {
		order[kw] = i
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		ci := counts[tagparse.NormalizeKey(ranked[i])]
		cj := counts[tagparse.NormalizeKey(ranked[j])]
		if ci != cj {
			return ci > cj
		}
		return order[ranked[i]] < order[ranked[j]]
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

func dedupeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	var result []string
	for _, kw := range keywords {
		key := tagparse.NormalizeKey(kw)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, kw)
	}
	return result
}
