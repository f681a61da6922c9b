package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/masato/tag-generator/internal/normalize"
	"github.com/masato/tag-generator/internal/tagparse"
	"github.com/masato/tag-generator/internal/types"
)

// Select runs Stage 2 for one row: ask for a tag selection from the
// approved vocabulary, validate the answer against it, salvage near
// misses, and pad deterministically up to the minimum. The returned
// assignment is always a subset of the vocabulary.
func (p *Pipeline) Select(ctx context.Context, row types.Row, index int, vocabulary []string) types.Assignment {
	start := time.Now()
	assignment := types.Assignment{
		RowIndex: index,
		Title:    row.Title,
		Status:   types.StatusSelecting,
	}

	blob := normalize.BuildBlob(row, p.cfg.Stage2Limits)

	selected, err := p.svc.SelectTagsForVideo(ctx, blob, vocabulary)
	if err != nil {
		p.logger.Warn("stage 2 selection failed", "row", index, "error", err)
		assignment.Tags = []string{}
		assignment.Status = types.StatusFailed
		assignment.Err = err.Error()
		assignment.ProcessingTime = time.Since(start)
		return assignment
	}

	assignment.Status = types.StatusValidating
	valid := p.validateSelection(index, selected, vocabulary)
	valid = p.padFromVocabulary(valid, vocabulary)
	if len(valid) > p.cfg.MaxAssignment {
		valid = valid[:p.cfg.MaxAssignment]
	}

	assignment.Tags = valid
	assignment.TagCount = len(valid)
	assignment.Confidence = confidence(valid, row)
	assignment.Status = types.StatusDone
	assignment.ProcessingTime = time.Since(start)
	return assignment
}

// validateSelection keeps only tags that are members of the approved
// vocabulary. Exact case-insensitive matches are accepted as the canonical
// vocabulary entry; near misses are salvaged by containment when the
// length difference is small. Everything else is model hallucination and
// is discarded.
func (p *Pipeline) validateSelection(rowIndex int, selected, vocabulary []string) []string {
	byKey := make(map[string]string, len(vocabulary))
	for _, v := range vocabulary {
		byKey[tagparse.NormalizeKey(v)] = v
	}

	var valid []string
	seen := make(map[string]struct{}, len(selected))
	keep := func(canonical string) {
		key := tagparse.NormalizeKey(canonical)
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			valid = append(valid, canonical)
		}
	}

	for _, raw := range selected {
		tag := tagparse.CleanTag(raw)
		if tag == "" {
			continue
		}
		if canonical, ok := byKey[tagparse.NormalizeKey(tag)]; ok {
			keep(canonical)
			continue
		}
		if canonical, ok := p.salvage(tag, vocabulary); ok {
			keep(canonical)
			continue
		}
		p.logger.Warn("discarding tag outside approved vocabulary", "row", rowIndex, "tag", tag)
	}
	return valid
}

// salvage maps a near-miss tag onto a vocabulary entry when one contains
// the other and their lengths differ by at most the configured bound. The
// threshold is tunable policy, not a guaranteed-correct matcher.
func (p *Pipeline) salvage(tag string, vocabulary []string) (string, bool) {
	tagKey := tagparse.NormalizeKey(tag)
	tagLen := len([]rune(tagKey))
	for _, v := range vocabulary {
		vKey := tagparse.NormalizeKey(v)
		diff := tagLen - len([]rune(vKey))
		if diff < 0 {
			diff = -diff
		}
		if diff > p.cfg.SalvageMaxLengthDiff {
			continue
		}
		if strings.Contains(tagKey, vKey) || strings.Contains(vKey, tagKey) {
			return v, true
		}
	}
	return "", false
}

// padFromVocabulary fills the assignment up to the minimum with unused
// vocabulary entries in vocabulary order. Deterministic by construction.
func (p *Pipeline) padFromVocabulary(valid, vocabulary []string) []string {
	if len(valid) >= p.cfg.MinAssignment {
		return valid
	}
	used := make(map[string]struct{}, len(valid))
	for _, t := range valid {
		used[tagparse.NormalizeKey(t)] = struct{}{}
	}
	for _, v := range vocabulary {
		if len(valid) >= p.cfg.MinAssignment {
			break
		}
		key := tagparse.NormalizeKey(v)
		if _, ok := used[key]; ok {
			continue
		}
		used[key] = struct{}{}
		valid = append(valid, v)
	}
	return valid
}
