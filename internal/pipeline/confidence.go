package pipeline

import (
	"math"
	"strings"

	"github.com/masato/tag-generator/internal/tagparse"
	"github.com/masato/tag-generator/internal/types"
)

const (
	relevanceWeight = 0.7
	countWeight     = 0.3
	// Assignments at or above this count score full marks on the count term.
	saturationCount = 12
	// Relevance assigned when the row has no transcript to check against.
	neutralRelevance = 0.5
)

// confidence scores an assignment between 0 and 1. Tags that literally
// appear in the transcript count toward relevance; rows without a
// transcript get a neutral relevance so the score still reflects count.
func confidence(tags []string, row types.Row) float64 {
	if len(tags) == 0 {
		return 0
	}

	relevance := neutralRelevance
	transcript := strings.TrimSpace(row.Transcript)
	if transcript != "" {
		lower := strings.ToLower(transcript)
		hits := 0
		for _, tag := range tags {
			if strings.Contains(lower, tagparse.NormalizeKey(tag)) {
				hits++
			}
		}
		relevance = float64(hits) / float64(len(tags))
	}

	countScore := math.Min(1, float64(len(tags))/saturationCount)
	score := relevance*relevanceWeight + countScore*countWeight
	return math.Round(score*100) / 100
}
