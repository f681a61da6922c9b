// Package normalize builds bounded-length text blobs from row fields for
// prompt construction. All functions are pure; rows are never mutated.
package normalize

import (
	"strings"

	"github.com/masato/tag-generator/internal/types"
)

// FieldLimits holds per-field rune limits for blob construction. A limit of
// zero drops the field entirely.
type FieldLimits struct {
	Title       int `yaml:"title"`
	Skill       int `yaml:"skill"`
	Description int `yaml:"description"`
	Summary     int `yaml:"summary"`
	Transcript  int `yaml:"transcript"`
}

// Stage1Limits returns the defaults for Stage 1 blobs. The transcript is
// excluded by policy: Stage 1 analyzes metadata only.
func Stage1Limits() FieldLimits {
	return FieldLimits{
		Title:       200,
		Skill:       100,
		Description: 500,
		Summary:     500,
		Transcript:  0,
	}
}

// Stage2Limits returns the defaults for Stage 2 blobs, which include a
// truncated transcript excerpt for per-row analysis.
func Stage2Limits() FieldLimits {
	return FieldLimits{
		Title:       200,
		Skill:       100,
		Description: 500,
		Summary:     500,
		Transcript:  2500,
	}
}

// BuildBlob concatenates the row's non-empty fields in a fixed order
// (title, skill, description, summary, transcript), truncating each to its
// configured rune limit. Missing fields are skipped silently.
func BuildBlob(row types.Row, limits FieldLimits) string {
	var parts []string
	appendField := func(label, value string, limit int) {
		value = strings.TrimSpace(value)
		if value == "" || limit <= 0 {
			return
		}
		parts = append(parts, label+": "+Truncate(value, limit))
	}

	appendField("タイトル", row.Title, limits.Title)
	appendField("スキル", row.Skill, limits.Skill)
	appendField("説明文", row.Description, limits.Description)
	appendField("要約", row.Summary, limits.Summary)
	appendField("文字起こし", row.Transcript, limits.Transcript)

	return strings.Join(parts, "\n")
}

// Truncate cuts s to at most limit runes. Multibyte text is common here,
// so byte slicing would split characters.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
