package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/masato/tag-generator/internal/types"
)

func TestBuildBlobFieldOrder(t *testing.T) {
	row := types.Row{
		Title:       "Instagram マーケティング戦略",
		Skill:       "SNSマーケティング",
		Description: "Instagram を活用したブランディング手法",
		Summary:     "エンゲージメント率向上とフォロワー獲得戦略",
		Transcript:  "ストーリーズ機能を活用することでエンゲージメント率が向上しました",
	}

	blob := BuildBlob(row, Stage2Limits())
	lines := strings.Split(blob, "\n")

	assert.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "タイトル: "))
	assert.True(t, strings.HasPrefix(lines[1], "スキル: "))
	assert.True(t, strings.HasPrefix(lines[2], "説明文: "))
	assert.True(t, strings.HasPrefix(lines[3], "要約: "))
	assert.True(t, strings.HasPrefix(lines[4], "文字起こし: "))
}

func TestBuildBlobExcludesTranscriptForStage1(t *testing.T) {
	row := types.Row{
		Title:      "マーケティング指標と財務指標を結びつけるPDCA",
		Transcript: "Google Analyticsでユーザー行動を分析します",
	}

	blob := BuildBlob(row, Stage1Limits())

	assert.Contains(t, blob, "タイトル: ")
	assert.NotContains(t, blob, "文字起こし")
	assert.NotContains(t, blob, "Google Analytics")
}

func TestBuildBlobSkipsMissingFields(t *testing.T) {
	tests := []struct {
		name     string
		row      types.Row
		expected int // number of lines in the blob
	}{
		{"all empty", types.Row{}, 1}, // strings.Split of "" yields one empty line
		{"title only", types.Row{Title: "ROI分析"}, 1},
		{"whitespace skipped", types.Row{Title: "   ", Skill: "財務"}, 1},
		{"two fields", types.Row{Title: "ROI分析", Summary: "効果測定"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob := BuildBlob(tt.row, Stage1Limits())
			assert.Len(t, strings.Split(blob, "\n"), tt.expected)
		})
	}
}

func TestBuildBlobTruncatesPerField(t *testing.T) {
	long := strings.Repeat("あ", 5000)
	row := types.Row{Title: long, Transcript: long}

	limits := Stage2Limits()
	blob := BuildBlob(row, limits)

	for _, line := range strings.Split(blob, "\n") {
		// label + separator + limited value; nothing close to the raw length
		assert.Less(t, len([]rune(line)), limits.Transcript+20)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		limit    int
		expected string
	}{
		{"shorter than limit", "ROI", 10, "ROI"},
		{"exact limit", "ROI", 3, "ROI"},
		{"multibyte cut", "エンゲージメント率", 4, "エンゲー"},
		{"zero limit", "ROI", 0, ""},
		{"negative limit", "ROI", -1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.limit))
		})
	}
}
