package tagparse

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDelimiterFallback(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "comma separated",
			raw:      "Google Analytics, ROI, A/Bテスト",
			expected: []string{"Google Analytics", "ROI", "A/Bテスト"},
		},
		{
			name:     "japanese comma",
			raw:      "Google Analytics、ROI、A/Bテスト",
			expected: []string{"Google Analytics", "ROI", "A/Bテスト"},
		},
		{
			name:     "newline fallback",
			raw:      "Instagram\nコンバージョン率\nSEO",
			expected: []string{"Instagram", "コンバージョン率", "SEO"},
		},
		{
			name:     "whitespace fallback",
			raw:      "Instagram SEO ROI",
			expected: []string{"Instagram", "SEO", "ROI"},
		},
		{
			name:     "quotes stripped",
			raw:      `"Google Analytics", 'ROI', 「A/Bテスト」`,
			expected: []string{"Google Analytics", "ROI", "A/Bテスト"},
		},
		{
			// Line-wrapped comma lists must not merge tags across the wrap.
			name:     "mixed commas and newlines",
			raw:      "Google Analytics, ROI\nSEO, CTR",
			expected: []string{"Google Analytics", "ROI", "SEO", "CTR"},
		},
		{
			name:     "crlf line endings",
			raw:      "Instagram\r\nコンバージョン率\r\nSEO",
			expected: []string{"Instagram", "コンバージョン率", "SEO"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseWith(tt.raw, Options{}))
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	assert.Empty(t, ParseWith("", Options{}))
	assert.Empty(t, ParseWith("   \n  ", Options{}))
}

func TestParseExcludesGenericTags(t *testing.T) {
	generic := []string{"3つの要素", "8個の分類", "4のポイント", "方法", "ポイント", "手法", "基本", "分析", "42", "!!"}
	concrete := []string{"Google Analytics", "ROI", "A/Bテスト", "PDCAサイクル", "エンゲージメント率", "SEO"}

	raw := Serialize(append(append([]string{}, generic...), concrete...))
	result := ParseWith(raw, Options{})

	for _, g := range generic {
		assert.NotContains(t, result, g)
	}
	for _, c := range concrete {
		assert.Contains(t, result, c)
	}
}

func TestParseDeduplicatesCaseInsensitive(t *testing.T) {
	result := ParseWith("SEO, seo, Seo, ROI", Options{})
	assert.Equal(t, []string{"SEO", "ROI"}, result)
}

func TestParseLooseFallbackPreventsEmptyBatch(t *testing.T) {
	// Every token is generic under the strict filter; with a MinViable
	// threshold set the parse must not come back empty.
	raw := "方法, 手法, ポイント, 分析, 管理"

	strict := ParseWith(raw, Options{})
	assert.Empty(t, strict)

	loose := ParseWith(raw, Options{MinViable: 100})
	assert.NotEmpty(t, loose)
	assert.Contains(t, loose, "方法")
}

func TestParseStrictWithoutMinViable(t *testing.T) {
	// Parse applies the strict filter unconditionally; a small batch with
	// a few generic tokens keeps only the concrete ones, never the loose
	// superset.
	result := Parse("Google Analytics, 方法, ROI, ポイント, SEO")
	assert.Equal(t, []string{"Google Analytics", "ROI", "SEO"}, result)
}

func TestParseMinViableKeepsStrictOnNormalBatch(t *testing.T) {
	// When the strict pass retains at least MinViable tags, generic
	// stragglers stay excluded even though the fallback is armed.
	tags := []string{"方法", "ポイント"}
	for i := 0; i < 120; i++ {
		tags = append(tags, fmt.Sprintf("タグ%d番", i))
	}

	result := ParseWith(Serialize(tags), Options{MinViable: 100})
	assert.Len(t, result, 120)
	assert.NotContains(t, result, "方法")
	assert.NotContains(t, result, "ポイント")
}

func TestParseHardCeiling(t *testing.T) {
	var tags []string
	for i := 0; i < 500; i++ {
		tags = append(tags, fmt.Sprintf("タグ%d番", i))
	}

	result := Parse(Serialize(tags))
	assert.LessOrEqual(t, len(result), MaxTags)
	assert.Len(t, result, MaxTags)
}

func TestParseSerializeRoundTrip(t *testing.T) {
	tags := []string{"Google Analytics", "ROI", "A/Bテスト", "コンバージョン率", "Instagram"}

	recovered := ParseWith(Serialize(tags), Options{})

	sortedWant := append([]string{}, tags...)
	sortedGot := append([]string{}, recovered...)
	sort.Strings(sortedWant)
	sort.Strings(sortedGot)
	assert.Equal(t, sortedWant, sortedGot)
}

func TestIsGenericTag(t *testing.T) {
	tests := []struct {
		tag     string
		generic bool
	}{
		{"3つの要素", true},
		{"１０個の手法", true},
		{"方法", true},
		{"ポイント", true},
		{"基本", true},
		{"effort", false},
		{"method", true},
		{"x", true},
		{"123", true},
		{"---", true},
		{"Google Analytics", false},
		{"ROI", false},
		{"A/Bテスト", false},
		{"カスタマージャーニー", false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.generic, IsGenericTag(tt.tag))
		})
	}
}

func TestParseSelectionStripsPreambleAndMarkers(t *testing.T) {
	raw := strings.Join([]string{
		"The following tags were selected:",
		"1. Google Analytics",
		"2. ROI",
		"- A/Bテスト",
		"・コンバージョン率",
	}, "\n")

	result := ParseSelection(raw, 15)
	assert.Equal(t, []string{"Google Analytics", "ROI", "A/Bテスト", "コンバージョン率"}, result)
}

func TestParseSelectionInlinePreamble(t *testing.T) {
	result := ParseSelection("出力: Google Analytics, ROI, SEO", 15)
	assert.Equal(t, []string{"Google Analytics", "ROI", "SEO"}, result)
}

func TestParseSelectionRelaxedFilter(t *testing.T) {
	// Pre-vetted vocabulary entries may look generic; selection parsing
	// must keep them.
	result := ParseSelection("データ分析, 管理会計", 15)
	assert.Equal(t, []string{"データ分析", "管理会計"}, result)
}

func TestParseSelectionCap(t *testing.T) {
	var tags []string
	for i := 0; i < 40; i++ {
		tags = append(tags, fmt.Sprintf("タグ%d番", i))
	}

	result := ParseSelection(Serialize(tags), 15)
	assert.Len(t, result, 15)
}
