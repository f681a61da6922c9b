package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masato/tag-generator/internal/types"
)

var stage2Vocabulary = []string{
	"Python", "機械学習", "データ分析", "統計学", "プログラミング",
	"アルゴリズム", "ディープラーニング", "自然言語処理", "画像認識",
	"クラウド", "セキュリティ", "データベース",
}

func TestSelectKeepsOnlyVocabularyTags(t *testing.T) {
	svc := &fakeService{
		selectFn: func(ctx context.Context, content string, vocabulary []string) ([]string, error) {
			return []string{"python", "機械学習", "量子テレポーテーション"}, nil
		},
	}
	p := newTestPipeline(svc, func(cfg *Config) {
		cfg.MinAssignment = 2
	})

	a := p.Select(context.Background(), types.Row{Title: "ML入門"}, 0, stage2Vocabulary)

	require.Equal(t, types.StatusDone, a.Status)
	// Case-insensitive match resolves to the canonical vocabulary entry;
	// the hallucinated tag is gone.
	assert.Equal(t, []string{"Python", "機械学習"}, a.Tags)
	assert.Equal(t, 2, a.TagCount)
	vocab := make(map[string]struct{}, len(stage2Vocabulary))
	for _, v := range stage2Vocabulary {
		vocab[v] = struct{}{}
	}
	for _, tag := range a.Tags {
		_, ok := vocab[tag]
		assert.True(t, ok, "tag %q not in vocabulary", tag)
	}
}

func TestSelectSalvagesNearMisses(t *testing.T) {
	svc := &fakeService{
		selectFn: func(ctx context.Context, content string, vocabulary []string) ([]string, error) {
			return []string{"機械学習入門", "Python"}, nil
		},
	}
	p := newTestPipeline(svc, func(cfg *Config) {
		cfg.MinAssignment = 2
	})

	a := p.Select(context.Background(), types.Row{Title: "ML入門"}, 0, stage2Vocabulary)

	assert.Contains(t, a.Tags, "機械学習")
	assert.NotContains(t, a.Tags, "機械学習入門")
}

func TestSelectSalvageRespectsLengthBound(t *testing.T) {
	svc := &fakeService{
		selectFn: func(ctx context.Context, content string, vocabulary []string) ([]string, error) {
			// Contains 機械学習 but is far too long to salvage.
			return []string{"機械学習による需要予測モデル構築"}, nil
		},
	}
	p := newTestPipeline(svc, func(cfg *Config) {
		cfg.MinAssignment = 1
	})

	a := p.Select(context.Background(), types.Row{Title: "ML"}, 0, stage2Vocabulary)

	assert.NotContains(t, a.Tags, "機械学習")
}

func TestSelectPadsToMinimum(t *testing.T) {
	svc := &fakeService{
		selectFn: func(ctx context.Context, content string, vocabulary []string) ([]string, error) {
			return []string{"統計学", "Python"}, nil
		},
	}
	p := newTestPipeline(svc, nil)

	a := p.Select(context.Background(), types.Row{Title: "統計入門"}, 0, stage2Vocabulary)

	require.Len(t, a.Tags, p.cfg.MinAssignment)
	// Valid selections come first, then unused vocabulary in order.
	assert.Equal(t, "統計学", a.Tags[0])
	assert.Equal(t, "Python", a.Tags[1])
	assert.Equal(t, "機械学習", a.Tags[2])
	seen := make(map[string]struct{}, len(a.Tags))
	for _, tag := range a.Tags {
		_, dup := seen[tag]
		assert.False(t, dup, "duplicate tag %q", tag)
		seen[tag] = struct{}{}
	}
}

func TestSelectTruncatesToMaximum(t *testing.T) {
	svc := &fakeService{
		selectFn: func(ctx context.Context, content string, vocabulary []string) ([]string, error) {
			return append([]string(nil), vocabulary...), nil
		},
	}
	p := newTestPipeline(svc, func(cfg *Config) {
		cfg.MaxAssignment = 5
		cfg.MinAssignment = 3
	})

	a := p.Select(context.Background(), types.Row{Title: "全部入り"}, 0, stage2Vocabulary)

	assert.Len(t, a.Tags, 5)
	assert.Equal(t, stage2Vocabulary[:5], a.Tags)
}

func TestSelectFailureMarksRow(t *testing.T) {
	svc := &fakeService{
		selectFn: func(ctx context.Context, content string, vocabulary []string) ([]string, error) {
			return nil, errors.New("all providers exhausted")
		},
	}
	p := newTestPipeline(svc, nil)

	a := p.Select(context.Background(), types.Row{Title: "失敗行"}, 4, stage2Vocabulary)

	assert.Equal(t, types.StatusFailed, a.Status)
	assert.Empty(t, a.Tags)
	assert.Equal(t, 4, a.RowIndex)
	assert.Contains(t, a.Err, "exhausted")
}

func TestConfidenceScoring(t *testing.T) {
	tests := []struct {
		name string
		tags []string
		row  types.Row
		want float64
	}{
		{
			name: "no transcript uses neutral relevance",
			tags: []string{"Python", "機械学習"},
			row:  types.Row{Title: "ML入門"},
			want: 0.5*0.7 + (2.0/12.0)*0.3,
		},
		{
			name: "all tags in transcript",
			tags: []string{"python", "統計"},
			row:  types.Row{Transcript: "今日はPythonと統計の話です"},
			want: 1.0*0.7 + (2.0/12.0)*0.3,
		},
		{
			name: "count term saturates at twelve",
			tags: []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "b1", "b2", "b3", "b4"},
			row:  types.Row{},
			want: 0.5*0.7 + 0.3,
		},
		{
			name: "empty assignment scores zero",
			tags: nil,
			row:  types.Row{Transcript: "text"},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, confidence(tt.tags, tt.row), 0.005)
		})
	}
}

func TestOfflineServiceExtract(t *testing.T) {
	svc := NewOfflineService(DefaultConfig(), nil)

	keywords, err := svc.ExtractKeywordsLight(context.Background(),
		"Kubernetes運用とデータ分析\nマイクロサービスの監視手順を解説")
	require.NoError(t, err)

	assert.Contains(t, keywords, "Kubernetes")
	assert.Contains(t, keywords, "データ分析")
	assert.Contains(t, keywords, "マイクロサービス")
	// Generic standalone words never survive the filter.
	assert.NotContains(t, keywords, "運用")
}

func TestOfflineServiceExtractEmptyText(t *testing.T) {
	svc := NewOfflineService(DefaultConfig(), nil)
	keywords, err := svc.ExtractKeywordsLight(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, keywords)
}

func TestOfflineServiceSelect(t *testing.T) {
	svc := NewOfflineService(DefaultConfig(), nil)

	selected, err := svc.SelectTagsForVideo(context.Background(),
		"今日はPythonとクラウドの話です", stage2Vocabulary)
	require.NoError(t, err)

	assert.Equal(t, []string{"Python", "クラウド"}, selected)
}
