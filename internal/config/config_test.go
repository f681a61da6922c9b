package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLimits(t *testing.T) {
	limits := DefaultLimits()

	assert.Equal(t, 200, limits.Pipeline.TargetVocabularySize)
	assert.Equal(t, 300, limits.Pipeline.HardVocabularyCeiling)
	assert.Equal(t, 10, limits.Pipeline.MinAssignment)
	assert.Equal(t, 15, limits.Pipeline.MaxAssignment)
	assert.Equal(t, 50000, limits.Budgets.KeywordListByteBudget)
	assert.NoError(t, limits.Validate())
}

func TestLoadLimitsEmptyPathUsesDefaults(t *testing.T) {
	limits, err := LoadLimits("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLimits(), limits)
}

func TestLoadLimitsOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "limits.yaml")
	content := `
pipeline:
  target_vocabulary_size: 150
  row_delay_ms: 250
budgets:
  max_keywords_per_row: 20
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	limits, err := LoadLimits(path)
	require.NoError(t, err)

	assert.Equal(t, 150, limits.Pipeline.TargetVocabularySize)
	assert.Equal(t, 250, limits.Pipeline.RowDelayMS)
	assert.Equal(t, 20, limits.Budgets.MaxKeywordsPerRow)
	// Untouched values keep their defaults.
	assert.Equal(t, 300, limits.Pipeline.HardVocabularyCeiling)
	assert.Equal(t, 10, limits.Budgets.MinKeywordsPerRow)
}

func TestLoadLimitsRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "min above max assignment",
			content: "pipeline:\n  min_assignment: 20\n  max_assignment: 15\n",
		},
		{
			name:    "target above ceiling",
			content: "pipeline:\n  target_vocabulary_size: 400\n",
		},
		{
			name:    "zero batch size",
			content: "pipeline:\n  optimize_batch_size: 0\n",
		},
		{
			name:    "not yaml",
			content: "{{{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "limits.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadLimits(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadLimitsMissingFile(t *testing.T) {
	_, err := LoadLimits(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvReadsCredentials(t *testing.T) {
	t.Setenv(EnvOpenAIKey, "sk-test")
	t.Setenv(EnvClaudeKey, "")
	t.Setenv(EnvGeminiKey, "gm-test")

	creds := LoadEnv()

	assert.Equal(t, "sk-test", creds.OpenAIKey)
	assert.Empty(t, creds.ClaudeKey)
	assert.Equal(t, "gm-test", creds.GeminiKey)
	assert.Equal(t, []string{"openai", "gemini"}, creds.Configured())
}

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("processing row", "row", 3)

	assert.Contains(t, stderr.String(), "processing row")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &entry))
	assert.Equal(t, "processing row", entry["msg"])
	assert.Equal(t, float64(3), entry["row"])
}
