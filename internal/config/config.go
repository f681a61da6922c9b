// Package config provides configuration loading and validation for the CLI
// and server: provider credentials from the environment, tuning limits from
// an optional YAML policy file.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/masato/tag-generator/internal/llm"
	"github.com/masato/tag-generator/internal/pipeline"
)

// Environment variable names for provider credentials.
const (
	EnvOpenAIKey = "OPENAI_API_KEY"
	EnvClaudeKey = "ANTHROPIC_API_KEY"
	EnvGeminiKey = "GEMINI_API_KEY"
)

// Limits bundles every tunable threshold: pipeline policy and gateway
// budgets. Both sections are optional in the YAML file; absent values
// keep their defaults.
type Limits struct {
	Pipeline pipeline.Config `yaml:"pipeline"`
	Budgets  llm.Budgets     `yaml:"budgets"`
}

// DefaultLimits returns the canonical thresholds.
func DefaultLimits() Limits {
	return Limits{
		Pipeline: pipeline.DefaultConfig(),
		Budgets:  llm.DefaultBudgets(),
	}
}

// LoadLimits reads a YAML limits file over the defaults and validates the
// result. An empty path returns the defaults unchanged.
func LoadLimits(path string) (Limits, error) {
	limits := DefaultLimits()
	if path == "" {
		return limits, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return limits, fmt.Errorf("failed to read limits file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &limits); err != nil {
		return limits, fmt.Errorf("failed to parse limits YAML: %w", err)
	}
	if err := limits.Validate(); err != nil {
		return limits, err
	}
	return limits, nil
}

// Validate checks structural constraints plus the cross-field rules the
// struct tags cannot express.
func (l Limits) Validate() error {
	v := validator.New()
	if err := v.Struct(l.Pipeline); err != nil {
		return fmt.Errorf("invalid pipeline limits: %w", err)
	}
	if err := v.Struct(l.Budgets); err != nil {
		return fmt.Errorf("invalid budget limits: %w", err)
	}

	if l.Pipeline.MinAssignment > l.Pipeline.MaxAssignment {
		return fmt.Errorf("invalid pipeline limits: min_assignment %d exceeds max_assignment %d",
			l.Pipeline.MinAssignment, l.Pipeline.MaxAssignment)
	}
	if l.Pipeline.TargetVocabularySize > l.Pipeline.HardVocabularyCeiling {
		return fmt.Errorf("invalid pipeline limits: target_vocabulary_size %d exceeds hard_vocabulary_ceiling %d",
			l.Pipeline.TargetVocabularySize, l.Pipeline.HardVocabularyCeiling)
	}
	if l.Budgets.MinKeywordsPerRow > l.Budgets.MaxKeywordsPerRow {
		return fmt.Errorf("invalid budget limits: min_keywords_per_row %d exceeds max_keywords_per_row %d",
			l.Budgets.MinKeywordsPerRow, l.Budgets.MaxKeywordsPerRow)
	}
	if l.Budgets.KeywordListByteBudget > l.Budgets.HardInputByteCeiling {
		return fmt.Errorf("invalid budget limits: keyword_list_byte_budget %d exceeds hard_input_byte_ceiling %d",
			l.Budgets.KeywordListByteBudget, l.Budgets.HardInputByteCeiling)
	}
	return nil
}

// LoadEnv loads a .env file if one exists, then reads provider
// credentials from the environment. A missing .env file is fine; explicit
// environment variables always win.
func LoadEnv() llm.Credentials {
	_ = godotenv.Load()
	return llm.Credentials{
		OpenAIKey: os.Getenv(EnvOpenAIKey),
		ClaudeKey: os.Getenv(EnvClaudeKey),
		GeminiKey: os.Getenv(EnvGeminiKey),
	}
}
