package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
)

const claudeModel = "claude-3-haiku-20240307"

// ClaudeProvider implements Provider for Anthropic Claude.
type ClaudeProvider struct {
	model llms.Model
}

// NewClaudeProvider creates a Claude backend.
func NewClaudeProvider(apiKey string) (*ClaudeProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model, err := anthropic.New(
		anthropic.WithToken(apiKey),
		anthropic.WithModel(claudeModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Claude client: %w", err)
	}

	return &ClaudeProvider{model: model}, nil
}

// Name returns the provider identifier.
func (p *ClaudeProvider) Name() string {
	return ProviderClaude
}

// Generate performs a single completion call.
func (p *ClaudeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := llms.GenerateFromSinglePrompt(ctx, p.model, prompt,
		llms.WithTemperature(0.3),
		llms.WithMaxTokens(2000),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == "" {
		return "", fmt.Errorf("empty response body")
	}
	return resp, nil
}
