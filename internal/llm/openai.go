package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const openAIModel = "gpt-3.5-turbo"

// OpenAIProvider implements Provider for OpenAI chat completions.
type OpenAIProvider struct {
	model llms.Model
}

// NewOpenAIProvider creates an OpenAI backend.
func NewOpenAIProvider(apiKey string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	model, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(openAIModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	return &OpenAIProvider{model: model}, nil
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

// Generate performs a single completion call.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
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
