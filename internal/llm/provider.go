package llm

import "context"

// Provider names. The fallback priority order is fixed; the preferred
// provider is moved to the front of the attempt list.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
)

// PriorityOrder is the fixed fallback order for configured providers.
var PriorityOrder = []string{ProviderOpenAI, ProviderClaude, ProviderGemini}

// Provider is one interchangeable LLM backend. Generate performs a single
// text completion for the given prompt and returns the raw response text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Credentials holds the per-provider API keys loaded once at startup and
// passed by reference; absence of a key disables that provider.
type Credentials struct {
	OpenAIKey string
	ClaudeKey string
	GeminiKey string
}

// Configured returns the provider names with credentials present, in
// priority order.
func (c Credentials) Configured() []string {
	var names []string
	for _, name := range PriorityOrder {
		switch name {
		case ProviderOpenAI:
			if c.OpenAIKey != "" {
				names = append(names, name)
			}
		case ProviderClaude:
			if c.ClaudeKey != "" {
				names = append(names, name)
			}
		case ProviderGemini:
			if c.GeminiKey != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// NewProviders constructs a backend for every configured credential, keyed
// by provider name.
func NewProviders(ctx context.Context, creds Credentials) (map[string]Provider, error) {
	providers := make(map[string]Provider)

	if creds.OpenAIKey != "" {
		p, err := NewOpenAIProvider(creds.OpenAIKey)
		if err != nil {
			return nil, err
		}
		providers[ProviderOpenAI] = p
	}
	if creds.ClaudeKey != "" {
		p, err := NewClaudeProvider(creds.ClaudeKey)
		if err != nil {
			return nil, err
		}
		providers[ProviderClaude] = p
	}
	if creds.GeminiKey != "" {
		p, err := NewGeminiProvider(ctx, creds.GeminiKey)
		if err != nil {
			return nil, err
		}
		providers[ProviderGemini] = p
	}

	return providers, nil
}
