package llm

import (
	"context"
	"log/slog"
)

// Client is the high-level entry point: every logical operation routed
// through the fallback orchestrator with a preferred provider. It
// satisfies the pipeline's TagService contract.
type Client struct {
	gateway      *Gateway
	orchestrator *Orchestrator
	preferred    string
}

// NewClient builds a client from configured credentials. The preferred
// provider is tried first on every call; empty means the priority order
// decides.
func NewClient(ctx context.Context, creds Credentials, preferred string, budgets Budgets, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	providers, err := NewProviders(ctx, creds)
	if err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		return nil, &ConfigurationError{Message: "no AI provider credentials configured"}
	}
	return &Client{
		gateway:      NewGateway(budgets, logger),
		orchestrator: NewOrchestrator(providers, logger),
		preferred:    preferred,
	}, nil
}

// Preferred returns the provider tried first on every call.
func (c *Client) Preferred() string { return c.preferred }

// GenerateTags produces a bulk tag list from a large combined text.
func (c *Client) GenerateTags(ctx context.Context, text string) ([]string, error) {
	return c.orchestrator.Do(ctx, c.preferred, func(ctx context.Context, p Provider) ([]string, error) {
		return c.gateway.GenerateTags(ctx, text, p)
	})
}

// ExtractKeywordsLight performs cheap per-row keyword extraction.
func (c *Client) ExtractKeywordsLight(ctx context.Context, text string) ([]string, error) {
	return c.orchestrator.Do(ctx, c.preferred, func(ctx context.Context, p Provider) ([]string, error) {
		return c.gateway.ExtractKeywordsLight(ctx, text, p)
	})
}

// OptimizeTags merges a keyword list into a target-size tag set.
func (c *Client) OptimizeTags(ctx context.Context, keywords []string) ([]string, error) {
	return c.orchestrator.Do(ctx, c.preferred, func(ctx context.Context, p Provider) ([]string, error) {
		return c.gateway.OptimizeTags(ctx, keywords, p)
	})
}

// SelectTagsForVideo selects tags for one row from the approved vocabulary.
func (c *Client) SelectTagsForVideo(ctx context.Context, content string, vocabulary []string) ([]string, error) {
	return c.orchestrator.Do(ctx, c.preferred, func(ctx context.Context, p Provider) ([]string, error) {
		return c.gateway.SelectTagsForVideo(ctx, content, vocabulary, p)
	})
}

// Close releases provider resources.
func (c *Client) Close() error {
	var first error
	for _, p := range c.orchestrator.providers {
		if closer, ok := p.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
