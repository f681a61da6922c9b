package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/masato/tag-generator/internal/normalize"
	"github.com/masato/tag-generator/internal/prompts"
	"github.com/masato/tag-generator/internal/tagparse"
)

// Budgets bounds the size and shape of every gateway call. All values are
// policy, injected from configuration rather than baked into control flow.
type Budgets struct {
	// PromptRuneBudget is the soft cap on free-text content embedded in a
	// prompt; longer content is truncated to this many runes.
	PromptRuneBudget int `yaml:"prompt_rune_budget" validate:"gt=0"`
	// KeywordListByteBudget caps the serialized keyword list; truncation
	// keeps as many whole keywords as fit.
	KeywordListByteBudget int `yaml:"keyword_list_byte_budget" validate:"gt=0"`
	// HardInputByteCeiling rejects input outright before any truncation.
	HardInputByteCeiling int `yaml:"hard_input_byte_ceiling" validate:"gt=0"`

	MinKeywordsPerRow    int `yaml:"min_keywords_per_row" validate:"gt=0"`
	MaxKeywordsPerRow    int `yaml:"max_keywords_per_row" validate:"gt=0"`
	TargetVocabularySize int `yaml:"target_vocabulary_size" validate:"gt=0"`
	MinAssignment        int `yaml:"min_assignment" validate:"gt=0"`
	MaxAssignment        int `yaml:"max_assignment" validate:"gt=0"`
}

// DefaultBudgets returns the canonical limits: 50KB keyword lists
// (matching upstream request-size constraints), 200-tag target vocabulary,
// 10-15 tags per row.
func DefaultBudgets() Budgets {
	return Budgets{
		PromptRuneBudget:      24000,
		KeywordListByteBudget: 50000,
		HardInputByteCeiling:  200000,
		MinKeywordsPerRow:     10,
		MaxKeywordsPerRow:     30,
		TargetVocabularySize:  200,
		MinAssignment:         10,
		MaxAssignment:         15,
	}
}

// Gateway performs the four logical tag operations against any Provider,
// handling prompt construction, input budgets, and response parsing. It
// never substitutes an empty list on failure; the orchestrator decides
// what happens next.
type Gateway struct {
	budgets Budgets
	logger  *slog.Logger
}

// NewGateway creates a gateway with the given budgets.
func NewGateway(budgets Budgets, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{budgets: budgets, logger: logger}
}

// GenerateTags produces a bulk tag list from a large combined text.
func (g *Gateway) GenerateTags(ctx context.Context, text string, p Provider) ([]string, error) {
	if err := g.checkCeiling(len(text)); err != nil {
		return nil, err
	}

	prompt := prompts.Format(prompts.MustGet(prompts.KeyGenerateTags), map[string]string{
		"Content": normalize.Truncate(text, g.budgets.PromptRuneBudget),
	})

	raw, err := g.call(ctx, p, prompt)
	if err != nil {
		return nil, err
	}
	return g.parsed(p, tagparse.ParseWith(raw, g.bulkParseOptions()))
}

// ExtractKeywordsLight performs cheap per-row keyword extraction.
func (g *Gateway) ExtractKeywordsLight(ctx context.Context, text string, p Provider) ([]string, error) {
	if err := g.checkCeiling(len(text)); err != nil {
		return nil, err
	}

	prompt := prompts.Format(prompts.MustGet(prompts.KeyExtractKeywords), map[string]string{
		"Content":     normalize.Truncate(text, g.budgets.PromptRuneBudget),
		"MinKeywords": strconv.Itoa(g.budgets.MinKeywordsPerRow),
		"MaxKeywords": strconv.Itoa(g.budgets.MaxKeywordsPerRow),
	})

	raw, err := g.call(ctx, p, prompt)
	if err != nil {
		return nil, err
	}
	return g.parsed(p, tagparse.ParseWith(raw, tagparse.Options{
		MaxTags: g.budgets.MaxKeywordsPerRow,
	}))
}

// OptimizeTags merges a keyword list into a target-size tag set.
func (g *Gateway) OptimizeTags(ctx context.Context, keywords []string, p Provider) ([]string, error) {
	serialized := tagparse.Serialize(keywords)
	if err := g.checkCeiling(len(serialized)); err != nil {
		return nil, err
	}

	kept := truncateKeywords(keywords, g.budgets.KeywordListByteBudget)
	if len(kept) < len(keywords) {
		g.logger.Warn("keyword list truncated to fit byte budget",
			"original", len(keywords), "kept", len(kept))
	}

	prompt := prompts.Format(prompts.MustGet(prompts.KeyOptimizeTags), map[string]string{
		"KeywordCount": strconv.Itoa(len(kept)),
		"Keywords":     tagparse.Serialize(kept),
		"TargetSize":   strconv.Itoa(g.budgets.TargetVocabularySize),
	})

	raw, err := g.call(ctx, p, prompt)
	if err != nil {
		return nil, err
	}
	return g.parsed(p, tagparse.ParseWith(raw, g.bulkParseOptions()))
}

// bulkParseOptions configures vocabulary-sized parses: the loose-filter
// fallback engages only when strict filtering guts the batch, so on a
// normal response generic tags are already excluded at the parser.
func (g *Gateway) bulkParseOptions() tagparse.Options {
	return tagparse.Options{MinViable: g.budgets.TargetVocabularySize / 2}
}

// SelectTagsForVideo selects a bounded subset of the candidate vocabulary
// relevant to one row's content.
func (g *Gateway) SelectTagsForVideo(ctx context.Context, content string, vocabulary []string, p Provider) ([]string, error) {
	if err := g.checkCeiling(len(content)); err != nil {
		return nil, err
	}

	candidates := truncateKeywords(vocabulary, g.budgets.KeywordListByteBudget)

	prompt := prompts.Format(prompts.MustGet(prompts.KeySelectTags), map[string]string{
		"Content":    normalize.Truncate(content, g.budgets.PromptRuneBudget),
		"Candidates": tagparse.Serialize(candidates),
		"MinTags":    strconv.Itoa(g.budgets.MinAssignment),
		"MaxTags":    strconv.Itoa(g.budgets.MaxAssignment),
	})

	raw, err := g.call(ctx, p, prompt)
	if err != nil {
		return nil, err
	}
	return g.parsed(p, tagparse.ParseSelection(raw, g.budgets.MaxAssignment))
}

func (g *Gateway) call(ctx context.Context, p Provider, prompt string) (string, error) {
	raw, err := p.Generate(ctx, prompt)
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			return "", err
		}
		return "", &ProviderError{Provider: p.Name(), Cause: err}
	}
	return raw, nil
}

// parsed rejects responses that parse to nothing: an empty list from a
// 200-level response is still a malformed answer for these operations.
func (g *Gateway) parsed(p Provider, tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, &ProviderError{Provider: p.Name(), Cause: fmt.Errorf("no tags parsed from response")}
	}
	return tags, nil
}

func (g *Gateway) checkCeiling(size int) error {
	if size > g.budgets.HardInputByteCeiling {
		return &SizeLimitError{Size: size, Limit: g.budgets.HardInputByteCeiling}
	}
	return nil
}

// truncateKeywords keeps as many whole keywords as fit the byte budget
// when joined with ", ".
func truncateKeywords(keywords []string, budget int) []string {
	total := 0
	for i, k := range keywords {
		total += len(k)
		if i > 0 {
			total += 2
		}
		if total > budget {
			return keywords[:i]
		}
	}
	return keywords
}
