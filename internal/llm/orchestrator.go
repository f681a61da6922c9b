package llm

import (
	"context"
	"errors"
	"log/slog"
)

// Operation is one logical gateway call bound to its inputs, invoked per
// provider by the orchestrator's fallback loop.
type Operation func(ctx context.Context, p Provider) ([]string, error)

// Orchestrator tries providers in order for a single logical operation:
// the preferred provider first, then the remaining configured providers in
// fixed priority order. Providers are tried sequentially, not raced; cost
// and rate-limit predictability matter more than latency here.
type Orchestrator struct {
	providers map[string]Provider
	logger    *slog.Logger
}

// NewOrchestrator creates an orchestrator over the configured providers.
func NewOrchestrator(providers map[string]Provider, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{providers: providers, logger: logger}
}

// Configured reports whether any provider is available.
func (o *Orchestrator) Configured() bool {
	return len(o.providers) > 0
}

// AttemptOrder builds the ordered attempt list for a preferred provider.
func (o *Orchestrator) AttemptOrder(preferred string) []Provider {
	var order []Provider
	if p, ok := o.providers[preferred]; ok {
		order = append(order, p)
	}
	for _, name := range PriorityOrder {
		if name == preferred {
			continue
		}
		if p, ok := o.providers[name]; ok {
			order = append(order, p)
		}
	}
	return order
}

// Do invokes op against each provider in order until one succeeds. On
// success it stops immediately. Provider failures are recorded and the
// loop continues; when every provider has failed the attempts are returned
// as one aggregate error. Size-limit violations abort without fallback —
// the input is at fault, not the provider.
func (o *Orchestrator) Do(ctx context.Context, preferred string, op Operation) ([]string, error) {
	if !o.Configured() {
		return nil, &ConfigurationError{Message: "no AI provider credentials configured"}
	}

	var attempts []*ProviderError
	for _, p := range o.AttemptOrder(preferred) {
		tags, err := op(ctx, p)
		if err == nil {
			if len(attempts) > 0 {
				o.logger.Info("provider fallback succeeded",
					"provider", p.Name(), "failed_attempts", len(attempts))
			}
			return tags, nil
		}

		var sizeErr *SizeLimitError
		if errors.As(err, &sizeErr) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		perr := asProviderError(p.Name(), err)
		o.logger.Warn("provider attempt failed",
			"provider", perr.Provider, "status", perr.Status, "error", perr.Cause)
		attempts = append(attempts, perr)
	}

	return nil, &ExhaustedError{Attempts: attempts}
}

func asProviderError(name string, err error) *ProviderError {
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr
	}
	return &ProviderError{Provider: name, Cause: err}
}
