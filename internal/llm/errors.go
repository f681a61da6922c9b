// Package llm provides the provider abstraction, the four-operation tag
// gateway, and the fallback orchestrator over interchangeable LLM backends.
package llm

import (
	"fmt"
	"strings"
)

// ConfigurationError indicates no usable provider credentials. Fatal for
// the whole run; never retried.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// ProviderError represents a single provider's failure: HTTP error, network
// error, or a malformed/empty response body.
type ProviderError struct {
	Provider string
	Status   int // HTTP status when known, 0 otherwise
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider %s failed with status %d: %v", e.Provider, e.Status, e.Cause)
	}
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ExhaustedError aggregates the failures of every attempted provider for
// one logical operation.
type ExhaustedError struct {
	Attempts []*ProviderError
}

func (e *ExhaustedError) Error() string {
	names := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		names = append(names, a.Provider)
	}
	last := "no providers attempted"
	if len(e.Attempts) > 0 {
		last = e.Attempts[len(e.Attempts)-1].Error()
	}
	return fmt.Sprintf("all providers failed (%s): %s", strings.Join(names, ", "), last)
}

// Unwrap exposes the last attempt's error for errors.Is/As chains.
func (e *ExhaustedError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1]
}

// SizeLimitError indicates input that exceeds the hard byte ceiling even
// before truncation. Surfaced to the caller as a rejected request;
// silently dropping the data would corrupt vocabulary coverage.
type SizeLimitError struct {
	Size  int
	Limit int
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("input size %d exceeds hard ceiling %d", e.Size, e.Limit)
}
