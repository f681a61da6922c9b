package pipeline

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// fakeService is a scriptable TagService. Each call is recorded so tests
// can assert on call counts and payload sizes.
type fakeService struct {
	mu sync.Mutex

	extractFn  func(ctx context.Context, text string) ([]string, error)
	optimizeFn func(ctx context.Context, keywords []string) ([]string, error)
	selectFn   func(ctx context.Context, content string, vocabulary []string) ([]string, error)

	extractCalls  []string
	optimizeCalls [][]string
	selectCalls   []string
}

func (f *fakeService) ExtractKeywordsLight(ctx context.Context, text string) ([]string, error) {
	f.mu.Lock()
	f.extractCalls = append(f.extractCalls, text)
	f.mu.Unlock()
	if f.extractFn == nil {
		return nil, nil
	}
	return f.extractFn(ctx, text)
}

func (f *fakeService) OptimizeTags(ctx context.Context, keywords []string) ([]string, error) {
	f.mu.Lock()
	f.optimizeCalls = append(f.optimizeCalls, append([]string(nil), keywords...))
	f.mu.Unlock()
	if f.optimizeFn == nil {
		return append([]string(nil), keywords...), nil
	}
	return f.optimizeFn(ctx, keywords)
}

func (f *fakeService) SelectTagsForVideo(ctx context.Context, content string, vocabulary []string) ([]string, error) {
	f.mu.Lock()
	f.selectCalls = append(f.selectCalls, content)
	f.mu.Unlock()
	if f.selectFn == nil {
		return nil, nil
	}
	return f.selectFn(ctx, content, vocabulary)
}

func newTestPipeline(svc TagService, mutate func(*Config)) *Pipeline {
	cfg := DefaultConfig()
	cfg.RowDelayMS = 0
	if mutate != nil {
		mutate(&cfg)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(svc, cfg, logger)
}
