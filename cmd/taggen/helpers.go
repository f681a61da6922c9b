package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/masato/tag-generator/internal/config"
	"github.com/masato/tag-generator/internal/llm"
	"github.com/masato/tag-generator/internal/pipeline"
)

// setup loads limits and builds the process logger from the persistent
// flags. The cleanup closes the log file.
func setup() (config.Limits, *slog.Logger, func() error, error) {
	limits, err := config.LoadLimits(flagLimits)
	if err != nil {
		return limits, nil, nil, err
	}

	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger, cleanup := config.SetupLogger(flagLogFile, level)
	return limits, logger, cleanup, nil
}

// buildService constructs the provider-backed tag service, or an offline
// pipeline service when offline is set.
func buildService(ctx context.Context, limits config.Limits, logger *slog.Logger, offline bool) (pipeline.TagService, func() error, error) {
	if offline {
		return pipeline.NewOfflineService(limits.Pipeline, logger), func() error { return nil }, nil
	}

	client, err := llm.NewClient(ctx, config.LoadEnv(), flagProvider, limits.Budgets, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

// writeJSONOutput writes data as indented JSON to path, or stdout when
// path is empty.
func writeJSONOutput(path string, data any) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	out = append(out, '\n')

	if path == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output %s: %w", path, err)
	}
	return nil
}

// readJSONInput decodes a JSON file into dst.
func readJSONInput(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse input %s: %w", path, err)
	}
	return nil
}
