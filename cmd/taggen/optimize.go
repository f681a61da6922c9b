package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/masato/tag-generator/internal/observability"
	"github.com/masato/tag-generator/internal/pipeline"
	"github.com/masato/tag-generator/internal/types"
)

var optimizeCommand = &cobra.Command{
	Use:   "optimize",
	Short: "Run Stage 1B: converge pooled keywords into the tag vocabulary",
	Long:  "Reads Stage 1A results (or a flat keyword list) from JSON and produces the approved tag vocabulary: deduplicated, frequency-aware, generic terms filtered, capped at the configured ceiling.",
	RunE:  runOptimizeCmd,
}

var (
	optimizeInput   string
	optimizeOutput  string
	optimizeOffline bool
)

func init() {
	optimizeCommand.Flags().StringVarP(&optimizeInput, "input", "i", "", "Path to Stage 1A results JSON or a flat keyword array (required)")
	optimizeCommand.Flags().StringVarP(&optimizeOutput, "output", "o", "", "Path to write the vocabulary JSON (default: stdout)")
	optimizeCommand.Flags().BoolVar(&optimizeOffline, "offline", false, "Converge without calling any provider")
	_ = optimizeCommand.MarkFlagRequired("input")

	rootCmd.AddCommand(optimizeCommand)
}

// readKeywordPool accepts either the extract command's output or a plain
// string array.
func readKeywordPool(path string) ([]string, error) {
	var results []types.ExtractResult
	if err := readJSONInput(path, &results); err == nil && len(results) > 0 && results[0].Status != "" {
		var pool []string
		for _, r := range results {
			pool = append(pool, r.Keywords...)
		}
		return pool, nil
	}

	var pool []string
	if err := readJSONInput(path, &pool); err != nil {
		return nil, err
	}
	return pool, nil
}

func runOptimizeCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	limits, logger, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	pool, err := readKeywordPool(optimizeInput)
	if err != nil {
		return err
	}
	if len(pool) == 0 {
		return fmt.Errorf("no keywords found in %s", optimizeInput)
	}

	svc, closeSvc, err := buildService(ctx, limits, logger, optimizeOffline)
	if err != nil {
		return err
	}
	defer func() { _ = closeSvc() }()

	pipe := pipeline.New(svc, limits.Pipeline, logger)

	fmt.Printf("Optimizing %d pooled keywords...\n", len(pool))
	result, err := pipe.Optimize(ctx, pool)
	if err != nil {
		return err
	}

	if flagVerbose {
		observability.NewPrinter(os.Stdout).PrintVocabulary(&result)
	}
	return writeJSONOutput(optimizeOutput, result)
}
