package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/masato/tag-generator/internal/ingest"
	"github.com/masato/tag-generator/internal/pipeline"
	"github.com/masato/tag-generator/internal/types"
)

var extractCommand = &cobra.Command{
	Use:   "extract",
	Short: "Run Stage 1A: per-row keyword extraction",
	Long:  "Reads video metadata rows from a CSV or JSON file and extracts lightweight keywords per row. Transcripts are excluded at this stage.",
	RunE:  runExtractCmd,
}

var (
	extractInput   string
	extractOutput  string
	extractOffline bool
)

func init() {
	extractCommand.Flags().StringVarP(&extractInput, "input", "i", "", "Path to input CSV or JSON file (required)")
	extractCommand.Flags().StringVarP(&extractOutput, "output", "o", "", "Path to write results JSON (default: stdout)")
	extractCommand.Flags().BoolVar(&extractOffline, "offline", false, "Use pattern-based extraction without calling any provider")
	_ = extractCommand.MarkFlagRequired("input")

	rootCmd.AddCommand(extractCommand)
}

func runExtractCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	limits, logger, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	rows, err := ingest.ReadFile(extractInput)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no rows found in %s", extractInput)
	}

	svc, closeSvc, err := buildService(ctx, limits, logger, extractOffline)
	if err != nil {
		return err
	}
	defer func() { _ = closeSvc() }()

	pipe := pipeline.New(svc, limits.Pipeline, logger)

	fmt.Printf("Extracting keywords from %d rows...\n", len(rows))
	var results []types.ExtractResult
	for i, row := range rows {
		result := pipe.Extract(ctx, row, i)
		results = append(results, result)
		if flagVerbose {
			fmt.Printf("  [%d/%d] %s: %d keywords\n", i+1, len(rows), result.Status, len(result.Keywords))
		}
	}

	return writeJSONOutput(extractOutput, results)
}
