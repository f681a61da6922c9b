package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/masato/tag-generator/internal/ingest"
	"github.com/masato/tag-generator/internal/observability"
	"github.com/masato/tag-generator/internal/pipeline"
	"github.com/masato/tag-generator/internal/types"
)

var selectCommand = &cobra.Command{
	Use:   "select",
	Short: "Run Stage 2: assign vocabulary tags to each row",
	Long:  "Reads video metadata rows and an approved tag vocabulary, then selects a bounded set of tags per row. Every assigned tag is guaranteed to come from the vocabulary.",
	RunE:  runSelectCmd,
}

var (
	selectInput      string
	selectVocabulary string
	selectOutput     string
	selectOffline    bool
)

func init() {
	selectCommand.Flags().StringVarP(&selectInput, "input", "i", "", "Path to input CSV or JSON file (required)")
	selectCommand.Flags().StringVar(&selectVocabulary, "vocabulary", "", "Path to vocabulary JSON from the optimize command (required)")
	selectCommand.Flags().StringVarP(&selectOutput, "output", "o", "", "Path to write assignments JSON (default: stdout)")
	selectCommand.Flags().BoolVar(&selectOffline, "offline", false, "Select by text matching without calling any provider")
	_ = selectCommand.MarkFlagRequired("input")
	_ = selectCommand.MarkFlagRequired("vocabulary")

	rootCmd.AddCommand(selectCommand)
}

// readVocabulary accepts either the optimize command's output or a plain
// string array.
func readVocabulary(path string) ([]string, error) {
	var result types.OptimizeResult
	if err := readJSONInput(path, &result); err == nil && len(result.TagCandidates) > 0 {
		return result.TagCandidates, nil
	}

	var tags []string
	if err := readJSONInput(path, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func runSelectCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	limits, logger, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	rows, err := ingest.ReadFile(selectInput)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no rows found in %s", selectInput)
	}

	vocabulary, err := readVocabulary(selectVocabulary)
	if err != nil {
		return err
	}
	if len(vocabulary) == 0 {
		return fmt.Errorf("no tags found in %s", selectVocabulary)
	}

	svc, closeSvc, err := buildService(ctx, limits, logger, selectOffline)
	if err != nil {
		return err
	}
	defer func() { _ = closeSvc() }()

	pipe := pipeline.New(svc, limits.Pipeline, logger)
	printer := observability.NewPrinter(os.Stdout)

	fmt.Printf("Selecting tags for %d rows from a %d-tag vocabulary...\n", len(rows), len(vocabulary))
	var assignments []types.Assignment
	for i, row := range rows {
		a := pipe.Select(ctx, row, i, vocabulary)
		assignments = append(assignments, a)
		if flagVerbose {
			printer.PrintAssignment(&a)
		}
	}

	return writeJSONOutput(selectOutput, assignments)
}
