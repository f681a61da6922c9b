package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/masato/tag-generator/internal/checkpoint"
	"github.com/masato/tag-generator/internal/ingest"
	"github.com/masato/tag-generator/internal/observability"
	"github.com/masato/tag-generator/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline end-to-end with checkpointed resume",
	Long: `Orchestrates the whole tag generation process: per-row keyword extraction -> vocabulary optimization -> per-row tag assignment.

Progress is checkpointed during extraction; re-running with the same checkpoint resumes where the previous run stopped. Interrupting with Ctrl-C saves a checkpoint before exiting.`,
	RunE: runPipelineCmd,
}

var (
	runInput        string
	runOutput       string
	runCheckpoint   string
	runCheckpointDB string
	runNoResume     bool
	runOffline      bool
)

func init() {
	runCommand.Flags().StringVarP(&runInput, "input", "i", "", "Path to input CSV or JSON file (required)")
	runCommand.Flags().StringVarP(&runOutput, "output", "o", "", "Path to write the full result JSON (default: stdout)")
	runCommand.Flags().StringVar(&runCheckpoint, "checkpoint", "", "Path to the checkpoint file (default: <input>.checkpoint.json)")
	runCommand.Flags().StringVar(&runCheckpointDB, "checkpoint-db", "", "Keep checkpoints in this SQLite database instead of a file")
	runCommand.Flags().BoolVar(&runNoResume, "no-resume", false, "Discard any existing checkpoint and start fresh")
	runCommand.Flags().BoolVar(&runOffline, "offline", false, "Run the whole pipeline without calling any provider")
	_ = runCommand.MarkFlagRequired("input")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limits, logger, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	rows, err := ingest.ReadFile(runInput)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no rows found in %s", runInput)
	}

	store, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	if runNoResume {
		if err := store.Clear(ctx); err != nil {
			return fmt.Errorf("failed to discard checkpoint: %w", err)
		}
	}

	svc, closeSvc, err := buildService(ctx, limits, logger, runOffline)
	if err != nil {
		return err
	}
	defer func() { _ = closeSvc() }()

	pipe := pipeline.New(svc, limits.Pipeline, logger)

	fmt.Printf("Processing %d rows...\n", len(rows))
	result, err := pipe.RunBatch(ctx, rows, store)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	if flagVerbose {
		printer.PrintVocabulary(&result.Vocabulary)
	}
	printer.PrintBatchSummary(&result.Summary)

	if result.Summary.Interrupted {
		fmt.Println("Run interrupted; re-run the same command to resume from the checkpoint.")
	}
	return writeJSONOutput(runOutput, result)
}

// openStore picks the checkpoint backend from flags: SQLite when a
// database path is given, a JSON file next to the input otherwise.
func openStore(ctx context.Context) (pipeline.CheckpointStore, func() error, error) {
	if runCheckpointDB != "" {
		store, err := checkpoint.OpenSQLiteStore(ctx, runCheckpointDB, runInput)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}

	path := runCheckpoint
	if path == "" {
		path = runInput + ".checkpoint.json"
	}
	return checkpoint.NewFileStore(path), func() error { return nil }, nil
}
