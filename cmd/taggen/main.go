// Package main provides the entry point for the video tag generation CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taggen",
	Short: "Video tag generation pipeline",
	Long:  "taggen generates a shared tag vocabulary from video metadata and assigns tags to each video through a staged LLM pipeline with provider fallback.",
}

var (
	flagProvider string
	flagLimits   string
	flagLogFile  string
	flagVerbose  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "Preferred AI provider: openai, claude, or gemini (default: priority order)")
	rootCmd.PersistentFlags().StringVar(&flagLimits, "limits", "", "Path to YAML limits file overriding default thresholds")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Append JSON logs to this file in addition to stderr")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
