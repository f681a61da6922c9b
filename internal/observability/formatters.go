// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/masato/tag-generator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintVocabulary outputs a human-readable summary of the approved tag
// vocabulary produced by Stage 1B.
func (p *Printer) PrintVocabulary(result *types.OptimizeResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidates: %d\n", result.CandidateCount))
	sb.WriteString(fmt.Sprintf("Elapsed:    %s\n", result.ProcessingTime.Round(time.Millisecond)))
	if result.UsedFrequencyFallback {
		sb.WriteString("Source:     frequency fallback\n")
	}
	sb.WriteString("\n")

	count := min(len(result.TagCandidates), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", result.TagCandidates[i]))
	}
	if len(result.TagCandidates) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.TagCandidates)-maxItemsToShow))
	}

	p.printBox("Tag Vocabulary", strings.TrimRight(sb.String(), "\n"))
}

// PrintAssignment outputs one row's selected tags.
func (p *Printer) PrintAssignment(a *types.Assignment) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Row:        %d\n", a.RowIndex))
	if a.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:      %s\n", a.Title))
	}
	sb.WriteString(fmt.Sprintf("Status:     %s\n", a.Status))
	if a.Status == types.StatusFailed {
		sb.WriteString(fmt.Sprintf("Error:      %s\n", a.Err))
	} else {
		sb.WriteString(fmt.Sprintf("Confidence: %.2f\n", a.Confidence))
		sb.WriteString(fmt.Sprintf("Tags:       %s\n", strings.Join(a.Tags, ", ")))
	}

	p.printBox(fmt.Sprintf("Assignment #%d", a.RowIndex), strings.TrimRight(sb.String(), "\n"))
}

// PrintBatchSummary outputs the final run report.
func (p *Printer) PrintBatchSummary(s *types.BatchSummary) {
	if s == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run ID:     %s\n", s.RunID))
	sb.WriteString(fmt.Sprintf("Rows:       %d total, %d processed, %d failed\n",
		s.TotalRows, s.ProcessedRows, s.FailedRows))
	if s.Resumed {
		sb.WriteString("Resumed:    yes\n")
	}
	if s.Interrupted {
		sb.WriteString("Interrupted: yes (checkpoint saved)\n")
	}
	sb.WriteString(fmt.Sprintf("Elapsed:    %s\n", s.Elapsed.Round(time.Millisecond)))

	p.printBox("Batch Summary", strings.TrimRight(sb.String(), "\n"))
}
