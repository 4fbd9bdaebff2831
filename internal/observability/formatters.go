// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/transcript-corrector/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
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

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintChunkStats outputs the chunk layout for a document.
func (p *Printer) PrintChunkStats(chunks []types.Chunk) {
	if len(chunks) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Chunks: %d\n\n", len(chunks)))

	count := min(len(chunks), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := chunks[i]
		sb.WriteString(fmt.Sprintf("#%d  words %d-%d (%d)\n", c.ID, c.StartWord, c.EndWord, c.WordCount()))
	}
	if len(chunks) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more chunks\n", len(chunks)-maxItemsToShow))
	}

	p.printBox("CHUNK LAYOUT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintIterationResult outputs one iteration's counters.
func (p *Printer) PrintIterationResult(res *types.IterationResult) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found:        %d\n", res.ErrorsFound))
	sb.WriteString(fmt.Sprintf("Applied:      %d\n", res.ErrorsApplied))
	sb.WriteString(fmt.Sprintf("Skipped:      %d\n", res.ErrorsSkipped))
	sb.WriteString(fmt.Sprintf("Hallucinated: %d\n", res.HallucinatedCount))
	sb.WriteString(fmt.Sprintf("Rejected:     %d\n", res.RejectedCount))
	if res.DuplicatesRemoved > 0 {
		sb.WriteString(fmt.Sprintf("Duplicates:   %d\n", res.DuplicatesRemoved))
	}
	if res.OracleFailures > 0 {
		sb.WriteString(fmt.Sprintf("Chunk fails:  %d\n", res.OracleFailures))
	}
	if res.Iteration > 1 {
		sb.WriteString(fmt.Sprintf("Improvement:  %.0f%%\n", res.ImprovementRate*100))
	}
	sb.WriteString(fmt.Sprintf("Tokens:       %d in / %d out", res.InputTokens, res.OutputTokens))

	p.printBox(fmt.Sprintf("ITERATION %d", res.Iteration), sb.String())
}

// PrintRunSummary outputs the terminal state and run totals.
func (p *Printer) PrintRunSummary(summary *types.RunSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status:       %s\n", summary.Status))
	sb.WriteString(fmt.Sprintf("Iterations:   %d\n", len(summary.Iterations)))
	sb.WriteString(fmt.Sprintf("Applied:      %d\n", summary.TotalApplied))
	sb.WriteString(fmt.Sprintf("Skipped:      %d\n", summary.TotalSkipped))
	sb.WriteString(fmt.Sprintf("Hallucinated: %d\n", summary.TotalHallucinated))
	sb.WriteString(fmt.Sprintf("For review:   %d\n", len(summary.ReviewFindings)))
	sb.WriteString(fmt.Sprintf("Tokens:       %d in / %d out\n", summary.TotalInputTokens, summary.TotalOutputTokens))
	sb.WriteString(fmt.Sprintf("Duration:     %s", summary.CompletedAt.Sub(summary.StartedAt).Round(10*time.Millisecond)))

	p.printBox("RUN SUMMARY", sb.String())
}

// PrintStallDiagnostics outputs the confidence/error-type histogram of the
// findings still reported when a run stalls.
func (p *Printer) PrintStallDiagnostics(groups map[types.Confidence]map[types.ErrorType]int) {
	if len(groups) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString("Remaining findings the engine will not apply:\n")

	for _, conf := range []types.Confidence{types.ConfidenceHigh, types.ConfidenceMedium, types.ConfidenceLow} {
		byType := groups[conf]
		if len(byType) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s confidence:\n", conf))

		errTypes := make([]string, 0, len(byType))
		for et := range byType {
			errTypes = append(errTypes, string(et))
		}
		sort.Strings(errTypes)
		for _, et := range errTypes {
			sb.WriteString(fmt.Sprintf("  • %-16s %d\n", et, byType[types.ErrorType(et)]))
		}
	}

	p.printBox("STALL DIAGNOSTICS", strings.TrimSuffix(sb.String(), "\n"))
}
