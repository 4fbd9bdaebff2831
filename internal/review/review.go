// Package review renders applied-but-flagged corrections into a plain-text
// file a human can skim after a run.
package review

import (
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/transcript-corrector/internal/types"
)

// Render formats review findings as human-readable plain text
func Render(findings []types.ReviewFinding) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Corrections applied automatically but flagged for review: %d\n", len(findings)))
	sb.WriteString("These edits are already in the output document. Revert any that look wrong.\n")

	for i, rf := range findings {
		f := rf.Finding
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%d. [%s, %s confidence, iteration %d]\n", i+1, f.ErrorType, f.Confidence, rf.Iteration))
		sb.WriteString(fmt.Sprintf("   before: %s\n", f.OriginalText))
		sb.WriteString(fmt.Sprintf("   after:  %s\n", f.SuggestedCorrection))
		if f.Reasoning != "" {
			sb.WriteString(fmt.Sprintf("   why:    %s\n", f.Reasoning))
		}
	}
	return sb.String()
}

// WriteFile writes the rendered review findings to path
func WriteFile(path string, findings []types.ReviewFinding) error {
	if err := os.WriteFile(path, []byte(Render(findings)), 0644); err != nil {
		return fmt.Errorf("failed to write review file: %w", err)
	}
	return nil
}
