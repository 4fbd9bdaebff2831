package observability

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/transcript-corrector/internal/types"
)

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	now := time.Now()
	p.PrintRunSummary(&types.RunSummary{
		Status:       types.StatusConverged,
		Iterations:   []types.IterationResult{{Iteration: 1}, {Iteration: 2}},
		TotalApplied: 7,
		StartedAt:    now.Add(-3 * time.Second),
		CompletedAt:  now,
	})

	out := buf.String()
	assert.Contains(t, out, "RUN SUMMARY")
	assert.Contains(t, out, "converged")
	assert.Contains(t, out, "Iterations:   2")
	assert.Contains(t, out, "Applied:      7")
}

func TestPrintStallDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStallDiagnostics(map[types.Confidence]map[types.ErrorType]int{
		types.ConfidenceLow: {types.ErrorGrammar: 4, types.ErrorSpelling: 1},
	})

	out := buf.String()
	assert.Contains(t, out, "STALL DIAGNOSTICS")
	assert.Contains(t, out, "low confidence")
	assert.Contains(t, out, "grammar")
}

func TestPrintStallDiagnostics_EmptyPrintsNothing(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintStallDiagnostics(nil)
	assert.Empty(t, buf.String())
}
