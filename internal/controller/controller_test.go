package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/transcript-corrector/internal/detection"
	"github.com/jonathan/transcript-corrector/internal/llm"
	"github.com/jonathan/transcript-corrector/internal/metrics"
	"github.com/jonathan/transcript-corrector/internal/types"
)

// scriptedDetector returns canned findings keyed by call number, letting
// tests walk the loop through specific trajectories.
type scriptedDetector struct {
	mu     sync.Mutex
	calls  int
	detect func(call int, chunk types.Chunk) []types.RawFinding
}

func (d *scriptedDetector) Detect(_ context.Context, chunk types.Chunk) (*detection.Result, error) {
	d.mu.Lock()
	d.calls++
	call := d.calls
	d.mu.Unlock()

	findings := d.detect(call, chunk)
	for i := range findings {
		findings[i].ChunkID = chunk.ID
	}
	return &detection.Result{
		Findings: findings,
		Usage:    llm.Usage{InputTokens: 100, OutputTokens: 20},
	}, nil
}

// stallDoc builds a document of n distinct sentences plus raw findings
// targeting each, all low confidence so nothing is ever applied.
func stallDoc(n int) (string, []types.RawFinding) {
	var sentences []string
	var findings []types.RawFinding
	for i := 0; i < n; i++ {
		s := fmt.Sprintf("segment %d alpha beta gamma delta.", i)
		sentences = append(sentences, s)
		findings = append(findings, types.RawFinding{
			ErrorType:           "grammar",
			OriginalText:        s,
			SuggestedCorrection: s + " indeed",
			Confidence:          "low",
			Reasoning:           "awkward phrasing",
		})
	}
	return strings.Join(sentences, " "), findings
}

func TestRun_ConvergesAfterRepairingRepetition(t *testing.T) {
	det := &scriptedDetector{detect: func(_ int, chunk types.Chunk) []types.RawFinding {
		if !strings.Contains(chunk.Text, "was was") {
			return nil
		}
		return []types.RawFinding{{
			ErrorType:           "repetition",
			OriginalText:        "The system was was working well.",
			SuggestedCorrection: "The system was working well.",
			Confidence:          "high",
			Reasoning:           "duplicated word",
		}}
	}}

	c := New(det, metrics.NewRecorder(), Config{})
	summary, err := c.Run(context.Background(), "The system was was working well.")
	require.NoError(t, err)

	assert.Equal(t, types.StatusConverged, summary.Status)
	assert.Equal(t, "The system was working well.", summary.FinalDocument)
	require.Len(t, summary.Iterations, 2)
	assert.Equal(t, 1, summary.Iterations[0].ErrorsFound)
	assert.Equal(t, 1, summary.Iterations[0].ErrorsApplied)
	assert.Equal(t, 0, summary.Iterations[1].ErrorsFound)
	assert.Equal(t, 1.0, summary.Iterations[1].ImprovementRate)
	assert.Equal(t, 1, summary.TotalApplied)
	assert.Empty(t, summary.RemainingFindings)
	assert.True(t, summary.Clean())
}

func TestRun_StallsAfterTwoFlatIterations(t *testing.T) {
	doc, findings := stallDoc(10)
	counts := map[int]int{1: 10, 2: 9, 3: 8}
	det := &scriptedDetector{detect: func(call int, _ types.Chunk) []types.RawFinding {
		return findings[:counts[call]]
	}}

	c := New(det, metrics.NewRecorder(), Config{})
	summary, err := c.Run(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, types.StatusStalled, summary.Status)
	require.Len(t, summary.Iterations, 3)
	assert.InDelta(t, 0.1, summary.Iterations[1].ImprovementRate, 1e-9)
	assert.InDelta(t, 1.0/9.0, summary.Iterations[2].ImprovementRate, 1e-9)
	assert.Equal(t, 0, summary.TotalApplied, "low-confidence findings never mutate the document")
	assert.Equal(t, doc, summary.FinalDocument)
	assert.Len(t, summary.RemainingFindings, 8)
}

func TestRun_GoodImprovementResetsStallCounter(t *testing.T) {
	doc, findings := stallDoc(10)
	// 10 -> 8 is exactly 20% improvement, which resets the counter each time,
	// so the run ends by iteration cap rather than stall.
	counts := map[int]int{1: 10, 2: 8, 3: 6}
	det := &scriptedDetector{detect: func(call int, _ types.Chunk) []types.RawFinding {
		return findings[:counts[call]]
	}}

	c := New(det, metrics.NewRecorder(), Config{MaxIterations: 3})
	summary, err := c.Run(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, types.StatusMaxIterations, summary.Status)
	assert.Len(t, summary.Iterations, 3)
	assert.Len(t, summary.RemainingFindings, 6)
}

func TestRun_RegressionIsFatal(t *testing.T) {
	doc, findings := stallDoc(5)
	counts := map[int]int{1: 2, 2: 3}
	det := &scriptedDetector{detect: func(call int, _ types.Chunk) []types.RawFinding {
		return findings[:counts[call]]
	}}

	c := New(det, metrics.NewRecorder(), Config{})
	summary, err := c.Run(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, types.StatusRegressed, summary.Status)
	require.Len(t, summary.Iterations, 2)
	assert.Negative(t, summary.Iterations[1].ImprovementRate)
}

func TestRun_CancelledBeforeFirstIteration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	det := &scriptedDetector{detect: func(int, types.Chunk) []types.RawFinding { return nil }}
	c := New(det, metrics.NewRecorder(), Config{})
	summary, err := c.Run(ctx, "some document text here")
	require.NoError(t, err)

	assert.Equal(t, types.StatusCancelled, summary.Status)
	assert.Empty(t, summary.Iterations)
	assert.Equal(t, "some document text here", summary.FinalDocument)
}

func TestRun_CancelledBetweenIterations(t *testing.T) {
	doc, findings := stallDoc(5)
	det := &scriptedDetector{detect: func(int, types.Chunk) []types.RawFinding {
		return findings
	}}

	ctx, cancel := context.WithCancel(context.Background())
	c := New(det, metrics.NewRecorder(), Config{
		Progress: func(types.IterationResult) { cancel() },
	})
	summary, err := c.Run(ctx, doc)
	require.NoError(t, err)

	assert.Equal(t, types.StatusCancelled, summary.Status)
	assert.Len(t, summary.Iterations, 1, "the completed iteration is kept")
}

func TestRun_MediumConfidenceAppliedAndFlagged(t *testing.T) {
	det := &scriptedDetector{detect: func(_ int, chunk types.Chunk) []types.RawFinding {
		if !strings.Contains(chunk.Text, "there their") {
			return nil
		}
		return []types.RawFinding{{
			ErrorType:           "homophone",
			OriginalText:        "we went there their house",
			SuggestedCorrection: "we went to their house",
			Confidence:          "medium",
			Reasoning:           "homophone confusion",
		}}
	}}

	c := New(det, metrics.NewRecorder(), Config{})
	summary, err := c.Run(context.Background(), "yesterday we went there their house for dinner")
	require.NoError(t, err)

	assert.Equal(t, types.StatusConverged, summary.Status)
	assert.Equal(t, "yesterday we went to their house for dinner", summary.FinalDocument)
	require.Len(t, summary.ReviewFindings, 1)
	assert.Equal(t, 1, summary.ReviewFindings[0].Iteration)
	assert.Equal(t, types.ConfidenceMedium, summary.ReviewFindings[0].Finding.Confidence)
}

func TestImprovementRate(t *testing.T) {
	assert.Equal(t, 0.0, improvementRate(0, 5), "first iteration has no baseline")
	assert.Equal(t, 0.5, improvementRate(10, 5))
	assert.Equal(t, 1.0, improvementRate(10, 0))
	assert.Equal(t, -0.5, improvementRate(10, 15))
}

func TestDiagnose(t *testing.T) {
	remaining := []types.Finding{
		{Confidence: types.ConfidenceLow, ErrorType: types.ErrorGrammar},
		{Confidence: types.ConfidenceLow, ErrorType: types.ErrorGrammar},
		{Confidence: types.ConfidenceLow, ErrorType: types.ErrorSpelling},
		{Confidence: types.ConfidenceMedium, ErrorType: types.ErrorHomophone},
	}

	groups := Diagnose(remaining)
	assert.Equal(t, 2, groups[types.ConfidenceLow][types.ErrorGrammar])
	assert.Equal(t, 1, groups[types.ConfidenceLow][types.ErrorSpelling])
	assert.Equal(t, 1, groups[types.ConfidenceMedium][types.ErrorHomophone])
}
