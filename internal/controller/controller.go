// Package controller drives the correction loop: chunk, detect, validate,
// replace, measure, repeat. Detection inside an iteration is concurrent;
// document mutation is strictly sequential, one iteration at a time.
package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/transcript-corrector/internal/chunking"
	"github.com/jonathan/transcript-corrector/internal/detection"
	"github.com/jonathan/transcript-corrector/internal/metrics"
	"github.com/jonathan/transcript-corrector/internal/replacement"
	"github.com/jonathan/transcript-corrector/internal/types"
	"github.com/jonathan/transcript-corrector/internal/validation"
)

const (
	// DefaultMaxIterations caps the loop when the document keeps yielding
	// findings. Most transcripts converge in two or three passes.
	DefaultMaxIterations = 5

	// StallThreshold is the minimum per-iteration improvement rate. Below it
	// the iteration counts as stalled.
	StallThreshold = 0.20

	// stallLimit is how many consecutive stalled iterations end the run
	stallLimit = 2
)

// Config tunes one correction run. Zero values fall back to defaults.
type Config struct {
	MaxIterations  int
	StallThreshold float64

	Chunking    chunking.Options
	Concurrency int

	// HallucinationThreshold gates finding-vs-chunk fuzzy verification
	HallucinationThreshold float64

	Policy      validation.Policy
	Replacement replacement.Options

	// Progress, when set, is invoked after every completed iteration
	Progress func(types.IterationResult)
}

func (c Config) withDefaults() Config {
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.StallThreshold <= 0 {
		c.StallThreshold = StallThreshold
	}
	if c.Policy.AutoApply == nil {
		c.Policy = validation.DefaultPolicy()
	}
	return c
}

// Controller owns the iteration state machine for a single run
type Controller struct {
	detector detection.Detector
	recorder *metrics.Recorder
	cfg      Config
}

// New builds a controller around a detector and a recorder. The recorder must
// not be shared across concurrent runs.
func New(detector detection.Detector, recorder *metrics.Recorder, cfg Config) *Controller {
	return &Controller{detector: detector, recorder: recorder, cfg: cfg.withDefaults()}
}

// Run iterates the correction loop until a terminal state. Cancellation is
// honored between iterations: the summary then carries the last completed
// document under StatusCancelled. The only error returned is a replacement
// fault, which indicates a bug rather than bad input.
func (c *Controller) Run(ctx context.Context, document string) (*types.RunSummary, error) {
	status := types.StatusMaxIterations
	prevFound := 0
	stalled := 0
	var remaining []types.Finding

	for i := 1; i <= c.cfg.MaxIterations; i++ {
		if ctx.Err() != nil {
			status = types.StatusCancelled
			break
		}

		res, uniqueFindings, err := c.runIteration(ctx, i, document)
		if err != nil {
			return nil, err
		}
		if ctx.Err() != nil {
			// The iteration raced cancellation; its detection results are
			// partial, so it does not count as completed.
			status = types.StatusCancelled
			break
		}

		if i > 1 {
			res.ImprovementRate = improvementRate(prevFound, res.ErrorsFound)
		}

		c.recorder.RecordIteration(*res)
		document = res.DocumentAfter
		remaining = uniqueFindings
		if c.cfg.Progress != nil {
			c.cfg.Progress(*res)
		}

		if res.ErrorsFound == 0 {
			status = types.StatusConverged
			remaining = nil
			break
		}
		if i > 1 {
			if res.ErrorsFound > prevFound {
				status = types.StatusRegressed
				break
			}
			if res.ImprovementRate < c.cfg.StallThreshold {
				stalled++
				if stalled >= stallLimit {
					status = types.StatusStalled
					break
				}
			} else {
				stalled = 0
			}
		}
		prevFound = res.ErrorsFound
	}

	return c.recorder.Summary(status, document, remaining), nil
}

// runIteration performs one full detect-validate-replace pass and returns the
// iteration result plus the deduplicated verified findings (for stall
// diagnostics on the final iteration).
func (c *Controller) runIteration(ctx context.Context, iteration int, document string) (*types.IterationResult, []types.Finding, error) {
	start := time.Now()

	chunks := chunking.Split(document, c.cfg.Chunking)
	batch := detection.DetectAll(ctx, c.detector, chunks, c.cfg.Concurrency)

	accepted, rejected := validation.ValidateAll(batch.Findings)
	c.recorder.RecordRejections(rejected)

	verified, hallucinated := validation.FilterHallucinations(accepted, chunks, c.cfg.HallucinationThreshold)
	unique, duplicates := validation.Deduplicate(verified)
	apply, review, confSkips := validation.Partition(unique, c.cfg.Policy)

	outcome, err := replacement.Apply(document, apply, c.cfg.Replacement)
	if err != nil {
		return nil, nil, fmt.Errorf("iteration %d: %w", iteration, err)
	}

	c.recorder.RecordReview(iteration, appliedSubset(review, outcome.Applied))

	res := &types.IterationResult{
		Iteration:         iteration,
		ErrorsFound:       len(batch.Findings),
		ErrorsApplied:     len(outcome.Applied),
		ErrorsSkipped:     len(confSkips) + len(outcome.Skipped),
		HallucinatedCount: len(hallucinated),
		RejectedCount:     len(rejected),
		DuplicatesRemoved: duplicates,
		OracleFailures:    len(batch.Failures),
		InputTokens:       batch.Usage.InputTokens,
		OutputTokens:      batch.Usage.OutputTokens,
		Duration:          time.Since(start),
		Applied:           outcome.Applied,
		Skipped:           append(confSkips, outcome.Skipped...),
		Hallucinated:      hallucinated,
		DocumentAfter:     outcome.Document,
	}
	return res, unique, nil
}

// appliedSubset keeps the review findings that the replacement engine
// actually applied; a review flag on a skipped finding would be noise.
func appliedSubset(review []types.Finding, applied []types.ValidatedFinding) []types.Finding {
	appliedKeys := make(map[string]bool, len(applied))
	for _, a := range applied {
		appliedKeys[a.Finding.Key()] = true
	}
	var out []types.Finding
	for _, f := range review {
		if appliedKeys[f.Key()] {
			out = append(out, f)
		}
	}
	return out
}

// improvementRate is (prev-curr)/prev, clamped to 0 when prev is 0. Negative
// values indicate regression and are preserved for reporting.
func improvementRate(prev, curr int) float64 {
	if prev == 0 {
		return 0
	}
	return float64(prev-curr) / float64(prev)
}

// Diagnose buckets remaining findings by confidence and error type. Printed
// when a run stalls so the operator can see what the oracle keeps reporting
// without the engine accepting it.
func Diagnose(remaining []types.Finding) map[types.Confidence]map[types.ErrorType]int {
	groups := make(map[types.Confidence]map[types.ErrorType]int)
	for _, f := range remaining {
		byType := groups[f.Confidence]
		if byType == nil {
			byType = make(map[types.ErrorType]int)
			groups[f.Confidence] = byType
		}
		byType[f.ErrorType]++
	}
	return groups
}
