// Package metrics accumulates per-run correction statistics. The Recorder is
// an explicit object threaded through the controller; nothing here is a
// process-wide global.
package metrics

import (
	"sync"
	"time"

	"github.com/jonathan/transcript-corrector/internal/types"
)

// Recorder collects iteration results, reason histograms and review-flagged
// findings over the lifetime of one run. Safe for concurrent use.
type Recorder struct {
	mu sync.Mutex

	startedAt        time.Time
	iterations       []types.IterationResult
	skipReasons      map[types.SkipReason]int
	rejectionReasons map[string]int
	review           []types.ReviewFinding
}

// NewRecorder starts the run clock
func NewRecorder() *Recorder {
	return &Recorder{
		startedAt:        time.Now(),
		skipReasons:      make(map[types.SkipReason]int),
		rejectionReasons: make(map[string]int),
	}
}

// RecordIteration appends a completed iteration and folds its skip reasons
// into the run histogram.
func (r *Recorder) RecordIteration(res types.IterationResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.iterations = append(r.iterations, res)
	for _, s := range res.Skipped {
		r.skipReasons[s.Reason]++
	}
}

// RecordRejections counts validator rejections by the rule they violated
func (r *Recorder) RecordRejections(rejected []types.RejectedFinding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rej := range rejected {
		r.rejectionReasons[rej.Reason]++
	}
}

// RecordReview flags applied findings for human review
func (r *Recorder) RecordReview(iteration int, findings []types.Finding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range findings {
		r.review = append(r.review, types.ReviewFinding{Iteration: iteration, Finding: f})
	}
}

// Iterations returns a copy of the recorded iteration results in order
func (r *Recorder) Iterations() []types.IterationResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.IterationResult, len(r.iterations))
	copy(out, r.iterations)
	return out
}

// SkipReasons returns a copy of the skip-reason histogram
func (r *Recorder) SkipReasons() map[types.SkipReason]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[types.SkipReason]int, len(r.skipReasons))
	for k, v := range r.skipReasons {
		out[k] = v
	}
	return out
}

// RejectionReasons returns a copy of the rejection-reason histogram
func (r *Recorder) RejectionReasons() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int, len(r.rejectionReasons))
	for k, v := range r.rejectionReasons {
		out[k] = v
	}
	return out
}

// Summary materializes the run totals. Called once when the controller
// reaches a terminal state.
func (r *Recorder) Summary(status types.RunStatus, finalDocument string, remaining []types.Finding) *types.RunSummary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &types.RunSummary{
		Status:            status,
		Iterations:        append([]types.IterationResult(nil), r.iterations...),
		FinalDocument:     finalDocument,
		ReviewFindings:    append([]types.ReviewFinding(nil), r.review...),
		RemainingFindings: remaining,
		StartedAt:         r.startedAt,
		CompletedAt:       time.Now(),
	}
	for _, it := range r.iterations {
		s.TotalFound += it.ErrorsFound
		s.TotalApplied += it.ErrorsApplied
		s.TotalSkipped += it.ErrorsSkipped
		s.TotalHallucinated += it.HallucinatedCount
		s.TotalRejected += it.RejectedCount
		s.TotalOracleFails += it.OracleFailures
		s.TotalInputTokens += it.InputTokens
		s.TotalOutputTokens += it.OutputTokens
	}
	return s
}
