package types

import "time"

// RunStatus is the terminal state of a correction run
type RunStatus string

// Terminal states of the iteration controller
const (
	// StatusConverged means an iteration found zero errors
	StatusConverged RunStatus = "converged"
	// StatusStalled means two consecutive iterations improved by less than 20%
	StatusStalled RunStatus = "stalled"
	// StatusMaxIterations means the iteration cap was reached with errors remaining
	StatusMaxIterations RunStatus = "max_iterations"
	// StatusRegressed means an iteration reported more errors than the previous
	// one, which a correction pass should never do. Treated as fatal.
	StatusRegressed RunStatus = "regressed"
	// StatusCancelled means the caller aborted the run between iterations
	StatusCancelled RunStatus = "cancelled"
)

// ReviewFinding is a medium-confidence correction that was applied but
// flagged for human review.
type ReviewFinding struct {
	Iteration int     `json:"iteration"`
	Finding   Finding `json:"finding"`
}

// RunSummary aggregates every iteration of a correction run. It is the
// terminal output of the engine.
type RunSummary struct {
	Status     RunStatus         `json:"status"`
	Iterations []IterationResult `json:"iterations"`

	FinalDocument string `json:"-"`

	TotalFound        int `json:"total_found"`
	TotalApplied      int `json:"total_applied"`
	TotalSkipped      int `json:"total_skipped"`
	TotalHallucinated int `json:"total_hallucinated"`
	TotalRejected     int `json:"total_rejected"`
	TotalOracleFails  int `json:"total_oracle_failures"`
	TotalInputTokens  int `json:"total_input_tokens"`
	TotalOutputTokens int `json:"total_output_tokens"`

	// ReviewFindings lists applied medium-confidence corrections across all
	// iterations, in the order they were applied.
	ReviewFindings []ReviewFinding `json:"review_findings,omitempty"`

	// RemainingFindings holds the verified findings of the final iteration
	// when the run did not converge. Used for stall diagnostics.
	RemainingFindings []Finding `json:"remaining_findings,omitempty"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// LastIteration returns the most recent completed iteration result, or nil
// when no iteration completed.
func (s *RunSummary) LastIteration() *IterationResult {
	if len(s.Iterations) == 0 {
		return nil
	}
	return &s.Iterations[len(s.Iterations)-1]
}

// Clean reports whether the run converged without dropping any findings
// along the way.
func (s *RunSummary) Clean() bool {
	return s.Status == StatusConverged && s.TotalSkipped == 0 && s.TotalHallucinated == 0 && s.TotalOracleFails == 0
}
