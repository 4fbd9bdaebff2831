package types

import "time"

// SkipReason classifies why an approved finding was not applied
type SkipReason string

// Skip reasons recorded by the replacement engine and confidence filter
const (
	SkipTextNotFound   SkipReason = "text_not_found"
	SkipAmbiguousMatch SkipReason = "ambiguous_match"
	SkipSpanConflict   SkipReason = "span_conflict"
	SkipLowConfidence  SkipReason = "low_confidence"
)

// SkippedFinding records a finding that was dropped along with the reason
type SkippedFinding struct {
	Finding Finding    `json:"finding"`
	Reason  SkipReason `json:"reason"`
	Detail  string     `json:"detail,omitempty"`
}

// HallucinatedFinding records a finding whose claimed original text does not
// exist in its source chunk. Retained for reporting so hallucination-prone
// categories can be identified and the oracle prompt tuned.
type HallucinatedFinding struct {
	Finding   Finding `json:"finding"`
	BestScore float64 `json:"best_score"`
}

// RejectedFinding records a raw finding that failed shape or content
// validation, with the first rule it violated.
type RejectedFinding struct {
	Raw    RawFinding `json:"raw"`
	Reason string     `json:"reason"`
}

// IterationResult captures one full pass of the correction pipeline.
// It is immutable once created; results are chained by the controller to
// compute improvement rates.
type IterationResult struct {
	Iteration         int           `json:"iteration"`
	ErrorsFound       int           `json:"errors_found"`
	ErrorsApplied     int           `json:"errors_applied"`
	ErrorsSkipped     int           `json:"errors_skipped"`
	HallucinatedCount int           `json:"hallucinated_count"`
	RejectedCount     int           `json:"rejected_count"`
	DuplicatesRemoved int           `json:"duplicates_removed"`
	OracleFailures    int           `json:"oracle_failures"`
	ImprovementRate   float64       `json:"improvement_rate"`
	InputTokens       int           `json:"input_tokens"`
	OutputTokens      int           `json:"output_tokens"`
	Duration          time.Duration `json:"duration_ns"`

	Applied       []ValidatedFinding    `json:"applied,omitempty"`
	Skipped       []SkippedFinding      `json:"skipped,omitempty"`
	Hallucinated  []HallucinatedFinding `json:"hallucinated,omitempty"`
	DocumentAfter string                `json:"-"`
}
