// Package types provides type definitions for structured data used throughout the transcript-corrector system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ErrorType classifies the kind of transcription error a finding reports
type ErrorType string

// The closed set of error types the detection oracle may report.
// Any other label is rejected during validation.
const (
	ErrorSpelling       ErrorType = "spelling"
	ErrorHomophone      ErrorType = "homophone"
	ErrorProperNoun     ErrorType = "proper_noun"
	ErrorWordBoundary   ErrorType = "word_boundary"
	ErrorCapitalization ErrorType = "capitalization"
	ErrorRepetition     ErrorType = "repetition"
	ErrorPunctuation    ErrorType = "punctuation"
	ErrorIncomplete     ErrorType = "incomplete"
	ErrorGrammar        ErrorType = "grammar"
)

// AllErrorTypes lists every accepted error type label
var AllErrorTypes = []ErrorType{
	ErrorSpelling,
	ErrorHomophone,
	ErrorProperNoun,
	ErrorWordBoundary,
	ErrorCapitalization,
	ErrorRepetition,
	ErrorPunctuation,
	ErrorIncomplete,
	ErrorGrammar,
}

// Confidence is the oracle's self-reported certainty for a finding
type Confidence string

// Confidence levels reported by the oracle
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// RawFinding is a candidate correction exactly as decoded from the oracle
// response, before any validation. The validate tags cover the shape checks;
// content checks (no-op corrections, word counts, type-specific rules) are
// applied separately by the validation package.
type RawFinding struct {
	ErrorType           string `json:"error_type" validate:"required,oneof=spelling homophone proper_noun word_boundary capitalization repetition punctuation incomplete grammar"`
	OriginalText        string `json:"original_text" validate:"required"`
	SuggestedCorrection string `json:"suggested_correction" validate:"required"`
	Confidence          string `json:"confidence" validate:"required,oneof=high medium low"`
	Reasoning           string `json:"reasoning" validate:"required"`
	ChunkID             int    `json:"chunk_id"`
}

// Finding is a candidate correction that passed shape validation.
// It is immutable once created.
type Finding struct {
	ErrorType           ErrorType  `json:"error_type"`
	OriginalText        string     `json:"original_text"`
	SuggestedCorrection string     `json:"suggested_correction"`
	Confidence          Confidence `json:"confidence"`
	Reasoning           string     `json:"reasoning"`
	ChunkID             int        `json:"chunk_id"`
}

// Key returns the deduplication key for a finding. Overlapping chunks can
// report the same real error twice; two findings with the same key describe
// the same correction.
func (f Finding) Key() string {
	return f.OriginalText + "\x00" + f.SuggestedCorrection
}

// Span is a half-open [Start, End) byte range in the full document
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ValidatedFinding is a finding that survived validation and hallucination
// filtering, annotated by the replacement engine with the document span(s)
// it was applied to.
type ValidatedFinding struct {
	Finding
	Spans []Span `json:"spans,omitempty"`
}
