// Package validation vets candidate findings before they are trusted: shape
// and content validation, hallucination filtering against the source chunk,
// overlap deduplication, and confidence partitioning.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/transcript-corrector/internal/chunking"
	"github.com/jonathan/transcript-corrector/internal/types"
)

// Bounds on original_text length, in words. Shorter targets are too
// ambiguous to locate safely; longer ones are usually paraphrases rather
// than verbatim quotes.
const (
	MinOriginalWords = 5
	MaxOriginalWords = 30
)

// Rejection reasons, used as stable keys for metrics and prompt tuning
const (
	ReasonMissingField      = "missing_field"
	ReasonInvalidErrorType  = "invalid_error_type"
	ReasonInvalidConfidence = "invalid_confidence"
	ReasonNoopCorrection    = "noop_correction"
	ReasonOriginalTooShort  = "original_too_short"
	ReasonOriginalTooLong   = "original_too_long"
	ReasonNoDuplicatedWord  = "repetition_without_duplicate"
	ReasonNoBoundaryDefect  = "word_boundary_without_defect"
)

var structValidator = validator.New()

// ValidateAll checks every raw finding and splits them into accepted
// findings and rejections. Rejections never abort the run; they are counted
// by reason so the oracle prompt can be tuned.
func ValidateAll(raw []types.RawFinding) ([]types.Finding, []types.RejectedFinding) {
	var accepted []types.Finding
	var rejected []types.RejectedFinding

	for _, rf := range raw {
		if reason := validateOne(rf); reason != "" {
			rejected = append(rejected, types.RejectedFinding{Raw: rf, Reason: reason})
			continue
		}
		accepted = append(accepted, types.Finding{
			ErrorType:           types.ErrorType(rf.ErrorType),
			OriginalText:        rf.OriginalText,
			SuggestedCorrection: rf.SuggestedCorrection,
			Confidence:          types.Confidence(rf.Confidence),
			Reasoning:           rf.Reasoning,
			ChunkID:             rf.ChunkID,
		})
	}
	return accepted, rejected
}

// validateOne returns the first rejection reason, or "" when the finding is valid
func validateOne(rf types.RawFinding) string {
	if err := structValidator.Struct(rf); err != nil {
		return structReason(err)
	}

	if rf.OriginalText == rf.SuggestedCorrection {
		return ReasonNoopCorrection
	}

	words := chunking.WordCount(rf.OriginalText)
	if words < MinOriginalWords {
		return ReasonOriginalTooShort
	}
	if words > MaxOriginalWords {
		return ReasonOriginalTooLong
	}

	switch types.ErrorType(rf.ErrorType) {
	case types.ErrorRepetition:
		if !hasAdjacentDuplicate(rf.OriginalText) {
			return ReasonNoDuplicatedWord
		}
	case types.ErrorWordBoundary:
		if !hasBoundaryDefect(rf.OriginalText, rf.SuggestedCorrection) {
			return ReasonNoBoundaryDefect
		}
	}

	return ""
}

// structReason maps a validator error to a stable rejection reason
func structReason(err error) string {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return ReasonMissingField
	}

	fe := fieldErrs[0]
	if fe.Tag() == "oneof" {
		switch fe.Field() {
		case "ErrorType":
			return ReasonInvalidErrorType
		case "Confidence":
			return ReasonInvalidConfidence
		}
	}
	return fmt.Sprintf("%s:%s", ReasonMissingField, strings.ToLower(fe.Field()))
}

// hasAdjacentDuplicate reports whether the text contains the same word twice
// in a row (case-insensitive, trailing punctuation ignored).
func hasAdjacentDuplicate(text string) bool {
	words := strings.Fields(text)
	for i := 1; i < len(words); i++ {
		if normalizeWord(words[i]) != "" && normalizeWord(words[i]) == normalizeWord(words[i-1]) {
			return true
		}
	}
	return false
}

// hasBoundaryDefect reports whether the original text shows a word-boundary
// problem: a doubled space, or a split/join that the correction resolves
// (the two sides then disagree on word count).
func hasBoundaryDefect(original, suggestion string) bool {
	if strings.Contains(original, "  ") {
		return true
	}
	return chunking.WordCount(original) != chunking.WordCount(suggestion)
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.Trim(w, ".,;:!?\"'()[]"))
}
