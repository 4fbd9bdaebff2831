package validation

import "github.com/jonathan/transcript-corrector/internal/types"

// Policy maps confidence levels to their treatment. A finding whose
// confidence is in AutoApply is applied; if it is also in Review it is
// additionally written to the human-readable review file (applied AND
// flagged, not either/or). Confidences in neither set are skipped.
type Policy struct {
	AutoApply []types.Confidence
	Review    []types.Confidence
}

// DefaultPolicy applies high and medium findings, flags medium for review,
// and skips low. Medium doing double duty (apply now, review later) keeps
// automation from being overly conservative; callers wanting review-before-
// apply can narrow AutoApply to high only.
func DefaultPolicy() Policy {
	return Policy{
		AutoApply: []types.Confidence{types.ConfidenceHigh, types.ConfidenceMedium},
		Review:    []types.Confidence{types.ConfidenceMedium},
	}
}

// Partition splits findings into the auto-apply set, the review subset, and
// the skipped remainder.
func Partition(findings []types.Finding, policy Policy) (apply, review []types.Finding, skipped []types.SkippedFinding) {
	applySet := confidenceSet(policy.AutoApply)
	reviewSet := confidenceSet(policy.Review)

	for _, f := range findings {
		if !applySet[f.Confidence] {
			skipped = append(skipped, types.SkippedFinding{
				Finding: f,
				Reason:  types.SkipLowConfidence,
				Detail:  "confidence not in auto-apply set",
			})
			continue
		}
		apply = append(apply, f)
		if reviewSet[f.Confidence] {
			review = append(review, f)
		}
	}
	return apply, review, skipped
}

func confidenceSet(levels []types.Confidence) map[types.Confidence]bool {
	set := make(map[types.Confidence]bool, len(levels))
	for _, l := range levels {
		set[l] = true
	}
	return set
}
