package validation

import (
	"strings"

	"github.com/jonathan/transcript-corrector/internal/types"
)

// ChunkMatchThreshold is the minimum fuzzy similarity between a finding's
// original_text and the best-aligned window of its source chunk. Below it
// the finding is classified as a hallucination.
const ChunkMatchThreshold = 0.85

// FilterHallucinations verifies each finding's original_text against the
// text of the chunk that produced it. Exact substring matches pass outright;
// otherwise the best equal-word-length window must score at least the
// threshold. Hallucinated findings are kept on a separate list for reporting,
// never applied.
func FilterHallucinations(findings []types.Finding, chunks []types.Chunk, threshold float64) ([]types.Finding, []types.HallucinatedFinding) {
	if threshold <= 0 {
		threshold = ChunkMatchThreshold
	}

	byID := make(map[int]types.Chunk, len(chunks))
	for _, c := range chunks {
		byID[c.ID] = c
	}

	var verified []types.Finding
	var hallucinated []types.HallucinatedFinding

	for _, f := range findings {
		chunk, ok := byID[f.ChunkID]
		if !ok {
			// Finding claims a chunk that does not exist this iteration.
			hallucinated = append(hallucinated, types.HallucinatedFinding{Finding: f})
			continue
		}

		if strings.Contains(chunk.Text, f.OriginalText) {
			verified = append(verified, f)
			continue
		}

		match, ok := BestWindowMatch(chunk.Text, f.OriginalText, threshold)
		if ok {
			verified = append(verified, f)
			continue
		}
		hallucinated = append(hallucinated, types.HallucinatedFinding{Finding: f, BestScore: match.Score})
	}

	return verified, hallucinated
}

// GroupHallucinations buckets hallucinated findings by error type and
// confidence, revealing which categories hallucinate most.
func GroupHallucinations(hallucinated []types.HallucinatedFinding) map[types.ErrorType]map[types.Confidence]int {
	groups := make(map[types.ErrorType]map[types.Confidence]int)
	for _, h := range hallucinated {
		byConf := groups[h.Finding.ErrorType]
		if byConf == nil {
			byConf = make(map[types.Confidence]int)
			groups[h.Finding.ErrorType] = byConf
		}
		byConf[h.Finding.Confidence]++
	}
	return groups
}
