package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/transcript-corrector/internal/types"
)

func testChunks() []types.Chunk {
	return []types.Chunk{
		{ID: 0, Text: "in the third quarter the system was was working well according to the operators on shift"},
		{ID: 1, Text: "a different portion of the transcript talking about deployment schedules and release trains"},
	}
}

func finding(chunkID int, original string) types.Finding {
	return types.Finding{
		ErrorType:           types.ErrorRepetition,
		OriginalText:        original,
		SuggestedCorrection: "the system was working well",
		Confidence:          types.ConfidenceHigh,
		Reasoning:           "duplicated word",
		ChunkID:             chunkID,
	}
}

func TestFilterHallucinations_ExactMatchPasses(t *testing.T) {
	f := finding(0, "the system was was working well")
	verified, hallucinated := FilterHallucinations([]types.Finding{f}, testChunks(), 0)

	assert.Len(t, verified, 1)
	assert.Empty(t, hallucinated)
}

func TestFilterHallucinations_FuzzyMatchPasses(t *testing.T) {
	// Case differs from the chunk; exact match fails, fuzzy succeeds.
	f := finding(0, "The system was was working WELL")
	verified, hallucinated := FilterHallucinations([]types.Finding{f}, testChunks(), 0)

	assert.Len(t, verified, 1)
	assert.Empty(t, hallucinated)
}

func TestFilterHallucinations_FabricatedTextRejected(t *testing.T) {
	f := finding(0, "the operators reported nothing unusual whatsoever")
	verified, hallucinated := FilterHallucinations([]types.Finding{f}, testChunks(), 0)

	assert.Empty(t, verified, "a finding absent from its source chunk is never applied")
	require.Len(t, hallucinated, 1)
	assert.Less(t, hallucinated[0].BestScore, 0.85)
}

func TestFilterHallucinations_WrongChunkIsHallucination(t *testing.T) {
	// The text exists in chunk 0 but the finding claims chunk 1.
	f := finding(1, "the system was was working well")
	verified, hallucinated := FilterHallucinations([]types.Finding{f}, testChunks(), 0)

	assert.Empty(t, verified)
	assert.Len(t, hallucinated, 1)
}

func TestFilterHallucinations_UnknownChunkID(t *testing.T) {
	f := finding(99, "the system was was working well")
	verified, hallucinated := FilterHallucinations([]types.Finding{f}, testChunks(), 0)

	assert.Empty(t, verified)
	assert.Len(t, hallucinated, 1)
}

func TestGroupHallucinations(t *testing.T) {
	hallucinated := []types.HallucinatedFinding{
		{Finding: types.Finding{ErrorType: types.ErrorGrammar, Confidence: types.ConfidenceLow}},
		{Finding: types.Finding{ErrorType: types.ErrorGrammar, Confidence: types.ConfidenceLow}},
		{Finding: types.Finding{ErrorType: types.ErrorGrammar, Confidence: types.ConfidenceHigh}},
		{Finding: types.Finding{ErrorType: types.ErrorSpelling, Confidence: types.ConfidenceMedium}},
	}

	groups := GroupHallucinations(hallucinated)
	assert.Equal(t, 2, groups[types.ErrorGrammar][types.ConfidenceLow])
	assert.Equal(t, 1, groups[types.ErrorGrammar][types.ConfidenceHigh])
	assert.Equal(t, 1, groups[types.ErrorSpelling][types.ConfidenceMedium])
}
