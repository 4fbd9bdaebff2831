package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "hello world", NormalizeText("  Hello   WORLD \n"))
	assert.Equal(t, "", NormalizeText("   "))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("same text", "same text"))
	assert.Equal(t, 1.0, Similarity("Same  Text", "same text"), "case and spacing are normalized away")
	assert.Equal(t, 0.0, Similarity("", "anything"))

	// One substitution in a 20-char string stays high.
	score := Similarity("the cat sat on a mat", "the cat sat on a hat")
	assert.Greater(t, score, 0.9)

	// Unrelated strings score low.
	assert.Less(t, Similarity("completely different", "unrelated phrase here"), 0.5)
}

func TestBestWindowMatch_FindsAlignedWindow(t *testing.T) {
	text := "earlier content here and then the cat sat on a mat while more follows"
	target := "the cat sat on a hat" // one word off from the real text

	match, ok := BestWindowMatch(text, target, 0.85)
	require.True(t, ok)
	assert.Equal(t, "the cat sat on a mat", text[match.Start:match.End])
	assert.GreaterOrEqual(t, match.Score, 0.85)
}

func TestBestWindowMatch_RejectsBelowThreshold(t *testing.T) {
	text := "this transcript never mentions anything like the target phrase"
	target := "elephants painted the bridge bright orange yesterday"

	_, ok := BestWindowMatch(text, target, 0.85)
	assert.False(t, ok)
}

func TestBestWindowMatch_TargetLongerThanText(t *testing.T) {
	_, ok := BestWindowMatch("short text", "a target with rather more words than the text", 0.85)
	assert.False(t, ok)
}

func TestBestWindowMatch_EmptyTarget(t *testing.T) {
	_, ok := BestWindowMatch("some text here", "", 0.85)
	assert.False(t, ok)
}
