package review

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/transcript-corrector/internal/types"
)

func TestRender(t *testing.T) {
	findings := []types.ReviewFinding{
		{
			Iteration: 2,
			Finding: types.Finding{
				ErrorType:           types.ErrorHomophone,
				OriginalText:        "we went there their house",
				SuggestedCorrection: "we went to their house",
				Confidence:          types.ConfidenceMedium,
				Reasoning:           "homophone confusion",
			},
		},
	}

	text := Render(findings)
	assert.Contains(t, text, "flagged for review: 1")
	assert.Contains(t, text, "iteration 2")
	assert.Contains(t, text, "before: we went there their house")
	assert.Contains(t, text, "after:  we went to their house")
	assert.Contains(t, text, "homophone confusion")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "review.txt")
	require.NoError(t, WriteFile(path, nil))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "flagged for review: 0")
}
