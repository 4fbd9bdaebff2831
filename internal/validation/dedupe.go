package validation

import "github.com/jonathan/transcript-corrector/internal/types"

// Deduplicate collapses findings that describe the same correction. Chunks
// overlap, so one real error sitting in an overlap region is reported by
// both neighbors; the first occurrence wins. Runs once per iteration, after
// hallucination filtering.
func Deduplicate(findings []types.Finding) ([]types.Finding, int) {
	seen := make(map[string]bool, len(findings))
	unique := make([]types.Finding, 0, len(findings))

	for _, f := range findings {
		key := f.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, f)
	}

	return unique, len(findings) - len(unique)
}
