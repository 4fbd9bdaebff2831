package validation

import (
	"strings"

	"github.com/jonathan/transcript-corrector/internal/chunking"
)

// NormalizeText lowercases text and collapses all whitespace runs to single
// spaces so similarity scoring ignores case and spacing differences.
func NormalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Similarity returns a normalized edit-distance ratio in [0, 1] between the
// two texts after whitespace/case normalization. 1 means identical.
func Similarity(a, b string) float64 {
	a = NormalizeText(a)
	b = NormalizeText(b)
	if a == b {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	ra := []rune(a)
	rb := []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein computes edit distance between two rune slices using the
// two-row dynamic programming formulation.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// Match is a fuzzy-located byte span within a larger text
type Match struct {
	Start int
	End   int
	Score float64
}

// BestWindowMatch slides a window of the target's word length across text
// and returns the best-scoring aligned window at or above threshold. The
// returned span covers the window's exact bytes in text.
func BestWindowMatch(text, target string, threshold float64) (Match, bool) {
	words := chunking.Words(text)
	targetWords := chunking.WordCount(target)
	if targetWords == 0 || len(words) < targetWords {
		return Match{}, false
	}

	normTarget := NormalizeText(target)
	best := Match{Score: -1}
	for i := 0; i+targetWords <= len(words); i++ {
		start := words[i].Start
		end := words[i+targetWords-1].End

		// Length pruning: a window whose normalized length differs from the
		// target's by more than the allowed edit budget cannot reach threshold.
		window := text[start:end]
		if lengthRuledOut(window, normTarget, threshold) {
			continue
		}

		score := Similarity(window, target)
		if score > best.Score {
			best = Match{Start: start, End: end, Score: score}
		}
	}

	if best.Score >= threshold {
		return best, true
	}
	return Match{Score: maxScore(best.Score, 0)}, false
}

func lengthRuledOut(window, normTarget string, threshold float64) bool {
	lw := len(NormalizeText(window))
	lt := len(normTarget)
	longest := lw
	if lt > longest {
		longest = lt
	}
	if longest == 0 {
		return true
	}
	diff := lw - lt
	if diff < 0 {
		diff = -diff
	}
	return float64(diff)/float64(longest) > 1-threshold
}

func maxScore(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
