// Package replacement applies approved corrections to the full document.
// This is the correctness-critical half of the engine: every mutation is a
// position-based edit, resolved against the entire current document and
// applied back-to-front so earlier replacements can never shift the offsets
// of later ones.
package replacement

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/transcript-corrector/internal/chunking"
	"github.com/jonathan/transcript-corrector/internal/types"
	"github.com/jonathan/transcript-corrector/internal/validation"
)

// Defaults for span resolution
const (
	// DocMatchThreshold is the fuzzy similarity required to trust a
	// whole-document match when no exact occurrence exists. Stricter than
	// the chunk-level hallucination threshold: here we are about to mutate.
	DocMatchThreshold = 0.95

	// MinUnambiguousWords is the original_text word count at which multiple
	// exact matches are treated as the same intended phrase and all replaced.
	// Below it the target is too short to disambiguate, and the finding is
	// skipped rather than risk corrupting an unrelated occurrence.
	MinUnambiguousWords = 7
)

// Options tunes span resolution. Zero values fall back to the defaults.
type Options struct {
	FuzzyThreshold      float64
	MinUnambiguousWords int
}

func (o Options) withDefaults() Options {
	if o.FuzzyThreshold <= 0 {
		o.FuzzyThreshold = DocMatchThreshold
	}
	if o.MinUnambiguousWords <= 0 {
		o.MinUnambiguousWords = MinUnambiguousWords
	}
	return o
}

// Outcome reports one mutation pass over the document
type Outcome struct {
	Document string
	Applied  []types.ValidatedFinding
	Skipped  []types.SkippedFinding
}

// edit is a single pending (start, end, replacement) mutation
type edit struct {
	span        types.Span
	replacement string
	finding     int // index into findings, for attribution
}

// Apply resolves every finding to document span(s) and performs all
// replacements in one deterministic back-to-front pass. Skips (text not
// found, ambiguous target, conflicting spans) are recorded, never raised.
func Apply(document string, findings []types.Finding, opts Options) (*Outcome, error) {
	opts = opts.withDefaults()
	outcome := &Outcome{}

	var edits []edit
	for i, f := range findings {
		spans, skip := resolveSpans(document, f, opts)
		if skip != nil {
			outcome.Skipped = append(outcome.Skipped, *skip)
			continue
		}
		for _, span := range spans {
			edits = append(edits, edit{
				span:        span,
				replacement: f.SuggestedCorrection,
				finding:     i,
			})
		}
	}

	// Back-to-front order is mandatory: applying earlier spans first would
	// shift every later offset. Stable tie-break keeps discovery order so
	// the pass is deterministic.
	sort.SliceStable(edits, func(a, b int) bool {
		return edits[a].span.Start > edits[b].span.Start
	})

	appliedSpans := make(map[int][]types.Span, len(findings))
	minAppliedStart := len(document) + 1
	for _, e := range edits {
		if e.span.End < e.span.Start {
			return nil, &MalformedSpanError{Start: e.span.Start, End: e.span.End}
		}
		if e.span.End > minAppliedStart {
			// Overlaps a span already applied this pass. First in sort order
			// wins; the conflicting edit is skipped.
			outcome.Skipped = append(outcome.Skipped, types.SkippedFinding{
				Finding: findings[e.finding],
				Reason:  types.SkipSpanConflict,
				Detail:  fmt.Sprintf("span [%d,%d) overlaps an already-applied replacement", e.span.Start, e.span.End),
			})
			continue
		}

		document = document[:e.span.Start] + e.replacement + document[e.span.End:]
		appliedSpans[e.finding] = append(appliedSpans[e.finding], e.span)
		minAppliedStart = e.span.Start
	}

	// Attribute applied spans back to findings, preserving discovery order.
	for i, f := range findings {
		spans := appliedSpans[i]
		if len(spans) == 0 {
			continue
		}
		sort.Slice(spans, func(a, b int) bool { return spans[a].Start < spans[b].Start })
		outcome.Applied = append(outcome.Applied, types.ValidatedFinding{Finding: f, Spans: spans})
	}

	outcome.Document = document
	return outcome, nil
}

// resolveSpans locates every occurrence of the finding's original text in
// the current document and decides which span(s) may be replaced.
func resolveSpans(document string, f types.Finding, opts Options) ([]types.Span, *types.SkippedFinding) {
	matches := indexAll(document, f.OriginalText)

	switch {
	case len(matches) == 1:
		return matches, nil

	case len(matches) == 0:
		if m, ok := validation.BestWindowMatch(document, f.OriginalText, opts.FuzzyThreshold); ok {
			return []types.Span{{Start: m.Start, End: m.End}}, nil
		}
		return nil, &types.SkippedFinding{
			Finding: f,
			Reason:  types.SkipTextNotFound,
			Detail:  "original text not found in document",
		}

	default:
		if chunking.WordCount(f.OriginalText) < opts.MinUnambiguousWords {
			return nil, &types.SkippedFinding{
				Finding: f,
				Reason:  types.SkipAmbiguousMatch,
				Detail:  fmt.Sprintf("%d occurrences of a %d-word target", len(matches), chunking.WordCount(f.OriginalText)),
			}
		}
		// A phrase this long is specific enough to be the same intended text
		// everywhere it appears.
		return matches, nil
	}
}

// indexAll returns the spans of every non-overlapping exact occurrence
func indexAll(document, target string) []types.Span {
	if target == "" {
		return nil
	}
	var spans []types.Span
	offset := 0
	for {
		idx := strings.Index(document[offset:], target)
		if idx < 0 {
			break
		}
		start := offset + idx
		spans = append(spans, types.Span{Start: start, End: start + len(target)})
		offset = start + len(target)
	}
	return spans
}
