// Package chunking splits a document into overlapping word-bounded windows
// sized for a single oracle call.
package chunking

import (
	"github.com/jonathan/transcript-corrector/internal/types"
)

// Default window geometry, in words
const (
	DefaultChunkSize = 3000
	DefaultOverlap   = 200

	// minTailRatio is the fraction of the target chunk size below which the
	// final chunk is merged into its predecessor instead of being emitted on
	// its own. A tiny tail chunk would waste an oracle call.
	minTailRatio = 0.3
)

// Options configures the chunker. Zero values fall back to the defaults.
type Options struct {
	ChunkSize int // target words per chunk
	Overlap   int // words shared between consecutive chunks
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Overlap < 0 {
		o.Overlap = 0
	}
	if o.Overlap >= o.ChunkSize {
		o.Overlap = o.ChunkSize / 2
	}
	return o
}

// Split divides the document into overlapping chunks on word boundaries.
// Every word appears in at least one chunk, and each chunk's Text is the
// exact document substring from its first word to its last. An empty or
// all-whitespace document yields zero chunks.
func Split(document string, opts Options) []types.Chunk {
	opts = opts.withDefaults()

	words := Words(document)
	if len(words) == 0 {
		return nil
	}

	step := opts.ChunkSize - opts.Overlap
	var chunks []types.Chunk
	for start := 0; start < len(words); start += step {
		end := start + opts.ChunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, types.Chunk{
			ID:        len(chunks),
			StartWord: start,
			EndWord:   end,
			Text:      document[words[start].Start:words[end-1].End],
		})
		if end == len(words) {
			break
		}
	}

	// Merge an undersized tail chunk into its predecessor.
	if len(chunks) > 1 {
		last := chunks[len(chunks)-1]
		if float64(last.WordCount()) < minTailRatio*float64(opts.ChunkSize) {
			prev := &chunks[len(chunks)-2]
			prev.EndWord = last.EndWord
			prev.Text = document[words[prev.StartWord].Start:words[prev.EndWord-1].End]
			chunks = chunks[:len(chunks)-1]
		}
	}

	return chunks
}
