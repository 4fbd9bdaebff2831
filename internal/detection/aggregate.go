package detection

import (
	"context"
	"crypto/sha256"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/transcript-corrector/internal/llm"
	"github.com/jonathan/transcript-corrector/internal/types"
)

// DefaultConcurrency bounds how many oracle calls run at once within one
// iteration. Chunk detections are independent of each other; only the
// later mutation phase is single-writer.
const DefaultConcurrency = 4

// ChunkFailure records a chunk whose detection call failed. The chunk is
// skipped for the iteration and the run continues.
type ChunkFailure struct {
	ChunkID int
	Err     error
}

// BatchResult aggregates detection output across all chunks of one iteration
type BatchResult struct {
	Findings []types.RawFinding
	Usage    llm.Usage
	Failures []ChunkFailure
}

// DetectAll runs the detector over every chunk concurrently and aggregates
// the findings in chunk order. Individual chunk failures are tolerated and
// reported in the result, never returned as an error.
//
// The oracle's single-pass contract is enforced here: if two chunks carry
// byte-identical text (possible for degenerate inputs), only the first is
// sent for review.
func DetectAll(ctx context.Context, detector Detector, chunks []types.Chunk, concurrency int) *BatchResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]*Result, len(chunks))
	failures := make([]*ChunkFailure, len(chunks))

	seen := make(map[[32]byte]bool, len(chunks))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var mu sync.Mutex
	for i, chunk := range chunks {
		digest := sha256.Sum256([]byte(chunk.Text))
		if seen[digest] {
			continue
		}
		seen[digest] = true

		i, chunk := i, chunk
		g.Go(func() error {
			result, err := detector.Detect(gCtx, chunk)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[i] = &ChunkFailure{ChunkID: chunk.ID, Err: err}
				return nil
			}
			results[i] = result
			return nil
		})
	}

	// Workers never return errors; Wait only flushes the group.
	_ = g.Wait()

	batch := &BatchResult{}
	for i := range chunks {
		if f := failures[i]; f != nil {
			batch.Failures = append(batch.Failures, *f)
			continue
		}
		if r := results[i]; r != nil {
			batch.Findings = append(batch.Findings, r.Findings...)
			batch.Usage.Add(r.Usage)
		}
	}
	return batch
}
