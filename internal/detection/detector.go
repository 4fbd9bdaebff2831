// Package detection is the oracle adapter: it sends one chunk of transcript
// text to the external error-detection model and returns the raw candidate
// findings. It is the only package that performs network I/O; everything
// downstream operates on in-memory data.
package detection

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jonathan/transcript-corrector/internal/llm"
	"github.com/jonathan/transcript-corrector/internal/prompts"
	"github.com/jonathan/transcript-corrector/internal/schemas"
	"github.com/jonathan/transcript-corrector/internal/types"
)

// Result is the outcome of one successful detection call
type Result struct {
	Findings []types.RawFinding
	Usage    llm.Usage
}

// Detector proposes candidate corrections for a single chunk. Implementations
// must treat the chunk as read-only and must not retain it between calls.
type Detector interface {
	Detect(ctx context.Context, chunk types.Chunk) (*Result, error)
}

// Defaults for the LLM-backed detector
const (
	DefaultChunkTimeout = 3 * time.Minute
	DefaultRetries      = 2
	DefaultRetryDelay   = 2 * time.Second
)

// Options configures the LLM-backed detector
type Options struct {
	Tier         llm.ModelTier // model tier for detection calls
	ChunkTimeout time.Duration // per-call deadline; other chunks are unaffected
	Retries      uint          // additional attempts after a failed call
	RetryDelay   time.Duration // base delay between attempts (exponential backoff)
}

func (o Options) withDefaults() Options {
	if o.Tier == "" {
		o.Tier = llm.TierStandard
	}
	if o.ChunkTimeout <= 0 {
		o.ChunkTimeout = DefaultChunkTimeout
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	return o
}

// LLMDetector implements Detector against an llm.Client
type LLMDetector struct {
	client llm.Client
	opts   Options
}

// NewLLMDetector creates a detector backed by the given client
func NewLLMDetector(client llm.Client, opts Options) *LLMDetector {
	return &LLMDetector{client: client, opts: opts.withDefaults()}
}

// Detect sends the chunk to the model and decodes the findings it reports.
// Transport failures and malformed payloads come back as *OracleError or
// *PayloadError; the caller decides whether to skip the chunk.
func (d *LLMDetector) Detect(ctx context.Context, chunk types.Chunk) (*Result, error) {
	prompt := buildDetectionPrompt(chunk.Text)

	callCtx, cancel := context.WithTimeout(ctx, d.opts.ChunkTimeout)
	defer cancel()

	var responseText string
	var usage llm.Usage
	err := retry.Do(
		func() error {
			var err error
			responseText, usage, err = d.client.GenerateJSON(callCtx, prompt, d.opts.Tier)
			return err
		},
		retry.Context(callCtx),
		retry.Attempts(d.opts.Retries+1),
		retry.Delay(d.opts.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, &OracleError{ChunkID: chunk.ID, Message: "generation failed", Cause: err}
	}

	findings, err := decodeFindings(chunk.ID, responseText)
	if err != nil {
		return nil, err
	}

	return &Result{Findings: findings, Usage: usage}, nil
}

// buildDetectionPrompt constructs the error-detection prompt for one chunk
func buildDetectionPrompt(chunkText string) string {
	template := prompts.MustGet("detection.json", "detect-errors")
	return prompts.Format(template, map[string]string{
		"ChunkText": chunkText,
	})
}

// decodeFindings schema-validates and decodes the raw oracle payload,
// stamping each finding with its source chunk ID.
func decodeFindings(chunkID int, payload string) ([]types.RawFinding, error) {
	if err := schemas.ValidateJSONString(findingsSchema, payload); err != nil {
		return nil, &PayloadError{ChunkID: chunkID, Message: "response failed schema validation", Cause: err}
	}

	var findings []types.RawFinding
	if err := json.Unmarshal([]byte(payload), &findings); err != nil {
		return nil, &PayloadError{ChunkID: chunkID, Message: "failed to decode findings JSON", Cause: err}
	}

	for i := range findings {
		findings[i].ChunkID = chunkID
	}
	return findings, nil
}
