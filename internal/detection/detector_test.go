package detection

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/transcript-corrector/internal/llm"
	"github.com/jonathan/transcript-corrector/internal/types"
)

// stubClient implements llm.Client with canned responses
type stubClient struct {
	response string
	usage    llm.Usage
	err      error
	calls    int
}

func (s *stubClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return s.response, s.err
}

func (s *stubClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, llm.Usage, error) {
	s.calls++
	return s.response, s.usage, s.err
}

func (s *stubClient) GetModel(_ llm.ModelTier) string { return "stub-model" }
func (s *stubClient) Close() error                    { return nil }

func validPayload() string {
	return `[{
		"error_type": "repetition",
		"original_text": "the system was was working well today",
		"suggested_correction": "the system was working well today",
		"confidence": "high",
		"reasoning": "duplicated word"
	}]`
}

func TestDetect_DecodesFindings(t *testing.T) {
	client := &stubClient{response: validPayload(), usage: llm.Usage{InputTokens: 100, OutputTokens: 50}}
	detector := NewLLMDetector(client, Options{})

	result, err := detector.Detect(context.Background(), types.Chunk{ID: 3, Text: "some text"})
	require.NoError(t, err)
	require.Len(t, result.Findings, 1)

	f := result.Findings[0]
	assert.Equal(t, "repetition", f.ErrorType)
	assert.Equal(t, 3, f.ChunkID, "finding must be stamped with its source chunk")
	assert.Equal(t, 100, result.Usage.InputTokens)
}

func TestDetect_EmptyArray(t *testing.T) {
	client := &stubClient{response: `[]`}
	detector := NewLLMDetector(client, Options{})

	result, err := detector.Detect(context.Background(), types.Chunk{ID: 0, Text: "clean text"})
	require.NoError(t, err)
	assert.Empty(t, result.Findings)
}

func TestDetect_MalformedPayload(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"not json", "the model rambled instead of returning JSON"},
		{"truncated", `[{"error_type": "spelling", "orig`},
		{"missing required field", `[{"error_type": "spelling", "original_text": "abc"}]`},
		{"object instead of array", `{"error_type": "spelling"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubClient{response: tt.response}
			detector := NewLLMDetector(client, Options{})

			_, err := detector.Detect(context.Background(), types.Chunk{ID: 1, Text: "text"})
			require.Error(t, err)

			var payloadErr *PayloadError
			assert.True(t, errors.As(err, &payloadErr), "malformed payloads must be PayloadError, got %v", err)
			assert.Equal(t, 1, payloadErr.ChunkID)
		})
	}
}

func TestDetect_TransportFailure(t *testing.T) {
	client := &stubClient{err: fmt.Errorf("connection reset")}
	detector := NewLLMDetector(client, Options{Retries: 1, RetryDelay: time.Millisecond})

	_, err := detector.Detect(context.Background(), types.Chunk{ID: 2, Text: "text"})
	require.Error(t, err)

	var oracleErr *OracleError
	assert.True(t, errors.As(err, &oracleErr))
	assert.Equal(t, 2, oracleErr.ChunkID)
	assert.Equal(t, 2, client.calls, "one retry after the initial attempt")
}

// sequenceDetector fails for configured chunk IDs and returns canned findings otherwise
type sequenceDetector struct {
	failFor  map[int]bool
	perChunk map[int][]types.RawFinding
}

func (d *sequenceDetector) Detect(_ context.Context, chunk types.Chunk) (*Result, error) {
	if d.failFor[chunk.ID] {
		return nil, &OracleError{ChunkID: chunk.ID, Message: "timeout"}
	}
	return &Result{
		Findings: d.perChunk[chunk.ID],
		Usage:    llm.Usage{InputTokens: 10, OutputTokens: 5},
	}, nil
}

func TestDetectAll_AggregatesInChunkOrder(t *testing.T) {
	detector := &sequenceDetector{
		failFor: map[int]bool{},
		perChunk: map[int][]types.RawFinding{
			0: {{OriginalText: "from chunk zero"}},
			1: {{OriginalText: "from chunk one"}},
			2: {{OriginalText: "from chunk two"}},
		},
	}
	chunks := []types.Chunk{
		{ID: 0, Text: "chunk zero text"},
		{ID: 1, Text: "chunk one text"},
		{ID: 2, Text: "chunk two text"},
	}

	batch := DetectAll(context.Background(), detector, chunks, 2)

	require.Len(t, batch.Findings, 3)
	assert.Equal(t, "from chunk zero", batch.Findings[0].OriginalText)
	assert.Equal(t, "from chunk one", batch.Findings[1].OriginalText)
	assert.Equal(t, "from chunk two", batch.Findings[2].OriginalText)
	assert.Equal(t, 30, batch.Usage.InputTokens)
	assert.Empty(t, batch.Failures)
}

func TestDetectAll_ToleratesChunkFailures(t *testing.T) {
	detector := &sequenceDetector{
		failFor: map[int]bool{1: true},
		perChunk: map[int][]types.RawFinding{
			0: {{OriginalText: "ok"}},
			2: {{OriginalText: "also ok"}},
		},
	}
	chunks := []types.Chunk{
		{ID: 0, Text: "a"},
		{ID: 1, Text: "b"},
		{ID: 2, Text: "c"},
	}

	batch := DetectAll(context.Background(), detector, chunks, 0)

	assert.Len(t, batch.Findings, 2, "surviving chunks still contribute findings")
	require.Len(t, batch.Failures, 1)
	assert.Equal(t, 1, batch.Failures[0].ChunkID)
}

func TestDetectAll_SkipsDuplicateChunkText(t *testing.T) {
	detector := &sequenceDetector{
		failFor: map[int]bool{},
		perChunk: map[int][]types.RawFinding{
			0: {{OriginalText: "seen once"}},
			1: {{OriginalText: "should not appear"}},
		},
	}
	chunks := []types.Chunk{
		{ID: 0, Text: "identical text"},
		{ID: 1, Text: "identical text"},
	}

	batch := DetectAll(context.Background(), detector, chunks, 1)

	require.Len(t, batch.Findings, 1, "byte-identical chunk text is reviewed once per iteration")
	assert.Equal(t, "seen once", batch.Findings[0].OriginalText)
}
