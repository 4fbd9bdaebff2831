package detection

import "fmt"

// OracleError represents a failed detection call for one chunk. It is
// recoverable: the chunk is skipped and the iteration continues.
type OracleError struct {
	ChunkID int
	Message string
	Cause   error
}

func (e *OracleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("oracle call failed for chunk %d: %s: %v", e.ChunkID, e.Message, e.Cause)
	}
	return fmt.Sprintf("oracle call failed for chunk %d: %s", e.ChunkID, e.Message)
}

func (e *OracleError) Unwrap() error {
	return e.Cause
}

// PayloadError represents a structurally invalid oracle response
// (not JSON, or failing the findings schema).
type PayloadError struct {
	ChunkID int
	Message string
	Cause   error
}

func (e *PayloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed oracle payload for chunk %d: %s: %v", e.ChunkID, e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed oracle payload for chunk %d: %s", e.ChunkID, e.Message)
}

func (e *PayloadError) Unwrap() error {
	return e.Cause
}
