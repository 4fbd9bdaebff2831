package replacement

import "fmt"

// MalformedSpanError indicates a span with end before start. Ordinary skip
// cases (ambiguity, missing text, conflicts) never raise; a malformed span
// can only come from a bug in span resolution.
type MalformedSpanError struct {
	Start int
	End   int
}

func (e *MalformedSpanError) Error() string {
	return fmt.Sprintf("malformed span: end %d before start %d", e.End, e.Start)
}
