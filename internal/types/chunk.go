package types

// Chunk is a bounded, overlapping slice of the full document sent to the
// oracle in one call. StartWord/EndWord index the document's word sequence
// as a half-open range; Text is the exact document substring covering those
// words, so findings verified against a chunk are verified against the
// document itself.
type Chunk struct {
	ID        int    `json:"id"`
	StartWord int    `json:"start_word"`
	EndWord   int    `json:"end_word"`
	Text      string `json:"text"`
}

// WordCount returns the number of words the chunk covers
func (c Chunk) WordCount() int {
	return c.EndWord - c.StartWord
}
