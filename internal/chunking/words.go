package chunking

import "unicode"

// Word is a whitespace-delimited token with its byte offsets in the source
// text. End is exclusive.
type Word struct {
	Text  string
	Start int
	End   int
}

// Words splits text into whitespace-delimited words, preserving the byte
// offset of each word in the original text. Splitting only ever happens on
// whitespace, so no word is broken mid-token.
func Words(text string) []Word {
	var words []Word
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				words = append(words, Word{Text: text[start:i], Start: start, End: i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, Word{Text: text[start:], Start: start, End: len(text)})
	}
	return words
}

// WordCount returns the number of whitespace-delimited words in text
func WordCount(text string) int {
	count := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			count++
			inWord = true
		}
	}
	return count
}
