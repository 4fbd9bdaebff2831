// Package ingestion loads the transcript to be corrected from a file, inline
// text, or HTML. Beyond line-ending normalization the text is left untouched:
// doubled spaces and similar defects are exactly what the engine is there to
// find, so cleaning them here would hide them from detection.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EmptyDocumentError is returned when the input contains no correctable text.
// Raised before any oracle call is made.
type EmptyDocumentError struct {
	Source string
}

func (e *EmptyDocumentError) Error() string {
	return fmt.Sprintf("empty document: %s", e.Source)
}

// NormalizeLineEndings converts CRLF and bare CR to LF. Interior whitespace
// is preserved verbatim.
func NormalizeLineEndings(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

// FromText prepares inline transcript text for a correction run
func FromText(text string) (string, error) {
	doc := strings.TrimSpace(NormalizeLineEndings(text))
	if doc == "" {
		return "", &EmptyDocumentError{Source: "inline text"}
	}
	return doc, nil
}

// FromFile loads a transcript from disk. Files with an .html or .htm
// extension are reduced to their visible text first.
func FromFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	text := string(content)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		text, err = ExtractText(text)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from %s: %w", path, err)
		}
	}

	doc := strings.TrimSpace(NormalizeLineEndings(text))
	if doc == "" {
		return "", &EmptyDocumentError{Source: path}
	}
	return doc, nil
}
