package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// contentSelectors are tried in order to locate the transcript body; the
// first match wins, falling back to the whole body element.
var contentSelectors = []string{
	".transcript",
	"#transcript",
	"main",
	"article",
	".content",
	"#content",
}

// ExtractText parses HTML and returns the visible text of the main content
// area, with navigation and script noise removed.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .sidebar").Remove()

	var content *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			content = selection.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	return collapseBlankLines(content.Text()), nil
}

// collapseBlankLines trims each line and drops empties. HTML rendering never
// preserves intra-line spacing anyway, so unlike plain-text input the
// extracted text is safe to tidy line by line.
func collapseBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	var kept []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
