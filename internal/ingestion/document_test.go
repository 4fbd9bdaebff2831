package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromText_NormalizesLineEndings(t *testing.T) {
	doc, err := FromText("line one\r\nline two\rline three")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\nline three", doc)
}

func TestFromText_PreservesDoubledSpaces(t *testing.T) {
	// A doubled space is a word-boundary defect the oracle should see.
	doc, err := FromText("the  team shipped on time")
	require.NoError(t, err)
	assert.Equal(t, "the  team shipped on time", doc)
}

func TestFromText_EmptyFails(t *testing.T) {
	_, err := FromText("   \r\n  ")
	var emptyErr *EmptyDocumentError
	require.ErrorAs(t, err, &emptyErr)
}

func TestFromFile_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello  world\r\n"), 0644))

	doc, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello  world", doc)
}

func TestFromFile_Missing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorContains(t, err, "file not found")
}

func TestFromFile_HTML(t *testing.T) {
	html := `<html><head><script>ignore()</script></head>
<body><nav>menu</nav><main><p>The meeting started late.</p><p>Minutes were taken.</p></main></body></html>`
	path := filepath.Join(t.TempDir(), "transcript.html")
	require.NoError(t, os.WriteFile(path, []byte(html), 0644))

	doc, err := FromFile(path)
	require.NoError(t, err)
	assert.Contains(t, doc, "The meeting started late.")
	assert.Contains(t, doc, "Minutes were taken.")
	assert.NotContains(t, doc, "menu")
	assert.NotContains(t, doc, "ignore()")
}

func TestExtractText_TranscriptSelectorPreferred(t *testing.T) {
	html := `<body><div class="content">wrong section</div><div class="transcript">the actual transcript text</div></body>`
	text, err := ExtractText(html)
	require.NoError(t, err)
	assert.Equal(t, "the actual transcript text", text)
}
