package extract

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestRegistry_PlainText(t *testing.T) {
	r := NewRegistry()

	text, err := r.Extract(context.Background(), "notes.txt", []byte("Alice met Bob."))
	require.NoError(t, err)
	assert.Equal(t, "Alice met Bob.", text)
}

func TestRegistry_Markdown(t *testing.T) {
	r := NewRegistry()

	text, err := r.Extract(context.Background(), "readme.md", []byte("# Title\n\nbody"))
	require.NoError(t, err)
	assert.Contains(t, text, "# Title")
}

func TestRegistry_HTML(t *testing.T) {
	r := NewRegistry()
	page := []byte("<html><body><h1>Graph Theory</h1><p>Alice met Bob.</p></body></html>")

	text, err := r.Extract(context.Background(), "page.html", page)
	require.NoError(t, err)

	assert.Contains(t, text, "Graph Theory")
	assert.Contains(t, text, "Alice met Bob.")
	assert.NotContains(t, text, "<p>")
}

func TestRegistry_Xlsx(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "topic"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Alice"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "graphs"))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	r := NewRegistry()
	text, err := r.Extract(context.Background(), "data.xlsx", buf.Bytes())
	require.NoError(t, err)

	assert.Contains(t, text, "## Sheet1")
	assert.Contains(t, text, "| name | topic |")
	assert.Contains(t, text, "| Alice | graphs |")
}

func TestRegistry_ContentSniffingBeatsExtension(t *testing.T) {
	r := NewRegistry()
	page := []byte("<html><body><p>really html</p></body></html>")

	// A mislabeled upload still routes on its sniffed content type.
	text, err := r.Extract(context.Background(), "page.txt", page)
	require.NoError(t, err)
	assert.Contains(t, text, "really html")
}

func TestRegistry_UnsupportedFile(t *testing.T) {
	r := NewRegistry()
	png := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

	assert.False(t, r.Supported("image.png", png))
	_, err := r.Extract(context.Background(), "image.png", png)
	assert.Error(t, err)
}
