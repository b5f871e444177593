package extract

import (
	"context"
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// HTMLExtractor handles saved web pages, converting the markup to markdown so
// headings and links survive as readable text.
type HTMLExtractor struct{}

// NewHTMLExtractor creates a new HTMLExtractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract converts the HTML document to markdown text.
func (e *HTMLExtractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	text, err := htmltomarkdown.ConvertString(string(data))
	if err != nil {
		return "", fmt.Errorf("failed to convert html %s: %w", filename, err)
	}
	return text, nil
}

// AcceptedExtensions lists the extensions this extractor handles.
func (e *HTMLExtractor) AcceptedExtensions() []string {
	return []string{"html", "htm"}
}

// AcceptedMimeTypes lists the MIME types this extractor handles.
func (e *HTMLExtractor) AcceptedMimeTypes() []string {
	return []string{"text/html"}
}

// compile-time check to ensure HTMLExtractor implements the Extractor interface
var _ Extractor = (*HTMLExtractor)(nil)
