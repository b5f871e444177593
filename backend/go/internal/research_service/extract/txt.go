package extract

import "context"

// TextExtractor handles plain text and markdown files, whose bytes are already
// the text we want.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Extract returns the file content as-is.
func (e *TextExtractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	return string(data), nil
}

// AcceptedExtensions lists the extensions this extractor handles.
func (e *TextExtractor) AcceptedExtensions() []string {
	return []string{"txt", "md", "markdown"}
}

// AcceptedMimeTypes lists the MIME types this extractor handles.
func (e *TextExtractor) AcceptedMimeTypes() []string {
	return []string{"text/plain", "text/markdown"}
}

// compile-time check to ensure TextExtractor implements the Extractor interface
var _ Extractor = (*TextExtractor)(nil)
