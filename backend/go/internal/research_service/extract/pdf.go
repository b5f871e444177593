package extract

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PdfExtractor handles PDF files, extracting the text layer of every page.
// Scanned PDFs without a text layer yield an empty string rather than an error.
type PdfExtractor struct{}

// NewPdfExtractor creates a new PdfExtractor.
func NewPdfExtractor() *PdfExtractor {
	return &PdfExtractor{}
}

// Extract reads the PDF from memory and returns its plain text.
func (e *PdfExtractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf %s: %w", filename, err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text from pdf %s: %w", filename, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return "", fmt.Errorf("failed to read pdf text from %s: %w", filename, err)
	}

	return buf.String(), nil
}

// AcceptedExtensions lists the extensions this extractor handles.
func (e *PdfExtractor) AcceptedExtensions() []string {
	return []string{"pdf"}
}

// AcceptedMimeTypes lists the MIME types this extractor handles.
func (e *PdfExtractor) AcceptedMimeTypes() []string {
	return []string{"application/pdf"}
}

// compile-time check to ensure PdfExtractor implements the Extractor interface
var _ Extractor = (*PdfExtractor)(nil)
