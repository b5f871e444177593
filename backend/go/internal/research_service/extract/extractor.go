package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Extractor converts one uploaded file format into plain text suitable for
// analysis. Implementations work on in-memory bytes; uploads never touch the
// local filesystem.
type Extractor interface {
	// Extract returns the plain-text content of the file.
	Extract(ctx context.Context, filename string, data []byte) (string, error)
	// AcceptedExtensions lists the lowercase file extensions (without dot) this extractor handles.
	AcceptedExtensions() []string
	// AcceptedMimeTypes lists the MIME types this extractor handles.
	AcceptedMimeTypes() []string
}

// Registry routes a file to the right Extractor. Routing prefers the MIME type
// sniffed from the file content and falls back to the filename extension, so a
// .txt upload that is really a PDF still lands on the PDF extractor.
type Registry struct {
	extractors []Extractor
}

// NewRegistry creates a Registry with all the available extractors registered.
func NewRegistry() *Registry {
	r := &Registry{}

	r.Register(NewTextExtractor())
	r.Register(NewPdfExtractor())
	r.Register(NewHTMLExtractor())
	r.Register(NewXlsxExtractor())

	return r
}

// Register adds an extractor to the registry.
func (r *Registry) Register(e Extractor) {
	r.extractors = append(r.extractors, e)
}

// Supported reports whether any registered extractor accepts the file.
func (r *Registry) Supported(filename string, data []byte) bool {
	return r.lookup(filename, data) != nil
}

// Extract finds an extractor for the file and runs it.
func (r *Registry) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	e := r.lookup(filename, data)
	if e == nil {
		mtype := mimetype.Detect(data)
		return "", fmt.Errorf("no extractor found for %s (MIME type %s)", filename, mtype.String())
	}
	return e.Extract(ctx, filename, data)
}

func (r *Registry) lookup(filename string, data []byte) Extractor {
	mtype := mimetype.Detect(data)
	for _, e := range r.extractors {
		for _, accepted := range e.AcceptedMimeTypes() {
			if mtype.Is(accepted) {
				return e
			}
		}
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, e := range r.extractors {
		for _, accepted := range e.AcceptedExtensions() {
			if ext == accepted {
				return e
			}
		}
	}

	return nil
}
