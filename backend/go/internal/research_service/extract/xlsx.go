package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XlsxExtractor handles Excel (.xlsx) files, converting each sheet to a
// Markdown table.
type XlsxExtractor struct{}

// NewXlsxExtractor creates a new XlsxExtractor.
func NewXlsxExtractor() *XlsxExtractor {
	return &XlsxExtractor{}
}

// Extract renders every sheet of the workbook as a Markdown table.
func (e *XlsxExtractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to open xlsx %s: %w", filename, err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			// Skip sheet if rows can't be read
			continue
		}
		if len(rows) == 0 {
			continue
		}

		sb.WriteString("## " + sheetName + "\n\n")

		// Header
		sb.WriteString("| " + strings.Join(rows[0], " | ") + " |\n")
		// Separator
		sb.WriteString("|" + strings.Repeat(" --- |", len(rows[0])) + "\n")
		// Body
		for _, row := range rows[1:] {
			sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// AcceptedExtensions lists the extensions this extractor handles.
func (e *XlsxExtractor) AcceptedExtensions() []string {
	return []string{"xlsx"}
}

// AcceptedMimeTypes lists the MIME types this extractor handles.
func (e *XlsxExtractor) AcceptedMimeTypes() []string {
	return []string{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"}
}

// compile-time check to ensure XlsxExtractor implements the Extractor interface
var _ Extractor = (*XlsxExtractor)(nil)
