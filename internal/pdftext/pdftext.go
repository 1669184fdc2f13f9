// Package pdftext extracts plain text lines from PDF documents.
// It performs no semantic interpretation; pages are visited in order and
// each text row becomes one trimmed line.
package pdftext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor reads text lines out of PDF bytes.
type Extractor struct{}

// New creates a PDF text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Lines returns the non-empty, trimmed text lines of the document,
// page order then row order.
func (e *Extractor) Lines(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pdftext: opening pdf: %w", err)
	}

	var lines []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("pdftext: page %d: %w", pageNum, err)
		}
		for _, row := range rows {
			var b strings.Builder
			for _, word := range row.Content {
				b.WriteString(word.S)
			}
			lines = append(lines, b.String())
		}
	}
	return FilterLines(lines), nil
}

// FilterLines trims every line and drops the blank ones, preserving order.
func FilterLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			out = append(out, ln)
		}
	}
	return out
}
