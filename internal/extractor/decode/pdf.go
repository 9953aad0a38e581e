// Package decode provides the default in-process implementations of the
// decoder capabilities consumed by the extractor adapters. Each type wraps
// one external library; remote capabilities (OCR, speech) live elsewhere.
package decode

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDF reads per-page text using ledongthuc/pdf.
type PDF struct{}

func (PDF) PageTexts(ctx context.Context, data []byte) ([]string, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			return nil, fmt.Errorf("page %d: unreadable", i)
		}
		text, err := pageText(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// pageText renders one page row by row so end-of-line positions survive into
// the normalized text.
func pageText(page pdflib.Page) (string, error) {
	rows, err := page.GetTextByRow()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i, row := range rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		for j, word := range row.Content {
			if j > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(word.S)
		}
	}
	return sb.String(), nil
}
