package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/docsight/docsight/internal/document"
	"github.com/docsight/docsight/internal/format"
)

// PDFAdapter emits one unit per page. Line breaks inside a page are kept so
// paragraph structure stays legible to the reasoning engine.
type PDFAdapter struct {
	Decoder PDFDecoder
}

func (a *PDFAdapter) Extract(ctx context.Context, f File) (Result, error) {
	if a.Decoder == nil {
		return Result{}, failed(format.PDF, ErrCapabilityUnavailable)
	}

	pages, err := a.Decoder.PageTexts(ctx, f.Data)
	if err != nil {
		return Result{}, failed(format.PDF, fmt.Errorf("read pages: %w", err))
	}
	if len(pages) == 0 {
		return Result{}, failed(format.PDF, fmt.Errorf("no pages in %q", f.Name))
	}

	var sb strings.Builder
	for i, page := range pages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(document.PageHeader(i + 1))
		sb.WriteString("\n")
		sb.WriteString(strings.TrimRight(page, "\n"))
	}

	return Result{Text: sb.String(), UnitCount: len(pages)}, nil
}
