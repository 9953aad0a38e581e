package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/docsight/docsight/internal/document"
	"github.com/docsight/docsight/internal/format"
)

// SheetAdapter emits one unit per worksheet, in workbook order. Cells are
// serialized as comma-separated rows to keep column alignment meaningful for
// tabular questions.
type SheetAdapter struct {
	Decoder SheetDecoder
}

func (a *SheetAdapter) Extract(ctx context.Context, f File) (Result, error) {
	if a.Decoder == nil {
		return Result{}, failed(format.Spreadsheet, ErrCapabilityUnavailable)
	}

	sheets, err := a.Decoder.Sheets(ctx, f.Data)
	if err != nil {
		return Result{}, failed(format.Spreadsheet, fmt.Errorf("read workbook: %w", err))
	}
	if len(sheets) == 0 {
		return Result{}, failed(format.Spreadsheet, fmt.Errorf("no sheets in %q", f.Name))
	}

	var sb strings.Builder
	for i, sheet := range sheets {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(document.SheetHeader(sheet.Name))
		sb.WriteString("\n")
		for _, row := range sheet.Rows {
			sb.WriteString(strings.Join(row, ","))
			sb.WriteString("\n")
		}
	}

	return Result{Text: sb.String(), UnitCount: len(sheets)}, nil
}
