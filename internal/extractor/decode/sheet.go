package decode

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/docsight/docsight/internal/extractor"
)

// Excel reads workbooks using excelize.
type Excel struct{}

func (Excel) Sheets(ctx context.Context, data []byte) ([]extractor.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make([]extractor.Sheet, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		sheets = append(sheets, extractor.Sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}
