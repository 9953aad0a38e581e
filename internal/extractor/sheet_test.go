package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/docsight/docsight/internal/document"
	"github.com/docsight/docsight/internal/format"
)

type fakeSheets struct {
	sheets []Sheet
	err    error
}

func (f fakeSheets) Sheets(ctx context.Context, data []byte) ([]Sheet, error) {
	return f.sheets, f.err
}

func TestSheetAdapter_UnitPerSheetInWorkbookOrder(t *testing.T) {
	a := &SheetAdapter{Decoder: fakeSheets{sheets: []Sheet{
		{Name: "Revenue", Rows: [][]string{{"month", "amount"}, {"Jan", "100"}}},
		{Name: "Costs", Rows: [][]string{{"month", "amount"}}},
	}}}

	res, err := a.Extract(context.Background(), File{Name: "book.xlsx"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.UnitCount != 2 {
		t.Errorf("unit count %d, want 2", res.UnitCount)
	}

	revIdx := strings.Index(res.Text, document.SheetHeader("Revenue"))
	costIdx := strings.Index(res.Text, document.SheetHeader("Costs"))
	if revIdx < 0 || costIdx < 0 || revIdx > costIdx {
		t.Errorf("sheets out of workbook order:\n%s", res.Text)
	}
	if !strings.Contains(res.Text, "month,amount\nJan,100") {
		t.Errorf("rows not serialized as comma-separated lines:\n%s", res.Text)
	}
}

func TestSheetAdapter_CapabilityUnavailable(t *testing.T) {
	a := &SheetAdapter{}
	_, err := a.Extract(context.Background(), File{Name: "book.xlsx"})
	if !errors.Is(err, ErrCapabilityUnavailable) {
		t.Fatalf("error %v, want ErrCapabilityUnavailable", err)
	}
	var extErr *Error
	if !errors.As(err, &extErr) || extErr.Kind != format.Spreadsheet {
		t.Errorf("error %v, want *Error with kind spreadsheet", err)
	}
}

func TestSheetAdapter_EmptyWorkbookFails(t *testing.T) {
	a := &SheetAdapter{Decoder: fakeSheets{}}
	if _, err := a.Extract(context.Background(), File{Name: "book.xlsx"}); err == nil {
		t.Fatal("expected error for workbook with no sheets")
	}
}
