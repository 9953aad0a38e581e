package extractor

import (
	"context"
	"errors"
	"fmt"

	"github.com/docsight/docsight/internal/document"
	"github.com/docsight/docsight/internal/format"
)

// ErrCapabilityUnavailable means the external decoder an adapter depends on
// was not wired in. Adapters fail with it before touching any bytes.
var ErrCapabilityUnavailable = errors.New("decoder capability unavailable")

// Error is an extraction failure for one file. Extraction is all-or-nothing:
// a partially decoded document would break the unit header invariant without
// any signal to the user, so adapters never succeed partially.
type Error struct {
	Kind  format.Kind
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Kind, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func failed(kind format.Kind, cause error) error {
	return &Error{Kind: kind, Cause: cause}
}

// Result is the unit-segmented output of one adapter.
type Result struct {
	Text      string
	UnitCount int
	// Visual is set only by the image adapter.
	Visual *document.VisualPayload
}

// File is one uploaded file handed to an adapter.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

// Extractor converts one file's bytes into unit-segmented text.
type Extractor interface {
	Extract(ctx context.Context, f File) (Result, error)
}

// Decoder capabilities. Each is an injected external facility that may be
// absent; adapters treat absence as an ordinary failure, not a crash.

// PDFDecoder reads per-page text from a PDF, in page order.
type PDFDecoder interface {
	PageTexts(ctx context.Context, data []byte) ([]string, error)
}

// Sheet is one worksheet's cell grid.
type Sheet struct {
	Name string
	Rows [][]string
}

// SheetDecoder reads worksheets from a spreadsheet, in workbook order.
type SheetDecoder interface {
	Sheets(ctx context.Context, data []byte) ([]Sheet, error)
}

// SlideEntry is one slide container entry from a deck archive, with its text
// nodes in document order. Name is the archive entry name (e.g. "slide2.xml").
type SlideEntry struct {
	Name  string
	Texts []string
}

// SlideDecoder lists slide entries from a presentation archive. Entry order
// is whatever the archive directory yields; the adapter sorts.
type SlideDecoder interface {
	SlideEntries(ctx context.Context, data []byte) ([]SlideEntry, error)
}

// WordDecoder converts a word-processing document into plain text.
type WordDecoder interface {
	DocumentText(ctx context.Context, data []byte) (string, error)
}

// OCRDecoder recognizes text in an image.
type OCRDecoder interface {
	Recognize(ctx context.Context, data []byte, mediaType string) (string, error)
}

// Set bundles the decoder capabilities available to this process. Nil fields
// mean the capability is unavailable.
type Set struct {
	PDF    PDFDecoder
	Sheets SheetDecoder
	Slides SlideDecoder
	Word   WordDecoder
	OCR    OCRDecoder
}

// ForKind returns the adapter for a format kind. Every kind has an adapter;
// whether its capability is present is decided at extraction time.
func (s Set) ForKind(kind format.Kind) Extractor {
	switch kind {
	case format.PDF:
		return &PDFAdapter{Decoder: s.PDF}
	case format.Spreadsheet:
		return &SheetAdapter{Decoder: s.Sheets}
	case format.Slides:
		return &SlideAdapter{Decoder: s.Slides}
	case format.Word:
		return &WordAdapter{Decoder: s.Word}
	case format.Image:
		return &ImageAdapter{OCR: s.OCR}
	default:
		return &TextAdapter{}
	}
}
