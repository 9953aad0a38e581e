package document

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/docsight/docsight/internal/format"
)

// Record is one ingested file in its normalized form: canonical text made of
// unit blocks, each prefixed by a unit header line. Anchors are derived from
// the text on demand, never stored, so they cannot drift.
type Record struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Kind      format.Kind `json:"format_kind"`
	Text      string      `json:"normalized_text"`
	UnitCount int         `json:"unit_count"`

	// RawBytes holds the original file while it is available in this
	// process. It is never persisted; after a session is reloaded from its
	// snapshot, navigation degrades to text offsets.
	RawBytes []byte `json:"-"`

	// Visual carries the base64 image payload for image documents, consumed
	// by the reasoning engine independently of the OCR text.
	Visual *VisualPayload `json:"visual_payload,omitempty"`
}

// VisualPayload is an image forwarded to the reasoning engine as pixels.
type VisualPayload struct {
	MediaType  string `json:"media_type"`
	DataBase64 string `json:"data_base64"`
}

// Unit header literals. Extractor adapters emit these; everything downstream
// scans for them. The exact shapes are part of the citation contract.
func PageHeader(n int) string        { return fmt.Sprintf("--- Page %d ---", n) }
func SlideHeader(n int) string       { return fmt.Sprintf("--- Slide %d ---", n) }
func SheetHeader(name string) string { return fmt.Sprintf("--- Sheet: %s ---", name) }

const (
	WordHeader  = "--- Document Content ---"
	ImageHeader = "--- Image OCR Result ---"
	TextHeader  = "--- Text File ---"
)

var (
	pageHeaderRe  = regexp.MustCompile(`(?m)^--- Page (\d+) ---$`)
	slideHeaderRe = regexp.MustCompile(`(?m)^--- Slide (\d+) ---$`)
	sheetHeaderRe = regexp.MustCompile(`(?m)^--- Sheet: (.+) ---$`)
	wordHeaderRe  = regexp.MustCompile(`(?m)^--- Document Content ---$`)
	imageHeaderRe = regexp.MustCompile(`(?m)^--- Image OCR Result ---$`)
	textHeaderRe  = regexp.MustCompile(`(?m)^--- Text File ---$`)
)

func headerPattern(kind format.Kind) *regexp.Regexp {
	switch kind {
	case format.PDF:
		return pageHeaderRe
	case format.Slides:
		return slideHeaderRe
	case format.Spreadsheet:
		return sheetHeaderRe
	case format.Word:
		return wordHeaderRe
	case format.Image:
		return imageHeaderRe
	default:
		return textHeaderRe
	}
}

// New wraps extractor output into a Record, verifying the header invariant:
// the text must contain exactly unitCount headers, and indexed headers must
// run 1..unitCount in order. A mismatch means an adapter bug, so construction
// fails rather than silently truncating.
func New(id, name string, kind format.Kind, text string, unitCount int) (*Record, error) {
	rec := &Record{
		ID:        id,
		Name:      name,
		Kind:      kind,
		Text:      text,
		UnitCount: unitCount,
	}
	anchors := rec.Anchors()
	if len(anchors) != unitCount {
		return nil, fmt.Errorf("document %q: %d unit headers in text, want %d", name, len(anchors), unitCount)
	}
	for i, a := range anchors {
		if a.UnitIndex != i+1 {
			return nil, fmt.Errorf("document %q: unit header %d has index %d, want %d", name, i, a.UnitIndex, i+1)
		}
	}
	return rec, nil
}

// AnchorKind says what a unit index addresses in the original file.
type AnchorKind string

const (
	AnchorPage  AnchorKind = "page"
	AnchorSlide AnchorKind = "slide"
	AnchorSheet AnchorKind = "sheet"
	AnchorWhole AnchorKind = "whole"
)

func anchorKind(kind format.Kind) AnchorKind {
	switch kind {
	case format.PDF:
		return AnchorPage
	case format.Slides:
		return AnchorSlide
	case format.Spreadsheet:
		return AnchorSheet
	default:
		return AnchorWhole
	}
}

// Anchor is a derived reference to one unit: its 1-based index, kind, the
// byte offset of its header in the normalized text, and the header label.
type Anchor struct {
	UnitIndex int        `json:"unit_index"`
	Kind      AnchorKind `json:"kind"`
	Offset    int        `json:"offset"`
	Label     string     `json:"label"`
}

// Anchors scans the normalized text for unit headers and returns them in
// document order. Indexed formats carry their embedded unit number; formats
// without one are numbered by occurrence.
func (r *Record) Anchors() []Anchor {
	pat := headerPattern(r.Kind)
	kind := anchorKind(r.Kind)

	matches := pat.FindAllStringSubmatchIndex(r.Text, -1)
	anchors := make([]Anchor, 0, len(matches))
	for i, m := range matches {
		a := Anchor{
			UnitIndex: i + 1,
			Kind:      kind,
			Offset:    m[0],
			Label:     r.Text[m[0]:m[1]],
		}
		// Page and slide headers embed their own index.
		if (r.Kind == format.PDF || r.Kind == format.Slides) && len(m) >= 4 {
			if n, err := strconv.Atoi(r.Text[m[2]:m[3]]); err == nil {
				a.UnitIndex = n
			}
		}
		anchors = append(anchors, a)
	}
	return anchors
}
