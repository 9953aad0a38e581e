package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/docsight/docsight/internal/document"
	"github.com/docsight/docsight/internal/format"
)

type fakeSlides struct {
	entries []SlideEntry
	err     error
}

func (f fakeSlides) SlideEntries(ctx context.Context, data []byte) ([]SlideEntry, error) {
	return f.entries, f.err
}

func TestSlideAdapter_NumericSortNotLexicographic(t *testing.T) {
	// Discovery order slide2, slide10, slide1 must come out as units 1, 2, 3
	// for slide1, slide2, slide10.
	a := &SlideAdapter{Decoder: fakeSlides{entries: []SlideEntry{
		{Name: "ppt/slides/slide2.xml", Texts: []string{"second"}},
		{Name: "ppt/slides/slide10.xml", Texts: []string{"tenth"}},
		{Name: "ppt/slides/slide1.xml", Texts: []string{"first"}},
	}}}

	res, err := a.Extract(context.Background(), File{Name: "deck.pptx"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.UnitCount != 3 {
		t.Fatalf("unit count %d, want 3", res.UnitCount)
	}

	wantOrder := []string{"first", "second", "tenth"}
	pos := -1
	for i, body := range wantOrder {
		block := document.SlideHeader(i+1) + "\n" + body
		idx := strings.Index(res.Text, block)
		if idx < 0 {
			t.Fatalf("missing block %q in:\n%s", block, res.Text)
		}
		if idx < pos {
			t.Errorf("block %q out of order", block)
		}
		pos = idx
	}
}

func TestSlideAdapter_TextNodesEachOnOwnLine(t *testing.T) {
	a := &SlideAdapter{Decoder: fakeSlides{entries: []SlideEntry{
		{Name: "ppt/slides/slide1.xml", Texts: []string{"Title", "Bullet one", "Bullet two"}},
	}}}

	res, err := a.Extract(context.Background(), File{Name: "deck.pptx"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.Text, "Title\nBullet one\nBullet two\n") {
		t.Errorf("text nodes not line-separated:\n%s", res.Text)
	}
}

func TestSlideAdapter_NonSlideEntriesIgnored(t *testing.T) {
	a := &SlideAdapter{Decoder: fakeSlides{entries: []SlideEntry{
		{Name: "ppt/slides/slide1.xml", Texts: []string{"only"}},
		{Name: "ppt/slideLayouts/slideLayout1.xml", Texts: []string{"layout noise"}},
		{Name: "ppt/notesSlides/notesSlide1.xml", Texts: []string{"speaker notes"}},
	}}}

	res, err := a.Extract(context.Background(), File{Name: "deck.pptx"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.UnitCount != 1 {
		t.Errorf("unit count %d, want 1", res.UnitCount)
	}
}

func TestSlideAdapter_CapabilityUnavailable(t *testing.T) {
	a := &SlideAdapter{}
	_, err := a.Extract(context.Background(), File{Name: "deck.pptx"})
	if !errors.Is(err, ErrCapabilityUnavailable) {
		t.Fatalf("error %v, want ErrCapabilityUnavailable", err)
	}
	var extErr *Error
	if !errors.As(err, &extErr) || extErr.Kind != format.Slides {
		t.Errorf("error %v, want *Error with kind slides", err)
	}
}

func TestSlideAdapter_NoSlidesFails(t *testing.T) {
	a := &SlideAdapter{Decoder: fakeSlides{entries: []SlideEntry{
		{Name: "ppt/presentation.xml"},
	}}}
	if _, err := a.Extract(context.Background(), File{Name: "deck.pptx"}); err == nil {
		t.Fatal("expected error for deck with no slide entries")
	}
}
