package citation

import (
	"strings"
	"testing"
)

func TestParse_TwoCitationsWithSurroundingText(t *testing.T) {
	segments := Parse("See [Page 3] and [Slide 12] for details.")

	want := []struct {
		text  string
		word  string
		index int
	}{
		{"See ", "", 0},
		{"[Page 3]", "page", 3},
		{" and ", "", 0},
		{"[Slide 12]", "slide", 12},
		{" for details.", "", 0},
	}
	if len(segments) != len(want) {
		t.Fatalf("got %d segments, want %d: %+v", len(segments), len(want), segments)
	}
	for i, w := range want {
		if segments[i].Text != w.text {
			t.Errorf("segment %d text %q, want %q", i, segments[i].Text, w.text)
		}
		if w.word == "" {
			if segments[i].Citation != nil {
				t.Errorf("segment %d: unexpected citation %+v", i, segments[i].Citation)
			}
			continue
		}
		c := segments[i].Citation
		if c == nil {
			t.Fatalf("segment %d: missing citation", i)
		}
		if c.UnitWord != w.word || c.UnitIndex != w.index {
			t.Errorf("segment %d citation = %+v, want (%s %d)", i, c, w.word, w.index)
		}
	}
}

func TestParse_NoTokensSingleSpan(t *testing.T) {
	in := "No citations anywhere in this answer."
	segments := Parse(in)
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	if segments[0].Text != in || segments[0].Citation != nil {
		t.Errorf("segment = %+v, want the original text unannotated", segments[0])
	}
}

func TestParse_CaseInsensitiveUnitWord(t *testing.T) {
	tests := []struct {
		in   string
		word string
	}{
		{"[page 1]", "page"},
		{"[PAGE 1]", "page"},
		{"[Sheet 2]", "sheet"},
		{"[sLiDe 7]", "slide"},
	}
	for _, tt := range tests {
		segments := Parse(tt.in)
		if len(segments) != 1 || segments[0].Citation == nil {
			t.Fatalf("Parse(%q) = %+v, want single citation", tt.in, segments)
		}
		if segments[0].Citation.UnitWord != tt.word {
			t.Errorf("Parse(%q) unit word %q, want %q", tt.in, segments[0].Citation.UnitWord, tt.word)
		}
	}
}

func TestParse_MalformedTokensAreText(t *testing.T) {
	inputs := []string{
		"[Page]",
		"[Page three]",
		"[Chapter 3]",
		"[Page 3",
		"Page 3]",
		"[ Page 3]",
	}
	for _, in := range inputs {
		segments := Parse(in)
		for _, seg := range segments {
			if seg.Citation != nil {
				t.Errorf("Parse(%q): %q unexpectedly parsed as citation", in, seg.Text)
			}
		}
	}
}

func TestParse_RepeatedUnitIndependentlyMatched(t *testing.T) {
	segments := Parse("[Page 2] then [Page 2] again")
	count := 0
	for _, seg := range segments {
		if seg.Citation != nil {
			count++
			if seg.Citation.UnitIndex != 2 {
				t.Errorf("citation index %d, want 2", seg.Citation.UnitIndex)
			}
		}
	}
	if count != 2 {
		t.Errorf("got %d citations, want 2", count)
	}
}

func TestParse_SegmentsReassembleOriginal(t *testing.T) {
	in := "Intro [Page 1] middle [Sheet 3] outro [Slide 9]"
	var sb strings.Builder
	for _, seg := range Parse(in) {
		sb.WriteString(seg.Text)
	}
	if sb.String() != in {
		t.Errorf("segments reassemble to %q, want %q", sb.String(), in)
	}
}

func TestParse_AdjacentTokens(t *testing.T) {
	segments := Parse("[Page 1][Page 2]")
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2: %+v", len(segments), segments)
	}
	for i, seg := range segments {
		if seg.Citation == nil || seg.Citation.UnitIndex != i+1 {
			t.Errorf("segment %d = %+v", i, seg)
		}
	}
}
