package extractor

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/docsight/docsight/internal/document"
	"github.com/docsight/docsight/internal/format"
)

// slideNameRe pulls the embedded slide number out of an archive entry name
// like "ppt/slides/slide12.xml".
var slideNameRe = regexp.MustCompile(`slide(\d+)\.xml$`)

// SlideAdapter emits one unit per slide. Slides are sorted numerically by
// their embedded index, so slide2 comes before slide10 regardless of the
// archive's directory order. Units are renumbered 1..N after sorting.
type SlideAdapter struct {
	Decoder SlideDecoder
}

func (a *SlideAdapter) Extract(ctx context.Context, f File) (Result, error) {
	if a.Decoder == nil {
		return Result{}, failed(format.Slides, ErrCapabilityUnavailable)
	}

	entries, err := a.Decoder.SlideEntries(ctx, f.Data)
	if err != nil {
		return Result{}, failed(format.Slides, fmt.Errorf("read deck: %w", err))
	}

	type slide struct {
		index int
		texts []string
	}
	slides := make([]slide, 0, len(entries))
	for _, e := range entries {
		m := slideNameRe.FindStringSubmatch(e.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Result{}, failed(format.Slides, fmt.Errorf("slide entry %q: %w", e.Name, err))
		}
		slides = append(slides, slide{index: n, texts: e.Texts})
	}
	if len(slides) == 0 {
		return Result{}, failed(format.Slides, fmt.Errorf("no slides in %q", f.Name))
	}

	sort.Slice(slides, func(i, j int) bool { return slides[i].index < slides[j].index })

	var sb strings.Builder
	for i, s := range slides {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(document.SlideHeader(i + 1))
		sb.WriteString("\n")
		for _, t := range s.texts {
			sb.WriteString(t)
			sb.WriteString("\n")
		}
	}

	return Result{Text: sb.String(), UnitCount: len(slides)}, nil
}
