package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/docsight/docsight/internal/document"
	"github.com/docsight/docsight/internal/format"
)

// WordAdapter emits exactly one unit. Word processors do not expose stable
// pagination through their file format, so the whole document is a single
// addressable block.
type WordAdapter struct {
	Decoder WordDecoder
}

func (a *WordAdapter) Extract(ctx context.Context, f File) (Result, error) {
	if a.Decoder == nil {
		return Result{}, failed(format.Word, ErrCapabilityUnavailable)
	}

	text, err := a.Decoder.DocumentText(ctx, f.Data)
	if err != nil {
		return Result{}, failed(format.Word, fmt.Errorf("convert document: %w", err))
	}

	var sb strings.Builder
	sb.WriteString(document.WordHeader)
	sb.WriteString("\n")
	sb.WriteString(strings.TrimSpace(text))

	return Result{Text: sb.String(), UnitCount: 1}, nil
}
