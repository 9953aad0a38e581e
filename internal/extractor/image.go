package extractor

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/docsight/docsight/internal/document"
	"github.com/docsight/docsight/internal/format"
)

// ImageAdapter produces two independent outputs: a best-effort OCR transcript
// as the single unit's text, and the visual payload the reasoning engine uses
// to look at the pixels directly. OCR being unavailable or failing never
// blocks the visual payload.
type ImageAdapter struct {
	OCR OCRDecoder
}

func (a *ImageAdapter) Extract(ctx context.Context, f File) (Result, error) {
	if len(f.Data) == 0 {
		return Result{}, failed(format.Image, fmt.Errorf("empty image %q", f.Name))
	}

	mediaType := f.MediaType
	if mediaType == "" {
		mediaType = "image/png"
	}
	visual := &document.VisualPayload{
		MediaType:  mediaType,
		DataBase64: base64.StdEncoding.EncodeToString(f.Data),
	}

	var ocrText string
	if a.OCR != nil {
		text, err := a.OCR.Recognize(ctx, f.Data, mediaType)
		if err == nil {
			ocrText = strings.TrimSpace(text)
		}
		// OCR errors are absorbed: the transcript stays empty and the
		// reasoning engine still gets the image itself.
	}

	var sb strings.Builder
	sb.WriteString(document.ImageHeader)
	sb.WriteString("\n")
	sb.WriteString(ocrText)

	return Result{Text: sb.String(), UnitCount: 1, Visual: visual}, nil
}
