package reason

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/docsight/docsight/internal/document"
)

// BuildContext concatenates the normalized text of every document in the
// session, each introduced by its file name, and applies the engine's
// character budget by cutting from the end. Truncation never reorders or
// interleaves documents.
func BuildContext(docs []*document.Record, budget int) string {
	var sb strings.Builder
	for i, doc := range docs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(fmt.Sprintf("=== %s ===\n", doc.Name))
		sb.WriteString(doc.Text)
	}

	out := sb.String()
	if budget > 0 && len(out) > budget {
		// Back off to a rune boundary so the cut never leaves a partial
		// UTF-8 sequence at the tail.
		cut := budget
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut]
	}
	return out
}

// Images collects the visual payloads of a document list in session order.
func Images(docs []*document.Record) []ImageInput {
	var images []ImageInput
	for _, doc := range docs {
		if doc.Visual == nil {
			continue
		}
		images = append(images, ImageInput{
			MediaType:  doc.Visual.MediaType,
			DataBase64: doc.Visual.DataBase64,
		})
	}
	return images
}
