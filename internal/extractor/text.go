package extractor

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/docsight/docsight/internal/document"
)

// TextAdapter is the catch-all: one unit, raw content passed through
// unchanged. HTML files get their markup stripped first so the reasoning
// engine sees prose instead of tags; everything else is untouched.
type TextAdapter struct{}

func (a *TextAdapter) Extract(ctx context.Context, f File) (Result, error) {
	content := string(f.Data)

	ext := strings.ToLower(filepath.Ext(f.Name))
	if ext == ".html" || ext == ".htm" {
		if stripped, err := htmlToText(content); err == nil {
			content = stripped
		}
	}

	var sb strings.Builder
	sb.WriteString(document.TextHeader)
	sb.WriteString("\n")
	sb.WriteString(content)

	return Result{Text: sb.String(), UnitCount: 1}, nil
}

// htmlToText collects the text content of an HTML document, skipping script
// and style elements.
func htmlToText(src string) (string, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				sb.WriteString(t)
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(sb.String()), nil
}
