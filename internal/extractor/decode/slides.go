package decode

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/docsight/docsight/internal/extractor"
)

// Slides lists slide entries from a presentation archive. A .pptx is a ZIP
// with one XML document per slide under ppt/slides/; text lives in <a:t>
// elements. Entries are returned in directory order, unsorted.
type Slides struct{}

func (Slides) SlideEntries(ctx context.Context, data []byte) ([]extractor.SlideEntry, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	var entries []extractor.SlideEntry
	for _, zf := range reader.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !strings.HasPrefix(zf.Name, "ppt/slides/slide") || !strings.HasSuffix(zf.Name, ".xml") {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", zf.Name, err)
		}
		texts, err := slideTexts(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", zf.Name, err)
		}
		entries = append(entries, extractor.SlideEntry{Name: zf.Name, Texts: texts})
	}
	return entries, nil
}

// slideTexts collects the character data of every <a:t> element in document
// order.
func slideTexts(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var texts []string
	var inText bool
	var current strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "t" && inText {
				inText = false
				if s := current.String(); s != "" {
					texts = append(texts, s)
				}
			}
		}
	}
	return texts, nil
}
