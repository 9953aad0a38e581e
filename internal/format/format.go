package format

import (
	"path/filepath"
	"strings"
)

// Kind identifies one of the closed set of document formats the service
// understands. It is immutable once assigned to a document.
type Kind string

const (
	PDF         Kind = "pdf"
	Image       Kind = "image"
	Spreadsheet Kind = "spreadsheet"
	Slides      Kind = "slides"
	Word        Kind = "word"
	PlainText   Kind = "plainText"
)

// mediaTypes maps declared media types to a format kind. Checked before the
// extension fallback.
var mediaTypes = map[string]Kind{
	"application/pdf": PDF,

	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": Spreadsheet,
	"application/vnd.ms-excel": Spreadsheet,

	"application/vnd.openxmlformats-officedocument.presentationml.presentation": Slides,
	"application/vnd.ms-powerpoint": Slides,

	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": Word,
	"application/msword": Word,
}

var extensions = map[string]Kind{
	".pdf":  PDF,
	".png":  Image,
	".jpg":  Image,
	".jpeg": Image,
	".gif":  Image,
	".webp": Image,
	".bmp":  Image,
	".xlsx": Spreadsheet,
	".xls":  Spreadsheet,
	".pptx": Slides,
	".ppt":  Slides,
	".docx": Word,
	".doc":  Word,
}

// Classify maps a file's declared media type and name to a format kind.
// Media type wins over extension; anything unrecognized is treated as plain
// text rather than rejected, so classification never fails.
func Classify(mediaType, name string) Kind {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if kind, ok := mediaTypes[mt]; ok {
		return kind
	}
	if strings.HasPrefix(mt, "image/") {
		return Image
	}

	if kind, ok := extensions[strings.ToLower(filepath.Ext(name))]; ok {
		return kind
	}
	return PlainText
}
