// Package citation turns free text produced by the reasoning engine into a
// tagged segment sequence, so callers render citations as interactive
// references without doing any parsing of their own.
package citation

import (
	"regexp"
	"strconv"
	"strings"
)

// tokenRe is the citation wire format: [Page 3], [Slide 12], [Sheet 2].
// Case-insensitive on the unit word. Malformed or overlapping bracket
// sequences simply fail to match and pass through as plain text.
var tokenRe = regexp.MustCompile(`(?i)\[(Page|Slide|Sheet)\s+(\d+)\]`)

// Segment is one run of answer text: either plain text or a citation token.
type Segment struct {
	// Text is the literal span, citation brackets included.
	Text string `json:"text"`
	// Citation is nil for plain text segments.
	Citation *Ref `json:"citation,omitempty"`
}

// Ref is one parsed citation token.
type Ref struct {
	UnitWord  string `json:"unit_word"` // "page", "slide" or "sheet"
	UnitIndex int    `json:"unit_index"`
}

// Parse scans an answer left to right in a single pass and splits it into
// segments. Text between matches is preserved verbatim; an answer with no
// tokens comes back as a single plain segment. unitIndex is not validated
// against any document here; detection and resolution stay decoupled.
func Parse(answer string) []Segment {
	matches := tokenRe.FindAllStringSubmatchIndex(answer, -1)
	if len(matches) == 0 {
		return []Segment{{Text: answer}}
	}

	segments := make([]Segment, 0, 2*len(matches)+1)
	pos := 0
	for _, m := range matches {
		if m[0] > pos {
			segments = append(segments, Segment{Text: answer[pos:m[0]]})
		}
		n, err := strconv.Atoi(answer[m[4]:m[5]])
		if err != nil {
			// \d+ should always parse; treat overflow as plain text.
			segments = append(segments, Segment{Text: answer[m[0]:m[1]]})
			pos = m[1]
			continue
		}
		segments = append(segments, Segment{
			Text: answer[m[0]:m[1]],
			Citation: &Ref{
				UnitWord:  strings.ToLower(answer[m[2]:m[3]]),
				UnitIndex: n,
			},
		})
		pos = m[1]
	}
	if pos < len(answer) {
		segments = append(segments, Segment{Text: answer[pos:]})
	}
	return segments
}
