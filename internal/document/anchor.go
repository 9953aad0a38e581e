package document

import (
	"fmt"

	"github.com/docsight/docsight/internal/format"
)

// NavMode says how a navigation target should be honored by a viewer.
type NavMode string

const (
	// NavNative opens the original file in its own renderer at the unit.
	// Only available while the raw bytes are still held.
	NavNative NavMode = "native"
	// NavText scrolls the extracted text view to the unit header offset.
	NavText NavMode = "text"
)

// NavigationTarget locates one unit of one document for a viewer.
type NavigationTarget struct {
	DocID      string  `json:"doc_id"`
	Mode       NavMode `json:"mode"`
	UnitIndex  int     `json:"unit_index"`
	TextOffset int     `json:"text_offset,omitempty"`
}

// ResolutionError reports a citation that cannot be bound to a unit.
// Callers surface it as "citation unresolved"; a wrong-but-plausible jump is
// worse than a visibly failed one, so there is no clamping.
type ResolutionError struct {
	UnitIndex int
	Reason    string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve unit %d: %s", e.UnitIndex, e.Reason)
}

// Resolve maps a 1-based unit index to a navigation target. PDF documents
// with raw bytes still present get a native locator; everything else gets
// the text offset of the matching unit header.
func Resolve(rec *Record, unitIndex int) (NavigationTarget, error) {
	if unitIndex < 1 || unitIndex > rec.UnitCount {
		return NavigationTarget{}, &ResolutionError{
			UnitIndex: unitIndex,
			Reason:    fmt.Sprintf("out of range [1, %d]", rec.UnitCount),
		}
	}

	if rec.Kind == format.PDF && rec.RawBytes != nil {
		return NavigationTarget{
			DocID:     rec.ID,
			Mode:      NavNative,
			UnitIndex: unitIndex,
		}, nil
	}

	anchors := rec.Anchors()
	for _, a := range anchors {
		if a.UnitIndex == unitIndex {
			return NavigationTarget{
				DocID:      rec.ID,
				Mode:       NavText,
				UnitIndex:  unitIndex,
				TextOffset: a.Offset,
			}, nil
		}
	}
	return NavigationTarget{}, &ResolutionError{
		UnitIndex: unitIndex,
		Reason:    "no matching unit header in normalized text",
	}
}
