package reader

import (
	"strings"
	"unicode/utf8"
)

// Verdict is the validation outcome of a selection.
type Verdict int

const (
	// VerdictOK means the selection may be committed.
	VerdictOK Verdict = iota
	// VerdictEmpty means nothing (or only whitespace) is selected.
	VerdictEmpty
	// VerdictTooLong means the selected text exceeds the maximum length.
	VerdictTooLong
	// VerdictOverlapping means the selection intersects a used range.
	VerdictOverlapping
	// VerdictOutOfRange means the offsets fall outside the document or do
	// not match the selected text.
	VerdictOutOfRange
)

// String returns the string representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictOK:
		return "ok"
	case VerdictEmpty:
		return "empty"
	case VerdictTooLong:
		return "too-long"
	case VerdictOverlapping:
		return "overlapping"
	case VerdictOutOfRange:
		return "out-of-range"
	default:
		return "unknown"
	}
}

// Err returns the sentinel error for the verdict, or nil for VerdictOK.
func (v Verdict) Err() error {
	switch v {
	case VerdictOK:
		return nil
	case VerdictEmpty:
		return ErrEmptySelection
	case VerdictTooLong:
		return ErrOversizedSelection
	case VerdictOverlapping:
		return ErrOverlappingSelection
	case VerdictOutOfRange:
		return ErrSelectionOutOfRange
	default:
		return ErrEmptySelection
	}
}

// UsedRange is a committed [Start, End) rune interval that was submitted for
// generation and may not be selected again.
type UsedRange struct {
	Start int
	End   int
}

// Overlaps reports whether two half-open ranges intersect, that is whether
// max(a.Start, b.Start) < min(a.End, b.End).
func Overlaps(a, b UsedRange) bool {
	return max(a.Start, b.Start) < min(a.End, b.End)
}

// Selection is a candidate span proposed by the user. It is recomputed on
// every selection change and discarded once superseded or committed.
type Selection struct {
	Text    string
	Start   int
	End     int
	Verdict Verdict
}

// Valid reports whether the selection may be committed.
func (s Selection) Valid() bool { return s.Verdict == VerdictOK }

// Len returns the length in runes of the selected text without surrounding
// whitespace. This is the figure checked against the maximum length.
func (s Selection) Len() int {
	return utf8.RuneCountInString(strings.TrimSpace(s.Text))
}

// Range returns the selection offsets as a UsedRange.
func (s Selection) Range() UsedRange {
	return UsedRange{Start: s.Start, End: s.End}
}
