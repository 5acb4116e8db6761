package reader

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength is the default selection limit in characters.
const DefaultMaxLength = 500

// Tracker validates selections against a length limit and the ranges that
// were already committed, and records new commits. Ranges are only ever
// appended; they are never merged, and only Reset removes them.
type Tracker struct {
	maxLength int
	used      []UsedRange
}

// NewTracker creates a tracker with the given maximum selection length.
// Non-positive values fall back to DefaultMaxLength.
func NewTracker(maxLength int) *Tracker {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Tracker{maxLength: maxLength}
}

// MaxLength returns the maximum selection length.
func (t *Tracker) MaxLength() int { return t.maxLength }

// Used returns a copy of the committed ranges in commit order.
func (t *Tracker) Used() []UsedRange {
	out := make([]UsedRange, len(t.used))
	copy(out, t.used)
	return out
}

// Reset drops all committed ranges.
func (t *Tracker) Reset() { t.used = nil }

// Evaluate builds a selection for the offsets and text and validates it.
// Endpoints may be given in either order.
func (t *Tracker) Evaluate(start, end int, text string) Selection {
	if end < start {
		start, end = end, start
	}
	sel := Selection{Text: text, Start: start, End: end}
	sel.Verdict = t.verdict(sel)
	return sel
}

// Resolve maps raw endpoints inside the rendered fragments of a page to
// document offsets and evaluates the resulting selection.
func (t *Tracker) Resolve(idx *OffsetIndex, anchor, focus Point, doc *Document) Selection {
	start := idx.Offset(anchor)
	end := idx.Offset(focus)
	if end < start {
		start, end = end, start
	}
	return t.Evaluate(start, end, doc.Slice(start, end))
}

// Commit records the selection as used. The selection is validated again
// against the current ranges, so a stale selection cannot slip through.
func (t *Tracker) Commit(sel Selection) (UsedRange, error) {
	if v := t.verdict(sel); v != VerdictOK {
		return UsedRange{}, v.Err()
	}
	r := sel.Range()
	t.used = append(t.used, r)
	return r, nil
}

// Overlapping returns the first committed range intersecting r.
func (t *Tracker) Overlapping(r UsedRange) (UsedRange, bool) {
	for _, u := range t.used {
		if Overlaps(u, r) {
			return u, true
		}
	}
	return UsedRange{}, false
}

func (t *Tracker) verdict(sel Selection) Verdict {
	trimmed := strings.TrimSpace(sel.Text)
	if sel.End <= sel.Start || trimmed == "" {
		return VerdictEmpty
	}
	if sel.Start < 0 || utf8.RuneCountInString(sel.Text) != sel.End-sel.Start {
		return VerdictOutOfRange
	}
	if utf8.RuneCountInString(trimmed) > t.maxLength {
		return VerdictTooLong
	}
	if _, ok := t.Overlapping(sel.Range()); ok {
		return VerdictOverlapping
	}
	return VerdictOK
}
