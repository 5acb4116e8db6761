package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/dgnsrekt/sampler/reader"
)

// pageView renders the wrapped rows of the current page, marking used
// ranges, the pending selection and the caret.
type pageView struct {
	rows   []string
	base   int
	width  int
	margin int

	used      []reader.UsedRange
	selection reader.Selection
	caret     int // -1 when hidden
}

type mark int

const (
	markNone mark = iota
	markUsed
	markSelected
	markInvalid
	markCaret
)

func (v pageView) markAt(o int) mark {
	if o == v.caret {
		return markCaret
	}
	if s := v.selection; s.End > s.Start && o >= s.Start && o < s.End {
		if s.Valid() {
			return markSelected
		}
		return markInvalid
	}
	for _, r := range v.used {
		if o >= r.Start && o < r.End {
			return markUsed
		}
	}
	return markNone
}

func (m mark) style() (lipgloss.Style, bool) {
	switch m {
	case markUsed:
		return usedStyle, true
	case markSelected:
		return selectStyle, true
	case markInvalid:
		return badSelectStyle, true
	case markCaret:
		return cursorStyle, true
	}
	return lipgloss.Style{}, false
}

func (v pageView) render() string {
	pad := strings.Repeat(" ", max(0, v.margin))
	lines := make([]string, 0, len(v.rows))

	o := v.base
	for _, row := range v.rows {
		var b strings.Builder
		var seg strings.Builder
		cur := markNone
		flush := func() {
			if seg.Len() == 0 {
				return
			}
			if st, ok := cur.style(); ok {
				b.WriteString(st.Render(seg.String()))
			} else {
				b.WriteString(seg.String())
			}
			seg.Reset()
		}

		for _, r := range row {
			mk := v.markAt(o)
			o++
			if r == '\n' {
				if mk == markNone || mk == markUsed {
					continue
				}
				r = ' '
			}
			if mk != cur {
				flush()
				cur = mk
			}
			seg.WriteRune(r)
		}
		flush()

		line := b.String()
		if v.width > 0 {
			// trailing whitespace at a wrap point may hang one cell over
			line = truncate.String(line, uint(v.width+1)) //nolint:gosec
		}
		lines = append(lines, pad+line)
	}
	return strings.Join(lines, "\n")
}

// offsetAt maps a cell position inside the page body to the document offset
// of the rune drawn there. ok is false outside the rows.
func (v pageView) offsetAt(x, y int) (int, bool) {
	if y < 0 || y >= len(v.rows) {
		return 0, false
	}
	o := v.base
	for _, row := range v.rows[:y] {
		o += len([]rune(row))
	}

	row := []rune(v.rows[y])
	x -= v.margin
	if x < 0 {
		return o, true
	}
	cells := 0
	for i, r := range row {
		cells += runewidth.RuneWidth(r)
		if cells > x || r == '\n' {
			return o + i, true
		}
	}
	return o + max(0, len(row)-1), true
}
