package ui

import (
	"unicode"

	"github.com/dgnsrekt/sampler/reader"
)

// caret moves a selection endpoint around the rendered rows of one page.
// Positions are document offsets of the rune under the caret.
type caret struct {
	idx   *reader.OffsetIndex
	runes []rune // page text, runes[i] sits at idx.Base()+i
}

func newCaret(idx *reader.OffsetIndex, text string) caret {
	return caret{idx: idx, runes: []rune(text)}
}

func (c caret) empty() bool { return len(c.runes) == 0 }

func (c caret) first() int { return c.idx.Base() }

func (c caret) last() int { return c.idx.Base() + max(0, len(c.runes)-1) }

func (c caret) clamp(o int) int { return min(max(o, c.first()), c.last()) }

func (c caret) at(o int) rune {
	i := o - c.idx.Base()
	if i < 0 || i >= len(c.runes) {
		return 0
	}
	return c.runes[i]
}

func (c caret) left(o int) int  { return c.clamp(o - 1) }
func (c caret) right(o int) int { return c.clamp(o + 1) }

func (c caret) up(o int) int {
	p := c.idx.Locate(o)
	if p.Fragment == 0 {
		return o
	}
	return c.onRow(p.Fragment-1, p.Offset)
}

func (c caret) down(o int) int {
	p := c.idx.Locate(o)
	if p.Fragment >= c.idx.Fragments()-1 {
		return o
	}
	return c.onRow(p.Fragment+1, p.Offset)
}

// onRow returns the offset at col on row, clamped to the row's last rune.
func (c caret) onRow(row, col int) int {
	n := c.idx.FragmentLen(row)
	col = min(col, max(0, n-1))
	return c.clamp(c.idx.Offset(reader.Point{Fragment: row, Offset: col}))
}

func (c caret) lineStart(o int) int {
	p := c.idx.Locate(o)
	return c.onRow(p.Fragment, 0)
}

// lineEnd stops before a trailing newline.
func (c caret) lineEnd(o int) int {
	p := c.idx.Locate(o)
	end := c.onRow(p.Fragment, c.idx.FragmentLen(p.Fragment)-1)
	if c.at(end) == '\n' && end > c.lineStart(o) {
		end--
	}
	return end
}

func (c caret) wordNext(o int) int {
	o = c.clamp(o)
	for o < c.last() && !unicode.IsSpace(c.at(o)) {
		o++
	}
	for o < c.last() && unicode.IsSpace(c.at(o)) {
		o++
	}
	return o
}

func (c caret) wordPrev(o int) int {
	o = c.clamp(o)
	for o > c.first() && unicode.IsSpace(c.at(o-1)) {
		o--
	}
	if o > c.first() {
		o--
	}
	for o > c.first() && !unicode.IsSpace(c.at(o-1)) {
		o--
	}
	return o
}

// span returns the half-open range covered by two caret positions, both
// runes included.
func span(anchor, focus int) (start, end int) {
	return min(anchor, focus), max(anchor, focus) + 1
}
