package layout

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	runewidth "github.com/mattn/go-runewidth"
)

// Advance widths as a fraction of the em size. These approximate a typical
// proportional serif face closely enough for page breaking.
const (
	advanceSpace   = 0.28
	advanceNarrow  = 0.30
	advanceRegular = 0.52
	advanceCapital = 0.66
	advanceWide    = 0.86
	advanceEastAsi = 1.00

	defaultLineHeightRatio = 1.2
)

const (
	narrowRunes = `iljfrtI.,;:'!|()[]{}"` + "`"
	wideRunes   = "mwMW@%&"
)

// FontTable is a headless measurer backed by a table of glyph advances. It
// stands in for a real rendering surface where none is available.
type FontTable struct {
	Size       float64 // em size in pixels
	LineHeight float64 // pixels per line

	overrides map[rune]float64
}

// NewFontTable creates a table for the given font size and line height. A
// zero line height defaults to 1.2 times the font size.
func NewFontTable(size, lineHeight float64) *FontTable {
	if lineHeight <= 0 {
		lineHeight = size * defaultLineHeightRatio
	}
	return &FontTable{Size: size, LineHeight: lineHeight}
}

// SetAdvance overrides the advance of r, as a fraction of the em size.
func (f *FontTable) SetAdvance(r rune, em float64) {
	if f.overrides == nil {
		f.overrides = make(map[rune]float64)
	}
	f.overrides[r] = em
}

// Advance returns the advance width of r in pixels.
func (f *FontTable) Advance(r rune) float64 {
	if em, ok := f.overrides[r]; ok {
		return em * f.Size
	}
	var em float64
	switch {
	case r == '\t':
		em = advanceSpace * 4
	case unicode.IsSpace(r):
		em = advanceSpace
	case runewidth.RuneWidth(r) == 2:
		em = advanceEastAsi
	case strings.ContainsRune(narrowRunes, r):
		em = advanceNarrow
	case strings.ContainsRune(wideRunes, r):
		em = advanceWide
	case unicode.IsUpper(r) || unicode.IsDigit(r):
		em = advanceCapital
	default:
		em = advanceRegular
	}
	return em * f.Size
}

// Lines returns how many lines text wraps to at width pixels.
func (f *FontTable) Lines(text string, width int) int {
	if text == "" {
		return 0
	}
	return len(wrapRunes([]rune(text), float64(width), f.Advance))
}

// Measure implements TextMeasurer. The result is the rendered height in
// pixels, rounded up.
func (f *FontTable) Measure(text string, width int) int {
	return int(math.Ceil(float64(f.Lines(text, width)) * f.LineHeight))
}

// FontSurface hands out font-table measurers configured from the metrics.
// Metrics are in pixels.
type FontSurface struct {
	// Configure, when set, is applied to every new table, e.g. to install
	// advance overrides for a specific face.
	Configure func(*FontTable)
}

// NewProxy implements Surface.
func (s FontSurface) NewProxy(m Metrics) (Proxy, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.FontSize <= 0 {
		return nil, fmt.Errorf("font size must be positive, got %.2f", m.FontSize)
	}
	t := NewFontTable(m.FontSize, m.LineHeight)
	if s.Configure != nil {
		s.Configure(t)
	}
	return nopProxy{t}, nil
}
