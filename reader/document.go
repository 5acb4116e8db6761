package reader

import (
	"strings"
	"unicode/utf8"
)

// Document is the full text body being read in a session. The text is
// normalized on construction and never changes afterwards.
type Document struct {
	ID     string
	Title  string
	Source string // path or URL the text was loaded from, if any

	text  string
	runes []rune
}

// NewDocument creates a document, normalizing line endings, collapsing runs of
// blank lines into a single paragraph break and trimming the body.
func NewDocument(id, title, text string) *Document {
	norm := Normalize(text)
	return &Document{
		ID:    id,
		Title: title,
		text:  norm,
		runes: []rune(norm),
	}
}

// Text returns the normalized text.
func (d *Document) Text() string { return d.text }

// Length returns the length of the normalized text in runes.
func (d *Document) Length() int { return len(d.runes) }

// Empty reports whether the document has no text.
func (d *Document) Empty() bool { return len(d.runes) == 0 }

// Slice returns the text in the rune range [start, end), clamped to the
// document bounds.
func (d *Document) Slice(start, end int) string {
	start = clamp(start, 0, len(d.runes))
	end = clamp(end, start, len(d.runes))
	return string(d.runes[start:end])
}

// Normalize unifies line endings, collapses three or more consecutive
// newlines into a paragraph break and trims surrounding whitespace.
func Normalize(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var b strings.Builder
	b.Grow(len(s))
	newlines := 0
	for _, r := range s {
		if r == '\n' {
			newlines++
			if newlines <= 2 {
				b.WriteRune(r)
			}
			continue
		}
		newlines = 0
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
