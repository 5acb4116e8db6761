package layout

import (
	"strings"
	"unicode"
)

const (
	sentenceTerminators = ".!?…"
	sentenceClosers     = `"')]}’”»`
)

// breakKind ranks natural breaks; lower values are preferred.
type breakKind int

const (
	breakParagraph breakKind = iota
	breakSentence
	breakWord
	breakNone
)

func (k breakKind) String() string {
	switch k {
	case breakParagraph:
		return "paragraph"
	case breakSentence:
		return "sentence"
	case breakWord:
		return "word"
	default:
		return "forced"
	}
}

// findBreak scans backward from fit for the nearest natural break after start
// and returns the cut position. Paragraph breaks win over sentence ends, which
// win over plain spaces. floor limits how close to start a paragraph or
// sentence break may be; word breaks are searched all the way back. When no
// break exists the raw fit boundary is returned.
func findBreak(runes []rune, start, fit, floor int) (int, breakKind) {
	if fit >= len(runes) {
		return len(runes), breakNone
	}
	lo := max(start, floor)

	for c := fit; c > lo; c-- {
		if isParagraphBreak(runes, c) {
			return c, breakParagraph
		}
	}
	for c := fit; c > lo; c-- {
		if isSentenceBreak(runes, start, c) {
			return c, breakSentence
		}
	}
	for c := fit; c > start; c-- {
		if unicode.IsSpace(runes[c]) {
			return c, breakWord
		}
	}
	return fit, breakNone
}

// isParagraphBreak reports whether a blank line starts at c.
func isParagraphBreak(runes []rune, c int) bool {
	return c+1 < len(runes) && runes[c] == '\n' && runes[c+1] == '\n'
}

// isSentenceBreak reports whether a sentence ends right before c and
// whitespace follows.
func isSentenceBreak(runes []rune, start, c int) bool {
	if !unicode.IsSpace(runes[c]) {
		return false
	}
	i := c - 1
	for i > start && strings.ContainsRune(sentenceClosers, runes[i]) {
		i--
	}
	return i >= start && strings.ContainsRune(sentenceTerminators, runes[i])
}
