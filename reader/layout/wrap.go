package layout

import (
	"unicode"

	runewidth "github.com/mattn/go-runewidth"
)

// Wrap word-wraps text at width terminal cells and returns the rows. The rows
// are exact substrings of text: concatenated they give back text unchanged.
// Whitespace at a wrap point stays at the end of its row, a newline ends its
// row, and a word wider than the row is split by cells.
func Wrap(text string, width int) []string {
	runes := []rune(text)
	rows := wrapRunes(runes, float64(width), cellAdvance)
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = string(runes[r[0]:r[1]])
	}
	return out
}

// cellAdvance returns the terminal width of r. Tabs count as one cell.
func cellAdvance(r rune) float64 {
	if r == '\t' {
		return 1
	}
	return float64(runewidth.RuneWidth(r))
}

// wrapRunes is the greedy word-wrap shared by all measurers. It returns the
// [start, end) rune span of each row.
func wrapRunes(runes []rune, width float64, advance func(rune) float64) [][2]int {
	var (
		rows      [][2]int
		rowStart  int
		lineWidth float64
		lastBreak = -1 // offset just after the latest whitespace in the row
	)

	for i, r := range runes {
		if r == '\n' {
			rows = append(rows, [2]int{rowStart, i + 1})
			rowStart, lineWidth, lastBreak = i+1, 0, -1
			continue
		}

		adv := advance(r)
		if unicode.IsSpace(r) {
			// trailing whitespace hangs past the edge
			lineWidth += adv
			lastBreak = i + 1
			continue
		}

		if lineWidth > 0 && lineWidth+adv > width {
			if lastBreak > rowStart {
				rows = append(rows, [2]int{rowStart, lastBreak})
				rowStart = lastBreak
				lineWidth = 0
				for _, c := range runes[rowStart:i] {
					lineWidth += advance(c)
				}
				if lineWidth+adv > width && lineWidth > 0 {
					rows = append(rows, [2]int{rowStart, i})
					rowStart, lineWidth = i, 0
				}
			} else {
				rows = append(rows, [2]int{rowStart, i})
				rowStart, lineWidth = i, 0
			}
			lastBreak = -1
		}
		lineWidth += adv
	}

	if rowStart < len(runes) {
		rows = append(rows, [2]int{rowStart, len(runes)})
	}
	return rows
}
