package reader

// Page is a contiguous slice of a document that fits the viewport.
type Page struct {
	Index int    // 1-based ordinal
	Start int    // rune offset of the first character, inclusive
	End   int    // rune offset after the last character, exclusive
	Text  string // the trimmed slice
}

// Len returns the page length in runes.
func (p Page) Len() int { return p.End - p.Start }

// Contains reports whether the rune offset falls inside the page.
func (p Page) Contains(offset int) bool {
	return offset >= p.Start && offset < p.End
}

// pageAt returns the 1-based index of the page containing offset, or of the
// first page starting after it when the offset falls in the whitespace between
// two pages.
func pageAt(pages []Page, offset int) int {
	for _, p := range pages {
		if offset < p.End {
			return p.Index
		}
	}
	if len(pages) == 0 {
		return 0
	}
	return pages[len(pages)-1].Index
}
