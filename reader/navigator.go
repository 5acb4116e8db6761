package reader

// Navigator tracks the current page of a paginated document. It does nothing
// beyond index bookkeeping.
type Navigator struct {
	current int
	count   int
}

// NewNavigator creates a navigator positioned on page 1, or in the empty
// state when count is zero.
func NewNavigator(count int) *Navigator {
	if count < 0 {
		count = 0
	}
	n := &Navigator{count: count}
	if count > 0 {
		n.current = 1
	}
	return n
}

// Current returns the current 1-based page index, or 0 when empty.
func (n *Navigator) Current() int { return n.current }

// Count returns the number of pages.
func (n *Navigator) Count() int { return n.count }

// Empty reports whether there are no pages to show.
func (n *Navigator) Empty() bool { return n.count == 0 }

// AtFirst reports whether the navigator is on the first page.
func (n *Navigator) AtFirst() bool { return n.count == 0 || n.current == 1 }

// AtLast reports whether the navigator is on the last page.
func (n *Navigator) AtLast() bool { return n.count == 0 || n.current == n.count }

// Next advances one page. It returns false, leaving the index untouched, when
// already on the last page.
func (n *Navigator) Next() bool {
	if n.AtLast() {
		return false
	}
	n.current++
	return true
}

// Prev steps back one page. It returns false, leaving the index untouched,
// when already on the first page.
func (n *Navigator) Prev() bool {
	if n.AtFirst() {
		return false
	}
	n.current--
	return true
}

// GoTo moves to page p clamped into [1, Count] and returns the new index.
func (n *Navigator) GoTo(p int) int {
	if n.count == 0 {
		return 0
	}
	n.current = clamp(p, 1, n.count)
	return n.current
}
