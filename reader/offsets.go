package reader

import (
	"sort"
	"unicode/utf8"
)

// Point is a raw selection endpoint: a rune offset inside one of the rendered
// fragments of the current page.
type Point struct {
	Fragment int
	Offset   int
}

// OffsetIndex maps points inside rendered fragments to document offsets. It is
// a prefix table of fragment lengths built once per page render, so lookups
// don't walk the fragments again on every selection change.
type OffsetIndex struct {
	base   int
	prefix []int // prefix[i] is the offset of fragment i relative to base
}

// NewOffsetIndex builds an index for fragments rendered from the document
// starting at rune offset base.
func NewOffsetIndex(base int, fragments []string) *OffsetIndex {
	prefix := make([]int, len(fragments)+1)
	for i, f := range fragments {
		prefix[i+1] = prefix[i] + utf8.RuneCountInString(f)
	}
	return &OffsetIndex{base: base, prefix: prefix}
}

// Fragments returns the number of indexed fragments.
func (x *OffsetIndex) Fragments() int { return len(x.prefix) - 1 }

// Base returns the document offset of the first fragment.
func (x *OffsetIndex) Base() int { return x.base }

// End returns the document offset just past the last fragment.
func (x *OffsetIndex) End() int { return x.base + x.prefix[len(x.prefix)-1] }

// FragmentLen returns the rune length of fragment i.
func (x *OffsetIndex) FragmentLen(i int) int {
	if i < 0 || i >= x.Fragments() {
		return 0
	}
	return x.prefix[i+1] - x.prefix[i]
}

// Offset converts a point into a document offset. Points outside the indexed
// fragments are clamped to the nearest edge.
func (x *OffsetIndex) Offset(p Point) int {
	n := x.Fragments()
	switch {
	case n == 0 || p.Fragment < 0:
		return x.base
	case p.Fragment >= n:
		return x.End()
	}
	off := clamp(p.Offset, 0, x.FragmentLen(p.Fragment))
	return x.base + x.prefix[p.Fragment] + off
}

// Locate converts a document offset back into a point. An offset on a
// fragment boundary resolves to the start of the following fragment, except
// at the very end.
func (x *OffsetIndex) Locate(offset int) Point {
	n := x.Fragments()
	if n == 0 {
		return Point{}
	}
	rel := clamp(offset-x.base, 0, x.prefix[n])
	// first fragment whose end is past rel
	i := sort.Search(n, func(i int) bool { return x.prefix[i+1] > rel })
	if i == n {
		return Point{Fragment: n - 1, Offset: x.FragmentLen(n - 1)}
	}
	return Point{Fragment: i, Offset: rel - x.prefix[i]}
}
