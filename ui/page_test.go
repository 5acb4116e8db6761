package ui

import (
	"strings"
	"testing"

	"github.com/dgnsrekt/sampler/reader"
)

func TestPageViewRender(t *testing.T) {
	v := pageView{
		rows:   []string{"Hello world\n", "again"},
		base:   10,
		width:  20,
		margin: 2,
		caret:  -1,
	}
	if got := plain(v.render()); got != "  Hello world\n  again" {
		t.Errorf("render = %q", got)
	}

	// marks change styling only, never the text
	v.used = []reader.UsedRange{{Start: 10, End: 15}}
	v.selection = reader.Selection{Text: "world", Start: 16, End: 21, Verdict: reader.VerdictOK}
	v.caret = 21
	got := plain(v.render())
	if got != "  Hello world \n  again" {
		t.Errorf("render with marks = %q", got)
	}
}

func TestPageViewMarks(t *testing.T) {
	v := pageView{
		base:      0,
		caret:     7,
		used:      []reader.UsedRange{{Start: 0, End: 4}},
		selection: reader.Selection{Start: 3, End: 8, Verdict: reader.VerdictTooLong},
	}

	tests := []struct {
		offset int
		want   mark
	}{
		{0, markUsed},
		{3, markInvalid},
		{7, markCaret},
		{8, markNone},
	}
	for _, tt := range tests {
		if got := v.markAt(tt.offset); got != tt.want {
			t.Errorf("markAt(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}

	v.selection.Verdict = reader.VerdictOK
	if got := v.markAt(5); got != markSelected {
		t.Errorf("markAt(5) = %v, want selected", got)
	}
}

func TestPageViewTruncates(t *testing.T) {
	v := pageView{rows: []string{strings.Repeat("x", 30)}, width: 10, caret: -1}
	if got := plain(v.render()); got != strings.Repeat("x", 11) {
		t.Errorf("render = %q", got)
	}
}

func TestPageViewOffsetAt(t *testing.T) {
	v := pageView{
		rows:   []string{"Hello world\n", "日本語 text"},
		base:   10,
		margin: 2,
	}

	tests := []struct {
		name   string
		x, y   int
		want   int
		wantOK bool
	}{
		{"first rune", 2, 0, 10, true},
		{"inside margin", 0, 0, 10, true},
		{"middle", 6, 0, 14, true},
		{"past row end", 50, 0, 21, true},
		{"second row", 2, 1, 22, true},
		{"wide rune second cell", 3, 1, 22, true},
		{"after wide rune", 4, 1, 23, true},
		{"past row end without newline", 80, 1, 29, true},
		{"below rows", 2, 2, 0, false},
		{"above rows", 2, -1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := v.offsetAt(tt.x, tt.y)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("offsetAt(%d, %d) = %d, %v; want %d, %v", tt.x, tt.y, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
