package ui

import (
	"testing"

	"github.com/dgnsrekt/sampler/reader"
)

func TestCaret(t *testing.T) {
	// rows as Wrap produces them: trailing whitespace and newlines stay on
	// the row they end
	rows := []string{"Hello world\n", "\n", "again and ", "more"}
	text := "Hello world\n\nagain and more"
	base := 100
	c := newCaret(reader.NewOffsetIndex(base, rows), text)

	tests := []struct {
		name string
		move func(int) int
		from int
		want int
	}{
		{"left at start", c.left, 100, 100},
		{"left", c.left, 105, 104},
		{"right", c.right, 100, 101},
		{"right at end", c.right, 126, 126},
		{"down onto blank row", c.down, 103, 112},
		{"down from blank row", c.down, 112, 113},
		{"down keeps column", c.down, 115, 125},
		{"down clamps to row", c.down, 120, 126},
		{"up", c.up, 113, 112},
		{"up clamps to row", c.up, 122, 112},
		{"up keeps column", c.up, 124, 114},
		{"up on first row", c.up, 104, 104},
		{"down on last row", c.down, 125, 125},
		{"line start", c.lineStart, 118, 113},
		{"line end skips newline", c.lineEnd, 103, 110},
		{"line end keeps space", c.lineEnd, 114, 122},
		{"line end of last row", c.lineEnd, 124, 126},
		{"word next", c.wordNext, 100, 106},
		{"word next over blank line", c.wordNext, 106, 113},
		{"word next at end", c.wordNext, 125, 126},
		{"word prev", c.wordPrev, 106, 100},
		{"word prev from inside word", c.wordPrev, 116, 113},
		{"word prev at start", c.wordPrev, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.move(tt.from); got != tt.want {
				t.Errorf("from %d: got %d, want %d", tt.from, got, tt.want)
			}
		})
	}
}

func TestSpan(t *testing.T) {
	tests := []struct {
		anchor, focus int
		start, end    int
	}{
		{5, 5, 5, 6},
		{5, 9, 5, 10},
		{9, 5, 5, 10},
	}
	for _, tt := range tests {
		start, end := span(tt.anchor, tt.focus)
		if start != tt.start || end != tt.end {
			t.Errorf("span(%d, %d) = [%d, %d), want [%d, %d)", tt.anchor, tt.focus, start, end, tt.start, tt.end)
		}
	}
}

func TestCaretEmpty(t *testing.T) {
	c := newCaret(reader.NewOffsetIndex(0, nil), "")
	if !c.empty() {
		t.Fatal("expected an empty caret")
	}
	if got := c.clamp(10); got != 0 {
		t.Errorf("clamp = %d", got)
	}
}
