package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	First    key.Binding
	Last     key.Binding
	Select   key.Binding
	Generate key.Binding
	Copy     key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding

	// selection mode
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	WordNext  key.Binding
	WordPrev  key.Binding
	LineStart key.Binding
	LineEnd   key.Binding
	Cancel    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:     key.NewBinding(key.WithKeys("n", "right", "l", "pgdown", " ", "f"), key.WithHelp("n/→", "next page")),
		Prev:     key.NewBinding(key.WithKeys("p", "left", "h", "pgup", "b"), key.WithHelp("p/←", "previous page")),
		First:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g/home", "first page")),
		Last:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G/end", "last page")),
		Select:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "select text")),
		Generate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "generate clip")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy selection")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload document")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Left:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "left")),
		Right:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "right")),
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		WordNext:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "next word")),
		WordPrev:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "previous word")),
		LineStart: key.NewBinding(key.WithKeys("0", "ctrl+a"), key.WithHelp("0", "line start")),
		LineEnd:   key.NewBinding(key.WithKeys("$", "ctrl+e"), key.WithHelp("$", "line end")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
	}
}
