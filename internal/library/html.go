package library

import (
	"context"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func extractHTMLFile(_ context.Context, path string) (extracted, error) {
	f, err := os.Open(path)
	if err != nil {
		return extracted{}, err
	}
	defer f.Close()
	return extractHTML(f)
}

func extractHTML(r io.Reader) (extracted, error) {
	root, err := html.Parse(r)
	if err != nil {
		return extracted{}, err
	}

	var w plainWriter
	body := findElement(root, atom.Body)
	if body == nil {
		body = root
	}
	w.walk(body)

	var title string
	if t := findElement(root, atom.Title); t != nil {
		var tw plainWriter
		tw.walk(t)
		title = tw.String()
	}
	return extracted{Title: title, Text: w.String()}, nil
}

// Elements whose content is not part of the reading text.
var skipElements = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
}

// Elements that start and end a paragraph.
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Pre: true, atom.Ul: true, atom.Ol: true,
	atom.Table: true, atom.Figure: true, atom.Hr: true, atom.Aside: true,
	atom.Header: true, atom.Footer: true, atom.Main: true, atom.Nav: true,
}

// Elements that end a line.
var lineElements = map[atom.Atom]bool{
	atom.Br: true, atom.Li: true, atom.Tr: true, atom.Dt: true, atom.Dd: true,
}

// plainWriter accumulates text with HTML whitespace rules: runs of
// whitespace collapse to one space and no space starts a line.
type plainWriter struct {
	b     strings.Builder
	last  byte
	space bool
	pre   int
}

func (w *plainWriter) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if w.pre > 0 {
			w.raw(n.Data)
		} else {
			w.text(n.Data)
		}
		return
	case html.ElementNode:
		if skipElements[n.DataAtom] {
			return
		}
	}

	a := n.DataAtom
	if n.Type == html.ElementNode {
		switch {
		case blockElements[a]:
			w.paragraph()
		case a == atom.Br:
			w.lineBreak()
		}
		if a == atom.Pre {
			w.pre++
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}

	if n.Type == html.ElementNode {
		if a == atom.Pre {
			w.pre--
		}
		switch {
		case blockElements[a]:
			w.paragraph()
		case lineElements[a] && a != atom.Br:
			w.lineBreak()
		}
	}
}

func (w *plainWriter) atLineStart() bool {
	return w.b.Len() == 0 || w.last == '\n'
}

func (w *plainWriter) text(s string) {
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' {
			w.space = true
			continue
		}
		if w.space && !w.atLineStart() {
			w.b.WriteByte(' ')
		}
		w.space = false
		w.b.WriteRune(r)
		w.last = 0
	}
}

func (w *plainWriter) raw(s string) {
	if s == "" {
		return
	}
	w.space = false
	w.b.WriteString(s)
	w.last = s[len(s)-1]
}

func (w *plainWriter) lineBreak() {
	w.space = false
	w.b.WriteByte('\n')
	w.last = '\n'
}

func (w *plainWriter) paragraph() {
	w.space = false
	if w.b.Len() == 0 {
		return
	}
	// extra newlines collapse during normalization
	w.b.WriteString("\n\n")
	w.last = '\n'
}

// String returns the text written so far, trimmed.
func (w *plainWriter) String() string { return strings.TrimSpace(w.b.String()) }

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
