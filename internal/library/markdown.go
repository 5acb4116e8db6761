package library

import (
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func extractMarkdown(_ context.Context, path string) (extracted, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return extracted{}, err
	}
	src = bytes.TrimPrefix(src, utf8BOM)
	title, body := markdownText(src)
	return extracted{Title: title, Text: body}, nil
}

// markdownText renders the Markdown source as plain text with blocks
// separated by blank lines, and returns the first level-1 heading as title.
// Markup and raw HTML are dropped.
func markdownText(src []byte) (title, body string) {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var b strings.Builder
	block := func() {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n := n.(type) {
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock, *ast.FencedCodeBlock:
			if entering {
				block()
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					b.Write(seg.Value(src))
				}
			}
			return ast.WalkSkipChildren, nil

		case *ast.Heading:
			if entering {
				block()
				if title == "" && n.Level == 1 {
					title = headingText(n, src)
				}
			}

		case *ast.Paragraph, *ast.List, *ast.Blockquote:
			if entering {
				block()
			}

		case *ast.TextBlock:
			if !entering {
				b.WriteByte('\n')
			}

		case *ast.Text:
			if entering {
				b.Write(n.Segment.Value(src))
				switch {
				case n.HardLineBreak():
					b.WriteByte('\n')
				case n.SoftLineBreak():
					b.WriteByte(' ')
				}
			}

		case *ast.String:
			if entering {
				b.Write(n.Value)
			}

		case *ast.AutoLink:
			if entering {
				b.Write(n.Label(src))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return title, b.String()
}

func headingText(h *ast.Heading, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
