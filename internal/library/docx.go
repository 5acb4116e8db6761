package library

import (
	"context"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

func extractDOCX(_ context.Context, path string) (extracted, error) {
	f, err := os.Open(path)
	if err != nil {
		return extracted{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return extracted{}, err
	}
	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return extracted{}, err
	}

	var paras []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if t := paragraphText(para); t != "" {
			paras = append(paras, t)
		}
	}
	return extracted{Text: strings.Join(paras, "\n\n")}, nil
}

func paragraphText(para *docx.Paragraph) string {
	var b strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				b.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(b.String())
}
