package library

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	pdflib "github.com/ledongthuc/pdf"
)

func extractPDF(ctx context.Context, path string) (extracted, error) {
	f, r, err := pdflib.Open(path)
	if err != nil {
		return extracted{}, err
	}
	defer f.Close()

	var parts []string
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return extracted{}, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Debug("skipping pdf page", "page", i, "err", err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}

	var title string
	if info := r.Trailer().Key("Info"); !info.IsNull() {
		title = info.Key("Title").Text()
	}
	return extracted{Title: title, Text: strings.Join(parts, "\n\n")}, nil
}
