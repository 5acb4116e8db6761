package library

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/simp-lee/epub"
	"golang.org/x/sync/errgroup"
)

func extractEPub(ctx context.Context, path string) (extracted, error) {
	book, err := epub.Open(path)
	if err != nil {
		if errors.Is(err, epub.ErrDRMProtected) {
			return extracted{}, fmt.Errorf("%w: %w", ErrDRMProtected, err)
		}
		return extracted{}, err
	}
	defer book.Close()

	chapters := book.ContentChapters()
	texts := make([]string, len(chapters))

	// Chapters are independent archive entries; extract them in parallel and
	// join in spine order.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, ch := range chapters {
		if !ch.Linear {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := ch.RawContent()
			if err != nil {
				log.Warn("skipping unreadable chapter", "href", ch.Href, "err", err)
				return nil
			}
			out, err := extractHTML(bytes.NewReader(raw))
			if err != nil {
				log.Warn("skipping malformed chapter", "href", ch.Href, "err", err)
				return nil
			}
			texts[i] = out.Text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return extracted{}, err
	}

	var parts []string
	for _, t := range texts {
		if t != "" {
			parts = append(parts, t)
		}
	}

	var title string
	if titles := book.Metadata().Titles; len(titles) > 0 {
		title = titles[0]
	}
	return extracted{Title: title, Text: strings.Join(parts, "\n\n")}, nil
}
