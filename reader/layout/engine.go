// Package layout splits document text into pages that fit a viewport.
//
// The engine asks a TextMeasurer how tall a candidate slice renders, finds
// the longest slice that fits by binary search, then backs off to the nearest
// paragraph, sentence or word break. Measurement is pluggable: the terminal
// UI uses cell widths, headless callers can use a font-metrics table.
package layout

import (
	"context"
	"fmt"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/sampler/reader"
)

// initialProbe is the first chunk length tried when growing the upper bound
// of the fit search.
const initialProbe = 64

// breakFunc picks where a page is cut; tests swap it to force a stall.
var breakFunc = findBreak

// Engine paginates text for one viewport.
type Engine struct {
	surface Surface
	metrics Metrics

	// MinFill is the fraction of the fit length a paragraph or sentence
	// break must keep on the page to be preferred over a later word break.
	// Zero means natural breaks are always preferred.
	MinFill float64
}

// NewEngine creates an engine measuring with proxies from surface.
func NewEngine(surface Surface, m Metrics) *Engine {
	return &Engine{surface: surface, metrics: m}
}

// Metrics returns the viewport metrics.
func (e *Engine) Metrics() Metrics { return e.metrics }

// Paginate implements reader.Paginator.
//
// The text is normalized first. An empty text yields no pages and no error.
// The context is checked between pages; on cancellation the pages built so
// far are returned with the context error. If the cursor ever fails to
// advance, pagination stops with reader.ErrPaginationStalled and the pages
// built so far.
func (e *Engine) Paginate(ctx context.Context, text string) (pages []reader.Page, err error) {
	if err := e.metrics.Validate(); err != nil {
		return nil, err
	}
	runes := []rune(reader.Normalize(text))
	if len(runes) == 0 {
		return nil, nil
	}

	proxy, err := e.surface.NewProxy(e.metrics)
	if err != nil {
		return nil, &PaginationError{
			Op:  "measure",
			Err: fmt.Errorf("%w: %w", reader.ErrMeasurementUnavailable, err),
		}
	}
	defer func() {
		if cerr := proxy.Close(); cerr != nil {
			log.Warn("closing measurement proxy", "error", cerr)
		}
	}()

	cursor := 0
	for cursor < len(runes) {
		if err := ctx.Err(); err != nil {
			return pages, err
		}

		fit := e.fitLength(proxy, runes, cursor)
		floor := cursor + int(e.MinFill*float64(fit))
		cut, kind := breakFunc(runes, cursor, cursor+fit, floor)

		start, end := cursor, cut
		for start < end && unicode.IsSpace(runes[start]) {
			start++
		}
		for end > start && unicode.IsSpace(runes[end-1]) {
			end--
		}
		if end > start {
			pages = append(pages, reader.Page{
				Index: len(pages) + 1,
				Start: start,
				End:   end,
				Text:  string(runes[start:end]),
			})
		}

		next := cut
		for next < len(runes) && unicode.IsSpace(runes[next]) {
			next++
		}
		if next <= cursor {
			log.Warn("pagination stalled", "offset", cursor, "pages", len(pages))
			return pages, &PaginationError{Op: "paginate", Offset: cursor, Err: reader.ErrPaginationStalled}
		}
		log.Debug("page cut", "page", len(pages), "fit", fit, "break", kind, "next", next)
		cursor = next
	}

	log.Debug("paginated", "runes", len(runes), "pages", len(pages))
	return pages, nil
}

// fitLength returns the largest chunk length, at least 1, starting at cursor
// that renders within the viewport height. The upper bound is grown by
// doubling before the binary search so that probes stay close to a page in
// size instead of spanning the rest of the document.
func (e *Engine) fitLength(m TextMeasurer, runes []rune, cursor int) int {
	remaining := len(runes) - cursor
	fits := func(n int) bool {
		return m.Measure(string(runes[cursor:cursor+n]), e.metrics.Width) <= e.metrics.Height
	}

	low, high := 1, remaining
	for probe := initialProbe; probe < remaining; probe *= 2 {
		if !fits(probe) {
			high = probe - 1
			break
		}
		low = probe
	}
	if high == remaining && low < remaining && fits(remaining) {
		return remaining
	}

	best := 1
	if low > 1 {
		best = low
	}
	for low <= high {
		mid := low + (high-low)/2
		if fits(mid) {
			best = mid
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	return best
}
