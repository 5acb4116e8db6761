package reader

import (
	"context"
	"time"
)

// Paginator splits normalized document text into viewport-sized pages.
type Paginator interface {
	// Paginate returns the pages in offset order. On a fault it may return
	// the pages produced before the fault alongside the error.
	Paginate(ctx context.Context, text string) ([]Page, error)
}

// Generator turns a committed selection into an audio clip.
type Generator interface {
	// Generate synthesizes the request text.
	Generate(ctx context.Context, req Request) (Clip, error)
}

// Request is the payload handed to a generator after a successful commit.
type Request struct {
	DocumentID string
	Title      string
	Text       string // the selected text
	Start      int    // rune offset of the selection in the document
	End        int
	Voice      string // optional engine-specific voice
}

// Clip describes generated audio.
type Clip struct {
	Path     string
	Format   string // file extension without the dot, e.g. "wav"
	Bytes    int64
	Duration time.Duration
	Cached   bool
}
