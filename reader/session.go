package reader

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
)

// Ticket identifies one layout run of a session. Results carrying an older
// ticket than the session's current one are discarded.
type Ticket uint64

// Session is the state of one open document: its pages, the navigator and the
// used-range tracker. A session is owned by exactly one document; opening
// another document means creating a new session.
type Session struct {
	doc     *Document
	pages   []Page
	nav     *Navigator
	tracker *Tracker

	ticket  Ticket
	laidOut bool
	closed  bool

	index   *OffsetIndex
	pending Selection
}

// NewSession creates a session for doc. Pages are empty until Layout or
// Apply succeeds.
func NewSession(doc *Document, maxLength int) *Session {
	return &Session{
		doc:     doc,
		nav:     NewNavigator(0),
		tracker: NewTracker(maxLength),
	}
}

// Document returns the session's document.
func (s *Session) Document() *Document { return s.doc }

// Pages returns the current pages.
func (s *Session) Pages() []Page { return s.pages }

// Navigator returns the page navigator.
func (s *Session) Navigator() *Navigator { return s.nav }

// Tracker returns the used-range tracker.
func (s *Session) Tracker() *Tracker { return s.tracker }

// Ticket returns the ticket of the latest layout run.
func (s *Session) Ticket() Ticket { return s.ticket }

// LaidOut reports whether at least one layout has been applied.
func (s *Session) LaidOut() bool { return s.laidOut }

// Closed reports whether the session has ended.
func (s *Session) Closed() bool { return s.closed }

// Begin starts a new layout run and returns its ticket. Any run started
// earlier becomes stale.
func (s *Session) Begin() Ticket {
	s.ticket++
	return s.ticket
}

// Apply installs the result of the layout run identified by t.
//
// Stale results are dropped with ErrStaleLayout. A stalled run keeps the
// pages produced so far and still reports the fault; any other error leaves
// the previous layout in place.
func (s *Session) Apply(t Ticket, pages []Page, err error) error {
	if s.closed {
		return ErrSessionClosed
	}
	if t != s.ticket {
		log.Debug("discarding stale layout", "ticket", t, "current", s.ticket)
		return ErrStaleLayout
	}
	if err != nil && !errors.Is(err, ErrPaginationStalled) {
		return err
	}

	anchor := -1
	if p, ok := s.CurrentPage(); ok && s.laidOut {
		anchor = p.Start
	}

	s.pages = pages
	s.nav = NewNavigator(len(pages))
	if anchor >= 0 && len(pages) > 0 {
		s.nav.GoTo(pageAt(pages, anchor))
	}
	s.laidOut = true
	s.index = nil
	s.pending = Selection{}

	log.Debug("layout applied", "doc", s.doc.ID, "pages", len(pages), "page", s.nav.Current())
	return err
}

// Layout paginates the document synchronously and applies the result.
func (s *Session) Layout(ctx context.Context, p Paginator) error {
	if s.closed {
		return ErrSessionClosed
	}
	t := s.Begin()
	pages, err := p.Paginate(ctx, s.doc.Text())
	return s.Apply(t, pages, err)
}

// CurrentPage returns the page under the navigator.
func (s *Session) CurrentPage() (Page, bool) {
	i := s.nav.Current()
	if i < 1 || i > len(s.pages) {
		return Page{}, false
	}
	return s.pages[i-1], true
}

// Position returns the current page index and the page count.
func (s *Session) Position() (current, count int) {
	return s.nav.Current(), s.nav.Count()
}

// Next moves to the next page.
func (s *Session) Next() bool { return s.turn(s.nav.Next()) }

// Prev moves to the previous page.
func (s *Session) Prev() bool { return s.turn(s.nav.Prev()) }

// GoTo moves to page n, clamped to the valid range.
func (s *Session) GoTo(n int) int {
	before := s.nav.Current()
	after := s.nav.GoTo(n)
	s.turn(before != after)
	return after
}

func (s *Session) turn(moved bool) bool {
	if moved {
		s.index = nil
		s.pending = Selection{}
	}
	return moved
}

// Render records the fragments the current page was rendered as and returns
// the offset index built from them. The index stays valid until the page
// changes or a new layout is applied.
func (s *Session) Render(fragments []string) *OffsetIndex {
	base := 0
	if p, ok := s.CurrentPage(); ok {
		base = p.Start
	}
	s.index = NewOffsetIndex(base, fragments)
	return s.index
}

// Index returns the offset index of the current page, building a single
// fragment index from the page text when the page was never rendered.
func (s *Session) Index() *OffsetIndex {
	if s.index == nil {
		p, _ := s.CurrentPage()
		var frags []string
		if p.Text != "" {
			frags = []string{p.Text}
		}
		s.index = NewOffsetIndex(p.Start, frags)
	}
	return s.index
}

// Select resolves a raw selection on the current page and keeps it as the
// pending selection.
func (s *Session) Select(anchor, focus Point) Selection {
	s.pending = s.tracker.Resolve(s.Index(), anchor, focus, s.doc)
	return s.pending
}

// SelectRange evaluates a selection given directly in document offsets. The
// offsets are clamped to the document.
func (s *Session) SelectRange(start, end int) Selection {
	if end < start {
		start, end = end, start
	}
	start = clamp(start, 0, s.doc.Length())
	end = clamp(end, start, s.doc.Length())
	s.pending = s.tracker.Evaluate(start, end, s.doc.Slice(start, end))
	return s.pending
}

// Pending returns the current candidate selection.
func (s *Session) Pending() Selection { return s.pending }

// ClearSelection drops the pending selection.
func (s *Session) ClearSelection() { s.pending = Selection{} }

// Commit marks the selection as used and returns the generation request for
// it. Invalid selections are refused with their verdict's error.
func (s *Session) Commit(sel Selection) (Request, error) {
	if s.closed {
		return Request{}, ErrSessionClosed
	}
	r, err := s.tracker.Commit(sel)
	if err != nil {
		return Request{}, err
	}
	if s.pending.Start == sel.Start && s.pending.End == sel.End {
		s.pending = Selection{}
	}
	log.Info("selection committed", "doc", s.doc.ID, "start", r.Start, "end", r.End)
	return Request{
		DocumentID: s.doc.ID,
		Title:      s.doc.Title,
		Text:       sel.Text,
		Start:      r.Start,
		End:        r.End,
	}, nil
}

// Close ends the session, discarding pages, used ranges and any pending
// selection. Layout results arriving afterwards are rejected.
func (s *Session) Close() {
	s.closed = true
	s.pages = nil
	s.nav = NewNavigator(0)
	s.tracker.Reset()
	s.index = nil
	s.pending = Selection{}
	s.ticket++
}
