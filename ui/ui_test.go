package ui

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dgnsrekt/sampler/reader"
)

var sgr = regexp.MustCompile("\x1b\\[[0-9;]*m")

func plain(s string) string { return sgr.ReplaceAllString(s, "") }

type fakeGenerator struct {
	reqs []reader.Request
	err  error
}

func (g *fakeGenerator) Generate(_ context.Context, req reader.Request) (reader.Clip, error) {
	g.reqs = append(g.reqs, req)
	if g.err != nil {
		return reader.Clip{}, g.err
	}
	return reader.Clip{Path: "/clips/" + req.DocumentID + ".wav", Format: "wav", Bytes: 2048}, nil
}

var fox = strings.Repeat("The quick brown fox jumps over the lazy dog. ", 30)

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

// lastMsg runs the final command of a batch, which is where the model puts
// its background work, and returns its message.
func lastMsg(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		return lastMsg(t, batch[len(batch)-1])
	}
	return msg
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, keyPress(k))
	}
	return m
}

// openModel returns a model sized w×h showing text, laid out.
func openModel(t *testing.T, cfg Config, gen reader.Generator, text string, w, h int) model {
	t.Helper()
	cfg.NoWatch = true
	m := newModel(cfg, nil, gen)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: w, Height: h})
	m, cmd := update(t, m, documentLoadedMsg{doc: reader.NewDocument("doc1", "Fox", text)})
	m, _ = update(t, m, lastMsg(t, cmd))
	if !m.session.LaidOut() {
		t.Fatal("expected the document to be laid out")
	}
	return m
}

func TestInitLoadsDocument(t *testing.T) {
	var gotPath string
	load := func(_ context.Context, path string) (*reader.Document, error) {
		gotPath = path
		return reader.NewDocument("id", "Story", "Once upon a time."), nil
	}

	m := newModel(Config{Path: "/books/story.txt", NoWatch: true}, load, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})

	msg := lastMsg(t, m.Init())
	if gotPath != "/books/story.txt" {
		t.Errorf("loader got %q", gotPath)
	}
	m, cmd := update(t, m, msg)
	m, _ = update(t, m, lastMsg(t, cmd))

	cur, count := m.session.Position()
	if cur != 1 || count != 1 {
		t.Errorf("position = %d/%d, want 1/1", cur, count)
	}
	view := plain(m.View())
	for _, want := range []string{"Once upon a time.", "Story", "1/1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestLoadFailure(t *testing.T) {
	load := func(context.Context, string) (*reader.Document, error) {
		return nil, errors.New("unsupported document format")
	}
	m := newModel(Config{Path: "x.odt", NoWatch: true}, load, nil)
	m, _ = update(t, m, lastMsg(t, m.Init()))

	if m.fatalErr == nil {
		t.Fatal("expected a fatal error")
	}
	if view := plain(m.View()); !strings.Contains(view, "ERROR") || !strings.Contains(view, "unsupported") {
		t.Errorf("unexpected error view:\n%s", view)
	}

	_, cmd := update(t, m, keyPress("x"))
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("any key should quit after a fatal error")
	}
}

func TestPageTurns(t *testing.T) {
	m := openModel(t, Config{}, nil, fox, 40, 5)

	_, count := m.session.Position()
	if count < 3 {
		t.Fatalf("expected several pages, got %d", count)
	}

	tests := []struct {
		key  string
		want int
	}{
		{"n", 2},
		{"n", 3},
		{"p", 2},
		{"G", count},
		{"n", count},
		{"g", 1},
		{"p", 1},
	}
	for _, tt := range tests {
		m = press(t, m, tt.key)
		if cur, _ := m.session.Position(); cur != tt.want {
			t.Fatalf("after %q: page %d, want %d", tt.key, cur, tt.want)
		}
		page, _ := m.session.CurrentPage()
		if got := strings.Join(m.rows, ""); got != page.Text {
			t.Fatalf("after %q: rendered rows do not match the page text", tt.key)
		}
	}
}

func TestEmptyDocument(t *testing.T) {
	m := openModel(t, Config{}, nil, "  \n\n ", 40, 5)

	if _, count := m.session.Position(); count != 0 {
		t.Fatalf("expected no pages, got %d", count)
	}
	m = press(t, m, "n", "v")
	if !strings.Contains(plain(m.View()), "no text") {
		t.Errorf("unexpected view:\n%s", plain(m.View()))
	}
	if m.mode == modeSelect {
		t.Error("selection should not start on an empty document")
	}
}

func TestSelectAndGenerate(t *testing.T) {
	gen := &fakeGenerator{}
	m := openModel(t, Config{MaxLength: 20, Voice: "amy"}, gen, fox, 40, 5)

	m = press(t, m, "v", "l", "l")
	sel := m.session.Pending()
	if sel.Text != "The" || sel.Start != 0 || sel.End != 3 || !sel.Valid() {
		t.Fatalf("unexpected selection %+v", sel)
	}
	if note, _ := m.statusNote(); !strings.Contains(note, "3/20") {
		t.Errorf("status note = %q", note)
	}

	m, cmd := update(t, m, keyPress("enter"))
	if m.mode != modeRead {
		t.Error("generating should leave selection mode")
	}
	msg := lastMsg(t, cmd)
	if len(gen.reqs) != 1 {
		t.Fatalf("generator called %d times", len(gen.reqs))
	}
	req := gen.reqs[0]
	if req.Text != "The" || req.Start != 0 || req.End != 3 || req.DocumentID != "doc1" || req.Voice != "amy" {
		t.Errorf("unexpected request %+v", req)
	}

	m, _ = update(t, m, msg)
	if !strings.Contains(m.status, "Saved doc1.wav") || !strings.Contains(m.status, "2.0 kB") {
		t.Errorf("status = %q", m.status)
	}
	if used := m.session.Tracker().Used(); len(used) != 1 || used[0] != (reader.UsedRange{Start: 0, End: 3}) {
		t.Errorf("used = %v", used)
	}

	// the same text again overlaps
	m = press(t, m, "v", "l")
	if sel := m.session.Pending(); sel.Verdict != reader.VerdictOverlapping {
		t.Fatalf("expected an overlapping selection, got %v", sel.Verdict)
	}
	m, _ = update(t, m, keyPress("enter"))
	if !m.statusErr || !strings.Contains(m.status, "overlaps") {
		t.Errorf("status = %q", m.status)
	}
	if len(gen.reqs) != 1 {
		t.Error("an overlapping selection reached the generator")
	}
}

func TestSelectionTooLong(t *testing.T) {
	gen := &fakeGenerator{}
	m := openModel(t, Config{MaxLength: 5}, gen, fox, 40, 5)

	m = press(t, m, "v", "$")
	sel := m.session.Pending()
	if sel.Verdict != reader.VerdictTooLong {
		t.Fatalf("expected too long, got %v (%q)", sel.Verdict, sel.Text)
	}
	if note, style := m.statusNote(); !strings.Contains(note, "too long") || style.GetBackground() != statusBarErrorStyle.GetBackground() {
		t.Errorf("status note = %q", note)
	}

	m = press(t, m, "enter")
	if !strings.Contains(m.status, "too long") {
		t.Errorf("status = %q", m.status)
	}
	if len(gen.reqs) != 0 || len(m.session.Tracker().Used()) != 0 {
		t.Error("an oversized selection was committed")
	}
}

func TestSelectionCancel(t *testing.T) {
	m := openModel(t, Config{}, nil, fox, 40, 5)

	m = press(t, m, "v", "w")
	if m.session.Pending().Text != "The q" {
		t.Fatalf("selection = %q", m.session.Pending().Text)
	}
	m = press(t, m, "esc")
	if m.mode != modeRead || m.session.Pending().End != 0 {
		t.Error("esc should drop the selection")
	}

	// v keeps the selection, and a page turn drops it
	m = press(t, m, "v", "w", "v")
	if m.mode != modeRead || m.session.Pending().Text == "" {
		t.Fatal("second v should keep the selection")
	}
	m = press(t, m, "n")
	if m.session.Pending().End != 0 {
		t.Error("turning the page should drop the selection")
	}
}

func TestGenerationDisabled(t *testing.T) {
	m := openModel(t, Config{}, nil, fox, 40, 5)
	m = press(t, m, "v", "l", "enter")

	if !m.statusErr || !strings.Contains(m.status, "disabled") {
		t.Errorf("status = %q", m.status)
	}
	if len(m.session.Tracker().Used()) != 0 {
		t.Error("nothing should be committed without a generator")
	}
}

func TestGenerationFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("piper: model not found")}
	m := openModel(t, Config{}, gen, fox, 40, 5)

	m = press(t, m, "v", "l")
	m, cmd := update(t, m, keyPress("enter"))
	m, _ = update(t, m, lastMsg(t, cmd))

	if !m.statusErr || !strings.Contains(m.status, "model not found") {
		t.Errorf("status = %q", m.status)
	}
	if m.generating != 0 {
		t.Errorf("generating = %d", m.generating)
	}
}

func TestResizeKeepsPositionAndRanges(t *testing.T) {
	gen := &fakeGenerator{}
	m := openModel(t, Config{}, gen, fox, 40, 5)

	m = press(t, m, "n", "n")
	m = press(t, m, "v", "l")
	m, cmd := update(t, m, keyPress("enter"))
	m, _ = update(t, m, lastMsg(t, cmd))
	before, _ := m.session.CurrentPage()

	m, first := update(t, m, tea.WindowSizeMsg{Width: 50, Height: 6})
	m, second := update(t, m, tea.WindowSizeMsg{Width: 60, Height: 8})

	// the first run was superseded and must not be applied
	m, _ = update(t, m, lastMsg(t, first))
	if _, count := m.session.Position(); len(m.session.Pages()) != count {
		t.Fatal("navigator and pages disagree")
	}
	m, _ = update(t, m, lastMsg(t, second))

	page, _ := m.session.CurrentPage()
	if before.Start < page.Start || before.Start >= page.End {
		t.Errorf("page %v does not contain the previous page start %d", page, before.Start)
	}
	if len(m.session.Tracker().Used()) != 1 {
		t.Error("used ranges should survive a resize")
	}
	if m.laying {
		t.Error("layout should be finished")
	}
}

func TestReloadStartsNewSession(t *testing.T) {
	gen := &fakeGenerator{}
	m := openModel(t, Config{}, gen, fox, 40, 5)

	m = press(t, m, "n", "v", "l")
	m, cmd := update(t, m, keyPress("enter"))
	m, _ = update(t, m, lastMsg(t, cmd))
	old := m.session

	m, cmd = update(t, m, documentLoadedMsg{doc: reader.NewDocument("doc2", "Fox", fox+"More."), reload: true})
	if !old.Closed() {
		t.Error("the previous session should be closed")
	}
	m, _ = update(t, m, lastMsg(t, cmd))

	if cur, _ := m.session.Position(); cur != 1 {
		t.Errorf("reload should start on page 1, got %d", cur)
	}
	if len(m.session.Tracker().Used()) != 0 {
		t.Error("a new document starts without used ranges")
	}
}

func TestMouseSelection(t *testing.T) {
	m := openModel(t, Config{EnableMouse: true, Margin: 1}, nil, fox, 40, 5)

	m, _ = update(t, m, tea.MouseMsg{X: 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 3, Y: 0, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 5, Y: 0, Action: tea.MouseActionRelease})

	if got := m.session.Pending().Text; got != "The q" {
		t.Errorf("selection = %q, want %q", got, "The q")
	}

	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if cur, _ := m.session.Position(); cur != 2 {
		t.Errorf("wheel should turn the page, at %d", cur)
	}
}

func TestStatusMessageTimeout(t *testing.T) {
	m := openModel(t, Config{}, nil, fox, 40, 5)
	m = press(t, m, "y")
	if m.status != "Nothing selected" {
		t.Fatalf("status = %q", m.status)
	}
	first := m.statusSeq

	m = press(t, m, "enter")
	m, _ = update(t, m, statusMessageTimeoutMsg{seq: first})
	if m.status == "" {
		t.Error("a stale timeout cleared a newer message")
	}
	m, _ = update(t, m, statusMessageTimeoutMsg{seq: m.statusSeq})
	if m.status != "" {
		t.Errorf("status = %q after timeout", m.status)
	}
}

func TestHelpView(t *testing.T) {
	m := openModel(t, Config{}, nil, fox, 80, 20)
	m = press(t, m, "?")

	view := plain(m.View())
	for _, want := range []string{"next page", "select text", "generate clip", "1,349 characters"} {
		if !strings.Contains(view, want) {
			t.Errorf("help missing %q", want)
		}
	}

	m = press(t, m, "n")
	if cur, _ := m.session.Position(); cur != 1 {
		t.Error("keys should not turn pages while help is shown")
	}
	m = press(t, m, "?")
	if strings.Contains(plain(m.View()), "generate clip") {
		t.Error("help should be hidden")
	}
}

func TestConfiguredSizeCapsPage(t *testing.T) {
	wide := openModel(t, Config{}, nil, fox, 80, 24)
	narrow := openModel(t, Config{Width: 30, Height: 5}, nil, fox, 80, 24)

	if got := narrow.pageMetrics(); got.Width != 30 || got.Height != 5 {
		t.Errorf("page metrics = %dx%d, want 30x5", got.Width, got.Height)
	}
	for i, row := range narrow.rows {
		if n := len([]rune(strings.TrimRight(row, " \n"))); n > 30 {
			t.Errorf("row %d is %d cells wide: %q", i, n, row)
		}
	}
	_, wideCount := wide.session.Position()
	_, narrowCount := narrow.session.Position()
	if narrowCount <= wideCount {
		t.Errorf("capped size should give more pages: %d vs %d", narrowCount, wideCount)
	}

	// A window smaller than the cap wins.
	small := openModel(t, Config{Width: 30, Height: 5}, nil, fox, 20, 4)
	if got := small.pageMetrics(); got.Width != 20 || got.Height != 3 {
		t.Errorf("page metrics = %dx%d, want 20x3", got.Width, got.Height)
	}
}
