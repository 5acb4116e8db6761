// Package ui provides the terminal reader: one document shown a page at a
// time, with keyboard and mouse selection of passages to turn into clips.
package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"

	"github.com/dgnsrekt/sampler/reader"
	"github.com/dgnsrekt/sampler/reader/layout"
)

const (
	statusBarHeight      = 1
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "copied!"
	ellipsis             = "…"
)

// Loader opens the document at path.
type Loader func(ctx context.Context, path string) (*reader.Document, error)

// NewProgram returns a new Tea program. A nil generator disables clip
// generation.
func NewProgram(cfg Config, load Loader, gen reader.Generator) *tea.Program {
	log.Debug(
		"starting sampler",
		"path", cfg.Path,
		"mouse", cfg.EnableMouse,
		"generator", gen != nil,
	)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	return tea.NewProgram(newModel(cfg, load, gen), opts...)
}

type (
	documentLoadedMsg struct {
		doc    *reader.Document
		reload bool
	}
	loadFailedMsg struct{ err error }
	layoutDoneMsg struct {
		session *reader.Session
		ticket  reader.Ticket
		pages   []reader.Page
		err     error
	}
	clipDoneMsg struct {
		req  reader.Request
		clip reader.Clip
		err  error
	}
	fileChangedMsg          struct{}
	statusMessageTimeoutMsg struct{ seq int }
)

type mode int

const (
	modeRead mode = iota
	modeSelect
)

func (m mode) String() string {
	return map[mode]string{
		modeRead:   "reading",
		modeSelect: "selecting",
	}[m]
}

type model struct {
	cfg  Config
	keys keyMap
	load Loader
	gen  reader.Generator

	// canceled on quit; parent of layout and generation work
	ctx    context.Context
	cancel context.CancelFunc

	width    int
	height   int
	viewport viewport.Model
	spinner  spinner.Model
	spinning bool
	showHelp bool
	fatalErr error

	session *reader.Session
	rows    []string
	caret   caret
	mode    mode
	anchor  int
	focus   int
	drag    bool

	layoutCancel context.CancelFunc
	laying       bool
	generating   int
	lastClip     *reader.Clip

	status    string
	statusErr bool
	statusSeq int

	watcher *fsnotify.Watcher
}

func newModel(cfg Config, load Loader, gen reader.Generator) model {
	if cfg.Path != "" {
		if abs, err := filepath.Abs(cfg.Path); err == nil {
			cfg.Path = abs
		}
	}
	cfg.Margin = max(0, cfg.Margin)
	cfg.Width = max(0, cfg.Width)
	cfg.Height = max(0, cfg.Height)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = subtleStyle

	ctx, cancel := context.WithCancel(context.Background())
	m := model{
		cfg:      cfg,
		keys:     defaultKeyMap(),
		load:     load,
		gen:      gen,
		ctx:      ctx,
		cancel:   cancel,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		spinning: true, // Init starts the first tick
	}
	m.initWatcher()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadDocument(false))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been an error, any key exits
	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, m.quit()
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	// Window size is received when starting up and on every resize
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		cmds = append(cmds, m.startLayout())

	case documentLoadedMsg:
		m.openDocument(msg.doc)
		if msg.reload {
			cmds = append(cmds, m.showStatus("Reloaded", false))
		} else if m.watcher != nil {
			cmds = append(cmds, watchFile(m.watcher, m.cfg.Path))
		}
		cmds = append(cmds, m.startLayout())

	case loadFailedMsg:
		if m.session == nil {
			log.Error("unable to load document", "path", m.cfg.Path, "error", msg.err)
			m.fatalErr = msg.err
			return m, nil
		}
		log.Warn("reload failed", "path", m.cfg.Path, "error", msg.err)
		cmds = append(cmds, m.showStatus("Reload failed: "+msg.err.Error(), true))

	case layoutDoneMsg:
		cmds = append(cmds, m.applyLayout(msg))

	case clipDoneMsg:
		m.generating = max(0, m.generating-1)
		if msg.err != nil {
			log.Error("clip generation failed", "start", msg.req.Start, "end", msg.req.End, "error", msg.err)
			cmds = append(cmds, m.showStatus("Generation failed: "+msg.err.Error(), true))
			break
		}
		m.lastClip = &msg.clip
		note := fmt.Sprintf("Saved %s (%s)", filepath.Base(msg.clip.Path), humanize.Bytes(uint64(max(0, msg.clip.Bytes)))) //nolint:gosec
		if msg.clip.Cached {
			note += ", from cache"
		}
		cmds = append(cmds, m.showStatus(note, false))

	// The file was changed on disk and we're reloading it
	case fileChangedMsg:
		log.Info("document changed on disk", "path", m.cfg.Path)
		cmds = append(cmds, m.loadDocument(true))
		if m.watcher != nil {
			cmds = append(cmds, watchFile(m.watcher, m.cfg.Path))
		}

	case statusMessageTimeoutMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}

	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr)
	}

	var b strings.Builder
	fmt.Fprint(&b, m.viewport.View()+"\n")
	m.statusBarView(&b)
	return b.String()
}

func errorView(err error) string {
	return fmt.Sprintf("\n  %s %s\n\n  %s\n",
		errorTitleStyle.Render("ERROR"),
		err.Error(),
		subtleStyle.Render("Press any key to exit"),
	)
}

func (m *model) setSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = max(0, h-statusBarHeight)
	m.refresh()
}

// pageMetrics is the size, in cells, available to page text. Configured
// sizes cap the window size.
func (m model) pageMetrics() layout.Metrics {
	w := m.width - 2*m.cfg.Margin
	if m.cfg.Width > 0 {
		w = min(w, m.cfg.Width)
	}
	h := m.height - statusBarHeight
	if m.cfg.Height > 0 {
		h = min(h, m.cfg.Height)
	}
	return layout.Metrics{Width: w, Height: h}
}

func (m model) busy() bool {
	return m.laying || m.generating > 0 || m.session == nil
}

func (m *model) spin() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *model) showStatus(s string, isErr bool) tea.Cmd {
	m.status = s
	m.statusErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusMessageTimeout, func(time.Time) tea.Msg {
		return statusMessageTimeoutMsg{seq}
	})
}

func (m *model) quit() tea.Cmd {
	m.cancel()
	if m.layoutCancel != nil {
		m.layoutCancel()
	}
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			log.Debug("closing fsnotify watcher", "error", err)
		}
	}
	if m.session != nil {
		m.session.Close()
	}
	return tea.Quit
}

// DOCUMENT AND LAYOUT

func (m model) loadDocument(reload bool) tea.Cmd {
	path, load, ctx := m.cfg.Path, m.load, m.ctx
	return func() tea.Msg {
		doc, err := load(ctx, path)
		if err != nil {
			return loadFailedMsg{err}
		}
		return documentLoadedMsg{doc: doc, reload: reload}
	}
}

// openDocument replaces the session: a new document starts with no used
// ranges on page one.
func (m *model) openDocument(doc *reader.Document) {
	if m.layoutCancel != nil {
		m.layoutCancel()
		m.layoutCancel = nil
	}
	if m.session != nil {
		m.session.Close()
	}
	m.session = reader.NewSession(doc, m.cfg.MaxLength)
	m.mode = modeRead
	m.drag = false
	m.rows = nil
	m.caret = caret{}
	m.lastClip = nil
	m.laying = false
	m.refresh()

	log.Info("document opened", "id", doc.ID, "title", doc.Title, "chars", doc.Length())
}

// startLayout paginates the document in the background for the current
// viewport. A run still in flight is canceled; its result will be stale.
func (m *model) startLayout() tea.Cmd {
	if m.session == nil {
		return nil
	}
	metrics := m.pageMetrics()
	if metrics.Validate() != nil {
		return nil
	}
	if m.layoutCancel != nil {
		m.layoutCancel()
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.layoutCancel = cancel
	m.laying = true

	session := m.session
	ticket := session.Begin()
	engine := layout.NewEngine(layout.TerminalSurface{}, metrics)
	text := session.Document().Text()
	log.Debug("layout started", "ticket", ticket, "width", metrics.Width, "height", metrics.Height)

	return tea.Batch(m.spin(), func() tea.Msg {
		pages, err := engine.Paginate(ctx, text)
		return layoutDoneMsg{session: session, ticket: ticket, pages: pages, err: err}
	})
}

func (m *model) applyLayout(msg layoutDoneMsg) tea.Cmd {
	if msg.session != m.session {
		return nil
	}
	err := m.session.Apply(msg.ticket, msg.pages, msg.err)
	if errors.Is(err, reader.ErrStaleLayout) || errors.Is(err, reader.ErrSessionClosed) {
		return nil
	}

	m.laying = false
	if m.layoutCancel != nil {
		m.layoutCancel()
		m.layoutCancel = nil
	}
	m.renderPage()

	if err != nil {
		log.Error("layout failed", "error", err)
		return m.showStatus("Layout failed: "+err.Error(), true)
	}
	return nil
}

// renderPage wraps the current page for display and registers the rendered
// rows with the session. Any selection in progress ends.
func (m *model) renderPage() {
	m.rows = nil
	m.caret = caret{}
	m.mode = modeRead
	m.drag = false

	if page, ok := m.session.CurrentPage(); ok {
		m.rows = layout.Wrap(page.Text, m.pageMetrics().Width)
		idx := m.session.Render(m.rows)
		m.caret = newCaret(idx, page.Text)
	}
	m.refresh()
}

func (m *model) turn(moved bool) {
	if moved {
		m.renderPage()
	}
}

// refresh puts the page, or the help, into the viewport.
func (m *model) refresh() {
	if m.showHelp {
		m.viewport.SetContent(m.helpView())
		return
	}
	m.viewport.SetContent(m.pageContent())
	m.viewport.GotoTop()
}

func (m model) pageContent() string {
	if m.session == nil || !m.session.LaidOut() {
		return ""
	}
	if _, count := m.session.Position(); count == 0 {
		pad := strings.Repeat(" ", m.cfg.Margin)
		return "\n" + pad + emptyPageStyle.Render("This document has no text.")
	}
	return m.pageView().render()
}

func (m model) pageView() pageView {
	page, _ := m.session.CurrentPage()
	v := pageView{
		rows:      m.rows,
		base:      page.Start,
		width:     m.pageMetrics().Width,
		margin:    m.cfg.Margin,
		selection: m.session.Pending(),
		caret:     -1,
	}
	if !m.cfg.HideUsed {
		v.used = m.session.Tracker().Used()
	}
	if m.mode == modeSelect {
		v.caret = m.focus
	}
	return v
}

// INPUT

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()
	case msg.String() == "ctrl+z":
		return m, tea.Suspend
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.refresh()
		return m, nil
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Cancel) {
			m.showHelp = false
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.session == nil || !m.session.LaidOut() {
		return m, nil
	}
	if m.mode == modeSelect {
		return m.handleSelectKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		m.turn(m.session.Next())
	case key.Matches(msg, m.keys.Prev):
		m.turn(m.session.Prev())
	case key.Matches(msg, m.keys.First):
		cur, _ := m.session.Position()
		m.turn(m.session.GoTo(1) != cur)
	case key.Matches(msg, m.keys.Last):
		cur, count := m.session.Position()
		m.turn(m.session.GoTo(count) != cur)
	case key.Matches(msg, m.keys.Select):
		m.beginSelection()
	case key.Matches(msg, m.keys.Generate):
		return m, m.generate()
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelection()
	case key.Matches(msg, m.keys.Reload):
		return m, m.loadDocument(true)
	case key.Matches(msg, m.keys.Cancel):
		m.session.ClearSelection()
		m.refresh()
	}
	return m, nil
}

func (m model) handleSelectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.caret

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeRead
		m.session.ClearSelection()
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Select):
		// keep the selection, hide the caret
		m.mode = modeRead
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Generate):
		m.mode = modeRead
		cmd := m.generate()
		m.refresh()
		return m, cmd
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelection()

	case key.Matches(msg, m.keys.Left):
		m.focus = c.left(m.focus)
	case key.Matches(msg, m.keys.Right):
		m.focus = c.right(m.focus)
	case key.Matches(msg, m.keys.Up):
		m.focus = c.up(m.focus)
	case key.Matches(msg, m.keys.Down):
		m.focus = c.down(m.focus)
	case key.Matches(msg, m.keys.WordNext):
		m.focus = c.wordNext(m.focus)
	case key.Matches(msg, m.keys.WordPrev):
		m.focus = c.wordPrev(m.focus)
	case key.Matches(msg, m.keys.LineStart):
		m.focus = c.lineStart(m.focus)
	case key.Matches(msg, m.keys.LineEnd):
		m.focus = c.lineEnd(m.focus)
	default:
		return m, nil
	}

	m.updateSelection()
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.cfg.EnableMouse || m.showHelp || m.session == nil || m.caret.empty() {
		return m, nil
	}

	switch msg.Button { //nolint:exhaustive
	case tea.MouseButtonWheelDown:
		m.turn(m.session.Next())
		return m, nil
	case tea.MouseButtonWheelUp:
		m.turn(m.session.Prev())
		return m, nil
	}

	o, ok := m.pageView().offsetAt(msg.X, msg.Y)
	switch msg.Action { //nolint:exhaustive
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !ok {
			return m, nil
		}
		m.mode = modeSelect
		m.drag = true
		m.anchor = m.caret.clamp(o)
		m.focus = m.anchor
	case tea.MouseActionMotion:
		if !m.drag || !ok {
			return m, nil
		}
		m.focus = m.caret.clamp(o)
	case tea.MouseActionRelease:
		if !m.drag {
			return m, nil
		}
		m.drag = false
		if ok {
			m.focus = m.caret.clamp(o)
		}
	default:
		return m, nil
	}

	m.updateSelection()
	return m, nil
}

// SELECTION AND GENERATION

func (m *model) beginSelection() {
	if m.caret.empty() {
		return
	}
	m.mode = modeSelect
	m.anchor = m.caret.first()
	if p := m.session.Pending(); p.End > p.Start {
		m.anchor = m.caret.clamp(p.Start)
	}
	m.focus = m.anchor
	m.updateSelection()
}

// updateSelection hands the caret span to the session as raw points inside
// the rendered rows.
func (m *model) updateSelection() {
	start, end := span(m.anchor, m.focus)
	idx := m.session.Index()
	m.session.Select(idx.Locate(start), idx.Locate(end))
	m.refresh()
}

func (m *model) generate() tea.Cmd {
	if m.gen == nil {
		return m.showStatus("Audio generation is disabled: set synth.engine in the config", true)
	}

	sel := m.session.Pending()
	if sel.End <= sel.Start {
		return m.showStatus("Nothing selected: press v to select text", true)
	}
	req, err := m.session.Commit(sel)
	if err != nil {
		return m.showStatus(selectionProblem(sel, m.session.Tracker().MaxLength()), true)
	}
	req.Voice = m.cfg.Voice
	m.generating++
	m.refresh()

	gen, ctx := m.gen, m.ctx
	log.Info("generating clip", "doc", req.DocumentID, "start", req.Start, "end", req.End)
	return tea.Batch(
		m.spin(),
		m.showStatus("Generating clip…", false),
		func() tea.Msg {
			clip, err := gen.Generate(ctx, req)
			return clipDoneMsg{req: req, clip: clip, err: err}
		},
	)
}

func selectionProblem(sel reader.Selection, maxLength int) string {
	switch sel.Verdict {
	case reader.VerdictEmpty:
		return "Selection is empty"
	case reader.VerdictTooLong:
		return fmt.Sprintf("Selection is too long: %s of %s characters",
			humanize.Comma(int64(sel.Len())), humanize.Comma(int64(maxLength)))
	case reader.VerdictOverlapping:
		return "Selection overlaps text that was already used"
	}
	return "Selection cannot be used"
}
