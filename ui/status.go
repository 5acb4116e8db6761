package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/truncate"

	"github.com/dgnsrekt/sampler/reader"
)

func logoView() string {
	return logoStyle.Render(" Sampler ")
}

func (m model) statusBarView(b *strings.Builder) {
	logo := logoView()

	// Page position
	position := " "
	if m.busy() {
		position += m.spinner.View() + " "
	}
	if m.session != nil && m.session.LaidOut() {
		if cur, count := m.session.Position(); count > 0 {
			position += fmt.Sprintf("%d/%d ", cur, count)
		} else {
			position += "empty "
		}
	}
	position = statusBarPageStyle.Render(position)

	helpNote := statusBarHelpStyle.Render(" ? Help ")

	note, style := m.statusNote()
	note = truncate.StringWithTail(" "+note+" ", uint(max(0, //nolint:gosec
		m.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(position)-
			ansi.PrintableRuneWidth(helpNote),
	)), ellipsis)
	note = style.Render(note)

	// Empty space
	padding := max(0,
		m.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(note)-
			ansi.PrintableRuneWidth(position)-
			ansi.PrintableRuneWidth(helpNote),
	)
	emptySpace := style.Render(strings.Repeat(" ", padding))

	fmt.Fprintf(b, "%s%s%s%s%s",
		logo,
		note,
		emptySpace,
		position,
		helpNote,
	)
}

// statusNote picks what the middle of the status bar says: a transient
// message, the selection feedback, or the document title.
func (m model) statusNote() (string, lipgloss.Style) {
	switch {
	case m.status != "" && m.statusErr:
		return m.status, statusBarErrorStyle
	case m.status != "":
		return m.status, statusBarMessageStyle
	case m.session == nil:
		return "Loading " + m.cfg.Path + ellipsis, statusBarNoteStyle
	}

	sel := m.session.Pending()
	if m.mode == modeSelect || sel.End > sel.Start {
		note := fmt.Sprintf("%s/%s · %s",
			humanize.Comma(int64(sel.Len())),
			humanize.Comma(int64(m.session.Tracker().MaxLength())),
			m.verdictNote(sel),
		)
		if !sel.Valid() {
			return note, statusBarErrorStyle
		}
		return note, statusBarNoteStyle
	}
	return m.session.Document().Title, statusBarNoteStyle
}

func (m model) verdictNote(sel reader.Selection) string {
	switch sel.Verdict {
	case reader.VerdictOK:
		if m.gen == nil {
			return "generation disabled"
		}
		return "enter to generate"
	case reader.VerdictTooLong:
		return "too long"
	case reader.VerdictOverlapping:
		return "overlaps used text"
	case reader.VerdictOutOfRange:
		return "out of range"
	default:
		return "empty"
	}
}

func (m model) helpView() (s string) {
	reading := []key.Binding{
		m.keys.Next, m.keys.Prev, m.keys.First, m.keys.Last,
		m.keys.Reload, m.keys.Help, m.keys.Quit,
	}
	selecting := []key.Binding{
		m.keys.Select, m.keys.Left, m.keys.Up, m.keys.WordNext, m.keys.WordPrev,
		m.keys.LineStart, m.keys.LineEnd, m.keys.Generate, m.keys.Copy, m.keys.Cancel,
	}

	if m.session != nil {
		doc := m.session.Document()
		used := m.session.Tracker().Used()
		s += "\n" + doc.Title + "\n"
		s += fmt.Sprintf("%s characters, %d passage(s) used", humanize.Comma(int64(doc.Length())), len(used))
		if m.lastClip != nil {
			s += ", last clip " + m.lastClip.Path
		}
		s += "\n"
	}

	s += "\n"
	for i := 0; i < max(len(reading), len(selecting)); i++ {
		left := ""
		if i < len(reading) {
			left = helpEntry(reading[i])
		}
		right := ""
		if i < len(selecting) {
			right = helpEntry(selecting[i])
		}
		s += fmt.Sprintf("%-30s%s\n", left, right)
	}

	s = indent.String(s, 2)

	// Fill up empty cells with spaces for background coloring
	if m.width > 0 {
		lines := strings.Split(s, "\n")
		for i := 0; i < len(lines); i++ {
			l := runewidth.StringWidth(lines[i])
			n := max(m.width-l, 0)
			lines[i] += strings.Repeat(" ", n)
		}

		s = strings.Join(lines, "\n")
	}

	return helpViewStyle.Render(s)
}

func helpEntry(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("%-9s %s", h.Key, h.Desc)
}
