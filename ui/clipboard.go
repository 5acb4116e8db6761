package ui

import (
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

func (m *model) copySelection() tea.Cmd {
	text := m.session.Pending().Text
	if strings.TrimSpace(text) == "" {
		return m.showStatus("Nothing selected", true)
	}

	// Copy using OSC 52
	termenv.Copy(text)
	// Copy using native system clipboard
	if err := clipboard.WriteAll(text); err != nil {
		log.Debug("system clipboard unavailable", "error", err)
	}
	return m.showStatus("Copied selection", false)
}
