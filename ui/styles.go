package ui

import "github.com/charmbracelet/lipgloss"

var (
	normalDim = lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"}
	gray      = lipgloss.AdaptiveColor{Light: "#909090", Dark: "#626262"}
	midGray   = lipgloss.AdaptiveColor{Light: "#B2B2B2", Dark: "#4A4A4A"}
	red       = lipgloss.AdaptiveColor{Light: "#FF4672", Dark: "#ED567A"}
	fuchsia   = lipgloss.Color("#EE6FF8")
	cream     = lipgloss.AdaptiveColor{Light: "#FFFDF5", Dark: "#FFFDF5"}
	green     = lipgloss.Color("#04B575")
	mintGreen = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}
	darkRed   = lipgloss.AdaptiveColor{Light: "#8A1C33", Dark: "#8A1C33"}
	pink      = lipgloss.AdaptiveColor{Light: "#FFB6C8", Dark: "#FFB6C8"}

	statusBarNoteFg = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	statusBarBg     = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}
)

var (
	logoStyle = lipgloss.NewStyle().
			Foreground(cream).
			Background(fuchsia).
			Bold(true)

	statusBarPageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#949494", Dark: "#5A5A5A"}).
				Background(statusBarBg)

	statusBarNoteStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(statusBarBg)

	statusBarHelpStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(lipgloss.AdaptiveColor{Light: "#DCDCDC", Dark: "#323232"})

	statusBarMessageStyle = lipgloss.NewStyle().
				Foreground(mintGreen).
				Background(darkGreen)

	statusBarErrorStyle = lipgloss.NewStyle().
				Foreground(pink).
				Background(darkRed)

	helpViewStyle = lipgloss.NewStyle().
			Foreground(statusBarNoteFg).
			Background(lipgloss.AdaptiveColor{Light: "#f2f2f2", Dark: "#1B1B1B"})

	// Page text
	usedStyle      = lipgloss.NewStyle().Foreground(normalDim).Faint(true)
	selectStyle    = lipgloss.NewStyle().Foreground(cream).Background(green)
	badSelectStyle = lipgloss.NewStyle().Foreground(cream).Background(red)
	cursorStyle    = lipgloss.NewStyle().Reverse(true)

	errorTitleStyle = lipgloss.NewStyle().Foreground(cream).Background(red).Padding(0, 1)
	subtleStyle     = lipgloss.NewStyle().Foreground(gray)
	emptyPageStyle  = lipgloss.NewStyle().Foreground(midGray).Italic(true)
)
