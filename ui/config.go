package ui

// Config contains TUI-specific configuration.
type Config struct {
	// Document to open.
	Path string

	// Longest selection, in characters, that may be sent for generation.
	MaxLength int

	// Voice passed along with every generation request. Empty selects the
	// engine default.
	Voice string

	// Page size caps in cells and rows; zero uses the window size.
	Width  int
	Height int

	// For debugging the UI
	EnableMouse bool `env:"SAMPLER_MOUSE"`
	Margin      int  `env:"SAMPLER_MARGIN"    envDefault:"2"`
	NoWatch     bool `env:"SAMPLER_NO_WATCH"`
	HideUsed    bool `env:"SAMPLER_HIDE_USED"`
}
