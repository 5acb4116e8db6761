package layout

import "fmt"

// Metrics describes the viewport a page must fit in. Width and Height use the
// units of the measurer: cells and rows for a terminal, pixels for a font
// table.
type Metrics struct {
	Width  int
	Height int

	// Font parameters; only used by measurers that model a proportional font.
	FontSize   float64
	LineHeight float64
}

// Validate checks that the viewport has a usable area.
func (m Metrics) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidMetrics, m.Width, m.Height)
	}
	return nil
}

// TextMeasurer reports how tall a piece of text renders when wrapped at the
// given width.
type TextMeasurer interface {
	Measure(text string, width int) int
}

// Proxy is a measurer created for a single pagination run. It must be closed
// when the run ends.
type Proxy interface {
	TextMeasurer
	Close() error
}

// Surface creates measurement proxies configured with the same metrics as the
// real display.
type Surface interface {
	NewProxy(m Metrics) (Proxy, error)
}

// MeasurerFunc adapts a function to the TextMeasurer interface.
type MeasurerFunc func(text string, width int) int

// Measure calls f.
func (f MeasurerFunc) Measure(text string, width int) int { return f(text, width) }

// Static is a Surface handing out the same measurer for every run. Closing
// the proxy is a no-op.
type Static struct {
	Measurer TextMeasurer
}

// NewProxy implements Surface.
func (s Static) NewProxy(Metrics) (Proxy, error) {
	if s.Measurer == nil {
		return nil, fmt.Errorf("no measurer configured")
	}
	return nopProxy{s.Measurer}, nil
}

type nopProxy struct{ TextMeasurer }

func (nopProxy) Close() error { return nil }
