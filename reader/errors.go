package reader

import "errors"

// Common errors for the reader.
var (
	// Pagination faults
	ErrPaginationStalled      = errors.New("pagination cursor did not advance")
	ErrMeasurementUnavailable = errors.New("text measurement is unavailable")
	ErrStaleLayout            = errors.New("layout result belongs to a superseded run")

	// Selection verdicts
	ErrEmptySelection       = errors.New("selection is empty")
	ErrOversizedSelection   = errors.New("selection exceeds the maximum length")
	ErrOverlappingSelection = errors.New("selection overlaps text that was already used")
	ErrSelectionOutOfRange  = errors.New("selection offsets do not match the document")

	// Session errors
	ErrSessionClosed = errors.New("session has been closed")
)

// IsFatal reports whether err is a structural fault that should be surfaced to
// the caller, as opposed to a verdict produced by normal user interaction.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, ErrEmptySelection),
		errors.Is(err, ErrOversizedSelection),
		errors.Is(err, ErrOverlappingSelection),
		errors.Is(err, ErrSelectionOutOfRange),
		errors.Is(err, ErrStaleLayout):
		return false
	}
	return true
}
