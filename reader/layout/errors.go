package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidMetrics is returned when the viewport has no usable area.
var ErrInvalidMetrics = errors.New("viewport metrics must have a positive width and height")

// PaginationError provides detail about a failed pagination run.
type PaginationError struct {
	Op     string // "measure" or "paginate"
	Offset int    // rune offset of the cursor when the run failed
	Err    error  // the underlying error
}

// Error implements the error interface.
func (e *PaginationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("layout: %s failed at offset %d", e.Op, e.Offset)
	}
	return fmt.Sprintf("layout: %s at offset %d: %v", e.Op, e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *PaginationError) Unwrap() error {
	return e.Err
}
