package synth

import (
	"errors"
	"fmt"
)

// Common errors for audio generation.
var (
	ErrDisabled          = errors.New("audio generation is disabled")
	ErrInvalidRequest    = errors.New("invalid generation request")
	ErrEngineUnavailable = errors.New("speech engine is not available")
	ErrNoAudio           = errors.New("speech engine produced no audio")
	ErrAudioTooLarge     = errors.New("speech engine output too large")
	ErrTextTooLong       = errors.New("text too long for speech engine")
)

// EngineError reports a failed engine invocation.
type EngineError struct {
	Engine string
	Stderr string // trimmed standard error of the engine process, if any
	Err    error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %v: %s", e.Engine, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", e.Engine, e.Err)
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error { return e.Err }
