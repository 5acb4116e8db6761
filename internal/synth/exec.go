package synth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Grace period between interrupting a timed-out engine and killing it.
const killDelay = 100 * time.Millisecond

// runEngine runs an engine binary with stdin as input and returns its
// standard output. The process is interrupted when ctx is done or the
// timeout expires, and killed if it does not exit shortly after.
func runEngine(ctx context.Context, name string, timeout time.Duration, stdin io.Reader, bin string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = killDelay

	// stdin is set up front so the engine never races us for input
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
		} else if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &EngineError{Engine: name, Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}

	if stdout.Len() == 0 {
		return nil, &EngineError{Engine: name, Stderr: strings.TrimSpace(stderr.String()), Err: ErrNoAudio}
	}
	return stdout.Bytes(), nil
}
