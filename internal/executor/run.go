package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/specialistvlad/crepl/internal/ctxlog"
	"github.com/specialistvlad/crepl/internal/materialize"
)

// Result is the captured outcome of one program run.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	// Signal names the signal that killed the program, if any.
	Signal   string
	Duration time.Duration
}

// Run executes the binary once with an empty stdin. A non-nil Result is
// returned whenever the program started, alongside a *HarnessError,
// *ExitError or ErrTimeout when it did not exit cleanly.
func (b *Binary) Run(ctx context.Context) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, b.Path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	start := time.Now()
	runErr := cmd.Run()
	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if runErr == nil {
		logger.Debug("Program exited cleanly.", "duration", res.Duration)
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return res, fmt.Errorf("%w after %s", ErrTimeout, b.timeout)
		}
		return res, ctxErr
	}

	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		return nil, fmt.Errorf("failed to start program: %w", runErr)
	}

	res.ExitCode = exitErr.ExitCode()
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		res.Signal = ws.Signal().String()
	}
	logger.Debug("Program exited with failure.", "exit_code", res.ExitCode, "signal", res.Signal)

	if diag := materialize.ParseDiagnostic(string(res.Stderr), res.ExitCode); diag != nil {
		return res, &HarnessError{Diagnostic: diag, Result: res}
	}
	return res, &ExitError{Result: res}
}
