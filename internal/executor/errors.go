package executor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/crepl/internal/materialize"
)

// ErrTimeout is returned when a program outlives Config.Timeout.
var ErrTimeout = errors.New("program timed out")

// CompileError reports that the compiler rejected a program.
type CompileError struct {
	Output string
	Err    error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("compilation failed: %v", e.Err)
	}
	return fmt.Sprintf("compilation failed: %v\n%s", e.Err, out)
}

// Unwrap returns the underlying process error.
func (e *CompileError) Unwrap() error { return e.Err }

// HarnessError reports that the generated suppress/resume harness itself
// failed. Output captured in Result must not be trusted.
type HarnessError struct {
	Diagnostic *materialize.Diagnostic
	Result     *Result
}

// Error implements the error interface.
func (e *HarnessError) Error() string {
	return fmt.Sprintf("harness %s (exit status %d): %s(%s): %s",
		e.Diagnostic.Kind, e.Result.ExitCode, e.Diagnostic.Op, e.Diagnostic.Stream, e.Diagnostic.Reason)
}

// Kind is the failure classification reported by the program.
func (e *HarnessError) Kind() materialize.FailureKind {
	return e.Diagnostic.Kind
}

// ExitError reports that the user's code exited non-zero or was killed.
type ExitError struct {
	Result *Result
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Result.Signal != "" {
		return fmt.Sprintf("program killed by signal %s", e.Result.Signal)
	}
	return fmt.Sprintf("program exited with status %d", e.Result.ExitCode)
}
