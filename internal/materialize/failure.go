package materialize

import (
	"fmt"
	"strings"
)

// DiagnosticPrefix starts every diagnostic line the harness writes.
const DiagnosticPrefix = "crepl: "

// FailureKind classifies a fatal harness failure inside a generated program.
// Its value is the exit status the program terminates with.
type FailureKind int

const (
	// SetupFailure means the discard sink could not be opened or inspected.
	SetupFailure FailureKind = 71
	// RedirectFailure means a descriptor could not be duplicated, reassigned
	// or closed, or no longer referred to the sink at resume time.
	RedirectFailure FailureKind = 72
	// FlushFailure means buffered output could not be flushed before restore.
	FlushFailure FailureKind = 73
)

var failureKinds = []FailureKind{SetupFailure, RedirectFailure, FlushFailure}

// String returns the label used in diagnostics, e.g. "redirect failure".
func (k FailureKind) String() string {
	switch k {
	case SetupFailure:
		return "setup failure"
	case RedirectFailure:
		return "redirect failure"
	case FlushFailure:
		return "flush failure"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// ExitStatus is the status a generated program exits with for this kind.
func (k FailureKind) ExitStatus() int {
	return int(k)
}

// cEnumerator is the name of the kind in the generated C enum.
func (k FailureKind) cEnumerator() string {
	return "CREPL_" + strings.ToUpper(strings.ReplaceAll(k.String(), " ", "_"))
}

// Diagnostic is a parsed harness diagnostic line:
// "crepl: <kind>: <op>(<stream>): <system error>".
type Diagnostic struct {
	Kind   FailureKind
	Op     string
	Stream string
	Reason string
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s%s: %s(%s): %s", DiagnosticPrefix, d.Kind, d.Op, d.Stream, d.Reason)
}

// ParseDiagnostic finds the last harness diagnostic in a program's stderr
// and checks it agrees with the exit status. It returns nil when the status
// is not a harness status or no matching line is present.
func ParseDiagnostic(stderr string, exitStatus int) *Diagnostic {
	kind, ok := kindForStatus(exitStatus)
	if !ok {
		return nil
	}
	lines := strings.Split(stderr, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		d, ok := parseDiagnosticLine(lines[i])
		if ok && d.Kind == kind {
			return d
		}
	}
	return nil
}

func kindForStatus(status int) (FailureKind, bool) {
	for _, k := range failureKinds {
		if k.ExitStatus() == status {
			return k, true
		}
	}
	return 0, false
}

func parseDiagnosticLine(line string) (*Diagnostic, bool) {
	rest, ok := strings.CutPrefix(strings.TrimRight(line, "\r"), DiagnosticPrefix)
	if !ok {
		return nil, false
	}
	label, rest, ok := strings.Cut(rest, ": ")
	if !ok {
		return nil, false
	}
	var kind FailureKind
	for _, k := range failureKinds {
		if k.String() == label {
			kind = k
		}
	}
	if kind == 0 {
		return nil, false
	}
	call, reason, ok := strings.Cut(rest, ": ")
	if !ok {
		return nil, false
	}
	op, stream, ok := strings.Cut(call, "(")
	if !ok || !strings.HasSuffix(stream, ")") {
		return nil, false
	}
	return &Diagnostic{
		Kind:   kind,
		Op:     op,
		Stream: strings.TrimSuffix(stream, ")"),
		Reason: reason,
	}, true
}
