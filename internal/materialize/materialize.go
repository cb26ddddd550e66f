package materialize

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/crepl/internal/session"
)

// DefaultDiscardSink is the null device the generated program writes
// suppressed output to.
const DefaultDiscardSink = "/dev/null"

// Handle variable names in the generated main.
const (
	stdoutHandle = "crepl_out"
	stderrHandle = "crepl_err"
)

// Options tunes the generated program. The zero value is usable.
type Options struct {
	// DiscardSink is the path opened write-only to swallow replayed output.
	DiscardSink string
	// NoResultNewline drops the newline printed after an expression's value.
	NoResultNewline bool
}

func (o Options) withDefaults() Options {
	if o.DiscardSink == "" {
		o.DiscardSink = DefaultDiscardSink
	}
	return o
}

// Program is a materialized translation unit together with the inputs it
// was built from.
type Program struct {
	Includes []session.Header
	Prior    []string
	Input    session.Input
	text     string
}

// String returns the C source text.
func (p *Program) String() string {
	return p.text
}

// Bytes returns the C source text as bytes.
func (p *Program) Bytes() []byte {
	return []byte(p.text)
}

// Materializer builds programs with fixed options. It holds no mutable state
// and is safe for concurrent use.
type Materializer struct {
	opts Options
}

// New returns a Materializer for the given options.
func New(opts Options) *Materializer {
	return &Materializer{opts: opts.withDefaults()}
}

// Materialize builds a program with default options.
func Materialize(includes *session.IncludeSet, prior []string, input session.Input) (*Program, error) {
	return New(Options{}).Materialize(includes, prior, input)
}

// Materialize renders the translation unit for one round. Includes and
// prior statements are emitted verbatim and never validated; only the
// input's tag and text are checked.
func (m *Materializer) Materialize(includes *session.IncludeSet, prior []string, input session.Input) (*Program, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("cannot materialize: %w", err)
	}

	u := &unitWriter{
		opts:     m.opts,
		includes: includes.Headers(),
		prior:    append([]string(nil), prior...),
		input:    input,
	}
	return &Program{
		Includes: u.includes,
		Prior:    u.prior,
		Input:    input,
		text:     u.write(),
	}, nil
}

// unitWriter renders one program in the fixed section order:
// header comment, harness headers, standard headers, caller includes,
// preamble, main.
type unitWriter struct {
	opts     Options
	includes []session.Header
	prior    []string
	input    session.Input
	b        strings.Builder
}

func (u *unitWriter) write() string {
	u.outputHeader()
	writeHarnessHeaders(&u.b)
	writeStandardHeaders(&u.b)
	u.outputIncludes()
	u.b.WriteString("\n")
	writePreamble(&u.b, u.opts)
	u.b.WriteString("\n")
	u.outputMain()
	return u.b.String()
}

func (u *unitWriter) outputHeader() {
	fmt.Fprintf(&u.b, "/* crepl session unit: %d prior statement(s), %s input. */\n", len(u.prior), u.input.Kind)
}

func (u *unitWriter) outputIncludes() {
	for _, h := range u.includes {
		u.b.WriteString(h.Directive())
		u.b.WriteString("\n")
	}
}

func (u *unitWriter) outputMain() {
	u.b.WriteString("int main(void) {\n")
	u.line(handleDecl(stdoutHandle, "stdout", "stdout", "STDOUT_FILENO"))
	u.line(handleDecl(stderrHandle, "stderr", "stderr", "STDERR_FILENO"))

	// suppress
	u.line(suppressCall(stdoutHandle))
	u.line(suppressCall(stderrHandle))

	// replay
	for _, stmt := range u.prior {
		u.line(stmt)
	}

	// resume
	u.line(resumeCall(stdoutHandle))
	u.line(resumeCall(stderrHandle))

	// reveal
	u.line(revealStatement(u.input))

	u.line("return 0;")
	u.b.WriteString("}\n")
}

// line writes one main-body entry. Only the first line is indented so
// multi-line fragments reach the compiler unchanged.
func (u *unitWriter) line(s string) {
	u.b.WriteString("  ")
	u.b.WriteString(s)
	if !strings.HasSuffix(s, "\n") {
		u.b.WriteString("\n")
	}
}

func handleDecl(varName, label, stream, fd string) string {
	return fmt.Sprintf("struct crepl_redirect %s = {.name = %q, .stream = %s, .fd = %s, .saved = -1};", varName, label, stream, fd)
}

func suppressCall(handle string) string {
	return "crepl_suppress(&" + handle + ");"
}

func resumeCall(handle string) string {
	return "crepl_resume(&" + handle + ");"
}

func revealStatement(in session.Input) string {
	if in.Kind == session.Expression {
		return "crepl_print((" + session.Enclose(in.ExpressionText(), "));")
	}
	return in.Text
}
