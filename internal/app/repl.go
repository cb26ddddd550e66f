package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/peterh/liner"

	"github.com/specialistvlad/crepl/internal/config"
	"github.com/specialistvlad/crepl/internal/ctxlog"
	"github.com/specialistvlad/crepl/internal/executor"
	"github.com/specialistvlad/crepl/internal/materialize"
	"github.com/specialistvlad/crepl/internal/session"
)

const (
	promptMain = "c> "
	promptCont = "..> "
)

const replHelp = `Enter a C expression to print its value, or a statement to run it.
Earlier inputs are replayed silently before each new one.

  #include <h>   add a header to the session
  :show [EXPR]   print the program EXPR would produce (default 0)
  :reset         forget all statements and headers
  :save FILE     write the session as a session file
  :load PATH...  replace the session with the given session files
  :help          show this help
  :quit, :q      leave
`

// ErrUnknownCommand is returned for a ':' command the REPL does not know.
var ErrUnknownCommand = errors.New("unknown command, type :help")

// Repl holds the state of one interactive session.
type Repl struct {
	app     *App
	session *session.Session
}

// NewRepl creates a REPL with an empty session.
func (a *App) NewRepl() *Repl {
	return &Repl{app: a, session: session.New()}
}

// Session returns the accumulated session state.
func (r *Repl) Session() *session.Session {
	return r.session
}

// Loop reads inputs with line editing until EOF, :quit or ctx is done.
func (r *Repl) Loop(ctx context.Context) error {
	ctx = r.app.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// Ctrl-C while a program runs interrupts the program, not the REPL.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt)
	defer func() {
		signal.Stop(sigc)
		close(sigc)
	}()
	go func() {
		for range sigc {
		}
	}()

	if path := r.app.config.HistoryPath; path != "" {
		if f, err := os.Open(path); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(path)
			if err != nil {
				logger.Warn("Failed to save history.", "path", path, "error", err)
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	fmt.Fprintln(r.app.outW, "crepl: type :help for commands.")
	for ctx.Err() == nil {
		src, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(r.app.outW)
			break
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		quit, err := r.Handle(ctx, src)
		var harnessErr *executor.HarnessError
		if err != nil && !errors.As(err, &harnessErr) {
			fmt.Fprintln(r.app.errW, err)
		}
		if quit {
			break
		}
	}
	return nil
}

// readInput reads one logical input, prompting for continuation lines
// while brackets are open. ok is false on EOF.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !needsMore(b.String()) {
			return b.String(), true
		}
	}
}

// needsMore reports whether src has unclosed brackets outside of string
// and character literals and comments.
func needsMore(src string) bool {
	depth := 0
	for i := 0; i < len(src); i++ {
		switch c := src[i]; c {
		case '"', '\'':
			for i++; i < len(src) && src[i] != c; i++ {
				if src[i] == '\\' {
					i++
				}
			}
		case '/':
			if i+1 >= len(src) {
				break
			}
			if src[i+1] == '/' {
				for i < len(src) && src[i] != '\n' {
					i++
				}
			} else if src[i+1] == '*' {
				end := strings.Index(src[i+2:], "*/")
				if end < 0 {
					return true
				}
				i += end + 3
			}
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
	}
	return depth > 0
}

// Handle evaluates one input. Program output is written as it is produced;
// quit is true when the user asked to leave. A returned error means the
// session was left unchanged.
func (r *Repl) Handle(ctx context.Context, src string) (quit bool, err error) {
	ctx = r.app.withLogger(ctx)
	text := strings.TrimSpace(src)

	switch {
	case text == "":
		return false, nil
	case strings.HasPrefix(text, ":"):
		return r.command(ctx, text)
	case strings.HasPrefix(text, "#"):
		return false, r.include(ctx, text)
	default:
		return false, r.eval(ctx, text)
	}
}

func (r *Repl) command(ctx context.Context, text string) (bool, error) {
	name, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":quit", ":q":
		return true, nil
	case ":help":
		fmt.Fprint(r.app.outW, replHelp)
	case ":reset":
		r.session.Reset()
		ctxlog.FromContext(ctx).Debug("Session reset.")
		fmt.Fprintln(r.app.outW, "session cleared")
	case ":show":
		if arg == "" {
			arg = "0"
		}
		prog, err := r.app.materializer.Materialize(r.session.Includes(), r.session.Statements(), session.ExpressionInput(arg))
		if err != nil {
			return false, err
		}
		_, err = r.app.outW.Write(prog.Bytes())
		return false, err
	case ":save":
		return false, r.save(ctx, arg)
	case ":load":
		return false, r.load(ctx, strings.Fields(arg))
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return false, nil
}

func (r *Repl) save(ctx context.Context, path string) error {
	if path == "" {
		return errors.New(":save needs a file name")
	}
	saver, ok := r.app.loader.(config.Saver)
	if !ok {
		return errors.New("session saving is not supported by this loader")
	}
	if err := saver.Save(ctx, path, config.NewModel(r.session)); err != nil {
		return err
	}
	fmt.Fprintf(r.app.outW, "saved %d statement(s) to %s\n", r.session.Len(), path)
	return nil
}

// load replaces the session with the content of session files. An input
// block in them is ignored.
func (r *Repl) load(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return errors.New(":load needs at least one path")
	}
	model, err := r.app.loader.Load(ctx, paths...)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if model.Input != nil {
		ctxlog.FromContext(ctx).Info("Ignoring input block of loaded session.", "kind", model.Input.Kind)
	}

	r.session.Reset()
	r.session.AddIncludes(model.Includes...)
	r.session.Append(model.Statements...)
	fmt.Fprintf(r.app.outW, "loaded %d statement(s)\n", r.session.Len())
	return nil
}

// include adds a header after checking that the session still compiles
// with it.
func (r *Repl) include(ctx context.Context, text string) error {
	h, ok := session.ParseHeader(text)
	if !ok {
		return fmt.Errorf("only #include directives are supported, got %q", text)
	}

	includes := r.session.Includes()
	if includes.Add(h.Directive()) == 0 {
		return nil
	}
	prog, err := r.app.materializer.Materialize(includes, r.session.Statements(), session.ExpressionInput("0"))
	if err != nil {
		return err
	}
	bin, err := r.app.executor.Compile(ctx, prog)
	if err != nil {
		return err
	}
	if err := bin.Close(); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to remove build directory.", "error", err)
	}

	r.session.AddIncludes(h.Directive())
	return nil
}

// candidates returns the inputs text may be, most preferred first.
func candidates(text string) []session.Input {
	if strings.HasSuffix(text, ";") || strings.HasSuffix(text, "}") {
		return []session.Input{session.StatementInput(text)}
	}
	return []session.Input{session.ExpressionInput(text), session.StatementInput(session.Enclose(text, ";"))}
}

func (r *Repl) eval(ctx context.Context, text string) error {
	logger := ctxlog.FromContext(ctx)
	includes := r.session.Includes()
	prior := r.session.Statements()

	inputs := candidates(text)
	progs := make([]*materialize.Program, 0, len(inputs))
	for _, in := range inputs {
		prog, err := r.app.materializer.Materialize(includes, prior, in)
		if err != nil {
			return err
		}
		progs = append(progs, prog)
	}

	idx, bin, err := r.app.executor.Speculate(ctx, progs...)
	if err != nil {
		// Report the most preferred reading's diagnostics.
		var compileErr *executor.CompileError
		if errors.As(err, &compileErr) {
			return compileErr
		}
		return err
	}
	defer func() {
		if cerr := bin.Close(); cerr != nil {
			logger.Warn("Failed to remove build directory.", "error", cerr)
		}
	}()

	chosen := inputs[idx]
	logger.Debug("Input classified.", "kind", chosen.Kind)

	res, err := bin.Run(ctx)
	r.app.forward(res, err)
	if err != nil {
		return err
	}

	r.session.Append(chosen.AsReplay())
	return nil
}
