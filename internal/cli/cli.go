package cli

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/crepl/internal/app"
	"github.com/specialistvlad/crepl/internal/materialize"
)

const (
	appName     = "crepl"
	historyFile = ".crepl_history"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// flags holds the raw values bound to the command tree.
type flags struct {
	logFormat string
	logLevel  string
	cc        string
	cflags    []string
	ldflags   []string
	timeout   time.Duration
	workers   int
	sink      string
	output    string
	history   string
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var chosen *app.Config
	f := &flags{}
	root := newRootCmd(f, func(cmd *cobra.Command, mode app.Mode, paths []string) error {
		cfg, err := f.config(cmd, mode, paths)
		if err != nil {
			return err
		}
		chosen = cfg
		return nil
	})
	root.SetArgs(args)
	root.SetOut(output)
	root.SetErr(output)

	if err := root.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if chosen == nil {
		// Help or version output was printed.
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "mode", chosen.Mode)
	return chosen, false, nil
}

type selectFunc func(cmd *cobra.Command, mode app.Mode, paths []string) error

func newRootCmd(f *flags, sel selectFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "An interactive C REPL that replays a session silently before each input",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       "0.1.0",
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.logLevel, "log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&f.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&f.cc, "cc", os.Getenv("CC"), "C compiler command (default $CC or cc)")
	pf.StringArrayVar(&f.cflags, "cflags", nil, "compiler flag placed before the source, repeatable (default -std=gnu11 -w)")
	pf.StringArrayVar(&f.ldflags, "ldflags", nil, "linker flag placed after the source, repeatable (default -lm)")
	pf.DurationVar(&f.timeout, "timeout", 10*time.Second, "limit on each program run, 0 disables it")
	pf.IntVar(&f.workers, "workers", 2, "concurrent compiler processes when classifying input")
	pf.StringVar(&f.sink, "sink", materialize.DefaultDiscardSink, "path suppressed output is written to")

	emit := &cobra.Command{
		Use:   "emit SESSION...",
		Short: "Print the C program a session materializes to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sel(cmd, app.ModeEmit, args)
		},
	}
	emit.Flags().StringVarP(&f.output, "output", "o", "", "write the program to a file instead of stdout")

	run := &cobra.Command{
		Use:   "run SESSION...",
		Short: "Compile and run a session, exiting with the program's status",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sel(cmd, app.ModeRun, args)
		},
	}

	repl := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return sel(cmd, app.ModeREPL, nil)
		},
	}
	repl.Flags().StringVar(&f.history, "history", defaultHistoryPath(), "history file, empty disables history")

	root.AddCommand(emit, run, repl)
	return root
}

func (f *flags) config(cmd *cobra.Command, mode app.Mode, paths []string) (*app.Config, error) {
	logFormat := strings.ToLower(f.logFormat)
	logLevel := strings.ToLower(f.logLevel)

	cfg := app.Config{
		Mode:         mode,
		SessionPaths: paths,
		OutputPath:   f.output,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		CC:           f.cc,
		Timeout:      f.timeout,
		Workers:      f.workers,
		DiscardSink:  f.sink,
		HistoryPath:  f.history,
	}
	if cmd.Flags().Changed("cflags") {
		cfg.CFlags = f.cflags
	}
	if cmd.Flags().Changed("ldflags") {
		cfg.LDFlags = f.ldflags
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return config, nil
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFile)
}
