package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/specialistvlad/crepl/internal/ctxlog"
	"github.com/specialistvlad/crepl/internal/executor"
	"github.com/specialistvlad/crepl/internal/materialize"
)

// ExitTimeout is the process status used when a program outlives its
// timeout, matching timeout(1).
const ExitTimeout = 124

// Run executes the configured mode.
func (a *App) Run(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	a.logger.Debug("App.Run method started.", "mode", a.config.Mode)

	var err error
	switch a.config.Mode {
	case ModeEmit:
		err = a.emit(ctx)
	case ModeRun:
		err = a.runSession(ctx)
	case ModeREPL:
		err = a.NewRepl().Loop(ctx)
	default:
		err = fmt.Errorf("unknown mode %q", a.config.Mode)
	}

	a.logger.Debug("App.Run method finished.", "error", err)
	return err
}

// loadProgram loads the configured session files and materializes their
// input against the prior statements.
func (a *App) loadProgram(ctx context.Context) (*materialize.Program, error) {
	logger := ctxlog.FromContext(ctx)

	model, err := a.loader.Load(ctx, a.config.SessionPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if model.Input == nil {
		return nil, errors.New(`session has no input block: add input "expression" or input "statement"`)
	}
	logger.Debug("Session loaded.", "files", len(model.Files), "statements", len(model.Statements), "includes", len(model.Includes))

	s := model.Session()
	prog, err := a.materializer.Materialize(s.Includes(), s.Statements(), *model.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to materialize session: %w", err)
	}
	return prog, nil
}

func (a *App) emit(ctx context.Context) error {
	prog, err := a.loadProgram(ctx)
	if err != nil {
		return err
	}

	if a.config.OutputPath == "" {
		_, err = a.outW.Write(prog.Bytes())
		return err
	}
	if err := os.WriteFile(a.config.OutputPath, prog.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", a.config.OutputPath, err)
	}
	a.logger.Info("Program written.", "path", a.config.OutputPath)
	return nil
}

func (a *App) runSession(ctx context.Context) error {
	prog, err := a.loadProgram(ctx)
	if err != nil {
		return err
	}

	res, err := a.executor.Eval(ctx, prog)
	a.forward(res, err)
	return err
}

// forward copies a round's output to the app's writers. Stdout of a round
// whose harness failed is dropped.
func (a *App) forward(res *executor.Result, err error) {
	if res == nil {
		return
	}
	var harnessErr *executor.HarnessError
	if !errors.As(err, &harnessErr) {
		_, _ = a.outW.Write(res.Stdout)
	}
	_, _ = a.errW.Write(res.Stderr)
}

// ExitCode maps an error returned by Run to a process exit status. The
// status of a program that ran is passed through.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, executor.ErrTimeout) {
		return ExitTimeout
	}

	var harnessErr *executor.HarnessError
	if errors.As(err, &harnessErr) {
		return harnessErr.Result.ExitCode
	}
	var exitErr *executor.ExitError
	if errors.As(err, &exitErr) && exitErr.Result.ExitCode > 0 {
		return exitErr.Result.ExitCode
	}
	return 1
}

// Reported reports whether the program already told the user about err on
// its own streams, so the caller need not print it again.
func Reported(err error) bool {
	var harnessErr *executor.HarnessError
	var exitErr *executor.ExitError
	return errors.As(err, &harnessErr) || errors.As(err, &exitErr)
}
