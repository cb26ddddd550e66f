package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/crepl/internal/config"
	"github.com/specialistvlad/crepl/internal/ctxlog"
	"github.com/specialistvlad/crepl/internal/executor"
	"github.com/specialistvlad/crepl/internal/materialize"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW         io.Writer
	errW         io.Writer
	logger       *slog.Logger
	config       *Config
	loader       config.Loader
	materializer *materialize.Materializer
	executor     *executor.Executor
}

// NewApp is the constructor for the main application. Program output goes
// to outW; diagnostics and logs go to errW.
func NewApp(outW, errW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, errW)
	logger.Debug("Logger configured successfully.")

	mat := materialize.New(materialize.Options{DiscardSink: appConfig.DiscardSink})
	exe := executor.New(executor.Config{
		CC:      appConfig.CC,
		CFlags:  appConfig.CFlags,
		LDFlags: appConfig.LDFlags,
		Timeout: appConfig.Timeout,
		Workers: appConfig.Workers,
	})
	logger.Debug("Executor configured.", "cc", exe.Config().CC, "workers", exe.Config().Workers, "timeout", appConfig.Timeout)

	return &App{
		outW:         outW,
		errW:         errW,
		logger:       logger,
		config:       appConfig,
		loader:       loader,
		materializer: mat,
		executor:     exe,
	}
}

// withLogger returns ctx carrying the app's logger.
func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
