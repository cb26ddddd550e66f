// Package executor compiles materialized programs with the host C compiler
// and runs them, classifying failures of the generated harness apart from
// failures of the user's code.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/crepl/internal/ctxlog"
	"github.com/specialistvlad/crepl/internal/materialize"
)

// Config controls how programs are compiled and run.
type Config struct {
	// CC is the compiler command. Defaults to "cc".
	CC string
	// CFlags are passed before the source file. Defaults to DefaultCFlags.
	CFlags []string
	// LDFlags are passed after the source file. Defaults to DefaultLDFlags.
	LDFlags []string
	// Timeout bounds a single run of a compiled program. Zero disables it.
	Timeout time.Duration
	// Workers bounds concurrent compiles in Speculate. Defaults to 2.
	Workers int
	// TempDir is where per-compile work directories are created. Empty
	// means os.TempDir().
	TempDir string
}

var (
	// DefaultCFlags selects a C dialect with _Generic and silences warnings
	// about the unused print helpers.
	DefaultCFlags = []string{"-std=gnu11", "-w"}
	// DefaultLDFlags links libm so math.h calls resolve.
	DefaultLDFlags = []string{"-lm"}
)

func (c Config) withDefaults() Config {
	if c.CC == "" {
		c.CC = "cc"
	}
	if c.CFlags == nil {
		c.CFlags = DefaultCFlags
	}
	if c.LDFlags == nil {
		c.LDFlags = DefaultLDFlags
	}
	if c.Workers <= 0 {
		c.Workers = 2
	}
	return c
}

// Executor compiles and runs programs. It is safe for concurrent use.
type Executor struct {
	cfg Config
}

// New creates an Executor.
func New(cfg Config) *Executor {
	return &Executor{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (e *Executor) Config() Config {
	return e.cfg
}

// Eval compiles prog, runs it once and removes the build artifacts.
func (e *Executor) Eval(ctx context.Context, prog *materialize.Program) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	bin, err := e.Compile(ctx, prog)
	if err != nil {
		return nil, err
	}
	dir := bin.dir
	defer func() {
		if cerr := bin.Close(); cerr != nil {
			logger.Warn("Failed to remove build directory.", "dir", dir, "error", cerr)
		}
	}()

	res, err := bin.Run(ctx)
	if err != nil {
		return res, fmt.Errorf("round failed: %w", err)
	}
	return res, nil
}
