package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/specialistvlad/crepl/internal/ctxlog"
	"github.com/specialistvlad/crepl/internal/materialize"
)

const (
	sourceName = "unit.c"
	binaryName = "unit"
)

// Binary is a compiled program. Close removes it from disk.
type Binary struct {
	Program *materialize.Program
	Path    string

	dir     string
	timeout time.Duration
}

// Compile writes prog to a fresh work directory and builds it.
func (e *Executor) Compile(ctx context.Context, prog *materialize.Program) (*Binary, error) {
	logger := ctxlog.FromContext(ctx)

	dir, err := os.MkdirTemp(e.cfg.TempDir, "crepl-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create build directory: %w", err)
	}

	src := filepath.Join(dir, sourceName)
	if err := os.WriteFile(src, prog.Bytes(), 0o600); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to write %s: %w", src, err)
	}

	out := filepath.Join(dir, binaryName)
	args := make([]string, 0, len(e.cfg.CFlags)+len(e.cfg.LDFlags)+3)
	args = append(args, e.cfg.CFlags...)
	args = append(args, "-o", out, src)
	args = append(args, e.cfg.LDFlags...)

	logger.Debug("Compiling candidate unit.", "cc", e.cfg.CC, "dir", dir, "kind", prog.Input.Kind)
	var combined bytes.Buffer
	cmd := exec.CommandContext(ctx, e.cfg.CC, args...)
	cmd.Stdout = &combined
	cmd.Stderr = &combined
	if err := cmd.Run(); err != nil {
		os.RemoveAll(dir)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Debug("Compilation failed.", "kind", prog.Input.Kind, "error", err)
		return nil, &CompileError{Output: combined.String(), Err: err}
	}
	logger.Debug("Compilation succeeded.", "binary", out)

	return &Binary{
		Program: prog,
		Path:    out,
		dir:     dir,
		timeout: e.cfg.Timeout,
	}, nil
}

// Close removes the binary's work directory.
func (b *Binary) Close() error {
	if b == nil || b.dir == "" {
		return nil
	}
	err := os.RemoveAll(b.dir)
	b.dir = ""
	return err
}
