package executor

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/crepl/internal/ctxlog"
	"github.com/specialistvlad/crepl/internal/materialize"
)

// Speculate compiles every candidate concurrently and returns the index and
// binary of the first candidate, in argument order, that compiled. All
// other binaries are closed. When none compile, the returned error joins
// every candidate's *CompileError.
func (e *Executor) Speculate(ctx context.Context, candidates ...*materialize.Program) (int, *Binary, error) {
	logger := ctxlog.FromContext(ctx)
	if len(candidates) == 0 {
		return -1, nil, errors.New("no candidates to compile")
	}

	bins := make([]*Binary, len(candidates))
	errs := make([]error, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, prog := range candidates {
		g.Go(func() error {
			bin, err := e.Compile(gctx, prog)
			if err != nil {
				var compileErr *CompileError
				if !errors.As(err, &compileErr) {
					// Infrastructure failures abort the whole attempt.
					return err
				}
				errs[i] = err
				return nil
			}
			bins[i] = bin
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		closeAll(bins)
		return -1, nil, fmt.Errorf("speculative compile aborted: %w", err)
	}

	chosen := -1
	for i, bin := range bins {
		if bin != nil {
			chosen = i
			break
		}
	}
	if chosen < 0 {
		return -1, nil, errors.Join(errs...)
	}

	for i, bin := range bins {
		if i != chosen && bin != nil {
			if err := bin.Close(); err != nil {
				logger.Warn("Failed to remove unused candidate.", "index", i, "error", err)
			}
		}
	}
	logger.Debug("Speculative compile chose candidate.", "index", chosen, "kind", candidates[chosen].Input.Kind)
	return chosen, bins[chosen], nil
}

func closeAll(bins []*Binary) {
	for _, bin := range bins {
		_ = bin.Close()
	}
}
