package automation

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/odekit/internal/config"
	"github.com/san-kum/odekit/internal/problems"
)

// RunEnsemble solves independent configs concurrently with at most workers
// solves in flight. Results keep the order of cfgs. The first failure cancels
// solves that have not started yet.
func RunEnsemble(ctx context.Context, registry *problems.Registry, cfgs []*config.Config, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(cfgs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, cfg := range cfgs {
		i, cfg := i, cfg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := Solve(registry, cfg)
			if err != nil {
				return fmt.Errorf("ensemble member %d (%s): %w", i, cfg.Problem, err)
			}
			results[i] = *res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
