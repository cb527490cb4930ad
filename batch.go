package neighbornet

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// RunBatch runs Run on every input concurrently, at most cfg.Workers at a
// time, for example over bootstrap replicates. Each pipeline owns its own
// scratch matrices and node arena, so nothing is shared between them.
// Results are in input order. The first failure cancels the remaining
// pipelines and is returned. cfg.Progress, if set, is called from several
// goroutines.
func RunBatch(ctx context.Context, inputs []Input, cfg Config) ([]*Result, error) {
	if err := prepareConfig(&cfg); err != nil {
		return nil, err
	}

	results := make([]*Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := checkCanceled(gctx, PhaseBatch); err != nil {
				return err
			}
			r, err := Run(gctx, in, cfg)
			if err != nil {
				return fmt.Errorf("neighbornet: batch input %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	cfg.Logger.Debug("neighbornet: batch complete", "inputs", len(inputs), "workers", cfg.Workers)
	return results, nil
}
