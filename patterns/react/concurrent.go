package react

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// LoopFactory builds a fresh Loop for one run.
type LoopFactory func() (*Loop, error)

// RunConcurrently answers every query on its own Loop, running at most limit
// queries at a time (no limit when limit < 1). Results are in query order.
// The first setup or cancellation error cancels the remaining runs and is
// returned together with whatever results were produced.
func RunConcurrently(ctx context.Context, queries []string, newLoop LoopFactory, limit int) ([]*Result, error) {
	results := make([]*Result, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, query := range queries {
		g.Go(func() error {
			loop, err := newLoop()
			if err != nil {
				return err
			}
			result, err := loop.Run(ctx, query)
			results[i] = result
			return err
		})
	}

	err := g.Wait()
	return results, err
}
