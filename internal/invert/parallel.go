package invert

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// sweepParallel splits the axis range [-h, h] into contiguous chunks, one
// worker per chunk. Each worker owns a private LocalMinima — a valid
// partial result — so the sweep shares no mutable state; partials merge in
// worker (axis-range) order after Wait, which reproduces the serial
// tie-break exactly.
func (s *FibonacciLattice) sweepParallel(ctx context.Context, sol *Solution, h int, minima *LocalMinima) error {
	workers := s.params.Workers
	total := 2*h + 1
	if workers > total {
		workers = total
	}
	chunk := (total + workers - 1) / workers

	partials := make([]*LocalMinima, workers)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for w := 0; w < workers; w++ {
		lo := -h + w*chunk
		hi := lo + chunk - 1
		if hi > h {
			hi = h
		}
		part := NewLocalMinima(s.params.LocalMinima)
		partials[w] = part
		g.Go(func() error {
			return s.sweepRange(gctx, sol, lo, hi, part)
		})
	}
	err := g.Wait()

	// An early exit cancels the group, but every partial still holds valid
	// candidates — including the zero-misfit one that triggered it.
	for _, part := range partials {
		minima.Merge(part)
	}

	if err != nil && errors.Is(err, context.Canceled) && ctx.Err() == nil {
		// Workers canceled by a sibling's early exit, not by the caller.
		return errEarlyExit
	}
	return err
}
