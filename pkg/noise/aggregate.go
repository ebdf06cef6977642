package noise

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// maxWorkers caps auto-detected parallelism. Observation scanning is
// I/O bound and gains nothing past this.
const maxWorkers = 32

// WorkerCount resolves a requested worker count. Zero auto-detects
// from the CPU count, capped at maxWorkers.
func WorkerCount(requested int) int {
	if requested > 0 {
		return requested
	}
	workers := runtime.NumCPU()
	if workers > maxWorkers {
		workers = maxWorkers
	}
	return workers
}

// AggregateSources folds every source into a single tally. With one
// worker the sources are scanned in order. With more, per-source
// tallies are built concurrently and merged, which yields identical
// counts because the fold is commutative. Any error discards the
// tally.
func AggregateSources(ctx context.Context, sources []Source, p Params) (SiteTally, *AggregateStats, error) {
	start := time.Now()
	workers := WorkerCount(p.Workers)

	tally := make(SiteTally)
	var observations int64

	if workers == 1 || len(sources) < 2 {
		for _, src := range sources {
			n, err := aggregateSource(ctx, src, p, tally)
			if err != nil {
				return nil, nil, err
			}
			observations += n
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)

		var mu sync.Mutex
		for _, src := range sources {
			g.Go(func() error {
				part := make(SiteTally)
				n, err := aggregateSource(gctx, src, p, part)
				if err != nil {
					return err
				}

				mu.Lock()
				tally.Merge(part)
				observations += n
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, nil, err
		}
	}

	stats := &AggregateStats{
		Sources:      len(sources),
		Observations: observations,
		Elapsed:      time.Since(start),
	}
	return tally, stats, nil
}

func aggregateSource(ctx context.Context, src Source, p Params, t SiteTally) (int64, error) {
	r, err := src.Open()
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", src.Name(), err)
	}
	defer r.Close()

	return AggregateReader(ctx, r, src.Name(), p, t)
}
