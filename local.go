package terasort

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/terasort/cluster"
	"github.com/hupe1980/terasort/cluster/local"
)

// RunLocal runs every rank of a sort as a goroutine of this process.
//
// The first failing rank cancels the others. Reports are indexed by rank;
// a rank that failed early may have a partial report.
func RunLocal(ctx context.Context, cfg Config, workers int, optFns ...Option) ([]*Report, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: %d workers", ErrInvalidConfig, workers)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(optFns)

	network := local.NewNetwork(workers, o.networkOptions...)
	defer network.Close()

	sorters := make([]*Sorter, workers)
	for rank := range sorters {
		comm := cluster.New(network.Transport(rank), cluster.WithResources(o.resources))
		s, err := New(cfg, comm, optFns...)
		if err != nil {
			return nil, err
		}
		sorters[rank] = s
	}

	reports := make([]*Report, workers)
	g, gctx := errgroup.WithContext(ctx)
	for rank, s := range sorters {
		g.Go(func() error {
			rep, err := s.Run(gctx)
			reports[rank] = rep
			return err
		})
	}
	return reports, g.Wait()
}
