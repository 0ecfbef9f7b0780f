// Package pivot turns the workers' samples into the global pivot list.
package pivot

import (
	"context"
	"fmt"
	"slices"

	"github.com/hupe1980/terasort/cluster"
	"github.com/hupe1980/terasort/record"
)

// Select deduplicates and sorts samples, then picks min(p, u)-1 pivots at
// indices i*max(u/p, 1) for i in [1, min(p, u)), where u is the number of
// distinct samples. The input is not modified.
func Select(samples []record.Record, p int) []record.Record {
	uniq := slices.Clone(samples)
	record.Sort(uniq)
	uniq = slices.CompactFunc(uniq, record.Equal)

	u := len(uniq)
	n := min(p, u) - 1
	if n <= 0 {
		return nil
	}
	step := max(u/p, 1)
	pivots := make([]record.Record, n)
	for i := 1; i <= n; i++ {
		pivots[i-1] = uniq[i*step]
	}
	return pivots
}

// Aggregate gathers every rank's samples at the coordinator, selects pivots
// there and broadcasts them. Every rank returns the same list.
//
// It starts with a barrier so no rank's samples arrive before the
// coordinator has entered the gather.
func Aggregate(ctx context.Context, c *cluster.Comm, format record.Format, local []record.Record) ([]record.Record, error) {
	if err := c.Barrier(ctx); err != nil {
		return nil, fmt.Errorf("pivot: barrier: %w", err)
	}

	gathered, ok, err := c.Reduce(ctx, cluster.TagSamples, record.Encode(local), cluster.Concat)
	if err != nil {
		return nil, fmt.Errorf("pivot: gather samples: %w", err)
	}

	var payload []byte
	if ok {
		samples, err := format.Decode(gathered)
		if err != nil {
			return nil, fmt.Errorf("pivot: decode samples: %w", err)
		}
		payload = record.Encode(Select(samples, c.Size()))
	}

	got, err := c.Broadcast(ctx, cluster.TagPivots, payload)
	if err != nil {
		return nil, fmt.Errorf("pivot: broadcast: %w", err)
	}
	pivots, err := format.Decode(got)
	if err != nil {
		return nil, fmt.Errorf("pivot: decode pivots: %w", err)
	}
	return pivots, nil
}
