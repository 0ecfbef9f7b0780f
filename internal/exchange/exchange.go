// Package exchange moves buckets to their owners.
//
// Every worker sends exactly one contribution, possibly empty, for every
// bucket. The owner stores the contribution in the (pack slot, source) cell
// of its receive grid and counts P arrivals per slot before merging.
package exchange

import (
	"context"
	"fmt"

	"github.com/hupe1980/terasort/cluster"
	"github.com/hupe1980/terasort/internal/partition"
	"github.com/hupe1980/terasort/record"
)

// Stats summarizes one worker's sends.
type Stats struct {
	Records       int64
	Bytes         int64
	LocalBuckets  int
	RemoteBuckets int
}

// Exchanger runs the bucket exchange for one rank.
type Exchanger struct {
	comm   *cluster.Comm
	layout partition.Layout
	format record.Format
}

// New returns an exchanger for comm's rank.
func New(comm *cluster.Comm, layout partition.Layout, format record.Format) *Exchanger {
	return &Exchanger{comm: comm, layout: layout, format: format}
}

// Owned returns the number of pack slots this rank receives.
func (e *Exchanger) Owned() int { return e.layout.Owned(e.comm.Rank()) }

// Prepare declares fresh local receive slots and waits until every rank has
// done so. No contribution may be sent before Prepare returns. Slots left by
// an earlier exchange on the same comm are discarded.
func (e *Exchanger) Prepare(ctx context.Context) error {
	if err := e.comm.Mailbox().Declare(cluster.TagBuckets, e.Owned()); err != nil {
		return fmt.Errorf("exchange: declare slots: %w", err)
	}
	if err := e.comm.Barrier(ctx); err != nil {
		return fmt.Errorf("exchange: barrier: %w", err)
	}
	return nil
}

// Send delivers every bucket to its owner and returns once all puts are done.
// Remote puts run concurrently; a bucket owned by this rank is stored
// directly.
func (e *Exchanger) Send(ctx context.Context, buckets [][]record.Record) (Stats, error) {
	if len(buckets) != e.layout.Buckets {
		return Stats{}, fmt.Errorf("exchange: have %d buckets, layout has %d", len(buckets), e.layout.Buckets)
	}

	var (
		stats   Stats
		futures []*cluster.Future
		rank    = e.comm.Rank()
	)
	for i, b := range buckets {
		dest, slot := e.layout.Locate(i)
		payload := record.Encode(b)
		stats.Records += int64(len(b))
		stats.Bytes += int64(len(payload))

		if dest == rank {
			stats.LocalBuckets++
			if err := e.comm.PutLocal(cluster.TagBuckets, slot, payload); err != nil {
				return stats, fmt.Errorf("exchange: store bucket %d: %w", i, err)
			}
			continue
		}
		stats.RemoteBuckets++
		futures = append(futures, e.comm.AsyncPut(ctx, dest, cluster.TagBuckets, slot, payload))
	}

	if err := cluster.WaitAll(ctx, futures); err != nil {
		return stats, fmt.Errorf("exchange: send buckets: %w", err)
	}
	return stats, nil
}

// Collect waits for every rank's contribution to every owned slot and returns
// them as grid[slot][source].
func (e *Exchanger) Collect(ctx context.Context) ([][][]record.Record, error) {
	p := e.comm.Size()
	grid := make([][][]record.Record, e.Owned())
	for slot := range grid {
		if err := e.comm.WaitFor(ctx, cluster.TagBuckets, slot, p); err != nil {
			return nil, fmt.Errorf("exchange: wait for slot %d: %w", slot, err)
		}
		grid[slot] = make([][]record.Record, p)
		for _, d := range e.comm.Take(cluster.TagBuckets, slot) {
			recs, err := e.format.Decode(d.Payload)
			if err != nil {
				return nil, fmt.Errorf("exchange: slot %d from rank %d: %w", slot, d.Sender, err)
			}
			grid[slot][d.Sender] = recs
		}
	}
	return grid, nil
}
