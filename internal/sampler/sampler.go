// Package sampler picks evenly spaced candidate pivots from a worker's share
// of the input.
package sampler

import (
	"context"
	"fmt"

	"github.com/hupe1980/terasort/record"
)

// Range is a half-open interval [Start, End) of record indices.
type Range struct {
	Start int64
	End   int64
}

// Len returns the number of records in the range.
func (r Range) Len() int64 { return r.End - r.Start }

// Split returns rank's share of total records among p workers. Shares are
// contiguous and differ by at most one record; the remainder goes to the
// lowest ranks.
func Split(total int64, rank, p int) Range {
	q, rem := total/int64(p), total%int64(p)
	r := int64(rank)
	start := r*q + min(r, rem)
	count := q
	if r < rem {
		count++
	}
	return Range{Start: start, End: start + count}
}

// SamplesForRank returns rank's part of a global sample budget. The parts
// sum to sampleSize and differ by at most one.
func SamplesForRank(sampleSize int64, rank, p int) int64 {
	return (sampleSize + int64(p) - int64(rank+1)) / int64(p)
}

// Positions returns the record indices Sample reads: k indices starting at
// rng.Start with step Len/k. When k exceeds Len the step is zero and every
// position is rng.Start. An empty range yields no positions.
func Positions(rng Range, k int64) []int64 {
	if k <= 0 || rng.Len() <= 0 {
		return nil
	}
	step := rng.Len() / k
	out := make([]int64, k)
	for i := range out {
		out[i] = rng.Start + int64(i)*step
	}
	return out
}

// RecordReader reads single records by index.
type RecordReader interface {
	ReadRecord(ctx context.Context, i int64) (record.Record, error)
}

// Sample reads the records at Positions(rng, k). Duplicates are kept.
func Sample(ctx context.Context, rd RecordReader, rng Range, k int64) ([]record.Record, error) {
	pos := Positions(rng, k)
	out := make([]record.Record, 0, len(pos))
	for _, i := range pos {
		r, err := rd.ReadRecord(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("sampler: read record %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}
