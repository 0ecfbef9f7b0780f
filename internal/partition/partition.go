// Package partition assigns records to buckets and buckets to workers.
//
// With pivots p[0] < ... < p[B-2], bucket i holds the records r with
// p[i-1] <= r < p[i]; bucket 0 is unbounded below and bucket B-1 above.
package partition

import (
	"sort"

	"github.com/hupe1980/terasort/record"
)

// Bucket returns the number of pivots <= r.
func Bucket(pivots []record.Record, r record.Record) int {
	return sort.Search(len(pivots), func(i int) bool {
		return record.Compare(pivots[i], r) > 0
	})
}

// Partition distributes records into len(pivots)+1 buckets. Records keep
// their input order within a bucket and alias the input.
func Partition(pivots, records []record.Record) [][]record.Record {
	buckets := make([][]record.Record, len(pivots)+1)
	for _, r := range records {
		b := Bucket(pivots, r)
		buckets[b] = append(buckets[b], r)
	}
	return buckets
}
