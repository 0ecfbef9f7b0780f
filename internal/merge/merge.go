// Package merge orders the contributions a worker received for each of its
// pack slots.
package merge

import (
	"github.com/hupe1980/terasort/record"
)

// Merge flattens one slot's per-source contributions and sorts them.
func Merge(sources [][]record.Record) []record.Record {
	n := 0
	for _, s := range sources {
		n += len(s)
	}
	out := make([]record.Record, 0, n)
	for _, s := range sources {
		out = append(out, s...)
	}
	record.Sort(out)
	return out
}

// MergeAll merges every slot of grid[slot][source]. Slots stay separate and
// keep their order.
func MergeAll(grid [][][]record.Record) [][]record.Record {
	out := make([][]record.Record, len(grid))
	for slot, sources := range grid {
		out[slot] = Merge(sources)
	}
	return out
}

// Count returns the number of records across slots.
func Count(slots [][]record.Record) int64 {
	var n int64
	for _, s := range slots {
		n += int64(len(s))
	}
	return n
}
