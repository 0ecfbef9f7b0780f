package cluster

import "fmt"

// Tag names a slot family in every worker's Mailbox.
type Tag uint8

const (
	// TagBarrier collects barrier arrivals at rank 0.
	TagBarrier Tag = iota + 1
	// TagRelease releases ranks waiting in a barrier.
	TagRelease
	// TagSamples gathers candidate pivots at rank 0.
	TagSamples
	// TagPivots carries the broadcast pivot list.
	TagPivots
	// TagBuckets receives exchange contributions, indexed by pack slot.
	TagBuckets
	// TagSequencer holds the output write token.
	TagSequencer

	tagCount
)

type tagKind struct {
	name string
	// indexed tags reject writes to slots the receiver has not declared.
	indexed bool
	// unique tags accept at most one write per (index, sender).
	unique bool
}

var tagKinds = [tagCount]tagKind{
	TagBarrier:   {name: "barrier"},
	TagRelease:   {name: "release"},
	TagSamples:   {name: "samples"},
	TagPivots:    {name: "pivots"},
	TagBuckets:   {name: "buckets", indexed: true, unique: true},
	TagSequencer: {name: "sequencer"},
}

// Valid reports whether t is one of the enumerated tags.
func (t Tag) Valid() bool { return t > 0 && t < tagCount }

func (t Tag) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tag(%d)", uint8(t))
	}
	return tagKinds[t].name
}

func (t Tag) kind() tagKind { return tagKinds[t] }
