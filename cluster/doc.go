// Package cluster is the coordination substrate shared by the sort workers.
//
// Every worker owns a Mailbox of named, indexed slots. Peers write into a
// worker's slots with one-sided puts carried by a Transport; the owner blocks
// on counting waits until enough writes have arrived. Collectives (barrier,
// broadcast, reduce) are built from the same puts and waits, so a Transport
// only has to move Envelopes.
//
// Slot names are the statically enumerated Tags. Indexed tags must be
// declared by the receiver before any peer writes to them, and tags marked
// unique accept at most one write per (index, sender) pair; arrivals are
// tracked per slot in a roaring bitmap.
//
// Waits never time out on their own. Give the context a deadline to bound
// them; without one a missing peer blocks the caller forever.
//
// Two transports are provided:
//
//   - cluster/local: all ranks as goroutines of one process
//   - cluster/grpcnet: one rank per process, connected over gRPC
package cluster
