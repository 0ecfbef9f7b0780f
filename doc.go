// Package terasort sorts a flat file of fixed-width records with P
// cooperating workers.
//
// Every worker runs the same program on its own rank:
//
//  1. sample evenly spaced records from its share of the input
//  2. agree on P-1 pivots at rank 0 and receive them by broadcast
//  3. partition its share into buckets by pivot
//  4. exchange buckets so each worker holds a contiguous pack of them
//  5. sort each received bucket
//  6. append its buckets to the output while holding a token that
//     travels the ring of ranks
//
// The output is globally ordered because packs are contiguous and the token
// visits ranks in ascending order.
//
// # Quick Start
//
// All ranks in one process:
//
//	cfg := terasort.Config{InputPath: "in.dat", OutputPath: "out.dat", SampleSize: 1000}
//	reports, err := terasort.RunLocal(ctx, cfg, 8)
//
// One rank per process over gRPC:
//
//	tr, _ := grpcnet.Listen(grpcnet.Config{Rank: rank, Peers: peers})
//	s, _ := terasort.New(cfg, cluster.New(tr))
//	report, err := s.Run(ctx)
//
// # Failure Model
//
// There is none beyond reporting. Any I/O or transport error aborts the
// worker that saw it. A worker that dies leaves its peers blocked, unless the
// context carries a deadline or WithTokenLease bounds the output phase.
package terasort
