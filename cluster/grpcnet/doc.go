// Package grpcnet connects ranks running in separate processes over gRPC.
//
// Each rank serves the Mailbox service from proto/mailbox.proto: a single
// unary Deliver RPC that stores an envelope in the rank's mailbox. Calls wait
// for the peer to become ready, which lets ranks start in any order.
package grpcnet

//go:generate protoc -I proto --go_out=proto/mailboxpb --go_opt=paths=source_relative --go-grpc_out=proto/mailboxpb --go-grpc_opt=paths=source_relative mailbox.proto
