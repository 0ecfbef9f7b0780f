package cluster

import "context"

// Transport moves envelopes between ranks.
//
// Send returns once the envelope is stored in the destination's mailbox.
// Implementations must be safe for concurrent use.
type Transport interface {
	Rank() int
	Size() int
	Send(ctx context.Context, dest int, env Envelope) error
	Mailbox() *Mailbox
	Close() error
}
