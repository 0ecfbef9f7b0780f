// Package local connects ranks that run as goroutines of one process.
package local

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/terasort/cluster"
)

// Option configures a Network.
type Option func(*Network)

// WithJitter delays every delivery by a random duration in [0, max).
// Deliveries run concurrently, so jitter scrambles arrival order.
func WithJitter(max time.Duration, seed int64) Option {
	return func(n *Network) {
		n.maxJitter = max
		n.rng = rand.New(rand.NewSource(seed)) //nolint:gosec
	}
}

// Network is a set of in-process mailboxes, one per rank.
type Network struct {
	boxes  []*cluster.Mailbox
	closed atomic.Bool

	maxJitter time.Duration
	rngMu     sync.Mutex
	rng       *rand.Rand
}

// NewNetwork returns a network of size ranks.
func NewNetwork(size int, optFns ...Option) *Network {
	n := &Network{boxes: make([]*cluster.Mailbox, size)}
	for i := range n.boxes {
		n.boxes[i] = cluster.NewMailbox()
	}
	for _, fn := range optFns {
		fn(n)
	}
	return n
}

// Size returns the number of ranks.
func (n *Network) Size() int { return len(n.boxes) }

// Transport returns the endpoint for rank.
func (n *Network) Transport(rank int) *Transport {
	return &Transport{net: n, rank: rank}
}

// Close makes every later Send fail with cluster.ErrClosed.
func (n *Network) Close() error {
	n.closed.Store(true)
	return nil
}

func (n *Network) jitter() time.Duration {
	if n.maxJitter <= 0 {
		return 0
	}
	n.rngMu.Lock()
	defer n.rngMu.Unlock()
	return time.Duration(n.rng.Int63n(int64(n.maxJitter)))
}

// Transport is one rank's endpoint on a Network.
type Transport struct {
	net  *Network
	rank int
}

var _ cluster.Transport = (*Transport)(nil)

func (t *Transport) Rank() int { return t.rank }

func (t *Transport) Size() int { return t.net.Size() }

func (t *Transport) Mailbox() *cluster.Mailbox { return t.net.boxes[t.rank] }

// Send copies the payload and delivers it to dest's mailbox.
func (t *Transport) Send(ctx context.Context, dest int, env cluster.Envelope) error {
	if t.net.closed.Load() {
		return cluster.ErrClosed
	}
	if dest < 0 || dest >= t.net.Size() {
		return fmt.Errorf("%w: %d", cluster.ErrRankOutOfRange, dest)
	}
	if d := t.net.jitter(); d > 0 {
		timer := time.NewTimer(d)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	env.Payload = bytes.Clone(env.Payload)
	return t.net.boxes[dest].Deliver(env)
}

// Close is a no-op; close the Network to stop all ranks.
func (t *Transport) Close() error { return nil }
