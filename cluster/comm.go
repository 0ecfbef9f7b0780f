package cluster

import (
	"context"
	"fmt"

	"github.com/hupe1980/terasort/resource"
)

// Coordinator is the rank that gathers barrier arrivals and reductions.
const Coordinator = 0

// Option configures a Comm.
type Option func(*Comm)

// WithResources bounds in-flight AsyncPuts by the controller's put limit.
func WithResources(rc *resource.Controller) Option {
	return func(c *Comm) { c.rc = rc }
}

// Comm provides puts, waits and collectives for one rank.
type Comm struct {
	t  Transport
	rc *resource.Controller
}

// New returns a Comm over t.
func New(t Transport, optFns ...Option) *Comm {
	c := &Comm{t: t}
	for _, fn := range optFns {
		fn(c)
	}
	return c
}

// Rank returns this worker's rank.
func (c *Comm) Rank() int { return c.t.Rank() }

// Size returns the number of workers.
func (c *Comm) Size() int { return c.t.Size() }

// Mailbox returns the local mailbox.
func (c *Comm) Mailbox() *Mailbox { return c.t.Mailbox() }

// Close closes the underlying transport.
func (c *Comm) Close() error { return c.t.Close() }

// Put writes payload into dest's (tag, index) slot and returns once stored.
// Writes to the local rank skip the transport.
func (c *Comm) Put(ctx context.Context, dest int, tag Tag, index int, payload []byte) error {
	if dest == c.Rank() {
		return c.PutLocal(tag, index, payload)
	}
	if dest < 0 || dest >= c.Size() {
		return fmt.Errorf("%w: %d of %d", ErrRankOutOfRange, dest, c.Size())
	}
	return c.t.Send(ctx, dest, Envelope{
		Tag:     tag,
		Index:   index,
		Sender:  c.Rank(),
		Payload: payload,
	})
}

// AsyncPut starts a Put and returns its future. It blocks while the
// controller's in-flight put limit is reached.
func (c *Comm) AsyncPut(ctx context.Context, dest int, tag Tag, index int, payload []byte) *Future {
	f := newFuture()
	if err := c.rc.AcquirePut(ctx); err != nil {
		f.complete(err)
		return f
	}
	go func() {
		defer c.rc.ReleasePut()
		f.complete(c.Put(ctx, dest, tag, index, payload))
	}()
	return f
}

// PutLocal writes payload into the local (tag, index) slot as this rank.
func (c *Comm) PutLocal(tag Tag, index int, payload []byte) error {
	return c.Mailbox().Deliver(Envelope{
		Tag:     tag,
		Index:   index,
		Sender:  c.Rank(),
		Payload: payload,
	})
}

// GetLocal reads what sender last wrote into the local (tag, index) slot.
func (c *Comm) GetLocal(tag Tag, index, sender int) ([]byte, bool) {
	return c.Mailbox().Get(tag, index, sender)
}

// WaitFor blocks until count writes to the local (tag, index) slot have
// arrived and consumes them.
func (c *Comm) WaitFor(ctx context.Context, tag Tag, index, count int) error {
	return c.Mailbox().Wait(ctx, tag, index, count)
}

// Take drains the local (tag, index) slot, ordered by sender.
func (c *Comm) Take(tag Tag, index int) []Delivery {
	return c.Mailbox().Take(tag, index)
}

// Barrier returns once every rank has entered it.
func (c *Comm) Barrier(ctx context.Context) error {
	if err := c.Put(ctx, Coordinator, TagBarrier, 0, nil); err != nil {
		return fmt.Errorf("cluster: barrier arrive: %w", err)
	}
	if c.Rank() == Coordinator {
		if err := c.WaitFor(ctx, TagBarrier, 0, c.Size()); err != nil {
			return err
		}
		for dest := 0; dest < c.Size(); dest++ {
			if err := c.Put(ctx, dest, TagRelease, 0, nil); err != nil {
				return fmt.Errorf("cluster: barrier release rank %d: %w", dest, err)
			}
		}
	}
	return c.WaitFor(ctx, TagRelease, 0, 1)
}

// Broadcast sends the coordinator's payload to every rank and returns it.
// Non-coordinator ranks pass nil.
func (c *Comm) Broadcast(ctx context.Context, tag Tag, payload []byte) ([]byte, error) {
	if c.Rank() == Coordinator {
		for dest := 0; dest < c.Size(); dest++ {
			if err := c.Put(ctx, dest, tag, 0, payload); err != nil {
				return nil, fmt.Errorf("cluster: broadcast %s to rank %d: %w", tag, dest, err)
			}
		}
	}
	if err := c.WaitFor(ctx, tag, 0, 1); err != nil {
		return nil, err
	}
	for _, d := range c.Take(tag, 0) {
		if d.Sender == Coordinator {
			return d.Payload, nil
		}
	}
	return nil, fmt.Errorf("cluster: broadcast %s: no payload from coordinator", tag)
}

// ReduceFunc folds next into acc. acc is nil on the first call.
type ReduceFunc func(acc, next []byte) []byte

// Reduce gathers every rank's local value at the coordinator and folds them
// in rank order. Only the coordinator receives the result; ok is false on
// every other rank.
func (c *Comm) Reduce(ctx context.Context, tag Tag, local []byte, fn ReduceFunc) (result []byte, ok bool, err error) {
	if err := c.Put(ctx, Coordinator, tag, 0, local); err != nil {
		return nil, false, fmt.Errorf("cluster: reduce %s: %w", tag, err)
	}
	if c.Rank() != Coordinator {
		return nil, false, nil
	}
	if err := c.WaitFor(ctx, tag, 0, c.Size()); err != nil {
		return nil, false, err
	}
	var acc []byte
	for _, d := range c.Take(tag, 0) {
		acc = fn(acc, d.Payload)
	}
	return acc, true, nil
}

// Concat is a ReduceFunc that appends payloads in rank order.
func Concat(acc, next []byte) []byte { return append(acc, next...) }
