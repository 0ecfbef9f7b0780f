package cluster

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

type slotKey struct {
	tag   Tag
	index int
}

type slot struct {
	payloads map[int][]byte
	arrived  *roaring.Bitmap
	pending  int
}

func newSlot() *slot {
	return &slot{
		payloads: make(map[int][]byte),
		arrived:  roaring.New(),
	}
}

// Delivery is one payload taken from a slot.
type Delivery struct {
	Sender  int
	Payload []byte
}

// Mailbox is one worker's set of receive slots.
//
// A slot keeps the most recent payload per sender and a counter of writes not
// yet consumed by Wait. Mailbox is safe for concurrent use.
type Mailbox struct {
	mu       sync.Mutex
	slots    map[slotKey]*slot
	declared map[Tag]int
	changed  chan struct{}
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{
		slots:    make(map[slotKey]*slot),
		declared: make(map[Tag]int),
		changed:  make(chan struct{}),
	}
}

// Declare makes slots [0, n) of an indexed tag writable. Any slots the tag
// held before are discarded, so a redeclared tag accepts every sender again.
func (m *Mailbox) Declare(tag Tag, n int) error {
	if !tag.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownTag, tag)
	}
	if n < 0 {
		return fmt.Errorf("cluster: negative slot count %d", n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := n; i < m.declared[tag]; i++ {
		delete(m.slots, slotKey{tag: tag, index: i})
	}
	m.declared[tag] = n
	for i := 0; i < n; i++ {
		m.slots[slotKey{tag: tag, index: i}] = newSlot()
	}
	return nil
}

// Deliver stores env in its slot and wakes waiters.
func (m *Mailbox) Deliver(env Envelope) error {
	if !env.Tag.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownTag, env.Tag)
	}
	if env.Sender < 0 {
		return fmt.Errorf("%w: sender %d", ErrRankOutOfRange, env.Sender)
	}
	kind := env.Tag.kind()

	m.mu.Lock()
	defer m.mu.Unlock()

	key := slotKey{tag: env.Tag, index: env.Index}
	if kind.indexed && (env.Index < 0 || env.Index >= m.declared[env.Tag]) {
		return fmt.Errorf("%w: %s[%d] from rank %d", ErrSlotNotDeclared, env.Tag, env.Index, env.Sender)
	}
	s, ok := m.slots[key]
	if !ok {
		s = newSlot()
		m.slots[key] = s
	}
	if kind.unique && s.arrived.Contains(uint32(env.Sender)) {
		return fmt.Errorf("%w: %s[%d] from rank %d", ErrDuplicateDelivery, env.Tag, env.Index, env.Sender)
	}
	s.arrived.Add(uint32(env.Sender))
	s.payloads[env.Sender] = env.Payload
	s.pending++

	close(m.changed)
	m.changed = make(chan struct{})
	return nil
}

// Wait blocks until n unconsumed writes exist in the slot, then consumes them.
func (m *Mailbox) Wait(ctx context.Context, tag Tag, index, n int) error {
	if n <= 0 {
		return nil
	}
	key := slotKey{tag: tag, index: index}
	for {
		m.mu.Lock()
		if s, ok := m.slots[key]; ok && s.pending >= n {
			s.pending -= n
			m.mu.Unlock()
			return nil
		}
		ch := m.changed
		m.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return fmt.Errorf("cluster: waiting for %d writes on %s[%d]: %w", n, tag, index, ctx.Err())
		}
	}
}

// Get returns the payload a sender last wrote to the slot.
func (m *Mailbox) Get(tag Tag, index, sender int) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[slotKey{tag: tag, index: index}]
	if !ok {
		return nil, false
	}
	p, ok := s.payloads[sender]
	return p, ok
}

// Take removes the slot's payloads and returns them ordered by sender.
// The arrival record is kept, so unique tags still reject late duplicates.
func (m *Mailbox) Take(tag Tag, index int) []Delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[slotKey{tag: tag, index: index}]
	if !ok {
		return nil
	}
	out := make([]Delivery, 0, len(s.payloads))
	for sender, p := range s.payloads {
		out = append(out, Delivery{Sender: sender, Payload: p})
	}
	clear(s.payloads)
	slices.SortFunc(out, func(a, b Delivery) int { return a.Sender - b.Sender })
	return out
}

// Arrivals returns the number of distinct senders that have written the slot.
func (m *Mailbox) Arrivals(tag Tag, index int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[slotKey{tag: tag, index: index}]
	if !ok {
		return 0
	}
	return int(s.arrived.GetCardinality())
}

// Pending returns the number of unconsumed writes in the slot.
func (m *Mailbox) Pending(tag Tag, index int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[slotKey{tag: tag, index: index}]
	if !ok {
		return 0
	}
	return s.pending
}
