package hash

import "github.com/zeebo/xxh3"

// Multiset is an order-independent checksum over a collection of byte
// strings. Adding the same strings in any order yields the same Sum.
type Multiset struct {
	sum uint64
}

// Add folds b into the checksum.
func (m *Multiset) Add(b []byte) {
	m.sum += xxh3.Hash(b)
}

// Sum returns the checksum.
func (m Multiset) Sum() uint64 { return m.sum }
