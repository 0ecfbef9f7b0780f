package testutil

import (
	"io"
	"math/rand"
	"os"
	"sync"

	"github.com/hupe1980/terasort/record"
)

const (
	printableLow  = ' '
	printableHigh = '~'
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Shuffle pseudo-randomizes the order of n elements.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(n, swap)
}

// FillPrintable fills p with printable ASCII, like teragen keys.
func (r *RNG) FillPrintable(p []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fillPrintable(p)
}

func (r *RNG) fillPrintable(p []byte) {
	for i := range p {
		p[i] = byte(printableLow + r.rand.Intn(printableHigh-printableLow+1))
	}
}

// Record returns one random record.
func (r *RNG) Record(f record.Format) record.Record {
	rec := make(record.Record, f.Size())
	r.FillPrintable(rec)
	return rec
}

// Records returns n random records.
func (r *RNG) Records(n int, f record.Format) []record.Record {
	out := make([]record.Record, n)
	for i := range out {
		out[i] = r.Record(f)
	}
	return out
}

// DuplicateRecords returns n records drawn from only distinct different ones.
func (r *RNG) DuplicateRecords(n, distinct int, f record.Format) []record.Record {
	pool := r.Records(distinct, f)
	out := make([]record.Record, n)
	for i := range out {
		out[i] = pool[r.Intn(distinct)].Clone()
	}
	return out
}

// WriteFile writes records back to back into a new file at path.
func WriteFile(path string, records []record.Record, f record.Format) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	w := record.NewWriter(file, f)
	if err := w.WriteAll(records); err != nil {
		_ = file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// Generate writes n random records to w and returns the number written.
func Generate(w io.Writer, n int64, f record.Format, seed int64) (int64, error) {
	rng := NewRNG(seed)
	rw := record.NewWriter(w, f)
	rec := make(record.Record, f.Size())
	for i := int64(0); i < n; i++ {
		rng.FillPrintable(rec)
		if err := rw.Write(rec); err != nil {
			return rw.Count(), err
		}
	}
	if err := rw.Flush(); err != nil {
		return rw.Count(), err
	}
	return rw.Count(), nil
}
