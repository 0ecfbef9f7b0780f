// Package validate checks sort outputs, in the manner of valsort.
//
// A Summary records a file's record count, how many adjacent pairs are out of
// order, how many adjacent pairs are equal and an order-independent checksum:
// the wrapping sum of the xxh3 hashes of all records. Two files holding the
// same multiset of records have the same checksum whatever their order, so
// comparing the input's summary with the output's detects lost, duplicated
// or altered records.
package validate

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/terasort/blobstore"
	"github.com/hupe1980/terasort/internal/hash"
	"github.com/hupe1980/terasort/internal/mmap"
	"github.com/hupe1980/terasort/record"
)

var (
	// ErrUnsorted is returned when the output has an adjacent pair out of order.
	ErrUnsorted = errors.New("validate: output is not sorted")

	// ErrCountMismatch is returned when input and output hold different numbers of records.
	ErrCountMismatch = errors.New("validate: record count mismatch")

	// ErrChecksumMismatch is returned when input and output hold different records.
	ErrChecksumMismatch = errors.New("validate: checksum mismatch")
)

// Summary describes one record file.
type Summary struct {
	Records       int64  `json:"records"`
	Unordered     int64  `json:"unordered"`
	FirstUnsorted int64  `json:"first_unsorted"`
	Duplicates    int64  `json:"duplicates"`
	Checksum      uint64 `json:"checksum"`
}

// Sorted reports whether no adjacent pair was out of order.
func (s Summary) Sorted() bool { return s.Unordered == 0 }

// Summarize scans every record of rd in file order.
func Summarize(ctx context.Context, rd *record.Reader) (Summary, error) {
	_ = rd.Advise(mmap.AccessSequential)

	s := Summary{FirstUnsorted: -1}
	var (
		prev record.Record
		sum  hash.Multiset
	)
	err := rd.Scan(ctx, 0, rd.Len(), func(r record.Record) error {
		sum.Add(r)
		if prev != nil {
			switch c := record.Compare(prev, r); {
			case c > 0:
				if s.FirstUnsorted < 0 {
					s.FirstUnsorted = s.Records
				}
				s.Unordered++
			case c == 0:
				s.Duplicates++
			}
		}
		prev = r
		s.Records++
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	s.Checksum = sum.Sum()
	return s, nil
}

// File summarizes the blob called name in store.
func File(ctx context.Context, store blobstore.BlobStore, name string, format record.Format) (Summary, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return Summary{}, fmt.Errorf("validate: open %s: %w", name, err)
	}
	defer blob.Close()

	rd, err := record.NewReader(blob, format)
	if err != nil {
		return Summary{}, fmt.Errorf("validate: %s: %w", name, err)
	}
	return Summarize(ctx, rd)
}

// Compare checks that out is a sorted permutation of in.
func Compare(in, out Summary) error {
	if in.Records != out.Records {
		return fmt.Errorf("%w: input %d, output %d", ErrCountMismatch, in.Records, out.Records)
	}
	if in.Checksum != out.Checksum {
		return fmt.Errorf("%w: input %016x, output %016x", ErrChecksumMismatch, in.Checksum, out.Checksum)
	}
	if !out.Sorted() {
		return fmt.Errorf("%w: %d unordered pairs, first at record %d", ErrUnsorted, out.Unordered, out.FirstUnsorted)
	}
	return nil
}
