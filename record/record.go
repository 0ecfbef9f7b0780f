package record

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrMisaligned is returned when a payload or file length is not a
	// multiple of the record size.
	ErrMisaligned = errors.New("record: length is not a multiple of the record size")

	// ErrShortRecord is returned when fewer bytes than a full record could be read.
	ErrShortRecord = errors.New("record: short record")

	// ErrInvalidFormat is returned for formats with a non-positive width.
	ErrInvalidFormat = errors.New("record: invalid format")
)

// Format describes the fixed layout of a record.
type Format struct {
	KeyLen   int
	ValueLen int
}

// TeraGen is the classic 100-byte record with a 10-byte key.
var TeraGen = Format{KeyLen: 10, ValueLen: 90}

// Size returns the total width of a record in bytes.
func (f Format) Size() int { return f.KeyLen + f.ValueLen }

// Validate reports whether the format can describe records.
func (f Format) Validate() error {
	if f.KeyLen <= 0 || f.ValueLen < 0 {
		return fmt.Errorf("%w: key=%d value=%d", ErrInvalidFormat, f.KeyLen, f.ValueLen)
	}
	return nil
}

// Key returns the key part of r.
func (f Format) Key(r Record) []byte { return r[:f.KeyLen:f.KeyLen] }

// Value returns the value part of r.
func (f Format) Value(r Record) []byte { return r[f.KeyLen:f.Size():f.Size()] }

// Make builds a record from a key and value, copying both.
func (f Format) Make(key, value []byte) (Record, error) {
	if len(key) != f.KeyLen || len(value) != f.ValueLen {
		return nil, fmt.Errorf("%w: got key=%d value=%d, want key=%d value=%d",
			ErrShortRecord, len(key), len(value), f.KeyLen, f.ValueLen)
	}
	r := make(Record, 0, f.Size())
	r = append(r, key...)
	return append(r, value...), nil
}

// Decode splits a flat payload into records. The records alias data.
func (f Format) Decode(data []byte) ([]Record, error) {
	size := f.Size()
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes, record size %d", ErrMisaligned, len(data), size)
	}
	out := make([]Record, len(data)/size)
	for i := range out {
		out[i] = Record(data[i*size : (i+1)*size : (i+1)*size])
	}
	return out, nil
}

// Record is one immutable key/value record.
type Record []byte

// Compare orders records by key, then by value.
func Compare(a, b Record) int { return bytes.Compare(a, b) }

// Equal reports whether a and b hold the same bytes.
func Equal(a, b Record) bool { return bytes.Equal(a, b) }

// Clone returns a copy of r that does not alias its backing array.
func (r Record) Clone() Record { return slices.Clone(r) }

// String renders the record in hex, which keeps binary keys readable in logs.
func (r Record) String() string { return fmt.Sprintf("Record{%x}", []byte(r)) }

// Encode concatenates records into one flat payload.
func Encode(records []Record) []byte {
	n := 0
	for _, r := range records {
		n += len(r)
	}
	buf := make([]byte, 0, n)
	for _, r := range records {
		buf = append(buf, r...)
	}
	return buf
}

// Sort orders records in place.
func Sort(records []Record) { slices.SortFunc(records, Compare) }

// IsSorted reports whether records are in non-decreasing order.
func IsSorted(records []Record) bool { return slices.IsSortedFunc(records, Compare) }
