package record

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/terasort/internal/mmap"
)

// DefaultWindow is the number of records fetched per read during a scan.
const DefaultWindow = 64 * 1024

// Source is a context-aware random-access byte source such as a blobstore.Blob.
type Source interface {
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	Size() int64
}

type advisor interface {
	Advise(pattern mmap.AccessPattern) error
}

// Reader reads records from a flat record file.
//
// Records returned by a Reader own their memory: they stay valid after the
// source is closed.
type Reader struct {
	src    Source
	format Format
	window int
	count  int64
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithWindow sets how many records a scan fetches per read.
func WithWindow(records int) ReaderOption {
	return func(r *Reader) {
		if records > 0 {
			r.window = records
		}
	}
}

// NewReader returns a Reader over src. The source length must be a multiple
// of the record size.
func NewReader(src Source, format Format, optFns ...ReaderOption) (*Reader, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	size := src.Size()
	if size%int64(format.Size()) != 0 {
		return nil, fmt.Errorf("%w: %d bytes, record size %d", ErrMisaligned, size, format.Size())
	}
	r := &Reader{
		src:    src,
		format: format,
		window: DefaultWindow,
		count:  size / int64(format.Size()),
	}
	for _, fn := range optFns {
		fn(r)
	}
	return r, nil
}

// Len returns the number of records in the source.
func (r *Reader) Len() int64 { return r.count }

// Format returns the record layout.
func (r *Reader) Format() Format { return r.format }

// Advise hints the expected access pattern when the source is memory mapped.
func (r *Reader) Advise(pattern mmap.AccessPattern) error {
	if a, ok := r.src.(advisor); ok {
		return a.Advise(pattern)
	}
	return nil
}

// ReadRecord reads the record at index i.
func (r *Reader) ReadRecord(ctx context.Context, i int64) (Record, error) {
	if i < 0 || i >= r.count {
		return nil, fmt.Errorf("record: index %d out of range [0,%d)", i, r.count)
	}
	size := r.format.Size()
	buf := make([]byte, size)
	if err := r.readFull(ctx, buf, i*int64(size)); err != nil {
		return nil, err
	}
	return Record(buf), nil
}

// Scan calls fn for every record in [start, end) in file order.
func (r *Reader) Scan(ctx context.Context, start, end int64, fn func(Record) error) error {
	if start < 0 || end > r.count || start > end {
		return fmt.Errorf("record: scan range [%d,%d) outside [0,%d)", start, end, r.count)
	}
	size := int64(r.format.Size())
	for pos := start; pos < end; {
		n := min(int64(r.window), end-pos)
		buf := make([]byte, n*size)
		if err := r.readFull(ctx, buf, pos*size); err != nil {
			return err
		}
		for off := int64(0); off < int64(len(buf)); off += size {
			if err := fn(Record(buf[off : off+size : off+size])); err != nil {
				return err
			}
		}
		pos += n
	}
	return nil
}

func (r *Reader) readFull(ctx context.Context, buf []byte, off int64) error {
	n, err := r.src.ReadAt(ctx, buf, off)
	if n == len(buf) && (err == nil || errors.Is(err, io.EOF)) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: read %d of %d bytes at offset %d", ErrShortRecord, n, len(buf), off)
	}
	return err
}
