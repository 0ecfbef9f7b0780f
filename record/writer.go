package record

import (
	"bufio"
	"fmt"
	"io"
)

const defaultWriteBuffer = 1 << 20

// Writer appends records to an output stream.
type Writer struct {
	bw      *bufio.Writer
	format  Format
	records int64
}

// NewWriter returns a buffered Writer. Call Flush before closing w.
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{
		bw:     bufio.NewWriterSize(w, defaultWriteBuffer),
		format: format,
	}
}

// Write appends one record: its key bytes, then its value bytes.
func (w *Writer) Write(r Record) error {
	if len(r) != w.format.Size() {
		return fmt.Errorf("%w: %d bytes, record size %d", ErrShortRecord, len(r), w.format.Size())
	}
	if _, err := w.bw.Write(w.format.Key(r)); err != nil {
		return err
	}
	if _, err := w.bw.Write(w.format.Value(r)); err != nil {
		return err
	}
	w.records++
	return nil
}

// WriteAll appends records in order.
func (w *Writer) WriteAll(records []Record) error {
	for _, r := range records {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error { return w.bw.Flush() }

// Count returns the number of records written.
func (w *Writer) Count() int64 { return w.records }
