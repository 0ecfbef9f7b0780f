// Package record defines the fixed-width key/value records sorted by terasort
// and the readers and writers that move them between files and memory.
//
// A record file is a flat sequence of back-to-back records. Each record is a
// key of Format.KeyLen bytes immediately followed by a value of
// Format.ValueLen bytes. There are no delimiters, headers or footers.
//
// # Ordering
//
// Records are ordered by unsigned lexicographic comparison of the key, with
// ties broken by unsigned comparison of the value. Because both parts have a
// fixed width and the key comes first, this is exactly bytes.Compare over the
// whole record, which is what Compare does.
package record
