// Package mmap provides read-only memory-mapped access to record files.
//
// Input files are mapped once and read through Window, which returns a view
// over a contiguous run of bytes without copying. The sampler issues random
// reads and the partitioner a single sequential pass, so callers may Advise
// the kernel accordingly.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) hints
//   - Other platforms: the file is read into memory and Advise is a no-op
//
// # Thread Safety
//
// A Mapping is safe for concurrent reads. Close is idempotent; callers must
// not use slices returned by Bytes or Window after Close returns.
package mmap
