// Package blobstore provides storage abstraction for record files.
//
// The sorter reads its input through a Blob: the sampler issues small random
// reads and the partitioner scans the worker's range sequentially. Finished
// outputs can be published to any BlobStore.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with mmap-backed reads
//   - MemoryStore: in-memory store for tests
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// Implementations must be safe for concurrent use.
package blobstore
