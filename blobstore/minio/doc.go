// Package minio provides a blobstore.BlobStore for MinIO and other
// S3-compatible object stores, for clusters that keep sort inputs and
// published outputs outside AWS.
package minio
