// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// Inputs are read with ranged GETs, so the sampler's scattered reads only
// fetch the records they need. Published outputs are streamed with the
// multipart upload manager. DDBCommitStore adds a DynamoDB-backed version
// pointer so each finished sort is recorded exactly once.
package s3
