// Package fs abstracts the filesystem operations behind the shared output
// file so tests can inject I/O failures.
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: wraps another FileSystem and fails writes, syncs or closes
//
// Output is append-only: each worker opens the shared file with [OpenAppend]
// while it holds the write token, and rank 0 clears it with [Reset] before the
// run starts. Nothing here locks the file; exclusivity comes from the token.
//
// Operations take no context. Local syscalls are not interruptible, and slow
// remote storage goes through the blobstore package instead.
package fs
