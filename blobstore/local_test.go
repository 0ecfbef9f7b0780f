package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalBlobStore_Lifecycle(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewLocalStore(tmpDir)
	ctx := context.Background()

	blobName := "part-00000.bin"
	data := []byte("hello world, this is a record file")

	w, err := store.Create(ctx, blobName)
	require.NoError(t, err)
	n, err := w.Write(data)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.NoError(t, w.Close())

	_, err = os.Stat(filepath.Join(tmpDir, blobName))
	require.NoError(t, err)

	blob, err := store.Open(ctx, blobName)
	require.NoError(t, err)
	defer blob.Close()

	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err = blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))

	rr, err := blob.ReadRange(ctx, 13, 4)
	require.NoError(t, err)
	content, err := io.ReadAll(rr)
	require.NoError(t, err)
	require.NoError(t, rr.Close())
	require.Equal(t, "this", string(content))

	require.NoError(t, store.Put(ctx, "sub/part-00001.bin", []byte("x")))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{blobName, "sub/part-00001.bin"}, names)

	require.NoError(t, store.Delete(ctx, "sub/part-00001.bin"))
	require.NoError(t, store.Delete(ctx, "sub/part-00001.bin"))

	names, err = store.List(ctx, "sub/")
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestLocalBlobStore_ReadRange_Boundaries(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "boundary.bin", []byte("0123456789")))

	blob, err := store.Open(ctx, "boundary.bin")
	require.NoError(t, err)
	defer blob.Close()

	r, err := blob.ReadRange(ctx, 8, 5)
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "89", string(content))

	_, err = blob.ReadRange(ctx, 20, 5)
	require.ErrorIs(t, err, io.EOF)

	n, err := blob.ReadAt(ctx, make([]byte, 4), 8)
	require.Equal(t, 2, n)
	require.ErrorIs(t, err, io.EOF)
}

func TestMemoryStore_Upload(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	n, err := Upload(ctx, store, "out.bin", strings.NewReader("sorted"))
	require.NoError(t, err)
	require.Equal(t, int64(6), n)

	blob, err := store.Open(ctx, "out.bin")
	require.NoError(t, err)
	buf := make([]byte, 6)
	_, err = blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	require.Equal(t, "sorted", string(buf))

	_, err = store.Open(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
