package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetAndAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "sorted.bin")

	require.NoError(t, Reset(Default, path))
	info, err := Default.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())

	for _, chunk := range []string{"abc", "def"} {
		f, err := OpenAppend(Default, path)
		require.NoError(t, err)
		_, err = f.Write([]byte(chunk))
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abcdef", string(data))

	require.NoError(t, Reset(Default, path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFaultyFS_FailAfterBytes(t *testing.T) {
	ffs := NewFaultyFS(nil)
	ffs.AddRule("sorted", Fault{FailAfterBytes: 4})

	f, err := OpenAppend(ffs, filepath.Join(t.TempDir(), "sorted.bin"))
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = f.Write([]byte("de"))
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 1, ffs.Opens())
}

func TestFaultyFS_OpenSyncClose(t *testing.T) {
	dir := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("noopen", Fault{FailAfterBytes: -1, FailOnOpen: true})
	ffs.AddRule("nosync", Fault{FailAfterBytes: -1, FailOnSync: true, FailOnClose: true})

	_, err := OpenAppend(ffs, filepath.Join(dir, "noopen.bin"))
	assert.ErrorIs(t, err, ErrInjected)

	f, err := OpenAppend(ffs, filepath.Join(dir, "nosync.bin"))
	require.NoError(t, err)
	assert.ErrorIs(t, f.Sync(), ErrInjected)
	assert.ErrorIs(t, f.Close(), ErrInjected)

	f, err = OpenAppend(ffs, filepath.Join(dir, "plain.bin"))
	require.NoError(t, err)
	_, err = f.Write([]byte("ok"))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestOpen_ReadFault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sorted.bin")
	require.NoError(t, os.WriteFile(path, []byte("records"), 0o600))

	f, err := Open(Default, path)
	require.NoError(t, err)
	buf := make([]byte, 7)
	_, err = f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "records", string(buf))
	require.NoError(t, f.Close())

	ffs := NewFaultyFS(nil)
	ffs.AddRule("sorted", Fault{FailAfterBytes: -1, FailOnRead: true})
	f, err = Open(ffs, path)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Read(buf)
	assert.ErrorIs(t, err, ErrInjected)
}
