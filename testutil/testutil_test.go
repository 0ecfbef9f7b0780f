package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/terasort/record"
)

func TestRecords(t *testing.T) {
	rng := NewRNG(4711)

	recs := rng.Records(8, record.TeraGen)

	assert.Len(t, recs, 8)
	for _, r := range recs {
		assert.Len(t, r, 100)
		for _, b := range r {
			assert.GreaterOrEqual(t, b, byte(printableLow))
			assert.LessOrEqual(t, b, byte(printableHigh))
		}
	}
}

func TestDuplicateRecords(t *testing.T) {
	rng := NewRNG(4711)

	recs := rng.DuplicateRecords(100, 3, record.TeraGen)

	distinct := map[string]struct{}{}
	for _, r := range recs {
		distinct[string(r)] = struct{}{}
	}
	assert.Len(t, recs, 100)
	assert.LessOrEqual(t, len(distinct), 3)
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	r1 := rng.Record(record.TeraGen)

	rng.Reset()
	r2 := rng.Record(record.TeraGen)

	assert.Equal(t, r1, r2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestGenerate(t *testing.T) {
	var a, b bytes.Buffer
	n, err := Generate(&a, 50, record.TeraGen, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(50), n)
	assert.Equal(t, 5000, a.Len())

	_, err = Generate(&b, 50, record.TeraGen, 1)
	require.NoError(t, err)
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.dat")
	recs := NewRNG(1).Records(10, record.TeraGen)
	require.NoError(t, WriteFile(path, recs, record.TeraGen))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, record.Encode(recs), data)
}
