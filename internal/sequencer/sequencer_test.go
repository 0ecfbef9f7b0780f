package sequencer

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/terasort/cluster"
	"github.com/hupe1980/terasort/cluster/local"
	"github.com/hupe1980/terasort/internal/fs"
	"github.com/hupe1980/terasort/record"
)

var tiny = record.Format{KeyLen: 1, ValueLen: 1}

func TestRing_WritesInRankOrder(t *testing.T) {
	const p = 4
	path := filepath.Join(t.TempDir(), "out.dat")
	require.NoError(t, fs.Reset(fs.Default, path))

	network := local.NewNetwork(p, local.WithJitter(2*time.Millisecond, 5))
	slots := [][][]record.Record{
		{{{'a', '0'}}, {{'b', '0'}, {'c', '0'}}},
		{{{'d', '1'}}},
		nil, // owns nothing
		{{{'e', '3'}}, {}},
	}

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	written := make([]int64, p)
	for rank := 0; rank < p; rank++ {
		seq := New(cluster.New(network.Transport(rank)), path, tiny)
		require.NoError(t, seq.Seed())
		g.Go(func() error {
			n, err := seq.Run(ctx, slots[rank])
			written[rank] = n
			return err
		})
	}
	require.NoError(t, g.Wait())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a0b0c0d1e3", string(data))
	assert.Equal(t, []int64{3, 1, 0, 1}, written)
}

func TestRing_SingleWorker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dat")
	seq := New(cluster.New(local.NewNetwork(1).Transport(0)), path, tiny)
	require.NoError(t, seq.Seed())

	n, err := seq.Run(t.Context(), [][]record.Record{{{'x', 'y'}}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAcquire_LeaseExpires(t *testing.T) {
	network := local.NewNetwork(2)
	seq := New(cluster.New(network.Transport(1)), "unused", tiny, WithLease(20*time.Millisecond))

	err := seq.Acquire(t.Context())
	assert.ErrorIs(t, err, ErrTokenLeaseExpired)
}

func TestAcquire_CallerDeadlineIsNotLease(t *testing.T) {
	network := local.NewNetwork(2)
	seq := New(cluster.New(network.Transport(1)), "unused", tiny, WithLease(time.Hour))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	err := seq.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, ErrTokenLeaseExpired)
}

func TestAwaitReturn_LeaseExpiresWhenPeerStalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dat")
	network := local.NewNetwork(2)
	seq := New(cluster.New(network.Transport(0)), path, tiny, WithLease(30*time.Millisecond))
	require.NoError(t, seq.Seed())

	// Rank 1 never runs, so the token never comes back.
	_, err := seq.Run(t.Context(), [][]record.Record{{{'a', 'b'}}})
	assert.ErrorIs(t, err, ErrTokenLeaseExpired)
}

func TestWrite_FaultSurfaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dat")
	faulty := fs.NewFaultyFS(nil)
	faulty.AddRule("out.dat", fs.Fault{FailAfterBytes: 3})

	seq := New(cluster.New(local.NewNetwork(1).Transport(0)), path, tiny, WithFileSystem(faulty))
	_, err := seq.Write(t.Context(), [][]record.Record{{{'a', 'b'}, {'c', 'd'}}})
	assert.ErrorIs(t, err, fs.ErrInjected)

	faulty.AddRule("out.dat", fs.Fault{FailAfterBytes: -1, FailOnSync: true})
	_, err = seq.Write(t.Context(), [][]record.Record{{{'a', 'b'}}})
	assert.ErrorIs(t, err, fs.ErrInjected)
}

func TestRun_ZeroSlotsDoesNotOpen(t *testing.T) {
	faulty := fs.NewFaultyFS(nil)
	faulty.AddRule("out.dat", fs.Fault{FailOnOpen: true})

	seq := New(cluster.New(local.NewNetwork(1).Transport(0)), filepath.Join(t.TempDir(), "out.dat"), tiny, WithFileSystem(faulty))
	require.NoError(t, seq.Seed())
	_, err := seq.Run(t.Context(), nil)
	require.NoError(t, err)
	assert.Zero(t, faulty.Opens())
}

func TestSeed_OnlyRankZero(t *testing.T) {
	network := local.NewNetwork(2)
	var wg sync.WaitGroup
	for rank := 0; rank < 2; rank++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, New(cluster.New(network.Transport(rank)), "unused", tiny).Seed())
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, network.Transport(0).Mailbox().Pending(cluster.TagSequencer, 0))
	assert.Equal(t, 0, network.Transport(1).Mailbox().Pending(cluster.TagSequencer, 0))
}
