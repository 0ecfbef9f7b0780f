package terasort

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/terasort/blobstore"
	"github.com/hupe1980/terasort/cluster"
	"github.com/hupe1980/terasort/cluster/grpcnet"
	"github.com/hupe1980/terasort/cluster/local"
	"github.com/hupe1980/terasort/internal/fs"
	"github.com/hupe1980/terasort/internal/mmap"
	"github.com/hupe1980/terasort/record"
	"github.com/hupe1980/terasort/resource"
	"github.com/hupe1980/terasort/testutil"
	"github.com/hupe1980/terasort/validate"
)

func writeInput(t *testing.T, recs []record.Record, f record.Format) Config {
	t.Helper()
	dir := t.TempDir()
	cfg := Config{
		InputPath:  filepath.Join(dir, "in.dat"),
		OutputPath: filepath.Join(dir, "out", "sorted.dat"),
		Format:     f,
	}
	require.NoError(t, testutil.WriteFile(cfg.InputPath, recs, f))
	return cfg
}

func sortedBytes(recs []record.Record) []byte {
	c := slices.Clone(recs)
	record.Sort(c)
	return record.Encode(c)
}

func readOutput(t *testing.T, cfg Config) []byte {
	t.Helper()
	data, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	return data
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(t.Context(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestRunLocal_RoundTrip(t *testing.T) {
	tests := []struct {
		workers int
		records int
		samples int64
	}{
		{1, 100, 10},
		{2, 1000, 100},
		{3, 999, 50},
		{5, 1234, 1000},
		{8, 3, 1000},
		{3, 0, 10},
	}
	for _, tt := range tests {
		recs := testutil.NewRNG(int64(tt.records)).Records(tt.records, record.TeraGen)
		cfg := writeInput(t, recs, record.TeraGen)
		cfg.SampleSize = tt.samples

		reports, err := RunLocal(testContext(t), cfg, tt.workers)
		require.NoError(t, err, "P=%d N=%d", tt.workers, tt.records)
		require.Len(t, reports, tt.workers)

		assert.Equal(t, sortedBytes(recs), readOutput(t, cfg), "P=%d N=%d", tt.workers, tt.records)

		totals := Summarize(reports)
		assert.Equal(t, int64(tt.records), totals.Records)
		assert.Equal(t, int64(tt.records), totals.Sent)
		assert.Equal(t, int64(tt.records), totals.Received)
		assert.Equal(t, int64(tt.records), totals.Written)
	}
}

func TestRunLocal_ValidatesAgainstInput(t *testing.T) {
	recs := testutil.NewRNG(5).DuplicateRecords(2000, 300, record.TeraGen)
	cfg := writeInput(t, recs, record.TeraGen)

	_, err := RunLocal(testContext(t), cfg, 4)
	require.NoError(t, err)

	in, err := validate.File(t.Context(), blobstore.NewLocalStore(""), cfg.InputPath, cfg.Format)
	require.NoError(t, err)
	out, err := validate.File(t.Context(), blobstore.NewLocalStore(""), cfg.OutputPath, cfg.Format)
	require.NoError(t, err)
	require.NoError(t, validate.Compare(in, out))
}

// Scenario A: already sorted distinct keys come out byte-identical.
func TestScenario_AlreadySorted(t *testing.T) {
	f := record.Format{KeyLen: 1, ValueLen: 3}
	var recs []record.Record
	for k := byte('A'); k <= 'H'; k++ {
		r, err := f.Make([]byte{k}, []byte{'v', '0', k})
		require.NoError(t, err)
		recs = append(recs, r)
	}
	cfg := writeInput(t, recs, f)

	_, err := RunLocal(testContext(t), cfg, 4)
	require.NoError(t, err)

	in, err := os.ReadFile(cfg.InputPath)
	require.NoError(t, err)
	assert.Equal(t, in, readOutput(t, cfg))
}

// Scenario B: a single worker has no pivots and one bucket.
func TestScenario_SingleWorker(t *testing.T) {
	recs := testutil.NewRNG(7).Records(64, record.TeraGen)
	cfg := writeInput(t, recs, record.TeraGen)

	reports, err := RunLocal(testContext(t), cfg, 1)
	require.NoError(t, err)

	assert.Zero(t, reports[0].Pivots)
	assert.Equal(t, 1, reports[0].Buckets)
	assert.Equal(t, 1, reports[0].OwnedSlots)
	assert.Equal(t, sortedBytes(recs), readOutput(t, cfg))
}

// Scenario C: equal keys on different workers are ordered by value.
func TestScenario_DuplicateKeysAcrossWorkers(t *testing.T) {
	f := record.Format{KeyLen: 1, ValueLen: 2}
	recs := testutil.NewRNG(11).Records(60, f)
	for i, r := range recs {
		r[0] = "mn"[i%2]
	}
	cfg := writeInput(t, recs, f)
	cfg.SampleSize = 30

	_, err := RunLocal(testContext(t), cfg, 3)
	require.NoError(t, err)
	assert.Equal(t, sortedBytes(recs), readOutput(t, cfg))
}

// Scenario D: fewer samples than workers still yields a valid layout.
func TestScenario_FewerSamplesThanWorkers(t *testing.T) {
	recs := testutil.NewRNG(13).Records(50, record.TeraGen)
	cfg := writeInput(t, recs, record.TeraGen)
	cfg.SampleSize = 2

	reports, err := RunLocal(testContext(t), cfg, 5)
	require.NoError(t, err)

	for _, r := range reports {
		assert.LessOrEqual(t, r.Buckets, 2)
	}
	assert.Zero(t, reports[4].OwnedSlots)
	assert.Equal(t, sortedBytes(recs), readOutput(t, cfg))
}

// Ranks holding fewer records than their sample share read their first
// record repeatedly.
func TestRunLocal_SampleShareLargerThanRange(t *testing.T) {
	recs := testutil.NewRNG(29).Records(4, record.TeraGen)
	cfg := writeInput(t, recs, record.TeraGen)
	cfg.SampleSize = 10

	reports, err := RunLocal(testContext(t), cfg, 2)
	require.NoError(t, err)

	for _, r := range reports {
		assert.Equal(t, 5, r.Samples)
		assert.Equal(t, int64(2), r.RangeRecords)
	}
	assert.Equal(t, sortedBytes(recs), readOutput(t, cfg))
}

func TestRunLocal_ArrivalOrderIndependent(t *testing.T) {
	recs := testutil.NewRNG(17).DuplicateRecords(500, 120, record.TeraGen)
	want := sortedBytes(recs)

	for seed := int64(1); seed <= 4; seed++ {
		cfg := writeInput(t, recs, record.TeraGen)
		_, err := RunLocal(testContext(t), cfg, 4,
			WithNetworkOptions(local.WithJitter(2*time.Millisecond, seed)),
			WithResources(resource.NewController(resource.Config{MaxInFlightPuts: 1 + seed})),
		)
		require.NoError(t, err)
		assert.Equal(t, want, readOutput(t, cfg), "seed %d", seed)
	}
}

func TestRunLocal_TruncatesPreviousOutput(t *testing.T) {
	recs := testutil.NewRNG(19).Records(20, record.TeraGen)
	cfg := writeInput(t, recs, record.TeraGen)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.OutputPath), 0o750))
	require.NoError(t, os.WriteFile(cfg.OutputPath, []byte("stale output"), 0o600))

	_, err := RunLocal(testContext(t), cfg, 2)
	require.NoError(t, err)
	assert.Equal(t, sortedBytes(recs), readOutput(t, cfg))
}

func TestRunLocal_Metrics(t *testing.T) {
	recs := testutil.NewRNG(23).Records(300, record.TeraGen)
	cfg := writeInput(t, recs, record.TeraGen)
	mc := &BasicMetricsCollector{}

	_, err := RunLocal(testContext(t), cfg, 3, WithMetricsCollector(mc), WithScanWindow(7))
	require.NoError(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(300), stats.ExchangeRecords)
	assert.Equal(t, int64(30000), stats.ExchangeBytes)
	assert.Equal(t, int64(300), stats.WriteRecords)
	assert.Equal(t, int64(3), stats.WriteCount)
	assert.Equal(t, int64(3*7), stats.PhaseCount)
	assert.Zero(t, stats.PhaseErrors)
}

func TestRunLocal_Report(t *testing.T) {
	recs := testutil.NewRNG(29).Records(100, record.TeraGen)
	cfg := writeInput(t, recs, record.TeraGen)

	reports, err := RunLocal(testContext(t), cfg, 2)
	require.NoError(t, err)

	r := reports[1]
	assert.Equal(t, 1, r.Rank)
	assert.Equal(t, 2, r.Workers)
	assert.Equal(t, int64(100), r.InputRecords)
	assert.Equal(t, int64(50), r.RangeStart)
	assert.Equal(t, int64(100), r.RangeEnd)

	var last time.Duration
	for _, phase := range []Phase{PhaseOpen, PhaseSample, PhasePivots, PhasePartition, PhaseExchange, PhaseMerge, PhaseWrite} {
		off, ok := r.Offset(phase)
		require.True(t, ok, phase)
		assert.GreaterOrEqual(t, off, last)
		last = off
	}

	data, err := r.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"phase": "exchange"`)
}

func TestRunLocal_OutputFault(t *testing.T) {
	recs := testutil.NewRNG(31).Records(50, record.TeraGen)
	cfg := writeInput(t, recs, record.TeraGen)

	faulty := fs.NewFaultyFS(nil)
	faulty.AddRule("sorted.dat", fs.Fault{FailAfterBytes: 150})

	_, err := RunLocal(testContext(t), cfg, 2, WithFileSystem(faulty))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrInjected)

	var pe *PhaseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, PhaseWrite, pe.Phase)
	assert.Equal(t, 0, pe.Rank)
}

func TestRunLocal_MemoryLimit(t *testing.T) {
	recs := testutil.NewRNG(37).Records(50, record.TeraGen)
	cfg := writeInput(t, recs, record.TeraGen)

	_, err := RunLocal(testContext(t), cfg, 2,
		WithResources(resource.NewController(resource.Config{MemoryLimitBytes: 100})))
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)

	var pe *PhaseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, PhasePartition, pe.Phase)
}

func TestRun_TokenLeaseExpires(t *testing.T) {
	recs := testutil.NewRNG(41).Records(100, record.TeraGen)
	cfg := writeInput(t, recs, record.TeraGen)
	cfg.SampleSize = 20

	faulty := fs.NewFaultyFS(nil)
	faulty.AddRule("sorted.dat", fs.Fault{FailAfterBytes: -1, FailOnOpen: true})

	network := local.NewNetwork(2)
	s0, err := New(cfg, cluster.New(network.Transport(0)), WithTokenLease(100*time.Millisecond))
	require.NoError(t, err)
	s1, err := New(cfg, cluster.New(network.Transport(1)), WithFileSystem(faulty))
	require.NoError(t, err)

	ctx := testContext(t)
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for rank, s := range []*Sorter{s0, s1} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[rank] = s.Run(ctx)
		}()
	}
	wg.Wait()

	assert.ErrorIs(t, errs[1], fs.ErrInjected)
	assert.ErrorIs(t, errs[0], ErrTokenLeaseExpired)
}

func TestRun_RepeatOnSameComm(t *testing.T) {
	recs := testutil.NewRNG(59).Records(120, record.TeraGen)
	cfg := writeInput(t, recs, record.TeraGen)
	cfg.SampleSize = 30

	network := local.NewNetwork(2)
	sorters := make([]*Sorter, 2)
	for rank := range sorters {
		s, err := New(cfg, cluster.New(network.Transport(rank)))
		require.NoError(t, err)
		sorters[rank] = s
	}

	ctx := testContext(t)
	for round := 0; round < 2; round++ {
		g, gctx := errgroup.WithContext(ctx)
		for _, s := range sorters {
			g.Go(func() error {
				_, err := s.Run(gctx)
				return err
			})
		}
		require.NoError(t, g.Wait(), "round %d", round)
		assert.Equal(t, sortedBytes(recs), readOutput(t, cfg), "round %d", round)
	}
}

type fakeCommitter struct{ names []string }

func (c *fakeCommitter) Commit(_ context.Context, name string) (uint64, error) {
	c.names = append(c.names, name)
	return uint64(len(c.names)), nil
}

func TestRunLocal_Publish(t *testing.T) {
	recs := testutil.NewRNG(43).Records(40, record.TeraGen)
	cfg := writeInput(t, recs, record.TeraGen)

	store := blobstore.NewMemoryStore()
	committer := &fakeCommitter{}
	reports, err := RunLocal(testContext(t), cfg, 2, WithPublisher(&Publisher{
		Store:     store,
		Name:      "runs/sorted.dat",
		Report:    true,
		Committer: committer,
	}))
	require.NoError(t, err)

	published := reports[0].Published
	require.NotNil(t, published)
	assert.Equal(t, int64(4000), published.Bytes)
	assert.Equal(t, uint64(1), published.Version)
	assert.Equal(t, []string{"runs/sorted.dat"}, committer.names)
	assert.Nil(t, reports[1].Published)

	names, err := store.List(t.Context(), "runs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"runs/sorted.dat", "runs/sorted.dat.report.json"}, names)

	out, err := validate.File(t.Context(), store, "runs/sorted.dat", record.TeraGen)
	require.NoError(t, err)
	assert.True(t, out.Sorted())
	assert.Equal(t, int64(40), out.Records)
}

func TestRunLocal_PublishReadsThroughFileSystem(t *testing.T) {
	recs := testutil.NewRNG(45).Records(30, record.TeraGen)
	cfg := writeInput(t, recs, record.TeraGen)

	faulty := fs.NewFaultyFS(nil)
	faulty.AddRule("sorted.dat", fs.Fault{FailAfterBytes: -1, FailOnRead: true})

	_, err := RunLocal(testContext(t), cfg, 2,
		WithFileSystem(faulty),
		WithPublisher(&Publisher{Store: blobstore.NewMemoryStore(), Name: "sorted.dat"}),
	)
	require.ErrorIs(t, err, fs.ErrInjected)

	var pe *PhaseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, PhasePublish, pe.Phase)
	assert.Equal(t, sortedBytes(recs), readOutput(t, cfg))
}

func TestRun_GRPC(t *testing.T) {
	const p = 3
	recs := testutil.NewRNG(47).DuplicateRecords(600, 200, record.TeraGen)
	cfg := writeInput(t, recs, record.TeraGen)

	peers := make([]string, p)
	listeners := make([]net.Listener, p)
	for rank := range listeners {
		lis, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		listeners[rank] = lis
		peers[rank] = lis.Addr().String()
	}

	sorters := make([]*Sorter, p)
	for rank := range sorters {
		tr, err := grpcnet.Serve(listeners[rank], grpcnet.Config{Rank: rank, Peers: peers})
		require.NoError(t, err)
		t.Cleanup(func() { _ = tr.Close() })
		sorters[rank], err = New(cfg, cluster.New(tr))
		require.NoError(t, err)
	}

	g, ctx := errgroup.WithContext(testContext(t))
	for _, s := range sorters {
		g.Go(func() error {
			_, err := s.Run(ctx)
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, sortedBytes(recs), readOutput(t, cfg))
}

func TestRun_MisalignedInput(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{InputPath: filepath.Join(dir, "in.dat"), OutputPath: filepath.Join(dir, "out.dat")}
	require.NoError(t, os.WriteFile(cfg.InputPath, make([]byte, 150), 0o600))

	_, err := RunLocal(testContext(t), cfg, 2)
	assert.ErrorIs(t, err, record.ErrMisaligned)

	var pe *PhaseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, PhaseOpen, pe.Phase)
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{InputPath: "in", OutputPath: "out"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, record.TeraGen, cfg.Format)
	assert.Equal(t, int64(DefaultSampleSize), cfg.SampleSize)

	for _, bad := range []Config{
		{OutputPath: "out"},
		{InputPath: "in"},
		{InputPath: "in", OutputPath: "out", SampleSize: -1},
		{InputPath: "in", OutputPath: "out", Format: record.Format{KeyLen: 0, ValueLen: 4}},
	} {
		assert.ErrorIs(t, bad.Validate(), ErrInvalidConfig)
	}

	_, err := RunLocal(t.Context(), cfg, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = New(cfg, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

type unadvisableStore struct{ blobstore.BlobStore }

func (s unadvisableStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	b, err := s.BlobStore.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return unadvisableBlob{b}, nil
}

type unadvisableBlob struct{ blobstore.Blob }

func (unadvisableBlob) Advise(mmap.AccessPattern) error { return errors.New("madvise: not supported") }

func TestRun_AdviseFailureIsLogged(t *testing.T) {
	recs := testutil.NewRNG(53).Records(20, record.TeraGen)
	cfg := writeInput(t, recs, record.TeraGen)

	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := RunLocal(testContext(t), cfg, 1,
		WithLogger(logger),
		WithBlobStore(unadvisableStore{blobstore.NewLocalStore("")}),
	)
	require.NoError(t, err)
	assert.Equal(t, sortedBytes(recs), readOutput(t, cfg))

	logs := buf.String()
	assert.Contains(t, logs, `"msg":"advise failed"`)
	assert.Contains(t, logs, `"phase":"sample"`)
	assert.Contains(t, logs, `"phase":"partition"`)
	assert.Contains(t, logs, "madvise: not supported")
}
