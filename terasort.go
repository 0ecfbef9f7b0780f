package terasort

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/terasort/cluster"
	"github.com/hupe1980/terasort/internal/exchange"
	"github.com/hupe1980/terasort/internal/fs"
	"github.com/hupe1980/terasort/internal/merge"
	"github.com/hupe1980/terasort/internal/mmap"
	"github.com/hupe1980/terasort/internal/partition"
	"github.com/hupe1980/terasort/internal/pivot"
	"github.com/hupe1980/terasort/internal/sampler"
	"github.com/hupe1980/terasort/internal/sequencer"
	"github.com/hupe1980/terasort/record"
)

// Sorter runs one rank of a sort. Run may be called again on the same comm
// once every rank has returned from the previous Run.
type Sorter struct {
	cfg  Config
	comm *cluster.Comm
	opts options
	log  *Logger
}

// New returns a Sorter for comm's rank.
func New(cfg Config, comm *cluster.Comm, optFns ...Option) (*Sorter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if comm == nil {
		return nil, fmt.Errorf("%w: nil comm", ErrInvalidConfig)
	}
	o := applyOptions(optFns)
	return &Sorter{
		cfg:  cfg,
		comm: comm,
		opts: o,
		log:  o.logger.WithRank(comm.Rank()),
	}, nil
}

// run carries the state of one Run between phases.
type run struct {
	start  time.Time
	report *Report
}

func (s *Sorter) phase(ctx context.Context, r *run, phase Phase, fn func() error) error {
	t0 := time.Now()
	err := fn()
	elapsed := time.Since(t0)
	offset := time.Since(r.start)

	s.opts.metricsCollector.RecordPhase(phase, elapsed, err)
	s.log.LogPhase(ctx, phase, offset, elapsed, err)
	if err != nil {
		return &PhaseError{Phase: phase, Rank: s.comm.Rank(), cause: err}
	}
	r.report.Phases = append(r.report.Phases, PhaseTiming{Phase: phase, Offset: offset, Duration: elapsed})
	return nil
}

// advise passes an access hint to the input. Hints are best effort.
func (s *Sorter) advise(ctx context.Context, rd *record.Reader, phase Phase, pattern mmap.AccessPattern) {
	if err := rd.Advise(pattern); err != nil {
		s.log.WithPhase(phase).DebugContext(ctx, "advise failed", "error", err)
	}
}

// Run sorts this rank's share of the input and appends its part of the
// output. It returns once the rank's output is written; on rank 0 it returns
// once the whole output file is complete.
func (s *Sorter) Run(ctx context.Context) (*Report, error) {
	rank, p := s.comm.Rank(), s.comm.Size()
	format := s.cfg.Format
	rc := s.opts.resources
	r := &run{
		start:  time.Now(),
		report: &Report{Rank: rank, Workers: p},
	}

	var (
		rd  *record.Reader
		seq *sequencer.Sequencer
	)
	closeInput := func() error { return nil }
	defer func() { _ = closeInput() }()

	err := s.phase(ctx, r, PhaseOpen, func() error {
		blob, err := s.opts.store.Open(ctx, s.cfg.InputPath)
		if err != nil {
			return fmt.Errorf("open input %s: %w", s.cfg.InputPath, err)
		}
		closeInput = blob.Close
		if rd, err = record.NewReader(blob, format, record.WithWindow(s.opts.scanWindow)); err != nil {
			return err
		}

		seq = sequencer.New(s.comm, s.cfg.OutputPath, format,
			sequencer.WithLease(s.opts.tokenLease),
			sequencer.WithFileSystem(s.opts.fsys),
			sequencer.WithResources(rc),
		)
		if rank == 0 {
			if err := fs.Reset(s.opts.fsys, s.cfg.OutputPath); err != nil {
				return fmt.Errorf("truncate output %s: %w", s.cfg.OutputPath, err)
			}
		}
		return seq.Seed()
	})
	if err != nil {
		return r.report, err
	}

	share := sampler.Split(rd.Len(), rank, p)
	r.report.InputRecords = rd.Len()
	r.report.RangeStart, r.report.RangeEnd, r.report.RangeRecords = share.Start, share.End, share.Len()

	var samples []record.Record
	err = s.phase(ctx, r, PhaseSample, func() error {
		s.advise(ctx, rd, PhaseSample, mmap.AccessRandom)
		var err error
		samples, err = sampler.Sample(ctx, rd, share, sampler.SamplesForRank(s.cfg.SampleSize, rank, p))
		r.report.Samples = len(samples)
		return err
	})
	if err != nil {
		return r.report, err
	}

	var pivots []record.Record
	err = s.phase(ctx, r, PhasePivots, func() error {
		var err error
		pivots, err = pivot.Aggregate(ctx, s.comm, format, samples)
		r.report.Pivots = len(pivots)
		return err
	})
	if err != nil {
		return r.report, err
	}

	var reserved int64
	defer func() { rc.ReleaseMemory(reserved) }()

	var buckets [][]record.Record
	err = s.phase(ctx, r, PhasePartition, func() error {
		need := share.Len() * int64(format.Size())
		if err := rc.AcquireMemory(need); err != nil {
			return fmt.Errorf("load %d records: %w", share.Len(), err)
		}
		reserved += need

		s.advise(ctx, rd, PhasePartition, mmap.AccessSequential)
		local := make([]record.Record, 0, share.Len())
		err := rd.Scan(ctx, share.Start, share.End, func(rec record.Record) error {
			local = append(local, rec)
			return nil
		})
		if err != nil {
			return err
		}
		buckets = partition.Partition(pivots, local)
		return nil
	})
	if err != nil {
		return r.report, err
	}

	layout, err := partition.NewLayout(len(buckets), p)
	if err != nil {
		return r.report, &PhaseError{Phase: PhasePartition, Rank: rank, cause: err}
	}
	r.report.Buckets = layout.Buckets
	r.report.OwnedSlots = layout.Owned(rank)

	var grid [][][]record.Record
	err = s.phase(ctx, r, PhaseExchange, func() error {
		ex := exchange.New(s.comm, layout, format)
		if err := ex.Prepare(ctx); err != nil {
			return err
		}

		t0 := time.Now()
		stats, err := ex.Send(ctx, buckets)
		if err != nil {
			return err
		}
		s.opts.metricsCollector.RecordExchange(stats.Records, stats.Bytes, time.Since(t0))
		r.report.SentRecords, r.report.SentBytes = stats.Records, stats.Bytes
		buckets = nil

		if grid, err = ex.Collect(ctx); err != nil {
			return err
		}
		for _, sources := range grid {
			for _, recs := range sources {
				r.report.Received += int64(len(recs))
			}
		}
		need := r.report.Received * int64(format.Size())
		if err := rc.AcquireMemory(need); err != nil {
			return fmt.Errorf("receive %d records: %w", r.report.Received, err)
		}
		reserved += need
		s.log.LogExchange(ctx, stats, r.report.Received)
		return nil
	})
	if err != nil {
		return r.report, err
	}

	var slots [][]record.Record
	err = s.phase(ctx, r, PhaseMerge, func() error {
		slots = merge.MergeAll(grid)
		grid = nil
		if n := merge.Count(slots); n != r.report.Received {
			return fmt.Errorf("merged %d records, received %d", n, r.report.Received)
		}
		return nil
	})
	if err != nil {
		return r.report, err
	}

	err = s.phase(ctx, r, PhaseWrite, func() error {
		t0 := time.Now()
		n, err := seq.Run(ctx, slots)
		s.opts.metricsCollector.RecordWrite(n, time.Since(t0), err)
		r.report.Written = n
		return err
	})
	if err != nil {
		return r.report, err
	}

	if rank == 0 && s.opts.publisher != nil {
		err = s.phase(ctx, r, PhasePublish, func() error {
			res, err := s.opts.publisher.publish(ctx, s.opts.fsys, s.cfg.OutputPath, r.report)
			r.report.Published = res
			return err
		})
		if err != nil {
			return r.report, err
		}
	}

	r.report.Total = time.Since(r.start)
	s.log.LogSummary(ctx, r.report)
	return r.report, nil
}
