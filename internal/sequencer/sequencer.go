// Package sequencer serializes the workers' appends to the output file with a
// token passed around the ring of ranks.
//
// Rank 0 seeds the token before the run's first barrier. A worker holding the
// token appends its slots in ascending order and passes the token to
// (rank+1) % P; workers that own no slots pass it on without writing. Rank 0
// waits for the token to come back, which marks the file complete.
package sequencer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/terasort/cluster"
	"github.com/hupe1980/terasort/internal/fs"
	"github.com/hupe1980/terasort/record"
	"github.com/hupe1980/terasort/resource"
)

// ErrTokenLeaseExpired is returned when the token does not arrive within the
// configured lease.
var ErrTokenLeaseExpired = errors.New("sequencer: token lease expired")

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithLease bounds how long Acquire and AwaitReturn wait for the token.
// Zero waits indefinitely.
func WithLease(d time.Duration) Option {
	return func(s *Sequencer) { s.lease = d }
}

// WithFileSystem sets the file system the output is appended through.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(s *Sequencer) { s.fsys = fsys }
}

// WithResources throttles output writes by the controller's IO limit.
func WithResources(rc *resource.Controller) Option {
	return func(s *Sequencer) { s.rc = rc }
}

// Sequencer is one rank's view of the token ring.
type Sequencer struct {
	comm   *cluster.Comm
	path   string
	format record.Format
	lease  time.Duration
	fsys   fs.FileSystem
	rc     *resource.Controller
}

// New returns a sequencer appending to path.
func New(comm *cluster.Comm, path string, format record.Format, optFns ...Option) *Sequencer {
	s := &Sequencer{
		comm:   comm,
		path:   path,
		format: format,
		fsys:   fs.Default,
	}
	for _, fn := range optFns {
		fn(s)
	}
	return s
}

// Seed places the token at rank 0. It is a no-op on every other rank.
func (s *Sequencer) Seed() error {
	if s.comm.Rank() != 0 {
		return nil
	}
	return s.comm.PutLocal(cluster.TagSequencer, 0, nil)
}

// Acquire blocks until the token arrives.
func (s *Sequencer) Acquire(ctx context.Context) error {
	return s.wait(ctx, "acquire")
}

// Pass hands the token to the next rank.
func (s *Sequencer) Pass(ctx context.Context) error {
	next := (s.comm.Rank() + 1) % s.comm.Size()
	if err := s.comm.Put(ctx, next, cluster.TagSequencer, 0, nil); err != nil {
		return fmt.Errorf("sequencer: pass token to rank %d: %w", next, err)
	}
	return nil
}

// AwaitReturn blocks rank 0 until the token has travelled the whole ring.
func (s *Sequencer) AwaitReturn(ctx context.Context) error {
	return s.wait(ctx, "await return")
}

func (s *Sequencer) wait(ctx context.Context, op string) error {
	if s.lease > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, s.lease, ErrTokenLeaseExpired)
		defer cancel()
	}
	if err := s.comm.WaitFor(ctx, cluster.TagSequencer, 0, 1); err != nil {
		if errors.Is(context.Cause(ctx), ErrTokenLeaseExpired) {
			return fmt.Errorf("%w: %s after %s on rank %d", ErrTokenLeaseExpired, op, s.lease, s.comm.Rank())
		}
		return fmt.Errorf("sequencer: %s: %w", op, err)
	}
	return nil
}

// Write appends slots to the output in order and returns the number of
// records written. The caller must hold the token.
func (s *Sequencer) Write(ctx context.Context, slots [][]record.Record) (int64, error) {
	f, err := fs.OpenAppend(s.fsys, s.path)
	if err != nil {
		return 0, fmt.Errorf("sequencer: open %s: %w", s.path, err)
	}
	w := record.NewWriter(resource.NewRateLimitedWriter(ctx, f, s.rc), s.format)
	for _, slot := range slots {
		if err := w.WriteAll(slot); err != nil {
			_ = f.Close()
			return w.Count(), fmt.Errorf("sequencer: write %s: %w", s.path, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return w.Count(), fmt.Errorf("sequencer: flush %s: %w", s.path, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return w.Count(), fmt.Errorf("sequencer: sync %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return w.Count(), fmt.Errorf("sequencer: close %s: %w", s.path, err)
	}
	return w.Count(), nil
}

// Run acquires the token, writes slots, passes the token and, on rank 0,
// waits for it to return. A rank without slots does not touch the file.
func (s *Sequencer) Run(ctx context.Context, slots [][]record.Record) (int64, error) {
	if err := s.Acquire(ctx); err != nil {
		return 0, err
	}
	var n int64
	if len(slots) > 0 {
		var err error
		if n, err = s.Write(ctx, slots); err != nil {
			return n, err
		}
	}
	if err := s.Pass(ctx); err != nil {
		return n, err
	}
	if s.comm.Rank() == 0 {
		if err := s.AwaitReturn(ctx); err != nil {
			return n, err
		}
	}
	return n, nil
}
