package terasort

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/terasort/internal/exchange"
)

// Logger wraps slog.Logger with sort-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRank adds the worker's rank to every record.
func (l *Logger) WithRank(rank int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rank", rank),
	}
}

// WithPhase adds a phase field to the logger.
func (l *Logger) WithPhase(phase Phase) *Logger {
	return &Logger{
		Logger: l.Logger.With("phase", string(phase)),
	}
}

// LogPhase logs the end of a phase. offset is the time since the run started.
func (l *Logger) LogPhase(ctx context.Context, phase Phase, offset, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "phase failed",
			"phase", string(phase),
			"elapsed", elapsed,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "phase completed",
			"phase", string(phase),
			"offset", offset,
			"elapsed", elapsed,
		)
	}
}

// LogExchange logs what a worker sent during the exchange.
func (l *Logger) LogExchange(ctx context.Context, stats exchange.Stats, received int64) {
	l.DebugContext(ctx, "exchange completed",
		"sent_records", stats.Records,
		"sent_bytes", stats.Bytes,
		"local_buckets", stats.LocalBuckets,
		"remote_buckets", stats.RemoteBuckets,
		"received_records", received,
	)
}

// LogSummary logs the outcome of a run.
func (l *Logger) LogSummary(ctx context.Context, r *Report) {
	l.InfoContext(ctx, "sort completed",
		"records_in", r.RangeRecords,
		"records_out", r.Written,
		"pivots", r.Pivots,
		"owned_slots", r.OwnedSlots,
		"total", r.Total,
	)
}
