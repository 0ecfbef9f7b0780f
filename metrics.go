package terasort

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting per-run metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Calls arrive from every rank of a RunLocal concurrently.
type MetricsCollector interface {
	// RecordPhase is called when a phase ends on a worker.
	RecordPhase(phase Phase, duration time.Duration, err error)

	// RecordExchange is called after a worker's sends completed.
	// records and bytes count what the worker sent, local buckets included.
	RecordExchange(records, bytes int64, duration time.Duration)

	// RecordWrite is called after a worker appended its slots to the output.
	RecordWrite(records int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordPhase(Phase, time.Duration, error)    {}
func (NoopMetricsCollector) RecordExchange(int64, int64, time.Duration) {}
func (NoopMetricsCollector) RecordWrite(int64, time.Duration, error)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	PhaseCount      atomic.Int64
	PhaseErrors     atomic.Int64
	PhaseTotalNanos atomic.Int64
	ExchangeCount   atomic.Int64
	ExchangeRecords atomic.Int64
	ExchangeBytes   atomic.Int64
	ExchangeNanos   atomic.Int64
	WriteCount      atomic.Int64
	WriteRecords    atomic.Int64
	WriteErrors     atomic.Int64
	WriteTotalNanos atomic.Int64
}

// RecordPhase implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPhase(_ Phase, duration time.Duration, err error) {
	b.PhaseCount.Add(1)
	b.PhaseTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PhaseErrors.Add(1)
	}
}

// RecordExchange implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExchange(records, bytes int64, duration time.Duration) {
	b.ExchangeCount.Add(1)
	b.ExchangeRecords.Add(records)
	b.ExchangeBytes.Add(bytes)
	b.ExchangeNanos.Add(duration.Nanoseconds())
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(records int64, duration time.Duration, err error) {
	b.WriteCount.Add(1)
	b.WriteRecords.Add(records)
	b.WriteTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.WriteErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		PhaseCount:      b.PhaseCount.Load(),
		PhaseErrors:     b.PhaseErrors.Load(),
		ExchangeCount:   b.ExchangeCount.Load(),
		ExchangeRecords: b.ExchangeRecords.Load(),
		ExchangeBytes:   b.ExchangeBytes.Load(),
		WriteCount:      b.WriteCount.Load(),
		WriteRecords:    b.WriteRecords.Load(),
		WriteErrors:     b.WriteErrors.Load(),
		WriteAvgNanos:   b.getAvgWriteNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgWriteNanos() int64 {
	count := b.WriteCount.Load()
	if count == 0 {
		return 0
	}
	return b.WriteTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	PhaseCount      int64
	PhaseErrors     int64
	ExchangeCount   int64
	ExchangeRecords int64
	ExchangeBytes   int64
	WriteCount      int64
	WriteRecords    int64
	WriteErrors     int64
	WriteAvgNanos   int64
}
