package terasort

import (
	"log/slog"
	"time"

	"github.com/hupe1980/terasort/blobstore"
	"github.com/hupe1980/terasort/cluster/local"
	"github.com/hupe1980/terasort/internal/fs"
	"github.com/hupe1980/terasort/record"
	"github.com/hupe1980/terasort/resource"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	resources        *resource.Controller
	tokenLease       time.Duration
	fsys             fs.FileSystem
	store            blobstore.BlobStore
	scanWindow       int
	publisher        *Publisher
	networkOptions   []local.Option
}

// Option configures a Sorter or RunLocal.
type Option func(*options)

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := terasort.NewJSONLogger(slog.LevelInfo)
//	reports, _ := terasort.RunLocal(ctx, cfg, 4, terasort.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &terasort.BasicMetricsCollector{}
//	_, _ = terasort.RunLocal(ctx, cfg, 4, terasort.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("exchanged %d records\n", stats.ExchangeRecords)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithResources bounds memory, in-flight exchange puts and output bandwidth.
func WithResources(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithTokenLease bounds how long a worker waits for the output token.
// Zero, the default, waits indefinitely.
func WithTokenLease(d time.Duration) Option {
	return func(o *options) {
		o.tokenLease = d
	}
}

// WithFileSystem sets the file system the output is written through.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

// WithBlobStore sets where the input is read from. Defaults to the local
// file system, with paths resolved against the working directory.
func WithBlobStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithScanWindow sets how many records are read per request while loading
// a worker's share.
func WithScanWindow(records int) Option {
	return func(o *options) {
		o.scanWindow = records
	}
}

// WithPublisher uploads the finished output from rank 0.
func WithPublisher(p *Publisher) Option {
	return func(o *options) {
		o.publisher = p
	}
}

// WithNetworkOptions configures the in-process network used by RunLocal.
func WithNetworkOptions(optFns ...local.Option) Option {
	return func(o *options) {
		o.networkOptions = append(o.networkOptions, optFns...)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		fsys:             fs.Default,
		store:            blobstore.NewLocalStore(""),
		scanWindow:       record.DefaultWindow,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
