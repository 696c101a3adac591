package loader

import (
	"runtime"

	"github.com/hupe1980/kdtree"
)

type options struct {
	skipHeader  bool
	concurrency int
	logger      *kdtree.Logger
}

// Option configures the loader.
type Option func(*options)

// WithSkipHeader discards the first non-comment row of every file.
func WithSkipHeader(skip bool) Option {
	return func(o *options) {
		o.skipHeader = skip
	}
}

// WithConcurrency bounds how many files LoadFiles parses at once.
// Values below 1 select GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithLogger sets the logger for load progress. Pass nil to disable logging.
func WithLogger(logger *kdtree.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = kdtree.NoopLogger()
		}
		o.logger = logger
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger: kdtree.NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.concurrency < 1 {
		o.concurrency = runtime.GOMAXPROCS(0)
	}
	return o
}
