package kdtree

import "log/slog"

// DefaultRebuildThreshold rebuilds the tree roughly every time its size doubles.
const DefaultRebuildThreshold float32 = 2.0

// SearchMode selects how KNearest and WithinRadius visit the tree.
type SearchMode int

const (
	// SearchSinglePath follows the single median-guided descent path dictated by
	// the query point and evaluates only the nodes on it. Results are not
	// guaranteed to be the true nearest neighbors.
	SearchSinglePath SearchMode = iota

	// SearchExhaustive evaluates every live node. Results are exact; cost is
	// O(N) per query.
	SearchExhaustive
)

func (m SearchMode) String() string {
	switch m {
	case SearchSinglePath:
		return "single-path"
	case SearchExhaustive:
		return "exhaustive"
	default:
		return "unknown"
	}
}

type options struct {
	rebuildThreshold float32
	searchMode       SearchMode
	debug            bool
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Tree construction.
type Option func(*options)

// WithRebuildThreshold sets the live/previous-rebuild size ratio above which
// the next insert triggers a rebuild. Values below 1 are rejected by New.
func WithRebuildThreshold(ratio float32) Option {
	return func(o *options) {
		o.rebuildThreshold = ratio
	}
}

// WithSearchMode selects the query strategy.
//
// The default, SearchSinglePath, evaluates only the nodes on one descent path.
// SearchExhaustive is a deliberate deviation that trades O(N) query cost for
// exact results.
func WithSearchMode(mode SearchMode) Option {
	return func(o *options) {
		o.searchMode = mode
	}
}

// WithDebug enables verbose diagnostics (rebuild numbers, medians) at Info level.
func WithDebug(on bool) Option {
	return func(o *options) {
		o.debug = on
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &kdtree.BasicMetricsCollector{}
//	tree, _ := kdtree.New(1000, 3, kdtree.WithMetricsCollector(metrics))
//	// ... use tree ...
//	stats := metrics.GetStats()
//	fmt.Printf("Inserts: %d, Rebuilds: %d\n", stats.InsertCount, stats.RebuildCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := kdtree.NewJSONLogger(slog.LevelInfo)
//	tree, _ := kdtree.New(1000, 3, kdtree.WithLogger(logger))
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

func applyOptions(optFns []Option) options {
	o := options{
		rebuildThreshold: DefaultRebuildThreshold,
		searchMode:       SearchSinglePath,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
