package kdtree

import (
	"math"

	"github.com/hupe1980/kdtree/internal/arena"
	"github.com/hupe1980/kdtree/internal/median"
)

// state is the rebalancing controller's mode. It guards the rebuild procedure
// against re-entering itself through its own reinsertions; it is not a lock.
type state uint8

const (
	stateActive state = iota
	stateRebuilding
)

// Tree is a kd-tree over fixed-length float32 points with amortized
// self-rebalancing.
//
// A Tree is not safe for concurrent use. Callers sharing a Tree between
// goroutines must serialize every call, e.g. with one sync.Mutex per Tree.
type Tree struct {
	dims     int
	capacity int

	nodes      *arena.Pool // tree storage
	results    *arena.Pool // traversal snapshots and query candidates
	staging    *arena.Pool // bulk-load staging
	processing *arena.Pool // rebuild capture

	medians *median.Table
	root    arena.Ref

	state       state
	initialized bool
	live        int
	previous    int // live count recorded at the last rebuild
	threshold   float32
	rebuilds    int
	debug       bool

	opts    options
	logger  *Logger
	metrics MetricsCollector
}

// New allocates and initializes a tree holding at most capacity points of the
// given dimensionality.
func New(capacity, dimensions int, optFns ...Option) (*Tree, error) {
	if capacity <= 0 {
		return nil, &ErrInvalidCapacity{Capacity: capacity}
	}
	if dimensions <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dimensions}
	}

	o := applyOptions(optFns)
	if !validThreshold(o.rebuildThreshold) {
		return nil, ErrInvalidThreshold
	}

	t := &Tree{
		dims:     dimensions,
		capacity: capacity,
		opts:     o,
		logger:   o.logger,
		metrics:  o.metricsCollector,
		medians:  median.NewTable(dimensions, capacity),
	}

	var err error
	if t.nodes, err = arena.New("nodes", capacity, dimensions); err != nil {
		return nil, err
	}
	if t.results, err = arena.New("results", 2*capacity, dimensions); err != nil {
		return nil, err
	}
	if t.staging, err = arena.New("staging", capacity, dimensions); err != nil {
		return nil, err
	}
	if t.processing, err = arena.New("processing", 2*capacity, dimensions); err != nil {
		return nil, err
	}

	if err := t.Init(); err != nil {
		return nil, err
	}
	return t, nil
}

// Init clears every pool and all control state: the tree becomes empty, the
// split values return to unset, counters are zeroed and the rebuild threshold
// and debug flag return to their configured values.
//
// New calls Init; calling it again resets the tree.
func (t *Tree) Init() error {
	if t == nil || t.nodes == nil {
		return ErrUninitialized
	}

	for _, p := range t.pools() {
		p.Reset()
	}
	t.medians.Reset()

	t.root = arena.Nil
	t.state = stateActive
	t.live = 0
	t.previous = 0
	t.threshold = t.opts.rebuildThreshold
	t.rebuilds = 0
	t.debug = t.opts.debug
	t.initialized = true

	t.logger.Debug("tree initialized",
		"capacity", t.capacity,
		"dimensions", t.dims,
		"threshold", t.threshold,
	)
	return nil
}

// Close releases all pools. Every later call on the tree returns
// ErrUninitialized. Close is idempotent.
func (t *Tree) Close() error {
	if t == nil || t.nodes == nil {
		return nil
	}
	for _, p := range t.pools() {
		p.Free()
	}
	t.nodes, t.results, t.staging, t.processing = nil, nil, nil, nil
	t.root = arena.Nil
	t.live = 0
	t.initialized = false
	return nil
}

// Len returns the number of live points.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return t.live
}

// Capacity returns the maximum number of points the tree can hold.
func (t *Tree) Capacity() int {
	if t == nil {
		return 0
	}
	return t.capacity
}

// Dimensions returns the number of coordinates per point.
func (t *Tree) Dimensions() int {
	if t == nil {
		return 0
	}
	return t.dims
}

// Rebuilds returns how many rebuilds have run since the last Init.
func (t *Tree) Rebuilds() int {
	if t == nil {
		return 0
	}
	return t.rebuilds
}

// SetRebuildThreshold sets the live/previous-rebuild size ratio above which the
// next insert rebuilds the tree.
func (t *Tree) SetRebuildThreshold(ratio float32) error {
	if err := t.ready(); err != nil {
		return err
	}
	if !validThreshold(ratio) {
		return ErrInvalidThreshold
	}
	t.threshold = ratio
	return nil
}

// RebuildThreshold returns the current rebuild ratio threshold.
func (t *Tree) RebuildThreshold() float32 {
	if t == nil {
		return 0
	}
	return t.threshold
}

// SetDebug toggles verbose diagnostics.
func (t *Tree) SetDebug(on bool) {
	if t == nil {
		return
	}
	t.debug = on
}

// Debug reports whether verbose diagnostics are enabled.
func (t *Tree) Debug() bool {
	return t != nil && t.debug
}

// Median returns the split value currently used for dimension dim.
func (t *Tree) Median(dim int) (float32, error) {
	if err := t.ready(); err != nil {
		return 0, err
	}
	v, err := t.medians.Get(dim)
	return v, translateError(err)
}

// PoolStats describes the occupancy of one slot pool.
type PoolStats struct {
	Name     string
	Capacity int
	InUse    int
	Acquires uint64
	Resets   uint64
}

// Stats is a snapshot of tree state.
type Stats struct {
	Live                int
	Capacity            int
	Dimensions          int
	Rebuilds            int
	PreviousRebuildSize int
	RebuildThreshold    float32
	SearchMode          SearchMode
	Medians             []float32
	Pools               []PoolStats
}

// Stats returns a snapshot of the tree's counters, split values and pools.
func (t *Tree) Stats() (Stats, error) {
	if err := t.ready(); err != nil {
		return Stats{}, err
	}

	s := Stats{
		Live:                t.live,
		Capacity:            t.capacity,
		Dimensions:          t.dims,
		Rebuilds:            t.rebuilds,
		PreviousRebuildSize: t.previous,
		RebuildThreshold:    t.threshold,
		SearchMode:          t.opts.searchMode,
		Medians:             t.medians.Values(),
	}
	for _, p := range t.pools() {
		ps := p.Stats()
		s.Pools = append(s.Pools, PoolStats{
			Name:     ps.Name,
			Capacity: ps.Capacity,
			InUse:    ps.InUse,
			Acquires: ps.Acquires,
			Resets:   ps.Resets,
		})
	}
	return s, nil
}

func (t *Tree) pools() []*arena.Pool {
	return []*arena.Pool{t.nodes, t.results, t.staging, t.processing}
}

func (t *Tree) ready() error {
	if t == nil || !t.initialized {
		return ErrUninitialized
	}
	return nil
}

func (t *Tree) validate(point []float32) error {
	if len(point) != t.dims {
		return &ErrDimensionMismatch{Expected: t.dims, Actual: len(point)}
	}
	for _, v := range point {
		if math.IsNaN(float64(v)) {
			return ErrInvalidPoint
		}
	}
	return nil
}

func validThreshold(ratio float32) bool {
	return ratio >= 1 && !math.IsNaN(float64(ratio))
}
