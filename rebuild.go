package kdtree

import (
	"time"

	"github.com/hupe1980/kdtree/internal/arena"
)

// checkRebuild runs the rebalancing controller. It is consulted at the start
// of every insert.
func (t *Tree) checkRebuild() error {
	if t.state != stateActive {
		return nil
	}
	if t.previous == 0 {
		t.previous = t.live
		return nil
	}
	if float32(t.live)/float32(t.previous) <= t.threshold {
		return nil
	}
	if err := t.rebuild(); err != nil {
		return err
	}
	t.previous = t.live
	return nil
}

// Rebalance rebuilds the tree immediately: split values are recomputed from
// the live points and every point is reinserted.
func (t *Tree) Rebalance() error {
	if err := t.ready(); err != nil {
		return err
	}
	if t.state == stateRebuilding {
		return ErrLocked
	}
	if err := t.rebuild(); err != nil {
		return err
	}
	t.previous = t.live
	return nil
}

func (t *Tree) rebuild() error {
	start := time.Now()
	t.rebuilds++
	t.state = stateRebuilding
	defer func() { t.state = stateActive }()
	defer t.processing.Reset()

	captured, err := t.capture()
	if err != nil {
		return err
	}
	if len(captured) == 0 {
		return nil
	}

	for d := range t.dims {
		if err := t.medians.Recompute(d, captured); err != nil {
			return translateError(err)
		}
	}

	t.nodes.Reset()
	t.root = arena.Nil
	t.live = 0
	for _, p := range captured {
		if err := t.insert(p); err != nil {
			return err
		}
	}

	d := time.Since(start)
	t.metrics.RecordRebuild(len(captured), d)
	t.logger.LogRebuild(t.rebuilds, len(captured), t.medians.Values(), d, t.debug)
	return nil
}

// capture copies every live point into the processing pool in traversal
// order. The returned views alias the processing pool.
func (t *Tree) capture() ([][]float32, error) {
	t.processing.Reset()
	points := make([][]float32, 0, t.live)

	var err error
	t.inOrder(func(r arena.Ref) {
		if err != nil {
			return
		}
		var c arena.Ref
		if c, err = t.processing.Acquire(t.nodes.Point(r)); err == nil {
			points = append(points, t.processing.Point(c))
		}
	})
	if err != nil {
		return nil, translateError(err)
	}
	return points, nil
}
