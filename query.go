package kdtree

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/hupe1980/kdtree/distance"
	"github.com/hupe1980/kdtree/internal/arena"
	"github.com/hupe1980/kdtree/internal/queue"
)

// Neighbor is a query result.
type Neighbor struct {
	// Point is a copy of the stored coordinates.
	Point []float32
	// Distance is the Euclidean distance to the query point.
	Distance float32
}

// Contains reports whether point is reached on its own descent path.
//
// A point that was displaced by a two-child delete may not be found until the
// next rebuild.
func (t *Tree) Contains(point []float32) (bool, error) {
	if err := t.ready(); err != nil {
		return false, err
	}
	if err := t.validate(point); err != nil {
		return false, err
	}
	node, _ := t.locate(point)
	return node != arena.Nil, nil
}

// KNearest returns up to k points ordered by ascending distance to point.
//
// In SearchSinglePath mode only the nodes on the query's descent path are
// evaluated, so fewer than k results may be returned even when the tree holds
// more points.
func (t *Tree) KNearest(point []float32, k int) ([]Neighbor, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := t.kNearest(point, k)
	t.metrics.RecordSearch(k, time.Since(start), err)
	t.logger.LogSearch("knn", len(res), err)
	return res, err
}

// WithinRadius returns every evaluated point whose distance to point is at
// most radius, ordered by ascending distance.
func (t *Tree) WithinRadius(point []float32, radius float32) ([]Neighbor, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := t.withinRadius(point, radius)
	t.metrics.RecordRadiusSearch(len(res), time.Since(start), err)
	t.logger.LogSearch("radius", len(res), err)
	return res, err
}

func (t *Tree) kNearest(point []float32, k int) ([]Neighbor, error) {
	if err := t.validate(point); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, ErrInvalidK
	}

	if t.opts.searchMode == SearchExhaustive {
		return t.exhaustiveKNearest(point, k), nil
	}

	c, err := t.collectPath(point, func(float32) bool { return true })
	if err != nil {
		return nil, err
	}
	return t.drain(c, min(k, c.Len())), nil
}

func (t *Tree) withinRadius(point []float32, radius float32) ([]Neighbor, error) {
	if err := t.validate(point); err != nil {
		return nil, err
	}
	if radius < 0 || math.IsNaN(float64(radius)) {
		return nil, ErrInvalidRadius
	}

	if t.opts.searchMode == SearchExhaustive {
		return t.exhaustiveWithinRadius(point, radius), nil
	}

	c, err := t.collectPath(point, func(d float32) bool { return d <= radius })
	if err != nil {
		return nil, err
	}
	return t.drain(c, c.Len()), nil
}

// collectPath walks the descent path of point and offers every accepted node
// to a candidate buffer backed by the results pool. The buffer is returned
// sorted.
func (t *Tree) collectPath(point []float32, accept func(float32) bool) (*queue.Candidates, error) {
	c := queue.NewCandidates(t.results)

	cur := t.root
	for depth := 0; cur != arena.Nil; depth++ {
		p := t.nodes.Point(cur)
		if d := distance.Euclidean(point, p); accept(d) {
			if err := c.Offer(p, d); err != nil {
				c.Release()
				return nil, translateError(err)
			}
		}
		if t.goesLeft(point, depth) {
			cur = t.nodes.Left(cur)
		} else {
			cur = t.nodes.Right(cur)
		}
	}

	c.Sort()
	return c, nil
}

// drain copies the first n candidates out of c and releases it.
func (t *Tree) drain(c *queue.Candidates, n int) []Neighbor {
	defer c.Release()

	out := make([]Neighbor, n)
	data := make([]float32, n*t.dims)
	for i := range n {
		p, d := c.At(i)
		pt := data[i*t.dims : (i+1)*t.dims : (i+1)*t.dims]
		copy(pt, p)
		out[i] = Neighbor{Point: pt, Distance: d}
	}
	return out
}

func (t *Tree) exhaustiveKNearest(point []float32, k int) []Neighbor {
	pq := queue.NewMax(min(k, t.live))
	t.inOrder(func(r arena.Ref) {
		pq.PushBounded(queue.Item{
			Node:     r,
			Distance: distance.Euclidean(point, t.nodes.Point(r)),
		}, k)
	})

	out := make([]Neighbor, pq.Len())
	for i := len(out) - 1; i >= 0; i-- {
		item, _ := pq.PopItem()
		out[i] = Neighbor{
			Point:    slices.Clone(t.nodes.Point(item.Node)),
			Distance: item.Distance,
		}
	}
	return out
}

func (t *Tree) exhaustiveWithinRadius(point []float32, radius float32) []Neighbor {
	out := make([]Neighbor, 0)
	t.inOrder(func(r arena.Ref) {
		p := t.nodes.Point(r)
		if d := distance.Euclidean(point, p); d <= radius {
			out = append(out, Neighbor{Point: slices.Clone(p), Distance: d})
		}
	})
	slices.SortStableFunc(out, func(a, b Neighbor) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return out
}
