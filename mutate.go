package kdtree

import (
	"slices"
	"time"

	"github.com/hupe1980/kdtree/internal/arena"
)

// Insert adds a copy of point to the tree. Duplicates are allowed.
//
// When the tree has grown past the rebuild threshold since the last rebuild,
// the tree is rebuilt before the point is placed.
func (t *Tree) Insert(point []float32) error {
	if err := t.ready(); err != nil {
		return err
	}

	start := time.Now()
	err := t.insertEntry(point)
	t.metrics.RecordInsert(time.Since(start), err)
	t.logger.LogInsert(t.live, err)
	return err
}

// Delete removes one occurrence of point from the tree.
// It returns ErrNotFound if the descent path does not reach an equal point.
func (t *Tree) Delete(point []float32) error {
	if err := t.ready(); err != nil {
		return err
	}

	start := time.Now()
	err := t.deleteEntry(point)
	t.metrics.RecordDelete(time.Since(start), err)
	t.logger.LogDelete(t.live, err)
	return err
}

// Update replaces oldPoint with newPoint. It is a Delete followed by an
// Insert; if oldPoint is not found the tree is left unchanged.
func (t *Tree) Update(oldPoint, newPoint []float32) error {
	if err := t.ready(); err != nil {
		return err
	}

	start := time.Now()
	err := t.updateEntry(oldPoint, newPoint)
	t.metrics.RecordUpdate(time.Since(start), err)
	t.logger.LogUpdate(t.live, err)
	return err
}

func (t *Tree) insertEntry(point []float32) error {
	if err := t.validate(point); err != nil {
		return err
	}
	if t.state == stateRebuilding {
		t.logger.LogRejected("insert", ErrLocked)
		return ErrLocked
	}
	if err := t.checkRebuild(); err != nil {
		return err
	}
	return t.insert(point)
}

func (t *Tree) deleteEntry(point []float32) error {
	if err := t.validate(point); err != nil {
		return err
	}
	if t.state == stateRebuilding {
		t.logger.LogRejected("delete", ErrLocked)
		return ErrLocked
	}
	return t.remove(point)
}

func (t *Tree) updateEntry(oldPoint, newPoint []float32) error {
	if err := t.validate(oldPoint); err != nil {
		return err
	}
	if err := t.validate(newPoint); err != nil {
		return err
	}
	if t.state == stateRebuilding {
		t.logger.LogRejected("update", ErrLocked)
		return ErrLocked
	}
	if err := t.remove(oldPoint); err != nil {
		return err
	}
	return t.insertEntry(newPoint)
}

// insert places point without consulting the rebalancing controller.
func (t *Tree) insert(point []float32) error {
	r, err := t.nodes.Acquire(point)
	if err != nil {
		return translateError(err)
	}

	if t.root == arena.Nil {
		t.root = r
		t.live++
		return nil
	}

	cur := t.root
	for depth := 0; ; depth++ {
		if t.goesLeft(point, depth) {
			next := t.nodes.Left(cur)
			if next == arena.Nil {
				t.nodes.SetLeft(cur, r)
				break
			}
			cur = next
		} else {
			next := t.nodes.Right(cur)
			if next == arena.Nil {
				t.nodes.SetRight(cur, r)
				break
			}
			cur = next
		}
	}
	t.live++
	return nil
}

// goesLeft reports whether point descends left at the given depth.
func (t *Tree) goesLeft(point []float32, depth int) bool {
	cd := depth % t.dims
	return point[cd] < t.medians.At(cd)
}

// locate follows the descent path of point and returns the first node whose
// coordinates equal it, together with that node's parent.
func (t *Tree) locate(point []float32) (node, parent arena.Ref) {
	parent = arena.Nil
	cur := t.root
	for depth := 0; cur != arena.Nil; depth++ {
		if slices.Equal(t.nodes.Point(cur), point) {
			return cur, parent
		}
		parent = cur
		if t.goesLeft(point, depth) {
			cur = t.nodes.Left(cur)
		} else {
			cur = t.nodes.Right(cur)
		}
	}
	return arena.Nil, parent
}

func (t *Tree) remove(point []float32) error {
	node, parent := t.locate(point)
	if node == arena.Nil {
		return ErrNotFound
	}

	left, right := t.nodes.Left(node), t.nodes.Right(node)
	switch {
	case left == arena.Nil && right == arena.Nil:
		t.replaceChild(parent, node, arena.Nil)
		t.nodes.Release(node)
	case left == arena.Nil:
		t.replaceChild(parent, node, right)
		t.nodes.Release(node)
	case right == arena.Nil:
		t.replaceChild(parent, node, left)
		t.nodes.Release(node)
	default:
		// Copy the in-order successor into node and unlink the successor.
		succParent, succ := node, right
		for t.nodes.Left(succ) != arena.Nil {
			succParent = succ
			succ = t.nodes.Left(succ)
		}
		t.nodes.SetPoint(node, t.nodes.Point(succ))
		if succParent == node {
			t.nodes.SetRight(node, t.nodes.Right(succ))
		} else {
			t.nodes.SetLeft(succParent, t.nodes.Right(succ))
		}
		t.nodes.Release(succ)
	}

	t.live--
	return nil
}

// replaceChild swings the link from parent to old over to child.
// A Nil parent means old is the root.
func (t *Tree) replaceChild(parent, old, child arena.Ref) {
	switch {
	case parent == arena.Nil:
		t.root = child
	case t.nodes.Left(parent) == old:
		t.nodes.SetLeft(parent, child)
	default:
		t.nodes.SetRight(parent, child)
	}
}
