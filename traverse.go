package kdtree

import "github.com/hupe1980/kdtree/internal/arena"

// inOrder visits every node in left-subtree, node, right-subtree order
// without a stack. Temporary right-links (threads) are installed on the way
// down and removed on the way back, so the tree is unchanged on return.
// visit must not modify links.
func (t *Tree) inOrder(visit func(arena.Ref)) {
	cur := t.root
	for cur != arena.Nil {
		left := t.nodes.Left(cur)
		if left == arena.Nil {
			visit(cur)
			cur = t.nodes.Right(cur)
			continue
		}

		pre := left
		for {
			next := t.nodes.Right(pre)
			if next == arena.Nil || next == cur {
				break
			}
			pre = next
		}

		if t.nodes.Right(pre) == arena.Nil {
			t.nodes.SetRight(pre, cur)
			cur = left
		} else {
			t.nodes.SetRight(pre, arena.Nil)
			visit(cur)
			cur = t.nodes.Right(cur)
		}
	}
}

// Traverse returns a copy of every live point in traversal order.
func (t *Tree) Traverse() ([][]float32, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}

	t.results.Reset()
	defer t.results.Reset()

	refs := make([]arena.Ref, 0, t.live)
	var err error
	t.inOrder(func(r arena.Ref) {
		if err != nil {
			return
		}
		var s arena.Ref
		if s, err = t.results.Acquire(t.nodes.Point(r)); err == nil {
			refs = append(refs, s)
		}
	})
	if err != nil {
		return nil, translateError(err)
	}

	data := make([]float32, len(refs)*t.dims)
	out := make([][]float32, len(refs))
	for i, s := range refs {
		p := data[i*t.dims : (i+1)*t.dims : (i+1)*t.dims]
		copy(p, t.results.Point(s))
		out[i] = p
	}
	return out, nil
}
