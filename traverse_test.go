package kdtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kdtree/internal/arena"
	"github.com/hupe1980/kdtree/testutil"
)

// links snapshots every child link so tests can check that traversal leaves
// the tree untouched.
func links(tr *Tree) map[arena.Ref][2]arena.Ref {
	out := map[arena.Ref][2]arena.Ref{}
	for r := arena.Ref(0); int(r) < tr.nodes.Cap(); r++ {
		if tr.nodes.Occupied(r) {
			out[r] = [2]arena.Ref{tr.nodes.Left(r), tr.nodes.Right(r)}
		}
	}
	return out
}

func TestTraverse(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		tr := newTree(t, 4, 2)
		got, err := tr.Traverse()
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("Diagonal", func(t *testing.T) {
		tr := newTree(t, 16, 3)
		pts := insertDiagonal(t, tr)
		before := links(tr)

		got, err := tr.Traverse()
		require.NoError(t, err)

		assert.Len(t, got, 11)
		assert.ElementsMatch(t, pts, got)
		assert.Equal(t, before, links(tr))

		// root -100 has left subtree {-3, -4} and a right chain -2..5.
		assert.Equal(t, []float32{-4, -4, -4}, got[0])
		assert.Equal(t, []float32{-3, -3, -3}, got[1])
		assert.Equal(t, []float32{-100, -100, -100}, got[2])
		assert.Equal(t, []float32{5, 5, 5}, got[10])
	})

	t.Run("ResultsAreOwned", func(t *testing.T) {
		tr := newTree(t, 4, 2)
		require.NoError(t, tr.Insert([]float32{1, 2}))

		got, err := tr.Traverse()
		require.NoError(t, err)
		got[0][0] = 42

		mustContain(t, tr, []float32{1, 2}, true)
		assert.Equal(t, 0, tr.results.Len())
	})

	t.Run("Random", func(t *testing.T) {
		tr := newTree(t, 1000, 5)
		pts := testutil.NewRNG(21).GaussianPoints(1000, 5)
		for _, p := range pts {
			require.NoError(t, tr.Insert(p))
		}
		before := links(tr)

		got, err := tr.Traverse()
		require.NoError(t, err)

		assert.ElementsMatch(t, pts, got)
		assert.Equal(t, before, links(tr))
	})
}
