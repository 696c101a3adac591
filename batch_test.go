package kdtree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kdtree/testutil"
)

func TestInsertBatch(t *testing.T) {
	t.Run("PartialFailure", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}
		tr := newTree(t, 4, 2, WithMetricsCollector(metrics))

		res, err := tr.InsertBatch([][]float32{
			{1, 1},
			{2},
			{3, 3},
			{4, 4},
			{float32(math.NaN()), 5},
			{6, 6},
		})
		require.NoError(t, err)

		assert.Equal(t, 4, res.Succeeded)
		assert.Equal(t, []uint32{1, 4}, res.Failed.ToArray())
		require.Len(t, res.Errors, 6)
		var dm *ErrDimensionMismatch
		assert.ErrorAs(t, res.Errors[1], &dm)
		assert.ErrorIs(t, res.Errors[4], ErrInvalidPoint)
		assert.NoError(t, res.Errors[0])

		assert.Equal(t, 4, tr.Len())
		for _, p := range [][]float32{{1, 1}, {3, 3}, {4, 4}, {6, 6}} {
			mustContain(t, tr, p, true)
		}
		assert.Equal(t, 0, tr.staging.Len())

		s := metrics.GetStats()
		assert.Equal(t, int64(1), s.BatchInsertCount)
		assert.Equal(t, int64(6), s.BatchInsertItems)
		assert.Equal(t, int64(2), s.BatchInsertFailed)
	})

	t.Run("CapacityExceeded", func(t *testing.T) {
		tr := newTree(t, 3, 1)

		res, err := tr.InsertBatch([][]float32{{1}, {2}, {3}, {4}, {5}})
		require.NoError(t, err)

		assert.Equal(t, 3, res.Succeeded)
		assert.Equal(t, []uint32{3, 4}, res.Failed.ToArray())
		assert.ErrorIs(t, res.Errors[3], ErrCapacityExceeded)
		assert.ErrorIs(t, res.Errors[4], ErrCapacityExceeded)
		assert.Equal(t, 3, tr.Len())
	})

	t.Run("ChunksThroughStaging", func(t *testing.T) {
		tr := newTree(t, 100, 3)
		pts := testutil.NewRNG(9).UniformPoints(100, 3)

		res, err := tr.InsertBatch(pts[:60])
		require.NoError(t, err)
		assert.Equal(t, 60, res.Succeeded)
		assert.True(t, res.Failed.IsEmpty())

		res, err = tr.InsertBatch(pts[60:])
		require.NoError(t, err)
		assert.Equal(t, 40, res.Succeeded)

		assert.Equal(t, 100, tr.Len())
		assert.Greater(t, tr.Rebuilds(), 0)
		for _, p := range pts {
			mustContain(t, tr, p, true)
		}
	})

	t.Run("LargerThanStaging", func(t *testing.T) {
		tr := newTree(t, 10, 1)
		batch := make([][]float32, 25)
		for i := range batch {
			batch[i] = []float32{float32(i)}
		}

		res, err := tr.InsertBatch(batch)
		require.NoError(t, err)

		assert.Equal(t, 10, res.Succeeded)
		assert.Equal(t, uint64(15), res.Failed.GetCardinality())
		assert.True(t, res.Failed.Contains(10))
		assert.False(t, res.Failed.Contains(9))
	})

	t.Run("Empty", func(t *testing.T) {
		tr := newTree(t, 4, 1)
		res, err := tr.InsertBatch(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Succeeded)
		assert.True(t, res.Failed.IsEmpty())
	})
}

func TestDeleteBatch(t *testing.T) {
	tr := newTree(t, 8, 2)
	for _, p := range [][]float32{{1, 1}, {2, 2}, {3, 3}} {
		require.NoError(t, tr.Insert(p))
	}

	res, err := tr.DeleteBatch([][]float32{{1, 1}, {3, 3}, {9, 9}, {1}})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, []uint32{2, 3}, res.Failed.ToArray())
	assert.Equal(t, 2, res.FailedCount())
	assert.ErrorIs(t, res.Errors[2], ErrNotFound)
	var dm *ErrDimensionMismatch
	assert.ErrorAs(t, res.Errors[3], &dm)

	assert.Equal(t, 1, tr.Len())
	mustContain(t, tr, []float32{2, 2}, true)
}

func TestBatchResult_FailedCount(t *testing.T) {
	var zero BatchResult
	assert.Equal(t, 0, zero.FailedCount())

	res := newBatchResult(3)
	res.fail(0, ErrNotFound)
	res.fail(2, ErrNotFound)
	assert.Equal(t, 2, res.FailedCount())
	assert.Nil(t, res.Errors[1])
}
