package kdtree

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kdtree/testutil"
)

// insertDiagonal inserts (-100,-100,-100) followed by the ten diagonal points
// (-4,-4,-4) through (5,5,5).
func insertDiagonal(t *testing.T, tr *Tree) [][]float32 {
	t.Helper()
	pts := append([][]float32{{-100, -100, -100}}, testutil.Diagonal(10, 3, -4)...)
	for _, p := range pts {
		require.NoError(t, tr.Insert(p))
	}
	return pts
}

func TestRebuild_Diagonal(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	tr := newTree(t, 16, 3, WithMetricsCollector(metrics))

	pts := [][]float32{{-100, -100, -100}}
	pts = append(pts, testutil.Diagonal(10, 3, -4)...)

	// Rebuilds fire on the 4th insert (3 live, 3/1 > 2) and on the 8th
	// (7 live, 7/3 > 2).
	wantRebuilds := []int{0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2}
	for i, p := range pts {
		require.NoError(t, tr.Insert(p))
		assert.Equal(t, wantRebuilds[i], tr.Rebuilds(), "after insert %d", i+1)
		assert.Equal(t, i+1, tr.Len())
	}

	for d := range 3 {
		m, err := tr.Median(d)
		require.NoError(t, err)
		assert.Equal(t, float32(-2), m)
	}

	s, err := tr.Stats()
	require.NoError(t, err)
	assert.Equal(t, 7, s.PreviousRebuildSize)

	ms := metrics.GetStats()
	assert.Equal(t, int64(2), ms.RebuildCount)
	assert.Equal(t, int64(3+7), ms.RebuildPoints)
	assert.Equal(t, int64(11), ms.InsertCount)

	for _, p := range pts {
		mustContain(t, tr, p, true)
	}
}

func TestRebuild_FirstMedians(t *testing.T) {
	tr := newTree(t, 16, 3)
	for _, p := range [][]float32{{-100, -100, -100}, {-4, -4, -4}, {-3, -3, -3}, {-2, -2, -2}} {
		require.NoError(t, tr.Insert(p))
	}

	require.Equal(t, 1, tr.Rebuilds())
	m, err := tr.Median(0)
	require.NoError(t, err)
	assert.Equal(t, float32(-4), m, "lower median of {-100, -4, -3}")
}

func TestRebuild_Transparency(t *testing.T) {
	tr := newTree(t, 2048, 4)
	pts := testutil.NewRNG(11).ClusteredPoints(2000, 4, 8, 0.5)

	for _, p := range pts {
		require.NoError(t, tr.Insert(p))
	}

	assert.Equal(t, 2000, tr.Len())
	assert.GreaterOrEqual(t, tr.Rebuilds(), 5)
	for _, p := range pts {
		mustContain(t, tr, p, true)
	}
}

func TestRebuild_ThresholdControlsFrequency(t *testing.T) {
	count := func(threshold float32) int {
		tr := newTree(t, 1024, 2, WithRebuildThreshold(threshold))
		for _, p := range testutil.NewRNG(3).UniformPoints(1000, 2) {
			require.NoError(t, tr.Insert(p))
		}
		return tr.Rebuilds()
	}

	assert.Greater(t, count(1.1), count(2))
	assert.Greater(t, count(2), count(8))
}

func TestRebuild_RestoresNavigationAfterDelete(t *testing.T) {
	rng := testutil.NewRNG(5)
	tr := newTree(t, 512, 3, WithRebuildThreshold(1000))
	pts := rng.RangePoints(300, 3, -1, 1)
	for _, p := range pts[:3] {
		require.NoError(t, tr.Insert(p))
	}
	require.NoError(t, tr.Rebalance())
	for _, p := range pts[3:] {
		require.NoError(t, tr.Insert(p))
	}

	var live [][]float32
	for i, p := range pts {
		if i%4 == 0 && tr.Delete(p) == nil {
			continue
		}
		live = append(live, p)
	}

	require.NoError(t, tr.Rebalance())

	assert.Equal(t, len(live), tr.Len())
	for _, p := range live {
		mustContain(t, tr, p, true)
	}
}

func TestRebalance(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		tr := newTree(t, 8, 2)
		require.NoError(t, tr.Rebalance())

		assert.Equal(t, 1, tr.Rebuilds())
		assert.Equal(t, 0, tr.Len())
	})

	t.Run("UpdatesBaseline", func(t *testing.T) {
		tr := newTree(t, 16, 1)
		for _, v := range []float32{5, 1, 4, 2, 3} {
			require.NoError(t, tr.Insert([]float32{v}))
		}
		before := tr.Rebuilds()

		require.NoError(t, tr.Rebalance())

		assert.Equal(t, before+1, tr.Rebuilds())
		m, err := tr.Median(0)
		require.NoError(t, err)
		assert.Equal(t, float32(3), m)

		s, err := tr.Stats()
		require.NoError(t, err)
		assert.Equal(t, 5, s.PreviousRebuildSize)
	})
}

func TestRebuild_DebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	tr := newTree(t, 8, 1, WithLogger(logger))
	for _, v := range []float32{1, 2, 3, 4} {
		require.NoError(t, tr.Insert([]float32{v}))
	}
	assert.NotContains(t, buf.String(), "rebuild completed")

	tr.SetDebug(true)
	require.NoError(t, tr.Rebalance())
	assert.Contains(t, buf.String(), "rebuild completed")
	assert.Contains(t, buf.String(), "rebuild=2")
}
