package kdtree

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l.WithDimension(2).WithCount(7).LogInsert(3, nil)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "insert completed", rec["msg"])
	assert.Equal(t, float64(2), rec["dimension"])
	assert.Equal(t, float64(7), rec["count"])
	assert.Equal(t, float64(3), rec["live"])
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	l.LogDelete(1, ErrNotFound)
	l.LogRebuild(1, 10, []float32{1}, time.Millisecond, false)
	assert.Empty(t, buf.String())

	l.LogRebuild(2, 10, []float32{1}, time.Millisecond, true)
	l.LogSearch("knn", 0, errors.New("boom"))
	l.LogBatchInsert(5, 2)
	l.LogRejected("insert", ErrLocked)

	out := buf.String()
	assert.Contains(t, out, "rebuild completed")
	assert.Contains(t, out, "search failed")
	assert.Contains(t, out, "batch insert completed with failures")
	assert.Contains(t, out, "operation rejected")
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(t.Context(), slog.LevelError))
}

func TestTree_LogsRejectedMutation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, nil))
	tr := newTree(t, 4, 1, WithLogger(logger))
	tr.state = stateRebuilding

	require.ErrorIs(t, tr.Insert([]float32{1}), ErrLocked)
	assert.Contains(t, buf.String(), "op=insert")
}
