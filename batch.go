package kdtree

import (
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/kdtree/internal/arena"
	"github.com/hupe1980/kdtree/internal/conv"
)

// BatchResult reports the per-item outcome of a batch operation.
type BatchResult struct {
	// Succeeded is the number of items applied to the tree.
	Succeeded int
	// Failed holds the input indices of items that were not applied.
	Failed *roaring.Bitmap
	// Errors is index-aligned with the input; nil for applied items.
	Errors []error
}

func newBatchResult(n int) BatchResult {
	return BatchResult{
		Failed: roaring.New(),
		Errors: make([]error, n),
	}
}

func (r *BatchResult) fail(i int, err error) {
	idx, cerr := conv.IntToUint32(i)
	if cerr != nil {
		panic(cerr)
	}
	r.Failed.Add(idx)
	r.Errors[i] = err
}

// FailedCount returns the number of items that were not applied.
func (r BatchResult) FailedCount() int {
	if r.Failed == nil {
		return 0
	}
	return conv.MustUint64ToInt(r.Failed.GetCardinality())
}

// InsertBatch inserts points in input order. Points are copied into the
// staging pool in chunks of at most Capacity points and inserted from there,
// so the caller may reuse the input slices once InsertBatch returns.
//
// Each point goes through the regular insert path, including the rebuild
// check. A failing point does not stop the batch.
func (t *Tree) InsertBatch(points [][]float32) (BatchResult, error) {
	if err := t.ready(); err != nil {
		return BatchResult{}, err
	}
	if t.state == stateRebuilding {
		return BatchResult{}, ErrLocked
	}

	start := time.Now()
	res := newBatchResult(len(points))
	chunk := t.staging.Cap()
	refs := make([]arena.Ref, 0, min(chunk, len(points)))

	for off := 0; off < len(points); off += chunk {
		end := min(off+chunk, len(points))

		t.staging.Reset()
		refs = refs[:0]
		for i := off; i < end; i++ {
			if err := t.validate(points[i]); err != nil {
				res.fail(i, err)
				refs = append(refs, arena.Nil)
				continue
			}
			r, err := t.staging.Acquire(points[i])
			if err != nil {
				res.fail(i, translateError(err))
			}
			refs = append(refs, r)
		}

		for j, r := range refs {
			if r == arena.Nil {
				continue
			}
			if err := t.insertEntry(t.staging.Point(r)); err != nil {
				res.fail(off+j, err)
				continue
			}
			res.Succeeded++
		}
	}
	t.staging.Reset()

	failed := res.FailedCount()
	t.metrics.RecordBatchInsert(len(points), failed, time.Since(start))
	t.logger.LogBatchInsert(len(points), failed)
	return res, nil
}

// DeleteBatch deletes points in input order. A point that is not found is
// recorded as failed and does not stop the batch.
func (t *Tree) DeleteBatch(points [][]float32) (BatchResult, error) {
	if err := t.ready(); err != nil {
		return BatchResult{}, err
	}
	if t.state == stateRebuilding {
		return BatchResult{}, ErrLocked
	}

	res := newBatchResult(len(points))
	for i, p := range points {
		start := time.Now()
		err := t.deleteEntry(p)
		t.metrics.RecordDelete(time.Since(start), err)
		if err != nil {
			res.fail(i, err)
			continue
		}
		res.Succeeded++
	}

	t.logger.Debug("batch delete completed",
		"total", len(points),
		"succeeded", res.Succeeded,
		"live", t.live,
	)
	return res, nil
}
