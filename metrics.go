package kdtree

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; package prom
// provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordInsert is called after each insert operation.
	// duration is the total time taken, err is nil if successful.
	RecordInsert(duration time.Duration, err error)

	// RecordBatchInsert is called after each batch insert operation.
	// count is the number of items attempted, failed is the number that failed,
	// duration is the total time taken.
	RecordBatchInsert(count, failed int, duration time.Duration)

	// RecordSearch is called after each k-nearest query.
	// k is the number of neighbors requested, duration is the time taken,
	// err is nil if successful.
	RecordSearch(k int, duration time.Duration, err error)

	// RecordRadiusSearch is called after each radius query.
	RecordRadiusSearch(found int, duration time.Duration, err error)

	// RecordDelete is called after each delete operation.
	RecordDelete(duration time.Duration, err error)

	// RecordUpdate is called after each update operation.
	RecordUpdate(duration time.Duration, err error)

	// RecordRebuild is called after each rebuild with the number of points
	// reinserted.
	RecordRebuild(size int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(time.Duration, error)            {}
func (NoopMetricsCollector) RecordBatchInsert(int, int, time.Duration)    {}
func (NoopMetricsCollector) RecordSearch(int, time.Duration, error)       {}
func (NoopMetricsCollector) RecordRadiusSearch(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)            {}
func (NoopMetricsCollector) RecordUpdate(time.Duration, error)            {}
func (NoopMetricsCollector) RecordRebuild(int, time.Duration)             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount       atomic.Int64
	InsertErrors      atomic.Int64
	InsertTotalNanos  atomic.Int64
	BatchInsertCount  atomic.Int64
	BatchInsertItems  atomic.Int64
	BatchInsertFailed atomic.Int64
	SearchCount       atomic.Int64
	SearchErrors      atomic.Int64
	SearchTotalNanos  atomic.Int64
	RadiusCount       atomic.Int64
	RadiusErrors      atomic.Int64
	DeleteCount       atomic.Int64
	DeleteErrors      atomic.Int64
	UpdateCount       atomic.Int64
	UpdateErrors      atomic.Int64
	RebuildCount      atomic.Int64
	RebuildPoints     atomic.Int64
	RebuildTotalNanos atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(duration time.Duration, err error) {
	b.InsertCount.Add(1)
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.InsertErrors.Add(1)
	}
}

// RecordBatchInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatchInsert(count, failed int, _ time.Duration) {
	b.BatchInsertCount.Add(1)
	b.BatchInsertItems.Add(int64(count))
	b.BatchInsertFailed.Add(int64(failed))
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(_ int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// RecordRadiusSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRadiusSearch(_ int, _ time.Duration, err error) {
	b.RadiusCount.Add(1)
	if err != nil {
		b.RadiusErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(_ time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(_ time.Duration, err error) {
	b.UpdateCount.Add(1)
	if err != nil {
		b.UpdateErrors.Add(1)
	}
}

// RecordRebuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRebuild(size int, duration time.Duration) {
	b.RebuildCount.Add(1)
	b.RebuildPoints.Add(int64(size))
	b.RebuildTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:       b.InsertCount.Load(),
		InsertErrors:      b.InsertErrors.Load(),
		InsertAvgNanos:    avg(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		BatchInsertCount:  b.BatchInsertCount.Load(),
		BatchInsertItems:  b.BatchInsertItems.Load(),
		BatchInsertFailed: b.BatchInsertFailed.Load(),
		SearchCount:       b.SearchCount.Load(),
		SearchErrors:      b.SearchErrors.Load(),
		SearchAvgNanos:    avg(b.SearchTotalNanos.Load(), b.SearchCount.Load()),
		RadiusCount:       b.RadiusCount.Load(),
		RadiusErrors:      b.RadiusErrors.Load(),
		DeleteCount:       b.DeleteCount.Load(),
		DeleteErrors:      b.DeleteErrors.Load(),
		UpdateCount:       b.UpdateCount.Load(),
		UpdateErrors:      b.UpdateErrors.Load(),
		RebuildCount:      b.RebuildCount.Load(),
		RebuildPoints:     b.RebuildPoints.Load(),
		RebuildAvgNanos:   avg(b.RebuildTotalNanos.Load(), b.RebuildCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount       int64
	InsertErrors      int64
	InsertAvgNanos    int64
	BatchInsertCount  int64
	BatchInsertItems  int64
	BatchInsertFailed int64
	SearchCount       int64
	SearchErrors      int64
	SearchAvgNanos    int64
	RadiusCount       int64
	RadiusErrors      int64
	DeleteCount       int64
	DeleteErrors      int64
	UpdateCount       int64
	UpdateErrors      int64
	RebuildCount      int64
	RebuildPoints     int64
	RebuildAvgNanos   int64
}
