// Package prom exports kd-tree operation metrics to Prometheus.
//
//	c := prom.NewCollector("kdtree")
//	prometheus.MustRegister(c)
//	tree, _ := kdtree.New(100000, 3, kdtree.WithMetricsCollector(c))
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/kdtree"
)

var _ kdtree.MetricsCollector = (*Collector)(nil)

// Collector implements kdtree.MetricsCollector and prometheus.Collector.
type Collector struct {
	opLatency     *prometheus.HistogramVec
	ops           *prometheus.CounterVec
	batchItems    *prometheus.CounterVec
	radiusResults prometheus.Histogram
	rebuilds      prometheus.Counter
	rebuildPoints prometheus.Counter
}

// NewCollector creates a collector whose metric names are prefixed with
// namespace.
func NewCollector(namespace string) *Collector {
	return &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of tree operations",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"op", "status"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total tree operations",
		}, []string{"op", "status"}),
		batchItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_items_total",
			Help:      "Items processed by batch inserts",
		}, []string{"status"}),
		radiusResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "radius_results",
			Help:      "Number of points returned by radius queries",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebuilds_total",
			Help:      "Total tree rebuilds",
		}),
		rebuildPoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebuild_points_total",
			Help:      "Points reinserted by rebuilds",
		}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.opLatency.Describe(ch)
	c.ops.Describe(ch)
	c.batchItems.Describe(ch)
	c.radiusResults.Describe(ch)
	c.rebuilds.Describe(ch)
	c.rebuildPoints.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.opLatency.Collect(ch)
	c.ops.Collect(ch)
	c.batchItems.Collect(ch)
	c.radiusResults.Collect(ch)
	c.rebuilds.Collect(ch)
	c.rebuildPoints.Collect(ch)
}

// RecordInsert implements kdtree.MetricsCollector.
func (c *Collector) RecordInsert(d time.Duration, err error) {
	c.observe("insert", d, err)
}

// RecordBatchInsert implements kdtree.MetricsCollector.
func (c *Collector) RecordBatchInsert(count, failed int, d time.Duration) {
	c.observe("batch_insert", d, nil)
	c.batchItems.WithLabelValues("success").Add(float64(count - failed))
	c.batchItems.WithLabelValues("error").Add(float64(failed))
}

// RecordSearch implements kdtree.MetricsCollector.
func (c *Collector) RecordSearch(_ int, d time.Duration, err error) {
	c.observe("knn", d, err)
}

// RecordRadiusSearch implements kdtree.MetricsCollector.
func (c *Collector) RecordRadiusSearch(found int, d time.Duration, err error) {
	c.observe("radius", d, err)
	if err == nil {
		c.radiusResults.Observe(float64(found))
	}
}

// RecordDelete implements kdtree.MetricsCollector.
func (c *Collector) RecordDelete(d time.Duration, err error) {
	c.observe("delete", d, err)
}

// RecordUpdate implements kdtree.MetricsCollector.
func (c *Collector) RecordUpdate(d time.Duration, err error) {
	c.observe("update", d, err)
}

// RecordRebuild implements kdtree.MetricsCollector.
func (c *Collector) RecordRebuild(size int, d time.Duration) {
	c.observe("rebuild", d, nil)
	c.rebuilds.Inc()
	c.rebuildPoints.Add(float64(size))
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.opLatency.WithLabelValues(op, status).Observe(d.Seconds())
	c.ops.WithLabelValues(op, status).Inc()
}
