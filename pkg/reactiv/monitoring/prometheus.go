package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics implements EngineMetrics using Prometheus for metric collection.
//
// This implementation exposes metrics in the Prometheus format, allowing them to be
// scraped by a Prometheus server and visualized in dashboards like Grafana.
//
// All metrics are prefixed with "reactiv_" to avoid naming conflicts.
//
// Metrics exposed:
//   - reactiv_track_total: Counter of dependency reads, by kind
//   - reactiv_trigger_total: Counter of dependency writes, by kind
//   - reactiv_effect_run_duration_seconds: Histogram of Effect.Run duration, by kind
//   - reactiv_schedule_queue_depth: Histogram of scheduler queue depth per trigger
//   - reactiv_allocation_bytes: Histogram of memory allocations, by kind
//   - reactiv_cache_hits_total: Counter of cache hits by cache name
//   - reactiv_cache_misses_total: Counter of cache misses by cache name
//
// Thread-safe: All Prometheus collectors are thread-safe by design.
//
// Example:
//
//	func main() {
//	    // Create Prometheus metrics
//	    metrics := monitoring.NewPrometheusMetrics(prometheus.DefaultRegisterer)
//	    monitoring.SetGlobalMetrics(metrics)
//
//	    // Expose metrics endpoint
//	    http.Handle("/metrics", promhttp.Handler())
//	    http.ListenAndServe(":2112", nil)
//	}
type PrometheusMetrics struct {
	trackTotal         *prometheus.CounterVec
	triggerTotal       *prometheus.CounterVec
	effectRunDuration  *prometheus.HistogramVec
	scheduleQueueDepth prometheus.Histogram
	allocationBytes    *prometheus.HistogramVec
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	registry           prometheus.Registerer
}

// NewPrometheusMetrics creates a new Prometheus metrics collector and registers all metrics.
//
// The provided Registerer is used to register all metrics. You can use:
//   - prometheus.DefaultRegisterer for the global default registry
//   - prometheus.NewRegistry() for a custom isolated registry
//
// All metrics are registered immediately. If any metric fails to register (e.g., duplicate),
// this function will panic. This is intentional for fail-fast behavior at startup.
//
// Parameters:
//   - reg: The Prometheus Registerer to use for metric registration
//
// Returns:
//   - *PrometheusMetrics: A new Prometheus metrics collector
//
// Example:
//
//	// Use default registry
//	metrics := monitoring.NewPrometheusMetrics(prometheus.DefaultRegisterer)
//
//	// Use custom registry
//	reg := prometheus.NewRegistry()
//	metrics := monitoring.NewPrometheusMetrics(reg)
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	// Labels: kind (e.g. "ref", "computed", "object-field")
	trackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactiv_track_total",
			Help: "Total number of dependency reads, partitioned by source kind.",
		},
		[]string{"kind"},
	)

	triggerTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactiv_trigger_total",
			Help: "Total number of dependency writes (Trigger calls), partitioned by source kind.",
		},
		[]string{"kind"},
	)

	// Labels: kind (the effect's phase name: "effect", "computed-getter")
	effectRunDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reactiv_effect_run_duration_seconds",
			Help:    "Histogram of Effect.Run duration in seconds, partitioned by effect kind.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// Buckets: 0, 1, 2, 3, 5, 7, 10, 15, 20 (reasonable fan-out sizes)
	scheduleQueueDepth := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reactiv_schedule_queue_depth",
			Help:    "Histogram of scheduler queue depth enqueued by a single trigger.",
			Buckets: []float64{0, 1, 2, 3, 5, 7, 10, 15, 20},
		},
	)

	// Buckets: 64B, 128B, 256B, 512B, 1KB, 2KB, 4KB, 8KB (typical allocation sizes)
	allocationBytes := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reactiv_allocation_bytes",
			Help:    "Histogram of memory allocation sizes in bytes, partitioned by engine operation.",
			Buckets: []float64{64, 128, 256, 512, 1024, 2048, 4096, 8192},
		},
		[]string{"kind"},
	)

	cacheHits := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactiv_cache_hits_total",
			Help: "Total number of cache hits, partitioned by cache name.",
		},
		[]string{"cache"},
	)

	cacheMisses := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reactiv_cache_misses_total",
			Help: "Total number of cache misses, partitioned by cache name.",
		},
		[]string{"cache"},
	)

	// Register all metrics (will panic on duplicate registration - fail fast)
	reg.MustRegister(trackTotal)
	reg.MustRegister(triggerTotal)
	reg.MustRegister(effectRunDuration)
	reg.MustRegister(scheduleQueueDepth)
	reg.MustRegister(allocationBytes)
	reg.MustRegister(cacheHits)
	reg.MustRegister(cacheMisses)

	return &PrometheusMetrics{
		trackTotal:         trackTotal,
		triggerTotal:       triggerTotal,
		effectRunDuration:  effectRunDuration,
		scheduleQueueDepth: scheduleQueueDepth,
		allocationBytes:    allocationBytes,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		registry:           reg,
	}
}

// RecordTrack increments the reactiv_track_total counter for the given source kind.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
//
// Example:
//
//	metrics.RecordTrack("ref")
func (pm *PrometheusMetrics) RecordTrack(kind string) {
	pm.trackTotal.WithLabelValues(kind).Inc()
}

// RecordTrigger increments the reactiv_trigger_total counter for the given source kind.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
//
// Example:
//
//	metrics.RecordTrigger("ref")
func (pm *PrometheusMetrics) RecordTrigger(kind string) {
	pm.triggerTotal.WithLabelValues(kind).Inc()
}

// RecordEffectRun records an Effect.Run's duration in the
// reactiv_effect_run_duration_seconds histogram for the given kind.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
//
// Parameters:
//   - kind: the effect's phase name: "effect" or "computed-getter"
//   - duration: How long the run took
//
// Example:
//
//	metrics.RecordEffectRun("computed", 150*time.Microsecond)
func (pm *PrometheusMetrics) RecordEffectRun(kind string, duration time.Duration) {
	pm.effectRunDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordScheduleQueueDepth adds an observation to the
// reactiv_schedule_queue_depth histogram.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
//
// Parameters:
//   - depth: The number of schedulers enqueued by a single trigger
//
// Example:
//
//	metrics.RecordScheduleQueueDepth(5) // 5 schedulers queued by this write
func (pm *PrometheusMetrics) RecordScheduleQueueDepth(depth int) {
	pm.scheduleQueueDepth.Observe(float64(depth))
}

// RecordAllocationBytes adds an observation to the reactiv_allocation_bytes
// histogram for the given engine operation.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
//
// Parameters:
//   - kind: The operation name (e.g., "ref", "computed", "effect")
//   - bytes: Number of bytes allocated
//
// Example:
//
//	metrics.RecordAllocationBytes("computed", 128) // 128B allocated
func (pm *PrometheusMetrics) RecordAllocationBytes(kind string, bytes int64) {
	pm.allocationBytes.WithLabelValues(kind).Observe(float64(bytes))
}

// RecordCacheHit increments the reactiv_cache_hits_total counter for the given cache.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
//
// Parameters:
//   - cache: The cache name (e.g., "computed")
//
// Example:
//
//	metrics.RecordCacheHit("computed")
func (pm *PrometheusMetrics) RecordCacheHit(cache string) {
	pm.cacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss increments the reactiv_cache_misses_total counter for the given cache.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
//
// Parameters:
//   - cache: The cache name (e.g., "computed")
//
// Example:
//
//	metrics.RecordCacheMiss("computed")
func (pm *PrometheusMetrics) RecordCacheMiss(cache string) {
	pm.cacheMisses.WithLabelValues(cache).Inc()
}
