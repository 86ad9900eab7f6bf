package monitoring_test

import (
	"fmt"
	"time"

	"github.com/go-reactiv/reactiv/pkg/reactiv/monitoring"
	"github.com/prometheus/client_golang/prometheus"
)

// ExampleNewPrometheusMetrics demonstrates creating Prometheus metrics with a custom registry.
func ExampleNewPrometheusMetrics() {
	// Create custom registry to avoid conflicts
	reg := prometheus.NewRegistry()

	// Create Prometheus metrics using custom registry
	metrics := monitoring.NewPrometheusMetrics(reg)

	// Set as global metrics
	monitoring.SetGlobalMetrics(metrics)

	// In a real app, expose metrics endpoint:
	// http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	// http.ListenAndServe(":2112", nil)

	fmt.Println("Prometheus metrics initialized")
	// Output: Prometheus metrics initialized
}

// ExampleNewPrometheusMetrics_customRegistry demonstrates using a custom registry.
func ExampleNewPrometheusMetrics_customRegistry() {
	// Create a custom registry for isolated metrics
	reg := prometheus.NewRegistry()

	// Create Prometheus metrics with custom registry
	metrics := monitoring.NewPrometheusMetrics(reg)

	// Set as global metrics
	monitoring.SetGlobalMetrics(metrics)

	// Use the registry with your metrics
	_ = metrics // Metrics ready to use

	fmt.Println("Custom Prometheus registry initialized")
	// Output: Custom Prometheus registry initialized
}

// Example_prometheusMetricsRecordEffectRun demonstrates recording effect runs.
func Example_prometheusMetricsRecordEffectRun() {
	reg := prometheus.NewRegistry()
	metrics := monitoring.NewPrometheusMetrics(reg)

	// Record effect and computed runs
	metrics.RecordEffectRun("effect", 100*time.Nanosecond)
	metrics.RecordEffectRun("computed", 250*time.Nanosecond)
	metrics.RecordEffectRun("effect", 150*time.Nanosecond)

	// Metrics are now available at /metrics endpoint
	// Example output in Prometheus format:
	// reactiv_effect_run_duration_seconds_count{kind="effect"} 2
	// reactiv_effect_run_duration_seconds_count{kind="computed"} 1

	fmt.Println("Recorded effect runs")
	// Output: Recorded effect runs
}

// Example_prometheusMetricsRecordCacheMetrics demonstrates tracking cache performance.
func Example_prometheusMetricsRecordCacheMetrics() {
	reg := prometheus.NewRegistry()
	metrics := monitoring.NewPrometheusMetrics(reg)

	// Simulate Computed cache hits and misses
	metrics.RecordCacheHit("computed")
	metrics.RecordCacheHit("computed")
	metrics.RecordCacheHit("computed")
	metrics.RecordCacheMiss("computed")

	// Calculate hit rates in Prometheus queries:
	// rate(reactiv_cache_hits_total[5m]) / (rate(reactiv_cache_hits_total[5m]) + rate(reactiv_cache_misses_total[5m]))

	fmt.Println("Recorded cache metrics")
	// Output: Recorded cache metrics
}

// Example_prometheusMetricsRecordScheduleQueueDepth demonstrates tracking trigger fan-out.
func Example_prometheusMetricsRecordScheduleQueueDepth() {
	reg := prometheus.NewRegistry()
	metrics := monitoring.NewPrometheusMetrics(reg)

	// Record various scheduler queue depths from individual triggers
	metrics.RecordScheduleQueueDepth(1) // Shallow fan-out
	metrics.RecordScheduleQueueDepth(3)
	metrics.RecordScheduleQueueDepth(5)
	metrics.RecordScheduleQueueDepth(12) // Wide fan-out - may benefit from batching

	// Use Prometheus histogram_quantile to analyze:
	// histogram_quantile(0.95, rate(reactiv_schedule_queue_depth_bucket[5m]))
	// This shows 95th percentile fan-out per trigger

	fmt.Println("Recorded schedule queue depth observations")
	// Output: Recorded schedule queue depth observations
}

// Example_prometheusMetricsRecordAllocationBytes demonstrates tracking memory allocations.
func Example_prometheusMetricsRecordAllocationBytes() {
	reg := prometheus.NewRegistry()
	metrics := monitoring.NewPrometheusMetrics(reg)

	// Record memory allocations by engine operation
	metrics.RecordAllocationBytes("ref", 128)
	metrics.RecordAllocationBytes("computed", 2048)
	metrics.RecordAllocationBytes("effect", 512)
	metrics.RecordAllocationBytes("computed", 1024)

	// Analyze allocation patterns in Prometheus:
	// histogram_quantile(0.99, sum(rate(reactiv_allocation_bytes_bucket[5m])) by (kind, le))

	fmt.Println("Recorded allocation metrics")
	// Output: Recorded allocation metrics
}

// Example_prometheusMetricsComplete demonstrates a complete setup with metrics endpoint.
func Example_prometheusMetricsComplete() {
	// Create custom registry
	reg := prometheus.NewRegistry()

	// Create Prometheus metrics
	metrics := monitoring.NewPrometheusMetrics(reg)

	// Set as global metrics so the engine automatically records
	monitoring.SetGlobalMetrics(metrics)

	// Simulate some engine activity
	metrics.RecordTrack("ref")
	metrics.RecordTrigger("ref")
	metrics.RecordEffectRun("effect", 100*time.Nanosecond)
	metrics.RecordEffectRun("computed", 250*time.Nanosecond)
	metrics.RecordScheduleQueueDepth(3)
	metrics.RecordCacheHit("computed")
	metrics.RecordAllocationBytes("ref", 128)

	// In a real application, expose metrics endpoint:
	// http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	// http.ListenAndServe(":2112", nil)
	//
	// Then configure Prometheus to scrape:
	// scrape_configs:
	//   - job_name: 'reactiv-app'
	//     static_configs:
	//       - targets: ['localhost:2112']

	fmt.Println("Complete Prometheus setup initialized")
	// Output: Complete Prometheus setup initialized
}
