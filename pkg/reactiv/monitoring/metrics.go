// Package monitoring provides pluggable metrics collection for the
// reactivity engine.
//
// The monitoring system is entirely optional and has zero overhead when
// disabled. By default, a NoOp implementation is used which performs no
// operations and makes no allocations.
//
// To enable monitoring, create a metrics implementation (e.g.,
// PrometheusMetrics) and set it globally:
//
//	metrics := NewPrometheusMetrics(prometheus.DefaultRegisterer)
//	monitoring.SetGlobalMetrics(metrics)
//
// Once enabled, the engine automatically records metrics about its own
// operation:
//   - track/trigger counts, by dependency kind
//   - Effect.Run duration, by effect phase ("effect" for effects and
//     watchers, "computed-getter" for Computed getters)
//   - scheduler queue depth
//   - Computed cache hit/miss rate
//
// The metrics interface is designed to be lightweight and non-intrusive.
// All metric recording happens synchronously from the engine's own
// track/trigger/run path and must not block.
//
// Example usage:
//
//	func main() {
//	    metrics := monitoring.NewPrometheusMetrics(prometheus.DefaultRegisterer)
//	    monitoring.SetGlobalMetrics(metrics)
//
//	    // The engine automatically records metrics from here on.
//	}
//
// Zero Overhead:
//
// When monitoring is disabled (default), there is zero overhead:
//   - No allocations
//   - No mutex contention
//   - No function calls (inlined NoOp methods)
//   - No performance impact
//
// Thread Safety:
//
// All operations are thread-safe. Multiple goroutines can safely call
// SetGlobalMetrics and GetGlobalMetrics concurrently. Implementations
// should also be thread-safe.
package monitoring

import (
	"sync"
	"time"
)

// EngineMetrics defines the interface for collecting metrics from the
// reactivity engine's own track/trigger/run/schedule path.
//
// Implementations of this interface can export metrics to various backends:
//   - Prometheus (recommended for production)
//   - StatsD
//   - CloudWatch
//   - Datadog
//   - Custom backends
//
// All methods should be thread-safe and non-blocking. Implementations
// should handle errors internally rather than returning them, as metric
// recording should never fail the engine operation it instruments.
//
// Example implementation:
//
//	type MyMetrics struct {
//	    counter *prometheus.CounterVec
//	}
//
//	func (m *MyMetrics) RecordEffectRun(kind string, duration time.Duration) {
//	    m.counter.WithLabelValues(kind).Inc()
//	}
type EngineMetrics interface {
	// RecordTrack records a dependency read: Track(dep) being called
	// with an active, tracking effect on the current goroutine.
	//
	// Parameters:
	//   - kind: The kind of source being read (e.g., "ref", "computed", "object-field")
	//
	// This metric helps track which reactive sources are read most
	// frequently and how track volume scales with the graph's size.
	RecordTrack(kind string)

	// RecordTrigger records a write that reached Trigger(dep, level). It is
	// recorded for every Trigger call, whether or not the Dep has any
	// subscribers.
	//
	// Parameters:
	//   - kind: The kind of source being written (e.g., "ref", "computed", "object-field")
	//
	// This metric helps track write volume and correlate it with
	// downstream Effect.Run counts.
	RecordTrigger(kind string)

	// RecordEffectRun records one completed Effect.Run, for an Effect,
	// a Computed getter, or a watcher's source evaluation.
	//
	// Parameters:
	//   - kind: the running Effect's phase name: "effect" (plain effects
	//     and watchers) or "computed-getter" (Computed getters)
	//   - duration: How long the run took, including the user function
	//
	// This metric helps track:
	//   - Which kind of reactive node runs most frequently
	//   - Performance trends over time
	//   - Re-evaluation overhead
	RecordEffectRun(kind string, duration time.Duration)

	// RecordScheduleQueueDepth records the number of schedulers queued by
	// a single Trigger call before the queue was drained.
	//
	// Parameters:
	//   - depth: The number of schedulers enqueued by this trigger
	//
	// This metric helps:
	//   - Detect trigger fan-out that queues an unusually large batch
	//   - Track scheduling pressure over time
	//   - Identify graphs that would benefit from batching writes
	//
	// A depth > 10 from a single trigger typically indicates a write that
	// fans out broadly and may be worth batching with PauseScheduling.
	RecordScheduleQueueDepth(depth int)

	// RecordAllocationBytes records memory allocation attributable to a
	// specific engine operation.
	//
	// Parameters:
	//   - kind: The operation name (e.g., "ref", "computed", "effect")
	//   - bytes: Number of bytes allocated
	//
	// This metric helps:
	//   - Track memory usage patterns
	//   - Identify allocation-heavy reactive primitives
	//   - Detect memory leaks or excessive allocation
	RecordAllocationBytes(kind string, bytes int64)

	// RecordCacheHit records a Computed cache hit: a read that returned
	// the memoized value without recomputing the getter.
	//
	// Parameters:
	//   - cache: The cache name (e.g., "computed", "reflection")
	//
	// This metric helps:
	//   - Monitor Computed cache effectiveness
	//   - Calculate hit rates
	//   - Identify Computeds that recompute more than expected
	RecordCacheHit(cache string)

	// RecordCacheMiss records a Computed cache miss: a read that had to
	// re-run the getter because the dirty level demanded it.
	//
	// Parameters:
	//   - cache: The cache name (e.g., "computed", "reflection")
	//
	// This metric helps:
	//   - Monitor Computed cache effectiveness
	//   - Calculate miss rates
	//   - Identify over-invalidation in a dependency chain
	RecordCacheMiss(cache string)
}

// NoOpMetrics is a zero-overhead implementation that does nothing.
//
// This is the default implementation when monitoring is not enabled.
// All methods are no-ops and will be inlined by the compiler, resulting
// in zero runtime overhead.
//
// NoOpMetrics is safe for concurrent use and makes no allocations.
//
// Example:
//
//	// Default behavior - no metrics collected
//	metrics := &NoOpMetrics{}
//	metrics.RecordEffectRun("effect", 100*time.Nanosecond) // Does nothing
type NoOpMetrics struct{}

// RecordTrack does nothing (no-op).
func (n *NoOpMetrics) RecordTrack(kind string) {
	// No-op: Intentionally empty for zero overhead
}

// RecordTrigger does nothing (no-op).
func (n *NoOpMetrics) RecordTrigger(kind string) {
	// No-op: Intentionally empty for zero overhead
}

// RecordEffectRun does nothing (no-op).
func (n *NoOpMetrics) RecordEffectRun(kind string, duration time.Duration) {
	// No-op: Intentionally empty for zero overhead
}

// RecordScheduleQueueDepth does nothing (no-op).
func (n *NoOpMetrics) RecordScheduleQueueDepth(depth int) {
	// No-op: Intentionally empty for zero overhead
}

// RecordAllocationBytes does nothing (no-op).
func (n *NoOpMetrics) RecordAllocationBytes(kind string, bytes int64) {
	// No-op: Intentionally empty for zero overhead
}

// RecordCacheHit does nothing (no-op).
func (n *NoOpMetrics) RecordCacheHit(cache string) {
	// No-op: Intentionally empty for zero overhead
}

// RecordCacheMiss does nothing (no-op).
func (n *NoOpMetrics) RecordCacheMiss(cache string) {
	// No-op: Intentionally empty for zero overhead
}

// globalMetrics holds the current metrics implementation.
// Defaults to NoOpMetrics for zero overhead when monitoring is disabled.
var globalMetrics EngineMetrics = &NoOpMetrics{}

// globalMetricsMu protects access to globalMetrics for thread safety.
var globalMetricsMu sync.RWMutex

// SetGlobalMetrics sets the global metrics implementation.
//
// This should be called once at application startup to enable monitoring.
// Setting to nil will reset to NoOpMetrics for safety.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
//
// Example:
//
//	func main() {
//	    metrics := monitoring.NewPrometheusMetrics(prometheus.DefaultRegisterer)
//	    monitoring.SetGlobalMetrics(metrics)
//
//	    // ... rest of application ...
//	}
//
// To disable metrics:
//
//	monitoring.SetGlobalMetrics(nil) // Resets to NoOp
func SetGlobalMetrics(m EngineMetrics) {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()

	if m == nil {
		// Safety: never allow nil metrics to prevent panics
		globalMetrics = &NoOpMetrics{}
		return
	}

	globalMetrics = m
}

// GetGlobalMetrics returns the current global metrics implementation.
//
// This function is called by the engine to record metrics. It never
// returns nil. If monitoring is disabled, returns NoOpMetrics which has
// zero overhead.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
//
// Returns:
//   - EngineMetrics: The current metrics implementation (never nil)
func GetGlobalMetrics() EngineMetrics {
	globalMetricsMu.RLock()
	defer globalMetricsMu.RUnlock()

	return globalMetrics
}
