// Package monitoring provides pluggable metrics collection for the
// reactivity engine.
//
// The monitoring system is entirely optional and has zero overhead when disabled.
// By default, a NoOp implementation is used which performs no operations.
//
// This package is an alias for github.com/go-reactiv/reactiv/pkg/reactiv/monitoring,
// providing a cleaner import path for users.
//
// # Features
//
//   - track/trigger volume, by dependency kind
//   - Effect.Run duration tracking, by effect phase (effect, computed-getter)
//   - Scheduler queue depth monitoring
//   - Cache hit/miss rates for Computed values
//   - Prometheus metrics integration
//   - pprof profiling endpoints
//
// # Example
//
//	import "github.com/go-reactiv/reactiv/monitoring"
//
//	func main() {
//	    // Enable Prometheus metrics
//	    metrics := monitoring.NewPrometheusMetrics(prometheus.DefaultRegisterer)
//	    monitoring.SetGlobalMetrics(metrics)
//
//	    // Enable pprof profiling on port 6060
//	    monitoring.EnableProfiling(":6060")
//	    defer monitoring.StopProfiling()
//	}
//
// # Zero Overhead
//
// When monitoring is disabled (default), there is zero overhead:
//   - No allocations
//   - No mutex contention
//   - No function calls (inlined NoOp methods)
//   - No performance impact
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-reactiv/reactiv/pkg/reactiv/monitoring"
)

// =============================================================================
// Global Metrics
// =============================================================================

// EngineMetrics defines the interface for engine metrics collection.
type EngineMetrics = monitoring.EngineMetrics

// GetGlobalMetrics returns the current global metrics implementation.
var GetGlobalMetrics = monitoring.GetGlobalMetrics

// SetGlobalMetrics sets the global metrics implementation.
var SetGlobalMetrics = monitoring.SetGlobalMetrics

// NoOpMetrics is a no-op implementation with zero overhead.
type NoOpMetrics = monitoring.NoOpMetrics

// =============================================================================
// Prometheus Integration
// =============================================================================

// PrometheusMetrics implements EngineMetrics using Prometheus.
type PrometheusMetrics = monitoring.PrometheusMetrics

// NewPrometheusMetrics creates a new Prometheus metrics implementation.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	return monitoring.NewPrometheusMetrics(reg)
}

// =============================================================================
// Profiling
// =============================================================================

// ProfileEngine runs engine profiling for the specified duration.
func ProfileEngine(duration time.Duration) *EngineProfile {
	return monitoring.ProfileEngine(duration)
}

// EngineProfile contains profiling results for the reactivity engine.
type EngineProfile = monitoring.EngineProfile

// CallStats contains statistics about instrumented engine operations.
type CallStats = monitoring.CallStats

// =============================================================================
// pprof Profiling Endpoints
// =============================================================================

// EnableProfiling starts a pprof HTTP server on the specified address.
// Returns an error if the address is empty or profiling is already enabled;
// the server binds in a background goroutine, so a bind failure is not
// returned.
var EnableProfiling = monitoring.EnableProfiling

// StopProfiling stops the pprof HTTP server if running.
var StopProfiling = monitoring.StopProfiling

// IsProfilingEnabled returns whether pprof profiling is currently enabled.
var IsProfilingEnabled = monitoring.IsProfilingEnabled

// GetProfilingAddress returns the address of the pprof server if enabled.
var GetProfilingAddress = monitoring.GetProfilingAddress
