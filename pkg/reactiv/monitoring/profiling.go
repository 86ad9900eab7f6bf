package monitoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// EngineProfile contains profiling data for engine operations over a time period.
//
// It tracks all instrumented operations (track, trigger, effect.run) including
// counts, timings, and memory allocations for performance analysis and debugging.
//
// Fields:
//   - Start: When profiling started
//   - End: When profiling ended
//   - Calls: Map of operation names to their call statistics
//
// Example:
//
//	profile := ProfileEngine(1 * time.Minute)
//	fmt.Println(profile.Summary())
type EngineProfile struct {
	Start time.Time
	End   time.Time
	Calls map[string]*CallStats
	mu    sync.RWMutex
}

// CallStats contains statistics for a single instrumented operation.
//
// Thread-safe: All methods lock the struct's mutex for concurrent access.
//
// Fields:
//   - Count: Number of times the operation occurred
//   - TotalTime: Total execution time across all calls
//   - AverageTime: Average execution time per call
//   - Allocations: Total bytes allocated across all calls
type CallStats struct {
	Count       int64
	TotalTime   time.Duration
	AverageTime time.Duration
	Allocations int64
	mu          sync.Mutex
}

var (
	// Global profiling server
	profilingServer     *http.Server
	profilingAddr       string
	profilingMu         sync.Mutex
	profilingEnabled    atomic.Bool
	profilingServerDone chan struct{}
)

// EnableProfiling starts an HTTP server with pprof endpoints for runtime profiling.
//
// **Security Warning:** The profiling endpoint exposes sensitive runtime information.
// Only bind to localhost in production, never to 0.0.0.0 or public interfaces.
//
// The server exposes standard Go pprof endpoints at /debug/pprof/:
//   - /debug/pprof/ - Index page with available profiles
//   - /debug/pprof/heap - Heap memory profile
//   - /debug/pprof/goroutine - Goroutine stack traces
//   - /debug/pprof/profile - CPU profile (30s default)
//   - /debug/pprof/trace - Execution trace
//   - /debug/pprof/block - Blocking profile
//   - /debug/pprof/mutex - Mutex contention profile
//
// Parameters:
//   - addr: Address to bind the server (e.g., "localhost:6060")
//
// Returns:
//   - error: Error if addr is empty or profiling is already enabled. The
//     server binds in a background goroutine, so a bind failure (e.g. a
//     port in use) is not returned.
//
// Example:
//
//	// Enable profiling on localhost:6060
//	if err := monitoring.EnableProfiling("localhost:6060"); err != nil {
//	    log.Fatalf("Failed to start profiling: %v", err)
//	}
//	defer monitoring.StopProfiling()
//
//	// Capture CPU profile:
//	// curl -o cpu.prof http://localhost:6060/debug/pprof/profile?seconds=30
//
//	// Analyze with pprof:
//	// go tool pprof cpu.prof
func EnableProfiling(addr string) error {
	profilingMu.Lock()
	defer profilingMu.Unlock()

	// Check if already enabled
	if profilingEnabled.Load() {
		return errors.New("profiling already enabled")
	}

	// Validate address format
	if addr == "" {
		return errors.New("address cannot be empty")
	}

	// Create mux for pprof endpoints
	mux := http.NewServeMux()

	// Register pprof handlers
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// Create server
	profilingServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	profilingAddr = addr
	profilingServerDone = make(chan struct{})

	// Start server in background
	go func() {
		defer close(profilingServerDone)
		if err := profilingServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			// Server failed to start or crashed
			profilingEnabled.Store(false)
		}
	}()

	// Mark as enabled
	profilingEnabled.Store(true)

	// Give server time to start
	time.Sleep(50 * time.Millisecond)

	return nil
}

// StopProfiling gracefully shuts down the profiling server.
//
// Blocks until the server is fully shut down or the context times out.
//
// Example:
//
//	monitoring.EnableProfiling("localhost:6060")
//	defer monitoring.StopProfiling()
func StopProfiling() {
	profilingMu.Lock()
	defer profilingMu.Unlock()

	if !profilingEnabled.Load() || profilingServer == nil {
		return
	}

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server
	if err := profilingServer.Shutdown(ctx); err != nil {
		// Force close if graceful shutdown fails
		_ = profilingServer.Close()
	}

	// Wait for server to finish
	<-profilingServerDone

	// Reset state
	profilingServer = nil
	profilingAddr = ""
	profilingEnabled.Store(false)
}

// IsProfilingEnabled returns whether profiling is currently enabled.
//
// Thread-safe: Can be called concurrently.
//
// Example:
//
//	if monitoring.IsProfilingEnabled() {
//	    fmt.Println("Profiling is active")
//	}
func IsProfilingEnabled() bool {
	return profilingEnabled.Load()
}

// GetProfilingAddress returns the address the profiling server is bound to.
//
// Returns empty string if profiling is not enabled.
//
// Thread-safe: Can be called concurrently.
//
// Example:
//
//	addr := monitoring.GetProfilingAddress()
//	if addr != "" {
//	    fmt.Printf("Profiling available at http://%s/debug/pprof/\n", addr)
//	}
func GetProfilingAddress() string {
	profilingMu.Lock()
	defer profilingMu.Unlock()
	return profilingAddr
}

// ProfileEngine profiles engine memory allocation for the specified duration.
//
// This function takes before/after heap snapshots and returns an EngineProfile
// with a synthetic total-memory entry. Per-operation call statistics are
// accumulated separately via AddCall, typically from an EngineMetrics
// implementation that also forwards into a shared EngineProfile.
//
// Parameters:
//   - duration: How long to collect profiling data
//
// Returns:
//   - *EngineProfile: Profile with call statistics
//
// Example:
//
//	// Profile the engine for 60 seconds
//	profile := monitoring.ProfileEngine(60 * time.Second)
//
//	// Print summary
//	fmt.Println(profile.Summary())
//
//	// Analyze a specific operation
//	if stats, ok := profile.Calls["effect.run"]; ok {
//	    fmt.Printf("effect.run called %d times\n", stats.Count)
//	    fmt.Printf("Average time: %v\n", stats.AverageTime)
//	}
func ProfileEngine(duration time.Duration) *EngineProfile {
	profile := &EngineProfile{
		Start: time.Now(),
		Calls: make(map[string]*CallStats),
	}

	// Capture memory stats before
	var memBefore runtime.MemStats
	runtime.ReadMemStats(&memBefore)

	// Wait for the duration
	time.Sleep(duration)

	// Capture memory stats after
	var memAfter runtime.MemStats
	runtime.ReadMemStats(&memAfter)

	// Set end time
	profile.End = time.Now()

	// Calculate memory allocations during profiling
	// This is a rough estimate of total allocations during the period
	totalAlloc := memAfter.TotalAlloc - memBefore.TotalAlloc

	// Add a synthetic entry for overall memory during profiling
	profile.Calls["_total_memory"] = &CallStats{
		Count:       1,
		Allocations: int64(totalAlloc),
	}

	return profile
}

// AddCall adds an operation call to the profile.
//
// Thread-safe: Can be called concurrently from multiple goroutines.
//
// Parameters:
//   - name: Name of the operation (e.g., "effect.run", "computed.refresh")
//   - duration: Execution time of the call
//   - allocBytes: Bytes allocated during the call
//
// Example:
//
//	profile := &EngineProfile{
//	    Start: time.Now(),
//	    Calls: make(map[string]*CallStats),
//	}
//
//	profile.AddCall("effect.run", 100*time.Nanosecond, 128)
//	profile.AddCall("computed.refresh", 500*time.Nanosecond, 256)
func (p *EngineProfile) AddCall(name string, duration time.Duration, allocBytes int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats, exists := p.Calls[name]
	if !exists {
		stats = &CallStats{}
		p.Calls[name] = stats
	}

	stats.RecordCall(duration, allocBytes)
}

// Summary generates a human-readable summary of the profile.
//
// Returns a formatted string with call statistics for every instrumented
// operation.
//
// Example output:
//
//	Engine Profile (1m0s):
//
//	effect.run: 1000 calls, avg 350ns, 131072 bytes allocated
//	computed.refresh: 500 calls, avg 750ns, 131072 bytes allocated
//	watch.callback: 200 calls, avg 3.7µs, 71680 bytes allocated
func (p *EngineProfile) Summary() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	duration := p.End.Sub(p.Start)
	summary := fmt.Sprintf("Engine Profile (%v):\n\n", duration)

	// Calculate averages for all stats
	for name, stats := range p.Calls {
		if name == "_total_memory" {
			continue // Skip synthetic entry
		}
		stats.CalculateAverage()

		summary += fmt.Sprintf("%s: %d calls, avg %v, %d bytes allocated\n",
			name, stats.Count, stats.AverageTime, stats.Allocations)
	}

	return summary
}

// RecordCall records a single operation call.
//
// Thread-safe: Uses mutex for concurrent access.
//
// Parameters:
//   - duration: Execution time of the call
//   - allocBytes: Bytes allocated during the call
func (s *CallStats) RecordCall(duration time.Duration, allocBytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	atomic.AddInt64(&s.Count, 1)
	s.TotalTime += duration
	atomic.AddInt64(&s.Allocations, allocBytes)
}

// CalculateAverage computes the average execution time per call.
//
// Should be called after all calls are recorded and before reading AverageTime.
//
// Example:
//
//	stats.CalculateAverage()
//	fmt.Printf("Average time: %v\n", stats.AverageTime)
func (s *CallStats) CalculateAverage() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Count > 0 {
		s.AverageTime = time.Duration(int64(s.TotalTime) / s.Count)
	}
}
