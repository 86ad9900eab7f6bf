// Package reactiv implements a fine-grained reactivity engine: it observes
// reads of reactive values inside user functions, builds a dependency
// graph between those values and the functions that read them, and
// re-schedules affected functions when the values change.
//
// Three primitives sit on top of the engine. Effect runs a function and
// tracks every reactive value it reads; when one of them changes, the
// Effect's scheduler is called. An Effect with no scheduler is only marked
// dirty and is not re-run:
//
//	count := reactiv.NewRef(0)
//	var e *reactiv.Effect
//	e = reactiv.NewEffect(func() {
//	    fmt.Println("count is", count.Get())
//	}, reactiv.WithScheduler(func() { _ = e.Run() }))
//	e.Run()        // prints "count is 0", tracks count
//	count.Set(1)   // calls the scheduler, which re-runs e: prints "count is 1"
//
// Computed is a lazily evaluated, memoised derivation:
//
//	doubled := reactiv.NewComputed(func() int { return count.Get() * 2 })
//	doubled.Value() // evaluates once, caches 2
//
// Watch compares a source's old and new value and invokes a callback only
// when it has meaningfully changed:
//
//	stop := reactiv.Watch(reactiv.RefSource(count), func(newVal, oldVal int, onCleanup reactiv.CleanupRegistrar) {
//	    fmt.Printf("count: %d -> %d\n", oldVal, newVal)
//	})
//	defer stop()
//
// WatchEffect runs a function immediately and re-runs it whenever any
// reactive value it reads changes, with no old/new comparison:
//
//	stop := reactiv.WatchEffect(func(onCleanup reactiv.CleanupRegistrar) {
//	    fmt.Println("count is now", count.Get())
//	})
//	defer stop()
//
// # Dirty propagation
//
// A write propagates DirtyLevel MaybeDirty through every downstream
// Computed immediately and cheaply; actual recomputation of each Computed
// is deferred until a consumer asks for its value, and is skipped entirely
// if an intermediate comparison proves a stage unchanged. This avoids
// glitches (a consumer ever observing a partially-updated dependency
// graph) without over-recomputing chains of derived values.
//
// # Concurrency
//
// The engine's own driving state — the active effect, the tracking
// bracket, the scheduling-pause depth, and the scheduler FIFO — is kept
// per goroutine, so independent reactive graphs driven from separate
// goroutines do not contend or interfere. A single graph is still meant to
// be driven from one goroutine at a time; the engine does not add
// multi-writer safety to concurrent mutation of the same Ref or Computed
// beyond what its internal mutexes happen to serialize.
//
// # Error handling
//
// Panics inside an Effect's function or a Computed's getter are recovered
// and returned as an error from Run/propagated through Value's internal
// recompute; panics inside a watcher's callback are routed to an optional
// OnError hook instead, and do not stop the watcher. See the
// pkg/reactiv/observability package for a pluggable error reporter
// (console or Sentry-backed) designed to be wired into that hook, and
// pkg/reactiv/monitoring for optional engine instrumentation.
package reactiv
