package reactiv

import (
	"sync"

	"github.com/go-reactiv/reactiv/pkg/reactiv/monitoring"
)

// Computed is a Dep-and-Effect fused reactive value: a lazily evaluated,
// memoised derivation of other reactive values. Reading Value tracks the
// calling effect against Computed's own Dep; writes to anything the getter
// reads propagate MaybeDirty immediately and trigger actual recomputation
// only once a consumer asks for the value (or another Computed's dirty
// check consults it).
type Computed[T any] struct {
	mu        sync.RWMutex
	getter    func() T
	value     T
	hasValue  bool
	compareFn DeepCompareFunc[T]

	effect *Effect
	dep    *Dep

	evaluating     bool
	pendingOnError func(err error, phase Phase)
}

// ComputedOption configures a Computed at construction time.
type ComputedOption[T any] func(*Computed[T])

// WithComputedCompare overrides the "has meaningfully changed" predicate
// used to decide whether a recompute should propagate Dirty downstream.
func WithComputedCompare[T any](cmp DeepCompareFunc[T]) ComputedOption[T] {
	return func(c *Computed[T]) { c.compareFn = cmp }
}

// WithComputedOnError routes panics from the getter to the given hook.
// Without a hook, Value() (which has no error result) re-panics with the
// recovered error; the phase reported is always PhaseComputedGetter.
func WithComputedOnError[T any](onError func(err error, phase Phase)) ComputedOption[T] {
	return func(c *Computed[T]) { c.pendingOnError = onError }
}

// NewComputed creates a lazily-evaluated Computed around getter. getter is
// not called until the first Value() (or an upstream dirty check forces
// it); its reads of other reactive values are tracked the same way an
// Effect's reads are.
func NewComputed[T any](getter func() T, opts ...ComputedOption[T]) *Computed[T] {
	if getter == nil {
		panic(ErrNilFn)
	}
	c := &Computed[T]{getter: getter}
	for _, opt := range opts {
		opt(c)
	}

	c.dep = NewDep(nil)
	c.dep.bindComputed(c)
	c.dep.bindKind("computed")

	effectOpts := []EffectOption{
		WithPhase(PhaseComputedGetter),
		WithTrigger(func() { Trigger(c.dep, MaybeDirty) }),
		WithScheduler(func() { scheduleEffects(c.dep) }),
	}
	if c.pendingOnError != nil {
		effectOpts = append(effectOpts, WithOnError(c.pendingOnError))
	}
	c.effect = NewEffect(func() {
		result := c.getter()
		c.mu.Lock()
		c.value = result
		c.hasValue = true
		c.mu.Unlock()
	}, effectOpts...)

	return c
}

// Value returns the computed value, evaluating the getter if the internal
// effect is dirty. See the package-level documentation for the
// glitch-avoidance design: a write to an upstream source always propagates
// MaybeDirty immediately, but the getter itself only runs once a consumer
// actually asks, and is skipped entirely when an intermediate comparison
// proves nothing really changed.
func (c *Computed[T]) Value() T {
	c.recomputeIfDirty()

	Track(c.dep)

	if c.effect.dirtyLevelAtLeast(MaybeDirty) {
		// A consumer asked mid-propagation-wave; preserve correctness for
		// anyone holding on to this value by re-emitting the hint.
		Trigger(c.dep, MaybeDirty)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// refresh implements the refresher interface consulted by a dependent
// effect's dirty check: it forces this Computed to decide whether it has
// actually changed, without itself registering as a dependency of
// whatever effect triggered the check (PauseTracking is already in effect
// around the caller).
func (c *Computed[T]) refresh() {
	c.recomputeIfDirty()
}

// recomputeIfDirty runs the internal effect when dirty, and propagates
// Dirty downstream if the freshly computed value differs from the
// previously cached one under the "has meaningfully changed" predicate.
func (c *Computed[T]) recomputeIfDirty() {
	if !c.hasValue && c.effect.rawDirtyLevel() == NotDirty {
		// First read: the effect starts NotDirty but has never run.
		monitoring.GetGlobalMetrics().RecordCacheMiss("computed")
		c.runAndMaybeTrigger()
		return
	}
	if c.effect.Dirty() {
		monitoring.GetGlobalMetrics().RecordCacheMiss("computed")
		c.runAndMaybeTrigger()
		return
	}
	monitoring.GetGlobalMetrics().RecordCacheHit("computed")
}

// runAndMaybeTrigger actually invokes the getter. A guard against the one
// infinite-MaybeDirty-loop shape the spec's design notes worry about — a
// Computed's getter reading the same Computed again, directly or through a
// chain of other Computeds, reentrant on the same call stack — short-
// circuits to the last cached value instead of recursing forever. This is
// a reentrancy guard, not general cycle detection (the latter stays out of
// scope): a genuine A<->B cycle not involving reentering THIS Computed
// mid-evaluation is not caught here.
//
// A panicking getter is always recovered by the underlying Effect so the
// engine's own invariants stay intact, but the failure must still reach
// somebody: if a WithComputedOnError hook is configured it is the one
// responsible for surfacing it, so the error is swallowed here. Without a
// hook, nothing else ever sees the failure — Value() has no error return
// to hand it back through — so it is re-raised as a panic out of Value(),
// the same way a getter panic would surface if Computed did not recover
// it at all. A caller that is itself inside an Effect/Computed/watch
// callback will have that panic recovered and routed the normal way one
// level up; a caller outside any of those sees the panic directly.
func (c *Computed[T]) runAndMaybeTrigger() {
	c.mu.Lock()
	if c.evaluating {
		c.mu.Unlock()
		return
	}
	c.evaluating = true
	prev := c.value
	hadValue := c.hasValue
	c.mu.Unlock()

	err := c.effect.Run()

	c.mu.Lock()
	cur := c.value
	c.evaluating = false
	hasHook := c.pendingOnError != nil
	c.mu.Unlock()

	if err != nil && !hasHook {
		panic(err)
	}

	if !hadValue || hasChanged(prev, cur, c.compareFn) {
		Trigger(c.dep, Dirty)
	}
}
