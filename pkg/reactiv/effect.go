package reactiv

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-reactiv/reactiv/pkg/reactiv/monitoring"
)

// Effect is the subscriber half of the reactivity graph: a function whose
// reads of Deps are recorded, and which can be re-run — directly by the
// caller, or via its scheduler — when one of those Deps changes.
type Effect struct {
	mu sync.Mutex

	fn        func()
	trigger   func()
	scheduler func()
	onStop    func()
	onError   func(err error, phase Phase)
	phase     Phase

	active         bool
	deps           []*Dep
	depsLength     int
	dirtyLevel     DirtyLevel
	trackID        int
	runnings       int
	shouldSchedule bool
	allowRecurse   bool

	computed refresher
}

// EffectOption configures an Effect at construction time.
type EffectOption func(*Effect)

// WithScheduler sets the function invoked to (re)run this effect
// asynchronously — queued via trigger rather than run synchronously. An
// effect with no scheduler is "trigger-only": trigger still notifies it
// (for a Computed's internal effect, to announce MaybeDirty downstream)
// but nothing re-runs it automatically.
func WithScheduler(scheduler func()) EffectOption {
	return func(e *Effect) { e.scheduler = scheduler }
}

// WithTrigger sets the callback invoked the moment this effect transitions
// out of NotDirty. Computed uses this to propagate MaybeDirty to its own
// Dep's subscribers.
func WithTrigger(trigger func()) EffectOption {
	return func(e *Effect) { e.trigger = trigger }
}

// WithOnStop sets a callback invoked once, the first time Stop is called.
func WithOnStop(onStop func()) EffectOption {
	return func(e *Effect) { e.onStop = onStop }
}

// WithAllowRecurse permits scheduleEffects to re-queue this effect's
// scheduler even while it is mid-run (runnings > 0). Without this, a
// effect that triggers its own dependency during its own run will not
// self-schedule.
func WithAllowRecurse(allow bool) EffectOption {
	return func(e *Effect) { e.allowRecurse = allow }
}

// WithOnError sets the hook invoked when fn panics. Run recovers the panic
// and returns it as an error whether or not a hook is set; the hook is
// called in addition. The phase argument is PhaseEffect unless overridden
// by WithPhase (Computed uses PhaseComputedGetter).
func WithOnError(onError func(err error, phase Phase)) EffectOption {
	return func(e *Effect) { e.onError = onError }
}

// WithPhase overrides the Phase reported to OnError and embedded in the
// returned error's message. Defaults to PhaseEffect.
func WithPhase(phase Phase) EffectOption {
	return func(e *Effect) { e.phase = phase }
}

// NewEffect creates an active Effect around fn. It does not run fn; the
// caller decides when the initial run happens (watch/watchEffect run
// immediately; computed defers to first read).
func NewEffect(fn func(), opts ...EffectOption) *Effect {
	if fn == nil {
		panic(ErrNilFn)
	}
	e := &Effect{
		fn:     fn,
		active: true,
		phase:  PhaseEffect,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes fn, tracking every Dep it reads (via Track) against this
// effect, and incrementally reconciles the dependency list against the
// previous run. If fn panics, the panic is recovered and returned as an
// error; engine invariants (activeEffect, shouldTrack, runnings,
// depsLength) are restored unconditionally either way.
func (e *Effect) Run() error {
	e.mu.Lock()
	e.dirtyLevel = NotDirty
	if !e.active {
		e.mu.Unlock()
		return e.invoke()
	}
	e.trackID++
	e.depsLength = 0
	e.runnings++
	e.mu.Unlock()

	prevEffect := setActiveEffect(e)
	prevShouldTrack := setShouldTrack(true)

	start := time.Now()
	err := e.invoke()
	monitoring.GetGlobalMetrics().RecordEffectRun(e.phase.String(), time.Since(start))

	setShouldTrack(prevShouldTrack)
	setActiveEffect(prevEffect)

	e.mu.Lock()
	if len(e.deps) > e.depsLength {
		tail := append([]*Dep(nil), e.deps[e.depsLength:]...)
		trackID := e.trackID
		e.deps = e.deps[:e.depsLength]
		e.mu.Unlock()
		for _, d := range tail {
			d.detach(e, trackID)
		}
	} else {
		e.mu.Unlock()
	}

	e.mu.Lock()
	e.runnings--
	e.mu.Unlock()

	return err
}

func (e *Effect) invoke() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reactiv: %s: %v", e.phase, r)
			if e.onError != nil {
				e.onError(err, e.phase)
			}
		}
	}()
	e.fn()
	return nil
}

// Dirty resolves a MaybeDirty classification to a definite answer by
// consulting every upstream Computed this effect currently depends on,
// short-circuiting as soon as the level reaches Dirty. A MaybeDirty that
// survives the walk unconfirmed collapses back to NotDirty — the false
// alarm case.
func (e *Effect) Dirty() bool {
	e.mu.Lock()
	level := e.dirtyLevel
	if level != MaybeDirty {
		e.mu.Unlock()
		return level >= Dirty
	}
	deps := append([]*Dep(nil), e.deps[:e.depsLength]...)
	e.mu.Unlock()

	PauseTracking()
	for _, d := range deps {
		if d.computed == nil {
			continue
		}
		d.computed.refresh()
		e.mu.Lock()
		cur := e.dirtyLevel
		e.mu.Unlock()
		if cur >= Dirty {
			break
		}
	}
	ResetTracking()

	e.mu.Lock()
	if e.dirtyLevel < Dirty {
		e.dirtyLevel = NotDirty
	}
	result := e.dirtyLevel >= Dirty
	e.mu.Unlock()
	return result
}

// Stop detaches this effect from every Dep it currently subscribes to,
// invokes onStop if present, and marks it inactive. Idempotent: calling
// Stop on an already-stopped effect is a no-op.
func (e *Effect) Stop() {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return
	}
	e.active = false
	e.trackID++
	e.depsLength = 0
	trackID := e.trackID
	deps := append([]*Dep(nil), e.deps...)
	e.deps = nil
	onStop := e.onStop
	e.mu.Unlock()

	for _, d := range deps {
		d.detach(e, trackID)
	}
	if onStop != nil {
		onStop()
	}
}

// rawDirtyLevel returns the raw, unresolved dirty classification, without
// consulting upstream Computeds the way Dirty() does.
func (e *Effect) rawDirtyLevel() DirtyLevel {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirtyLevel
}

// dirtyLevelAtLeast reports whether the raw dirty classification is at
// least level, without resolving MaybeDirty.
func (e *Effect) dirtyLevelAtLeast(level DirtyLevel) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirtyLevel >= level
}

// Active reports whether this effect has not been stopped.
func (e *Effect) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// track records that e read dep during the current run. It is a no-op if
// dep was already linked at e's current trackID (the link is already
// current).
func (e *Effect) track(dep *Dep) {
	e.mu.Lock()

	if epoch, ok := dep.subscribersPeek(e); ok && epoch == e.trackID {
		e.mu.Unlock()
		return
	}

	var oldDep *Dep
	if e.depsLength < len(e.deps) {
		if e.deps[e.depsLength] == dep {
			e.depsLength++
			trackID := e.trackID
			e.mu.Unlock()
			dep.set(e, trackID)
			return
		}
		oldDep = e.deps[e.depsLength]
		e.deps[e.depsLength] = dep
	} else {
		e.deps = append(e.deps, dep)
	}
	e.depsLength++
	trackID := e.trackID
	e.mu.Unlock()

	if oldDep != nil {
		oldDep.detach(e, trackID)
	}
	dep.set(e, trackID)
}

// Track is the package-level tracking primitive described in the spec's
// external interface: called by a reactive source during a read, with the
// Dep it owns for the accessed slot. It is a no-op unless tracking is
// currently enabled and an effect is active on this goroutine.
func Track(dep *Dep) {
	if !shouldTrackNow() {
		return
	}
	e := getActiveEffect()
	if e == nil {
		return
	}
	e.track(dep)
	monitoring.GetGlobalMetrics().RecordTrack(dep.kind)
}

// Trigger is the package-level trigger primitive: called by a reactive
// source during a write, with level usually Dirty. It propagates the
// change to every live subscriber of dep, invoking trigger() exactly on
// the NotDirty->dirty edge (collapsing a write burst into one downstream
// notification), then queues schedulers.
func Trigger(dep *Dep, level DirtyLevel) {
	monitoring.GetGlobalMetrics().RecordTrigger(dep.kind)

	PauseScheduling()

	for _, sub := range dep.snapshot() {
		e, epoch := sub.effect, sub.epoch
		e.mu.Lock()
		if epoch != e.trackID || e.dirtyLevel >= level {
			e.mu.Unlock()
			continue
		}
		lastLevel := e.dirtyLevel
		e.dirtyLevel = level
		var notify func()
		if lastLevel == NotDirty {
			e.shouldSchedule = true
			notify = e.trigger
		}
		e.mu.Unlock()

		if notify != nil {
			notify()
		}
	}

	scheduleEffects(dep)
	ResetScheduling()
}

// scheduleEffects pushes each live, schedulable, newly-dirty subscriber's
// scheduler onto the current goroutine's FIFO queue, draining it once
// pauseScheduleStack returns to zero.
func scheduleEffects(dep *Dep) {
	depth := 0
	for _, sub := range dep.snapshot() {
		e, epoch := sub.effect, sub.epoch
		e.mu.Lock()
		var schedFn func()
		if epoch == e.trackID && e.scheduler != nil && e.shouldSchedule &&
			(e.runnings == 0 || e.allowRecurse) {
			e.shouldSchedule = false
			schedFn = e.scheduler
		}
		e.mu.Unlock()

		if schedFn != nil {
			enqueueScheduler(schedFn)
			depth++
		}
	}
	if depth > 0 {
		monitoring.GetGlobalMetrics().RecordScheduleQueueDepth(depth)
	}
}
