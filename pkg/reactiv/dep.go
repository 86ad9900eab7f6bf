package reactiv

import "sync"

// refresher is implemented by Computed[T] so that a Dep can hold a
// back-link to its owning Computed without Dep itself needing to be
// generic. The dirty check (Effect.Dirty) uses it to force a Computed to
// decide whether it has actually changed, which may upgrade a dependent
// effect's dirtyLevel from MaybeDirty to Dirty via trigger.
type refresher interface {
	refresh()
}

// Dep is the subject half of the reactivity graph: a mapping from
// subscriber Effects to the epoch (trackId) at which they last read this
// Dep. A Dep is typically owned by a reactive source — a Ref, a field of
// an Object, or a Computed's own output — and is created once per
// observable slot, when its owner is constructed.
//
// order records subscriber insertion order alongside the map — the same
// map-plus-slice pattern Object uses for its fields — so Trigger and
// scheduleEffects can drain subscribers in insertion order (spec.md §5)
// instead of Go's randomized map iteration order.
type Dep struct {
	mu          sync.Mutex
	subscribers map[*Effect]int
	order       []*Effect
	cleanup     func()
	cleaned     bool
	computed    refresher
	kind        string
}

// NewDep creates a Dep. cleanup, if non-nil, is invoked exactly once, the
// moment the last subscriber detaches and the subscriber map becomes
// empty — reactive sources use this to drop the Dep itself. Once invoked,
// cleanup never fires again for this Dep even if subscribers re-attach and
// later drain to empty a second time.
func NewDep(cleanup func()) *Dep {
	return &Dep{
		subscribers: make(map[*Effect]int),
		cleanup:     cleanup,
	}
}

// depSubscriber pairs a subscriber Effect with the epoch it was tracked
// at, in the order snapshot observed them.
type depSubscriber struct {
	effect *Effect
	epoch  int
}

// bindComputed records the Computed that this Dep announces values for.
// Called once by Computed's constructor; not safe to call concurrently
// with reads.
func (d *Dep) bindComputed(c refresher) {
	d.computed = c
}

// bindKind records the label used to identify this Dep's owning source kind
// (e.g. "ref", "computed", "object-field") when reporting track/trigger
// metrics. Called once by the owning constructor; not safe to call
// concurrently with reads.
func (d *Dep) bindKind(kind string) {
	d.kind = kind
}

// snapshot returns a stable copy of the subscriber list, in insertion
// order, for iteration without holding d's lock across Effect operations
// (trigger and scheduleEffects both need this to avoid lock-ordering
// cycles with Effect.mu).
func (d *Dep) snapshot() []depSubscriber {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]depSubscriber, 0, len(d.order))
	for _, e := range d.order {
		epoch, ok := d.subscribers[e]
		if !ok {
			continue
		}
		out = append(out, depSubscriber{effect: e, epoch: epoch})
	}
	return out
}

// subscribersPeek returns the epoch currently stored for e, if any.
func (d *Dep) subscribersPeek(e *Effect) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	epoch, ok := d.subscribers[e]
	return epoch, ok
}

// set records effect's current epoch against this Dep, appending it to
// the insertion-order list the first time it subscribes.
func (d *Dep) set(e *Effect, epoch int) {
	d.mu.Lock()
	if _, ok := d.subscribers[e]; !ok {
		d.order = append(d.order, e)
	}
	d.subscribers[e] = epoch
	d.mu.Unlock()
}

// detach removes effect from this Dep's subscriber map (and its
// insertion-order slot) if its stored epoch no longer matches
// currentEpoch (a stale link), invoking cleanup once the map has become
// empty. Returns whether the effect was actually removed.
func (d *Dep) detach(e *Effect, currentEpoch int) bool {
	d.mu.Lock()
	epoch, ok := d.subscribers[e]
	stale := ok && epoch != currentEpoch
	if stale {
		delete(d.subscribers, e)
		for i, sub := range d.order {
			if sub == e {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
	}
	empty := len(d.subscribers) == 0
	shouldCleanup := stale && empty && !d.cleaned && d.cleanup != nil
	if shouldCleanup {
		d.cleaned = true
	}
	cleanup := d.cleanup
	d.mu.Unlock()

	if shouldCleanup {
		cleanup()
	}
	return stale
}

// len reports the number of live subscribers, for tests and diagnostics.
func (d *Dep) len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subscribers)
}
