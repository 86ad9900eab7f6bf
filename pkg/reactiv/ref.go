package reactiv

import "sync"

// Ref is a type-safe reactive reference holding a single mutable value of
// type T. Get tracks the calling effect against Ref's own Dep; Set
// triggers every tracked effect when the new value has meaningfully
// changed under the configured equality predicate.
type Ref[T any] struct {
	mu        sync.RWMutex
	value     T
	dep       *Dep
	compareFn DeepCompareFunc[T]
}

// RefOption configures a Ref at construction time.
type RefOption[T any] func(*Ref[T])

// WithRefCompare overrides the "has meaningfully changed" predicate used
// by Set to decide whether to trigger subscribers.
func WithRefCompare[T any](cmp DeepCompareFunc[T]) RefOption[T] {
	return func(r *Ref[T]) { r.compareFn = cmp }
}

// NewRef creates a reactive reference with the given initial value.
func NewRef[T any](value T, opts ...RefOption[T]) *Ref[T] {
	r := &Ref[T]{value: value}
	r.dep = NewDep(nil)
	r.dep.bindKind("ref")
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the current value, tracking the calling effect (if any)
// against this Ref's Dep.
func (r *Ref[T]) Get() T {
	Track(r.dep)
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set updates the value. If the new value differs from the previous one
// under the "has meaningfully changed" predicate, every tracked effect is
// triggered with DirtyLevel Dirty.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	prev := r.value
	r.value = value
	r.mu.Unlock()

	if hasChanged(prev, value, r.compareFn) {
		Trigger(r.dep, Dirty)
	}
}
