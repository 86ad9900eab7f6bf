package reactiv

// sourceKind tags which shape of input Watch was given, implementing the
// tagged-variant normalisation the spec calls for instead of runtime duck
// typing: RefSource | ComputedSource | GetterSource | ObjectSource
// | MultiSource.
type sourceKind int

const (
	sourceGetter sourceKind = iota
	sourceRef
	sourceComputed
	sourceReactiveObject
	sourceMulti
)

// Source is the normalized input to Watch: a getter function, a Ref, a
// Computed, a reactive Object (observed as a field-name->value snapshot),
// or a slice of other sources observed together as a []any.
type Source[T any] struct {
	kind   sourceKind
	getter func() T
	object *Object
	multi  []Source[any]
}

// GetterSource wraps a plain function as a watch source.
func GetterSource[T any](fn func() T) Source[T] {
	return Source[T]{kind: sourceGetter, getter: fn}
}

// RefSource wraps a Ref as a watch source, observing r.Get().
func RefSource[T any](r *Ref[T]) Source[T] {
	return Source[T]{kind: sourceRef, getter: r.Get}
}

// ComputedSource wraps a Computed as a watch source, observing c.Value().
func ComputedSource[T any](c *Computed[T]) Source[T] {
	return Source[T]{kind: sourceComputed, getter: c.Value}
}

// ObjectSource wraps a reactive Object as a watch source, observed as a
// snapshot map from field name to current value. Combine with WithDeep to
// force a full nested traversal (see §4.8 deep traversal).
func ObjectSource(o *Object) Source[map[string]any] {
	return Source[map[string]any]{kind: sourceReactiveObject, object: o}
}

// MultiSource observes several sources together, yielding their values as
// a []any in the order given. Triggers the callback if any one of them
// changes.
func MultiSource(sources ...Source[any]) Source[[]any] {
	return Source[[]any]{kind: sourceMulti, multi: sources}
}

// resolve returns the concrete getter Watch should run as its effect's fn,
// given the deep-traversal setting from WatchOptions (only meaningful for
// a reactive-object source; ignored otherwise).
func (s Source[T]) resolve(deep bool, depth int) func() T {
	switch s.kind {
	case sourceReactiveObject:
		obj := s.object
		return func() T {
			names := obj.fieldNames()
			snapshot := make(map[string]any, len(names))
			for _, name := range names {
				v, ok := obj.fieldRef(name)
				if !ok {
					continue
				}
				val := v.Get()
				if deep {
					visited := make(map[any]bool)
					traverseValue(val, depth, visited)
				}
				snapshot[name] = val
			}
			return any(snapshot).(T)
		}
	case sourceMulti:
		multi := s.multi
		return func() T {
			vals := make([]any, len(multi))
			for i, sub := range multi {
				g := sub.resolve(deep, depth)
				vals[i] = g()
			}
			return any(vals).(T)
		}
	default:
		return s.getter
	}
}
