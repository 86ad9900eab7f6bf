package reactiv

import (
	"math"
	"reflect"
)

// DeepCompareFunc overrides how two successive values of a watched source
// are compared. Returning true tells the caller the values are equivalent
// (no change), letting a caller skip reflect.DeepEqual entirely for shapes
// where it knows a cheaper or more precise comparison applies — e.g.
// comparing just the fields that matter on a large struct:
//
//	onlyIDAndName := func(old, new User) bool {
//	    return old.ID == new.ID && old.Name == new.Name
//	}
type DeepCompareFunc[T any] func(old, new T) bool

// deepEqual decides whether a and b count as the same value for
// change-detection purposes. reflect.DeepEqual is the fallback for
// everything, but it disagrees with this package's notion of "unchanged"
// on two float corners: it treats NaN as unequal to itself, and it treats
// -0 and +0 as equal. Both are wrong for a watcher — a getter that keeps
// returning NaN (or either zero) hasn't actually changed — so floats get
// their own comparison first, deferring to reflect.DeepEqual unless both
// operands are floats.
//
// reflect.DeepEqual walks the whole value tree, so it costs real CPU on
// big structures; WithRefCompare and WithComputedCompare let a caller swap
// in something cheaper when that cost matters.
func deepEqual[T any](a, b T) bool {
	if af, bf, ok := bothFloat64(a, b); ok {
		if math.IsNaN(af) && math.IsNaN(bf) {
			return true
		}
		if af == 0 && bf == 0 {
			return math.Signbit(af) == math.Signbit(bf)
		}
		return af == bf
	}
	return reflect.DeepEqual(a, b)
}

// bothFloat64 reports whether a and b are both floating-point kinds, and
// returns their values widened to float64 for uniform comparison.
func bothFloat64(a, b any) (float64, float64, bool) {
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if !av.IsValid() || !bv.IsValid() {
		return 0, 0, false
	}
	if !isFloatKind(av.Kind()) || !isFloatKind(bv.Kind()) {
		return 0, 0, false
	}
	return av.Float(), bv.Float(), true
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// hasChanged is the inverse of whatever equality check applies: compareFn
// if the caller supplied one via WithComputedCompare/WithRefCompare,
// otherwise deepEqual. Every caller that needs to decide "did this source
// actually change" — Computed's recompute-vs-skip check, Watch's
// callback-vs-skip check — goes through this one function so the two
// stay consistent.
func hasChanged[T any](old, new T, compareFn DeepCompareFunc[T]) bool {
	if compareFn != nil {
		// Use custom comparator (returns true if equal)
		return !compareFn(old, new)
	}
	// Use reflection-based comparison (returns true if equal)
	return !deepEqual(old, new)
}
