package testutil

import (
	"reflect"
	"testing"
)

// ComputedCacheVerifier wraps a *reactiv.Computed[T] and tracks computation
// counts, cache hits, and cache misses to verify that memoisation works
// correctly and the getter is not called more often than necessary.
//
// Reflection is used so this helper works across any T without requiring
// its own type parameter; it calls the Value() method by name, which is
// the one public accessor every Computed[T] exposes.
//
// Example:
//
//	count := reactiv.NewRef(5)
//	computeCount := 0
//	computed := reactiv.NewComputed(func() int {
//	    computeCount++
//	    return count.Get() * 2
//	})
//
//	verifier := testutil.NewComputedCacheVerifier(computed, &computeCount)
//	verifier.GetValue()
//	verifier.AssertComputeCount(t, 1)
//	verifier.AssertCacheHits(t, 0)
//
//	verifier.GetValue()
//	verifier.AssertComputeCount(t, 1) // still 1: cached
//	verifier.AssertCacheHits(t, 1)
//
// ComputedCacheVerifier is not thread-safe; use it from a single test
// goroutine.
type ComputedCacheVerifier struct {
	computed     interface{}
	computeCount *int
	cacheHits    int
	cacheMisses  int
	lastValue    interface{}
}

// NewComputedCacheVerifier creates a verifier around computed. computeCount
// must be the same counter the computed's getter increments each time it
// actually runs.
func NewComputedCacheVerifier(computed interface{}, computeCount *int) *ComputedCacheVerifier {
	return &ComputedCacheVerifier{
		computed:     computed,
		computeCount: computeCount,
	}
}

// GetValue calls Value() on the wrapped Computed and records whether the
// getter ran (a miss) or the cached value was returned (a hit), based on
// whether computeCount changed.
func (ccv *ComputedCacheVerifier) GetValue() interface{} {
	countBefore := *ccv.computeCount

	v := reflect.ValueOf(ccv.computed)
	if !v.IsValid() || v.IsNil() {
		return nil
	}

	valueMethod := v.MethodByName("Value")
	if !valueMethod.IsValid() {
		return nil
	}

	results := valueMethod.Call(nil)
	if len(results) == 0 {
		return nil
	}
	value := results[0].Interface()

	if *ccv.computeCount > countBefore {
		ccv.cacheMisses++
	} else {
		ccv.cacheHits++
	}

	ccv.lastValue = value
	return value
}

// AssertComputeCount asserts the getter ran exactly expected times so far.
func (ccv *ComputedCacheVerifier) AssertComputeCount(t *testing.T, expected int) {
	t.Helper()
	if actual := *ccv.computeCount; actual != expected {
		t.Errorf("Compute count: expected %d, got %d", expected, actual)
	}
}

// AssertCacheHits asserts the expected number of GetValue calls returned
// the cached value without recomputing.
func (ccv *ComputedCacheVerifier) AssertCacheHits(t *testing.T, expected int) {
	t.Helper()
	if ccv.cacheHits != expected {
		t.Errorf("Cache hits: expected %d, got %d", expected, ccv.cacheHits)
	}
}

// AssertCacheMisses asserts the expected number of GetValue calls had to
// recompute.
func (ccv *ComputedCacheVerifier) AssertCacheMisses(t *testing.T, expected int) {
	t.Helper()
	if ccv.cacheMisses != expected {
		t.Errorf("Cache misses: expected %d, got %d", expected, ccv.cacheMisses)
	}
}

// GetCacheHits returns the number of cache hits observed so far.
func (ccv *ComputedCacheVerifier) GetCacheHits() int { return ccv.cacheHits }

// GetCacheMisses returns the number of cache misses observed so far.
func (ccv *ComputedCacheVerifier) GetCacheMisses() int { return ccv.cacheMisses }

// GetLastValue returns the most recently retrieved value.
func (ccv *ComputedCacheVerifier) GetLastValue() interface{} { return ccv.lastValue }

// ResetCounters zeroes the hit/miss counters, for reusing one verifier
// across multiple scenarios in the same test.
func (ccv *ComputedCacheVerifier) ResetCounters() {
	ccv.cacheHits = 0
	ccv.cacheMisses = 0
}
