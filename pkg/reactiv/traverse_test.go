package reactiv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraverseValue_TracksNestedRefInObject(t *testing.T) {
	resetAmbientForTesting()
	obj := NewObject()
	inner := NewRef[any]("hello")
	obj.Field("name", inner)

	runs := 0
	e := NewEffect(func() {
		for _, n := range obj.fieldNames() {
			v, _ := obj.fieldRef(n)
			deepTraverse(v.Get(), -1)
		}
		runs++
	})
	_ = e.Run()
	assert.Equal(t, 1, runs)

	inner.Set("world")
	assert.True(t, e.Dirty())
}

func TestTraverseValue_RespectsDepthBound(t *testing.T) {
	resetAmbientForTesting()
	level2 := NewRef[any]("deep")
	level1 := map[string]any{"child": level2}

	e := NewEffect(func() {
		traverseValue(level1, 0, make(map[any]bool))
	})
	_ = e.Run()

	level2.Set("changed")
	assert.False(t, e.Dirty()) // depth 0: never descended into the map
}

func TestTraverseValue_UnboundedDepthTracksArbitraryNesting(t *testing.T) {
	resetAmbientForTesting()
	level2 := NewRef[any]("deep")
	level1 := map[string]any{"child": level2}

	e := NewEffect(func() {
		traverseValue(level1, -1, make(map[any]bool))
	})
	_ = e.Run()

	level2.Set("changed")
	assert.True(t, e.Dirty())
}

func TestTraverseValue_BreaksCycles(t *testing.T) {
	resetAmbientForTesting()
	type node struct {
		next *node
	}
	a := &node{}
	b := &node{next: a}
	a.next = b

	assert.NotPanics(t, func() {
		traverseValue(a, -1, make(map[any]bool))
	})
}

func TestTraverseValue_NilIsNoOp(t *testing.T) {
	resetAmbientForTesting()
	assert.NotPanics(t, func() {
		traverseValue(nil, -1, make(map[any]bool))
	})
}

func TestTraverseValue_SliceElementsTracked(t *testing.T) {
	resetAmbientForTesting()
	r1 := NewRef[any](1)
	r2 := NewRef[any](2)
	items := []any{r1, r2}

	e := NewEffect(func() {
		traverseValue(items, -1, make(map[any]bool))
	})
	_ = e.Run()

	r2.Set(3)
	assert.True(t, e.Dirty())
}

func TestDeepTraverse_ReturnsValueUnchanged(t *testing.T) {
	resetAmbientForTesting()
	v := deepTraverse(42, -1)
	assert.Equal(t, 42, v)
}
