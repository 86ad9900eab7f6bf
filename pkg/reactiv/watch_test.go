package reactiv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatch_FiresOnChangeWithOldAndNewValues(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	r := NewRef(1)
	var gotOld, gotNew int
	calls := 0
	stop := Watch(RefSource(r), func(newVal, oldVal int, onCleanup CleanupRegistrar) {
		gotNew, gotOld = newVal, oldVal
		calls++
	}, WithFlush(FlushSync))
	defer stop()

	r.Set(2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, gotOld)
	assert.Equal(t, 2, gotNew)
}

func TestWatch_DoesNotFireWithoutImmediateOnRegistration(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	r := NewRef(1)
	calls := 0
	stop := Watch(RefSource(r), func(newVal, oldVal int, onCleanup CleanupRegistrar) {
		calls++
	}, WithFlush(FlushSync))
	defer stop()

	assert.Equal(t, 0, calls)
}

func TestWatch_WithImmediateFiresOnceAtRegistration(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	r := NewRef(5)
	var gotOld, gotNew int
	calls := 0
	stop := Watch(RefSource(r), func(newVal, oldVal int, onCleanup CleanupRegistrar) {
		gotNew, gotOld = newVal, oldVal
		calls++
	}, WithImmediate(), WithFlush(FlushSync))
	defer stop()

	assert.Equal(t, 1, calls)
	assert.Equal(t, 5, gotNew)
	assert.Equal(t, 0, gotOld) // zero value: no prior observation existed
}

func TestWatch_WithOnceStopsAfterFirstCallback(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	r := NewRef(1)
	calls := 0
	stop := Watch(RefSource(r), func(newVal, oldVal int, onCleanup CleanupRegistrar) {
		calls++
	}, WithOnce(), WithFlush(FlushSync))
	defer stop()

	r.Set(2)
	r.Set(3)
	r.Set(4)
	assert.Equal(t, 1, calls)
}

func TestWatch_WithImmediateAndWithOnceOnlyCountsRealChange(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	r := NewRef(1)
	var seen []int
	stop := Watch(RefSource(r), func(newVal, oldVal int, onCleanup CleanupRegistrar) {
		seen = append(seen, newVal)
	}, WithImmediate(), WithOnce(), WithFlush(FlushSync))
	defer stop()

	// The immediate firing at registration must not consume the "once" slot.
	assert.Equal(t, []int{1}, seen)

	r.Set(2)
	assert.Equal(t, []int{1, 2}, seen)

	// Once now stops the watcher after that first real change.
	r.Set(3)
	assert.Equal(t, []int{1, 2}, seen)
}

func TestWatch_StopHandleStopsFurtherCallbacks(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	r := NewRef(1)
	calls := 0
	stop := Watch(RefSource(r), func(newVal, oldVal int, onCleanup CleanupRegistrar) {
		calls++
	}, WithFlush(FlushSync))

	r.Set(2)
	assert.Equal(t, 1, calls)

	stop()
	r.Set(3)
	assert.Equal(t, 1, calls)
}

func TestWatch_StopIsIdempotent(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	r := NewRef(1)
	stop := Watch(RefSource(r), func(newVal, oldVal int, onCleanup CleanupRegistrar) {}, WithFlush(FlushSync))
	assert.NotPanics(t, func() {
		stop()
		stop()
	})
}

func TestWatch_OnCleanupRunsBeforeNextInvocation(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	r := NewRef(1)
	var cleanupCalls int
	stop := Watch(RefSource(r), func(newVal, oldVal int, onCleanup CleanupRegistrar) {
		onCleanup(func() { cleanupCalls++ })
	}, WithFlush(FlushSync))
	defer stop()

	r.Set(2)
	assert.Equal(t, 0, cleanupCalls) // cleanup not yet due

	r.Set(3)
	assert.Equal(t, 1, cleanupCalls) // cleanup from the Set(2) callback fires here
}

func TestWatch_OnCleanupRunsOnStop(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	r := NewRef(1)
	cleaned := false
	stop := Watch(RefSource(r), func(newVal, oldVal int, onCleanup CleanupRegistrar) {
		onCleanup(func() { cleaned = true })
	}, WithFlush(FlushSync))

	r.Set(2)
	assert.False(t, cleaned)
	stop()
	assert.True(t, cleaned)
}

func TestWatch_DefaultFlushIsPostQueue(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	r := NewRef(1)
	calls := 0
	stop := Watch(RefSource(r), func(newVal, oldVal int, onCleanup CleanupRegistrar) {
		calls++
	})
	defer stop()

	r.Set(2)
	assert.Equal(t, 0, calls) // queued, not yet flushed
	assert.Equal(t, 1, PendingPostWatchers())

	FlushPostWatchers()
	assert.Equal(t, 1, calls)
}

func TestWatch_FlushPreQueue(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	r := NewRef(1)
	calls := 0
	stop := Watch(RefSource(r), func(newVal, oldVal int, onCleanup CleanupRegistrar) {
		calls++
	}, WithFlush(FlushPre))
	defer stop()

	r.Set(2)
	assert.Equal(t, 0, calls)
	FlushPreWatchers()
	assert.Equal(t, 1, calls)
}

func TestWatch_PanicInCallbackRoutesToOnError(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	r := NewRef(1)
	var gotErr error
	var gotPhase Phase
	stop := Watch(RefSource(r), func(newVal, oldVal int, onCleanup CleanupRegistrar) {
		panic("watch callback exploded")
	}, WithFlush(FlushSync), WithWatchOnError(func(err error, phase Phase) {
		gotErr = err
		gotPhase = phase
	}))
	defer stop()

	r.Set(2)
	assert.Error(t, gotErr)
	assert.Equal(t, PhaseWatchCallback, gotPhase)
}

func TestWatch_NilCallbackTreatedAsWatchEffect(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	var warned string
	prevWarn := DebugWarn
	DebugWarn = func(msg string) { warned = msg }
	defer func() { DebugWarn = prevWarn }()

	r := NewRef(1)
	runs := 0
	stop := Watch(RefSource(r), nil, WithFlush(FlushSync))
	defer stop()
	_ = runs

	assert.Contains(t, warned, "nil callback")

	r.Set(2) // must not panic, since it degrades to a watchEffect
}

func TestWatchEffect_RunsImmediatelyAndReruns(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	r := NewRef(1)
	runs := 0
	var seen int
	stop := WatchEffect(func(onCleanup CleanupRegistrar) {
		seen = r.Get()
		runs++
	})
	defer stop()

	assert.Equal(t, 1, runs)
	assert.Equal(t, 1, seen)

	r.Set(2)
	assert.Equal(t, 2, runs)
	assert.Equal(t, 2, seen)
}

func TestWatchEffect_CleanupRunsBeforeRerunAndOnStop(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	r := NewRef(1)
	cleanups := 0
	stop := WatchEffect(func(onCleanup CleanupRegistrar) {
		r.Get()
		onCleanup(func() { cleanups++ })
	})

	r.Set(2)
	assert.Equal(t, 1, cleanups) // from the initial run, before the rerun

	stop()
	assert.Equal(t, 2, cleanups) // from the rerun, on Stop
}

func TestWatchPostEffect_QueuesOnPostFlush(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	r := NewRef(1)
	runs := 0
	stop := WatchPostEffect(func(onCleanup CleanupRegistrar) {
		r.Get()
		runs++
	})
	defer stop()

	assert.Equal(t, 1, runs) // initial run happens synchronously regardless

	r.Set(2)
	assert.Equal(t, 1, runs) // rerun queued, not yet flushed
	FlushPostWatchers()
	assert.Equal(t, 2, runs)
}

func TestWatchSyncEffect_RerunsImmediately(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	r := NewRef(1)
	runs := 0
	stop := WatchSyncEffect(func(onCleanup CleanupRegistrar) {
		r.Get()
		runs++
	})
	defer stop()

	r.Set(2)
	assert.Equal(t, 2, runs)
}

func TestWatch_DeepTracksNestedObjectFieldChanges(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	outer := NewObject()
	inner := NewRef[any]("a")
	outer.Field("child", inner)

	calls := 0
	stop := Watch(ObjectSource(outer), func(newVal, oldVal map[string]any, onCleanup CleanupRegistrar) {
		calls++
	}, WithDeep(), WithFlush(FlushSync))
	defer stop()

	inner.Set("b")
	assert.Equal(t, 1, calls)
}

func TestWatch_MultiSourceFiresOnAnyChange(t *testing.T) {
	resetAmbientForTesting()
	resetHostQueuesForTesting()

	r1 := NewRef(1)
	r2 := NewRef("x")

	calls := 0
	stop := Watch(MultiSource(
		GetterSource(func() any { return r1.Get() }),
		GetterSource(func() any { return r2.Get() }),
	), func(newVal, oldVal []any, onCleanup CleanupRegistrar) {
		calls++
	}, WithFlush(FlushSync))
	defer stop()

	r1.Set(2)
	assert.Equal(t, 1, calls)

	r2.Set("y")
	assert.Equal(t, 2, calls)
}
