package reactiv

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
)

// goroutineContext is the ambient tracking/scheduling state for one
// goroutine: the currently running Effect (if any), the shouldTrack
// bracket stack, the scheduling-pause depth, and the FIFO of schedulers
// queued while pauseScheduleStack is non-zero.
//
// The spec describes this state as process-wide globals with strict LIFO
// discipline. Since the engine's own single-threaded-cooperative model
// only promises that ONE graph is driven at a time, not that the whole
// process is single-threaded, this state is kept per goroutine — mirroring
// how the teacher's dependency tracker isolates tracking stacks per
// goroutine to avoid cross-goroutine contention. Within a goroutine the
// LIFO guarantees the spec describes hold exactly as written.
type goroutineContext struct {
	mu                 sync.Mutex
	activeEffect       *Effect
	shouldTrack        bool
	shouldTrackStack   []bool
	pauseScheduleStack int
	queue              []func()
}

// ambient holds one goroutineContext per goroutine, plus an atomic counter
// of how many goroutines currently have a non-nil activeEffect. The counter
// lets track() bail out in the overwhelmingly common case — no effect is
// running anywhere — without paying for a runtime.Stack parse.
type ambientRegistry struct {
	contexts      sync.Map // map[uint64]*goroutineContext
	activeEffects atomic.Int32
}

var ambient = &ambientRegistry{}

func currentGoroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	const prefix = "goroutine "
	idx := bytes.Index(buf, []byte(prefix))
	if idx == -1 {
		return 0
	}
	buf = buf[idx+len(prefix):]

	spaceIdx := bytes.IndexByte(buf, ' ')
	if spaceIdx == -1 {
		return 0
	}

	id, err := strconv.ParseUint(string(buf[:spaceIdx]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (r *ambientRegistry) context() *goroutineContext {
	gid := currentGoroutineID()
	if ctx, ok := r.contexts.Load(gid); ok {
		return ctx.(*goroutineContext)
	}
	ctx := &goroutineContext{}
	actual, _ := r.contexts.LoadOrStore(gid, ctx)
	return actual.(*goroutineContext)
}

// getActiveEffect returns the effect currently running on this goroutine,
// or nil.
func getActiveEffect() *Effect {
	ctx := ambient.context()
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.activeEffect
}

// setActiveEffect installs e as the active effect for this goroutine and
// returns the previous one, for the caller to restore on exit.
func setActiveEffect(e *Effect) (prev *Effect) {
	ctx := ambient.context()
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	prev = ctx.activeEffect
	if prev == nil && e != nil {
		ambient.activeEffects.Add(1)
	} else if prev != nil && e == nil {
		ambient.activeEffects.Add(-1)
	}
	ctx.activeEffect = e
	return prev
}

func shouldTrackNow() bool {
	// Fast path: if no effect is active on any goroutine, track() has
	// nothing to attach to regardless of shouldTrack, so skip the
	// goroutine-id lookup entirely.
	if ambient.activeEffects.Load() == 0 {
		return false
	}
	ctx := ambient.context()
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	return ctx.shouldTrack && ctx.activeEffect != nil
}

func setShouldTrack(v bool) (prev bool) {
	ctx := ambient.context()
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	prev = ctx.shouldTrack
	ctx.shouldTrack = v
	return prev
}

// PauseTracking disables dependency collection on this goroutine until the
// matching ResetTracking. Calls nest: ResetTracking restores whatever
// shouldTrack was before the matching PauseTracking, not simply "true".
// Used to bracket code that reads reactive values without wanting to
// register a dependency — equality comparisons, dirty-check walks,
// inspection tooling.
func PauseTracking() {
	ctx := ambient.context()
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.shouldTrackStack = append(ctx.shouldTrackStack, ctx.shouldTrack)
	ctx.shouldTrack = false
}

// EnableTracking pushes shouldTrack=true onto the bracket stack, pairing
// with a later ResetTracking, without needing to know the prior state.
func EnableTracking() {
	ctx := ambient.context()
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.shouldTrackStack = append(ctx.shouldTrackStack, ctx.shouldTrack)
	ctx.shouldTrack = true
}

// ResetTracking pops the bracket stack pushed by the most recent
// PauseTracking/EnableTracking on this goroutine, restoring shouldTrack to
// whatever it was before that call. Imbalanced use (more resets than
// pauses) is a bug the engine does not detect; it leaves shouldTrack
// unchanged when the stack is empty.
func ResetTracking() {
	ctx := ambient.context()
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	n := len(ctx.shouldTrackStack)
	if n == 0 {
		return
	}
	ctx.shouldTrack = ctx.shouldTrackStack[n-1]
	ctx.shouldTrackStack = ctx.shouldTrackStack[:n-1]
}

// PauseScheduling increments this goroutine's scheduling-pause depth.
// While depth > 0, schedulers queued by trigger accumulate in FIFO order
// instead of running; ResetScheduling drains them once depth returns to
// zero.
func PauseScheduling() {
	ctx := ambient.context()
	ctx.mu.Lock()
	ctx.pauseScheduleStack++
	ctx.mu.Unlock()
}

// ResetScheduling decrements the scheduling-pause depth and, if it has
// returned to zero, drains the queued schedulers in the order they were
// queued. A scheduler queued during drain (an effect's scheduler
// triggering another write) is appended to the same queue and is also
// drained before ResetScheduling returns.
func ResetScheduling() {
	ctx := ambient.context()
	ctx.mu.Lock()
	if ctx.pauseScheduleStack > 0 {
		ctx.pauseScheduleStack--
	}
	if ctx.pauseScheduleStack > 0 {
		ctx.mu.Unlock()
		return
	}
	ctx.mu.Unlock()
	drainQueue(ctx)
}

func drainQueue(ctx *goroutineContext) {
	for {
		ctx.mu.Lock()
		if len(ctx.queue) == 0 {
			ctx.mu.Unlock()
			return
		}
		job := ctx.queue[0]
		ctx.queue = ctx.queue[1:]
		ctx.mu.Unlock()
		job()
	}
}

// enqueueScheduler appends fn to this goroutine's FIFO scheduler queue. If
// no pause is currently in effect, it drains immediately (equivalent to a
// pause depth that was already zero).
func enqueueScheduler(fn func()) {
	ctx := ambient.context()
	ctx.mu.Lock()
	ctx.queue = append(ctx.queue, fn)
	paused := ctx.pauseScheduleStack > 0
	ctx.mu.Unlock()
	if !paused {
		drainQueue(ctx)
	}
}

// resetAmbientForTesting clears all per-goroutine tracking state. It exists
// for test isolation between table-driven subtests that otherwise share a
// goroutine.
func resetAmbientForTesting() {
	ambient.contexts.Range(func(key, _ interface{}) bool {
		ambient.contexts.Delete(key)
		return true
	})
	ambient.activeEffects.Store(0)
}
