package reactiv

import "sync"

// WatchCallback is invoked when a watched source's value has meaningfully
// changed. onCleanup registers a function that runs just before the next
// invocation of this callback, and again when the watcher stops.
type WatchCallback[T any] func(newVal, oldVal T, onCleanup CleanupRegistrar)

// CleanupRegistrar lets a watcher callback or a watchEffect function
// register teardown logic for whatever it just set up (timers,
// subscriptions) — fired before the next run and on Stop.
type CleanupRegistrar func(cleanup func())

// StopHandle stops a watcher or watchEffect. Idempotent.
type StopHandle func()

// FlushMode selects which queue a watcher's job is dispatched through.
type FlushMode int

const (
	// FlushPre queues the job on the host's pre-flush queue.
	FlushPre FlushMode = iota
	// FlushPost queues the job on the host's post-flush queue. Default.
	FlushPost
	// FlushSync invokes the job immediately from the engine's own
	// scheduler drain, with no extra host-level deferral.
	FlushSync
)

// WatchOptions holds the resolved configuration from a chain of
// WatchOption values.
type WatchOptions struct {
	immediate bool
	deep      bool
	deepDepth int
	once      bool
	flush     FlushMode
	onError   func(err error, phase Phase)
}

// WatchOption configures a Watch/WatchEffect call.
type WatchOption func(*WatchOptions)

// WithImmediate runs the callback once synchronously at registration time,
// with the old value left at T's zero value.
func WithImmediate() WatchOption { return func(o *WatchOptions) { o.immediate = true } }

// WithDeep forces a full, unbounded traversal of a reactive-object source
// so that a change to any nested field is observed.
func WithDeep() WatchOption {
	return func(o *WatchOptions) {
		o.deep = true
		o.deepDepth = -1
	}
}

// WithDeepDepth is WithDeep bounded to the given nesting depth.
func WithDeepDepth(depth int) WatchOption {
	return func(o *WatchOptions) {
		o.deep = true
		o.deepDepth = depth
	}
}

// WithOnce stops the watcher automatically after its first callback
// invocation (not counting an WithImmediate firing).
func WithOnce() WatchOption { return func(o *WatchOptions) { o.once = true } }

// WithFlush selects the dispatch queue. Default is FlushPost.
func WithFlush(mode FlushMode) WatchOption { return func(o *WatchOptions) { o.flush = mode } }

// WithWatchOnError routes a panicking callback to the given hook instead
// of silently dropping it.
func WithWatchOnError(onError func(err error, phase Phase)) WatchOption {
	return func(o *WatchOptions) { o.onError = onError }
}

// DebugWarn, if set, is invoked with a human-readable message when Watch
// is misused (a nil callback). nil by default; a development build can
// install a hook that logs or panics.
var DebugWarn func(message string)

// watchJob holds the mutable state shared by a watcher's Effect and its
// scheduler: the last observed value, registered cleanups, and how many
// times the callback has fired (for WithOnce).
type watchJob[T any] struct {
	mu       sync.Mutex
	getter   func() T
	cb       WatchCallback[T]
	oldValue T
	pending  T // written by effect.fn, read immediately after Run returns
	hasOld   bool
	fired    bool
	cleanups []func()
	opts     WatchOptions
	effect   *Effect
	handle   *watchJobHandle
	stopped  bool
}

func (j *watchJob[T]) onCleanup(fn func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cleanups = append(j.cleanups, fn)
}

func (j *watchJob[T]) runCleanups() {
	j.mu.Lock()
	cleanups := j.cleanups
	j.cleanups = nil
	j.mu.Unlock()
	for _, c := range cleanups {
		c()
	}
}

// run executes the effect to produce a fresh value and, if it differs
// from the stored old value, invokes the callback.
func (j *watchJob[T]) run() {
	_ = j.effect.Run()

	j.mu.Lock()
	if j.stopped {
		j.mu.Unlock()
		return
	}
	newVal := j.pending
	oldVal := j.oldValue
	j.oldValue = newVal
	j.hasOld = true
	alreadyFired := j.fired
	once := j.opts.once
	j.mu.Unlock()

	if !hasChanged(oldVal, newVal, nil) {
		return
	}
	if once && alreadyFired {
		return
	}

	j.runCleanups()
	j.invokeCallback(newVal, oldVal)

	j.mu.Lock()
	j.fired = true
	j.mu.Unlock()

	if once {
		j.stop()
	}
}

func (j *watchJob[T]) invokeCallback(newVal, oldVal T) {
	defer func() {
		if r := recover(); r != nil {
			if j.opts.onError != nil {
				j.opts.onError(panicToError(PhaseWatchCallback, r), PhaseWatchCallback)
			}
		}
	}()
	j.cb(newVal, oldVal, j.onCleanup)
}

func (j *watchJob[T]) stop() {
	j.mu.Lock()
	if j.stopped {
		j.mu.Unlock()
		return
	}
	j.stopped = true
	j.mu.Unlock()

	j.effect.Stop()
	preQueue.remove(j.handle)
	postQueue.remove(j.handle)
	j.runCleanups()
}

func panicToError(phase Phase, r any) error {
	return &panicError{phase: phase, value: r}
}

type panicError struct {
	phase Phase
	value any
}

func (e *panicError) Error() string {
	return "reactiv: " + e.phase.String() + ": panic: " + formatPanic(e.value)
}

func formatPanic(v any) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return "unrecoverable panic value"
}

// Watch builds an Effect around source's normalized getter and invokes cb
// whenever the observed value has meaningfully changed. A nil cb is
// treated as a misuse per the spec's error-handling design: it is reported
// via DebugWarn (if set) and otherwise silently run as a WatchEffect,
// ignoring old/new comparison entirely.
func Watch[T any](source Source[T], cb WatchCallback[T], opts ...WatchOption) StopHandle {
	options := WatchOptions{flush: FlushPost}
	for _, o := range opts {
		o(&options)
	}

	if cb == nil {
		if DebugWarn != nil {
			DebugWarn("reactiv: watch called with a nil callback; treating as watchEffect")
		}
		getter := source.resolve(options.deep, options.deepDepth)
		return watchEffectImpl(func(onCleanup CleanupRegistrar) { getter() }, opts...)
	}

	getter := source.resolve(options.deep, options.deepDepth)

	j := &watchJob[T]{
		getter: getter,
		cb:     cb,
		opts:   options,
		handle: &watchJobHandle{},
	}
	j.effect = NewEffect(func() { j.pending = j.getter() },
		WithPhase(PhaseEffect),
		WithScheduler(func() { dispatch(options.flush, j.handle, j.run) }),
		WithOnError(func(err error, phase Phase) {
			if options.onError != nil {
				options.onError(err, phase)
			}
		}),
	)

	// Initial run always evaluates once to populate oldValue.
	_ = j.effect.Run()
	j.mu.Lock()
	newVal := j.pending
	j.oldValue = newVal
	j.hasOld = true
	j.mu.Unlock()

	if options.immediate {
		// An immediate firing primes the callback at registration time but
		// must not itself count toward WithOnce: only a firing triggered by
		// an actual source change marks j.fired below, in run().
		var zero T
		j.invokeCallback(newVal, zero)
	}

	return func() { j.stop() }
}

func dispatch(mode FlushMode, handle *watchJobHandle, job func()) {
	switch mode {
	case FlushPre:
		preQueue.enqueue(handle, job)
	case FlushPost:
		postQueue.enqueue(handle, job)
	default: // FlushSync
		job()
	}
}

// watchEffectImpl is the shared implementation behind WatchEffect,
// WatchPostEffect, and WatchSyncEffect: fn is run immediately and
// automatically re-run whenever any reactive value it reads changes, with
// no old/new comparison.
func watchEffectImpl(fn func(onCleanup CleanupRegistrar), opts ...WatchOption) StopHandle {
	var options WatchOptions
	for _, o := range opts {
		o(&options)
	}

	j := &effectJob{opts: options, handle: &watchJobHandle{}}
	j.effect = NewEffect(func() { fn(j.onCleanup) },
		WithPhase(PhaseEffect),
		WithScheduler(func() { dispatch(options.flush, j.handle, j.run) }),
		WithOnError(func(err error, phase Phase) {
			if options.onError != nil {
				options.onError(err, phase)
			}
		}),
	)
	j.run()

	return func() { j.stop() }
}

// effectJob is watchJob's callback-free sibling for WatchEffect family
// functions: no old/new comparison, just cleanup-before-rerun discipline.
type effectJob struct {
	mu       sync.Mutex
	cleanups []func()
	opts     WatchOptions
	effect   *Effect
	handle   *watchJobHandle
	stopped  bool
}

func (j *effectJob) onCleanup(fn func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cleanups = append(j.cleanups, fn)
}

func (j *effectJob) run() {
	j.mu.Lock()
	if j.stopped {
		j.mu.Unlock()
		return
	}
	j.mu.Unlock()

	j.runCleanups()
	_ = j.effect.Run()
}

func (j *effectJob) runCleanups() {
	j.mu.Lock()
	cleanups := j.cleanups
	j.cleanups = nil
	j.mu.Unlock()
	for _, c := range cleanups {
		c()
	}
}

func (j *effectJob) stop() {
	j.mu.Lock()
	if j.stopped {
		j.mu.Unlock()
		return
	}
	j.stopped = true
	j.mu.Unlock()

	j.effect.Stop()
	preQueue.remove(j.handle)
	postQueue.remove(j.handle)
	j.runCleanups()
}

// WatchEffect runs fn immediately, tracking every reactive value it reads,
// and re-runs it (after firing any cleanup registered on the previous run)
// whenever one of those values changes. Equivalent to
// watchEffectImpl(fn, WithFlush(FlushSync)) plus the given options, since
// the canonical watchEffect reacts as soon as possible.
func WatchEffect(fn func(onCleanup CleanupRegistrar), opts ...WatchOption) StopHandle {
	return watchEffectImpl(fn, append([]WatchOption{WithFlush(FlushSync)}, opts...)...)
}

// WatchPostEffect is WatchEffect queued on the host's post-flush queue.
func WatchPostEffect(fn func(onCleanup CleanupRegistrar), opts ...WatchOption) StopHandle {
	return watchEffectImpl(fn, append([]WatchOption{WithFlush(FlushPost)}, opts...)...)
}

// WatchSyncEffect is WatchEffect with flush mode pinned to FlushSync,
// provided for symmetry with WatchPostEffect even though FlushSync is
// already WatchEffect's default.
func WatchSyncEffect(fn func(onCleanup CleanupRegistrar), opts ...WatchOption) StopHandle {
	return watchEffectImpl(fn, append([]WatchOption{WithFlush(FlushSync)}, opts...)...)
}
