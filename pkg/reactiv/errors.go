package reactiv

import "errors"

// Errors returned by the engine's public entry points. None of these are
// retried internally and none are fatal to the engine as a whole — they are
// surfaced to the caller, who decides what to do next.
var (
	// ErrNilFn is the value NewEffect and NewComputed panic with when given
	// a nil function.
	ErrNilFn = errors.New("reactiv: function cannot be nil")

	// ErrNilCallback is returned when Watch is given a nil callback. Watch
	// itself never returns this — per the misuse rule in the error handling
	// design, a nil callback is silently treated as WatchEffect — but it is
	// exported for callers of the lower-level constructors that do not want
	// that fallback behavior.
	ErrNilCallback = errors.New("reactiv: callback cannot be nil")
)

// Phase identifies which user-supplied function was executing when a panic
// was recovered, for the OnError hook (see EffectOption/WatchOption).
type Phase int

const (
	// PhaseEffect is reported when an Effect's fn panics.
	PhaseEffect Phase = iota
	// PhaseComputedGetter is reported when a Computed's getter panics.
	PhaseComputedGetter
	// PhaseWatchCallback is reported when a watcher's callback panics.
	PhaseWatchCallback
)

func (p Phase) String() string {
	switch p {
	case PhaseEffect:
		return "effect"
	case PhaseComputedGetter:
		return "computed-getter"
	case PhaseWatchCallback:
		return "watch-callback"
	default:
		return "unknown"
	}
}
