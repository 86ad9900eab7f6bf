package reactiv

// DirtyLevel is the three-state freshness classification of an Effect.
// The states are ordered — comparisons like dirtyLevel >= Dirty are
// meaningful — because propagation and the dirty check both rely on that
// ordering to collapse redundant writes and redundant re-evaluations.
type DirtyLevel int

const (
	// NotDirty means the effect's last computed/run value is known current.
	NotDirty DirtyLevel = iota
	// MaybeDirty means an upstream Dep announced a change, but whether this
	// effect's own observable output actually changed has not yet been
	// decided — deciding it may require evaluating an upstream Computed.
	MaybeDirty
	// Dirty means the effect is known to need re-evaluation.
	Dirty
)

func (d DirtyLevel) String() string {
	switch d {
	case NotDirty:
		return "not-dirty"
	case MaybeDirty:
		return "maybe-dirty"
	case Dirty:
		return "dirty"
	default:
		return "unknown"
	}
}
