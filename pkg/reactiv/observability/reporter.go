package observability

import (
	"fmt"
	"sync"
	"time"
)

// WatcherPanicError wraps a panic recovered from an Effect, Computed getter,
// or watcher callback so the engine can keep running instead of letting the
// panic escape to the caller.
//
// This type is defined here, rather than in package reactiv, to avoid an
// import cycle: reactiv's error hooks accept a plain error, and this package
// is an optional consumer wired in by the caller, not a dependency of the
// engine itself.
type WatcherPanicError struct {
	// WatcherName identifies the Effect/watcher/computed where the panic
	// occurred, when the caller has a name to attach (the engine itself
	// does not name its effects).
	WatcherName string
	// Phase names which stage of the reactive lifecycle was running:
	// "effect", "computed-getter", "watch-callback".
	Phase string
	// PanicValue is the value passed to panic().
	PanicValue interface{}
}

// Error implements the error interface for WatcherPanicError.
func (e *WatcherPanicError) Error() string {
	return fmt.Sprintf("panic in %s: watcher %q: %v", e.Phase, e.WatcherName, e.PanicValue)
}

// ErrorReporter is a pluggable interface for error tracking backends.
// Implementations can send errors to services like Sentry, Rollbar, or custom backends.
//
// The interface is optional - if no reporter is configured via SetErrorReporter,
// errors are silently ignored with zero overhead (just a nil check).
//
// Thread-safe: All methods must be safe for concurrent use by multiple goroutines.
//
// Example usage:
//
//	// Development: Console reporter
//	reporter := NewConsoleReporter(true)
//	SetErrorReporter(reporter)
//
//	// Production: Sentry reporter
//	reporter, err := NewSentryReporter(os.Getenv("SENTRY_DSN"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	SetErrorReporter(reporter)
//	defer reporter.Flush(5 * time.Second)
//
// Wiring into the engine's error hooks:
//
//	reactiv.NewEffect(fn, reactiv.WithOnError(func(err error, phase reactiv.Phase) {
//	    if reporter := observability.GetErrorReporter(); reporter != nil {
//	        reporter.ReportError(err, &observability.ErrorContext{
//	            Phase:     phase.String(),
//	            Timestamp: time.Now(),
//	        })
//	    }
//	}))
type ErrorReporter interface {
	// ReportPanic reports a panic recovered from an Effect, Computed, or
	// watcher callback.
	//
	// Thread-safe: Must be safe to call concurrently.
	ReportPanic(err *WatcherPanicError, ctx *ErrorContext)

	// ReportError reports a general error. Can be called manually, or wired
	// into an OnError hook to forward every recovered panic converted to
	// an error by the engine.
	//
	// Thread-safe: Must be safe to call concurrently.
	ReportError(err error, ctx *ErrorContext)

	// Flush ensures all pending errors are sent before shutdown.
	//
	// Thread-safe: Must be safe to call concurrently.
	//
	// Example:
	//   defer reporter.Flush(5 * time.Second)
	Flush(timeout time.Duration) error
}

// ErrorContext provides rich context about where and when an error occurred.
// All fields are optional, but providing more context leads to better error reports.
//
// Example:
//
//	ctx := &ErrorContext{
//	    WatcherName: "userProfile",
//	    Phase:       "watch-callback",
//	    Timestamp:   time.Now(),
//	    Tags: map[string]string{
//	        "environment": "production",
//	    },
//	    Breadcrumbs: []Breadcrumb{
//	        {Type: "track", Message: "effect read count ref"},
//	        {Type: "trigger", Message: "count.Set(1) scheduled effect"},
//	    },
//	    StackTrace: debug.Stack(),
//	}
type ErrorContext struct {
	// WatcherName identifies the Effect/watcher/computed, when the caller
	// has a name to attach.
	WatcherName string

	// Phase names which stage of the reactive lifecycle was running:
	// "effect", "computed-getter", "watch-callback".
	Phase string

	// Timestamp is when the error occurred.
	Timestamp time.Time

	// Tags are key-value pairs for filtering and grouping errors.
	// Tags should be low-cardinality values (not unique per error).
	Tags map[string]string

	// Extra contains arbitrary additional data about the error.
	Extra map[string]interface{}

	// Breadcrumbs is a trail of actions (tracks, triggers, recomputes)
	// leading up to the error, most recent last.
	Breadcrumbs []Breadcrumb

	// StackTrace is the stack trace from where the error occurred.
	// Use debug.Stack() to capture the current stack trace.
	StackTrace []byte
}

// Breadcrumb represents a single action or event in the trail leading to an error.
// Inspired by Sentry's breadcrumb system.
//
// Example:
//
//	breadcrumb := Breadcrumb{
//	    Type:      "trigger",
//	    Category:  "dep",
//	    Message:   "count.Set(1) propagated Dirty",
//	    Level:     "info",
//	    Timestamp: time.Now(),
//	}
type Breadcrumb struct {
	// Type categorizes the breadcrumb by its nature.
	//
	// Common types:
	//   - "track": a read was recorded against an active effect
	//   - "trigger": a write propagated a dirty level
	//   - "run": an effect or computed getter executed
	//   - "error": an error or panic was recovered
	Type string

	// Category is a subcategory for grouping breadcrumbs, more specific
	// than Type.
	//
	// Examples:
	//   - "dep" (dependency graph events)
	//   - "scheduler" (queue drains)
	//   - "watch" (watcher dispatch)
	Category string

	// Message is a human-readable description of the breadcrumb.
	Message string

	// Level indicates the severity or importance of the breadcrumb.
	//
	// Common levels: "debug", "info", "warning", "error".
	Level string

	// Timestamp is when the breadcrumb was created.
	Timestamp time.Time

	// Data contains arbitrary additional data about the breadcrumb.
	Data map[string]interface{}
}

// Global error reporter state
var (
	// globalReporterMu protects access to globalReporter
	globalReporterMu sync.RWMutex

	// globalReporter is the currently configured error reporter
	// nil means no reporter is configured (errors are silently ignored)
	globalReporter ErrorReporter
)

// SetErrorReporter configures the global error reporter.
// Pass nil to disable error reporting.
//
// Example:
//
//	// Development: Console reporter
//	SetErrorReporter(NewConsoleReporter(true))
//
//	// Production: Sentry reporter
//	reporter, err := NewSentryReporter(os.Getenv("SENTRY_DSN"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	SetErrorReporter(reporter)
//	defer reporter.Flush(5 * time.Second)
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
func SetErrorReporter(reporter ErrorReporter) {
	globalReporterMu.Lock()
	defer globalReporterMu.Unlock()
	globalReporter = reporter
}

// GetErrorReporter returns the currently configured error reporter.
// Returns nil if no reporter is configured.
//
// Thread-safe: Safe to call concurrently from multiple goroutines.
func GetErrorReporter() ErrorReporter {
	globalReporterMu.RLock()
	defer globalReporterMu.RUnlock()
	return globalReporter
}
