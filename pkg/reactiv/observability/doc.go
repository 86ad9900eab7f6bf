// Package observability provides error tracking and breadcrumbs for
// applications built on the reactiv engine.
//
// # Overview
//
// The observability package enables error tracking and debugging for panics
// recovered from Effects, Computed getters, and watcher callbacks. It
// provides a pluggable error reporting system, breadcrumb trails for
// debugging, and integration with popular error tracking services like
// Sentry.
//
// # Error Reporting
//
// The package supports multiple error reporting backends through the ErrorReporter interface:
//
//   - ConsoleReporter: Logs errors through the standard log package, to stderr by default (development)
//   - SentryReporter: Sends errors to Sentry (production)
//   - Custom implementations: Implement ErrorReporter for other services
//
// Basic setup:
//
//	import "github.com/go-reactiv/reactiv/pkg/reactiv/observability"
//
//	// Development: Use console reporter
//	reporter := observability.NewConsoleReporter(true)
//	observability.SetErrorReporter(reporter)
//
//	// Production: Use Sentry
//	reporter, err := observability.NewSentryReporter(os.Getenv("SENTRY_DSN"),
//	    observability.WithEnvironment("production"),
//	    observability.WithRelease("v1.0.0"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	observability.SetErrorReporter(reporter)
//	defer reporter.Flush(5 * time.Second)
//
// # Breadcrumbs
//
// Breadcrumbs provide a trail of events leading up to an error, making debugging easier.
// A reporter sends the breadcrumbs carried in the report's ErrorContext.Breadcrumbs;
// breadcrumbs recorded with RecordBreadcrumb are not attached to a report automatically.
//
//	observability.RecordBreadcrumb("track", "effect read count ref", map[string]interface{}{
//	    "ref": "count",
//	})
//
//	observability.RecordBreadcrumb("trigger", "count.Set(1) scheduled watcher", map[string]interface{}{
//	    "watcher": "userProfile",
//	})
//
//	// Get all breadcrumbs
//	crumbs := observability.GetBreadcrumbs()
//
//	// Clear breadcrumbs after error is reported
//	observability.ClearBreadcrumbs()
//
// # Error Types
//
// The package defines WatcherPanicError to wrap panics recovered from the
// engine's own Effect/Computed/watcher boundaries:
//
//	err := &observability.WatcherPanicError{
//	    WatcherName: "userProfile",
//	    Phase:       "watch-callback",
//	    PanicValue:  "nil pointer dereference",
//	}
//	fmt.Println(err.Error())
//	// Output: panic in watch-callback: watcher "userProfile": nil pointer dereference
//
// # Error Context
//
// When reporting errors, include rich context for easier debugging:
//
//	reporter.ReportPanic(err, &observability.ErrorContext{
//	    WatcherName: "userProfile",
//	    Phase:       "watch-callback",
//	    Timestamp:   time.Now(),
//	    StackTrace:  debug.Stack(),
//	})
//
// # Thread Safety
//
// All functions and types in this package are thread-safe:
//
//   - SetErrorReporter/GetErrorReporter are protected by sync.RWMutex
//   - Breadcrumb recording is protected by sync.RWMutex
//   - All reporter implementations must be concurrent-safe
//
// # Wiring into the engine
//
// Hook a reporter into an Effect, Computed, or Watch's OnError option:
//
//	reactiv.NewEffect(fn, reactiv.WithOnError(func(err error, phase reactiv.Phase) {
//	    if reporter := observability.GetErrorReporter(); reporter != nil {
//	        reporter.ReportError(err, &observability.ErrorContext{
//	            Phase:     phase.String(),
//	            Timestamp: time.Now(),
//	        })
//	    }
//	}))
//
// # Best Practices
//
//  1. Always configure an error reporter in production
//  2. Use breadcrumbs liberally for debugging context
//  3. Include watcher name and phase in error context
//  4. Flush the reporter before application exit
//  5. Use environment-specific reporters (console for dev, Sentry for prod)
package observability
