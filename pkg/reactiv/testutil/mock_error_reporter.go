package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-reactiv/reactiv/pkg/reactiv/observability"
)

// MockErrorReporter is a mock implementation of observability.ErrorReporter for testing.
// It captures all reported errors, panics, and contexts for later inspection and assertion.
//
// Thread-safe: All methods are safe for concurrent use.
//
// Example usage:
//
//	reporter := NewMockErrorReporter()
//	observability.SetErrorReporter(reporter)
//	defer observability.SetErrorReporter(nil)
//
//	// Run code that may trigger a watcher panic
//	count.Set(newValue)
//
//	// Assert errors were reported
//	reporter.AssertErrorReported(t, expectedErr)
//	assert.Len(t, reporter.GetErrors(), 1)
type MockErrorReporter struct {
	errors   []error
	panics   []*observability.WatcherPanicError
	contexts []*observability.ErrorContext
	mu       sync.RWMutex
}

// NewMockErrorReporter creates a new mock error reporter.
// The reporter starts with empty error, panic, and context slices.
//
// Returns:
//   - *MockErrorReporter: A new mock reporter ready for use
//
// Example:
//
//	reporter := NewMockErrorReporter()
//	observability.SetErrorReporter(reporter)
func NewMockErrorReporter() *MockErrorReporter {
	return &MockErrorReporter{
		errors:   make([]error, 0),
		panics:   make([]*observability.WatcherPanicError, 0),
		contexts: make([]*observability.ErrorContext, 0),
	}
}

// ReportError records an error and its context.
// The engine does not call reporters itself; a test calls this method
// directly or from an OnError hook it wires up.
//
// Parameters:
//   - err: The error to report
//   - ctx: Rich context about where and when the error occurred (can be nil)
//
// Thread-safe: Safe to call concurrently.
func (m *MockErrorReporter) ReportError(err error, ctx *observability.ErrorContext) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errors = append(m.errors, err)
	m.contexts = append(m.contexts, ctx)
}

// ReportPanic records a panic and its context.
// The engine does not call reporters itself; a test calls this method
// directly or from an OnError hook it wires up.
//
// Parameters:
//   - err: The WatcherPanicError containing panic details
//   - ctx: Rich context about where and when the panic occurred (can be nil)
//
// Thread-safe: Safe to call concurrently.
func (m *MockErrorReporter) ReportPanic(err *observability.WatcherPanicError, ctx *observability.ErrorContext) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.panics = append(m.panics, err)
	m.contexts = append(m.contexts, ctx)
}

// Flush is a no-op for the mock reporter.
// Always returns nil since there's nothing to flush in a mock.
//
// Parameters:
//   - timeout: Ignored for mock reporter
//
// Returns:
//   - error: Always nil
//
// Thread-safe: Safe to call concurrently.
func (m *MockErrorReporter) Flush(timeout time.Duration) error {
	return nil
}

// GetErrors returns a copy of all reported errors.
// Returns a defensive copy to prevent external modification.
//
// Returns:
//   - []error: Copy of all reported errors
//
// Thread-safe: Safe to call concurrently.
func (m *MockErrorReporter) GetErrors() []error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]error, len(m.errors))
	copy(result, m.errors)
	return result
}

// GetPanics returns a copy of all reported panics.
// Returns a defensive copy to prevent external modification.
//
// Returns:
//   - []*observability.WatcherPanicError: Copy of all reported panics
//
// Thread-safe: Safe to call concurrently.
func (m *MockErrorReporter) GetPanics() []*observability.WatcherPanicError {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*observability.WatcherPanicError, len(m.panics))
	copy(result, m.panics)
	return result
}

// GetContexts returns a copy of all error contexts.
// Returns a defensive copy to prevent external modification.
//
// Returns:
//   - []*observability.ErrorContext: Copy of all error contexts
//
// Thread-safe: Safe to call concurrently.
func (m *MockErrorReporter) GetContexts() []*observability.ErrorContext {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*observability.ErrorContext, len(m.contexts))
	copy(result, m.contexts)
	return result
}

// GetBreadcrumbs returns all breadcrumbs from all error contexts.
// Breadcrumbs are collected from all contexts in chronological order.
//
// Returns:
//   - []observability.Breadcrumb: All breadcrumbs from all contexts
//
// Thread-safe: Safe to call concurrently.
func (m *MockErrorReporter) GetBreadcrumbs() []observability.Breadcrumb {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var breadcrumbs []observability.Breadcrumb
	for _, ctx := range m.contexts {
		if ctx != nil && len(ctx.Breadcrumbs) > 0 {
			breadcrumbs = append(breadcrumbs, ctx.Breadcrumbs...)
		}
	}
	return breadcrumbs
}

// AssertErrorReported asserts that a specific error was reported.
// Fails the test if the error was not found in the reported errors.
//
// Parameters:
//   - t: The testing.T instance
//   - expectedErr: The error to look for
//
// Example:
//
//	reporter.AssertErrorReported(t, errors.New("expected error"))
func (m *MockErrorReporter) AssertErrorReported(t testingT, expectedErr error) {
	t.Helper()

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, err := range m.errors {
		if err.Error() == expectedErr.Error() {
			return
		}
	}

	t.Errorf("expected error %q not found in reported errors", expectedErr.Error())
}

// AssertPanicReported asserts that a specific panic was reported.
// Fails the test if the panic was not found in the reported panics.
//
// Parameters:
//   - t: The testing.T instance
//   - expectedPanic: The panic to look for
//
// Example:
//
//	reporter.AssertPanicReported(t, &observability.WatcherPanicError{
//	    WatcherName: "TestComp",
//	    Phase:     "click",
//	})
func (m *MockErrorReporter) AssertPanicReported(t testingT, expectedPanic *observability.WatcherPanicError) {
	t.Helper()

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, panic := range m.panics {
		if panic.WatcherName == expectedPanic.WatcherName &&
			panic.Phase == expectedPanic.Phase {
			return
		}
	}

	t.Errorf("expected panic (watcher=%q, phase=%q) not found in reported panics",
		expectedPanic.WatcherName, expectedPanic.Phase)
}

// Reset clears all recorded errors, panics, and contexts.
// Useful for reusing the same reporter across multiple test cases.
//
// Thread-safe: Safe to call concurrently.
//
// Example:
//
//	reporter.Reset()
//	// Reporter is now empty and ready for new test
func (m *MockErrorReporter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errors = make([]error, 0)
	m.panics = make([]*observability.WatcherPanicError, 0)
	m.contexts = make([]*observability.ErrorContext, 0)
}

// String returns a human-readable summary of the mock reporter state.
// Useful for debugging test failures.
//
// Returns:
//   - string: Summary of errors, panics, and contexts
//
// Example:
//
//	fmt.Println(reporter.String())
//	// Output: MockErrorReporter: 2 errors, 1 panics, 3 contexts
func (m *MockErrorReporter) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fmt.Sprintf("MockErrorReporter: %d errors, %d panics, %d contexts",
		len(m.errors), len(m.panics), len(m.contexts))
}
