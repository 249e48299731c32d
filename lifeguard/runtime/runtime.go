// Package runtime holds process-wide switches shared by the lifeguard
// subsystems: the production-mode toggle that disables all contract checking,
// and an optional reporter hook for fatal diagnostics.
package runtime

import (
	"context"
	"os"
	"strings"
	"sync"
)

// ErrorReporter defines an interface for external error reporting services.
// This abstraction allows a fatal contract halt to reach an error tracking
// service before the process exits, without a hard dependency on any SDK.
//
// Implementations should:
//   - Handle nil contexts gracefully
//   - Be safe for concurrent use
//   - Not panic themselves
type ErrorReporter interface {
	// CaptureException reports a fatal diagnostic to the error tracking service.
	// The tags map can include metadata like "component", "class", "member".
	CaptureException(ctx context.Context, err error, tags map[string]string)
}

var (
	errorReporterInstance ErrorReporter
	errorReporterMu       sync.RWMutex
)

// SetErrorReporter configures the global error reporter for fatal diagnostics.
// Pass nil to disable error reporting.
func SetErrorReporter(reporter ErrorReporter) {
	errorReporterMu.Lock()
	defer errorReporterMu.Unlock()

	errorReporterInstance = reporter
}

// GetErrorReporter returns the currently configured error reporter.
// Returns nil if no reporter has been configured.
func GetErrorReporter() ErrorReporter {
	errorReporterMu.RLock()
	defer errorReporterMu.RUnlock()

	return errorReporterInstance
}

var (
	// productionMode controls whether contract checking runs at all.
	// When true, every check is a no-op and halts never fire.
	productionMode   bool
	productionModeMu sync.RWMutex
)

// SetProductionMode enables or disables production mode.
// In production mode all contract, checklist, and floodlight enforcement is
// disabled so call sites carry zero cost beyond a flag read.
func SetProductionMode(enabled bool) {
	productionModeMu.Lock()
	defer productionModeMu.Unlock()

	productionMode = enabled
}

// IsProductionMode returns whether production mode is enabled.
//
// If the mode has not been set explicitly, the ENV and GO_ENV environment
// variables are consulted as a fallback.
func IsProductionMode() bool {
	productionModeMu.RLock()
	enabled := productionMode
	productionModeMu.RUnlock()

	if enabled {
		return true
	}

	env := strings.TrimSpace(os.Getenv("ENV"))
	goEnv := strings.TrimSpace(os.Getenv("GO_ENV"))

	return strings.EqualFold(env, "production") || strings.EqualFold(goEnv, "production")
}

// ReportFatal forwards a fatal diagnostic to the configured error reporter,
// if any. Called on the halt path right before the process exits.
func ReportFatal(ctx context.Context, err error, tags map[string]string) {
	reporter := GetErrorReporter()
	if reporter == nil {
		return
	}

	reporter.CaptureException(ctx, err, tags)
}

var (
	exitMu sync.RWMutex
	exitFn = os.Exit
)

// SetExitHandler replaces the process-exit call used on fatal halts. Host
// harnesses that must intercept termination (editors, test runners) can
// install their own handler; pass nil to restore os.Exit. A handler that
// returns makes every halt site return to its caller, so only install one
// that does not exit when the process is prepared for that.
func SetExitHandler(fn func(code int)) {
	exitMu.Lock()
	defer exitMu.Unlock()

	if fn == nil {
		fn = os.Exit
	}

	exitFn = fn
}

// Exit terminates the process through the configured exit handler.
func Exit(code int) {
	exitMu.RLock()
	fn := exitFn
	exitMu.RUnlock()

	fn(code)
}
