package contract

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	constant "github.com/LerianStudio/lib-lifeguard/lifeguard/constants"
	"github.com/LerianStudio/lib-lifeguard/lifeguard/log"
	"github.com/LerianStudio/lib-lifeguard/lifeguard/opentelemetry/metrics"
	"github.com/LerianStudio/lib-lifeguard/lifeguard/runtime"
)

var (
	haltMu      sync.RWMutex
	haltLogger  log.Logger
	haltMetrics *metrics.MetricsFactory
	checkingOn  = true
)

// SetLogger configures the logger used for fatal diagnostics. Pass nil to
// fall back to stderr.
func SetLogger(logger log.Logger) {
	haltMu.Lock()
	defer haltMu.Unlock()

	haltLogger = logger
}

// SetMetricsFactory configures the metrics factory used to count fatal
// halts. Pass nil to disable halt metrics.
func SetMetricsFactory(factory *metrics.MetricsFactory) {
	haltMu.Lock()
	defer haltMu.Unlock()

	haltMetrics = factory
}

// SetEnabled toggles all contract checking without touching call sites.
func SetEnabled(enabled bool) {
	haltMu.Lock()
	defer haltMu.Unlock()

	checkingOn = enabled
}

// Enabled reports whether checking is switched on.
func Enabled() bool {
	haltMu.RLock()
	defer haltMu.RUnlock()

	return checkingOn
}

// checkingEnabled gates every check: explicit toggle first, production mode
// second. Both render the entire engine a no-op.
func checkingEnabled() bool {
	return Enabled() && !runtime.IsProductionMode()
}

func haltState() (log.Logger, *metrics.MetricsFactory) {
	haltMu.RLock()
	defer haltMu.RUnlock()

	return haltLogger, haltMetrics
}

// haltWithContext is the engine's only failure channel: it logs the
// diagnostic, records telemetry, forwards to the error reporter, and
// terminates the process. There is no recovery path.
func haltWithContext(ctx context.Context, err *Error) {
	logger, factory := haltState()

	msg := "CONTRACT HALT: " + err.Error()
	stack := debug.Stack()

	if logger != nil {
		logger.Log(ctx, log.LevelError, msg,
			log.String("category", err.Category.String()),
			log.String("class", err.Class),
			log.String("member", err.Member),
			log.String("rule", err.Rule),
			log.String("stack", string(stack)),
		)

		_ = logger.Sync(ctx)
	} else {
		fmt.Fprintln(os.Stderr, msg)
		fmt.Fprintln(os.Stderr, string(stack))
	}

	recordHaltMetric(ctx, factory, err)
	recordHaltToSpan(ctx, err)

	runtime.ReportFatal(ctx, err, map[string]string{
		"component": "contract",
		"category":  err.Category.String(),
		"class":     err.Class,
		"member":    err.Member,
	})

	exit(1)
}

// Fatalf is the shared halt primitive for the non-reflective subsystems
// (checklist, floodlight). It logs the diagnostic and terminates the process.
func Fatalf(ctx context.Context, component, format string, args ...any) {
	logger, factory := haltState()

	msg := fmt.Sprintf(format, args...)

	if logger != nil {
		logger.Log(ctx, log.LevelError, "FATAL: "+msg,
			log.String("component", component),
			log.String("stack", string(debug.Stack())),
		)

		_ = logger.Sync(ctx)
	} else {
		fmt.Fprintln(os.Stderr, "FATAL: "+msg)
	}

	if factory != nil {
		if counter, err := factory.Counter(metrics.MetricContractHalt); err == nil {
			_ = counter.
				WithLabels(map[string]string{
					"component": constant.SanitizeMetricLabel(component),
					"category":  "fatal",
				}).
				AddOne(ctx)
		}
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.AddEvent(constant.EventContractHalt, trace.WithAttributes(
			attribute.String(constant.AttrPrefixContract+"component", component),
			attribute.String(constant.AttrPrefixContract+"message", msg),
		))
		span.SetStatus(codes.Error, "fatal halt in "+component)
	}

	runtime.ReportFatal(ctx, fmt.Errorf("%w: %s", ErrContractViolated, msg), map[string]string{
		"component": component,
	})

	exit(1)
}

func recordHaltMetric(ctx context.Context, factory *metrics.MetricsFactory, err *Error) {
	if factory == nil {
		return
	}

	counter, counterErr := factory.Counter(metrics.MetricContractHalt)
	if counterErr != nil {
		return
	}

	_ = counter.
		WithLabels(map[string]string{
			"component": "contract",
			"category":  constant.SanitizeMetricLabel(err.Category.String()),
			"class":     constant.SanitizeMetricLabel(err.Class),
		}).
		AddOne(ctx)
}

func recordHaltToSpan(ctx context.Context, err *Error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.AddEvent(constant.EventContractHalt, trace.WithAttributes(
		attribute.String(constant.AttrPrefixContract+"category", err.Category.String()),
		attribute.String(constant.AttrPrefixContract+"class", err.Class),
		attribute.String(constant.AttrPrefixContract+"member", err.Member),
		attribute.String(constant.AttrPrefixContract+"rule", err.Rule),
	))
	span.RecordError(err)
	span.SetStatus(codes.Error, "contract halt in "+err.Class)
}

// exit terminates the process through the runtime exit handler, so hosts
// and tests that installed one can observe the halt without dying.
// Everything here must still treat a halt as non-returning.
func exit(code int) {
	runtime.Exit(code)
}

// setExitForTest installs a test exit handler and returns a restore
// function. Test use only.
func setExitForTest(fn func(int)) func() {
	runtime.SetExitHandler(fn)

	return func() {
		runtime.SetExitHandler(nil)
	}
}
