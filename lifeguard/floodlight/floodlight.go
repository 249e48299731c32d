// Package floodlight handles domain errors: mistakes that come from domain
// data or domain users rather than from programmers, where an immediate
// crash would punish the wrong party.
//
// The philosophy matches the contract engine — turn bugs into magnesium
// flares — without forcing a halt on the first occurrence. Every reported
// error consumes points from a configurable budget; when the budget is
// exhausted the process halts for real. Critical errors bypass the budget
// and halt immediately. A plain log line is the most ignorable error channel
// ever invented; this one is loud, accumulates, and eventually stops the
// program.
package floodlight

import (
	"context"
	goruntime "runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LerianStudio/lib-lifeguard/lifeguard/contract"
	"github.com/LerianStudio/lib-lifeguard/lifeguard/log"
	"github.com/LerianStudio/lib-lifeguard/lifeguard/opentelemetry/metrics"
	"github.com/LerianStudio/lib-lifeguard/lifeguard/runtime"
)

// Severity ranks domain errors.
type Severity uint8

const (
	// SeverityWarning consumes the warning cost from the budget.
	SeverityWarning Severity = iota
	// SeverityError consumes the error cost from the budget.
	SeverityError
	// SeverityCritical bypasses the budget and halts immediately.
	SeverityCritical
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// DomainError is a single recorded domain error occurrence. Repeated reports
// with the same message and severity coalesce into one entry with an
// occurrence count.
type DomainError struct {
	ID          uuid.UUID
	Message     string
	Context     string
	Severity    Severity
	Timestamp   time.Time
	Occurrences int
}

// Floodlight accumulates domain errors against a budget. Safe for
// concurrent use.
type Floodlight struct {
	mu       sync.Mutex
	config   Config
	consumed int
	active   []DomainError
	logger   log.Logger
	metrics  *metrics.MetricsFactory
	pause    func()
}

// New creates a Floodlight with the given configuration. Zero-valued config
// fields fall back to defaults.
func New(config Config, logger log.Logger) *Floodlight {
	if logger == nil {
		logger = log.NewNop()
	}

	return &Floodlight{
		config: config.withDefaults(),
		logger: logger,
		pause:  goruntime.Breakpoint,
	}
}

// setPauseForTest replaces the debugger-pause hook. Test use only.
func (f *Floodlight) setPauseForTest(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pause = fn
}

// SetMetricsFactory configures domain-error metrics for this instance.
func (f *Floodlight) SetMetricsFactory(factory *metrics.MetricsFactory) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.metrics = factory
}

// ReportWarning records a warning-severity domain error.
func (f *Floodlight) ReportWarning(ctx context.Context, message, errCtx string) {
	f.report(ctx, message, errCtx, SeverityWarning)
}

// ReportError records an error-severity domain error.
func (f *Floodlight) ReportError(ctx context.Context, message, errCtx string) {
	f.report(ctx, message, errCtx, SeverityError)
}

// ReportCritical halts the process immediately, bypassing the budget.
func (f *Floodlight) ReportCritical(ctx context.Context, message, errCtx string) {
	f.report(ctx, message, errCtx, SeverityCritical)
}

func (f *Floodlight) report(ctx context.Context, message, errCtx string, severity Severity) {
	if runtime.IsProductionMode() {
		return
	}

	if severity == SeverityCritical {
		f.recordMetric(ctx, severity)
		contract.Fatalf(ctx, "floodlight", "CRITICAL DOMAIN ERROR: %s (context: %s)", message, errCtx)

		return
	}

	f.mu.Lock()

	coalesced := false

	for i := range f.active {
		if f.active[i].Message == message && f.active[i].Severity == severity {
			f.active[i].Occurrences++
			f.active[i].Timestamp = time.Now()
			coalesced = true

			break
		}
	}

	if !coalesced {
		f.active = append(f.active, DomainError{
			ID:          uuid.New(),
			Message:     message,
			Context:     errCtx,
			Severity:    severity,
			Timestamp:   time.Now(),
			Occurrences: 1,
		})
	}

	cost := f.config.ErrorCost
	if severity == SeverityWarning {
		cost = f.config.WarningCost
	}

	// Repeated errors still consume budget.
	f.consumed += cost
	consumed := f.consumed
	maxBudget := f.config.MaxBudget
	pause := f.pause

	f.mu.Unlock()

	level := log.LevelError
	if severity == SeverityWarning {
		level = log.LevelWarn
	}

	f.logger.Log(ctx, level, "domain error reported",
		log.String("severity", severity.String()),
		log.String("message", message),
		log.String("context", errCtx),
		log.Int("budget_consumed", consumed),
		log.Int("budget_max", maxBudget),
	)

	f.recordMetric(ctx, severity)
	f.recordBudgetGauge(ctx, maxBudget-consumed)

	// Freeze in the attached debugger so the state that produced the error
	// can be inspected before anything else runs.
	if severity == SeverityError && f.config.PauseOnError {
		pause()
	}

	if consumed >= maxBudget {
		contract.Fatalf(ctx, "floodlight",
			"domain error budget exhausted (%d/%d): %s", consumed, maxBudget, message)
	}
}

// ActiveErrors returns a snapshot of the recorded errors.
func (f *Floodlight) ActiveErrors() []DomainError {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]DomainError, len(f.active))
	copy(out, f.active)

	return out
}

// Acknowledge removes a recorded error by ID. Acknowledging does not refund
// budget; the mistake still happened.
func (f *Floodlight) Acknowledge(id uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.active {
		if f.active[i].ID == id {
			f.active = append(f.active[:i], f.active[i+1:]...)

			return true
		}
	}

	return false
}

// ClearAll removes all recorded errors and restores the full budget.
func (f *Floodlight) ClearAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.active = nil
	f.consumed = 0
}

// RemainingBudget returns the unconsumed budget points.
func (f *Floodlight) RemainingBudget() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.config.MaxBudget - f.consumed
}

// MaxBudget returns the configured budget ceiling.
func (f *Floodlight) MaxBudget() int {
	return f.config.MaxBudget
}

// HasActiveErrors reports whether any errors are recorded.
func (f *Floodlight) HasActiveErrors() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.active) > 0
}

func (f *Floodlight) recordMetric(ctx context.Context, severity Severity) {
	f.mu.Lock()
	factory := f.metrics
	f.mu.Unlock()

	if factory == nil {
		return
	}

	counter, err := factory.Counter(metrics.MetricDomainError)
	if err != nil {
		return
	}

	_ = counter.
		WithLabels(map[string]string{"severity": severity.String()}).
		AddOne(ctx)
}

func (f *Floodlight) recordBudgetGauge(ctx context.Context, remaining int) {
	f.mu.Lock()
	factory := f.metrics
	f.mu.Unlock()

	if factory == nil {
		return
	}

	gauge, err := factory.Gauge(metrics.MetricDomainErrorBudget)
	if err != nil {
		return
	}

	_ = gauge.Set(ctx, int64(remaining))
}
