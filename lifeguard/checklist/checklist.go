// Package checklist enforces sequential completion of named stages.
//
// Checklists define the steps needed to complete some complex action — an
// initialization chain spread across indirect call paths, for example — and
// halt the process the moment any step runs out of order. The cognitive load
// of "did I set X before Y" moves from the developer to the tracker: a
// forgotten step stops the program and names exactly what was skipped.
//
// Like the contract engine, all enforcement is disabled in production mode.
package checklist

import (
	"context"
	"slices"
	"sync"

	"github.com/LerianStudio/lib-lifeguard/lifeguard/contract"
	"github.com/LerianStudio/lib-lifeguard/lifeguard/log"
	"github.com/LerianStudio/lib-lifeguard/lifeguard/opentelemetry/metrics"
	"github.com/LerianStudio/lib-lifeguard/lifeguard/ref"
	"github.com/LerianStudio/lib-lifeguard/lifeguard/runtime"
)

// indexNotStarted marks a checklist with no finished steps.
const indexNotStarted = -1

// state tracks one checklist's progress.
type state struct {
	steps             []ref.Name
	lastFinishedIndex int
	done              bool
}

// Registry tracks the registered checklists and their progress.
// Safe for concurrent use.
type Registry struct {
	mu         sync.Mutex
	checklists map[ref.Name]*state
	logger     log.Logger
	metrics    *metrics.MetricsFactory
}

// NewRegistry creates an empty registry with the given logger. A nil logger
// suppresses step logging.
func NewRegistry(logger log.Logger) *Registry {
	if logger == nil {
		logger = log.NewNop()
	}

	return &Registry{
		checklists: make(map[ref.Name]*state),
		logger:     logger,
	}
}

// SetMetricsFactory configures step-completion metrics for this registry.
func (r *Registry) SetMetricsFactory(factory *metrics.MetricsFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.metrics = factory
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry(log.NewNop())
	})

	return defaultRegistry
}

// Register adds a checklist with its ordered steps. Registering the same
// name again is a no-op. Duplicate steps are an authoring error and halt.
func (r *Registry) Register(name ref.Name, steps ...ref.Name) {
	if runtime.IsProductionMode() {
		return
	}

	contract.Precond(len(steps) > 0, "checklist must declare at least one step")

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.checklists[name]; exists {
		return
	}

	seen := make(map[ref.Name]struct{}, len(steps))
	for _, step := range steps {
		if _, dup := seen[step]; dup {
			contract.Fatalf(context.Background(), "checklist",
				"checklist %q has duplicate step %q", name, step)

			return
		}

		seen[step] = struct{}{}
	}

	r.checklists[name] = &state{
		steps:             slices.Clone(steps),
		lastFinishedIndex: indexNotStarted,
	}
}

// CanBeginStep reports whether step is the next expected step for the named
// checklist. An unregistered checklist halts.
func (r *Registry) CanBeginStep(name, step ref.Name) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.mustFind(name)
	if st == nil {
		return false
	}

	expected := st.lastFinishedIndex + 1
	if expected < 0 || expected >= len(st.steps) {
		return false
	}

	return st.steps[expected] == step
}

// IsStepDone reports whether step has already completed for the named
// checklist. Unknown steps report false.
func (r *Registry) IsStepDone(name, step ref.Name) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.mustFind(name)
	if st == nil {
		return false
	}

	idx := slices.Index(st.steps, step)
	if idx < 0 {
		return false
	}

	return st.done || (st.lastFinishedIndex != indexNotStarted && idx <= st.lastFinishedIndex)
}

// IsDone reports whether the named checklist has fully completed.
func (r *Registry) IsDone(name ref.Name) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.mustFind(name)
	if st == nil {
		return false
	}

	return st.done
}

// LastCompletedStep returns the last completed step name, or the strings
// "not started" / "completed".
func (r *Registry) LastCompletedStep(name ref.Name) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.mustFind(name)
	if st == nil {
		return "not registered"
	}

	if st.done {
		return "completed"
	}

	if st.lastFinishedIndex == indexNotStarted {
		return "not started"
	}

	if st.lastFinishedIndex >= 0 && st.lastFinishedIndex < len(st.steps) {
		return st.steps[st.lastFinishedIndex].String()
	}

	return "invalid"
}

// SetDone marks the named checklist as done.
func (r *Registry) SetDone(name ref.Name) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.setDoneLocked(name)
}

func (r *Registry) setDoneLocked(name ref.Name) {
	st := r.mustFind(name)
	if st == nil {
		return
	}

	st.done = true

	r.logger.Log(context.Background(), log.LevelInfo, "checklist done",
		log.String("checklist", name.String()))
}

// CheckStep records completion of a step, halting if it is not the next
// expected step. Completing the final step marks the checklist done.
func (r *Registry) CheckStep(name, step ref.Name) {
	if runtime.IsProductionMode() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.mustFind(name)
	if st == nil {
		return
	}

	expected := st.lastFinishedIndex + 1
	if expected >= len(st.steps) || st.steps[expected] != step {
		expectedName := "none"
		if expected < len(st.steps) {
			expectedName = st.steps[expected].String()
		}

		contract.Fatalf(context.Background(), "checklist",
			"checklist %q: expected step %q but got %q", name, expectedName, step)

		return
	}

	st.lastFinishedIndex++

	r.logger.Log(context.Background(), log.LevelInfo, "checklist step completed",
		log.String("checklist", name.String()),
		log.String("step", step.String()),
		log.Int("completed", st.lastFinishedIndex+1),
		log.Int("total", len(st.steps)),
	)

	r.recordStepMetric(name, step)

	if st.lastFinishedIndex == len(st.steps)-1 {
		r.setDoneLocked(name)
	}
}

// Reset clears a single checklist's progress. Useful when a new session
// starts and the chain must run again.
func (r *Registry) Reset(name ref.Name) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.mustFind(name)
	if st == nil {
		return
	}

	st.lastFinishedIndex = indexNotStarted
	st.done = false
}

// ResetAll clears progress on every registered checklist.
func (r *Registry) ResetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, st := range r.checklists {
		st.lastFinishedIndex = indexNotStarted
		st.done = false
	}
}

// mustFind returns the state for name, halting if it was never registered.
// Callers hold r.mu and must treat a nil return as "halt was intercepted"
// and bail out without touching the registry.
func (r *Registry) mustFind(name ref.Name) *state {
	st, ok := r.checklists[name]
	if !ok {
		contract.Fatalf(context.Background(), "checklist", "checklist %q not registered", name)

		return nil
	}

	return st
}

func (r *Registry) recordStepMetric(name, step ref.Name) {
	if r.metrics == nil {
		return
	}

	counter, err := r.metrics.Counter(metrics.MetricChecklistStep)
	if err != nil {
		return
	}

	_ = counter.
		WithLabels(map[string]string{
			"checklist": name.String(),
			"step":      step.String(),
		}).
		AddOne(context.Background())
}
