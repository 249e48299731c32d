package checklist

import (
	"context"

	"github.com/LerianStudio/lib-lifeguard/lifeguard/contract"
	"github.com/LerianStudio/lib-lifeguard/lifeguard/ref"
	"github.com/LerianStudio/lib-lifeguard/lifeguard/runtime"
)

// Scope verifies that step can begin now and returns a closer that records
// its completion. Defer the closer so the step is checked at scope exit:
//
//	defer registry.Scope(loadWorld, loadWorldJSON)()
//
// Beginning a step out of order halts immediately.
func (r *Registry) Scope(name, step ref.Name) func() {
	if runtime.IsProductionMode() {
		return func() {}
	}

	if !r.CanBeginStep(name, step) {
		contract.Fatalf(context.Background(), "checklist",
			"checklist %q: cannot begin step %q - checklist is at step [%s]",
			name, step, r.LastCompletedStep(name))

		return func() {}
	}

	return func() {
		r.CheckStep(name, step)
	}
}

// EnsureDone halts unless the named checklist has fully completed.
func (r *Registry) EnsureDone(name ref.Name) {
	if runtime.IsProductionMode() {
		return
	}

	if !r.IsDone(name) {
		contract.Fatalf(context.Background(), "checklist",
			"checklist %q not done (current: %s)", name, r.LastCompletedStep(name))
	}
}
