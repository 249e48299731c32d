//go:build unit

package checklist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LerianStudio/lib-lifeguard/lifeguard/log"
	"github.com/LerianStudio/lib-lifeguard/lifeguard/ref"
	"github.com/LerianStudio/lib-lifeguard/lifeguard/runtime"
)

const (
	bootChecklist = ref.Name("boot")

	stepLoadConfig = ref.Name("load_config")
	stepOpenStore  = ref.Name("open_store")
	stepServe      = ref.Name("serve")
)

func newBootRegistry(t *testing.T) *Registry {
	t.Helper()

	r := NewRegistry(log.NewNop())
	r.Register(bootChecklist, stepLoadConfig, stepOpenStore, stepServe)

	return r
}

func TestRegister(t *testing.T) {
	t.Parallel()

	r := newBootRegistry(t)

	require.False(t, r.IsDone(bootChecklist))
	require.Equal(t, "not started", r.LastCompletedStep(bootChecklist))
	require.True(t, r.CanBeginStep(bootChecklist, stepLoadConfig))
	require.False(t, r.CanBeginStep(bootChecklist, stepServe))
}

func TestRegister_Idempotent(t *testing.T) {
	t.Parallel()

	r := newBootRegistry(t)
	r.CheckStep(bootChecklist, stepLoadConfig)

	// Re-registering an existing checklist keeps its progress.
	r.Register(bootChecklist, stepLoadConfig, stepOpenStore, stepServe)
	require.Equal(t, stepLoadConfig.String(), r.LastCompletedStep(bootChecklist))
}

func TestCheckStep_InOrder(t *testing.T) {
	t.Parallel()

	r := newBootRegistry(t)

	r.CheckStep(bootChecklist, stepLoadConfig)
	require.True(t, r.IsStepDone(bootChecklist, stepLoadConfig))
	require.False(t, r.IsStepDone(bootChecklist, stepOpenStore))
	require.Equal(t, stepLoadConfig.String(), r.LastCompletedStep(bootChecklist))
	require.True(t, r.CanBeginStep(bootChecklist, stepOpenStore))

	r.CheckStep(bootChecklist, stepOpenStore)
	r.CheckStep(bootChecklist, stepServe)

	// Completing the final step marks the checklist done.
	require.True(t, r.IsDone(bootChecklist))
	require.Equal(t, "completed", r.LastCompletedStep(bootChecklist))
	require.True(t, r.IsStepDone(bootChecklist, stepServe))
	require.False(t, r.CanBeginStep(bootChecklist, stepLoadConfig))
}

func TestIsStepDone_UnknownStep(t *testing.T) {
	t.Parallel()

	r := newBootRegistry(t)
	r.CheckStep(bootChecklist, stepLoadConfig)

	require.False(t, r.IsStepDone(bootChecklist, ref.Name("no_such_step")))
}

func TestReset(t *testing.T) {
	t.Parallel()

	r := newBootRegistry(t)
	r.CheckStep(bootChecklist, stepLoadConfig)
	r.CheckStep(bootChecklist, stepOpenStore)

	r.Reset(bootChecklist)

	require.False(t, r.IsDone(bootChecklist))
	require.Equal(t, "not started", r.LastCompletedStep(bootChecklist))
	require.True(t, r.CanBeginStep(bootChecklist, stepLoadConfig))
}

func TestResetAll(t *testing.T) {
	t.Parallel()

	r := NewRegistry(log.NewNop())
	r.Register(ref.Name("first"), stepLoadConfig)
	r.Register(ref.Name("second"), stepOpenStore)

	r.CheckStep(ref.Name("first"), stepLoadConfig)
	r.CheckStep(ref.Name("second"), stepOpenStore)

	r.ResetAll()

	require.False(t, r.IsDone(ref.Name("first")))
	require.False(t, r.IsDone(ref.Name("second")))
}

func TestSetDone(t *testing.T) {
	t.Parallel()

	r := newBootRegistry(t)
	r.SetDone(bootChecklist)

	require.True(t, r.IsDone(bootChecklist))
	require.Equal(t, "completed", r.LastCompletedStep(bootChecklist))

	// Done short-circuits per-step queries.
	require.True(t, r.IsStepDone(bootChecklist, stepServe))
}

func TestScope(t *testing.T) {
	t.Parallel()

	r := newBootRegistry(t)

	func() {
		defer r.Scope(bootChecklist, stepLoadConfig)()
		require.False(t, r.IsStepDone(bootChecklist, stepLoadConfig))
	}()

	require.True(t, r.IsStepDone(bootChecklist, stepLoadConfig))
}

func TestEnsureDone_Completed(t *testing.T) {
	t.Parallel()

	r := newBootRegistry(t)
	r.CheckStep(bootChecklist, stepLoadConfig)
	r.CheckStep(bootChecklist, stepOpenStore)
	r.CheckStep(bootChecklist, stepServe)

	// Must not halt once the chain has finished.
	r.EnsureDone(bootChecklist)
}

func TestDefault_SingleInstance(t *testing.T) {
	t.Parallel()

	require.Same(t, Default(), Default())
}

func TestUnregisteredChecklistHaltsAndStaysSafe(t *testing.T) {
	halts := 0
	runtime.SetExitHandler(func(int) { halts++ })
	defer runtime.SetExitHandler(nil)

	r := NewRegistry(log.NewNop())
	ghost := ref.Name("ghost")

	// Every accessor halts on an unregistered name; with the exit
	// intercepted they must bail out instead of dereferencing nil state.
	require.False(t, r.CanBeginStep(ghost, stepServe))
	require.False(t, r.IsStepDone(ghost, stepServe))
	require.False(t, r.IsDone(ghost))
	require.Equal(t, "not registered", r.LastCompletedStep(ghost))
	r.SetDone(ghost)
	r.Reset(ghost)
	r.CheckStep(ghost, stepServe)

	require.Equal(t, 7, halts)
}

func TestCheckStep_OutOfOrderHalts(t *testing.T) {
	halts := 0
	runtime.SetExitHandler(func(int) { halts++ })
	defer runtime.SetExitHandler(nil)

	r := newBootRegistry(t)

	r.CheckStep(bootChecklist, stepOpenStore)
	require.Equal(t, 1, halts)

	// The skipped step is not recorded.
	require.Equal(t, "not started", r.LastCompletedStep(bootChecklist))
}

func TestRegister_DuplicateStepHalts(t *testing.T) {
	halts := 0
	runtime.SetExitHandler(func(int) { halts++ })
	defer runtime.SetExitHandler(nil)

	r := NewRegistry(log.NewNop())
	r.Register(ref.Name("dup"), stepLoadConfig, stepLoadConfig)

	require.Equal(t, 1, halts)
}

func TestEnsureDone_IncompleteHalts(t *testing.T) {
	halts := 0
	runtime.SetExitHandler(func(int) { halts++ })
	defer runtime.SetExitHandler(nil)

	r := newBootRegistry(t)
	r.CheckStep(bootChecklist, stepLoadConfig)

	r.EnsureDone(bootChecklist)
	require.Equal(t, 1, halts)
}
