//go:build unit

package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProductionMode_ExplicitFlag(t *testing.T) {
	SetProductionMode(true)
	defer SetProductionMode(false)

	require.True(t, IsProductionMode())

	SetProductionMode(false)
	require.False(t, IsProductionMode())
}

func TestProductionMode_EnvFallback(t *testing.T) {
	t.Setenv("ENV", "production")
	require.True(t, IsProductionMode())

	t.Setenv("ENV", "development")
	require.False(t, IsProductionMode())

	t.Setenv("GO_ENV", "Production")
	require.True(t, IsProductionMode())
}

type capturingReporter struct {
	err  error
	tags map[string]string
}

func (r *capturingReporter) CaptureException(_ context.Context, err error, tags map[string]string) {
	r.err = err
	r.tags = tags
}

func TestReportFatal(t *testing.T) {
	reporter := &capturingReporter{}
	SetErrorReporter(reporter)
	defer SetErrorReporter(nil)

	boom := errors.New("boom")
	ReportFatal(context.Background(), boom, map[string]string{"component": "contract"})

	require.Same(t, boom, reporter.err)
	require.Equal(t, "contract", reporter.tags["component"])
}

func TestExitHandler(t *testing.T) {
	got := -1
	SetExitHandler(func(code int) { got = code })
	defer SetExitHandler(nil)

	Exit(1)
	require.Equal(t, 1, got)
}

func TestReportFatal_NoReporter(t *testing.T) {
	SetErrorReporter(nil)

	// Must not panic with no reporter configured.
	ReportFatal(context.Background(), errors.New("boom"), nil)
}
