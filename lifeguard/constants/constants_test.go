//go:build unit

package constant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeMetricLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", SanitizeMetricLabel("short"))

	long := strings.Repeat("x", MaxMetricLabelLength+10)
	sanitized := SanitizeMetricLabel(long)
	assert.Len(t, sanitized, MaxMetricLabelLength)
}
