//go:build unit

package contract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRule_SimpleKeywords(t *testing.T) {
	t.Parallel()

	cases := map[string]ruleKind{
		"MemSafe":          ruleMemSafe,
		"MemSafeContainer": ruleMemSafeContainer,
		"ID":               ruleID,
		"Gte0":             ruleGte0,
		"Gt0":              ruleGt0,
		"Lte0":             ruleLte0,
		"Lt0":              ruleLt0,
		"name":             ruleName,
		"True":             ruleTrue,
		"False":            ruleFalse,
		"Contract*":        ruleContract,
	}

	for text, want := range cases {
		r, err := parseRule(text)
		require.NoError(t, err, text)
		require.Equal(t, want, r.kind, text)
		require.Equal(t, text, r.raw)
	}
}

func TestParseRule_CustomPredicate(t *testing.T) {
	t.Parallel()

	r, err := parseRule("IsBalanced")
	require.NoError(t, err)
	require.Equal(t, rulePredicate, r.kind)
	require.Equal(t, "IsBalanced", r.predicate)
}

func TestParseRule_Empty(t *testing.T) {
	t.Parallel()

	_, err := parseRule("")
	require.Error(t, err)
}

func TestParseRule_RangeBrackets(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text           string
		lowerInclusive bool
		upperInclusive bool
	}{
		{"Range[1,100]", true, true},
		{"Range(1,100)", false, false},
		{"Range(1,100]", false, true},
		{"Range[1,100)", true, false},
	}

	for _, tc := range cases {
		r, err := parseRule(tc.text)
		require.NoError(t, err, tc.text)
		require.Equal(t, ruleRange, r.kind)
		require.Equal(t, tc.lowerInclusive, r.lowerInclusive, tc.text)
		require.Equal(t, tc.upperInclusive, r.upperInclusive, tc.text)
		require.Equal(t, "1", r.lowerText)
		require.Equal(t, "100", r.upperText)
		require.False(t, r.floatBounds)
	}
}

func TestParseRule_RangeBoundSanitization(t *testing.T) {
	t.Parallel()

	r, err := parseRule("Range[ 1_000 , 2_500 ]")
	require.NoError(t, err)
	require.Equal(t, "1000", r.lowerText)
	require.Equal(t, "2500", r.upperText)
	require.False(t, r.floatBounds)
}

func TestParseRule_RangeFloatMarkers(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"Range[0.5,1]", "Range[1,1e3]", "Range[1,2E2]"} {
		r, err := parseRule(text)
		require.NoError(t, err, text)
		require.True(t, r.floatBounds, text)
	}
}

func TestParseRule_RangeNegativeAndSignedBounds(t *testing.T) {
	t.Parallel()

	r, err := parseRule("Range[-10,+10]")
	require.NoError(t, err)
	require.Equal(t, "-10", r.lowerText)
	require.Equal(t, "+10", r.upperText)
}

func TestParseRule_RangeMalformed(t *testing.T) {
	t.Parallel()

	malformed := []string{
		"Range",
		"Range1,2]",
		"Range[1,2",
		"Range[1]",
		"Range[1,2,3]",
		"Range[,2]",
		"Range[a,b]",
	}

	for _, text := range malformed {
		_, err := parseRule(text)
		require.Error(t, err, text)
	}
}
