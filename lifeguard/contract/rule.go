package contract

import (
	"fmt"
	"strings"
	"unicode"
)

// ruleKind enumerates the parsed invariant rule variants.
type ruleKind uint8

const (
	ruleMemSafe ruleKind = iota
	ruleMemSafeContainer
	ruleID
	ruleGte0
	ruleGt0
	ruleLte0
	ruleLt0
	ruleRange
	ruleName
	ruleTrue
	ruleFalse
	ruleContract
	rulePredicate
)

// rule is the structured form of an invariant tag value. Range bounds stay as
// sanitized text; the evaluator parses them in the field's numeric domain.
type rule struct {
	kind ruleKind
	raw  string

	lowerText      string
	upperText      string
	lowerInclusive bool
	upperInclusive bool
	floatBounds    bool

	predicate string
}

const rangeKeyword = "Range"

var simpleRules = map[string]ruleKind{
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

// parseRule turns an invariant tag value into a structured rule. Keywords map
// to the simple variants, Range expressions are decomposed, and any other
// text is kept as a custom predicate method name resolved at evaluation time
// (resolution needs the owning class).
func parseRule(text string) (rule, error) {
	if kind, ok := simpleRules[text]; ok {
		return rule{kind: kind, raw: text}, nil
	}

	if strings.HasPrefix(text, rangeKeyword) {
		return parseRangeRule(text)
	}

	if text == "" {
		return rule{}, fmt.Errorf("empty invariant rule")
	}

	return rule{kind: rulePredicate, raw: text, predicate: text}, nil
}

// parseRangeRule decomposes "Range[a,b]" style text. Bracket kind on each
// side independently selects inclusive ([ ]) vs exclusive (( )) bounds.
func parseRangeRule(text string) (rule, error) {
	spec := text[len(rangeKeyword):]
	if len(spec) < 2 {
		return rule{}, fmt.Errorf("malformed range invariant %q", text)
	}

	lowerBracket := spec[0]
	upperBracket := spec[len(spec)-1]

	if lowerBracket != '(' && lowerBracket != '[' {
		return rule{}, fmt.Errorf("range invariant %q must open with '(' or '['", text)
	}

	if upperBracket != ')' && upperBracket != ']' {
		return rule{}, fmt.Errorf("range invariant %q must close with ')' or ']'", text)
	}

	inner := spec[1 : len(spec)-1]

	parts := strings.Split(inner, ",")
	if len(parts) != 2 {
		return rule{}, fmt.Errorf("range invariant %q must contain two comma-separated bounds", text)
	}

	lowerText := sanitizeNumberString(parts[0])
	upperText := sanitizeNumberString(parts[1])

	if lowerText == "" || upperText == "" {
		return rule{}, fmt.Errorf("range invariant %q has an empty bound", text)
	}

	return rule{
		kind:           ruleRange,
		raw:            text,
		lowerText:      lowerText,
		upperText:      upperText,
		lowerInclusive: lowerBracket == '[',
		upperInclusive: upperBracket == ']',
		floatBounds:    hasFloatMarker(lowerText) || hasFloatMarker(upperText),
	}, nil
}

// sanitizeNumberString strips whitespace and thousands separators from a
// bound token, keeping digits, sign, decimal point, and exponent markers.
// Anything else is dropped silently.
func sanitizeNumberString(in string) string {
	var out strings.Builder
	out.Grow(len(in))

	for _, c := range in {
		if unicode.IsSpace(c) {
			continue
		}

		if c == ',' || c == '_' {
			continue
		}

		if unicode.IsDigit(c) || c == '.' || c == '+' || c == '-' || c == 'e' || c == 'E' {
			out.WriteRune(c)
		}
	}

	return out.String()
}

// hasFloatMarker reports whether a sanitized bound uses floating-point syntax.
func hasFloatMarker(bound string) bool {
	return strings.ContainsAny(bound, ".eE")
}
