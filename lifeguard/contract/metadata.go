package contract

import (
	"reflect"
	"strings"
)

// invariantTagKey is the struct tag key carrying a field's invariant rule.
const invariantTagKey = "invariant"

// invariantMethodPrefix marks methods that participate in class validation.
// Go has no method metadata, so the tag is carried by naming convention:
// every method whose name begins with this prefix must be a zero-argument
// boolean predicate and is checked on every CheckInvariants call.
const invariantMethodPrefix = "Invariant"

// taggedField pairs a struct field with its declared rule text. A field
// reached through an embedded struct carries the embedded type's name as
// owner so diagnostics name the declaring type.
type taggedField struct {
	field    reflect.StructField
	ruleText string
	owner    string
}

// fieldsWithInvariantTag enumerates the fields of a struct type that carry
// the invariant tag, in declaration order. Untagged fields are invisible to
// the engine. Embedded structs are descended into so invariants declared on
// an embedded type participate in the embedding type's contract; embedded
// pointer fields are not descended into (tag the pointer itself with
// Contract* instead).
func fieldsWithInvariantTag(t reflect.Type) []taggedField {
	return appendTaggedFields(nil, t, nil, "")
}

func appendTaggedFields(tagged []taggedField, t reflect.Type, index []int, owner string) []taggedField {
	for i := range t.NumField() {
		field := t.Field(i)

		path := make([]int, 0, len(index)+1)
		path = append(path, index...)
		path = append(path, i)

		if ruleText, ok := field.Tag.Lookup(invariantTagKey); ok {
			field.Index = path
			tagged = append(tagged, taggedField{field: field, ruleText: ruleText, owner: owner})
		}

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			tagged = appendTaggedFields(tagged, field.Type, path, field.Type.Name())
		}
	}

	return tagged
}

// invariantMethods enumerates the Invariant*-prefixed methods of a type.
// Methods are returned in Go's deterministic (sorted) method order. The
// signature is not validated here; the orchestrator reports mis-signed
// methods as configuration errors.
func invariantMethods(t reflect.Type) []reflect.Method {
	var methods []reflect.Method

	for i := range t.NumMethod() {
		method := t.Method(i)
		if !strings.HasPrefix(method.Name, invariantMethodPrefix) {
			continue
		}

		methods = append(methods, method)
	}

	return methods
}

// isZeroArgBool reports whether a bound method value is callable with zero
// arguments and returns exactly one bool.
func isZeroArgBool(m reflect.Value) bool {
	if !m.IsValid() {
		return false
	}

	mt := m.Type()

	return mt.NumIn() == 0 && mt.NumOut() == 1 && mt.Out(0).Kind() == reflect.Bool
}
