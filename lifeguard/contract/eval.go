package contract

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	constant "github.com/LerianStudio/lib-lifeguard/lifeguard/constants"
	"github.com/LerianStudio/lib-lifeguard/lifeguard/ref"
)

// evaluateField dispatches a parsed rule against a field's classified type
// and current value. Returns nil when the invariant holds. Fields inherited
// through an embedded struct report the embedded type as the owning class.
func (c *checker) evaluateField(tf taggedField, r rule) *Error {
	if tf.owner != "" && tf.owner != c.class {
		scoped := *c
		scoped.class = tf.owner
		c = &scoped
	}

	member := tf.field.Name
	tag := classify(tf.field.Type)

	if tf.field.PkgPath != "" {
		return configError(c.class, member, r.raw, "invariant tag on unexported field")
	}

	value := c.structVal.FieldByIndex(tf.field.Index)

	switch r.kind {
	case ruleMemSafe:
		return c.evalMemSafe(value, tag, r, member)
	case ruleMemSafeContainer:
		return c.evalMemSafeContainer(value, tag, r, member)
	case ruleID:
		return c.evalID(value, tag, r, member)
	case ruleGte0, ruleGt0, ruleLte0, ruleLt0:
		return c.evalSignCompare(value, tag, r, member)
	case ruleRange:
		return c.evalRange(value, tag, r, member)
	case ruleName:
		return c.evalName(value, tag, r, member)
	case ruleTrue, ruleFalse:
		return c.evalBoolean(value, tag, r, member)
	case ruleContract:
		return c.evalContract(value, tag, r, member)
	case rulePredicate:
		return c.evalPredicate(r, member)
	default:
		return configError(c.class, member, r.raw, "unhandled rule kind")
	}
}

func (c *checker) evalMemSafe(value reflect.Value, tag TypeTag, r rule, member string) *Error {
	if !isPointerLike(tag) {
		return configError(c.class, member, r.raw, "MemSafe used on non-pointer field of type %s", tag)
	}

	if !pointerValueValid(value, tag) {
		return violation(c.class, member, r.raw)
	}

	return nil
}

// pointerValueValid checks a single pointer-like value: plain pointers must
// be non-nil, interfaces must hold a non-nil implementing value, and ref
// handles decide through Handle.IsValid.
func pointerValueValid(value reflect.Value, tag TypeTag) bool {
	switch tag {
	case TagPointer:
		return !value.IsNil()
	case TagInterfacePointer:
		return !interfaceValueNil(value)
	case TagWeakPointer, TagSoftPointer, TagSoftClassPointer, TagClassPointer:
		handle, ok := value.Interface().(ref.Handle)

		return ok && handle.IsValid()
	default:
		return true
	}
}

// interfaceValueNil reports whether an interface value is nil or holds a
// typed nil (a nil concrete pointer behind a non-nil interface header).
func interfaceValueNil(value reflect.Value) bool {
	if value.IsNil() {
		return true
	}

	inner := value.Elem()
	switch inner.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return inner.IsNil()
	default:
		return false
	}
}

const containerViolationDetail = "container has null/invalid pointer element"

func (c *checker) evalMemSafeContainer(value reflect.Value, tag TypeTag, r rule, member string) *Error {
	if !isContainer(tag) {
		return configError(c.class, member, r.raw, "MemSafeContainer used on non-container field of type %s", tag)
	}

	switch tag {
	case TagSequence:
		elemTag := classify(value.Type().Elem())
		if !isPointerLike(elemTag) {
			return nil
		}

		for i := range value.Len() {
			if !pointerValueValid(value.Index(i), elemTag) {
				return violationDetail(c.class, member, r.raw, containerViolationDetail)
			}
		}

		return nil

	case TagSet:
		keyTag := classify(value.Type().Key())
		if !isPointerLike(keyTag) {
			return nil
		}

		iter := value.MapRange()
		for iter.Next() {
			if !pointerValueValid(iter.Key(), keyTag) {
				return violationDetail(c.class, member, r.raw, containerViolationDetail)
			}
		}

		return nil

	case TagMapping:
		keyTag := classify(value.Type().Key())
		valueTag := classify(value.Type().Elem())

		keyIsPointer := isPointerLike(keyTag)
		valueIsPointer := isPointerLike(valueTag)

		if !keyIsPointer && !valueIsPointer {
			return nil
		}

		iter := value.MapRange()
		for iter.Next() {
			if keyIsPointer && !pointerValueValid(iter.Key(), keyTag) {
				return violationDetail(c.class, member, r.raw, containerViolationDetail)
			}

			if valueIsPointer && !pointerValueValid(iter.Value(), valueTag) {
				return violationDetail(c.class, member, r.raw, containerViolationDetail)
			}
		}

		return nil

	default: // TagOptional
		opt, ok := value.Interface().(ref.AnyOptional)
		if !ok {
			return configError(c.class, member, r.raw, "optional field does not expose its value")
		}

		// Unset optional is memory safe since it holds nothing.
		if !opt.IsSet() {
			return nil
		}

		elemTag := classify(opt.ElemType())
		if !isPointerLike(elemTag) {
			return nil
		}

		if !boxedPointerValid(opt.AnyValue(), elemTag) {
			return violationDetail(c.class, member, r.raw, containerViolationDetail)
		}

		return nil
	}
}

// boxedPointerValid validates a pointer-like value that was boxed through an
// any (losing interface wrappers along the way).
func boxedPointerValid(v any, tag TypeTag) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return false
	}

	switch tag {
	case TagWeakPointer, TagSoftPointer, TagSoftClassPointer, TagClassPointer:
		handle, ok := v.(ref.Handle)

		return ok && handle.IsValid()
	default:
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface:
			return !rv.IsNil()
		default:
			// A non-pointer concrete value satisfying an interface element.
			return true
		}
	}
}

func (c *checker) evalID(value reflect.Value, tag TypeTag, r rule, member string) *Error {
	switch {
	case isSignedInteger(tag):
		if value.Int() == int64(constant.IndexNone) {
			return violation(c.class, member, r.raw)
		}

		return nil
	case isUnsignedInteger(tag):
		// The no-id sentinel for unsigned fields is the all-ones value of the
		// field's width.
		sentinel := allOnes(integerBits(tag))
		if value.Uint() == sentinel {
			return violation(c.class, member, r.raw)
		}

		return nil
	default:
		return configError(c.class, member, r.raw, "ID used on non-integer field of type %s", tag)
	}
}

func allOnes(bits int) uint64 {
	if bits >= 64 {
		return math.MaxUint64
	}

	return (uint64(1) << bits) - 1
}

func (c *checker) evalSignCompare(value reflect.Value, tag TypeTag, r rule, member string) *Error {
	if !isNumeric(tag) {
		return configError(c.class, member, r.raw, "%s used on non-numeric field of type %s", r.raw, tag)
	}

	var ok bool

	switch {
	case isSignedInteger(tag):
		ok = signCompareInt(value.Int(), r.kind)
	case isUnsignedInteger(tag):
		ok = signCompareUint(value.Uint(), r.kind)
	default:
		ok = signCompareFloat(value.Float(), r.kind)
	}

	if !ok {
		return violation(c.class, member, r.raw)
	}

	return nil
}

func signCompareInt(v int64, kind ruleKind) bool {
	switch kind {
	case ruleGte0:
		return v >= 0
	case ruleGt0:
		return v > 0
	case ruleLte0:
		return v <= 0
	default:
		return v < 0
	}
}

func signCompareUint(v uint64, kind ruleKind) bool {
	switch kind {
	case ruleGte0:
		return true
	case ruleGt0:
		return v > 0
	case ruleLte0:
		return v == 0
	default:
		return false
	}
}

func signCompareFloat(v float64, kind ruleKind) bool {
	switch kind {
	case ruleGte0:
		return v >= 0
	case ruleGt0:
		return v > 0
	case ruleLte0:
		return v <= 0
	default:
		return v < 0
	}
}

func (c *checker) evalRange(value reflect.Value, tag TypeTag, r rule, member string) *Error {
	switch {
	case isInteger(tag):
		return c.evalRangeInteger(value, tag, r, member)
	case isFloat(tag):
		return c.evalRangeFloat(value, r, member)
	default:
		return configError(c.class, member, r.raw, "Range used on non-numeric field of type %s", tag)
	}
}

// evalRangeInteger compares in the integer domain. Floating-point bound
// syntax is rejected outright so an integer field never silently truncates
// its bounds.
func (c *checker) evalRangeInteger(value reflect.Value, tag TypeTag, r rule, member string) *Error {
	if r.floatBounds {
		return configError(c.class, member, r.raw, "range for integer field must use integer bounds")
	}

	bits := integerBits(tag)

	if isSignedInteger(tag) {
		lower, err := strconv.ParseInt(r.lowerText, 10, 64)
		if err != nil {
			return configError(c.class, member, r.raw, "invalid lower bound %q", r.lowerText)
		}

		upper, err := strconv.ParseInt(r.upperText, 10, 64)
		if err != nil {
			return configError(c.class, member, r.raw, "invalid upper bound %q", r.upperText)
		}

		if lower > upper {
			return configError(c.class, member, r.raw, "lower bound must be <= upper bound")
		}

		lower = narrowInt(lower, bits)
		upper = narrowInt(upper, bits)

		v := value.Int()

		lowerOk := v > lower || (r.lowerInclusive && v == lower)
		upperOk := v < upper || (r.upperInclusive && v == upper)

		if !lowerOk || !upperOk {
			return violation(c.class, member, r.raw)
		}

		return nil
	}

	// ParseUint rejects an explicit plus sign the sanitizer keeps.
	lower, err := strconv.ParseUint(strings.TrimPrefix(r.lowerText, "+"), 10, 64)
	if err != nil {
		return configError(c.class, member, r.raw, "invalid lower bound %q", r.lowerText)
	}

	upper, err := strconv.ParseUint(strings.TrimPrefix(r.upperText, "+"), 10, 64)
	if err != nil {
		return configError(c.class, member, r.raw, "invalid upper bound %q", r.upperText)
	}

	if lower > upper {
		return configError(c.class, member, r.raw, "lower bound must be <= upper bound")
	}

	lower &= allOnes(bits)
	upper &= allOnes(bits)

	v := value.Uint()

	lowerOk := v > lower || (r.lowerInclusive && v == lower)
	upperOk := v < upper || (r.upperInclusive && v == upper)

	if !lowerOk || !upperOk {
		return violation(c.class, member, r.raw)
	}

	return nil
}

// narrowInt truncates a 64-bit value to the field's width with sign
// extension, matching what assigning the bound to the field type would do.
func narrowInt(v int64, bits int) int64 {
	if bits >= 64 {
		return v
	}

	shift := 64 - bits

	return (v << shift) >> shift
}

// evalRangeFloat compares in the floating domain with an outward-widened
// tolerance so representation error never excludes a valid value:
// scale = max(1, |lower|, |upper|, |value|), eps = clamp(scale*1e-6, 1e-10, 1e-3),
// tested against lower-eps and upper+eps.
func (c *checker) evalRangeFloat(value reflect.Value, r rule, member string) *Error {
	lower, err := strconv.ParseFloat(r.lowerText, 64)
	if err != nil {
		return configError(c.class, member, r.raw, "invalid lower bound %q", r.lowerText)
	}

	upper, err := strconv.ParseFloat(r.upperText, 64)
	if err != nil {
		return configError(c.class, member, r.raw, "invalid upper bound %q", r.upperText)
	}

	if lower > upper {
		return configError(c.class, member, r.raw, "lower bound must be <= upper bound")
	}

	v := value.Float()

	scale := max(1, math.Abs(lower), math.Abs(upper), math.Abs(v))
	eps := min(max(scale*1e-6, 1e-10), 1e-3)

	lowerEdge := lower - eps
	upperEdge := upper + eps

	lowerOk := v > lowerEdge || (r.lowerInclusive && v >= lowerEdge)
	upperOk := v < upperEdge || (r.upperInclusive && v <= upperEdge)

	if !lowerOk || !upperOk {
		return violation(c.class, member, r.raw)
	}

	return nil
}

func (c *checker) evalName(value reflect.Value, tag TypeTag, r rule, member string) *Error {
	if tag != TagIdentifier {
		return configError(c.class, member, r.raw, "name used on non-identifier field of type %s", tag)
	}

	if value.String() == string(ref.NameNone) {
		return violation(c.class, member, r.raw)
	}

	return nil
}

func (c *checker) evalBoolean(value reflect.Value, tag TypeTag, r rule, member string) *Error {
	if tag != TagBoolean {
		return configError(c.class, member, r.raw, "%s used on non-boolean field of type %s", r.raw, tag)
	}

	expected := r.kind == ruleTrue
	if value.Bool() != expected {
		return violation(c.class, member, r.raw)
	}

	return nil
}

// evalContract validates a reference and then recursively validates the
// referenced object under its own contract. Flavors that cannot yield an
// instance (soft class and class references) only get the validity check.
func (c *checker) evalContract(value reflect.Value, tag TypeTag, r rule, member string) *Error {
	if !isPointerLike(tag) {
		return configError(c.class, member, r.raw, "Contract* used on non-pointer field of type %s", tag)
	}

	if !pointerValueValid(value, tag) {
		return violation(c.class, member, r.raw)
	}

	instance := contractInstance(value, tag)
	if instance == nil {
		return nil
	}

	// A member of the same class would make the invariant graph cyclic by
	// construction: the contract could never hold.
	if reflect.TypeOf(instance) == c.objValue.Type() {
		return configError(c.class, member, r.raw, "an object cannot contain a contract member of its own class")
	}

	return checkObject(instance, c.depth+1)
}

// contractInstance extracts the referenced object for recursion, when the
// flavor can produce one.
func contractInstance(value reflect.Value, tag TypeTag) any {
	switch tag {
	case TagPointer:
		return value.Interface()
	case TagInterfacePointer:
		return value.Elem().Interface()
	case TagWeakPointer, TagSoftPointer:
		// Weak and soft handles expose the resolved referent through Get.
		get := value.MethodByName("Get")
		if !get.IsValid() {
			return nil
		}

		results := get.Call(nil)
		if len(results) != 1 || results[0].Kind() != reflect.Pointer || results[0].IsNil() {
			return nil
		}

		return results[0].Interface()
	default:
		return nil
	}
}

func (c *checker) evalPredicate(r rule, member string) *Error {
	method := c.objValue.MethodByName(r.predicate)
	if !method.IsValid() {
		return configError(c.class, member, r.raw, "invariant method %q not found", r.predicate)
	}

	if !isZeroArgBool(method) {
		return configError(c.class, member, r.raw, "invariant method %q must take no parameters and return a bool", r.predicate)
	}

	if !method.Call(nil)[0].Bool() {
		return violationDetail(c.class, member, r.raw, "custom check failed")
	}

	return nil
}
