package contract

import (
	"context"
	"reflect"
)

// maxContractDepth bounds Contract* recursion. A contract graph deeper than
// this almost certainly contains a reference cycle, which can never be
// satisfied; the guard turns a stack overflow into a loud configuration
// error without ever converting a failing graph into a passing one.
const maxContractDepth = 100

// CheckInvariants validates every tagged field and Invariant* method of obj,
// halting the process with a diagnostic on the first failure. It requires a
// non-nil object (itself a fatal precondition). obj should be a struct or a
// pointer to one.
//
// Fields are checked in declaration order, then methods in Go's sorted
// method order; the first failure wins and no further members are evaluated
// (fail-fast, not fail-collect).
//
// The call is a no-op in production mode or when checking is disabled.
func CheckInvariants(obj any) {
	CheckInvariantsContext(context.Background(), obj)
}

// CheckInvariantsContext is CheckInvariants with a caller-supplied context.
// When ctx carries an active span, a fatal halt is recorded on that span
// before the process stops, so the failure shows up on the caller's trace.
func CheckInvariantsContext(ctx context.Context, obj any) {
	if !checkingEnabled() {
		return
	}

	if isNilObject(obj) {
		haltWithContext(ctx, &Error{
			Category: ConfigurationError,
			Class:    "unknown",
			Member:   "CheckInvariants",
			Rule:     "Precondition",
			Detail:   "object must not be nil",
		})

		return
	}

	if err := checkObject(obj, 0); err != nil {
		haltWithContext(ctx, err)
	}
}

// checker carries the per-object evaluation context: the addressable object
// value for method resolution, its struct view for field access, and the
// recursion depth.
type checker struct {
	objValue  reflect.Value
	structVal reflect.Value
	class     string
	depth     int
}

// checkObject derives the class descriptor of obj fresh from its runtime
// type and walks every tagged member. Nothing is cached between calls.
func checkObject(obj any, depth int) *Error {
	if depth > maxContractDepth {
		return &Error{
			Category: ConfigurationError,
			Class:    reflect.TypeOf(obj).String(),
			Member:   "Contract*",
			Rule:     "Contract*",
			Detail:   "contract recursion exceeded depth limit; the contract graph likely contains a reference cycle",
		}
	}

	c, err := newChecker(obj, depth)
	if err != nil {
		return err
	}

	for _, tf := range fieldsWithInvariantTag(c.structVal.Type()) {
		r, parseErr := parseRule(tf.ruleText)
		if parseErr != nil {
			return configError(c.class, tf.field.Name, tf.ruleText, "%v", parseErr)
		}

		if evalErr := c.evaluateField(tf, r); evalErr != nil {
			return evalErr
		}
	}

	for _, method := range invariantMethods(c.objValue.Type()) {
		if methodErr := c.evaluateMethod(method); methodErr != nil {
			return methodErr
		}
	}

	return nil
}

// newChecker normalizes obj to an addressable pointer-to-struct so both
// value- and pointer-receiver methods resolve.
func newChecker(obj any, depth int) (*checker, *Error) {
	v := reflect.ValueOf(obj)

	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, &Error{
				Category: ConfigurationError,
				Class:    v.Type().Elem().String(),
				Member:   "CheckInvariants",
				Rule:     "Precondition",
				Detail:   "object must not be nil",
			}
		}

		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil, &Error{
			Category: ConfigurationError,
			Class:    v.Type().String(),
			Member:   "CheckInvariants",
			Rule:     "Precondition",
			Detail:   "object must be a struct or a pointer to one",
		}
	}

	// Re-root on an addressable copy when the caller passed a plain value.
	if !v.CanAddr() {
		addr := reflect.New(v.Type())
		addr.Elem().Set(v)
		v = addr.Elem()
	}

	return &checker{
		objValue:  v.Addr(),
		structVal: v,
		class:     v.Type().Name(),
		depth:     depth,
	}, nil
}

// evaluateMethod verifies an Invariant* method's signature and invokes it; a
// false return is a violation attributed to the method.
func (c *checker) evaluateMethod(method reflect.Method) *Error {
	bound := c.objValue.Method(method.Index)

	if !isZeroArgBool(bound) {
		return configError(c.class, method.Name, method.Name, "invariant method must take no parameters and return a bool")
	}

	if !bound.Call(nil)[0].Bool() {
		return violationDetail(c.class, method.Name, method.Name, "invariant method returned false")
	}

	return nil
}

// isNilObject reports whether obj is nil or a typed nil.
func isNilObject(obj any) bool {
	if obj == nil {
		return true
	}

	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}
