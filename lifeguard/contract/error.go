package contract

import (
	"errors"
	"fmt"
)

// ErrContractViolated is the sentinel error for fatal contract failures.
var ErrContractViolated = errors.New("contract violated")

// Category separates the two disjoint failure classes. Both are fatal.
type Category uint8

const (
	// ConfigurationError means the declared rule is structurally invalid or
	// mismatched to its field's type. An authoring mistake, independent of
	// any particular value.
	ConfigurationError Category = iota
	// InvariantViolation means a well-formed, applicable rule failed against
	// the observed value. A data/state mistake.
	InvariantViolation
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case ConfigurationError:
		return "configuration_error"
	case InvariantViolation:
		return "invariant_violation"
	default:
		return "unknown"
	}
}

// Error describes a fatal contract failure: the owning class, the field or
// method that failed, and the rule that was violated or misconfigured.
type Error struct {
	Category Category
	Class    string
	Member   string
	Rule     string
	Detail   string
}

// Error formats the diagnostic. Violations render as
// "Invariant=<rule> violation on Class::Member"; configuration errors name
// the authoring mistake instead.
func (e *Error) Error() string {
	if e == nil {
		return ErrContractViolated.Error()
	}

	var msg string

	switch e.Category {
	case ConfigurationError:
		msg = fmt.Sprintf("Invariant=%s misconfigured on %s::%s", e.Rule, e.Class, e.Member)
	default:
		msg = fmt.Sprintf("Invariant=%s violation on %s::%s", e.Rule, e.Class, e.Member)
	}

	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}

	return msg
}

// Unwrap returns the sentinel contract error for errors.Is.
func (e *Error) Unwrap() error {
	return ErrContractViolated
}

func violation(class, member, rule string) *Error {
	return &Error{Category: InvariantViolation, Class: class, Member: member, Rule: rule}
}

func violationDetail(class, member, rule, detail string) *Error {
	return &Error{Category: InvariantViolation, Class: class, Member: member, Rule: rule, Detail: detail}
}

func configError(class, member, rule, format string, args ...any) *Error {
	return &Error{
		Category: ConfigurationError,
		Class:    class,
		Member:   member,
		Rule:     rule,
		Detail:   fmt.Sprintf(format, args...),
	}
}
