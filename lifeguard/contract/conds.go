package contract

import "context"

// Precond halts the process when a precondition does not hold at the start
// of a scope. No-op when checking is disabled.
func Precond(cond bool, msg string) {
	checkCond(cond, "Precondition", msg)
}

// Postcond halts the process when a postcondition does not hold at the end
// of a scope. Pair with defer to check at scope exit:
//
//	defer func() { contract.Postcond(len(queue) == 0, "queue drained") }()
func Postcond(cond bool, msg string) {
	checkCond(cond, "Postcondition", msg)
}

// Invariant halts the process when a standing condition does not hold.
func Invariant(cond bool, msg string) {
	checkCond(cond, "Invariant", msg)
}

// Archcond halts the process when an architectural assumption does not hold:
// something promised by a third party that we have no control over but rely
// on.
func Archcond(cond bool, msg string) {
	checkCond(cond, "Architecture", msg)
}

// Checkf halts the process with a formatted diagnostic when cond is false.
func Checkf(cond bool, format string, args ...any) {
	if !checkingEnabled() || cond {
		return
	}

	Fatalf(context.Background(), "contract", format, args...)
}

// PrecondDeep requires obj to be non-nil and then runs a full invariant
// check on it.
func PrecondDeep(obj any) {
	if !checkingEnabled() {
		return
	}

	Precond(!isNilObject(obj), "object must not be nil")
	CheckInvariants(obj)
}

func checkCond(cond bool, kind, msg string) {
	if !checkingEnabled() || cond {
		return
	}

	Fatalf(context.Background(), "contract", "%s violation: %s", kind, msg)
}
