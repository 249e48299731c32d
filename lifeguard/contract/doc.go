// Package contract implements runtime contract validation for live objects.
//
// Struct fields declare semantic invariants through the `invariant` tag and
// zero-argument boolean methods named Invariant* declare class-level checks.
// CheckInvariants inspects the object through reflection, parses each
// declared rule, evaluates it against the field's current value, and halts
// the process on the first violation. Two failure categories exist and both
// are fatal: a ConfigurationError is a malformed or type-mismatched rule
// declaration, an InvariantViolation is a live value failing a well-formed
// rule.
//
// Supported rules:
//
//	invariant:"MemSafe"          pointers, interfaces, and ref handles must be valid
//	invariant:"MemSafeContainer" pointer elements inside slices, sets, maps, optionals must be valid
//	invariant:"ID"               integer must not be the IndexNone sentinel
//	invariant:"Gte0" "Gt0" "Lte0" "Lt0"  numeric sign comparisons
//	invariant:"Range[a,b]"       numeric range; () and [] select exclusive/inclusive per side
//	invariant:"name"             ref.Name must not be empty
//	invariant:"True" "False"     boolean equality
//	invariant:"Contract*"        pointer must be valid and recursively pass its own contract
//	invariant:"MethodName"       any other text names a zero-arg bool method on the class
//
// Fields declared in embedded structs participate in the embedding type's
// contract; a failure on an inherited field names the embedded type in the
// diagnostic.
//
// All checking is disabled in production mode (runtime.SetProductionMode) so
// call sites carry no cost outside development builds.
//
// Contract* recursion has no cycle detection by design: a contract graph with
// a reference cycle can never be satisfied, and the engine only guards the
// stack with a loud depth limit rather than silently recovering.
package contract
