// Package ref provides the reference-handle and container types recognized by
// the contract engine's type classifier.
//
// Plain Go pointers and interfaces cover direct references; the types in this
// package cover the indirect flavors: weak references that may have been
// collected, soft references addressed by a locator path and resolved lazily,
// class references holding a runtime type, and optional values that may be
// unset. All handle types satisfy the Handle interface so the engine can
// validate them uniformly.
package ref
