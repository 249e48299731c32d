package ref

import (
	"reflect"
	"weak"
)

// Kind discriminates the handle flavors for type classification.
type Kind uint8

const (
	// KindWeak marks a weak reference that must resolve to be valid.
	KindWeak Kind = iota
	// KindSoft marks a path-addressed soft reference.
	KindSoft
	// KindSoftClass marks a path-addressed soft class reference.
	KindSoftClass
	// KindClass marks a runtime type reference.
	KindClass
)

// Handle is implemented by every indirect reference type in this package.
// IsValid reports whether the handle currently refers to something: a weak
// reference must resolve, a soft reference must carry a non-empty locator,
// and a class reference must hold a type.
type Handle interface {
	RefKind() Kind
	IsValid() bool
}

// Weak is a non-owning reference to a value of type T. It does not keep the
// referent alive; once the referent is collected the handle no longer
// resolves. The zero value is an unset reference.
type Weak[T any] struct {
	ptr weak.Pointer[T]
}

// NewWeak creates a weak reference to v. A nil v yields an unset reference.
func NewWeak[T any](v *T) Weak[T] {
	if v == nil {
		return Weak[T]{}
	}

	return Weak[T]{ptr: weak.Make(v)}
}

// Get returns the referent, or nil if the reference is unset or the referent
// has been collected.
func (w Weak[T]) Get() *T {
	return w.ptr.Value()
}

// RefKind implements Handle.
func (w Weak[T]) RefKind() Kind { return KindWeak }

// IsValid reports whether the reference still resolves.
func (w Weak[T]) IsValid() bool { return w.Get() != nil }

// Soft is a reference addressed by a locator path and resolved on demand.
// A soft reference with an empty path is null. Binding a resolved value is
// optional; validity depends only on the path.
type Soft[T any] struct {
	Path string

	resolved *T
}

// NewSoft creates a soft reference with the given locator path.
func NewSoft[T any](path string) Soft[T] {
	return Soft[T]{Path: path}
}

// Bind records the resolved referent for later Get calls.
func (s *Soft[T]) Bind(v *T) {
	s.resolved = v
}

// Get returns the bound referent, or nil if the reference was never resolved.
func (s Soft[T]) Get() *T {
	return s.resolved
}

// IsNull reports whether the reference has no locator path.
func (s Soft[T]) IsNull() bool { return s.Path == "" }

// RefKind implements Handle.
func (s Soft[T]) RefKind() Kind { return KindSoft }

// IsValid reports whether the reference carries a locator path.
func (s Soft[T]) IsValid() bool { return !s.IsNull() }

// SoftClass is a soft reference to a type rather than an instance.
type SoftClass struct {
	Path string
}

// NewSoftClass creates a soft class reference with the given locator path.
func NewSoftClass(path string) SoftClass {
	return SoftClass{Path: path}
}

// IsNull reports whether the reference has no locator path.
func (s SoftClass) IsNull() bool { return s.Path == "" }

// RefKind implements Handle.
func (s SoftClass) RefKind() Kind { return KindSoftClass }

// IsValid reports whether the reference carries a locator path.
func (s SoftClass) IsValid() bool { return !s.IsNull() }

// Class holds a runtime type that must be assignable to T. The zero value
// holds no type.
type Class[T any] struct {
	t reflect.Type
}

// NewClass creates a class reference holding the given runtime type.
func NewClass[T any](t reflect.Type) Class[T] {
	return Class[T]{t: t}
}

// ClassOf creates a class reference to the concrete type C.
func ClassOf[T, C any]() Class[T] {
	return Class[T]{t: reflect.TypeFor[C]()}
}

// Type returns the held runtime type, or nil if unset.
func (c Class[T]) Type() reflect.Type { return c.t }

// RefKind implements Handle.
func (c Class[T]) RefKind() Kind { return KindClass }

// IsValid reports whether a type is held.
func (c Class[T]) IsValid() bool { return c.t != nil }
