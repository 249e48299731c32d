package ref

import "reflect"

// Optional holds a value of type T that may be unset. The zero value is unset.
type Optional[T any] struct {
	value T
	set   bool
}

// Some creates a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None creates an unset Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() bool { return o.set }

// Get returns the held value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// OrElse returns the held value, or fallback when unset.
func (o Optional[T]) OrElse(fallback T) T {
	if o.set {
		return o.value
	}

	return fallback
}

// ElemType returns the runtime type of the contained value.
func (o Optional[T]) ElemType() reflect.Type { return reflect.TypeFor[T]() }

// AnyValue returns the held value boxed as any, regardless of set state.
func (o Optional[T]) AnyValue() any { return o.value }

// AnyOptional is the type-erased view of Optional used by the contract
// engine's reflective traversal.
type AnyOptional interface {
	IsSet() bool
	ElemType() reflect.Type
	AnyValue() any
}

var _ AnyOptional = Optional[int]{}
