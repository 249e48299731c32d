package contract

import (
	"reflect"

	"github.com/LerianStudio/lib-lifeguard/lifeguard/ref"
)

// TypeTag is the closed classification of a field's runtime type. Every rule
// is applicable to a subset of tags; mismatches are configuration errors.
type TypeTag uint8

const (
	// TagOther marks types the engine has no primitive check for.
	TagOther TypeTag = iota

	// TagPointer marks a plain Go pointer.
	TagPointer
	// TagWeakPointer marks a ref.Weak handle.
	TagWeakPointer
	// TagSoftPointer marks a ref.Soft handle.
	TagSoftPointer
	// TagSoftClassPointer marks a ref.SoftClass handle.
	TagSoftClassPointer
	// TagClassPointer marks a ref.Class handle.
	TagClassPointer
	// TagInterfacePointer marks an interface-typed field.
	TagInterfacePointer

	// TagSequence marks slices and arrays.
	TagSequence
	// TagSet marks map[K]struct{} set renderings.
	TagSet
	// TagMapping marks all other maps.
	TagMapping
	// TagOptional marks ref.Optional values.
	TagOptional

	TagInt8
	TagInt16
	TagInt32
	TagInt64
	TagUint8
	TagUint16
	TagUint32
	TagUint64
	TagFloat32
	TagFloat64

	// TagIdentifier marks ref.Name fields.
	TagIdentifier
	// TagBoolean marks bool fields.
	TagBoolean
)

// String returns a short name for diagnostics.
func (t TypeTag) String() string {
	switch t {
	case TagPointer:
		return "pointer"
	case TagWeakPointer:
		return "weak pointer"
	case TagSoftPointer:
		return "soft pointer"
	case TagSoftClassPointer:
		return "soft class pointer"
	case TagClassPointer:
		return "class pointer"
	case TagInterfacePointer:
		return "interface pointer"
	case TagSequence:
		return "sequence"
	case TagSet:
		return "set"
	case TagMapping:
		return "mapping"
	case TagOptional:
		return "optional"
	case TagInt8, TagInt16, TagInt32, TagInt64:
		return "signed integer"
	case TagUint8, TagUint16, TagUint32, TagUint64:
		return "unsigned integer"
	case TagFloat32, TagFloat64:
		return "float"
	case TagIdentifier:
		return "identifier"
	case TagBoolean:
		return "boolean"
	default:
		return "other"
	}
}

var (
	nameType        = reflect.TypeFor[ref.Name]()
	handleType      = reflect.TypeFor[ref.Handle]()
	optionalType    = reflect.TypeFor[ref.AnyOptional]()
	emptyStructType = reflect.TypeFor[struct{}]()
)

// classify derives the TypeTag for a runtime type. Pure function of the type;
// no side effects.
func classify(t reflect.Type) TypeTag {
	if t == nil {
		return TagOther
	}

	if t == nameType {
		return TagIdentifier
	}

	switch t.Kind() {
	case reflect.Pointer:
		return TagPointer
	case reflect.Interface:
		return TagInterfacePointer
	}

	if t.Implements(handleType) {
		return classifyHandle(t)
	}

	if t.Implements(optionalType) {
		return TagOptional
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return TagSequence
	case reflect.Map:
		if t.Elem() == emptyStructType {
			return TagSet
		}

		return TagMapping
	case reflect.Int8:
		return TagInt8
	case reflect.Int16:
		return TagInt16
	case reflect.Int32:
		return TagInt32
	case reflect.Int64:
		return TagInt64
	case reflect.Int:
		if t.Bits() == 64 {
			return TagInt64
		}

		return TagInt32
	case reflect.Uint8:
		return TagUint8
	case reflect.Uint16:
		return TagUint16
	case reflect.Uint32:
		return TagUint32
	case reflect.Uint64:
		return TagUint64
	case reflect.Uint:
		if t.Bits() == 64 {
			return TagUint64
		}

		return TagUint32
	case reflect.Float32:
		return TagFloat32
	case reflect.Float64:
		return TagFloat64
	case reflect.Bool:
		return TagBoolean
	default:
		return TagOther
	}
}

// classifyHandle maps a ref.Handle implementation to its pointer flavor.
// A zero value is enough: RefKind is constant per type.
func classifyHandle(t reflect.Type) TypeTag {
	handle, ok := reflect.Zero(t).Interface().(ref.Handle)
	if !ok {
		return TagOther
	}

	switch handle.RefKind() {
	case ref.KindWeak:
		return TagWeakPointer
	case ref.KindSoft:
		return TagSoftPointer
	case ref.KindSoftClass:
		return TagSoftClassPointer
	case ref.KindClass:
		return TagClassPointer
	default:
		return TagOther
	}
}

// elementTypes yields the element types of a container: one for sequences,
// sets, and optionals, key then value for mappings.
func elementTypes(t reflect.Type, tag TypeTag) []reflect.Type {
	switch tag {
	case TagSequence:
		return []reflect.Type{t.Elem()}
	case TagSet:
		return []reflect.Type{t.Key()}
	case TagMapping:
		return []reflect.Type{t.Key(), t.Elem()}
	case TagOptional:
		opt, ok := reflect.Zero(t).Interface().(ref.AnyOptional)
		if !ok {
			return nil
		}

		return []reflect.Type{opt.ElemType()}
	default:
		return nil
	}
}

func isPointerLike(tag TypeTag) bool {
	switch tag {
	case TagPointer, TagWeakPointer, TagSoftPointer, TagSoftClassPointer, TagClassPointer, TagInterfacePointer:
		return true
	default:
		return false
	}
}

func isContainer(tag TypeTag) bool {
	switch tag {
	case TagSequence, TagSet, TagMapping, TagOptional:
		return true
	default:
		return false
	}
}

func isSignedInteger(tag TypeTag) bool {
	switch tag {
	case TagInt8, TagInt16, TagInt32, TagInt64:
		return true
	default:
		return false
	}
}

func isUnsignedInteger(tag TypeTag) bool {
	switch tag {
	case TagUint8, TagUint16, TagUint32, TagUint64:
		return true
	default:
		return false
	}
}

func isInteger(tag TypeTag) bool {
	return isSignedInteger(tag) || isUnsignedInteger(tag)
}

func isFloat(tag TypeTag) bool {
	return tag == TagFloat32 || tag == TagFloat64
}

func isNumeric(tag TypeTag) bool {
	return isInteger(tag) || isFloat(tag)
}

// integerBits returns the bit width of an integer tag.
func integerBits(tag TypeTag) int {
	switch tag {
	case TagInt8, TagUint8:
		return 8
	case TagInt16, TagUint16:
		return 16
	case TagInt32, TagUint32:
		return 32
	default:
		return 64
	}
}
