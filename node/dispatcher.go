package node

import (
	"reflect"

	"fixturegen/primitive"
)

// Dispatch returns the kind of a node whose target type is t. The terminal
// predicate marks additional types that are generated as a whole; it may be
// nil.
func Dispatch(t reflect.Type, terminal func(reflect.Type) bool) KindEnum {
	if t == nil {
		return KindUnknown
	}

	if primitive.FromReflectType(t) != 0 || (terminal != nil && terminal(t)) {
		return KindTerminal
	}

	switch t.Kind() {
	case reflect.Struct:
		return KindStruct
	case reflect.Slice:
		return KindSlice
	case reflect.Array:
		return KindArray
	case reflect.Map:
		return KindMap
	case reflect.Pointer:
		return KindPointer
	case reflect.Interface:
		return KindInterface
	default:
		return KindIgnored
	}
}
