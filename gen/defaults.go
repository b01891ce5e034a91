package gen

import (
	"reflect"

	"github.com/google/uuid"

	"fixturegen/generator"
	"fixturegen/primitive"
)

var uuidType = reflect.TypeFor[uuid.UUID]()

// ForType returns the default spec for t, or nil when the engine builds values
// of t structurally (structs, pointers, interfaces).
func ForType(t reflect.Type) generator.Spec {
	if t == uuidType {
		return UUID()
	}

	switch k := primitive.Underlying(t); {
	case k == primitive.KindTime:
		return Time()
	case k == primitive.KindDuration:
		return Duration()
	case k == primitive.KindString:
		return String()
	case k == primitive.KindBool:
		return Bool()
	case k.IsSigned():
		return Int()
	case k.IsUnsigned():
		return Uint()
	case k.IsFloat():
		return Float()
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return Slice()
	case reflect.Map:
		return Map()
	}

	return nil
}

// IsTerminal reports whether values of t are generated as a whole rather
// than assembled from child nodes.
func IsTerminal(t reflect.Type) bool {
	return t == uuidType || primitive.FromReflectType(t) != 0
}
