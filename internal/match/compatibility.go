package match

import (
	"reflect"

	"fixturegen/primitive"
)

// TypeCompatibility represents how well a value type fits a declared type.
type TypeCompatibility int

const (
	// TypeIncompatible means the value cannot be stored.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means the value fits after pointer wrapping or dereference.
	TypeNeedsTransform
	// TypeConvertible means an explicit primitive conversion applies.
	TypeConvertible
	// TypeAssignable means the value is directly assignable.
	TypeAssignable
	// TypeIdentical means the types are the same.
	TypeIdentical
)

// ScoreTypeCompatibility determines how a value of type source can be stored
// into a location of type target. Conversions are limited to the categories
// the engine applies to explicit values.
func ScoreTypeCompatibility(source, target reflect.Type) TypeCompatibility {
	switch {
	case source == nil || target == nil:
		return TypeIncompatible
	case source == target:
		return TypeIdentical
	case source.AssignableTo(target):
		return TypeAssignable
	case convertible(source, target):
		return TypeConvertible
	case target.Kind() == reflect.Pointer && fits(source, target.Elem()):
		return TypeNeedsTransform
	case source.Kind() == reflect.Pointer && fits(source.Elem(), target):
		return TypeNeedsTransform
	default:
		return TypeIncompatible
	}
}

func fits(source, target reflect.Type) bool {
	return source.AssignableTo(target) || convertible(source, target)
}

func convertible(source, target reflect.Type) bool {
	from := primitive.FromReflectType(source)
	to := primitive.FromReflectType(target)

	if from == 0 || to == 0 {
		return false
	}

	if from == primitive.KindPrimitiveEnum || to == primitive.KindPrimitiveEnum {
		return source.ConvertibleTo(target)
	}

	return primitive.CategoryExplicit.Has(primitive.CategoryOf(primitive.ConversionPair{From: from, To: to}))
}
