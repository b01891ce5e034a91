package fixturegen

import (
	"reflect"
	"time"

	"fixturegen/internal/selector"
)

type (
	// TargetSelector is implemented by every selector accepted by a Builder.
	TargetSelector = selector.TargetSelector
	// Selector selects nodes by type, field, setter or root.
	Selector = selector.Selector
	// Scope restricts a selector to nodes below the nodes of another selector.
	Scope = selector.Scope
	// SelectorGroup selects what any of its members selects.
	SelectorGroup = selector.Group
)

// All selects every node of type T.
func All[T any]() *Selector {
	return selector.All(reflect.TypeFor[T]()).At(selector.CallerSite(1))
}

// AllOf selects every node of type t.
func AllOf(t reflect.Type) *Selector {
	return selector.All(t).At(selector.CallerSite(1))
}

// Field selects the field name declared in T, or promoted into it.
func Field[T any](name string) *Selector {
	return selector.Field(reflect.TypeFor[T](), name).At(selector.CallerSite(1))
}

// FieldOf selects the field name of t. A nil t means the root type.
func FieldOf(t reflect.Type, name string) *Selector {
	return selector.Field(t, name).At(selector.CallerSite(1))
}

// Root selects the root node.
func Root() *Selector {
	return selector.Root().At(selector.CallerSite(1))
}

// Getter selects the field read by a getter method expression, such as
// (*Person).GetName.
func Getter(fn any) *Selector {
	return selector.Getter(fn).At(selector.CallerSite(1))
}

// Setter selects a setter method expression such as (*Person).SetName. It
// requires settings.AssignmentMethod.
func Setter(fn any) *Selector {
	return selector.Setter(fn).At(selector.CallerSite(1))
}

// SetterNamed selects the setter method name of *T.
func SetterNamed[T any](name string) *Selector {
	return selector.SetterNamed(reflect.TypeFor[T](), name).At(selector.CallerSite(1))
}

// Path selects a field by a dotted path from T, such as "Address.City".
// Intermediate fields become scopes.
func Path[T any](path string) *Selector {
	return selector.Path(reflect.TypeFor[T](), path).At(selector.CallerSite(1))
}

// Dual selects both T and *T.
func Dual[T any]() *selector.Dual {
	return selector.NewDual(reflect.TypeFor[T]()).At(selector.CallerSite(1))
}

// Group combines selectors.
func Group(sels ...TargetSelector) SelectorGroup {
	return SelectorGroup(sels)
}

// Fields starts a predicate selector over struct fields.
func Fields() *selector.FieldsBuilder {
	return selector.Fields().At(selector.CallerSite(1))
}

// Types starts a predicate selector over node types.
func Types() *selector.TypesBuilder {
	return selector.Types().At(selector.CallerSite(1))
}

func AllStrings() *selector.Dual { return dual[string]() }
func AllInts() *selector.Dual    { return dual[int]() }
func AllInt64s() *selector.Dual  { return dual[int64]() }
func AllUints() *selector.Dual   { return dual[uint]() }
func AllFloats() *selector.Dual  { return dual[float64]() }
func AllBools() *selector.Dual   { return dual[bool]() }
func AllTimes() *selector.Dual   { return dual[time.Time]() }

func dual[T any]() *selector.Dual {
	return selector.NewDual(reflect.TypeFor[T]()).At(selector.CallerSite(2))
}
