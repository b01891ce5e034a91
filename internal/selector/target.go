// Package selector resolves user selectors against a root type and matches
// them to nodes.
package selector

import (
	"fmt"
	"reflect"
	"strings"

	"fixturegen/internal/common"
	"fixturegen/internal/fail"
	"fixturegen/internal/match"
	"fixturegen/node"
)

// Target is what a selector points at. The set of implementations is closed;
// every implementation is comparable with ==.
type Target interface {
	// WithRootType rewrites placeholder targets into resolved ones, using
	// root as the declaring type when none was given. Resolved targets are
	// returned unchanged.
	WithRootType(root reflect.Type) (Target, error)
	String() string
	isTarget()
}

// ClassTarget selects every node of a type.
type ClassTarget struct {
	Type reflect.Type
}

// FieldTarget selects a field by its declaring struct type.
type FieldTarget struct {
	Decl  reflect.Type
	Field string
}

// FieldNameTarget is a field named relative to Decl, or to the root type
// when Decl is nil. Promoted fields are allowed.
type FieldNameTarget struct {
	Decl reflect.Type
	Name string
}

// SetterTarget selects a setter method by its declaring struct type.
type SetterTarget struct {
	Decl   reflect.Type
	Method string
}

// SetterNameTarget is a setter named relative to Decl or the root type.
// Param, when set, must equal the setter's parameter type.
type SetterNameTarget struct {
	Decl  reflect.Type
	Name  string
	Param reflect.Type
}

// GetterRefTarget is a getter method expression, identified by its runtime
// symbol.
type GetterRefTarget struct {
	Decl   reflect.Type
	Symbol string
}

// SetterRefTarget is a setter method expression.
type SetterRefTarget struct {
	Decl   reflect.Type
	Symbol string
	Param  reflect.Type
}

// RootTarget selects the root node.
type RootTarget struct{}

func (ClassTarget) isTarget()      {}
func (FieldTarget) isTarget()      {}
func (FieldNameTarget) isTarget()  {}
func (SetterTarget) isTarget()     {}
func (SetterNameTarget) isTarget() {}
func (GetterRefTarget) isTarget()  {}
func (SetterRefTarget) isTarget()  {}
func (RootTarget) isTarget()       {}

func (t ClassTarget) WithRootType(reflect.Type) (Target, error)  { return t, nil }
func (t FieldTarget) WithRootType(reflect.Type) (Target, error)  { return t, nil }
func (t SetterTarget) WithRootType(reflect.Type) (Target, error) { return t, nil }
func (t RootTarget) WithRootType(reflect.Type) (Target, error)   { return t, nil }

func (t FieldNameTarget) WithRootType(root reflect.Type) (Target, error) {
	return resolveField(declOr(t.Decl, root), t.Name)
}

func (t GetterRefTarget) WithRootType(root reflect.Type) (Target, error) {
	decl := declOr(t.Decl, root)
	method := methodName(t.Symbol)

	for _, name := range getterFieldNames(method) {
		if target, err := resolveField(decl, name); err == nil {
			return target, nil
		}
	}

	return nil, fail.Usage("getter %s of %s does not match any field", method, node.TypeName(decl))
}

func (t SetterNameTarget) WithRootType(root reflect.Type) (Target, error) {
	return resolveSetter(declOr(t.Decl, root), t.Name, t.Param)
}

func (t SetterRefTarget) WithRootType(root reflect.Type) (Target, error) {
	return resolveSetter(declOr(t.Decl, root), methodName(t.Symbol), t.Param)
}

func (t ClassTarget) String() string { return "all(" + node.TypeName(t.Type) + ")" }

func (t FieldTarget) String() string {
	return "field(" + node.TypeName(t.Decl) + "." + t.Field + ")"
}

func (t FieldNameTarget) String() string {
	if t.Decl == nil {
		return "field(" + t.Name + ")"
	}

	return "field(" + node.TypeName(t.Decl) + "." + t.Name + ")"
}

func (t SetterTarget) String() string {
	return "setter(" + node.TypeName(t.Decl) + "." + t.Method + ")"
}

func (t SetterNameTarget) String() string {
	if t.Decl == nil {
		return "setter(" + t.Name + ")"
	}

	return "setter(" + node.TypeName(t.Decl) + "." + t.Name + ")"
}

func (t GetterRefTarget) String() string { return "getter(" + common.ShortQualified(t.Symbol) + ")" }
func (t SetterRefTarget) String() string { return "setter(" + common.ShortQualified(t.Symbol) + ")" }
func (RootTarget) String() string        { return "root()" }

func declOr(decl, root reflect.Type) reflect.Type {
	if decl != nil {
		return decl
	}

	return root
}

func structOf(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, fail.Usage("declaring type is unknown")
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil, fail.Usage("%s is not a struct", node.TypeName(t))
	}

	return t, nil
}

// resolveField locates name in decl, following promotion to the embedded
// type that declares it.
func resolveField(decl reflect.Type, name string) (Target, error) {
	st, err := structOf(decl)
	if err != nil {
		return nil, err
	}

	f, ok := st.FieldByName(name)
	if !ok {
		return nil, unknownField(st, name)
	}

	return FieldTarget{Decl: declaringType(st, f.Index), Field: f.Name}, nil
}

// declaringType walks an index sequence from FieldByName to the struct
// holding the last field.
func declaringType(st reflect.Type, index []int) reflect.Type {
	for _, i := range index[:len(index)-1] {
		st = st.Field(i).Type
		if st.Kind() == reflect.Pointer {
			st = st.Elem()
		}
	}

	return st
}

func unknownField(st reflect.Type, name string) error {
	fields := reflect.VisibleFields(st)
	known := make([]match.Named, 0, len(fields))

	for _, f := range fields {
		known = append(known, match.Named{Name: f.Name, Type: f.Type})
	}

	err := fail.Usage("%s has no field %q", node.TypeName(st), name)

	candidates := match.RankCandidates(name, nil, known).AboveThreshold(match.SuggestionThreshold)
	if len(candidates) > 0 {
		err.Message += fmt.Sprintf(", did you mean %q?", candidates[0].Name)
	}

	return err
}

// unknownSetter appends the closest setter of st to err. With a known
// parameter type, setters that cannot take it are never suggested.
func unknownSetter(st reflect.Type, name string, param reflect.Type, err *fail.UsageError) error {
	pt := reflect.PointerTo(st)
	known := make([]match.Named, 0, pt.NumMethod())

	for i := range pt.NumMethod() {
		m := pt.Method(i)
		if m.Name != name && m.Type.NumIn() == 2 && m.Type.NumOut() == 0 {
			known = append(known, match.Named{Name: m.Name, Type: m.Type.In(1)})
		}
	}

	for _, c := range match.RankCandidates(name, param, known).AboveThreshold(match.SuggestionThreshold) {
		if param == nil || c.TypeCompat != match.TypeIncompatible {
			err.Message += fmt.Sprintf(", did you mean %q?", c.Name)

			break
		}
	}

	return err
}

func resolveSetter(decl reflect.Type, name string, param reflect.Type) (Target, error) {
	st, err := structOf(decl)
	if err != nil {
		return nil, err
	}

	m, ok := reflect.PointerTo(st).MethodByName(name)
	if !ok {
		return nil, unknownSetter(st, name, param, fail.Usage("%s has no setter %q", node.TypeName(st), name))
	}

	if m.Type.NumIn() != 2 || m.Type.NumOut() != 0 {
		return nil, fail.Usage("%s.%s is not a setter: want a single parameter and no results", node.TypeName(st), name)
	}

	if param != nil && m.Type.In(1) != param {
		err := fail.Usage("setter %s.%s takes %s, not %s", node.TypeName(st), name, m.Type.In(1), param)

		return nil, unknownSetter(st, name, param, err)
	}

	return SetterTarget{Decl: st, Method: name}, nil
}

// getterFieldNames lists the field names a getter may stand for, most
// specific first: GetName -> Name, name; Secret -> Secret, secret.
func getterFieldNames(method string) []string {
	var names []string

	for _, prefix := range []string{"Get", "Is"} {
		rest, ok := strings.CutPrefix(method, prefix)
		if ok && rest != "" && rest[0] >= 'A' && rest[0] <= 'Z' {
			names = append(names, rest, common.Decapitalize(rest))
		}
	}

	return append(names, method, common.Decapitalize(method))
}

// matchesTarget reports whether a resolved target selects n.
func matchesTarget(t Target, n *node.Node) bool {
	switch t := t.(type) {
	case ClassTarget:
		return n.Type == t.Type || n.TargetType == t.Type
	case FieldTarget:
		return n.Role == node.RoleField && n.Field.Name == t.Field && n.DeclaringType() == t.Decl
	case SetterTarget:
		return n.Setter != nil && n.Setter.Name == t.Method && n.DeclaringType() == t.Decl
	case RootTarget:
		return n.IsRoot()
	default:
		return false
	}
}
