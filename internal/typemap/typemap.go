// Package typemap recovers the type arguments of generic instantiations.
//
// Reflection only exposes instantiated types, so the arguments are parsed
// back out of the type name (Box[int], Pair[string,example.com/m.Item]) and
// resolved to reflect.Type values where possible.
package typemap

import (
	"reflect"
	"strconv"
	"strings"

	"fixturegen/internal/common"
)

// TypeVar identifies a type parameter of a generic declaration.
type TypeVar struct {
	// Owner is the qualified generic type without arguments.
	Owner string
	// Name is the declared parameter name, or T0, T1, ... when unknown.
	Name string
}

// Binding is the argument bound to a type variable. Exactly one of Type and
// Var is set.
type Binding struct {
	Type reflect.Type
	// Var holds the argument text when it could not be resolved.
	Var string
	// Expr is the argument as spelled in the instantiated name.
	Expr string
}

// IsResolved reports whether the binding is concrete.
func (b Binding) IsResolved() bool { return b.Type != nil }

func (b Binding) String() string {
	if b.Type != nil {
		return common.ShortQualified(QualifiedName(b.Type))
	}

	return common.ShortQualified(b.Var)
}

// TypeMap holds the ordered type variable bindings of one node.
type TypeMap struct {
	vars     []TypeVar
	bindings map[TypeVar]Binding
}

// ParamNames maps a qualified generic type to its declared parameter names.
type ParamNames map[string][]string

// New computes the bindings of t and of the generic types it embeds.
// Arguments are resolved against predeclared types, types reachable from t
// and the concrete bindings of parent.
func New(t reflect.Type, parent TypeMap, names ParamNames) TypeMap {
	m := TypeMap{bindings: make(map[TypeVar]Binding)}
	if t == nil {
		return m
	}

	r := resolver{parent: parent, reachable: reachableTypes(t, reachDepth)}
	m.add(t, r, names)

	for _, e := range embeddedGenerics(t) {
		m.add(e, r, names)
	}

	return m
}

func (m *TypeMap) add(t reflect.Type, r resolver, names ParamNames) {
	owner, args, ok := parseInstance(t)
	if !ok {
		return
	}

	declared := names[owner]

	for i, arg := range args {
		v := TypeVar{Owner: owner, Name: "T" + strconv.Itoa(i)}
		if i < len(declared) {
			v.Name = declared[i]
		}

		if _, dup := m.bindings[v]; dup {
			continue
		}

		b := Binding{Expr: arg}
		if rt, ok := r.resolve(arg); ok {
			b.Type = rt
		} else {
			b.Var = arg
		}

		m.vars = append(m.vars, v)
		m.bindings[v] = b
	}
}

// Len returns the number of bindings.
func (m TypeMap) Len() int { return len(m.vars) }

// IsEmpty reports whether the map holds no bindings.
func (m TypeMap) IsEmpty() bool { return len(m.vars) == 0 }

// Vars returns the type variables in binding order.
func (m TypeMap) Vars() []TypeVar {
	return append([]TypeVar(nil), m.vars...)
}

// Get returns the binding of v.
func (m TypeMap) Get(v TypeVar) (Binding, bool) {
	b, ok := m.bindings[v]

	return b, ok
}

// Lookup returns the first binding of a parameter with the given name.
func (m TypeMap) Lookup(name string) (Binding, bool) {
	for _, v := range m.vars {
		if v.Name == name {
			return m.bindings[v], true
		}
	}

	return Binding{}, false
}

// Unresolved returns the type variables bound to symbolic arguments.
func (m TypeMap) Unresolved() []TypeVar {
	var out []TypeVar

	for _, v := range m.vars {
		if !m.bindings[v].IsResolved() {
			out = append(out, v)
		}
	}

	return out
}

// Equal reports structural equality: same variables in the same order with
// the same bindings.
func (m TypeMap) Equal(o TypeMap) bool {
	if len(m.vars) != len(o.vars) {
		return false
	}

	for i, v := range m.vars {
		if o.vars[i] != v || m.bindings[v] != o.bindings[v] {
			return false
		}
	}

	return true
}

// String renders the bindings grouped by owner, e.g. "Box[T=int]".
func (m TypeMap) String() string {
	var (
		sb    strings.Builder
		owner string
	)

	for i, v := range m.vars {
		switch {
		case i == 0:
			sb.WriteString(shortOwner(v.Owner) + "[")
		case v.Owner != owner:
			sb.WriteString("], " + shortOwner(v.Owner) + "[")
		default:
			sb.WriteString(", ")
		}

		owner = v.Owner
		sb.WriteString(v.Name + "=" + m.bindings[v].String())
	}

	if len(m.vars) > 0 {
		sb.WriteString("]")
	}

	return sb.String()
}

func shortOwner(owner string) string {
	if dot := strings.LastIndexByte(owner, '.'); dot >= 0 {
		return owner[dot+1:]
	}

	return owner
}

// embeddedGenerics returns generic instantiations embedded in a struct,
// following chains of embedded structs.
func embeddedGenerics(t reflect.Type) []reflect.Type {
	var out []reflect.Type

	var walk func(t reflect.Type, depth int)

	walk = func(t reflect.Type, depth int) {
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}

		if t.Kind() != reflect.Struct || depth > reachDepth {
			return
		}

		for i := range t.NumField() {
			f := t.Field(i)
			if !f.Anonymous {
				continue
			}

			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}

			if _, _, ok := parseInstance(ft); ok {
				out = append(out, ft)
			}

			walk(ft, depth+1)
		}
	}

	walk(t, 0)

	return out
}
