package typemap

import (
	"reflect"
	"strconv"
	"strings"
)

// reachDepth bounds the walk over types reachable from a node type.
const reachDepth = 4

var predeclared = map[string]reflect.Type{}

func init() {
	for _, t := range []reflect.Type{
		reflect.TypeFor[bool](), reflect.TypeFor[string](),
		reflect.TypeFor[int](), reflect.TypeFor[int8](), reflect.TypeFor[int16](),
		reflect.TypeFor[int32](), reflect.TypeFor[int64](),
		reflect.TypeFor[uint](), reflect.TypeFor[uint8](), reflect.TypeFor[uint16](),
		reflect.TypeFor[uint32](), reflect.TypeFor[uint64](), reflect.TypeFor[uintptr](),
		reflect.TypeFor[float32](), reflect.TypeFor[float64](),
		reflect.TypeFor[complex64](), reflect.TypeFor[complex128](),
		reflect.TypeFor[error](),
	} {
		predeclared[t.Name()] = t
	}

	predeclared["byte"] = reflect.TypeFor[byte]()
	predeclared["rune"] = reflect.TypeFor[rune]()
	predeclared["any"] = reflect.TypeFor[any]()
	predeclared["interface {}"] = reflect.TypeFor[any]()
}

type resolver struct {
	parent    TypeMap
	reachable map[string]reflect.Type
}

func (r resolver) resolve(expr string) (reflect.Type, bool) {
	expr = strings.TrimSpace(expr)

	if t, ok := predeclared[expr]; ok {
		return t, true
	}

	if t, ok := r.reachable[expr]; ok {
		return t, true
	}

	for _, v := range r.parent.vars {
		b := r.parent.bindings[v]
		if b.Type != nil && (b.Expr == expr || QualifiedName(b.Type) == expr) {
			return b.Type, true
		}
	}

	return r.composite(expr)
}

// composite builds unnamed pointer, slice, array and map types from their
// resolved parts.
func (r resolver) composite(expr string) (reflect.Type, bool) {
	switch {
	case strings.HasPrefix(expr, "*"):
		if elem, ok := r.resolve(expr[1:]); ok {
			return reflect.PointerTo(elem), true
		}

	case strings.HasPrefix(expr, "[]"):
		if elem, ok := r.resolve(expr[2:]); ok {
			return reflect.SliceOf(elem), true
		}

	case strings.HasPrefix(expr, "["):
		end := strings.IndexByte(expr, ']')
		if end < 0 {
			return nil, false
		}

		n, err := strconv.Atoi(expr[1:end])
		if err != nil {
			return nil, false
		}

		if elem, ok := r.resolve(expr[end+1:]); ok {
			return reflect.ArrayOf(n, elem), true
		}

	case strings.HasPrefix(expr, "map["):
		end := closing(expr, len("map"))
		if end < 0 {
			return nil, false
		}

		key, ok := r.resolve(expr[len("map[") : end])
		if !ok || !key.Comparable() {
			return nil, false
		}

		if elem, ok := r.resolve(expr[end+1:]); ok {
			return reflect.MapOf(key, elem), true
		}
	}

	return nil, false
}

// closing returns the index of the bracket closing the one at open.
func closing(s string, open int) int {
	depth := 0

	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// reachableTypes indexes by qualified name every type reachable from t
// through fields, elements and keys.
func reachableTypes(t reflect.Type, maxDepth int) map[string]reflect.Type {
	out := make(map[string]reflect.Type)

	var walk func(t reflect.Type, depth int)

	walk = func(t reflect.Type, depth int) {
		name := QualifiedName(t)
		if _, seen := out[name]; seen || depth > maxDepth {
			return
		}

		out[name] = t

		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Chan:
			walk(t.Elem(), depth+1)
		case reflect.Map:
			walk(t.Key(), depth+1)
			walk(t.Elem(), depth+1)
		case reflect.Struct:
			for i := range t.NumField() {
				walk(t.Field(i).Type, depth+1)
			}
		}
	}

	walk(t, 0)

	return out
}
