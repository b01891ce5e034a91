package typemap

import (
	"reflect"
	"strconv"
	"strings"
)

// parseInstance splits an instantiated type name into its qualified owner and
// argument expressions.
func parseInstance(t reflect.Type) (string, []string, bool) {
	name := t.Name()

	open := strings.IndexByte(name, '[')
	if open < 0 || !strings.HasSuffix(name, "]") {
		return "", nil, false
	}

	owner := name[:open]
	if t.PkgPath() != "" {
		owner = t.PkgPath() + "." + owner
	}

	return owner, SplitArgs(name[open+1 : len(name)-1]), true
}

// SplitArgs splits a comma separated list of type expressions, ignoring
// commas nested in brackets, parentheses or braces.
func SplitArgs(s string) []string {
	var (
		args  []string
		depth int
		start int
	)

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}

	if rest := strings.TrimSpace(s[start:]); rest != "" || len(args) > 0 {
		args = append(args, rest)
	}

	return args
}

// QualifiedName renders t the way the runtime spells type arguments:
// named types carry their full package path.
func QualifiedName(t reflect.Type) string {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.Name()
		}

		return t.PkgPath() + "." + t.Name()
	}

	switch t.Kind() {
	case reflect.Pointer:
		return "*" + QualifiedName(t.Elem())
	case reflect.Slice:
		return "[]" + QualifiedName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + QualifiedName(t.Elem())
	case reflect.Map:
		return "map[" + QualifiedName(t.Key()) + "]" + QualifiedName(t.Elem())
	case reflect.Chan:
		return t.ChanDir().String() + " " + QualifiedName(t.Elem())
	default:
		return t.String()
	}
}
