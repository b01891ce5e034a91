package selector

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"fixturegen/internal/common"
	"fixturegen/internal/fail"
	"fixturegen/node"
)

// PathSegment is one dotted element of a field path.
type PathSegment struct {
	Name string
	// IsSlice marks "Items[]": the path continues into the elements.
	IsSlice bool
}

// ParsePath parses "Field", "Nested.Field", "Items[]" and "Items[].SKU".
func ParsePath(path string) ([]PathSegment, error) {
	if path == "" {
		return nil, errors.New("empty path")
	}

	var segments []PathSegment

	for part := range strings.SplitSeq(path, ".") {
		if part == "" {
			return nil, fmt.Errorf("invalid path %q: empty segment", path)
		}

		name, isSlice := strings.CutSuffix(part, "[]")
		if isSlice && name == "" {
			return nil, fmt.Errorf("invalid path %q: slice without field name", path)
		}

		if !isValidIdent(name) {
			return nil, fmt.Errorf("invalid path %q: invalid identifier %q", path, name)
		}

		segments = append(segments, PathSegment{Name: name, IsSlice: isSlice})
	}

	return segments, nil
}

// resolvePath turns a path relative to root into a field target for the
// last segment and field scopes for the preceding ones.
func resolvePath(root reflect.Type, path string) (Target, []Scope, error) {
	segments, err := ParsePath(path)
	if err != nil {
		return nil, nil, fail.Usage("%v", err)
	}

	var (
		scopes []Scope
		cur    = root
		target Target
	)

	for i, seg := range segments {
		target, err = resolveField(cur, seg.Name)
		if err != nil {
			return nil, nil, err
		}

		if i == len(segments)-1 {
			break
		}

		scopes = append(scopes, Scope{Target: target})

		st, _ := structOf(cur)
		f, _ := st.FieldByName(seg.Name)
		cur = f.Type

		if seg.IsSlice {
			cur = deref(cur)
			if cur.Kind() != reflect.Slice && cur.Kind() != reflect.Array {
				return nil, nil, fail.Usage("%s in %q is not a slice", seg.Name, path)
			}

			cur = cur.Elem()
		} else if k := deref(cur).Kind(); k == reflect.Slice || k == reflect.Array {
			return nil, nil, fail.Usage("%s in %q is a %s, write %s[]", seg.Name, path, node.TypeName(cur), seg.Name)
		}
	}

	if last, _ := common.Last(segments); last.IsSlice {
		return nil, nil, fail.Usage("path %q must end with a field", path)
	}

	return target, scopes, nil
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}

func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return true
}
