package node

import (
	"reflect"
	"strings"

	"fixturegen/internal/common"
	"fixturegen/internal/fail"
	"fixturegen/internal/typemap"
	"fixturegen/settings"
)

// Options control the shape of a built tree.
type Options struct {
	// MaxDepth truncates nodes at this depth; zero disables the limit.
	MaxDepth int
	// Unexported includes unexported struct fields.
	Unexported bool
	// MethodMode attaches Set<Field> methods to field nodes.
	MethodMode bool
	// InvokeUnmatchedSetters adds member nodes for setters without a field.
	// Only used in method mode.
	InvokeUnmatchedSetters bool
	// Subtype returns the type to generate for a node instead of its declared
	// type. It sees the node before its kind is known.
	Subtype func(n *Node) (reflect.Type, bool)
	// Terminal marks additional types generated as a whole.
	Terminal   func(t reflect.Type) bool
	ParamNames typemap.ParamNames
}

// OptionsFrom reads the tree options held by s.
func OptionsFrom(s *settings.Settings) Options {
	return Options{
		MaxDepth:               settings.Get(s, settings.MaxDepth),
		Unexported:             settings.Get(s, settings.FieldsUnexported),
		MethodMode:             settings.Get(s, settings.AssignmentType) == settings.AssignmentMethod,
		InvokeUnmatchedSetters: settings.Get(s, settings.SetterUnmatched) == settings.SetterInvoke,
	}
}

type Builder struct {
	opts Options
	tree *Tree
}

func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts}
}

// Build creates the tree of root. The builder can be reused.
func (b *Builder) Build(root reflect.Type) (*Tree, error) {
	if root == nil {
		return nil, fail.Usage("root type must not be nil")
	}

	b.tree = &Tree{}
	defer func() { b.tree = nil }()

	n := newNode(root, RoleRoot, nil)
	if err := b.expand(n, nil); err != nil {
		return nil, err
	}

	b.tree.Root = n

	return b.tree, nil
}

func newNode(t reflect.Type, role RoleEnum, parent *Node) *Node {
	n := &Node{Type: t, TargetType: t, Role: role, Parent: parent}
	if parent != nil {
		n.Depth = parent.Depth + 1
	}

	return n
}

// attach resolves the target type and kind of n and links it into the tree.
func (b *Builder) attach(n *Node) error {
	if b.opts.Subtype != nil {
		if sub, ok := b.opts.Subtype(n); ok && sub != nil && sub != n.Type {
			if !sub.AssignableTo(n.Type) {
				return fail.Usage("subtype %s is not assignable to %s at %s", sub, n.Type, n.Path())
			}

			n.TargetType = sub
		}
	}

	n.Kind = Dispatch(n.TargetType, b.opts.Terminal)
	n.ID = len(b.tree.Nodes)
	b.tree.Nodes = append(b.tree.Nodes, n)

	if n.Parent != nil {
		n.Parent.Children = append(n.Parent.Children, n)
	}

	return nil
}

func (b *Builder) expand(n *Node, shadowed map[string]bool) error {
	if err := b.attach(n); err != nil {
		return err
	}

	switch n.Kind {
	case KindTerminal, KindInterface, KindIgnored, KindUnknown:
		return nil
	}

	if repeatsAncestor(n) {
		n.Cyclic = true

		return nil
	}

	var parentMap typemap.TypeMap
	if n.Parent != nil {
		parentMap = n.Parent.TypeMap
	}

	n.TypeMap = typemap.New(n.TargetType, parentMap, b.opts.ParamNames)

	if b.opts.MaxDepth > 0 && n.Depth >= b.opts.MaxDepth {
		n.Truncated = true
		b.tree.Truncated = append(b.tree.Truncated, n)

		return nil
	}

	switch n.Kind {
	case KindStruct:
		return b.members(n, shadowed)
	case KindMap:
		if err := b.expand(newNode(n.TargetType.Key(), RoleKey, n), nil); err != nil {
			return err
		}

		return b.expand(newNode(n.TargetType.Elem(), RoleValue, n), nil)
	default:
		return b.expand(newNode(n.TargetType.Elem(), RoleElement, n), nil)
	}
}

// repeatsAncestor walks the ancestor chain only; the same type in separate
// branches is not a cycle. Containers are compared up to the nearest struct,
// a cycle running through a struct is cut at the struct.
func repeatsAncestor(n *Node) bool {
	found := false

	n.Ancestors(func(a *Node) bool {
		if n.Kind != KindStruct && a.Kind == KindStruct {
			return false
		}

		found = a.Type == n.Type && a.TargetType == n.TargetType

		return !found
	})

	return found
}

func (b *Builder) members(n *Node, shadowed map[string]bool) error {
	t := n.TargetType

	// names declared at this level hide promoted fields of embedded structs
	outer := make(map[string]bool, len(shadowed)+t.NumField())
	for name := range shadowed {
		outer[name] = true
	}

	for i := range t.NumField() {
		outer[t.Field(i).Name] = true
	}

	for i := range t.NumField() {
		f := t.Field(i)
		if shadowed[f.Name] || !b.includeField(f) {
			continue
		}

		c := newNode(f.Type, RoleField, n)
		c.Field = &f
		c.Embedded = f.Anonymous

		if b.opts.MethodMode {
			c.Setter = findSetter(t, f)
		}

		var inner map[string]bool
		if f.Anonymous {
			inner = outer
		}

		if err := b.expand(c, inner); err != nil {
			return err
		}
	}

	if b.opts.MethodMode && b.opts.InvokeUnmatchedSetters {
		for _, m := range unmatchedSetters(t) {
			c := newNode(m.Type.In(1), RoleSetter, n)
			c.Setter = &m

			if err := b.expand(c, nil); err != nil {
				return err
			}
		}
	}

	return nil
}

func (b *Builder) includeField(f reflect.StructField) bool {
	if f.IsExported() || b.opts.Unexported {
		return true
	}

	// promoted fields of an unexported embedded struct stay reachable
	return f.Anonymous && f.Type.Kind() == reflect.Struct
}

func isSetterShape(m reflect.Method) bool {
	return strings.HasPrefix(m.Name, "Set") && len(m.Name) > len("Set") &&
		m.Type.NumIn() == 2 && m.Type.NumOut() == 0
}

// findSetter returns the Set<Field> method of *t taking a value of the field
// type.
func findSetter(t reflect.Type, f reflect.StructField) *reflect.Method {
	m, ok := reflect.PointerTo(t).MethodByName("Set" + common.Capitalize(f.Name))
	if !ok || !isSetterShape(m) || !f.Type.AssignableTo(m.Type.In(1)) {
		return nil
	}

	return &m
}

// unmatchedSetters returns the setters declared on *t that have no field of
// the same name. Setters promoted from embedded types are left to those types.
func unmatchedSetters(t reflect.Type) []reflect.Method {
	pt := reflect.PointerTo(t)

	var out []reflect.Method

	for i := range pt.NumMethod() {
		m := pt.Method(i)
		if !isSetterShape(m) || promoted(t, m.Name) {
			continue
		}

		name := strings.TrimPrefix(m.Name, "Set")
		if _, ok := t.FieldByName(name); ok {
			continue
		}

		if _, ok := t.FieldByName(common.Decapitalize(name)); ok {
			continue
		}

		out = append(out, m)
	}

	return out
}

func promoted(t reflect.Type, method string) bool {
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}

		ft := f.Type
		if ft.Kind() != reflect.Pointer {
			ft = reflect.PointerTo(ft)
		}

		if _, ok := ft.MethodByName(method); ok {
			return true
		}
	}

	return false
}
