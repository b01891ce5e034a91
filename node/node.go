// Package node builds the type-resolved tree a value is generated from.
package node

import (
	"fmt"
	"reflect"
	"strings"

	"fixturegen/internal/common"
	"fixturegen/internal/typemap"
)

// Node is one position in the generated value: the root, a struct member,
// a container element, a map key or value.
type Node struct {
	// Type is the declared type.
	Type reflect.Type
	// TargetType is the type actually generated, after subtype mapping.
	TargetType reflect.Type
	Kind       KindEnum
	Role       RoleEnum
	Depth      int
	// Field is set for struct members, embedded structs included.
	Field *reflect.StructField
	// Setter is the Set<Field> method used in method assignment mode, or the
	// unmatched setter a RoleSetter node stands for.
	Setter *reflect.Method
	// Embedded is set for anonymous struct fields.
	Embedded bool
	Parent   *Node
	Children []*Node
	TypeMap  typemap.TypeMap
	// Cyclic nodes repeat an ancestor and have no children.
	Cyclic bool
	// Truncated nodes sit at the maximum depth and have no children.
	Truncated bool
	// ID is the pre-order index of the node in its tree.
	ID int
}

func (n *Node) IsRoot() bool { return n.Parent == nil }

// Name returns the field or setter name, empty for other roles.
func (n *Node) Name() string {
	switch {
	case n.Field != nil:
		return n.Field.Name
	case n.Setter != nil:
		return n.Setter.Name
	default:
		return ""
	}
}

// DeclaringType returns the struct type declaring the member, nil for
// elements and the root.
func (n *Node) DeclaringType() reflect.Type {
	if n.Parent == nil || (n.Role != RoleField && n.Role != RoleSetter) {
		return nil
	}

	return n.Parent.TargetType
}

// Element returns the single element child of slice, array and pointer
// nodes.
func (n *Node) Element() *Node {
	if common.IsSingle(n.Children) && n.Children[0].Role == RoleElement {
		return n.Children[0]
	}

	return nil
}

// KeyValue returns the key and value children of map nodes.
func (n *Node) KeyValue() (*Node, *Node) {
	if n.Kind != KindMap || len(n.Children) != 2 {
		return nil, nil
	}

	return n.Children[0], n.Children[1]
}

// Ancestors yields parents from the nearest to the root.
func (n *Node) Ancestors(fn func(*Node) bool) {
	for p := n.Parent; p != nil; p = p.Parent {
		if !fn(p) {
			return
		}
	}
}

// HasAncestor reports whether a is n or one of its ancestors.
func (n *Node) HasAncestor(a *Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == a {
			return true
		}
	}

	return false
}

// Walk visits n and its descendants in pre-order until fn returns false for
// a node, which skips that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}

	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Path renders the position of the node, e.g. "Person.Phones[].Number".
// Pointer indirections are transparent.
func (n *Node) Path() string {
	if n.Parent == nil {
		return TypeName(n.Type)
	}

	parent := n.Parent.Path()

	switch n.Role {
	case RoleField, RoleSetter:
		return parent + "." + n.Name()
	case RoleKey:
		return parent + "[key]"
	case RoleValue:
		return parent + "[value]"
	}

	if n.Parent.Kind == KindPointer {
		return parent
	}

	return parent + "[]"
}

func (n *Node) String() string {
	var sb strings.Builder

	sb.WriteString(n.Path())
	sb.WriteString(" (")
	sb.WriteString(TypeName(n.Type))

	if n.TargetType != n.Type {
		sb.WriteString(" as ")
		sb.WriteString(TypeName(n.TargetType))
	}

	sb.WriteString(", ")
	sb.WriteString(n.Kind.String())

	if !n.TypeMap.IsEmpty() {
		sb.WriteString(", ")
		sb.WriteString(n.TypeMap.String())
	}

	switch {
	case n.Cyclic:
		sb.WriteString(", cyclic")
	case n.Truncated:
		sb.WriteString(", truncated")
	}

	sb.WriteString(")")

	return sb.String()
}

// Format renders the subtree one node per line, indented by depth.
func (n *Node) Format() string {
	var sb strings.Builder

	n.Walk(func(c *Node) bool {
		fmt.Fprintf(&sb, "%s%s\n", strings.Repeat("  ", c.Depth), c)

		return true
	})

	return sb.String()
}

// TypeName renders t with package paths shortened to their alias.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	if t.Name() != "" && t.PkgPath() != "" {
		return common.ShortQualified(t.Name())
	}

	return common.ShortQualified(t.String())
}

// Tree is the result of a build.
type Tree struct {
	Root *Node
	// Nodes lists every node in pre-order; a node's ID is its index.
	Nodes []*Node
	// Truncated lists nodes cut off at the maximum depth.
	Truncated []*Node
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.Nodes) }

// Find returns the first node whose path equals path.
func (t *Tree) Find(path string) *Node {
	for _, n := range t.Nodes {
		if n.Path() == path {
			return n
		}
	}

	return nil
}
