package selector

import (
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"fixturegen/internal/fail"
	"fixturegen/node"
)

// TargetSelector is anything the API accepts where a selector is expected:
// *Selector, *PredicateSelector, *Dual, Group and PredicateBuilder values.
type TargetSelector interface {
	fmt.Stringer
	isTargetSelector()
}

// PredicateBuilder compiles into a predicate selector.
type PredicateBuilder interface {
	TargetSelector
	Build() *PredicateSelector
}

// Depth restricts the depth of a matched node. The zero value matches every
// depth.
type Depth struct {
	exact int
	pred  func(int) bool
	set   bool
}

// AtDepth matches exactly depth d.
func AtDepth(d int) Depth { return Depth{exact: d, set: true} }

// AtDepthFunc matches depths accepted by pred.
func AtDepthFunc(pred func(int) bool) Depth { return Depth{pred: pred, set: true} }

func (d Depth) IsSet() bool { return d.set }

func (d Depth) Matches(depth int) bool {
	switch {
	case !d.set:
		return true
	case d.pred != nil:
		return d.pred(depth)
	default:
		return depth == d.exact
	}
}

// within reports whether a scoping ancestor at depth opens the scope. An
// exact depth matches that depth or deeper.
func (d Depth) within(depth int) bool {
	if d.set && d.pred == nil {
		return depth >= d.exact
	}

	return d.Matches(depth)
}

func (d Depth) String() string {
	switch {
	case !d.set:
		return ""
	case d.pred != nil:
		return "atDepth(<predicate>)"
	default:
		return "atDepth(" + strconv.Itoa(d.exact) + ")"
	}
}

// Scope narrows a selector to nodes reached through a type or field.
type Scope struct {
	Target Target
	// Depth is the minimum depth of the scoping ancestor, or a predicate on it.
	Depth Depth
}

func (s Scope) String() string {
	out := "scope(" + s.Target.String()
	if s.Depth.IsSet() {
		out += ", " + s.Depth.String()
	}

	return out + ")"
}

func (s Scope) matches(n *node.Node) bool {
	return matchesTarget(s.Target, n) && s.Depth.within(n.Depth)
}

// Selector selects nodes by target, narrowed by scopes and depth. Selectors
// are immutable; the chaining methods return copies.
type Selector struct {
	target  Target
	scopes  []Scope
	depth   Depth
	lenient bool
	site    string
	err     error
}

func (*Selector) isTargetSelector() {}

// All selects every node of type t.
func All(t reflect.Type) *Selector {
	if t == nil {
		return &Selector{err: fail.Usage("type must not be nil")}
	}

	return &Selector{target: ClassTarget{Type: t}}
}

// Field selects the field name of decl. A nil decl means the root type.
func Field(decl reflect.Type, name string) *Selector {
	if name == "" {
		return &Selector{err: fail.Usage("field name must not be empty")}
	}

	return &Selector{target: FieldNameTarget{Decl: decl, Name: name}}
}

// SetterNamed selects a setter method of decl by name.
func SetterNamed(decl reflect.Type, name string) *Selector {
	return &Selector{target: SetterNameTarget{Decl: decl, Name: name}}
}

// Getter selects the field behind a getter method expression such as
// (*Person).GetName.
func Getter(fn any) *Selector {
	ref, err := parseMethodRef(fn, false)
	if err != nil {
		return &Selector{err: fail.Usage("getter: %v", err)}
	}

	return &Selector{target: GetterRefTarget{Decl: ref.Decl, Symbol: ref.Symbol}}
}

// Setter selects a setter method expression such as (*Person).SetName.
func Setter(fn any) *Selector {
	ref, err := parseMethodRef(fn, true)
	if err != nil {
		return &Selector{err: fail.Usage("setter: %v", err)}
	}

	return &Selector{target: SetterRefTarget{Decl: ref.Decl, Symbol: ref.Symbol, Param: ref.Param}}
}

// Path selects a field by a dotted path relative to root.
func Path(root reflect.Type, path string) *Selector {
	target, scopes, err := resolvePath(root, path)
	if err != nil {
		return &Selector{err: err}
	}

	return &Selector{target: target, scopes: scopes}
}

// Root selects the root node.
func Root() *Selector {
	return &Selector{target: RootTarget{}}
}

func (s *Selector) clone() *Selector {
	c := *s
	c.scopes = append([]Scope(nil), s.scopes...)

	return &c
}

// Within narrows the selector to nodes reached through every scope, listed
// outermost first.
func (s *Selector) Within(scopes ...Scope) *Selector {
	c := s.clone()
	c.scopes = append(c.scopes, scopes...)

	return c
}

func (s *Selector) AtDepth(d int) *Selector {
	c := s.clone()
	c.depth = AtDepth(d)

	return c
}

func (s *Selector) AtDepthFunc(pred func(int) bool) *Selector {
	c := s.clone()
	c.depth = AtDepthFunc(pred)

	return c
}

// Lenient exempts the selector from unused selector checks.
func (s *Selector) Lenient() *Selector {
	c := s.clone()
	c.lenient = true

	return c
}

// At records the declaration site.
func (s *Selector) At(site string) *Selector {
	c := s.clone()
	c.site = site

	return c
}

// ToScope converts the selector into a scope. Only type and field selectors
// make valid scopes; others fail when processed.
func (s *Selector) ToScope() Scope {
	return Scope{Target: s.target, Depth: s.depth}
}

func (s *Selector) Target() Target  { return s.target }
func (s *Selector) Scopes() []Scope { return s.scopes }
func (s *Selector) Depth() Depth    { return s.depth }
func (s *Selector) IsLenient() bool { return s.lenient }
func (s *Selector) Site() string    { return s.site }

// Err returns the error found while constructing the selector.
func (s *Selector) Err() error { return s.err }

func (s *Selector) String() string {
	if s.target == nil {
		return "invalid()"
	}

	return describe(s.target.String(), s.scopes, s.depth, s.lenient)
}

func describe(head string, scopes []Scope, depth Depth, lenient bool) string {
	var sb strings.Builder

	sb.WriteString(head)

	if len(scopes) > 0 {
		parts := make([]string, len(scopes))
		for i, sc := range scopes {
			parts[i] = sc.String()
		}

		sb.WriteString(".within(" + strings.Join(parts, ", ") + ")")
	}

	if depth.IsSet() {
		sb.WriteString("." + depth.String())
	}

	if lenient {
		sb.WriteString(".lenient()")
	}

	return sb.String()
}

// Dual selects both T and *T with shared scopes and depth. A match of either
// counts as a match of both.
type Dual struct {
	sel *Selector
}

func (*Dual) isTargetSelector() {}

// NewDual selects values of t and of *t.
func NewDual(t reflect.Type) *Dual {
	return &Dual{sel: All(t)}
}

func (d *Dual) Within(scopes ...Scope) *Dual { return &Dual{sel: d.sel.Within(scopes...)} }
func (d *Dual) AtDepth(n int) *Dual          { return &Dual{sel: d.sel.AtDepth(n)} }
func (d *Dual) Lenient() *Dual               { return &Dual{sel: d.sel.Lenient()} }
func (d *Dual) At(site string) *Dual         { return &Dual{sel: d.sel.At(site)} }

func (d *Dual) String() string {
	if d.sel.target == nil {
		return "invalid()"
	}

	t := d.sel.target.(ClassTarget).Type

	return describe("all("+node.TypeName(t)+", *"+node.TypeName(t)+")", d.sel.scopes, d.sel.depth, d.sel.lenient)
}

// Group combines selectors; it selects what any member selects.
type Group []TargetSelector

func (Group) isTargetSelector() {}

func (g Group) String() string {
	parts := make([]string, len(g))
	for i, s := range g {
		parts[i] = s.String()
	}

	return "group(" + strings.Join(parts, ", ") + ")"
}

// CallerSite returns "file.go:line" of the caller skip frames above the
// function calling CallerSite.
func CallerSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}

	return filepath.Base(file) + ":" + strconv.Itoa(line)
}
