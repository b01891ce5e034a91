package selector

import (
	"reflect"
	"regexp"
	"strings"

	"fixturegen/internal/annotation"
	"fixturegen/internal/fail"
	"fixturegen/node"
)

// PriorityEnum orders matching predicate selectors; lower wins.
type PriorityEnum int

const (
	PriorityField PriorityEnum = 1
	PriorityType  PriorityEnum = 2
)

// PredicateSelector selects nodes accepted by a compiled predicate.
type PredicateSelector struct {
	Priority    PriorityEnum
	Match       func(n *node.Node) bool
	Description string
	scopes      []Scope
	depth       Depth
	lenient     bool
	site        string
	err         error
}

func (*PredicateSelector) isTargetSelector() {}

// FieldPredicate selects struct fields accepted by pred.
func FieldPredicate(pred func(f reflect.StructField) bool) *PredicateSelector {
	return &PredicateSelector{
		Priority:    PriorityField,
		Description: "fields(<predicate>)",
		Match: func(n *node.Node) bool {
			return n.Field != nil && pred(*n.Field)
		},
	}
}

// TypePredicate selects nodes whose target type is accepted by pred.
func TypePredicate(pred func(t reflect.Type) bool) *PredicateSelector {
	return &PredicateSelector{
		Priority:    PriorityType,
		Description: "types(<predicate>)",
		Match: func(n *node.Node) bool {
			return pred(n.TargetType)
		},
	}
}

func (p *PredicateSelector) clone() *PredicateSelector {
	c := *p
	c.scopes = append([]Scope(nil), p.scopes...)

	return &c
}

func (p *PredicateSelector) Within(scopes ...Scope) *PredicateSelector {
	c := p.clone()
	c.scopes = append(c.scopes, scopes...)

	return c
}

func (p *PredicateSelector) AtDepth(d int) *PredicateSelector {
	c := p.clone()
	c.depth = AtDepth(d)

	return c
}

func (p *PredicateSelector) Lenient() *PredicateSelector {
	c := p.clone()
	c.lenient = true

	return c
}

func (p *PredicateSelector) At(site string) *PredicateSelector {
	c := p.clone()
	c.site = site

	return c
}

func (p *PredicateSelector) Build() *PredicateSelector { return p }

// Err returns the error found while building the selector.
func (p *PredicateSelector) Err() error { return p.err }

func (p *PredicateSelector) String() string {
	return describe(p.Description, p.scopes, p.depth, p.lenient)
}

// builder accumulates ANDed conditions.
type builder struct {
	conds []func(*node.Node) bool
	descs []string
	depth Depth
	scope []Scope
	lax   bool
	site  string
	err   error
}

func (b builder) with(desc string, cond func(*node.Node) bool) builder {
	b.conds = append(append([]func(*node.Node) bool(nil), b.conds...), cond)
	b.descs = append(append([]string(nil), b.descs...), desc)

	return b
}

func (b builder) build(kind string, priority PriorityEnum, base func(*node.Node) bool) *PredicateSelector {
	conds := b.conds

	desc := kind + "()"
	if len(b.descs) > 0 {
		desc += "." + strings.Join(b.descs, ".")
	}

	return &PredicateSelector{
		Priority:    priority,
		Description: desc,
		err:         b.err,
		scopes:      b.scope,
		depth:       b.depth,
		lenient:     b.lax,
		site:        b.site,
		Match: func(n *node.Node) bool {
			if !base(n) {
				return false
			}

			for _, c := range conds {
				if !c(n) {
					return false
				}
			}

			return true
		},
	}
}

// FieldsBuilder builds a field predicate selector.
type FieldsBuilder struct{ b builder }

// Fields starts a field predicate selector. With no conditions it selects
// every field.
func Fields() *FieldsBuilder { return &FieldsBuilder{} }

func (*FieldsBuilder) isTargetSelector() {}

func (f *FieldsBuilder) Named(name string) *FieldsBuilder {
	return &FieldsBuilder{f.b.with("named("+name+")", func(n *node.Node) bool {
		return n.Field.Name == name
	})}
}

// Matching selects fields whose name matches the regular expression.
func (f *FieldsBuilder) Matching(expr string) *FieldsBuilder {
	re, err := regexp.Compile(expr)
	if err != nil {
		b := f.b
		b.err = fail.Usage("fields().matching: %v", err)

		return &FieldsBuilder{b}
	}

	return &FieldsBuilder{f.b.with("matching("+expr+")", func(n *node.Node) bool {
		return re.MatchString(n.Field.Name)
	})}
}

func (f *FieldsBuilder) OfType(t reflect.Type) *FieldsBuilder {
	return &FieldsBuilder{f.b.with("ofType("+node.TypeName(t)+")", func(n *node.Node) bool {
		return n.Field.Type == t
	})}
}

func (f *FieldsBuilder) DeclaredIn(t reflect.Type) *FieldsBuilder {
	return &FieldsBuilder{f.b.with("declaredIn("+node.TypeName(t)+")", func(n *node.Node) bool {
		return n.DeclaringType() == t
	})}
}

// WithTag selects fields carrying the struct tag key.
func (f *FieldsBuilder) WithTag(key string) *FieldsBuilder {
	return &FieldsBuilder{f.b.with("withTag("+key+")", func(n *node.Node) bool {
		_, ok := n.Field.Tag.Lookup(key)

		return ok
	})}
}

// Annotated selects fields whose tag key holds the directive, e.g.
// Annotated("validate", "email").
func (f *FieldsBuilder) Annotated(key, directive string) *FieldsBuilder {
	return &FieldsBuilder{f.b.with("annotated("+key+":"+directive+")", func(n *node.Node) bool {
		tags, err := annotation.Parse(n.Field.Tag, key)

		return err == nil && tags.Has(key, directive)
	})}
}

func (f *FieldsBuilder) Within(scopes ...Scope) *FieldsBuilder {
	b := f.b
	b.scope = append(append([]Scope(nil), b.scope...), scopes...)

	return &FieldsBuilder{b}
}

func (f *FieldsBuilder) AtDepth(d int) *FieldsBuilder {
	b := f.b
	b.depth = AtDepth(d)

	return &FieldsBuilder{b}
}

func (f *FieldsBuilder) Lenient() *FieldsBuilder {
	b := f.b
	b.lax = true

	return &FieldsBuilder{b}
}

func (f *FieldsBuilder) At(site string) *FieldsBuilder {
	b := f.b
	b.site = site

	return &FieldsBuilder{b}
}

func (f *FieldsBuilder) Build() *PredicateSelector {
	return f.b.build("fields", PriorityField, func(n *node.Node) bool { return n.Field != nil })
}

func (f *FieldsBuilder) String() string { return f.Build().String() }

// TypesBuilder builds a type predicate selector.
type TypesBuilder struct{ b builder }

// Types starts a type predicate selector over node target types.
func Types() *TypesBuilder { return &TypesBuilder{} }

func (*TypesBuilder) isTargetSelector() {}

// Of selects types assignable to t.
func (tb *TypesBuilder) Of(t reflect.Type) *TypesBuilder {
	return &TypesBuilder{tb.b.with("of("+node.TypeName(t)+")", func(n *node.Node) bool {
		return n.TargetType.AssignableTo(t)
	})}
}

func (tb *TypesBuilder) Kind(k reflect.Kind) *TypesBuilder {
	return &TypesBuilder{tb.b.with("kind("+k.String()+")", func(n *node.Node) bool {
		return n.TargetType.Kind() == k
	})}
}

func (tb *TypesBuilder) Excluding(t reflect.Type) *TypesBuilder {
	return &TypesBuilder{tb.b.with("excluding("+node.TypeName(t)+")", func(n *node.Node) bool {
		return n.TargetType != t
	})}
}

// InPackage selects named types declared in the package path.
func (tb *TypesBuilder) InPackage(pkgPath string) *TypesBuilder {
	return &TypesBuilder{tb.b.with("inPackage("+pkgPath+")", func(n *node.Node) bool {
		return n.TargetType.PkgPath() == pkgPath
	})}
}

func (tb *TypesBuilder) Within(scopes ...Scope) *TypesBuilder {
	b := tb.b
	b.scope = append(append([]Scope(nil), b.scope...), scopes...)

	return &TypesBuilder{b}
}

func (tb *TypesBuilder) AtDepth(d int) *TypesBuilder {
	b := tb.b
	b.depth = AtDepth(d)

	return &TypesBuilder{b}
}

func (tb *TypesBuilder) Lenient() *TypesBuilder {
	b := tb.b
	b.lax = true

	return &TypesBuilder{b}
}

func (tb *TypesBuilder) At(site string) *TypesBuilder {
	b := tb.b
	b.site = site

	return &TypesBuilder{b}
}

func (tb *TypesBuilder) Build() *PredicateSelector {
	return tb.b.build("types", PriorityType, func(*node.Node) bool { return true })
}

func (tb *TypesBuilder) String() string { return tb.Build().String() }
