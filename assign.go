package fixturegen

import (
	"reflect"

	"fixturegen/generator"
	"fixturegen/internal/assign"
	"fixturegen/internal/fail"
	"fixturegen/internal/selector"
	"fixturegen/primitive"
	"fixturegen/random"
)

// Assignment is a declaration passed to Builder.Assign.
type Assignment interface {
	rules() ([]*assign.Rule, error)
}

// GivenBuilder applies its actions when the origin values satisfy a
// condition. Without a condition the actions apply once the origins have
// been generated.
type GivenBuilder struct {
	origins   []selector.TargetSelector
	condition assign.Condition
	actions   []assign.Action
	site      string
	err       error
}

// Given starts an assignment conditioned on the value of one origin.
func Given(origin TargetSelector) *GivenBuilder {
	return &GivenBuilder{origins: []selector.TargetSelector{origin}, site: selector.CallerSite(1)}
}

// GivenAll starts an assignment conditioned on the values of several origins,
// passed to Satisfy in declaration order.
func GivenAll(origins ...TargetSelector) *GivenBuilder {
	g := &GivenBuilder{origins: origins, site: selector.CallerSite(1)}
	if len(origins) == 0 {
		g.err = fail.Usage("GivenAll requires at least one origin").At(g.site)
	}

	return g
}

// Is applies the assignment when the origin equals value.
func (g *GivenBuilder) Is(value any) *GivenBuilder {
	return g.Satisfies(func(v any) bool { return equal(v, value) })
}

// IsIn applies the assignment when the origin equals one of values.
func (g *GivenBuilder) IsIn(values ...any) *GivenBuilder {
	return g.Satisfies(func(v any) bool {
		for _, want := range values {
			if equal(v, want) {
				return true
			}
		}

		return false
	})
}

// Satisfies applies the assignment when pred holds for the first origin.
func (g *GivenBuilder) Satisfies(pred func(v any) bool) *GivenBuilder {
	if pred == nil {
		g.fail("Satisfies: predicate must not be nil")

		return g
	}

	return g.Satisfy(func(values []any) bool { return pred(values[0]) })
}

// Satisfy applies the assignment when pred holds for the origin values.
func (g *GivenBuilder) Satisfy(pred func(values []any) bool) *GivenBuilder {
	if g.condition != nil {
		g.fail("condition already set")

		return g
	}

	g.condition = pred

	return g
}

// Set stores value in dest.
func (g *GivenBuilder) Set(dest TargetSelector, value any) *GivenBuilder {
	return g.add(assign.Action{Kind: assign.ActionSet, Dest: dest, Value: value})
}

// Generate generates dest with spec.
func (g *GivenBuilder) Generate(dest TargetSelector, spec generator.Generator) *GivenBuilder {
	return g.add(assign.Action{Kind: assign.ActionGenerate, Dest: dest, Spec: spec})
}

// Supply stores the result of fn in dest.
func (g *GivenBuilder) Supply(dest TargetSelector, fn func(r *random.Random) any) *GivenBuilder {
	return g.add(assign.Action{Kind: assign.ActionSupply, Dest: dest, Supply: fn})
}

func (g *GivenBuilder) add(a assign.Action) *GivenBuilder {
	g.actions = append(g.actions, a)

	return g
}

func (g *GivenBuilder) fail(msg string) {
	if g.err == nil {
		g.err = fail.Usage("%s", msg).At(g.site)
	}
}

func (g *GivenBuilder) rules() ([]*assign.Rule, error) {
	if g.err != nil {
		return nil, g.err
	}

	r := &assign.Rule{
		Origins:   g.origins,
		Condition: g.condition,
		Actions:   g.actions,
		Site:      g.site,
	}

	return []*assign.Rule{r}, r.Validate()
}

// DestBuilder assigns one destination from a chain of conditions on one
// origin. The first condition that holds decides the value.
type DestBuilder struct {
	origin, dest selector.TargetSelector
	branches     []branch
	pending      func(v any) bool
	site         string
	err          error
}

type branch struct {
	when   func(v any) bool
	action assign.Action
}

// GivenDest starts a conditional assignment of dest from origin.
func GivenDest(origin, dest TargetSelector) *DestBuilder {
	return &DestBuilder{origin: origin, dest: dest, site: selector.CallerSite(1)}
}

// When sets the condition of the next Set, Generate or Supply.
func (d *DestBuilder) When(pred func(v any) bool) *DestBuilder {
	if pred == nil || d.pending != nil {
		d.fail("When must be followed by Set, Generate or Supply and take a predicate")

		return d
	}

	d.pending = pred

	return d
}

func (d *DestBuilder) Set(value any) *DestBuilder {
	return d.add(assign.Action{Kind: assign.ActionSet, Dest: d.dest, Value: value})
}

func (d *DestBuilder) Generate(spec generator.Generator) *DestBuilder {
	return d.add(assign.Action{Kind: assign.ActionGenerate, Dest: d.dest, Spec: spec})
}

func (d *DestBuilder) Supply(fn func(r *random.Random) any) *DestBuilder {
	return d.add(assign.Action{Kind: assign.ActionSupply, Dest: d.dest, Supply: fn})
}

// ElseSet stores value when no condition holds.
func (d *DestBuilder) ElseSet(value any) *DestBuilder {
	if d.pending != nil {
		d.fail("ElseSet after When without a value")

		return d
	}

	d.pending = func(any) bool { return true }

	return d.Set(value)
}

func (d *DestBuilder) add(a assign.Action) *DestBuilder {
	if d.pending == nil {
		d.fail("value without a preceding When")

		return d
	}

	d.branches = append(d.branches, branch{when: d.pending, action: a})
	d.pending = nil

	return d
}

func (d *DestBuilder) fail(msg string) {
	if d.err == nil {
		d.err = fail.Usage("GivenDest(%s, %s): %s", d.origin, d.dest, msg).At(d.site)
	}
}

// rules returns one rule per branch. A branch applies only when no earlier
// branch does, so at most one rule holds for a given origin value.
func (d *DestBuilder) rules() ([]*assign.Rule, error) {
	if d.err != nil {
		return nil, d.err
	}

	if d.pending != nil {
		return nil, fail.Usage("GivenDest(%s, %s): When without a value", d.origin, d.dest).At(d.site)
	}

	if len(d.branches) == 0 {
		return nil, fail.Usage("GivenDest(%s, %s): no value", d.origin, d.dest).At(d.site)
	}

	out := make([]*assign.Rule, len(d.branches))

	for i, b := range d.branches {
		earlier := d.branches[:i]
		when := b.when

		r := &assign.Rule{
			Origins: []selector.TargetSelector{d.origin},
			Condition: func(values []any) bool {
				for _, e := range earlier {
					if e.when(values[0]) {
						return false
					}
				}

				return when(values[0])
			},
			Actions: []assign.Action{b.action},
			Site:    d.site,
		}

		if err := r.Validate(); err != nil {
			return nil, err
		}

		out[i] = r
	}

	return out, nil
}

// ValueOfBuilder either copies the value of a node into another, or assigns
// the node unconditionally.
type ValueOfBuilder struct {
	sel    selector.TargetSelector
	dest   selector.TargetSelector
	mapFn  func(v any) any
	action *assign.Action
	site   string
}

// ValueOf starts an assignment of sel, or a copy from sel with To.
func ValueOf(sel TargetSelector) *ValueOfBuilder {
	return &ValueOfBuilder{sel: sel, site: selector.CallerSite(1)}
}

// To copies the value of the origin into dest.
func (v *ValueOfBuilder) To(dest TargetSelector) *ValueOfBuilder {
	v.dest = dest

	return v
}

// As transforms the copied value with fn.
func (v *ValueOfBuilder) As(fn func(v any) any) *ValueOfBuilder {
	v.mapFn = fn

	return v
}

// Set assigns value to the selected nodes.
func (v *ValueOfBuilder) Set(value any) *ValueOfBuilder {
	v.action = &assign.Action{Kind: assign.ActionSet, Dest: v.sel, Value: value}

	return v
}

func (v *ValueOfBuilder) Generate(spec generator.Generator) *ValueOfBuilder {
	v.action = &assign.Action{Kind: assign.ActionGenerate, Dest: v.sel, Spec: spec}

	return v
}

func (v *ValueOfBuilder) Supply(fn func(r *random.Random) any) *ValueOfBuilder {
	v.action = &assign.Action{Kind: assign.ActionSupply, Dest: v.sel, Supply: fn}

	return v
}

func (v *ValueOfBuilder) rules() ([]*assign.Rule, error) {
	var r *assign.Rule

	switch {
	case v.dest != nil && v.action != nil:
		return nil, fail.Usage("ValueOf(%s): To cannot be combined with a value", v.sel).At(v.site)

	case v.dest != nil:
		r = &assign.Rule{
			Origins: []selector.TargetSelector{v.sel},
			Actions: []assign.Action{{Kind: assign.ActionCopy, Dest: v.dest, Map: v.mapFn}},
		}

	case v.action != nil:
		if v.mapFn != nil {
			return nil, fail.Usage("ValueOf(%s): As requires To", v.sel).At(v.site)
		}

		r = &assign.Rule{Actions: []assign.Action{*v.action}}

	default:
		return nil, fail.Usage("ValueOf(%s): no destination", v.sel).At(v.site)
	}

	r.Site = v.site

	return []*assign.Rule{r}, r.Validate()
}

// equal compares an origin value with an expected one, converting the
// expected value to the origin type when the conversion is lossless.
func equal(got, want any) bool {
	gv, wv := reflect.ValueOf(got), reflect.ValueOf(want)

	if !wv.IsValid() {
		return !gv.IsValid() || isNil(gv)
	}

	if !gv.IsValid() {
		return false
	}

	if wv.Type() != gv.Type() {
		if cv, err := primitive.Convert(wv, gv.Type(), primitive.CategoryExplicit); err == nil {
			wv = cv
		}
	}

	if wv.Type() == gv.Type() && gv.Type().Comparable() {
		return gv.Equal(wv)
	}

	return reflect.DeepEqual(got, want)
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
