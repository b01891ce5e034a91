package engine

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"fixturegen/internal/assign"
	"fixturegen/internal/common"
	"fixturegen/internal/diagnostic"
	"fixturegen/internal/fail"
	"fixturegen/internal/selector"
	"fixturegen/node"
	"fixturegen/settings"
)

// plan is what the declarations say about one node.
type plan struct {
	ignored  bool
	nullable bool
	// override indexes Config.Overrides, -1 for none.
	override  int
	filters   []func(any) bool
	callbacks []func(any)
	// bindings are the rule actions targeting the node, in declaration order.
	bindings []binding
	// origin is set when a rule reads the value of the node.
	origin bool
}

type binding struct {
	rule, action int
}

type ruleState struct {
	id   int
	rule *assign.Rule
	// origins holds the node matched by each origin selector.
	origins []*node.Node
	// missing is set when an origin matched no generated node; the rule
	// never applies.
	missing bool
}

type usageSource interface {
	Unused() []*selector.Resolved
}

type matchers struct {
	overrides *selector.Map[int]
	ignores   *selector.Map[struct{}]
	nullables *selector.Map[struct{}]
	subtypes  *selector.Map[reflect.Type]
	filters   *selector.Map[int]
	callbacks *selector.Map[int]
	bindings  *selector.Map[binding]
	// origins is indexed by rule, then by origin.
	origins [][]*selector.Map[struct{}]
}

var overrideAPIs = map[assign.ActionKind]selector.API{
	assign.ActionSet:      selector.APISet,
	assign.ActionSupply:   selector.APISupply,
	assign.ActionGenerate: selector.APIGenerate,
}

// declare resolves every selector of the configuration in declaration order.
// All usage errors are collected before returning.
func (e *Engine) declare() (*matchers, error) {
	m := &matchers{
		overrides: selector.NewMap[int](),
		ignores:   selector.NewMap[struct{}](),
		nullables: selector.NewMap[struct{}](),
		subtypes:  selector.NewMap[reflect.Type](),
		filters:   selector.NewMap[int](),
		callbacks: selector.NewMap[int](),
		bindings:  selector.NewMap[binding](),
	}

	var diags diagnostic.Diagnostics

	process := func(raw selector.TargetSelector, api selector.API) []*selector.Resolved {
		rs, err := e.proc.Process(raw, api)
		if err != nil {
			diags.AddError(diagnostic.CodeUsage, err, fmt.Sprint(raw), "")
		}

		return rs
	}

	for i, a := range e.cfg.Overrides {
		api, ok := overrideAPIs[a.Kind]
		if !ok {
			diags.AddError(diagnostic.CodeUsage, fail.Usage("%s cannot be declared without a rule", a.Kind), "", "")

			continue
		}

		if err := validateOverride(a); err != nil {
			diags.AddError(diagnostic.CodeUsage, err, fmt.Sprint(a.Dest), "")

			continue
		}

		for _, r := range process(a.Dest, api) {
			m.overrides.Put(r, i)
		}
	}

	for _, s := range e.cfg.Ignores {
		for _, r := range process(s, selector.APIIgnore) {
			m.ignores.Put(r, struct{}{})
		}
	}

	for _, s := range e.cfg.Nullables {
		for _, r := range process(s, selector.APINullable) {
			m.nullables.Put(r, struct{}{})
		}
	}

	for _, st := range e.cfg.Subtypes {
		if st.Type == nil {
			diags.AddError(diagnostic.CodeUsage, fail.Usage("subtype of %s must not be nil", st.Selector), "", "")

			continue
		}

		for _, r := range process(st.Selector, selector.APISubtype) {
			m.subtypes.Put(r, st.Type)
		}
	}

	for i, f := range e.cfg.Filters {
		if f.Accept == nil {
			diags.AddError(diagnostic.CodeUsage, fail.Usage("filter for %s must not be nil", f.Selector), "", "")

			continue
		}

		for _, r := range process(f.Selector, selector.APIFilter) {
			m.filters.Put(r, i)
		}
	}

	for i, c := range e.cfg.Callbacks {
		if c.Fn == nil {
			diags.AddError(diagnostic.CodeUsage, fail.Usage("callback for %s must not be nil", c.Selector), "", "")

			continue
		}

		for _, r := range process(c.Selector, selector.APIOnComplete) {
			m.callbacks.Put(r, i)
		}
	}

	m.origins = make([][]*selector.Map[struct{}], len(e.cfg.Rules))

	for ri, rule := range e.cfg.Rules {
		if rule == nil {
			diags.AddError(diagnostic.CodeUsage, fail.Usage("assignment must not be nil"), "", "")

			continue
		}

		if err := rule.Validate(); err != nil {
			diags.AddError(diagnostic.CodeUsage, err, "", rule.Site)

			continue
		}

		m.origins[ri] = make([]*selector.Map[struct{}], len(rule.Origins))

		for oi, o := range rule.Origins {
			om := selector.NewMap[struct{}]()
			for _, r := range process(o, selector.APIGiven) {
				om.Put(r, struct{}{})
			}

			m.origins[ri][oi] = om
			e.used = append(e.used, om)
		}

		for ai, a := range rule.Actions {
			for _, r := range process(a.Dest, selector.APIAssign) {
				m.bindings.Put(r, binding{rule: ri, action: ai})
			}
		}
	}

	e.used = append(e.used, m.overrides, m.ignores, m.nullables, m.subtypes, m.filters, m.callbacks, m.bindings)

	return m, diags.Err()
}

func validateOverride(a assign.Action) error {
	switch {
	case a.Dest == nil:
		return fail.Usage("%s: selector must not be nil", a.Kind)
	case a.Kind == assign.ActionGenerate && a.Spec == nil:
		return fail.Usage("generate %s: generator must not be nil", a.Dest)
	case a.Kind == assign.ActionSupply && a.Supply == nil:
		return fail.Usage("supply %s: function must not be nil", a.Dest)
	}

	return nil
}

// match attaches the declarations to the nodes of the tree and resolves the
// origin node of every rule.
func (e *Engine) match(m *matchers) error {
	e.plans = make([]*plan, e.tree.Len())

	for _, n := range e.tree.Nodes {
		p := &plan{override: -1}

		_, p.ignored = m.ignores.Get(n)
		if n.Parent != nil && e.plans[n.Parent.ID].ignored {
			p.ignored = true
		}

		_, p.nullable = m.nullables.Get(n)

		if i, ok := m.overrides.Get(n); ok {
			p.override = i
		}

		for _, i := range m.filters.GetAll(n) {
			p.filters = append(p.filters, e.cfg.Filters[i].Accept)
		}

		for _, i := range m.callbacks.GetAll(n) {
			p.callbacks = append(p.callbacks, e.cfg.Callbacks[i].Fn)
		}

		p.bindings = m.bindings.GetAll(n)
		sort.Slice(p.bindings, func(i, j int) bool {
			a, b := p.bindings[i], p.bindings[j]
			if a.rule != b.rule {
				return a.rule < b.rule
			}

			return a.action < b.action
		})

		e.plans[n.ID] = p
	}

	e.rules = make([]*ruleState, len(e.cfg.Rules))

	for ri, rule := range e.cfg.Rules {
		rs := &ruleState{id: ri, rule: rule, origins: make([]*node.Node, len(rule.Origins))}
		e.rules[ri] = rs

		for oi, om := range m.origins[ri] {
			var found, ignored []*node.Node

			for _, n := range e.tree.Nodes {
				switch {
				case common.IsEmpty(om.GetAll(n)):
				case e.plans[n.ID].ignored:
					ignored = append(ignored, n)
				default:
					found = append(found, n)
				}
			}

			// an ignored origin is never recorded, its destinations stay delayed
			if common.IsEmpty(found) {
				found = ignored
			}

			switch {
			case common.IsEmpty(found):
				rs.missing = true

				e.diags.AddInfo(diagnostic.CodeUnresolved,
					"assignment origin matched no generated node", rule.Origins[oi].String(), rule.Site)
			case common.IsSingle(found):
				rs.origins[oi] = found[0]
				e.plans[found[0].ID].origin = true
			default:
				paths := make([]string, len(found))
				for i, n := range found {
					paths[i] = n.Path()
				}

				return &fail.AmbiguousOriginError{Origin: rule.Origins[oi].String(), Matches: paths}
			}
		}
	}

	return e.checkSelfReference()
}

func (e *Engine) checkSelfReference() error {
	for _, n := range e.tree.Nodes {
		for _, b := range e.plans[n.ID].bindings {
			rs := e.rules[b.rule]

			for oi, o := range rs.origins {
				if o != n {
					continue
				}

				return &fail.UnresolvedAssignmentError{
					Reason: fmt.Sprintf("%s: origin %s selects its own destination %s",
						rs.rule, rs.rule.Origins[oi], n.Path()),
					Links: []fail.Link{{
						Origin:      rs.rule.Origins[oi].String(),
						Destination: rs.rule.Actions[b.action].Dest.String(),
					}},
				}
			}
		}
	}

	return nil
}

// checkUnused fails in strict mode when a selector matched no node. In
// lenient mode unused selectors are only reported as warnings.
func (e *Engine) checkUnused(ctx context.Context) error {
	var unused []*selector.Resolved

	for _, src := range e.used {
		unused = append(unused, src.Unused()...)
	}

	if len(unused) == 0 {
		return nil
	}

	sort.Slice(unused, func(i, j int) bool { return unused[i].ID < unused[j].ID })

	type sourceKey struct {
		api selector.API
		src selector.TargetSelector
	}

	seen := make(map[sourceKey]bool)
	strict := settings.Get(e.cfg.Settings, settings.Mode) == settings.ModeStrict && !e.cfg.Lenient
	err := &fail.UnusedSelectorError{}

	for _, r := range unused {
		// both halves of a dual selector share one source
		k := sourceKey{api: r.API, src: r.Source}
		if seen[k] {
			continue
		}

		seen[k] = true

		if strict {
			err.Selectors = append(err.Selectors, fail.UnusedSelector{API: r.API.String(), Selector: r.String(), Site: r.Site})
		} else {
			e.diags.AddWarning(diagnostic.CodeUnusedSelector, r.API.String()+"(): selector matched no node", r.String(), r.Site)
		}
	}

	if !strict {
		e.log.DebugContext(ctx, "ignoring unused selectors", slog.Int("count", len(seen)))

		return nil
	}

	return err
}
