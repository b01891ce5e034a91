package selector

import (
	"errors"
	"reflect"

	"fixturegen/internal/common"
	"fixturegen/internal/fail"
	"fixturegen/node"
)

// API names the builder method a selector was passed to.
type API int

const (
	APISet API = iota
	APISupply
	APIGenerate
	APIIgnore
	APINullable
	APISubtype
	APIFilter
	APIOnComplete
	APIGiven
	APIAssign
)

var apiNames = [...]string{
	APISet:        "Set",
	APISupply:     "Supply",
	APIGenerate:   "Generate",
	APIIgnore:     "Ignore",
	APINullable:   "WithNullable",
	APISubtype:    "Subtype",
	APIFilter:     "Filter",
	APIOnComplete: "OnComplete",
	APIGiven:      "Given",
	APIAssign:     "Assign",
}

func (a API) String() string {
	if a < 0 || int(a) >= len(apiNames) {
		return common.UnknownStr
	}

	return apiNames[a]
}

type usage struct {
	matched bool
}

// Resolved is a selector bound to a root type, ready for matching.
type Resolved struct {
	// ID is the declaration order across one processor.
	ID  int
	API API
	// Target is nil for predicate selectors.
	Target    Target
	Predicate *PredicateSelector
	Scopes    []Scope
	Depth     Depth
	Lenient   bool
	Site      string
	// Source is the selector as declared.
	Source TargetSelector
	usage  *usage
}

func (r *Resolved) IsPredicate() bool { return r.Predicate != nil }

// Priority is zero for regular selectors, which outrank every predicate.
func (r *Resolved) Priority() PriorityEnum {
	if r.Predicate == nil {
		return 0
	}

	return r.Predicate.Priority
}

// Matches reports whether r selects n, without recording usage.
func (r *Resolved) Matches(n *node.Node) bool {
	if r.Predicate != nil {
		if !r.Predicate.Match(n) {
			return false
		}
	} else if !matchesTarget(r.Target, n) {
		return false
	}

	return r.Depth.Matches(n.Depth) && scopesMatch(r.Scopes, n)
}

// MarkUsed records a match; dual partners share the record.
func (r *Resolved) MarkUsed() { r.usage.matched = true }

func (r *Resolved) Used() bool { return r.usage.matched }

func (r *Resolved) String() string {
	var head string
	if r.Predicate != nil {
		head = r.Predicate.Description
	} else {
		head = r.Target.String()
	}

	return describe(head, r.Scopes, r.Depth, r.Lenient)
}

// scopesMatch walks from n towards the root, consuming scopes innermost
// first. Every scope must match a distinct node on the way.
func scopesMatch(scopes []Scope, n *node.Node) bool {
	i := len(scopes) - 1

	for cur := n; cur != nil && i >= 0; cur = cur.Parent {
		if scopes[i].matches(cur) {
			i--
		}
	}

	return i < 0
}

// Processor resolves raw selectors against a root type.
type Processor struct {
	root       reflect.Type
	methodMode bool
	seq        int
}

func NewProcessor(root reflect.Type, methodMode bool) *Processor {
	return &Processor{root: root, methodMode: methodMode}
}

// Process flattens groups, expands dual selectors, compiles predicate
// builders and resolves targets and scopes against the root type.
func (p *Processor) Process(raw TargetSelector, api API) ([]*Resolved, error) {
	switch s := raw.(type) {
	case nil:
		return nil, fail.Usage("%s: selector must not be nil", api)

	case *Selector:
		if s.err != nil {
			return nil, withSite(s.err, s.site)
		}

		r, err := p.resolve(s, api)
		if err != nil {
			return nil, withSite(err, s.site)
		}

		return []*Resolved{r}, nil

	case *Dual:
		if s.sel.err != nil {
			return nil, withSite(s.sel.err, s.sel.site)
		}

		t := s.sel.target.(ClassTarget).Type

		value, err := p.resolve(s.sel, api)
		if err != nil {
			return nil, withSite(err, s.sel.site)
		}

		ptr := *value
		ptr.Target = ClassTarget{Type: reflect.PointerTo(t)}
		p.seq++
		ptr.ID = p.seq

		return []*Resolved{value, &ptr}, nil

	case Group:
		if len(s) == 0 {
			return nil, fail.Usage("%s: empty selector group", api)
		}

		var out []*Resolved

		for _, member := range s {
			rs, err := p.Process(member, api)
			if err != nil {
				return nil, err
			}

			out = append(out, rs...)
		}

		return out, nil

	case PredicateBuilder:
		ps := s.Build()
		if ps.err != nil {
			return nil, withSite(ps.err, ps.site)
		}

		scopes, err := p.resolveScopes(ps.scopes)
		if err != nil {
			return nil, withSite(err, ps.site)
		}

		p.seq++

		return []*Resolved{{
			ID:        p.seq,
			API:       api,
			Predicate: ps,
			Scopes:    scopes,
			Depth:     ps.depth,
			Lenient:   ps.lenient,
			Site:      ps.site,
			Source:    raw,
			usage:     &usage{},
		}}, nil
	}

	return nil, fail.Usage("%s: unsupported selector %T", api, raw)
}

func (p *Processor) resolve(s *Selector, api API) (*Resolved, error) {
	target, err := s.target.WithRootType(p.root)
	if err != nil {
		return nil, err
	}

	if _, ok := target.(SetterTarget); ok && !p.methodMode {
		return nil, fail.Usage("%s: %s requires method assignment mode", api, target)
	}

	scopes, err := p.resolveScopes(s.scopes)
	if err != nil {
		return nil, err
	}

	p.seq++

	return &Resolved{
		ID:      p.seq,
		API:     api,
		Target:  target,
		Scopes:  scopes,
		Depth:   s.depth,
		Lenient: s.lenient,
		Site:    s.site,
		Source:  s,
		usage:   &usage{},
	}, nil
}

func (p *Processor) resolveScopes(scopes []Scope) ([]Scope, error) {
	out := make([]Scope, 0, len(scopes))

	for _, sc := range scopes {
		if sc.Target == nil {
			return nil, fail.Usage("scope without a target")
		}

		target, err := sc.Target.WithRootType(p.root)
		if err != nil {
			return nil, err
		}

		switch target.(type) {
		case ClassTarget, FieldTarget:
		default:
			return nil, fail.Usage("%s cannot be used as a scope", target)
		}

		out = append(out, Scope{Target: target, Depth: sc.Depth})
	}

	return out, nil
}

func withSite(err error, site string) error {
	var ue *fail.UsageError
	if site != "" && errors.As(err, &ue) && ue.Site == "" {
		return ue.At(site)
	}

	return err
}
