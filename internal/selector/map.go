package selector

import (
	"reflect"
	"slices"

	"fixturegen/node"
)

type memberKey struct {
	decl reflect.Type
	name string
}

type entry[V any] struct {
	sel   *Resolved
	value V
}

// Map answers which selector applies to a node. Regular selectors are
// indexed by type, field and setter; predicate selectors are scanned.
type Map[V any] struct {
	byType     map[reflect.Type][]*entry[V]
	byField    map[memberKey][]*entry[V]
	bySetter   map[memberKey][]*entry[V]
	root       []*entry[V]
	predicates []*entry[V]
	all        []*entry[V]
}

func NewMap[V any]() *Map[V] {
	return &Map[V]{
		byType:   make(map[reflect.Type][]*entry[V]),
		byField:  make(map[memberKey][]*entry[V]),
		bySetter: make(map[memberKey][]*entry[V]),
	}
}

// Put adds a resolved selector. Selectors must be put in declaration order.
func (m *Map[V]) Put(sel *Resolved, value V) {
	e := &entry[V]{sel: sel, value: value}
	m.all = append(m.all, e)

	if sel.Predicate != nil {
		m.predicates = append(m.predicates, e)

		return
	}

	switch t := sel.Target.(type) {
	case ClassTarget:
		m.byType[t.Type] = append(m.byType[t.Type], e)
	case FieldTarget:
		k := memberKey{decl: t.Decl, name: t.Field}
		m.byField[k] = append(m.byField[k], e)
	case SetterTarget:
		k := memberKey{decl: t.Decl, name: t.Method}
		m.bySetter[k] = append(m.bySetter[k], e)
	case RootTarget:
		m.root = append(m.root, e)
	}
}

func (m *Map[V]) Len() int { return len(m.all) }

// candidates returns the regular entries that may select n: type entries
// first, then field, setter and root entries, each in declaration order.
func (m *Map[V]) candidates(n *node.Node) []*entry[V] {
	out := slices.Clone(m.byType[n.Type])
	if n.TargetType != n.Type {
		out = append(out, m.byType[n.TargetType]...)
		slices.SortStableFunc(out, func(a, b *entry[V]) int { return a.sel.ID - b.sel.ID })
	}

	if decl := n.DeclaringType(); decl != nil {
		if n.Field != nil {
			out = append(out, m.byField[memberKey{decl: decl, name: n.Field.Name}]...)
		}

		if n.Setter != nil {
			out = append(out, m.bySetter[memberKey{decl: decl, name: n.Setter.Name}]...)
		}
	}

	if n.IsRoot() {
		out = append(out, m.root...)
	}

	return out
}

// Get returns the value of the selector applying to n and marks it used.
// Regular selectors outrank predicate selectors. Among regular selectors,
// member selectors beat type selectors and the last declared wins. Among
// predicates, field predicates beat type predicates and the last declared
// wins.
func (m *Map[V]) Get(n *node.Node) (V, bool) {
	if e := m.lookup(n); e != nil {
		e.sel.MarkUsed()

		return e.value, true
	}

	var zero V

	return zero, false
}

// Selector returns the selector Get would use for n, without marking it.
func (m *Map[V]) Selector(n *node.Node) (*Resolved, bool) {
	if e := m.lookup(n); e != nil {
		return e.sel, true
	}

	return nil, false
}

func (m *Map[V]) lookup(n *node.Node) *entry[V] {
	candidates := m.candidates(n)
	for i := len(candidates) - 1; i >= 0; i-- {
		if candidates[i].sel.Matches(n) {
			return candidates[i]
		}
	}

	var best *entry[V]

	for i := len(m.predicates) - 1; i >= 0; i-- {
		e := m.predicates[i]
		if best != nil && e.sel.Priority() >= best.sel.Priority() {
			continue
		}

		if e.sel.Matches(n) {
			best = e
		}
	}

	return best
}

// GetAll returns the values of every selector matching n in declaration
// order, regular selectors first, and marks them used.
func (m *Map[V]) GetAll(n *node.Node) []V {
	var out []V

	for _, e := range m.candidates(n) {
		if e.sel.Matches(n) {
			e.sel.MarkUsed()
			out = append(out, e.value)
		}
	}

	for _, e := range m.predicates {
		if e.sel.Matches(n) {
			e.sel.MarkUsed()
			out = append(out, e.value)
		}
	}

	return out
}

// Selectors returns every selector in declaration order.
func (m *Map[V]) Selectors() []*Resolved {
	out := make([]*Resolved, len(m.all))
	for i, e := range m.all {
		out[i] = e.sel
	}

	return out
}

// Unused returns the non-lenient selectors that matched no node.
func (m *Map[V]) Unused() []*Resolved {
	var out []*Resolved

	for _, e := range m.all {
		if !e.sel.Used() && !e.sel.Lenient {
			out = append(out, e.sel)
		}
	}

	return out
}

// Matched reports whether sel matched at least one node.
func (m *Map[V]) Matched(sel *Resolved) bool { return sel.Used() }
