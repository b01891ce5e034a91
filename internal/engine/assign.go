package engine

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strconv"
	"strings"

	"fixturegen/internal/assign"
	"fixturegen/internal/fail"
	"fixturegen/node"
)

// record is an origin value seen by the frames above it.
type record struct {
	value any
	seq   int
}

// pending is a delayed node waiting for origin values.
type pending struct {
	node  *node.Node
	frame *frame
	dst   reflect.Value
	// epoch is the origin record count at the last attempt.
	epoch int
}

type memoKey struct {
	rule int
	seqs string
}

// record stores the value of origin node n on its own frame and every
// enclosing frame.
func (e *Engine) record(n *node.Node, f *frame, v reflect.Value) {
	e.seq++
	rec := &record{value: valueOf(v), seq: e.seq}

	for fr := f; fr != nil; fr = fr.parent {
		if fr.records == nil {
			fr.records = make(map[int]*record)
		}

		fr.records[n.ID] = rec
	}

	e.epoch++
}

// lookup finds the value of origin o visible from frame f: the record held
// by the nearest enclosing instance of a common ancestor.
func lookup(f *frame, o *node.Node) *record {
	for fr := f; fr != nil; fr = fr.parent {
		if o.HasAncestor(fr.node) {
			return fr.records[o.ID]
		}
	}

	return nil
}

// evaluate reports whether the rule holds for the destination at frame f.
// ready is false while an origin value is missing. Outcomes are memoized per
// combination of origin records so that every action of a rule agrees.
func (e *Engine) evaluate(rs *ruleState, f *frame) (holds bool, values []any, ready bool, err error) {
	if rs.rule.IsUnconditional() {
		return true, nil, true, nil
	}

	values = make([]any, len(rs.origins))
	seqs := make([]string, len(rs.origins))

	for i, o := range rs.origins {
		rec := lookup(f, o)
		if rec == nil {
			return false, nil, false, nil
		}

		values[i] = rec.value
		seqs[i] = strconv.Itoa(rec.seq)
	}

	key := memoKey{rule: rs.id, seqs: strings.Join(seqs, ",")}

	holds, ok := e.memo[key]
	if !ok {
		if holds, err = rs.rule.Holds(values); err != nil {
			return false, nil, true, err
		}

		e.memo[key] = holds
	}

	return holds, values, true, nil
}

// drain retries delayed nodes until none is left. A pass that resolves
// nothing fails the whole run.
func (e *Engine) drain(ctx context.Context) error {
	for pass := 1; len(e.queue) > 0; pass++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		e.log.DebugContext(ctx, "resolving delayed nodes", slog.Int("pass", pass), slog.Int("delayed", len(e.queue)))

		queue := e.queue
		e.queue = nil
		progress := false

		for _, p := range queue {
			if p.epoch == e.epoch {
				e.queue = append(e.queue, p)

				continue
			}

			epoch := e.epoch

			delayed, err := e.attempt(ctx, p.node, p.frame, p.dst)
			if err != nil {
				return err
			}

			if delayed {
				p.epoch = epoch
				e.queue = append(e.queue, p)

				continue
			}

			progress = true
		}

		if !progress {
			return e.unresolved()
		}
	}

	return nil
}

// unresolved describes the delayed queue after it stopped making progress.
func (e *Engine) unresolved() error {
	err := &fail.UnresolvedAssignmentError{}
	seen := make(map[fail.Link]bool)

	for _, p := range e.queue {
		err.Delayed = append(err.Delayed, fail.DelayedNode{Path: p.node.Path(), Depth: p.node.Depth})

		for _, b := range e.plans[p.node.ID].bindings {
			rule := e.rules[b.rule].rule

			for _, o := range e.rules[b.rule].origins {
				if o != nil && e.plans[o.ID].ignored {
					err.Reason = "part of the assignment expression is ignored"
				}
			}

			for _, o := range rule.Origins {
				l := fail.Link{Origin: o.String(), Destination: rule.Actions[b.action].Dest.String()}
				if !seen[l] {
					seen[l] = true
					err.Links = append(err.Links, l)
				}
			}
		}
	}

	err.Cycle = e.cycle()

	return err
}

// cycle finds delayed nodes waiting on each other. A node depends on another
// when the other one contains an origin it reads.
func (e *Engine) cycle() []fail.Link {
	g := assign.NewGraph(len(e.queue))

	for i, p := range e.queue {
		for _, b := range e.plans[p.node.ID].bindings {
			for _, o := range e.rules[b.rule].origins {
				if o == nil {
					continue
				}

				for j, q := range e.queue {
					if i != j && o.HasAncestor(q.node) {
						g.Depend(i, j)
					}
				}
			}
		}
	}

	if _, _, err := g.Order(); !errors.Is(err, assign.ErrCycle) {
		return nil
	}

	path := g.Cycle()
	links := make([]fail.Link, len(path))

	for k, i := range path {
		next := path[(k+1)%len(path)]
		links[k] = fail.Link{Origin: e.queue[next].node.Path(), Destination: e.queue[i].node.Path()}
	}

	return links
}
