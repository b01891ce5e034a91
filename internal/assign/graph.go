package assign

import (
	"errors"
	"fmt"
	"sort"
)

// ErrCycle is returned by Order when the dependencies are cyclic.
var ErrCycle = errors.New("cycle detected")

// Graph is a dependency graph over nodes 0..n-1.
type Graph struct {
	deps [][]int
}

func NewGraph(n int) *Graph {
	return &Graph{deps: make([][]int, n)}
}

func (g *Graph) Len() int { return len(g.deps) }

// Depend records that i cannot be resolved before on.
func (g *Graph) Depend(i, on int) {
	for _, d := range g.deps[i] {
		if d == on {
			return
		}
	}

	g.deps[i] = append(g.deps[i], on)
}

// Order returns the nodes in resolution order. When several nodes are
// available the smallest index goes first. Nodes left over by a cycle are
// returned with ErrCycle.
func (g *Graph) Order() ([]int, []int, error) {
	n := len(g.deps)
	if n == 0 {
		return nil, nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i, deps := range g.deps {
		for _, d := range deps {
			if d < 0 || d >= n {
				return nil, nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)

		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) == n {
		return order, nil, nil
	}

	var rest []int

	for i := range n {
		if indeg[i] > 0 {
			rest = append(rest, i)
		}
	}

	return order, rest, ErrCycle
}

// Cycle returns one dependency cycle, each node depending on the next and the
// last on the first, or nil when the graph is acyclic.
func (g *Graph) Cycle() []int {
	_, rest, err := g.Order()
	if err == nil || len(rest) == 0 {
		return nil
	}

	left := make(map[int]bool, len(rest))
	for _, i := range rest {
		left[i] = true
	}

	// every leftover node has a leftover dependency; following them from
	// any start must revisit a node
	seen := make(map[int]int)

	var path []int

	for cur := rest[0]; ; {
		if at, ok := seen[cur]; ok {
			return path[at:]
		}

		seen[cur] = len(path)
		path = append(path, cur)

		next := -1

		for _, d := range g.deps[cur] {
			if left[d] {
				next = d

				break
			}
		}

		if next < 0 {
			return nil
		}

		cur = next
	}
}
