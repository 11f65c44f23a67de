// Package framegraph orders render passes by their declared data dependencies.
package framegraph

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrDuplicatePass is returned by Add when a pass name is already registered.
	ErrDuplicatePass = errors.New("duplicate pass")

	// ErrUnknownDependency is returned by Compile when a pass depends on a name that was
	// never added.
	ErrUnknownDependency = errors.New("unknown pass dependency")

	// ErrCycle is returned by Compile when the dependencies form a cycle.
	ErrCycle = errors.New("pass dependency cycle")
)

// PassFunc executes one pass of a frame.
type PassFunc func() error

type node struct {
	name string
	deps []string
	run  PassFunc
}

// Graph is a set of named passes and the passes each one reads from. Passes run one at a
// time in a topological order; among passes whose dependencies are satisfied, the one
// added first runs first, so the order is deterministic.
//
// A Graph is built once and executed every frame. It is not safe for concurrent use.
type Graph struct {
	nodes []*node
	index map[string]int
	order []string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// Add registers a pass.
//
// Parameters:
//   - name: unique pass name
//   - run: the pass body
//   - deps: names of passes whose outputs this pass reads
//
// Returns:
//   - error: ErrDuplicatePass if the name is taken
func (g *Graph) Add(name string, run PassFunc, deps ...string) error {
	if _, ok := g.index[name]; ok {
		return fmt.Errorf("add pass %q: %w", name, ErrDuplicatePass)
	}
	g.index[name] = len(g.nodes)
	g.nodes = append(g.nodes, &node{name: name, deps: slices.Clone(deps), run: run})
	g.order = nil
	return nil
}

// Compile validates the graph and returns its execution order. The result is cached until
// the next Add.
//
// Returns:
//   - []string: pass names in execution order
//   - error: ErrUnknownDependency or ErrCycle
func (g *Graph) Compile() ([]string, error) {
	if g.order != nil {
		return slices.Clone(g.order), nil
	}

	indegree := make([]int, len(g.nodes))
	dependents := make([][]int, len(g.nodes))
	for i, n := range g.nodes {
		for _, d := range n.deps {
			j, ok := g.index[d]
			if !ok {
				return nil, fmt.Errorf("pass %q depends on %q: %w", n.name, d, ErrUnknownDependency)
			}
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	order := make([]string, 0, len(g.nodes))
	done := make([]bool, len(g.nodes))
	for len(order) < len(g.nodes) {
		next := -1
		for i := range g.nodes {
			if !done[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			return nil, fmt.Errorf("%w among %v", ErrCycle, g.pending(done))
		}
		done[next] = true
		order = append(order, g.nodes[next].name)
		for _, k := range dependents[next] {
			indegree[k]--
		}
	}

	g.order = order
	return slices.Clone(order), nil
}

// Execute runs every pass in compiled order and stops at the first error.
//
// Returns:
//   - error: a compile error, or the failing pass error wrapped with the pass name
func (g *Graph) Execute() error {
	order, err := g.Compile()
	if err != nil {
		return err
	}
	for _, name := range order {
		if err := g.nodes[g.index[name]].run(); err != nil {
			return fmt.Errorf("pass %q: %w", name, err)
		}
	}
	return nil
}

func (g *Graph) pending(done []bool) []string {
	var names []string
	for i, n := range g.nodes {
		if !done[i] {
			names = append(names, n.name)
		}
	}
	return names
}
