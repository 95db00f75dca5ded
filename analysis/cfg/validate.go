package cfg

import (
	"fmt"

	"github.com/cs-au-dk/flow/analysis/syntax"
)

// Validate checks the well-formedness of the graph:
//   - the start node has no predecessors and the end node has no successors,
//   - node IDs match their position, and no construction artifact survived,
//   - every edge is recorded at both of its ends,
//   - every node but the end node has a successor, every node is reachable
//     from the start node, and the end node is reachable from every node,
//   - True and False edges leave a node together,
//   - jumps have a single successor,
//   - every construct node belongs to the routine.
func (g *Graph) Validate() error {
	if g.start.dummy != Start || len(g.start.preds) != 0 {
		return fmt.Errorf("%s: malformed start node %s", g.routine.Name, g.start)
	}
	if g.end.dummy != End || len(g.end.succs) != 0 {
		return fmt.Errorf("%s: malformed end node %s", g.routine.Name, g.end)
	}

	member := make(map[*Node]bool, len(g.nodes))
	for i, n := range g.nodes {
		if n.id != i {
			return fmt.Errorf("%s: node at index %d has ID %d", g.routine.Name, i, n.id)
		}
		if n.dead || n.dummy == slot {
			return fmt.Errorf("%s: construction artifact %s in graph", g.routine.Name, n)
		}
		member[n] = true
	}

	for _, n := range g.nodes {
		for _, e := range n.succs {
			if e.From != n || !member[e.To] || !hasEdge(e.To.preds, e) {
				return fmt.Errorf("%s: dangling edge %s", g.routine.Name, e)
			}
		}
		for _, e := range n.preds {
			if e.To != n || !member[e.From] || !hasEdge(e.From.succs, e) {
				return fmt.Errorf("%s: dangling edge %s", g.routine.Name, e)
			}
		}

		if n != g.end && len(n.succs) == 0 {
			return fmt.Errorf("%s: %s has no successors", g.routine.Name, n)
		}

		var t, f bool
		for _, e := range n.succs {
			t = t || e.Label == True
			f = f || e.Label == False
		}
		if t != f {
			return fmt.Errorf("%s: %s has only one branch outcome", g.routine.Name, n)
		}

		if n.IsDummy() {
			continue
		}

		switch n.construct.(type) {
		case *syntax.Break, *syntax.Continue, *syntax.Return, *syntax.Throw:
			if len(n.succs) != 1 {
				return fmt.Errorf("%s: jump %s has %d successors", g.routine.Name, n, len(n.succs))
			}
		}

		if r := syntax.RoutineOf(n.construct); r != g.routine {
			return fmt.Errorf("%s: %s belongs to another routine", g.routine.Name, n)
		}
	}

	seen := g.graph().Reachable(g.start)
	for _, n := range g.nodes {
		if n != g.end && !seen[n] {
			return fmt.Errorf("%s: %s is unreachable", g.routine.Name, n)
		}
	}

	exits := g.reverse().Reachable(g.end)
	for _, n := range g.nodes {
		if !exits[n] {
			return fmt.Errorf("%s: %s does not reach the end node", g.routine.Name, n)
		}
	}

	return nil
}

func hasEdge(es []Edge, e Edge) bool {
	for _, e2 := range es {
		if e2 == e {
			return true
		}
	}
	return false
}
