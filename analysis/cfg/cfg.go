// Package cfg builds intraprocedural control-flow graphs out of routines of
// the structured program tree.
//
// Every construct that owns a node owns it at its exit: the node is reached
// after all of the construct's sub-constructs have been evaluated. Conditions
// fan out with True and False edges, loops get dummy test/head/update nodes
// that serve as continue targets, and every routine has a dummy start and end
// node. Nodes are numbered in reverse postorder from the start node.
package cfg

import (
	"errors"
	"fmt"

	"github.com/cs-au-dk/flow/analysis/syntax"
	"github.com/cs-au-dk/flow/utils"
)

var opts = utils.Opts()

var (
	// ErrMalformed is reported for constructs missing a mandatory part, or
	// appearing where they cannot occur.
	ErrMalformed = errors.New("malformed construct")
	// ErrNoJumpTarget is reported for break and continue statements that
	// have no enclosing target.
	ErrNoJumpTarget = errors.New("no jump target")
)

// BuildError is returned when a routine cannot be compiled to a graph.
type BuildError struct {
	Routine   string
	Construct syntax.Construct
	Err       error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %s in %s: %v", e.Construct.Span(), e.Construct, e.Routine, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Graph is the control-flow graph of a single routine.
type Graph struct {
	routine    *syntax.Routine
	nodes      []*Node
	start, end *Node

	// nodesOf maps constructs to the nodes they own, in ID order.
	nodesOf map[syntax.Construct][]*Node
}

func (g *Graph) Routine() *syntax.Routine { return g.routine }

// Nodes returns every node of the graph, indexed by ID.
func (g *Graph) Nodes() []*Node { return g.nodes }

func (g *Graph) Len() int { return len(g.nodes) }

func (g *Graph) Start() *Node { return g.start }
func (g *Graph) End() *Node   { return g.end }

// Node returns the node with the given ID.
func (g *Graph) Node(id int) *Node {
	if id < 0 || id >= len(g.nodes) {
		panic(fmt.Errorf("node id %d out of range for %s (%d nodes)", id, g.routine.Name, len(g.nodes)))
	}
	return g.nodes[id]
}

// NodesOf returns the nodes owned by a construct. Constructs without nodes
// (parentheses, empty blocks, assignment targets), constructs in dead code and
// constructs of other routines own none.
func (g *Graph) NodesOf(c syntax.Construct) []*Node {
	return g.nodesOf[c]
}

// EntryOf returns the first node executed by c: the node with the lowest ID
// owned by c or one of its sub-constructs.
func (g *Graph) EntryOf(c syntax.Construct) (*Node, bool) {
	var entry *Node
	syntax.Walk(c, func(c syntax.Construct) bool {
		for _, n := range g.nodesOf[c] {
			if entry == nil || n.id < entry.id {
				entry = n
			}
		}
		return true
	})
	return entry, entry != nil
}

// ForEach executes the given procedure for each node, in ID order.
func (g *Graph) ForEach(do func(*Node)) {
	for _, n := range g.nodes {
		do(n)
	}
}

// Edges returns every edge of the graph, ordered by source ID.
func (g *Graph) Edges() []Edge {
	var es []Edge
	for _, n := range g.nodes {
		es = append(es, n.succs...)
	}
	return es
}

// Reversed returns a copy of the graph with every edge reversed, and start and
// end swapped. Labels, IDs and constructs are preserved.
func (g *Graph) Reversed() *Graph {
	r := &Graph{
		routine: g.routine,
		nodes:   make([]*Node, len(g.nodes)),
		nodesOf: make(map[syntax.Construct][]*Node, len(g.nodesOf)),
	}

	for i, n := range g.nodes {
		r.nodes[i] = &Node{
			id:        n.id,
			construct: n.construct,
			dummy:     n.dummy,
			iteration: n.iteration,
		}
	}
	for _, n := range g.nodes {
		for _, e := range n.succs {
			r.nodes[e.To.id].addSuccessor(r.nodes[n.id], e.Label)
		}
		if n.anchors != nil {
			a := &Anchors{Break: r.nodes[n.anchors.Break.id]}
			if n.anchors.Continue != nil {
				a.Continue = r.nodes[n.anchors.Continue.id]
			}
			r.nodes[n.id].anchors = a
		}
	}
	for c, ns := range g.nodesOf {
		rns := make([]*Node, len(ns))
		for i, n := range ns {
			rns[i] = r.nodes[n.id]
		}
		r.nodesOf[c] = rns
	}

	r.start, r.end = r.nodes[g.end.id], r.nodes[g.start.id]
	return r
}
