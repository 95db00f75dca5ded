package cfg

import (
	"github.com/cs-au-dk/flow/utils/graph"

	uf "github.com/spakin/disjoint"
	"golang.org/x/exp/slices"
)

func successors(n *Node) []*Node {
	succs := make([]*Node, 0, len(n.succs))
	for _, e := range n.succs {
		succs = append(succs, e.To)
	}
	return succs
}

// graph views the control-flow graph as a generic graph over successor edges.
func (g *Graph) graph() graph.Graph[*Node] {
	return graph.Of(successors)
}

// reverse views the control-flow graph as a generic graph over predecessor
// edges.
func (g *Graph) reverse() graph.Graph[*Node] {
	return graph.Of(func(n *Node) []*Node {
		preds := make([]*Node, 0, len(n.preds))
		for _, e := range n.preds {
			preds = append(preds, e.From)
		}
		return preds
	})
}

// Blocks groups the nodes into basic blocks: maximal chains where every node
// but the last has a single successor, and every node but the first has a
// single predecessor. Blocks are ordered by the ID of their first node, and
// nodes within a block follow control flow.
func (g *Graph) Blocks() [][]*Node {
	elements := make([]*uf.Element, len(g.nodes))
	for i, n := range g.nodes {
		elements[i] = uf.NewElement()
		elements[i].Data = n
	}

	for _, n := range g.nodes {
		if len(n.succs) != 1 {
			continue
		}
		succ := n.succs[0].To
		if len(succ.preds) == 1 && succ != g.start && succ != n {
			uf.Union(elements[n.id], elements[succ.id])
		}
	}

	byRep := map[*uf.Element][]*Node{}
	var reps []*uf.Element
	for i, n := range g.nodes {
		rep := elements[i].Find()
		if _, ok := byRep[rep]; !ok {
			reps = append(reps, rep)
		}
		byRep[rep] = append(byRep[rep], n)
	}

	blocks := make([][]*Node, 0, len(reps))
	for _, rep := range reps {
		blocks = append(blocks, chain(byRep[rep]))
	}

	slices.SortFunc(blocks, func(a, b []*Node) bool {
		return a[0].id < b[0].id
	})
	return blocks
}

// chain orders the nodes of a basic block along their edges.
func chain(nodes []*Node) []*Node {
	if len(nodes) == 1 {
		return nodes
	}

	in := make(map[*Node]bool, len(nodes))
	for _, n := range nodes {
		in[n] = true
	}

	var first *Node
	for _, n := range nodes {
		if len(n.preds) != 1 || !in[n.preds[0].From] {
			first = n
			break
		}
	}
	if first == nil {
		// The block is a cycle; start at the lowest ID.
		first = nodes[0]
	}

	res := make([]*Node, 0, len(nodes))
	for n := first; len(res) < len(nodes); n = n.succs[0].To {
		res = append(res, n)
	}
	return res
}

// Loops returns the node sets of the cyclic strongly connected components of
// the graph, each ordered by ID.
func (g *Graph) Loops() [][]*Node {
	scc := g.graph().SCC([]*Node{g.start})

	var loops [][]*Node
	for i, comp := range scc.Components {
		if !scc.IsCyclic(i) {
			continue
		}
		loop := slices.Clone(comp)
		slices.SortFunc(loop, func(a, b *Node) bool {
			return a.id < b.id
		})
		loops = append(loops, loop)
	}

	slices.SortFunc(loops, func(a, b []*Node) bool {
		return a[0].id < b[0].id
	})
	return loops
}
