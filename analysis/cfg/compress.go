package cfg

import (
	"log"

	"github.com/cs-au-dk/flow/analysis/syntax"
	"github.com/cs-au-dk/flow/utils/graph"
)

func (b *builder) removeNode(node *Node) {
	for len(node.preds) > 0 {
		e := node.preds[0]
		e.From.removeSuccessor(e)
	}
	b.cut(node)
	node.dead = true
}

// prune discards the nodes that are unreachable from the start node, e.g.
// statements following a jump. The end node is kept even when no path reaches
// it.
func (b *builder) prune() {
	reachable := graph.Of(successors).Reachable(b.start)
	reachable[b.end] = true

	for _, n := range b.arena {
		if !n.dead && !reachable[n] {
			opts.OnVerbose(func() {
				if !n.IsDummy() {
					log.Printf("%s: discarding unreachable %s\n", n.Pos(), n.Describe())
				}
			})
			b.removeNode(n)
		}
	}

	for _, n := range b.arena {
		if n.dead || n.anchors == nil {
			continue
		}
		if n.anchors.Continue != nil && n.anchors.Continue.dead {
			n.anchors.Continue = nil
		}
	}
}

// finish numbers the surviving nodes in reverse postorder and hands them over
// to a graph.
func (b *builder) finish() *Graph {
	// Successors are explored last-to-first so that earlier successors (e.g.
	// the True branch) receive lower IDs.
	G := graph.Of(func(n *Node) []*Node {
		succs := make([]*Node, 0, len(n.succs))
		for i := len(n.succs) - 1; i >= 0; i-- {
			succs = append(succs, n.succs[i].To)
		}
		return succs
	})

	order := G.ReversePostOrder(b.start)
	if len(b.end.preds) == 0 {
		order = append(order, b.end)
	}

	g := &Graph{
		routine: b.routine,
		nodes:   order,
		start:   b.start,
		end:     b.end,
		nodesOf: make(map[syntax.Construct][]*Node),
	}
	for i, n := range order {
		n.id = i
		if !n.IsDummy() {
			g.nodesOf[n.construct] = append(g.nodesOf[n.construct], n)
		}
	}
	return g
}
