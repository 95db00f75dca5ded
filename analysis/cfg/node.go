package cfg

import (
	"fmt"

	"github.com/cs-au-dk/flow/analysis/syntax"
)

// Label tags control-flow edges.
type Label int

const (
	Normal Label = iota
	True
	False
	// Exceptional edges lead from a protected region into its handlers.
	Exceptional
)

func (l Label) String() string {
	switch l {
	case Normal:
		return "normal"
	case True:
		return "true"
	case False:
		return "false"
	case Exceptional:
		return "exc"
	}
	return fmt.Sprintf("Label(%d)", int(l))
}

// Canonical is the label under which values flowing along an edge are recorded
// at its target. Every label other than True and False collapses to Normal.
func (l Label) Canonical() Label {
	if l == True || l == False {
		return l
	}
	return Normal
}

// DummyKind identifies synthetic nodes that stand for no construct of their
// own.
type DummyKind int

const (
	NotDummy DummyKind = iota
	// Start is the routine entry.
	Start
	// End is the routine exit. Returns and throws flow here.
	End
	// LoopTest precedes the condition of while and for loops, and of do loops
	// after their body.
	LoopTest
	// LoopHead is the entry of do loops and the iteration point of for-each loops.
	LoopHead
	// Update precedes the update clauses of for loops.
	Update
	// TryEntry precedes the protected region of a try statement.
	TryEntry
	// Handler follows the protected region and leads into the first handler,
	// or the finally block. It is also entered from the try entry.
	Handler
	// slot is a temporary splice point used during construction.
	slot
)

func (k DummyKind) String() string {
	switch k {
	case NotDummy:
		return ""
	case Start:
		return "start"
	case End:
		return "end"
	case LoopTest:
		return "test"
	case LoopHead:
		return "head"
	case Update:
		return "update"
	case TryEntry:
		return "try"
	case Handler:
		return "handler"
	case slot:
		return "slot"
	}
	return fmt.Sprintf("DummyKind(%d)", int(k))
}

// Edge is a labeled control-flow edge.
type Edge struct {
	From, To *Node
	Label    Label
}

func (e Edge) String() string {
	if e.Label == Normal {
		return fmt.Sprintf("%s -> %s", e.From.Name(), e.To.Name())
	}
	return fmt.Sprintf("%s -> %s (%s)", e.From.Name(), e.To.Name(), e.Label)
}

// Anchors are the jump targets of a loop, switch or labeled construct.
// Continue is nil for switches.
type Anchors struct {
	Continue, Break *Node
}

// Node is a control-flow node. Non-dummy nodes stand for the exit of their
// construct, i.e. the point where all of its sub-constructs have been
// evaluated.
type Node struct {
	id        int
	construct syntax.Construct
	dummy     DummyKind
	iteration bool
	anchors   *Anchors

	succs []Edge
	preds []Edge

	dead bool
}

func (n *Node) ID() int { return n.id }

// Construct returns the construct the node belongs to. For the start and end
// nodes this is the routine; other dummies belong to their loop.
func (n *Node) Construct() syntax.Construct { return n.construct }

func (n *Node) Dummy() DummyKind { return n.dummy }
func (n *Node) IsDummy() bool    { return n.dummy != NotDummy }

// Iteration holds for the per-iteration node of a for-each loop, which decides
// whether another element is available.
func (n *Node) Iteration() bool { return n.iteration }

func (n *Node) Succs() []Edge { return n.succs }
func (n *Node) Preds() []Edge { return n.preds }

// Anchors returns the jump targets recorded on the node, if any.
func (n *Node) Anchors() (Anchors, bool) {
	if n.anchors == nil {
		return Anchors{}, false
	}
	return *n.anchors, true
}

// Name is the short identifier of the node, e.g. n3.
func (n *Node) Name() string {
	return fmt.Sprintf("n%d", n.id)
}

// Describe renders the node without its identifier.
func (n *Node) Describe() string {
	switch {
	case n.IsDummy():
		return "<" + n.dummy.String() + ">"
	case n.iteration:
		return n.construct.Kind().String() + "[next] `" + syntax.Summary(n.construct) + "`"
	}

	if s := syntax.Summary(n.construct); s != "" {
		return n.construct.Kind().String() + " `" + s + "`"
	}
	return n.construct.Kind().String()
}

func (n *Node) String() string {
	return n.Name() + " " + n.Describe()
}

// Pos returns the source location of the node's construct.
func (n *Node) Pos() syntax.Span {
	if n.construct == nil {
		return syntax.Span{}
	}
	return n.construct.Span()
}

func (n *Node) addSuccessor(to *Node, label Label) {
	e := Edge{n, to, label}
	n.succs = append(n.succs, e)
	to.preds = append(to.preds, e)
}

func (n *Node) removeSuccessor(e Edge) {
	n.succs = removeEdge(n.succs, e)
	e.To.preds = removeEdge(e.To.preds, e)
}

// removeEdge deletes the first occurrence of e, preserving order.
func removeEdge(es []Edge, e Edge) []Edge {
	for i, e2 := range es {
		if e2 == e {
			return append(es[:i:i], es[i+1:]...)
		}
	}
	return es
}
