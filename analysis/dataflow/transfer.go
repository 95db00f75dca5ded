// Package dataflow solves monotone dataflow problems over the control-flow
// graph of one routine at a time, forward or backward, with values kept
// apart per edge label when the client asks for it.
package dataflow

import (
	"fmt"

	"github.com/cs-au-dk/flow/analysis/cfg"
	"github.com/cs-au-dk/flow/analysis/lattice"
	"github.com/cs-au-dk/flow/analysis/syntax"
	"github.com/cs-au-dk/flow/utils"

	"github.com/fatih/color"
)

var opts = utils.Opts()

var colorize = struct {
	Label func(...interface{}) string
	Node  func(...interface{}) string
}{
	Label: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgYellow).SprintFunc())(is...)
	},
	Node: func(is ...interface{}) string {
		return utils.CanColorize(color.New(color.FgHiMagenta).SprintFunc())(is...)
	},
}

// Direction of propagation.
type Direction int

const (
	// Forward analyses start at the routine entry and follow edges.
	Forward Direction = iota
	// Backward analyses start at the routine exit and follow edges in
	// reverse. Their "before" values are the ones computed by the transfer
	// function, and their "after" values are the ones flowing in.
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Transfer is the contract between the engine and a client analysis.
type Transfer[E lattice.Element[E]] interface {
	Direction() Direction
	// Lattice supplies the entry and bottom elements for the given routine.
	Lattice(r *syntax.Routine) lattice.Lattice[E]
	// Transfer computes the effect of a node on a value reaching it along an
	// edge with the given label. Dummy nodes are never passed. The input is a
	// copy owned by the callee.
	Transfer(n *cfg.Node, in E, label cfg.Label) LabeledResult[E]
}

// LabelMerger is implemented by transfers that do not care which label a
// value arrived with. The engine then joins all incoming values first, and
// calls the transfer function once with the Normal label.
type LabelMerger interface {
	MergesLabels() bool
}

func mergesLabels(t any) bool {
	m, ok := t.(LabelMerger)
	return ok && m.MergesLabels()
}

// FlowFunction is a branch-insensitive transfer function.
type FlowFunction[E lattice.Element[E]] interface {
	Direction() Direction
	Lattice(r *syntax.Routine) lattice.Lattice[E]
	Flow(n *cfg.Node, in E) E
}

type branchInsensitive[E lattice.Element[E]] struct {
	FlowFunction[E]
}

// BranchInsensitive adapts a flow function to the transfer contract. The
// result carries the same value for every outgoing label.
func BranchInsensitive[E lattice.Element[E]](f FlowFunction[E]) Transfer[E] {
	return branchInsensitive[E]{f}
}

func (b branchInsensitive[E]) Transfer(n *cfg.Node, in E, _ cfg.Label) LabeledResult[E] {
	return Uniform(b.Flow(n, in))
}

func (branchInsensitive[E]) MergesLabels() bool { return true }

// Lowering maps nodes to the instructions they execute, in execution order.
// Dummy nodes are never lowered.
type Lowering[I any] interface {
	Lower(n *cfg.Node) []I
}

// LoweringFunc adapts a function to the Lowering interface.
type LoweringFunc[I any] func(n *cfg.Node) []I

func (f LoweringFunc[I]) Lower(n *cfg.Node) []I { return f(n) }

// InstructionFlow is a transfer function over single instructions.
type InstructionFlow[I any, E lattice.Element[E]] interface {
	Direction() Direction
	Lattice(r *syntax.Routine) lattice.Lattice[E]
	Step(instr I, in E) E
}

type sequenced[I any, E lattice.Element[E]] struct {
	InstructionFlow[I, E]
	lowering Lowering[I]
}

// Sequenced lifts an instruction-level flow function to nodes, by folding it
// over the lowered instructions of each node. Backward analyses visit the
// instructions last to first.
func Sequenced[I any, E lattice.Element[E]](l Lowering[I], f InstructionFlow[I, E]) FlowFunction[E] {
	return sequenced[I, E]{f, l}
}

func (s sequenced[I, E]) Flow(n *cfg.Node, in E) E {
	instrs := s.lowering.Lower(n)
	if s.Direction() == Backward {
		for i := len(instrs) - 1; i >= 0; i-- {
			in = s.Step(instrs[i], in)
		}
		return in
	}

	for _, instr := range instrs {
		in = s.Step(instr, in)
	}
	return in
}
