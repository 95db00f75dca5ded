// Package liveness computes the variables live before every program point: a
// variable is live if some path from the point reads it before it is written.
package liveness

import (
	"fmt"

	"github.com/cs-au-dk/flow/analysis/cfg"
	"github.com/cs-au-dk/flow/analysis/dataflow"
	"github.com/cs-au-dk/flow/analysis/lattice"
	"github.com/cs-au-dk/flow/analysis/syntax"
)

// Op is the effect of an instruction on a variable.
type Op int

const (
	Read Op = iota
	Write
)

// Instr is a read or write of a variable.
type Instr struct {
	Op  Op
	Var string
}

func (i Instr) String() string {
	if i.Op == Read {
		return "read " + i.Var
	}
	return "write " + i.Var
}

// Lower returns the variable accesses performed by a node, in execution
// order. Sub-expressions own their nodes, so only the effect of the node's own
// construct is listed.
func Lower(n *cfg.Node) []Instr {
	switch c := n.Construct().(type) {
	case *syntax.Name:
		return []Instr{{Read, c.Ident}}

	case *syntax.Param:
		return []Instr{{Write, c.Name}}

	case *syntax.VarDecl:
		return []Instr{{Write, c.Name}}

	case *syntax.Assign:
		var is []Instr
		for _, l := range c.LHS {
			name, ok := syntax.Unparen(l).(*syntax.Name)
			if !ok {
				continue
			}
			if !c.IsPlain() {
				is = append(is, Instr{Read, name.Ident})
			}
			is = append(is, Instr{Write, name.Ident})
		}
		return is

	case *syntax.IncDec:
		if name, ok := syntax.Unparen(c.X).(*syntax.Name); ok {
			return []Instr{{Read, name.Ident}, {Write, name.Ident}}
		}

	case *syntax.ForEach:
		if !n.Iteration() {
			return nil
		}
		is := make([]Instr, 0, len(c.Vars))
		for _, v := range c.Vars {
			is = append(is, Instr{Write, v})
		}
		return is
	}
	return nil
}

type flow struct {
	liveOut []string
}

func (flow) Direction() dataflow.Direction { return dataflow.Backward }

func (f flow) Lattice(*syntax.Routine) lattice.Lattice[lattice.NameSet] {
	return lattice.NameSetLattice(f.liveOut...)
}

func (flow) Step(i Instr, live lattice.NameSet) lattice.NameSet {
	switch i.Op {
	case Read:
		return live.Add(i.Var)
	case Write:
		return live.Remove(i.Var)
	}
	panic(fmt.Errorf("unknown instruction %v", i))
}

// New creates the transfer function of the analysis. The names in liveOut are
// live after the routine returns.
func New(liveOut ...string) dataflow.Transfer[lattice.NameSet] {
	return dataflow.BranchInsensitive(
		dataflow.Sequenced[Instr, lattice.NameSet](dataflow.LoweringFunc[Instr](Lower), flow{liveOut}),
	)
}

// NewAnalysis creates an on-demand liveness analysis.
func NewAnalysis(liveOut []string, options ...dataflow.Option[lattice.NameSet]) *dataflow.Analysis[lattice.NameSet] {
	return dataflow.NewAnalysis(New(liveOut...), options...)
}

// Unused returns the writes in r whose value is never read, in source order.
func Unused(a *dataflow.Analysis[lattice.NameSet], r *syntax.Routine) ([]syntax.Construct, error) {
	sol, err := a.Solve(r)
	if err != nil {
		return nil, err
	}

	var res []syntax.Construct
	syntax.Walk(r, func(c syntax.Construct) bool {
		var written []string
		switch c := c.(type) {
		case *syntax.VarDecl:
			if c.Init != nil {
				written = []string{c.Name}
			}
		case *syntax.Assign:
			for _, l := range c.LHS {
				if name, ok := syntax.Unparen(l).(*syntax.Name); ok {
					written = append(written, name.Ident)
				}
			}
		}

		for _, n := range sol.Graph().NodesOf(c) {
			if !sol.Reached(n) {
				continue
			}
			after := sol.After(n)
			for _, w := range written {
				if !after.Contains(w) {
					res = append(res, c)
					return true
				}
			}
		}
		return true
	})
	return res, nil
}
