package nullness

import (
	"fmt"

	"github.com/cs-au-dk/flow/analysis/cfg"
	"github.com/cs-au-dk/flow/analysis/dataflow"
	"github.com/cs-au-dk/flow/analysis/syntax"
)

// DeadBranch is an outcome of a reachable condition that never occurs.
type DeadBranch struct {
	Cond  syntax.Construct
	Label cfg.Label
}

func (d DeadBranch) String() string {
	return fmt.Sprintf("%s: %s branch of %s is dead", d.Cond.Span(), d.Label, syntax.Summary(d.Cond))
}

// DeadBranches lists the dead branches of the conditions in r, in the order
// of their nodes.
func DeadBranches(a *dataflow.Analysis[Env], r *syntax.Routine) ([]DeadBranch, error) {
	sol, err := a.Solve(r)
	if err != nil {
		return nil, err
	}

	var dead []DeadBranch
	sol.Graph().ForEach(func(n *cfg.Node) {
		if n.IsDummy() || n.Iteration() || !branches(n) {
			return
		}
		if !sol.Reached(n) || !sol.Before(n).IsReachable() {
			return
		}

		out, qerr := a.LabeledResultsAfter(n.Construct())
		if qerr != nil {
			err = qerr
			return
		}
		for _, l := range []cfg.Label{cfg.True, cfg.False} {
			if !out.Get(l).IsReachable() {
				dead = append(dead, DeadBranch{n.Construct(), l})
			}
		}
	})
	return dead, err
}

func branches(n *cfg.Node) bool {
	for _, e := range n.Succs() {
		if e.Label == cfg.True || e.Label == cfg.False {
			return true
		}
	}
	return false
}
