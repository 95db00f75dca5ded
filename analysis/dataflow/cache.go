package dataflow

import (
	"errors"
	"fmt"
	"log"

	"github.com/cs-au-dk/flow/analysis/cfg"
	"github.com/cs-au-dk/flow/analysis/lattice"
	"github.com/cs-au-dk/flow/analysis/syntax"
)

var (
	// ErrStaleRoutine signals access to a node of a routine other than the
	// cached one.
	ErrStaleRoutine = errors.New("node does not belong to the cached routine")
	// ErrDetached is returned for query points outside of any routine.
	ErrDetached = errors.New("construct is not part of a routine")
)

// Option configures an Analysis.
type Option[E lattice.Element[E]] func(*Analysis[E])

// WithValidation checks every graph for well-formedness before solving.
func WithValidation[E lattice.Element[E]]() Option[E] {
	return func(a *Analysis[E]) {
		a.validate = true
	}
}

// WithLattice overrides the lattice the transfer function supplies.
func WithLattice[E lattice.Element[E]](lat func(*syntax.Routine) lattice.Lattice[E]) Option[E] {
	return func(a *Analysis[E]) {
		a.lattice = lat
	}
}

// OnSolved registers a callback receiving every new fixed point.
func OnSolved[E lattice.Element[E]](do func(*Solution[E])) Option[E] {
	return func(a *Analysis[E]) {
		a.onSolved = do
	}
}

// Analysis answers queries about program points, computing the fixed point
// of the routine containing the point on demand. The results of one routine
// are cached at a time: a query about another routine discards them.
//
// An Analysis must not be shared between goroutines.
type Analysis[E lattice.Element[E]] struct {
	transfer Transfer[E]
	lattice  func(*syntax.Routine) lattice.Lattice[E]
	validate bool
	onSolved func(*Solution[E])

	routine  *syntax.Routine
	solution *Solution[E]
	runs     int
}

func NewAnalysis[E lattice.Element[E]](t Transfer[E], options ...Option[E]) *Analysis[E] {
	a := &Analysis[E]{
		transfer: t,
		lattice:  t.Lattice,
	}
	for _, o := range options {
		o(a)
	}
	return a
}

// Runs returns the number of fixed points computed so far.
func (a *Analysis[E]) Runs() int { return a.runs }

// Routine returns the routine currently cached, if any.
func (a *Analysis[E]) Routine() *syntax.Routine { return a.routine }

func (a *Analysis[E]) reset() {
	a.routine, a.solution = nil, nil
}

// Solve returns the fixed point for r, computing it unless r is cached.
func (a *Analysis[E]) Solve(r *syntax.Routine) (*Solution[E], error) {
	if r == nil {
		return nil, ErrDetached
	}
	if r == a.routine && a.solution != nil {
		return a.solution, nil
	}

	a.reset()
	g, err := cfg.Build(r)
	if err != nil {
		return nil, err
	}
	if a.validate {
		if err := g.Validate(); err != nil {
			return nil, err
		}
	}

	a.runs++
	sol, err := Solve(g, a.transfer, a.lattice(r))
	if err != nil {
		return nil, err
	}

	opts.OnVerbose(func() {
		log.Printf("Solved %s %s in %d transfers over %d nodes\n",
			sol.Direction(), r.Name, sol.Transfers(), g.Len())
	})
	if a.onSolved != nil {
		a.onSolved(sol)
	}

	a.routine, a.solution = r, sol
	return sol, nil
}

// Graph returns the control-flow graph of r.
func (a *Analysis[E]) Graph(r *syntax.Routine) (*cfg.Graph, error) {
	sol, err := a.Solve(r)
	if err != nil {
		return nil, err
	}
	return sol.Graph(), nil
}

// nodes resolves a program point to the nodes it owns in the graph of its
// routine.
func (a *Analysis[E]) nodes(point syntax.Construct) (*Solution[E], []*cfg.Node, error) {
	r := syntax.RoutineOf(point)
	if r == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrDetached, point)
	}

	sol, err := a.Solve(r)
	if err != nil {
		return nil, nil, err
	}

	var ns []*cfg.Node
	if point == syntax.Construct(r) {
		ns = []*cfg.Node{sol.Graph().Start(), sol.Graph().End()}
	} else {
		ns = sol.Graph().NodesOf(point)
	}
	if len(ns) == 0 {
		opts.OnVerbose(func() {
			log.Printf("%s owns no nodes in %s, answering bottom\n", point, r.Name)
		})
	}
	return sol, ns, nil
}

func (a *Analysis[E]) query(point syntax.Construct, at func(*Solution[E], *cfg.Node) LabeledResult[E]) (LabeledResult[E], error) {
	sol, ns, err := a.nodes(point)
	if err != nil {
		return LabeledResult[E]{}, err
	}
	if len(ns) == 0 {
		return LabeledResult[E]{def: sol.Bottom(), hasDef: true}, nil
	}

	res := at(sol, ns[0])
	for _, n := range ns[1:] {
		res = res.Join(at(sol, n))
	}
	return res, nil
}

// LabeledResultsBefore returns the per-label values at the program point
// preceding point. Points owning several nodes answer the label-wise join.
func (a *Analysis[E]) LabeledResultsBefore(point syntax.Construct) (LabeledResult[E], error) {
	return a.query(point, (*Solution[E]).LabeledBefore)
}

// LabeledResultsAfter returns the per-label values at the program point
// following point.
func (a *Analysis[E]) LabeledResultsAfter(point syntax.Construct) (LabeledResult[E], error) {
	return a.query(point, (*Solution[E]).LabeledAfter)
}

// ResultsBefore returns the value at the program point preceding point.
// Points owning no node answer bottom.
func (a *Analysis[E]) ResultsBefore(point syntax.Construct) (E, error) {
	res, err := a.LabeledResultsBefore(point)
	return res.Merged(), err
}

// ResultsAfter returns the value at the program point following point.
func (a *Analysis[E]) ResultsAfter(point syntax.Construct) (E, error) {
	res, err := a.LabeledResultsAfter(point)
	return res.Merged(), err
}

// StartResults returns the value at the entry of r.
func (a *Analysis[E]) StartResults(r *syntax.Routine) (E, error) {
	sol, err := a.Solve(r)
	if err != nil {
		var zero E
		return zero, err
	}
	return sol.Before(sol.Graph().Start()), nil
}

// EndResults returns the value at the exit of r.
func (a *Analysis[E]) EndResults(r *syntax.Routine) (E, error) {
	sol, err := a.Solve(r)
	if err != nil {
		var zero E
		return zero, err
	}
	return sol.After(sol.Graph().End()), nil
}

// NodeResults returns the values before and after n, which must be a node of
// the cached routine's graph.
func (a *Analysis[E]) NodeResults(n *cfg.Node) (before, after E) {
	if a.solution == nil {
		panic(fmt.Errorf("%w: no routine is cached", ErrStaleRoutine))
	}

	g := a.solution.Graph()
	if n.ID() < 0 || n.ID() >= g.Len() || g.Node(n.ID()) != n {
		panic(fmt.Errorf("%w: %s, cached %s", ErrStaleRoutine, n, a.routine.Name))
	}
	return a.solution.Before(n), a.solution.After(n)
}
