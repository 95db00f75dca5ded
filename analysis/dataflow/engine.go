package dataflow

import (
	"fmt"
	"log"

	"github.com/cs-au-dk/flow/analysis/cfg"
	"github.com/cs-au-dk/flow/analysis/lattice"
	"github.com/cs-au-dk/flow/utils/graph"
	"github.com/cs-au-dk/flow/utils/pq"
)

// TransferError is returned when a transfer function panics. The fixed point
// of the routine is abandoned.
type TransferError struct {
	Routine string
	Node    *cfg.Node
	Label   cfg.Label
	Err     error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("%s: transfer of %s (%s) in %s failed: %v",
		e.Node.Pos(), e.Node, e.Label, e.Routine, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// Solution holds the fixed point of a transfer function over one graph.
type Solution[E lattice.Element[E]] struct {
	graph  *cfg.Graph
	dir    Direction
	bottom E

	// in records, per node, the values that reached it along each canonical
	// label. out records the combined result of the transfer function.
	in, out []LabeledResult[E]
	reached []bool

	transfers int
}

// Solve computes the least fixed point of t over g, seeding the initial node
// with the entry element of lat. Termination relies on lat having no infinite
// ascending chains.
func Solve[E lattice.Element[E]](g *cfg.Graph, t Transfer[E], lat lattice.Lattice[E]) (*Solution[E], error) {
	s := &Solution[E]{
		graph:   g,
		dir:     t.Direction(),
		bottom:  lat.Bottom(),
		in:      make([]LabeledResult[E], g.Len()),
		out:     make([]LabeledResult[E], g.Len()),
		reached: make([]bool, g.Len()),
	}
	for i := range s.in {
		s.in[i] = LabeledResult[E]{def: s.bottom, hasDef: true}
		s.out[i] = s.in[i]
	}

	init := s.initial()
	order := graph.Of(s.targets).ReversePostOrder(init)
	rank := make([]int, g.Len())
	for i, n := range order {
		rank[n.ID()] = len(order) - i
	}

	W := pq.Empty(func(a, b *cfg.Node) bool {
		return rank[a.ID()] > rank[b.ID()]
	})

	s.in[init.ID()] = s.in[init.ID()].Put(cfg.Normal, lat.Entry())
	W.Add(init)

	merge := mergesLabels(t)
	for !W.IsEmpty() {
		n := W.GetNext()

		res, err := s.apply(t, n, merge)
		if err != nil {
			return nil, err
		}
		s.out[n.ID()] = res
		s.reached[n.ID()] = true

		for _, e := range s.outgoing(n) {
			if s.propagate(s.target(e), e.Label.Canonical(), res.Get(e.Label)) {
				W.Add(s.target(e))
			}
		}
	}

	return s, nil
}

func (s *Solution[E]) initial() *cfg.Node {
	if s.dir == Backward {
		return s.graph.End()
	}
	return s.graph.Start()
}

func (s *Solution[E]) outgoing(n *cfg.Node) []cfg.Edge {
	if s.dir == Backward {
		return n.Preds()
	}
	return n.Succs()
}

func (s *Solution[E]) target(e cfg.Edge) *cfg.Node {
	if s.dir == Backward {
		return e.From
	}
	return e.To
}

func (s *Solution[E]) targets(n *cfg.Node) []*cfg.Node {
	es := s.outgoing(n)
	res := make([]*cfg.Node, 0, len(es))
	for _, e := range es {
		res = append(res, s.target(e))
	}
	return res
}

// apply runs the transfer function on the incoming values of n. Dummy nodes
// pass the join of their incoming values through on every edge.
func (s *Solution[E]) apply(t Transfer[E], n *cfg.Node, merge bool) (LabeledResult[E], error) {
	in := s.in[n.ID()]
	if n.IsDummy() {
		return Uniform(in.Merged()), nil
	}

	if merge {
		res, err := s.call(t, n, in.Merged().Copy(), cfg.Normal)
		return s.complete(res), err
	}

	var res LabeledResult[E]
	for i, l := range in.Labels() {
		r, err := s.call(t, n, in.Get(l).Copy(), l)
		if err != nil {
			return res, err
		}
		if i == 0 {
			res = s.complete(r)
		} else {
			res = res.Join(s.complete(r))
		}
	}
	return res, nil
}

func (s *Solution[E]) complete(r LabeledResult[E]) LabeledResult[E] {
	if !r.hasDef {
		return r.WithDefault(s.bottom)
	}
	return r
}

func (s *Solution[E]) call(t Transfer[E], n *cfg.Node, in E, label cfg.Label) (res LabeledResult[E], err error) {
	defer func() {
		if p := recover(); p != nil {
			cause, ok := p.(error)
			if !ok {
				cause = fmt.Errorf("%v", p)
			}

			log.Printf("Transfer of %s at %s in %s failed on %s input:\n%s\n",
				colorize.Node(n), n.Pos(), s.graph.Routine().Name, label, in)
			err = &TransferError{
				Routine: s.graph.Routine().Name,
				Node:    n,
				Label:   label,
				Err:     cause,
			}
		}
	}()

	s.transfers++
	return t.Transfer(n, in, label), nil
}

// propagate merges v into the incoming values of n for the given label, and
// reports whether they changed.
func (s *Solution[E]) propagate(n *cfg.Node, label cfg.Label, v E) bool {
	in := s.in[n.ID()]
	stored, found := in.Lookup(label)

	switch {
	case !found:
		s.in[n.ID()] = in.Put(label, v.Copy())
	case v.AtLeastAsPrecise(stored):
		return false
	case stored.AtLeastAsPrecise(v):
		s.in[n.ID()] = in.Put(label, v.Copy())
	default:
		s.in[n.ID()] = in.Put(label, stored.Join(v))
	}
	return true
}

func (s *Solution[E]) Graph() *cfg.Graph { return s.graph }

func (s *Solution[E]) Direction() Direction { return s.dir }

// Bottom is the answer for nodes the analysis never reached.
func (s *Solution[E]) Bottom() E { return s.bottom }

// Transfers returns the number of transfer function calls made while solving.
func (s *Solution[E]) Transfers() int { return s.transfers }

// Reached reports whether n was ever processed.
func (s *Solution[E]) Reached(n *cfg.Node) bool {
	return s.reached[n.ID()]
}

// LabeledBefore returns the per-label values at the program point preceding
// n in source order.
func (s *Solution[E]) LabeledBefore(n *cfg.Node) LabeledResult[E] {
	if s.dir == Backward {
		return s.out[n.ID()]
	}
	return s.in[n.ID()]
}

// LabeledAfter returns the per-label values at the program point following
// n in source order.
func (s *Solution[E]) LabeledAfter(n *cfg.Node) LabeledResult[E] {
	if s.dir == Backward {
		return s.in[n.ID()]
	}
	return s.out[n.ID()]
}

func (s *Solution[E]) Before(n *cfg.Node) E {
	return s.LabeledBefore(n).Merged()
}

func (s *Solution[E]) After(n *cfg.Node) E {
	return s.LabeledAfter(n).Merged()
}
