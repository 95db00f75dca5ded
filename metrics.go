package main

import (
	"fmt"
	"io"

	"github.com/cs-au-dk/flow/analysis/cfg"
	"github.com/cs-au-dk/flow/analysis/dataflow"
	"github.com/cs-au-dk/flow/analysis/lattice"
	"github.com/cs-au-dk/flow/utils"
)

// metrics accumulates graph and solver statistics over a run.
type metrics struct {
	routines  int
	nodes     int
	edges     int
	loops     int
	solved    int
	transfers int
	// Routine with the most transfer calls.
	worst          string
	worstTransfers int
}

func (m *metrics) graph(g *cfg.Graph) {
	m.routines++
	m.nodes += g.Len()
	m.edges += len(g.Edges())
	m.loops += len(g.Loops())
}

// solution is a dataflow.OnSolved callback.
func solution[E lattice.Element[E]](m *metrics) func(*dataflow.Solution[E]) {
	return func(s *dataflow.Solution[E]) {
		m.graph(s.Graph())
		m.solved++
		m.transfers += s.Transfers()
		if s.Transfers() > m.worstTransfers {
			m.worst = s.Graph().Routine().Name
			m.worstTransfers = s.Transfers()
		}
	}
}

func (m *metrics) print(w io.Writer) {
	fmt.Fprintln(w, "================ Results =====================")
	fmt.Fprintln(w, "Routines:", m.routines)
	fmt.Fprintln(w, "Nodes:", m.nodes, "Edges:", m.edges, "Loops:", m.loops)
	if m.routines > 0 {
		fmt.Fprintf(w, "Average nodes per routine: %.2f\n", float64(m.nodes)/float64(m.routines))
	}
	if m.solved > 0 {
		fmt.Fprintln(w, "Solved:", m.solved, "Transfer calls:", m.transfers)
		fmt.Fprintln(w, "Most transfer calls:", utils.RoutineString(m.worst), m.worstTransfers)
	}
}
