package cfg

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/cs-au-dk/flow/utils"
)

// WriteTo writes the node and edge listing of the graph: one line per node in
// ID order, followed by its successors and the labels of non-normal edges.
func (g *Graph) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, n := range g.nodes {
		k, err := io.WriteString(w, listNode(n)+"\n")
		total += int64(k)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Listing returns the node and edge listing of the graph.
func (g *Graph) Listing() string {
	var buf bytes.Buffer
	g.WriteTo(&buf)
	return buf.String()
}

func listNode(n *Node) string {
	str := n.String()
	if len(n.succs) == 0 {
		return str
	}

	succs := make([]string, 0, len(n.succs))
	for _, e := range n.succs {
		if e.Label == Normal {
			succs = append(succs, e.To.Name())
		} else {
			succs = append(succs, fmt.Sprintf("%s (%s)", e.To.Name(), e.Label))
		}
	}
	return str + " -> " + strings.Join(succs, ", ")
}

// Print writes a colorized listing of the graph to standard output.
func (g *Graph) Print() {
	fmt.Println(utils.RoutineString(g.routine.Name) + ":")
	for _, n := range g.nodes {
		succs := make([]string, 0, len(n.succs))
		for _, e := range n.succs {
			s := utils.NodeString(e.To.id)
			if e.Label != Normal {
				s += " (" + e.Label.String() + ")"
			}
			succs = append(succs, s)
		}

		line := "  " + utils.NodeString(n.id) + " " + utils.SourceString(n.Describe())
		if len(succs) > 0 {
			line += " -> " + strings.Join(succs, ", ")
		}
		fmt.Println(line)
	}
}
