package cfg

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cs-au-dk/flow/utils/dot"
	"github.com/cs-au-dk/flow/utils/graph"
)

// ToDot creates a dot graph of the CFG, with one cluster per basic block.
func (g *Graph) ToDot() *dot.DotGraph {
	blockOf := make(map[*Node]int, len(g.nodes))
	for i, blk := range g.Blocks() {
		for _, n := range blk {
			blockOf[n] = i
		}
	}

	return g.graph().ToDotGraph(g.nodes, &graph.VisualizationConfig[*Node]{
		Title: g.routine.Name,
		NodeAttrs: func(n *Node) (string, dot.DotAttrs) {
			attrs := dot.DotAttrs{
				"label": n.Name() + ": " + n.Describe(),
				"shape": "box",
			}
			switch {
			case n.dummy == Start || n.dummy == End:
				attrs["shape"] = "ellipse"
				attrs["fillcolor"] = "lightblue"
			case n.IsDummy():
				attrs["shape"] = "ellipse"
				attrs["fillcolor"] = "white"
			case len(n.succs) > 1:
				attrs["shape"] = "diamond"
			}
			return n.Name(), attrs
		},
		ClusterKey: func(n *Node) any {
			return blockOf[n]
		},
		ClusterAttrs: func(key any) (string, dot.DotAttrs) {
			return fmt.Sprintf("block%d", key), dot.DotAttrs{
				"label": fmt.Sprintf("B%d", key),
				"style": "rounded",
			}
		},
		EdgeAttrs: func(from *Node, i int) dot.DotAttrs {
			switch e := from.succs[i]; e.Label {
			case True:
				return dot.DotAttrs{"label": "T", "color": "darkgreen"}
			case False:
				return dot.DotAttrs{"label": "F", "color": "red"}
			case Exceptional:
				return dot.DotAttrs{"label": "exc", "style": "dashed"}
			}
			return dot.DotAttrs{}
		},
	})
}

// Visualize renders the CFG into the given directory, using the given output
// format, and returns the path of the image.
func (g *Graph) Visualize(dir, format string) (string, error) {
	var buf bytes.Buffer
	if err := g.ToDot().WriteDot(&buf); err != nil {
		return "", err
	}

	name := strings.NewReplacer("/", "_", "<", "_", ">", "_").Replace(g.routine.Name)
	return dot.DotToImage(filepath.Join(dir, name), format, buf.Bytes())
}
