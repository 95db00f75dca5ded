// Package graph provides the traversals shared by control-flow graphs, their
// reversals and their basic-block condensations: breadth-first search,
// depth-first orderings and strongly connected components.
//
// A graph is described only by its edge function, so any structure with a
// successor relation can be traversed without building an adjacency list
// first.
package graph

// Graph is a directed graph over comparable nodes. Successor lists are
// requested from the edge function at most once per node.
type Graph[T comparable] struct {
	edgesOf func(node T) []T
	cache   map[T][]T
}

// Of creates the graph whose successor relation is edgesOf.
func Of[T comparable](edgesOf func(node T) []T) Graph[T] {
	return Graph[T]{edgesOf, make(map[T][]T)}
}

// Edges returns the successors of node in the order given by the edge
// function.
func (G Graph[T]) Edges(node T) []T {
	if es, found := G.cache[node]; found {
		return es
	}

	es := G.edgesOf(node)
	G.cache[node] = es
	return es
}

// Reachable returns the set of nodes reachable from the roots.
func (G Graph[T]) Reachable(roots ...T) map[T]bool {
	seen := make(map[T]bool, len(roots))
	G.BFSV(func(node T) bool {
		seen[node] = true
		return false
	}, roots...)
	return seen
}
