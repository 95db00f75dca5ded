package graph

// PostOrder returns the nodes reachable from the roots in depth-first
// post-order. Successors are visited in the order returned by Edges.
func (G Graph[T]) PostOrder(roots ...T) []T {
	visited := make(map[T]bool)
	order := []T{}

	var dfs func(T)
	dfs = func(node T) {
		if visited[node] {
			return
		}

		visited[node] = true
		for _, e := range G.Edges(node) {
			dfs(e)
		}
		order = append(order, node)
	}

	for _, root := range roots {
		dfs(root)
	}

	return order
}

// ReversePostOrder returns the nodes reachable from the roots in reverse
// depth-first post-order. Every node precedes its successors, except along
// back edges.
func (G Graph[T]) ReversePostOrder(roots ...T) []T {
	order := G.PostOrder(roots...)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}
