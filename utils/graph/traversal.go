package graph

// BFSV visits the nodes reachable from starts in breadth-first order. The
// search stops as soon as visit returns true, which BFSV then reports.
func (G Graph[T]) BFSV(visit func(node T) (stop bool), starts ...T) bool {
	queued := make(map[T]bool, len(starts))
	queue := make([]T, 0, len(starts))
	for _, start := range starts {
		if !queued[start] {
			queued[start] = true
			queue = append(queue, start)
		}
	}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if visit(node) {
			return true
		}

		for _, next := range G.Edges(node) {
			if !queued[next] {
				queued[next] = true
				queue = append(queue, next)
			}
		}
	}

	return false
}
