package causaloid

import (
	"github.com/roach88/causant/internal/effect"
)

// EvaluateShortestPathBetween folds the initial effect sequentially
// through every node on the shortest path from start to stop.
//
// If start == stop, the single node is evaluated and its result
// returned. Otherwise the path is precomputed (unweighted BFS) and the
// effect folded node by node. Unlike subgraph evaluation there is no
// redirect-and-continue: an error effect or a RelayTo-valued effect at
// any path position is the answer, returned immediately without visiting
// the remaining path nodes.
func (g *Graph) EvaluateShortestPathBetween(clk *effect.Clock, start, stop int, e *effect.PropagatingEffect) *effect.PropagatingEffect {
	if err := g.precondition(start, stop); err != nil {
		return effect.FromError(err).WithLog(e.Log())
	}

	if start == stop {
		return g.nodes[start].EvaluateWithClock(clk, e)
	}

	path, ok := g.ShortestPath(start, stop)
	if !ok {
		return effect.FromError(effect.NewStructuralError(
			effect.ErrCodeNoPath, "no path from %d to %d", start, stop)).WithLog(e.Log())
	}

	cur := e
	for _, node := range path {
		cur = g.nodes[node].EvaluateWithClock(clk, cur)
		if cur.IsError() {
			return cur
		}
		if _, ok := cur.Relay(); ok {
			return cur
		}
	}
	return cur
}

// ShortestPath computes the unweighted shortest path from start to stop
// (inclusive of both) by breadth-first predecessor search. Returns
// (nil, false) when stop is unreachable. Children are explored in
// adjacency order, so ties break deterministically.
func (g *Graph) ShortestPath(start, stop int) ([]int, bool) {
	if !g.Contains(start) || !g.Contains(stop) {
		return nil, false
	}
	if start == stop {
		return []int{start}, true
	}

	pred := make([]int, len(g.nodes))
	for i := range pred {
		pred[i] = -1
	}
	visited := make([]bool, len(g.nodes))
	visited[start] = true
	queue := []int{start}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, child := range g.adj[node] {
			if visited[child] {
				continue
			}
			visited[child] = true
			pred[child] = node
			if child == stop {
				return buildPath(pred, start, stop), true
			}
			queue = append(queue, child)
		}
	}
	return nil, false
}

// buildPath walks predecessors back from stop to start and reverses.
func buildPath(pred []int, start, stop int) []int {
	var rev []int
	for n := stop; n != -1; n = pred[n] {
		rev = append(rev, n)
		if n == start {
			break
		}
	}
	path := make([]int, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return path
}
