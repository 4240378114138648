package causaloid

import (
	"github.com/roach88/causant/internal/effect"
)

// frontierItem pairs a node index with the effect it will be evaluated
// against.
type frontierItem struct {
	node int
	in   *effect.PropagatingEffect
}

// EvaluateSubgraphFrom runs breadth-first evaluation of the subgraph
// reachable from start.
//
// Traversal maintains a FIFO queue of (node, incoming effect) pairs and a
// visited set. Each dequeued node is evaluated and the result classified:
//
//   - Error: the result becomes the running "last propagated" effect and
//     this path's exploration stops; still-queued branches continue, so
//     the last error or success observed in traversal order wins. That
//     ordering rule is inherited behavior, deterministic, and tested; it
//     is an artifact of iteration order rather than a chosen precedence
//     (deepest-error, first-error) and may not reflect true intent.
//   - RelayTo: a full redirect. The target is bounds-checked, the
//     remaining queue is cleared (prior unexplored neighbors are
//     abandoned), and the queue is reseeded with only (target, inner).
//     An out-of-range target is treated as an error result of this node.
//   - Normal (Value/ContextualLink/Map): every unvisited child is
//     enqueued with a clone of the result as its incoming effect.
//
// Traversal terminates when the queue empties. The return value is the
// most recently produced effect, which by construction carries the full
// accumulated log of its propagation path.
func (g *Graph) EvaluateSubgraphFrom(clk *effect.Clock, start int, e *effect.PropagatingEffect) *effect.PropagatingEffect {
	if err := g.precondition(start); err != nil {
		return effect.FromError(err).WithLog(e.Log())
	}

	queue := []frontierItem{{node: start, in: e}}
	visited := make([]bool, len(g.nodes))
	visited[start] = true
	last := e

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		res := g.nodes[item.node].EvaluateWithClock(clk, item.in)
		last = res

		if res.IsError() {
			continue
		}

		if relay, ok := res.Relay(); ok {
			if !g.Contains(relay.Target) {
				last = effect.FromError(effect.NewStructuralError(
					effect.ErrCodeInvalidRelayTarget,
					"relay target %d not in graph of size %d", relay.Target, len(g.nodes))).
					WithLog(res.Log())
				continue
			}
			inner := relay.Effect
			if inner == nil {
				last = effect.FromError(effect.NewInvariantError(
					g.nodes[item.node].ID(), "relay directive")).WithLog(res.Log())
				continue
			}
			// Redirect: abandon the frontier entirely. The relayed-in
			// effect inherits the provenance accumulated so far.
			inner = inner.WithLog(res.Log().Concat(inner.Log()))
			queue = queue[:0]
			queue = append(queue, frontierItem{node: relay.Target, in: inner})
			visited[relay.Target] = true
			continue
		}

		for _, child := range g.adj[item.node] {
			if !visited[child] {
				visited[child] = true
				queue = append(queue, frontierItem{node: child, in: res.Clone()})
			}
		}
	}

	return last
}
