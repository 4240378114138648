package causaloid

import (
	"fmt"

	"github.com/roach88/causant/internal/effect"
)

// Graph is an arena-backed dependency graph of causaloids.
//
// Nodes live in dense slots addressed by integer index; adjacency is a
// list of child indices per slot. This keeps the BFS queue and visited
// set allocation-light and makes RelayTo target validation a plain
// bounds check. RelayTo targets are indices into this arena and are
// meaningless outside the owning graph instance.
//
// A graph is mutable while being built and must be frozen (adjacency
// finalized) before evaluation is permitted. Freeze is one-way.
type Graph struct {
	nodes  []*Causaloid
	adj    [][]int
	start  int
	frozen bool
}

// NewGraph creates an empty, unfrozen graph with start node 0.
func NewGraph() *Graph {
	return &Graph{}
}

// AddNode appends a causaloid to the arena and returns its index.
// Returns -1 if the graph is already frozen.
func (g *Graph) AddNode(c *Causaloid) int {
	if g.frozen {
		return -1
	}
	g.nodes = append(g.nodes, c)
	g.adj = append(g.adj, nil)
	return len(g.nodes) - 1
}

// AddEdge adds a directed edge from one node index to another.
func (g *Graph) AddEdge(from, to int) error {
	if g.frozen {
		return fmt.Errorf("graph is frozen; adjacency cannot change")
	}
	if !g.Contains(from) {
		return fmt.Errorf("edge source %d out of range [0,%d)", from, len(g.nodes))
	}
	if !g.Contains(to) {
		return fmt.Errorf("edge target %d out of range [0,%d)", to, len(g.nodes))
	}
	g.adj[from] = append(g.adj[from], to)
	return nil
}

// SetStart selects the node evaluation begins from when the graph is
// evaluated through its owning causaloid. Default: 0.
func (g *Graph) SetStart(node int) error {
	if !g.Contains(node) {
		return fmt.Errorf("start node %d out of range [0,%d)", node, len(g.nodes))
	}
	g.start = node
	return nil
}

// Start returns the configured start node.
func (g *Graph) Start() int {
	return g.start
}

// Freeze finalizes the adjacency. After Freeze, AddNode and AddEdge are
// rejected and evaluation is permitted.
func (g *Graph) Freeze() {
	g.frozen = true
}

// IsFrozen reports whether the graph has been frozen.
func (g *Graph) IsFrozen() bool {
	return g.frozen
}

// Contains reports whether node is a valid arena index.
func (g *Graph) Contains(node int) bool {
	return node >= 0 && node < len(g.nodes)
}

// Size returns the number of nodes.
func (g *Graph) Size() int {
	return len(g.nodes)
}

// Node returns the causaloid at the given index, or nil if out of range.
func (g *Graph) Node(node int) *Causaloid {
	if !g.Contains(node) {
		return nil
	}
	return g.nodes[node]
}

// Children returns the child indices of a node.
func (g *Graph) Children(node int) []int {
	if !g.Contains(node) {
		return nil
	}
	return g.adj[node]
}

// precondition validates the frozen/contains preconditions shared by the
// graph reasoning entry points. Returns nil when evaluation may proceed.
func (g *Graph) precondition(nodes ...int) *effect.EvalError {
	if !g.frozen {
		return effect.NewStructuralError(effect.ErrCodeGraphNotFrozen,
			"graph must be frozen before evaluation")
	}
	for _, n := range nodes {
		if !g.Contains(n) {
			return effect.NewStructuralError(effect.ErrCodeNodeNotFound,
				"node %d not in graph of size %d", n, len(g.nodes))
		}
	}
	return nil
}
