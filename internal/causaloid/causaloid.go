package causaloid

import (
	"fmt"
	"sync"

	"github.com/roach88/causant/internal/causalctx"
	"github.com/roach88/causant/internal/effect"
)

// CausalFn is a pure causal function: no context, no state. It receives
// the full incoming payload variant and returns a complete effect.
type CausalFn func(effect.EffectValue) *effect.PropagatingEffect

// ContextualFn is a context-aware causal function. It receives the
// incoming payload, the causaloid's threaded state, and a handle to a
// shared context (which may be nil), and returns a process that the
// singleton boundary resolves into an effect.
type ContextualFn func(v effect.EffectValue, state any, ctx *causalctx.Context) *effect.PropagatingProcess

// Kind distinguishes the three causaloid shapes.
type Kind int

const (
	// KindSingleton wraps a single causal function.
	KindSingleton Kind = iota + 1
	// KindCollection combines an ordered set of causaloids under a
	// reasoning mode.
	KindCollection
	// KindGraph evaluates a frozen dependency graph of causaloids.
	KindGraph
)

// String returns the kind's stable label.
func (k Kind) String() string {
	switch k {
	case KindSingleton:
		return "singleton"
	case KindCollection:
		return "collection"
	case KindGraph:
		return "graph"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Causaloid is an evaluable unit of causal computation. It is created at
// model-build time and immutable thereafter, except that a graph
// causaloid's adjacency must be frozen before evaluation is permitted.
//
// INVARIANTS:
//   - members order NEVER changes after construction; collection
//     reasoning folds elements in declaration order.
//   - exactly one of fn/ctxFn is set for a singleton.
type Causaloid struct {
	id          uint64
	description string
	kind        Kind

	// Singleton
	fn      CausalFn
	ctxFn   ContextualFn
	context *causalctx.Context
	state   any

	// Collection
	members   []*Causaloid
	mode      ReasoningMode
	threshold float64
	weights   []float64

	// Graph
	graph *Graph

	// Last evaluation result, kept for Explain. Guarded because
	// independent chains in the host application may share a causaloid.
	mu   sync.Mutex
	last *effect.PropagatingEffect
}

// NewSingleton creates a singleton causaloid wrapping a pure function.
func NewSingleton(id uint64, description string, fn CausalFn) *Causaloid {
	return &Causaloid{
		id:          id,
		description: description,
		kind:        KindSingleton,
		fn:          fn,
	}
}

// NewContextual creates a singleton causaloid wrapping a context-aware
// function. ctx may be nil; state is the initial threaded state passed to
// every invocation.
func NewContextual(id uint64, description string, fn ContextualFn, state any, ctx *causalctx.Context) *Causaloid {
	return &Causaloid{
		id:          id,
		description: description,
		kind:        KindSingleton,
		ctxFn:       fn,
		context:     ctx,
		state:       state,
	}
}

// CollectionOption configures a collection causaloid.
type CollectionOption func(*Causaloid)

// WithThreshold sets the aggregation threshold for probabilistic and
// uncertain reasoning. Default: 0.5.
func WithThreshold(t float64) CollectionOption {
	return func(c *Causaloid) {
		c.threshold = t
	}
}

// WithWeights sets per-member weights for probabilistic reasoning,
// aligned with member declaration order. Default: all 1.
func WithWeights(w []float64) CollectionOption {
	return func(c *Causaloid) {
		c.weights = append([]float64(nil), w...)
	}
}

// NewCollection creates a collection causaloid over members in the given
// order. The members slice is copied so external mutation cannot break
// the declaration-order invariant.
func NewCollection(id uint64, description string, mode ReasoningMode, members []*Causaloid, opts ...CollectionOption) *Causaloid {
	membersCopy := make([]*Causaloid, len(members))
	copy(membersCopy, members)

	c := &Causaloid{
		id:          id,
		description: description,
		kind:        KindCollection,
		members:     membersCopy,
		mode:        mode,
		threshold:   0.5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewGraphCausaloid creates a graph causaloid. The graph must be frozen
// before evaluation; evaluation starts at the graph's start node.
func NewGraphCausaloid(id uint64, description string, g *Graph) *Causaloid {
	return &Causaloid{
		id:          id,
		description: description,
		kind:        KindGraph,
		graph:       g,
	}
}

// ID returns the causaloid's id.
func (c *Causaloid) ID() uint64 {
	return c.id
}

// Description returns the causaloid's description.
func (c *Causaloid) Description() string {
	return c.description
}

// Kind returns the causaloid's kind.
func (c *Causaloid) Kind() Kind {
	return c.kind
}

// Graph returns the underlying graph for a graph causaloid, or nil.
func (c *Causaloid) Graph() *Graph {
	return c.graph
}

// Evaluate is the uniform entry point for all three kinds. It threads the
// incoming effect through the causaloid and returns the resulting effect.
// A failed evaluation is observably identical in shape to a successful
// one, distinguished only by Err() being non-nil.
func (c *Causaloid) Evaluate(e *effect.PropagatingEffect) *effect.PropagatingEffect {
	return c.EvaluateWithClock(effect.NewClock(), e)
}

// EvaluateWithClock evaluates with a caller-supplied logical clock, so
// composite evaluations and replay share one monotonic sequence.
func (c *Causaloid) EvaluateWithClock(clk *effect.Clock, e *effect.PropagatingEffect) *effect.PropagatingEffect {
	var out *effect.PropagatingEffect
	switch c.kind {
	case KindSingleton:
		out = c.evaluateSingleton(clk, e)
	case KindCollection:
		out = c.evaluateCollection(clk, e)
	case KindGraph:
		out = c.evaluateGraph(clk, e)
	default:
		out = effect.FromError(effect.NewStructuralError(
			effect.ErrCodeModelInvalid, "causaloid %d has unknown kind %d", c.id, int(c.kind)))
	}

	c.mu.Lock()
	c.last = out
	c.mu.Unlock()
	return out
}

func (c *Causaloid) evaluateGraph(clk *effect.Clock, e *effect.PropagatingEffect) *effect.PropagatingEffect {
	if c.graph == nil {
		return effect.FromError(effect.NewStructuralError(
			effect.ErrCodeModelInvalid, "graph causaloid %d has no graph", c.id))
	}
	return c.graph.EvaluateSubgraphFrom(clk, c.graph.Start(), e)
}

// EvaluateSubgraphFromCause runs breadth-first subgraph evaluation from
// the given node. Only valid for graph causaloids.
func (c *Causaloid) EvaluateSubgraphFromCause(start int, e *effect.PropagatingEffect) *effect.PropagatingEffect {
	if c.kind != KindGraph || c.graph == nil {
		return effect.FromError(effect.NewStructuralError(
			effect.ErrCodeModelInvalid, "causaloid %d is not a graph", c.id))
	}
	out := c.graph.EvaluateSubgraphFrom(effect.NewClock(), start, e)
	c.mu.Lock()
	c.last = out
	c.mu.Unlock()
	return out
}

// EvaluateShortestPathBetweenCauses folds the effect along the shortest
// path between two nodes. Only valid for graph causaloids.
func (c *Causaloid) EvaluateShortestPathBetweenCauses(start, stop int, e *effect.PropagatingEffect) *effect.PropagatingEffect {
	if c.kind != KindGraph || c.graph == nil {
		return effect.FromError(effect.NewStructuralError(
			effect.ErrCodeModelInvalid, "causaloid %d is not a graph", c.id))
	}
	out := c.graph.EvaluateShortestPathBetween(effect.NewClock(), start, stop, e)
	c.mu.Lock()
	c.last = out
	c.mu.Unlock()
	return out
}

// Explain renders the log of the most recent evaluation. Read-only and
// side-effect-free; rendered identically for success and failure.
func (c *Causaloid) Explain() (string, error) {
	c.mu.Lock()
	last := c.last
	c.mu.Unlock()
	if last == nil {
		return "", fmt.Errorf("causaloid %d has not been evaluated", c.id)
	}
	return last.Explain(), nil
}
