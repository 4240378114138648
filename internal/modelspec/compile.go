package modelspec

import (
	"fmt"

	"github.com/roach88/causant/internal/causaloid"
)

// Compile builds an evaluable causaloid from a validated document.
//
// Node positions in the document are graph arena indices; edges and the
// start node refer to positions, not node ids. Graph models come back
// frozen and ready to evaluate.
func Compile(doc *Document, registry *Registry) (*causaloid.Causaloid, error) {
	switch doc.Kind {
	case "singleton":
		return compileSingleton(doc, registry)
	case "collection":
		return compileCollection(doc, registry)
	case "graph":
		return compileGraph(doc, registry)
	default:
		return nil, &CompileError{Field: "kind", Message: fmt.Sprintf("unknown kind %q", doc.Kind)}
	}
}

// buildNodes constructs the per-node causaloids in declaration order.
func buildNodes(doc *Document, registry *Registry) ([]*causaloid.Causaloid, error) {
	nodes := make([]*causaloid.Causaloid, 0, len(doc.Nodes))
	for i, spec := range doc.Nodes {
		fn, err := registry.Build(spec.Function, spec.Params)
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("nodes[%d].function", i),
				Message: err.Error(),
			}
		}
		nodes = append(nodes, causaloid.NewSingleton(spec.ID, spec.Description, fn))
	}
	return nodes, nil
}

func compileSingleton(doc *Document, registry *Registry) (*causaloid.Causaloid, error) {
	if len(doc.Nodes) != 1 {
		return nil, &CompileError{
			Field:   "nodes",
			Message: fmt.Sprintf("singleton model requires exactly 1 node, got %d", len(doc.Nodes)),
		}
	}
	nodes, err := buildNodes(doc, registry)
	if err != nil {
		return nil, err
	}
	return nodes[0], nil
}

func compileCollection(doc *Document, registry *Registry) (*causaloid.Causaloid, error) {
	if doc.Reasoning == "" {
		return nil, &CompileError{Field: "reasoning", Message: "collection model requires a reasoning mode"}
	}
	mode, err := causaloid.ParseReasoningMode(doc.Reasoning)
	if err != nil {
		return nil, &CompileError{Field: "reasoning", Message: err.Error()}
	}
	if len(doc.Weights) > 0 && len(doc.Weights) != len(doc.Nodes) {
		return nil, &CompileError{
			Field:   "weights",
			Message: fmt.Sprintf("%d weights for %d nodes", len(doc.Weights), len(doc.Nodes)),
		}
	}

	nodes, err := buildNodes(doc, registry)
	if err != nil {
		return nil, err
	}

	opts := []causaloid.CollectionOption{}
	if doc.Threshold != nil {
		opts = append(opts, causaloid.WithThreshold(*doc.Threshold))
	}
	if len(doc.Weights) > 0 {
		opts = append(opts, causaloid.WithWeights(doc.Weights))
	}

	// The collection causaloid's own id is derived from the member ids'
	// successor so log entries distinguish combinator from members.
	return causaloid.NewCollection(collectionID(doc), doc.Name, mode, nodes, opts...), nil
}

// collectionID returns max(node id) + 1 for the composite causaloid.
func collectionID(doc *Document) uint64 {
	var max uint64
	for _, n := range doc.Nodes {
		if n.ID > max {
			max = n.ID
		}
	}
	return max + 1
}

func compileGraph(doc *Document, registry *Registry) (*causaloid.Causaloid, error) {
	nodes, err := buildNodes(doc, registry)
	if err != nil {
		return nil, err
	}

	g := causaloid.NewGraph()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for i, e := range doc.Edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("edges[%d]", i),
				Message: err.Error(),
			}
		}
	}
	if err := g.SetStart(doc.Start); err != nil {
		return nil, &CompileError{Field: "start", Message: err.Error()}
	}
	g.Freeze()

	return causaloid.NewGraphCausaloid(collectionID(doc), doc.Name, g), nil
}
