package modelspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/causant/internal/causaloid"
	"github.com/roach88/causant/internal/effect"
)

const graphModelYAML = `
name: weather-risk
kind: graph
start: 0
nodes:
  - id: 0
    description: humidity above limit
    function: greater_than
    params: {threshold: 0.6}
  - id: 1
    description: forward
    function: passthrough
edges:
  - {from: 0, to: 1}
`

func TestLoad_ValidGraphModel(t *testing.T) {
	doc, err := Load([]byte(graphModelYAML))
	require.NoError(t, err)

	assert.Equal(t, "weather-risk", doc.Name)
	assert.Equal(t, "graph", doc.Kind)
	require.Len(t, doc.Nodes, 2)
	assert.Equal(t, "greater_than", doc.Nodes[0].Function)
	assert.Equal(t, 0.6, doc.Nodes[0].Params["threshold"])
	require.Len(t, doc.Edges, 1)
	assert.Equal(t, EdgeSpec{From: 0, To: 1}, doc.Edges[0])
}

func TestLoad_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing name", "kind: singleton\nnodes:\n  - {id: 0, description: d, function: f}\n"},
		{"bad kind", "name: m\nkind: swarm\nnodes:\n  - {id: 0, description: d, function: f}\n"},
		{"bad reasoning", "name: m\nkind: collection\nreasoning: quantum\nnodes:\n  - {id: 0, description: d, function: f}\n"},
		{"no nodes", "name: m\nkind: singleton\nnodes: []\n"},
		{"negative id", "name: m\nkind: singleton\nnodes:\n  - {id: -1, description: d, function: f}\n"},
		{"threshold out of range", "name: m\nkind: collection\nreasoning: deterministic\nthreshold: 1.5\nnodes:\n  - {id: 0, description: d, function: f}\n"},
		{"empty function", "name: m\nkind: singleton\nnodes:\n  - {id: 0, description: d, function: \"\"}\n"},
		{"empty document", ""},
		{"not yaml", "::: nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml))
			require.Error(t, err)
			var ce *CompileError
			assert.ErrorAs(t, err, &ce)
		})
	}
}

func TestCompile_Singleton(t *testing.T) {
	doc, err := Load([]byte(`
name: simple
kind: singleton
nodes:
  - id: 3
    description: x > 0.5
    function: greater_than
    params: {threshold: 0.5}
`))
	require.NoError(t, err)

	c, err := Compile(doc, NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, causaloid.KindSingleton, c.Kind())
	assert.Equal(t, uint64(3), c.ID())

	out := c.Evaluate(effect.Pure(0.9))
	require.NoError(t, out.Err())
	assert.Equal(t, effect.Value{V: true}, out.Value())
}

func TestCompile_SingletonRequiresOneNode(t *testing.T) {
	doc, err := Load([]byte(`
name: simple
kind: singleton
nodes:
  - {id: 0, description: a, function: passthrough}
  - {id: 1, description: b, function: passthrough}
`))
	require.NoError(t, err)

	_, err = Compile(doc, NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly 1 node")
}

func TestCompile_Collection(t *testing.T) {
	doc, err := Load([]byte(`
name: risk-panel
kind: collection
reasoning: probabilistic
threshold: 0.4
weights: [1, 3]
nodes:
  - id: 0
    description: always one
    function: constant
    params: {value: 1}
  - id: 1
    description: always zero
    function: constant
    params: {value: 0}
`))
	require.NoError(t, err)

	c, err := Compile(doc, NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, causaloid.KindCollection, c.Kind())

	// Aggregate (1*1 + 3*0)/4 = 0.25 < 0.4.
	out := c.Evaluate(effect.Pure(1.0))
	require.NoError(t, out.Err())
	assert.Equal(t, effect.Value{V: false}, out.Value())
}

func TestCompile_CollectionRequiresReasoning(t *testing.T) {
	doc := &Document{
		Name:  "m",
		Kind:  "collection",
		Nodes: []NodeSpec{{ID: 0, Description: "d", Function: "passthrough"}},
	}

	_, err := Compile(doc, NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reasoning")
}

func TestCompile_WeightsMustMatchNodes(t *testing.T) {
	doc := &Document{
		Name:      "m",
		Kind:      "collection",
		Reasoning: "probabilistic",
		Weights:   []float64{1, 2, 3},
		Nodes:     []NodeSpec{{ID: 0, Description: "d", Function: "passthrough"}},
	}

	_, err := Compile(doc, NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights")
}

func TestCompile_GraphEvaluates(t *testing.T) {
	doc, err := Load([]byte(graphModelYAML))
	require.NoError(t, err)

	c, err := Compile(doc, NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, causaloid.KindGraph, c.Kind())
	require.NotNil(t, c.Graph())
	assert.True(t, c.Graph().IsFrozen())

	out := c.Evaluate(effect.Pure(0.7))
	require.NoError(t, out.Err())
	assert.Equal(t, effect.Value{V: true}, out.Value())
}

func TestCompile_GraphBadEdge(t *testing.T) {
	doc := &Document{
		Name:  "m",
		Kind:  "graph",
		Nodes: []NodeSpec{{ID: 0, Description: "d", Function: "passthrough"}},
		Edges: []EdgeSpec{{From: 0, To: 9}},
	}

	_, err := Compile(doc, NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "edges[0]")
}

func TestCompile_UnknownFunction(t *testing.T) {
	doc := &Document{
		Name:  "m",
		Kind:  "singleton",
		Nodes: []NodeSpec{{ID: 0, Description: "d", Function: "warp_drive"}},
	}

	_, err := Compile(doc, NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warp_drive")
}

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t,
		[]string{"constant", "greater_than", "in_range", "less_than", "passthrough", "scale"},
		r.Names())
}

func TestRegistry_BuilderParams(t *testing.T) {
	r := NewRegistry()

	_, err := r.Build("greater_than", nil)
	assert.Error(t, err, "missing threshold param")

	_, err = r.Build("in_range", map[string]float64{"min": 2, "max": 1})
	assert.Error(t, err, "inverted range")

	fn, err := r.Build("scale", map[string]float64{"factor": 3})
	require.NoError(t, err)
	out := fn(effect.Value{V: 2.0})
	assert.Equal(t, effect.Value{V: 6.0}, out.Value())
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	err := r.Register("custom", func(map[string]float64) (causaloid.CausalFn, error) {
		return nil, nil
	})
	require.NoError(t, err)

	err = r.Register("custom", func(map[string]float64) (causaloid.CausalFn, error) {
		return nil, nil
	})
	assert.Error(t, err)
}
