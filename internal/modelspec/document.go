// Package modelspec loads declarative causal model definitions.
//
// Models are YAML documents validated against an embedded CUE schema
// before compilation, so structural mistakes surface as validation
// errors with field paths instead of nil-function panics at evaluation
// time. Compilation binds node functions by name through a Registry of
// causal function builders.
package modelspec

import (
	"fmt"
	"os"

	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

// schemaCUE constrains model documents. Validation happens on the raw
// decoded YAML, so unknown reasoning modes, negative indices, and
// missing required fields are all caught here.
const schemaCUE = `
#Node: {
	id:          int & >=0
	description: string
	function:    string & !=""
	params?: {[string]: number}
}

#Edge: {
	from: int & >=0
	to:   int & >=0
}

name: string & !=""
kind: "singleton" | "collection" | "graph"
reasoning?: "deterministic" | "probabilistic" | "uncertain"
threshold?: number & >=0 & <=1
weights?: [...number]
nodes: [#Node, ...#Node]
edges?: [...#Edge]
start?: int & >=0
`

// Document is a declarative causal model definition.
type Document struct {
	Name      string     `yaml:"name"`
	Kind      string     `yaml:"kind"`
	Reasoning string     `yaml:"reasoning,omitempty"`
	Threshold *float64   `yaml:"threshold,omitempty"`
	Weights   []float64  `yaml:"weights,omitempty"`
	Nodes     []NodeSpec `yaml:"nodes"`
	Edges     []EdgeSpec `yaml:"edges,omitempty"`
	Start     int        `yaml:"start,omitempty"`
}

// NodeSpec declares one causaloid backed by a named builtin function.
type NodeSpec struct {
	ID          uint64             `yaml:"id"`
	Description string             `yaml:"description"`
	Function    string             `yaml:"function"`
	Params      map[string]float64 `yaml:"params,omitempty"`
}

// EdgeSpec declares one directed graph edge by node position.
type EdgeSpec struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// CompileError reports a model definition problem with its field path.
type CompileError struct {
	Field   string
	Message string
}

func (e *CompileError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("model: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("model: %s", e.Message)
}

// Load parses and validates a YAML model document.
func Load(data []byte) (*Document, error) {
	// Decode to a generic tree first for CUE validation. yaml.v3 yields
	// map[string]any for mappings, which cue.Context.Encode accepts.
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &CompileError{Message: fmt.Sprintf("invalid YAML: %v", err)}
	}
	if raw == nil {
		return nil, &CompileError{Message: "empty document"}
	}

	if err := validateAgainstSchema(raw); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &CompileError{Message: fmt.Sprintf("invalid YAML: %v", err)}
	}
	return &doc, nil
}

// LoadFile reads and validates a model document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CompileError{Message: fmt.Sprintf("read %s: %v", path, err)}
	}
	return Load(data)
}

// validateAgainstSchema unifies the decoded document with the embedded
// CUE schema and reports the first constraint violation.
func validateAgainstSchema(raw any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return &CompileError{Message: fmt.Sprintf("internal schema error: %v", err)}
	}

	value := ctx.Encode(raw)
	if err := value.Err(); err != nil {
		return &CompileError{Message: fmt.Sprintf("encode document: %v", err)}
	}

	unified := schema.Unify(value)
	if err := unified.Validate(); err != nil {
		return &CompileError{Message: cueerrors.Details(err, nil)}
	}
	return nil
}
