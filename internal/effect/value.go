package effect

import (
	"fmt"
	"sort"
	"strings"
)

// EffectValue is a sealed interface representing the payload variants an
// effect can carry. Only None, Value, ContextualLink, RelayTo, and Map
// implement it. Exactly one variant is active per effect.
//
// None is the anomalous variant: a None with no accompanying error is an
// illegal terminal state and is normalized to an error at every stage
// boundary. The remaining non-Value variants (ContextualLink, RelayTo, Map)
// are first-class successful outcomes and must be preserved verbatim by
// every boundary conversion.
type EffectValue interface {
	effectValue() // Sealed - only these types implement it
}

// None represents the absence of a payload.
type None struct{}

func (None) effectValue() {}

// Value wraps an opaque payload produced by a causal function.
// The engine never interprets V beyond the boolean/numeric coercions
// used by collection reasoning; it may be a scalar, a tensor, a sample
// set, or any other collaborator-defined type.
type Value struct {
	V any
}

func (Value) effectValue() {}

// ContextualLink is a lazy-fetch reference into a shared context:
// (context id, contextoid id). Dereferencing is the consumer's concern;
// the engine carries the link unchanged.
type ContextualLink struct {
	ContextID    uint64
	ContextoidID uint64
}

func (ContextualLink) effectValue() {}

// RelayTo is a dynamic jump directive: it instructs graph traversal to
// redirect to Target with Effect as the incoming effect. The target index
// is only meaningful relative to a specific graph instance and must be
// bounds-checked before dereference.
//
// RelayTo is data, not control flow - the traversal driver interprets it;
// nothing ever jumps or panics on its behalf.
type RelayTo struct {
	Target int
	Effect *PropagatingEffect
}

func (RelayTo) effectValue() {}

// Map carries named sub-effects keyed by identifier.
type Map struct {
	Entries map[string]*PropagatingEffect
}

func (Map) effectValue() {}

// Samples is an opaque sample-set payload consumed by uncertain
// collection reasoning. The engine only ever averages it; producing
// samples (and their statistics) is a collaborator concern.
type Samples []float64

// Mean returns the arithmetic mean of the samples, or 0 for an empty set.
func (s Samples) Mean() float64 {
	if len(s) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s))
}

// AsBool coerces an EffectValue to a boolean for deterministic reasoning.
// Accepts Value payloads of type bool. Everything else is a coercion error.
func AsBool(v EffectValue) (bool, error) {
	val, ok := v.(Value)
	if !ok {
		return false, fmt.Errorf("cannot coerce %s to bool", VariantName(v))
	}
	b, ok := val.V.(bool)
	if !ok {
		return false, fmt.Errorf("cannot coerce payload %T to bool", val.V)
	}
	return b, nil
}

// AsFloat64 coerces an EffectValue to a float64 for probabilistic
// reasoning. Accepts Value payloads of type float64, int, int64, or bool
// (true=1, false=0).
func AsFloat64(v EffectValue) (float64, error) {
	val, ok := v.(Value)
	if !ok {
		return 0, fmt.Errorf("cannot coerce %s to float64", VariantName(v))
	}
	switch p := val.V.(type) {
	case float64:
		return p, nil
	case int:
		return float64(p), nil
	case int64:
		return float64(p), nil
	case bool:
		if p {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot coerce payload %T to float64", val.V)
	}
}

// AsSamples coerces an EffectValue to a sample set for uncertain
// reasoning. A plain numeric payload is promoted to a single-sample set.
func AsSamples(v EffectValue) (Samples, error) {
	val, ok := v.(Value)
	if !ok {
		return nil, fmt.Errorf("cannot coerce %s to samples", VariantName(v))
	}
	if s, ok := val.V.(Samples); ok {
		return s, nil
	}
	if s, ok := val.V.([]float64); ok {
		return Samples(s), nil
	}
	f, err := AsFloat64(v)
	if err != nil {
		return nil, err
	}
	return Samples{f}, nil
}

// VariantName returns the stable variant label used in logs and errors.
func VariantName(v EffectValue) string {
	switch v.(type) {
	case nil:
		return "Nil"
	case None:
		return "None"
	case Value:
		return "Value"
	case ContextualLink:
		return "ContextualLink"
	case RelayTo:
		return "RelayTo"
	case Map:
		return "Map"
	default:
		return fmt.Sprintf("Unknown(%T)", v)
	}
}

// RenderValue renders an EffectValue for log messages and trace output.
// Map entries are rendered in sorted key order for deterministic traces.
func RenderValue(v EffectValue) string {
	switch val := v.(type) {
	case nil:
		return "Nil"
	case None:
		return "None"
	case Value:
		return fmt.Sprintf("Value(%v)", val.V)
	case ContextualLink:
		return fmt.Sprintf("ContextualLink(%d,%d)", val.ContextID, val.ContextoidID)
	case RelayTo:
		return fmt.Sprintf("RelayTo(%d)", val.Target)
	case Map:
		keys := make([]string, 0, len(val.Entries))
		for k := range val.Entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "Map{" + strings.Join(keys, ",") + "}"
	default:
		return fmt.Sprintf("Unknown(%T)", v)
	}
}
