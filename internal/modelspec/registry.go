package modelspec

import (
	"fmt"
	"sort"

	"github.com/roach88/causant/internal/causaloid"
	"github.com/roach88/causant/internal/effect"
)

// Builder constructs a causal function from a node's params.
type Builder func(params map[string]float64) (causaloid.CausalFn, error)

// Registry maps function names to builders. The builtin set covers the
// numeric predicates declarative models need; host applications register
// their own builders for domain kernels.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry creates a registry preloaded with the builtin functions.
func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}
	r.registerBuiltins()
	return r
}

// Register adds a builder. Registering a duplicate name is an error.
func (r *Registry) Register(name string, b Builder) error {
	if _, exists := r.builders[name]; exists {
		return fmt.Errorf("function %q already registered", name)
	}
	r.builders[name] = b
	return nil
}

// Build constructs the causal function registered under name.
func (r *Registry) Build(name string, params map[string]float64) (causaloid.CausalFn, error) {
	b, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown function %q (known: %v)", name, r.Names())
	}
	return b(params)
}

// Names returns the registered function names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// requireParam fetches a named param or fails the build.
func requireParam(params map[string]float64, key string) (float64, error) {
	v, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("missing required param %q", key)
	}
	return v, nil
}

func (r *Registry) registerBuiltins() {
	// passthrough forwards its input unchanged.
	r.builders["passthrough"] = func(map[string]float64) (causaloid.CausalFn, error) {
		return func(v effect.EffectValue) *effect.PropagatingEffect {
			return effect.FromValue(v)
		}, nil
	}

	// constant ignores its input and yields params.value.
	r.builders["constant"] = func(params map[string]float64) (causaloid.CausalFn, error) {
		c, err := requireParam(params, "value")
		if err != nil {
			return nil, err
		}
		return func(effect.EffectValue) *effect.PropagatingEffect {
			return effect.Pure(c)
		}, nil
	}

	// greater_than evaluates input > params.threshold.
	r.builders["greater_than"] = numericPredicate("threshold", func(x, t float64) bool {
		return x > t
	})

	// less_than evaluates input < params.threshold.
	r.builders["less_than"] = numericPredicate("threshold", func(x, t float64) bool {
		return x < t
	})

	// in_range evaluates params.min <= input <= params.max.
	r.builders["in_range"] = func(params map[string]float64) (causaloid.CausalFn, error) {
		min, err := requireParam(params, "min")
		if err != nil {
			return nil, err
		}
		max, err := requireParam(params, "max")
		if err != nil {
			return nil, err
		}
		if min > max {
			return nil, fmt.Errorf("min %v exceeds max %v", min, max)
		}
		return func(v effect.EffectValue) *effect.PropagatingEffect {
			x, err := effect.AsFloat64(v)
			if err != nil {
				return effect.FromError(err)
			}
			return effect.Pure(x >= min && x <= max)
		}, nil
	}

	// scale multiplies numeric input by params.factor.
	r.builders["scale"] = func(params map[string]float64) (causaloid.CausalFn, error) {
		factor, err := requireParam(params, "factor")
		if err != nil {
			return nil, err
		}
		return func(v effect.EffectValue) *effect.PropagatingEffect {
			x, err := effect.AsFloat64(v)
			if err != nil {
				return effect.FromError(err)
			}
			return effect.Pure(x * factor)
		}, nil
	}
}

// numericPredicate builds a threshold comparison function.
func numericPredicate(paramKey string, cmp func(x, t float64) bool) Builder {
	return func(params map[string]float64) (causaloid.CausalFn, error) {
		t, err := requireParam(params, paramKey)
		if err != nil {
			return nil, err
		}
		return func(v effect.EffectValue) *effect.PropagatingEffect {
			x, err := effect.AsFloat64(v)
			if err != nil {
				return effect.FromError(err)
			}
			return effect.Pure(cmp(x, t))
		}, nil
	}
}
