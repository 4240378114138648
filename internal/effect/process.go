package effect

import (
	"github.com/roach88/causant/internal/causalctx"
)

// PropagatingProcess is the stateful monad used by context-aware causal
// functions: value/error/log plus an evolving state and a handle to a
// shared context.
//
// A process lives for exactly one causal-function invocation. It is
// consumed at the singleton evaluation boundary, where Resolve converts
// it to a PropagatingEffect: state and context are dropped, value, error,
// and log survive. The process only borrows the context handle; it never
// extends the context's lifetime beyond the call.
type PropagatingProcess struct {
	value EffectValue
	state any
	ctx   *causalctx.Context
	err   error
	log   Log
}

// ProcessPure constructs a successful process carrying v alongside the
// given state and context handle.
func ProcessPure(v any, state any, ctx *causalctx.Context) *PropagatingProcess {
	return &PropagatingProcess{value: Value{V: v}, state: state, ctx: ctx}
}

// ProcessFromValue constructs a process carrying the given variant
// verbatim. Unlike the effect constructor, None is permitted here: the
// illegal-state synthesis happens once, in Resolve, so the boundary owns
// that rule in a single place.
func ProcessFromValue(v EffectValue, state any, ctx *causalctx.Context) *PropagatingProcess {
	if v == nil {
		v = None{}
	}
	return &PropagatingProcess{value: v, state: state, ctx: ctx}
}

// ProcessFromError constructs an error-bearing process.
func ProcessFromError(err error, state any, ctx *causalctx.Context) *PropagatingProcess {
	return &PropagatingProcess{value: None{}, state: state, ctx: ctx, err: err}
}

// WithError returns a copy of the process carrying err. The value field
// is left untouched: Resolve gives the error precedence regardless.
func (p *PropagatingProcess) WithError(err error) *PropagatingProcess {
	out := *p
	out.err = err
	return &out
}

// WithLog returns a copy of the process carrying the given log.
func (p *PropagatingProcess) WithLog(log Log) *PropagatingProcess {
	out := *p
	out.log = log
	return &out
}

// State returns the process's threaded state.
func (p *PropagatingProcess) State() any {
	return p.state
}

// Context returns the shared context handle, which may be nil.
func (p *PropagatingProcess) Context() *causalctx.Context {
	return p.ctx
}

// Err returns the process's error, or nil.
func (p *PropagatingProcess) Err() error {
	return p.err
}

// Log returns the process's accumulated log.
func (p *PropagatingProcess) Log() Log {
	return p.log
}

// Resolve converts the process to a PropagatingEffect at the singleton
// evaluation boundary. The order of the checks is the single most
// safety-critical rule in the engine:
//
//  1. A present error wins unconditionally - it is returned before the
//     value field is even inspected, so a function that produced both a
//     fallback value and an error never has the error silently dropped.
//  2. Otherwise Value payloads pass through, None synthesizes an
//     INVARIANT_VIOLATION, and ContextualLink/RelayTo/Map are preserved
//     verbatim as first-class successful outcomes.
//
// In every branch the result carries the process's log: provenance
// survives the state/context drop.
func (p *PropagatingProcess) Resolve() *PropagatingEffect {
	if p.err != nil {
		return FromError(p.err).WithLog(p.log)
	}
	switch v := p.value.(type) {
	case nil, None:
		return FromError(NewInvariantError(0, "context function")).WithLog(p.log)
	case Value:
		return Pure(v.V).WithLog(p.log)
	default:
		return (&PropagatingEffect{value: p.value}).WithLog(p.log)
	}
}
