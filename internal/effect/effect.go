package effect

// PropagatingEffect is the stateless monad threaded between causaloids:
// a value, an optional error, and an append-only log.
//
// Fields are unexported so that constructors and accessors can enforce
// the two carrier invariants. In particular Value() reports None whenever
// an error is present, so no consumer can observe a "valid-looking" value
// that hides an error.
type PropagatingEffect struct {
	value EffectValue
	err   error
	log   Log
}

// Pure constructs a successful effect carrying v, with an empty log.
// This is the monadic unit.
func Pure(v any) *PropagatingEffect {
	return &PropagatingEffect{value: Value{V: v}}
}

// FromValue constructs an effect carrying the given variant verbatim.
// ContextualLink, RelayTo, and Map are first-class successful outcomes
// and survive unchanged. A None (the illegal terminal state) is replaced
// with a synthesized INVARIANT_VIOLATION error.
func FromValue(v EffectValue) *PropagatingEffect {
	switch v.(type) {
	case nil, None:
		return FromError(NewInvariantError(0, "effect constructor"))
	default:
		return &PropagatingEffect{value: v}
	}
}

// FromError constructs an error-bearing effect. A nil err is itself an
// invariant violation and is replaced with a synthesized error rather
// than producing the illegal None-without-error state.
func FromError(err error) *PropagatingEffect {
	if err == nil {
		err = NewInvariantError(0, "error constructor")
	}
	return &PropagatingEffect{value: None{}, err: err}
}

// WithLog returns a copy of the effect carrying the given log.
// Used at boundaries where a surviving log must be attached to a freshly
// constructed effect (e.g., the process-to-effect conversion).
func (e *PropagatingEffect) WithLog(log Log) *PropagatingEffect {
	return &PropagatingEffect{value: e.value, err: e.err, log: log}
}

// Value returns the active payload variant. When an error is present the
// payload is absent by definition: None is returned regardless of what
// the underlying field holds.
func (e *PropagatingEffect) Value() EffectValue {
	if e.err != nil {
		return None{}
	}
	if e.value == nil {
		return None{}
	}
	return e.value
}

// Err returns the effect's error, or nil on the success path.
func (e *PropagatingEffect) Err() error {
	return e.err
}

// Log returns the accumulated provenance log.
func (e *PropagatingEffect) Log() Log {
	return e.log
}

// IsError reports whether the effect carries an error.
func (e *PropagatingEffect) IsError() bool {
	return e.err != nil
}

// Relay returns the relay directive if the effect carries one.
func (e *PropagatingEffect) Relay() (RelayTo, bool) {
	if e.err != nil {
		return RelayTo{}, false
	}
	r, ok := e.value.(RelayTo)
	return r, ok
}

// Clone returns an independent copy of the effect. The log is copied so
// that branches fanning out from one effect cannot alias each other's
// appended tails.
func (e *PropagatingEffect) Clone() *PropagatingEffect {
	return &PropagatingEffect{value: e.value, err: e.err, log: e.log.Clone()}
}

// AppendLog returns a copy of the effect with entries appended to its log.
func (e *PropagatingEffect) AppendLog(entries ...Entry) *PropagatingEffect {
	return &PropagatingEffect{value: e.value, err: e.err, log: e.log.Append(entries...)}
}

// Explain renders the accumulated log. Read-only; rendered identically
// for successful and failed evaluations so failure diagnostics are never
// hidden.
func (e *PropagatingEffect) Explain() string {
	return e.log.String()
}

// Bind is monadic composition with error short-circuit.
//
// If e carries an error, f is never invoked: the result carries the same
// error, an absent value, and the unchanged accumulated log. Otherwise f
// receives the full payload variant (not only Value) and the returned
// effect's log is appended to the incoming log.
//
// The result is normalized: a None value with no error never exits a
// Bind. This is enforced here, uniformly, rather than ad hoc per stage.
func Bind(e *PropagatingEffect, f func(EffectValue) *PropagatingEffect) *PropagatingEffect {
	if e.err != nil {
		return &PropagatingEffect{value: None{}, err: e.err, log: e.log}
	}
	out := f(e.Value())
	if out == nil {
		return &PropagatingEffect{
			value: None{},
			err:   NewInvariantError(0, "bound function"),
			log:   e.log,
		}
	}
	result := &PropagatingEffect{
		value: out.value,
		err:   out.err,
		log:   e.log.Concat(out.log),
	}
	return result.normalize("bound function")
}

// Bind is the method form of the package-level Bind.
func (e *PropagatingEffect) Bind(f func(EffectValue) *PropagatingEffect) *PropagatingEffect {
	return Bind(e, f)
}

// normalize replaces the illegal None-without-error terminal state with a
// synthesized diagnostic error. All other states pass through unchanged.
func (e *PropagatingEffect) normalize(where string) *PropagatingEffect {
	if e.err != nil {
		return e
	}
	switch e.value.(type) {
	case nil, None:
		return &PropagatingEffect{
			value: None{},
			err:   NewInvariantError(0, where),
			log:   e.log,
		}
	default:
		return e
	}
}
