package effect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/causant/internal/causalctx"
)

// Error precedence at the process boundary: a function that produced
// both a fallback value and an error must never have the error dropped.
// The error check happens before the value is even inspected.
func TestResolve_ErrorWinsOverSimultaneousValue(t *testing.T) {
	warn := errors.New("data quality issue")
	p := ProcessPure(42.0, nil, nil).WithError(warn)

	out := p.Resolve()

	require.Error(t, out.Err())
	assert.Equal(t, warn, out.Err())
	assert.Equal(t, None{}, out.Value())
}

func TestResolve_ValuePassesThrough(t *testing.T) {
	p := ProcessPure(42.0, nil, nil)

	out := p.Resolve()

	require.NoError(t, out.Err())
	assert.Equal(t, Value{V: 42.0}, out.Value())
}

// Non-Value variants are first-class successful outcomes: the boundary
// preserves them verbatim, never converts them to errors.
func TestResolve_PreservesNonValueVariants(t *testing.T) {
	tests := []struct {
		name string
		v    EffectValue
	}{
		{"contextual link", ContextualLink{ContextID: 42, ContextoidID: 100}},
		{"relay", RelayTo{Target: 1, Effect: Pure(3.0)}},
		{"map", Map{Entries: map[string]*PropagatingEffect{"k": Pure(2.0)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProcessFromValue(tt.v, nil, nil)
			out := p.Resolve()

			require.NoError(t, out.Err())
			assert.Equal(t, tt.v, out.Value())
		})
	}
}

func TestResolve_NoneWithoutErrorSynthesizesDiagnostic(t *testing.T) {
	p := ProcessFromValue(None{}, nil, nil)

	out := p.Resolve()

	require.Error(t, out.Err())
	assert.Equal(t, ErrCodeInvariantViolation, CodeOf(out.Err()))
	assert.Contains(t, out.Err().Error(), "no value and no error")
}

// Logs survive the state/context drop in every branch.
func TestResolve_LogSurvivesInAllBranches(t *testing.T) {
	log := Log{{Seq: 1, CausaloidID: 5, Message: "computed"}}

	tests := []struct {
		name string
		p    *PropagatingProcess
	}{
		{"value", ProcessPure(1.0, nil, nil).WithLog(log)},
		{"error", ProcessFromError(errors.New("boom"), nil, nil).WithLog(log)},
		{"none", ProcessFromValue(None{}, nil, nil).WithLog(log)},
		{"link", ProcessFromValue(ContextualLink{ContextID: 1, ContextoidID: 2}, nil, nil).WithLog(log)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.p.Resolve()
			require.Len(t, out.Log(), 1)
			assert.Equal(t, "computed", out.Log()[0].Message)
		})
	}
}

// The process only borrows the context handle; resolution drops it.
func TestProcess_ContextIsSharedNotOwned(t *testing.T) {
	ctx := causalctx.New(1, "knowledge")
	ctx.Write(10, 3.14)

	p := ProcessPure(1.0, "state", ctx)
	require.Same(t, ctx, p.Context())
	assert.Equal(t, "state", p.State())

	out := p.Resolve()
	require.NoError(t, out.Err())

	// The shared context is untouched by resolution.
	v, ok := ctx.Read(10)
	require.True(t, ok)
	assert.Equal(t, 3.14, v)
}
