package causaloid

import (
	"github.com/roach88/causant/internal/effect"
)

// evaluateSingleton threads the incoming effect through the three-stage
// bind chain: log input, execute, log output.
//
// Each stage enforces the same invariant: an EffectValue of None with no
// accompanying error never exits a stage. The input stage checks its
// incoming value explicitly, the execute stage relies on Bind's result
// normalization, and the output stage constructs its result through
// FromValue, which normalizes as well. The rule is uniform, not ad hoc
// per stage.
//
// No stage retries. A failure at any stage terminates the evaluation with
// an error-bearing effect, which is an ordinary return value.
func (c *Causaloid) evaluateSingleton(clk *effect.Clock, e *effect.PropagatingEffect) *effect.PropagatingEffect {
	staged := e.Bind(c.logInputStage(clk))
	staged = staged.Bind(c.executeStage())
	return staged.Bind(c.logOutputStage(clk))
}

// logInputStage records the incoming value. A None input fails the whole
// evaluation: there is nothing meaningful to compute from.
func (c *Causaloid) logInputStage(clk *effect.Clock) func(effect.EffectValue) *effect.PropagatingEffect {
	return func(v effect.EffectValue) *effect.PropagatingEffect {
		entry := effect.Entry{
			Seq:         clk.Next(),
			CausaloidID: c.id,
			Message:     "input: " + effect.RenderValue(v),
		}
		switch v.(type) {
		case nil, effect.None:
			return effect.FromError(effect.NewInvariantError(c.id, "input stage")).AppendLog(entry)
		default:
			return effect.FromValue(v).AppendLog(entry)
		}
	}
}

// executeStage invokes the wrapped causal function. Context-aware
// functions return a process that is resolved at this boundary; the
// resolution gives a present error precedence over any simultaneously
// present value.
func (c *Causaloid) executeStage() func(effect.EffectValue) *effect.PropagatingEffect {
	return func(v effect.EffectValue) *effect.PropagatingEffect {
		switch {
		case c.ctxFn != nil:
			proc := c.ctxFn(v, c.state, c.context)
			if proc == nil {
				return effect.FromError(effect.NewInvariantError(c.id, "context function"))
			}
			return proc.Resolve()
		case c.fn != nil:
			out := c.fn(v)
			if out == nil {
				return effect.FromError(effect.NewInvariantError(c.id, "causal function"))
			}
			return out
		default:
			return effect.FromError(effect.NewStructuralError(
				effect.ErrCodeModelInvalid, "singleton %d has no causal function", c.id))
		}
	}
}

// logOutputStage records the outgoing value. FromValue converts a bare
// None into an invariant error, so this stage enforces the empty-state
// rule even if it is somehow reached with one.
func (c *Causaloid) logOutputStage(clk *effect.Clock) func(effect.EffectValue) *effect.PropagatingEffect {
	return func(v effect.EffectValue) *effect.PropagatingEffect {
		entry := effect.Entry{
			Seq:         clk.Next(),
			CausaloidID: c.id,
			Message:     "output: " + effect.RenderValue(v),
		}
		return effect.FromValue(v).AppendLog(entry)
	}
}
