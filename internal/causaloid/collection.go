package causaloid

import (
	"fmt"

	"github.com/roach88/causant/internal/effect"
)

// ReasoningMode selects the combinator applied over a collection's
// per-element effects.
type ReasoningMode int

const (
	// ModeDeterministic is a logical AND over boolean-coercible outcomes.
	ModeDeterministic ReasoningMode = iota + 1
	// ModeProbabilistic is weighted numeric aggregation against a threshold.
	ModeProbabilistic
	// ModeUncertain aggregates over sample sets rather than scalars.
	ModeUncertain
)

// String returns the mode's stable label.
func (m ReasoningMode) String() string {
	switch m {
	case ModeDeterministic:
		return "deterministic"
	case ModeProbabilistic:
		return "probabilistic"
	case ModeUncertain:
		return "uncertain"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseReasoningMode parses a mode label.
func ParseReasoningMode(s string) (ReasoningMode, error) {
	switch s {
	case "deterministic":
		return ModeDeterministic, nil
	case "probabilistic":
		return ModeProbabilistic, nil
	case "uncertain":
		return ModeUncertain, nil
	default:
		return 0, fmt.Errorf("unknown reasoning mode %q", s)
	}
}

// evaluateCollection evaluates every member against the same input effect
// and folds the results through the collection's reasoning mode.
//
// All three modes share two rules:
//   - the first member error short-circuits the whole collection with
//     that error (it is never averaged away), and
//   - every evaluated member's log is concatenated into the combined log
//     regardless of the combinator, so provenance is never partial even
//     when the final answer hides individual contributions.
func (c *Causaloid) evaluateCollection(clk *effect.Clock, e *effect.PropagatingEffect) *effect.PropagatingEffect {
	if e.IsError() {
		return effect.FromError(e.Err()).WithLog(e.Log())
	}
	if len(c.members) == 0 {
		return effect.FromError(effect.NewStructuralError(
			effect.ErrCodeEmptyCollection, "collection %d has no members", c.id)).WithLog(e.Log())
	}

	switch c.mode {
	case ModeDeterministic:
		return c.reasonDeterministic(clk, e)
	case ModeProbabilistic:
		return c.reasonProbabilistic(clk, e)
	case ModeUncertain:
		return c.reasonUncertain(clk, e)
	default:
		return effect.FromError(effect.NewStructuralError(
			effect.ErrCodeModelInvalid, "collection %d has unknown reasoning mode %d", c.id, int(c.mode))).WithLog(e.Log())
	}
}

// evaluateMembers runs each member against a clone of the input effect in
// declaration order, calling visit with the member index and result.
// Returns (combined log, short-circuit error effect or nil).
func (c *Causaloid) evaluateMembers(
	clk *effect.Clock,
	e *effect.PropagatingEffect,
	visit func(i int, res *effect.PropagatingEffect) error,
) (effect.Log, *effect.PropagatingEffect) {
	log := e.Log().Clone()
	for i, member := range c.members {
		res := member.EvaluateWithClock(clk, e.Clone())
		// Member logs start from the shared input log; only the new tail
		// is appended to the combined log.
		log = log.Concat(memberTail(e.Log(), res.Log()))
		if res.IsError() {
			return log, effect.FromError(res.Err()).WithLog(log)
		}
		if err := visit(i, res); err != nil {
			return log, effect.FromError(effect.NewComputationError(c.id, "%v", err)).WithLog(log)
		}
	}
	return log, nil
}

// memberTail returns the entries a member appended beyond the shared
// input prefix.
func memberTail(prefix, full effect.Log) effect.Log {
	if len(full) >= len(prefix) {
		return full[len(prefix):]
	}
	return full
}

func (c *Causaloid) reasonDeterministic(clk *effect.Clock, e *effect.PropagatingEffect) *effect.PropagatingEffect {
	all := true
	log, short := c.evaluateMembers(clk, e, func(i int, res *effect.PropagatingEffect) error {
		b, err := effect.AsBool(res.Value())
		if err != nil {
			return fmt.Errorf("member %d: %v", c.members[i].ID(), err)
		}
		all = all && b
		return nil
	})
	if short != nil {
		return short
	}
	entry := effect.Entry{
		Seq:         clk.Next(),
		CausaloidID: c.id,
		Message:     fmt.Sprintf("deterministic: all %d members hold = %t", len(c.members), all),
	}
	return effect.Pure(all).WithLog(log.Append(entry))
}

func (c *Causaloid) reasonProbabilistic(clk *effect.Clock, e *effect.PropagatingEffect) *effect.PropagatingEffect {
	var weighted, total float64
	log, short := c.evaluateMembers(clk, e, func(i int, res *effect.PropagatingEffect) error {
		x, err := effect.AsFloat64(res.Value())
		if err != nil {
			return fmt.Errorf("member %d: %v", c.members[i].ID(), err)
		}
		w := 1.0
		if i < len(c.weights) {
			w = c.weights[i]
		}
		weighted += w * x
		total += w
		return nil
	})
	if short != nil {
		return short
	}
	if total == 0 {
		return effect.FromError(effect.NewComputationError(
			c.id, "probabilistic reasoning over zero total weight")).WithLog(log)
	}
	score := weighted / total
	holds := score >= c.threshold
	entry := effect.Entry{
		Seq:         clk.Next(),
		CausaloidID: c.id,
		Message:     fmt.Sprintf("probabilistic: aggregate %.6f vs threshold %.6f = %t", score, c.threshold, holds),
	}
	return effect.Pure(holds).WithLog(log.Append(entry))
}

func (c *Causaloid) reasonUncertain(clk *effect.Clock, e *effect.PropagatingEffect) *effect.PropagatingEffect {
	var pooled effect.Samples
	log, short := c.evaluateMembers(clk, e, func(i int, res *effect.PropagatingEffect) error {
		s, err := effect.AsSamples(res.Value())
		if err != nil {
			return fmt.Errorf("member %d: %v", c.members[i].ID(), err)
		}
		pooled = append(pooled, s...)
		return nil
	})
	if short != nil {
		return short
	}
	if len(pooled) == 0 {
		return effect.FromError(effect.NewComputationError(
			c.id, "uncertain reasoning over zero samples")).WithLog(log)
	}
	mean := pooled.Mean()
	holds := mean >= c.threshold
	entry := effect.Entry{
		Seq:         clk.Next(),
		CausaloidID: c.id,
		Message:     fmt.Sprintf("uncertain: mean of %d samples %.6f vs threshold %.6f = %t", len(pooled), mean, c.threshold, holds),
	}
	return effect.Pure(holds).WithLog(log.Append(entry))
}
