// Package effect defines the value/error/log triple threaded through
// causal evaluation, and the monadic operators that compose it.
//
// The two carrier types are:
//
//   - PropagatingEffect: the stateless monad passed between causaloids.
//   - PropagatingProcess: the stateful variant used by context-aware
//     causal functions; it is converted to a PropagatingEffect at the
//     singleton evaluation boundary.
//
// Two invariants govern every effect in the system:
//
//  1. Error precedence: when an error is present, the value is absent
//     for all consumers, regardless of what the value field holds.
//  2. No empty terminal state: a None value with no error never crosses
//     a stage boundary; it is replaced with an INVARIANT_VIOLATION error.
//
// Logs are append-only. Composition concatenates logs; nothing ever
// truncates, reorders, or deduplicates them.
package effect
