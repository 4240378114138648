// Package causaloid implements evaluable units of causal computation and
// the reasoning that drives them.
//
// A Causaloid is one of three kinds:
//
//   - Singleton: wraps one pure or context-aware causal function and
//     evaluates it as a three-stage bind chain (log input, execute,
//     log output).
//   - Collection: an ordered set of causaloids combined under a
//     reasoning mode (deterministic, probabilistic, uncertain).
//   - Graph: a frozen dependency graph of causaloids evaluated
//     breadth-first or along a precomputed shortest path, with support
//     for runtime RelayTo redirection.
//
// Evaluation is single-threaded, synchronous, and cooperative per
// propagation chain: a full graph evaluation runs to completion on the
// calling thread. The only cancellation primitive at this layer is the
// error short-circuit. Independent chains may run in parallel in the
// host application; the shared context they touch is lock-protected in
// package causalctx.
package causaloid
