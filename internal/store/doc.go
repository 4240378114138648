// Package store provides SQLite-backed durable storage for causal
// evaluation provenance.
//
// The store is an append-only log of evaluation runs:
//   - Runs: one record per top-level evaluation (token, model, input,
//     terminal outcome)
//   - Log entries: the run's full propagation log, in append order
//
// Ordering uses the entry's position in the log and its logical seq
// number, never wall-clock timestamps, so replaying a persisted run
// renders a byte-identical explain trace. All read queries carry an
// explicit ORDER BY for deterministic results.
//
// Database configuration:
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
