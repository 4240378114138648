// Package harness executes declarative evaluation scenarios and compares
// their traces against golden snapshots.
//
// A scenario names a model and a list of input cases with expected
// outcomes. Running a scenario evaluates every case and collects the
// propagation trace; the golden comparison serializes the result as
// canonical JSON so snapshots are byte-stable across runs and platforms.
package harness
