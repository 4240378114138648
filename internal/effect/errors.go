package effect

import (
	"errors"
	"fmt"
)

// EvalError represents an error produced by or detected during causal
// evaluation.
//
// Three kinds flow through the engine, all carried uniformly in the error
// field of an effect:
//   - Computation errors: raised by a causal function's own logic.
//   - Structural errors: engine-detected (missing node, unfrozen graph,
//     invalid relay target, empty collection).
//   - Invariant violations: engine-synthesized when a None value with no
//     error is observed at a conversion boundary.
//
// There is no fatal/recoverable split at this layer; every error is a
// normal return value that the caller decides how to handle.
type EvalError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// CausaloidID identifies the causaloid that produced or surfaced the
	// error, when known.
	CausaloidID uint64

	// Details contains additional context.
	Details map[string]string
}

// ErrorCode categorizes evaluation errors.
type ErrorCode string

const (
	// ErrCodeComputation indicates a causal function failed in its own logic.
	ErrCodeComputation ErrorCode = "COMPUTATION_FAILED"

	// ErrCodeGraphNotFrozen indicates evaluation was attempted on a graph
	// whose adjacency was not finalized.
	ErrCodeGraphNotFrozen ErrorCode = "GRAPH_NOT_FROZEN"

	// ErrCodeNodeNotFound indicates a start/stop node is absent from the graph.
	ErrCodeNodeNotFound ErrorCode = "NODE_NOT_FOUND"

	// ErrCodeInvalidRelayTarget indicates a RelayTo directive named a node
	// outside the graph.
	ErrCodeInvalidRelayTarget ErrorCode = "INVALID_RELAY_TARGET"

	// ErrCodeInvariantViolation indicates a None value with no error was
	// observed at a stage boundary.
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"

	// ErrCodeEmptyCollection indicates collection reasoning over zero members.
	ErrCodeEmptyCollection ErrorCode = "EMPTY_COLLECTION"

	// ErrCodeNoPath indicates no path exists between the requested nodes.
	ErrCodeNoPath ErrorCode = "NO_PATH"

	// ErrCodeModelInvalid indicates a declarative model failed validation.
	ErrCodeModelInvalid ErrorCode = "MODEL_INVALID"
)

// Error implements the error interface.
func (e *EvalError) Error() string {
	if e.CausaloidID != 0 {
		return fmt.Sprintf("%s: %s (causaloid=%d)", e.Code, e.Message, e.CausaloidID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewComputationError creates a computation error for a causaloid.
func NewComputationError(causaloidID uint64, format string, args ...any) *EvalError {
	return &EvalError{
		Code:        ErrCodeComputation,
		Message:     fmt.Sprintf(format, args...),
		CausaloidID: causaloidID,
	}
}

// NewStructuralError creates an engine-detected structural error.
func NewStructuralError(code ErrorCode, format string, args ...any) *EvalError {
	return &EvalError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewInvariantError creates the synthesized error for the illegal
// None-without-error terminal state.
func NewInvariantError(causaloidID uint64, where string) *EvalError {
	return &EvalError{
		Code:        ErrCodeInvariantViolation,
		Message:     fmt.Sprintf("%s returned no value and no error", where),
		CausaloidID: causaloidID,
	}
}

// CodeOf extracts the ErrorCode from an error chain.
// Returns "" if the chain contains no EvalError.
func CodeOf(err error) ErrorCode {
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}
