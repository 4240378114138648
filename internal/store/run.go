package store

import (
	"github.com/google/uuid"

	"github.com/roach88/causant/internal/effect"
)

// Run is one persisted evaluation: a token, the model and rendered input
// it evaluated, the terminal outcome, and the full propagation log.
type Run struct {
	Token   string
	Model   string
	Input   string
	Outcome Outcome
	Entries []effect.Entry
}

// Outcome is the terminal result of a run. Exactly one of Value or the
// error pair is populated; a failed run is the same shape as a
// successful one, distinguished only by a non-empty ErrorCode.
type Outcome struct {
	Value        string
	ErrorCode    string
	ErrorMessage string
}

// OutcomeOf derives the persisted outcome from a terminal effect.
func OutcomeOf(e *effect.PropagatingEffect) Outcome {
	if err := e.Err(); err != nil {
		return Outcome{
			ErrorCode:    string(effect.CodeOf(err)),
			ErrorMessage: err.Error(),
		}
	}
	return Outcome{Value: effect.RenderValue(e.Value())}
}

// TokenGenerator generates unique run tokens for provenance correlation.
// Implemented by UUIDv7Generator (production) and the fixed generator in
// package testutil (tests).
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run tokens.
//
// UUIDv7 embeds a timestamp in the most significant bits, making tokens
// sortable by creation time, which keeps run listings in chronological
// order without a separate timestamp column.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
