package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a run and its full log atomically.
//
// The run row and every log entry are written in one transaction: a
// crash mid-write persists either the whole run or nothing, so a
// HasRun hit always implies the log is complete.
//
// Uses ON CONFLICT(token) DO NOTHING for idempotency - re-recording a
// run with the same token is silently ignored, entries included.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (token, model, input, outcome_value, error_code, error_message)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		run.Token,
		run.Model,
		run.Input,
		run.Outcome.Value,
		run.Outcome.ErrorCode,
		run.Outcome.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	if inserted == 0 {
		// Token already recorded; the existing log is authoritative.
		return tx.Commit()
	}

	for position, entry := range run.Entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO log_entries (run_token, position, seq, causaloid_id, message)
			VALUES (?, ?, ?, ?, ?)
		`,
			run.Token,
			position,
			entry.Seq,
			entry.CausaloidID,
			entry.Message,
		)
		if err != nil {
			return fmt.Errorf("write run: entry %d: %w", position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

// HasRun reports whether a run with the given token exists.
func (s *Store) HasRun(ctx context.Context, token string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM runs WHERE token = ?`, token).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("has run: %w", err)
	}
	return n > 0, nil
}
