package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/causant/internal/effect"
)

// ErrRunNotFound is returned when a requested run token does not exist.
var ErrRunNotFound = fmt.Errorf("run not found")

// ReadRun returns the run with the given token, including its full log.
// Entries are ordered by their position in the original log.
func (s *Store) ReadRun(ctx context.Context, token string) (Run, error) {
	var run Run
	err := s.db.QueryRowContext(ctx, `
		SELECT token, model, input, outcome_value, error_code, error_message
		FROM runs
		WHERE token = ?
	`, token).Scan(
		&run.Token,
		&run.Model,
		&run.Input,
		&run.Outcome.Value,
		&run.Outcome.ErrorCode,
		&run.Outcome.ErrorMessage,
	)
	if err == sql.ErrNoRows {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, token)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run: %w", err)
	}

	entries, err := s.readEntries(ctx, token)
	if err != nil {
		return Run{}, err
	}
	run.Entries = entries
	return run, nil
}

// readEntries returns a run's log entries in position order.
func (s *Store) readEntries(ctx context.Context, token string) ([]effect.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, causaloid_id, message
		FROM log_entries
		WHERE run_token = ?
		ORDER BY position ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []effect.Entry{}
	for rows.Next() {
		var e effect.Entry
		if err := rows.Scan(&e.Seq, &e.CausaloidID, &e.Message); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// ListRuns returns all run tokens with their model names, ordered by
// token. UUIDv7 tokens make this chronological order.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, model, input, outcome_value, error_code, error_message
		FROM runs
		ORDER BY token ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.Token,
			&run.Model,
			&run.Input,
			&run.Outcome.Value,
			&run.Outcome.ErrorCode,
			&run.Outcome.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
