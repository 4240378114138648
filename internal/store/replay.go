package store

import (
	"context"
	"fmt"

	"github.com/roach88/causant/internal/effect"
)

// ReplayExplain re-renders the explain trace of a persisted run from its
// log entries. The rendering is byte-identical to what Explain produced
// when the run was recorded, because entries carry logical seq numbers
// rather than wall-clock timestamps.
func (s *Store) ReplayExplain(ctx context.Context, token string) (string, error) {
	run, err := s.ReadRun(ctx, token)
	if err != nil {
		return "", err
	}
	return effect.Log(run.Entries).String(), nil
}

// LastSeq returns the highest logical seq recorded for a run, for
// callers resuming a clock with effect.NewClockAt.
func (s *Store) LastSeq(ctx context.Context, token string) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0)
		FROM log_entries
		WHERE run_token = ?
	`, token).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq, nil
}
