// Package tracequery compiles structured trace filters to parameterized
// SQL over the provenance store.
//
// The filter surface is a closed struct rather than an open query
// language: every field maps to one predicate, all values are
// parameterized (never interpolated), and every compiled query carries
// an explicit ORDER BY so results are deterministic across replays.
package tracequery

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/causant/internal/effect"
	"github.com/roach88/causant/internal/store"
)

// Filter selects log entries from the provenance store. Zero-valued
// fields are ignored; set fields are combined with AND.
type Filter struct {
	// RunToken restricts entries to a single run.
	RunToken string

	// CausaloidID restricts entries to one causaloid. Pointer so that
	// id 0 remains expressible.
	CausaloidID *uint64

	// MinSeq/MaxSeq bound the logical timestamp range (inclusive).
	// Zero means unbounded.
	MinSeq int64
	MaxSeq int64

	// MessageContains matches entries whose message contains the given
	// substring.
	MessageContains string
}

// Row is one matched entry with its owning run token.
type Row struct {
	RunToken string
	Entry    effect.Entry
}

// Compile converts the filter to parameterized SQL.
// Returns (sql, params). The ORDER BY is mandatory: run token first,
// then log position, so output order matches append order per run.
func Compile(f Filter) (string, []any) {
	var (
		conds  []string
		params []any
	)

	if f.RunToken != "" {
		conds = append(conds, "run_token = ?")
		params = append(params, f.RunToken)
	}
	if f.CausaloidID != nil {
		conds = append(conds, "causaloid_id = ?")
		params = append(params, *f.CausaloidID)
	}
	if f.MinSeq > 0 {
		conds = append(conds, "seq >= ?")
		params = append(params, f.MinSeq)
	}
	if f.MaxSeq > 0 {
		conds = append(conds, "seq <= ?")
		params = append(params, f.MaxSeq)
	}
	if f.MessageContains != "" {
		conds = append(conds, "instr(message, ?) > 0")
		params = append(params, f.MessageContains)
	}

	query := "SELECT run_token, seq, causaloid_id, message FROM log_entries"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY run_token ASC, position ASC"
	return query, params
}

// Run compiles the filter and executes it against the store.
func Run(ctx context.Context, s *store.Store, f Filter) ([]Row, error) {
	query, params := Compile(f)

	rows, err := s.Query(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("trace query: %w", err)
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.RunToken, &r.Entry.Seq, &r.Entry.CausaloidID, &r.Entry.Message); err != nil {
			return nil, fmt.Errorf("trace query: scan: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trace query: iterate: %w", err)
	}
	return out, nil
}
