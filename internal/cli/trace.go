package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/causant/internal/store"
	"github.com/roach88/causant/internal/tracequery"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database  string
	Token     string
	Causaloid int64
	MinSeq    int64
	MaxSeq    int64
	Contains  string
}

// TraceRow is one log entry in the trace output.
type TraceRow struct {
	RunToken    string `json:"run_token"`
	Seq         int64  `json:"seq"`
	CausaloidID uint64 `json:"causaloid_id"`
	Message     string `json:"message"`
}

// TraceResult holds the filtered trace rows.
type TraceResult struct {
	Rows []TraceRow `json:"rows"`
}

func (r TraceResult) String() string {
	if len(r.Rows) == 0 {
		return "(no matching entries)"
	}
	var b strings.Builder
	for i, row := range r.Rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s [%d] causaloid %d: %s", row.RunToken, row.Seq, row.CausaloidID, row.Message)
	}
	return b.String()
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts, Causaloid: -1}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Query persisted propagation logs",
		Long: `Query log entries across persisted runs.

Filters compose with AND. Results are ordered by run token and log
position, so repeated queries over the same data return identical rows.

Examples:
  causant trace --db ./causant.db --token 0190cafe-...
  causant trace --db ./causant.db --causaloid 2 --contains output
  causant trace --db ./causant.db --min-seq 3 --max-seq 9 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraceQuery(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Token, "token", "", "filter to one run token")
	cmd.Flags().Int64Var(&opts.Causaloid, "causaloid", -1, "filter to one causaloid id")
	cmd.Flags().Int64Var(&opts.MinSeq, "min-seq", 0, "minimum logical sequence number")
	cmd.Flags().Int64Var(&opts.MaxSeq, "max-seq", 0, "maximum logical sequence number")
	cmd.Flags().StringVar(&opts.Contains, "contains", "", "filter to messages containing a substring")

	return cmd
}

func runTraceQuery(opts *TraceOptions, cmd *cobra.Command) error {
	out := &Formatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = out.Failure("STORE_ERROR", err.Error())
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	filter := tracequery.Filter{
		RunToken:        opts.Token,
		MinSeq:          opts.MinSeq,
		MaxSeq:          opts.MaxSeq,
		MessageContains: opts.Contains,
	}
	if opts.Causaloid >= 0 {
		id := uint64(opts.Causaloid)
		filter.CausaloidID = &id
	}

	rows, err := tracequery.Run(ctx, st, filter)
	if err != nil {
		_ = out.Failure("STORE_ERROR", err.Error())
		return WrapExitError(ExitCommandError, "trace query failed", err)
	}

	result := TraceResult{Rows: make([]TraceRow, 0, len(rows))}
	for _, row := range rows {
		result.Rows = append(result.Rows, TraceRow{
			RunToken:    row.RunToken,
			Seq:         row.Entry.Seq,
			CausaloidID: row.Entry.CausaloidID,
			Message:     row.Entry.Message,
		})
	}
	return out.Success(result)
}
