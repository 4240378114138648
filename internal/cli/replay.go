package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/causant/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Token    string
}

// ReplayResult is the payload reported for a replayed run.
type ReplayResult struct {
	Token   string `json:"token"`
	Model   string `json:"model"`
	Input   string `json:"input"`
	Value   string `json:"value,omitempty"`
	Error   string `json:"error,omitempty"`
	Explain string `json:"explain"`
}

func (r ReplayResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run: %s\n", r.Token)
	fmt.Fprintf(&b, "model: %s\n", r.Model)
	fmt.Fprintf(&b, "input: %s\n", r.Input)
	if r.Error != "" {
		fmt.Fprintf(&b, "error: %s\n", r.Error)
	} else {
		fmt.Fprintf(&b, "value: %s\n", r.Value)
	}
	fmt.Fprintf(&b, "trace:\n%s", r.Explain)
	return b.String()
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-render the trace of a persisted run",
		Long: `Re-render the explain trace of a persisted run from its log entries.

The rendering is byte-identical to what the original evaluation printed,
because entries carry logical sequence numbers rather than timestamps.

Example:
  causant replay --db ./causant.db --token 0190cafe-...`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Token, "token", "", "run token to replay (required)")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
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

	run, err := st.ReadRun(ctx, opts.Token)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			_ = out.Failure("RUN_NOT_FOUND", fmt.Sprintf("no run with token %q", opts.Token))
			return WrapExitError(ExitCommandError, "run not found", err)
		}
		_ = out.Failure("STORE_ERROR", err.Error())
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	explain, err := st.ReplayExplain(ctx, opts.Token)
	if err != nil {
		_ = out.Failure("STORE_ERROR", err.Error())
		return WrapExitError(ExitCommandError, "failed to replay run", err)
	}

	return out.Success(ReplayResult{
		Token:   run.Token,
		Model:   run.Model,
		Input:   run.Input,
		Value:   run.Outcome.Value,
		Error:   run.Outcome.ErrorMessage,
		Explain: explain,
	})
}
