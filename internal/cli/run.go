package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/causant/internal/effect"
	"github.com/roach88/causant/internal/modelspec"
	"github.com/roach88/causant/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Input    float64
	Database string
	From     int
	To       int

	// TokenGenerator overrides run token generation (for testing).
	// Nil defaults to store.UUIDv7Generator.
	TokenGenerator store.TokenGenerator
}

// RunResult is the payload reported for an evaluation.
type RunResult struct {
	Model   string `json:"model"`
	Token   string `json:"token,omitempty"`
	Value   string `json:"value,omitempty"`
	Error   string `json:"error,omitempty"`
	Explain string `json:"explain"`
}

func (r RunResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "model: %s\n", r.Model)
	if r.Token != "" {
		fmt.Fprintf(&b, "token: %s\n", r.Token)
	}
	if r.Error != "" {
		fmt.Fprintf(&b, "error: %s\n", r.Error)
	} else {
		fmt.Fprintf(&b, "value: %s\n", r.Value)
	}
	fmt.Fprintf(&b, "trace:\n%s", r.Explain)
	return b.String()
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts, From: -1, To: -1})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <model.yaml>",
		Short: "Evaluate a causal model",
		Long: `Evaluate a causal model against a numeric input observation.

Graph models evaluate breadth-first from their start node. The --from
flag overrides the start node; --from together with --to folds the
effect along the shortest path between the two nodes instead.

With --db the run is persisted with a UUIDv7 token so its trace can be
replayed and queried later.

Examples:
  causant run ./models/weather.yaml --input 0.7
  causant run ./models/weather.yaml --input 0.7 --db ./causant.db
  causant run ./models/grid.yaml --input 1.0 --from 2 --to 5`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModel(opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Input, "input", 0, "input observation (required)")
	_ = cmd.MarkFlagRequired("input")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database for run persistence")
	cmd.Flags().IntVar(&opts.From, "from", -1, "graph node to start evaluation from")
	cmd.Flags().IntVar(&opts.To, "to", -1, "graph node to stop at (shortest path evaluation)")

	return cmd
}

func runModel(opts *RunOptions, path string, cmd *cobra.Command) error {
	out := &Formatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	doc, err := modelspec.LoadFile(path)
	if err != nil {
		_ = out.Failure("MODEL_INVALID", err.Error())
		return WrapExitError(ExitCommandError, "failed to load model", err)
	}
	c, err := modelspec.Compile(doc, modelspec.NewRegistry())
	if err != nil {
		_ = out.Failure("MODEL_INVALID", err.Error())
		return WrapExitError(ExitCommandError, "failed to compile model", err)
	}

	in := effect.Pure(opts.Input)
	slog.Debug("evaluating", "model", doc.Name, "input", opts.Input, "from", opts.From, "to", opts.To)

	var res *effect.PropagatingEffect
	switch {
	case opts.To >= 0 && opts.From >= 0:
		res = c.EvaluateShortestPathBetweenCauses(opts.From, opts.To, in)
	case opts.To >= 0:
		_ = out.Failure("MODEL_INVALID", "--to requires --from")
		return NewExitError(ExitCommandError, "--to requires --from")
	case opts.From >= 0:
		res = c.EvaluateSubgraphFromCause(opts.From, in)
	default:
		res = c.Evaluate(in)
	}

	result := RunResult{
		Model:   doc.Name,
		Explain: res.Explain(),
	}
	outcome := store.OutcomeOf(res)
	result.Value = outcome.Value
	result.Error = outcome.ErrorMessage

	if opts.Database != "" {
		token, err := persistRun(cmd.Context(), opts, doc.Name, in, res)
		if err != nil {
			_ = out.Failure("STORE_ERROR", err.Error())
			return WrapExitError(ExitCommandError, "failed to persist run", err)
		}
		result.Token = token
	}

	if res.Err() != nil {
		if err := out.Success(result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "evaluation failed: "+result.Error)
	}
	return out.Success(result)
}

func persistRun(ctx context.Context, opts *RunOptions, model string, in, res *effect.PropagatingEffect) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	gen := opts.TokenGenerator
	if gen == nil {
		gen = store.UUIDv7Generator{}
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("closing database", "error", closeErr)
		}
	}()

	token := gen.Generate()
	err = st.WriteRun(ctx, store.Run{
		Token:   token,
		Model:   model,
		Input:   effect.RenderValue(in.Value()),
		Outcome: store.OutcomeOf(res),
		Entries: res.Log(),
	})
	if err != nil {
		return "", err
	}
	slog.Debug("run persisted", "token", token, "entries", len(res.Log()))
	return token, nil
}
