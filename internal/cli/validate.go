package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/causant/internal/modelspec"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ValidateResult is the payload reported for a validated model.
type ValidateResult struct {
	Model string `json:"model"`
	Kind  string `json:"kind"`
	Nodes int    `json:"nodes"`
	Edges int    `json:"edges"`
}

func (r ValidateResult) String() string {
	return fmt.Sprintf("model %q valid: kind=%s nodes=%d edges=%d", r.Model, r.Kind, r.Nodes, r.Edges)
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	return &cobra.Command{
		Use:   "validate <model.yaml>",
		Short: "Validate a causal model definition",
		Long: `Validate a YAML causal model against the schema and compile it.

Validation catches structural mistakes (unknown kinds, missing fields,
out-of-range thresholds) and compile-time mistakes (unknown functions,
bad edges) before any evaluation happens.

Example:
  causant validate ./models/weather.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	out := &Formatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	doc, err := modelspec.LoadFile(path)
	if err != nil {
		_ = out.Failure("MODEL_INVALID", err.Error())
		return WrapExitError(ExitCommandError, "validation failed", err)
	}

	// Compile to surface errors the schema cannot express, like unknown
	// function names or node count mismatches.
	if _, err := modelspec.Compile(doc, modelspec.NewRegistry()); err != nil {
		_ = out.Failure("MODEL_INVALID", err.Error())
		return WrapExitError(ExitCommandError, "validation failed", err)
	}

	return out.Success(ValidateResult{
		Model: doc.Name,
		Kind:  doc.Kind,
		Nodes: len(doc.Nodes),
		Edges: len(doc.Edges),
	})
}
