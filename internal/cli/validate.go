package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/keysim/internal/scenario"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>...",
		Short: "Validate scenario files without running them",
		Long: `Parse and validate one or more scenario YAML files.

Checks strict field names (typos are rejected), required fields, and
per-step argument constraints. Nothing is executed.

Example:
  keysim validate scenarios/*.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateScenarios(rootOpts, args, cmd)
		},
	}

	return cmd
}

type validationResult struct {
	Path  string `json:"path"`
	Valid bool   `json:"valid"`
	Name  string `json:"name,omitempty"`
	Steps int    `json:"steps,omitempty"`
	Error string `json:"error,omitempty"`
}

func validateScenarios(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	results := make([]validationResult, 0, len(paths))
	failures := 0

	for _, path := range paths {
		sc, err := scenario.LoadScenario(path)
		if err != nil {
			failures++
			results = append(results, validationResult{Path: path, Valid: false, Error: err.Error()})
			continue
		}
		results = append(results, validationResult{
			Path:  path,
			Valid: true,
			Name:  sc.Name,
			Steps: len(sc.Steps),
		})
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	if opts.Format == "json" {
		if err := formatter.Success(results); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	} else {
		out := cmd.OutOrStdout()
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(out, "ok    %s (%s, %d steps)\n", r.Path, r.Name, r.Steps)
			} else {
				fmt.Fprintf(out, "error %s: %s\n", r.Path, r.Error)
			}
		}
	}

	if failures > 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("%d of %d scenario(s) invalid", failures, len(paths)))
	}
	return nil
}
