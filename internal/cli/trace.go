package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/keysim/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect recorded run traces",
		Long: `List recorded runs, or print one run's report trace.

Without --run, lists every run in the database. With --run, prints the
reports of that run in emission order.

Example:
  keysim trace --db ./keysim.db
  keysim trace --db ./keysim.db --run 0190b8...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID to print the trace for")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func showTrace(opts *TraceOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	if opts.RunID == "" {
		return listRuns(ctx, st, formatter, cmd)
	}
	return listReports(ctx, st, opts.RunID, formatter, cmd)
}

func listRuns(ctx context.Context, st *store.Store, formatter *OutputFormatter, cmd *cobra.Command) error {
	runs, err := st.Runs(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(runs); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		return nil
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs recorded")
		return nil
	}
	for _, r := range runs {
		verdict := "FAILED"
		if r.Passed {
			verdict = "PASSED"
		}
		if !r.Finished {
			verdict = "UNFINISHED"
		}
		fmt.Fprintf(out, "%s  %-24s %s  cycles=%d reports=%d errors=%d\n",
			r.ID, r.Scenario, verdict, r.Cycles, r.Reports, r.Errors)
	}
	return nil
}

func listReports(ctx context.Context, st *store.Store, runID string, formatter *OutputFormatter, cmd *cobra.Command) error {
	reports, err := st.Reports(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list reports", err)
	}

	if formatter.Format == "json" {
		if err := formatter.Success(reports); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		return nil
	}

	out := cmd.OutOrStdout()
	if len(reports) == 0 {
		fmt.Fprintf(out, "no reports recorded for run %s\n", runID)
		return nil
	}
	for _, r := range reports {
		fmt.Fprintf(out, "#%-4d cycle=%-4d t=%-6dms %s\n", r.Seq, r.Cycle, r.TimeMillis, r.Summary)
	}
	return nil
}
