package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/keysim/internal/scenario"
	"github.com/roach88/keysim/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
}

// runSummary is the JSON payload for a completed run.
type runSummary struct {
	Scenario   string   `json:"scenario"`
	RunID      string   `json:"run_id"`
	Pass       bool     `json:"pass"`
	Cycles     int      `json:"cycles"`
	Reports    int      `json:"reports"`
	TimeMillis int64    `json:"time_ms"`
	ErrorCount int      `json:"error_count"`
	Errors     []string `json:"errors,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute a simulation scenario",
		Long: `Execute a YAML simulation scenario against the loopback keyboard device.

The scenario's steps drive the simulator cycle by cycle; report and cycle
expectations are checked along the way. The command exits non-zero when any
assertion fails or any error is recorded.

Example:
  keysim run scenarios/tap.yaml
  keysim run --db ./keysim.db scenarios/tap.yaml --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (optional)")

	return cmd
}

func runScenario(opts *RunOptions, path string, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	sc, err := scenario.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	runnerOpts := []scenario.RunnerOption{scenario.WithLogger(logger)}
	if opts.Verbose && opts.Format != "json" {
		runnerOpts = append(runnerOpts, scenario.WithSimOutput(cmd.OutOrStdout()))
	}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		runnerOpts = append(runnerOpts, scenario.WithStore(st))
	}

	runner := scenario.NewRunner(runnerOpts...)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := runner.Run(ctx, sc)
	if err != nil {
		return WrapExitError(ExitCommandError, "scenario execution failed", err)
	}

	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	summary := runSummary{
		Scenario:   sc.Name,
		RunID:      result.RunID,
		Pass:       result.Pass,
		Cycles:     result.Cycles,
		Reports:    result.ReportsTotal,
		TimeMillis: result.FinalTimeMillis,
		ErrorCount: result.ErrorCount,
		Errors:     result.Errors,
	}

	if opts.Format == "json" {
		if err := formatter.Success(summary); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	} else {
		writeTextSummary(cmd, summary)
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed with %d error(s)", sc.Name, result.ErrorCount))
	}
	return nil
}

func writeTextSummary(cmd *cobra.Command, s runSummary) {
	out := cmd.OutOrStdout()
	verdict := "PASSED"
	if !s.Pass {
		verdict = "FAILED"
	}
	fmt.Fprintf(out, "scenario %s: %s\n", s.Scenario, verdict)
	fmt.Fprintf(out, "  run:     %s\n", s.RunID)
	fmt.Fprintf(out, "  cycles:  %d\n", s.Cycles)
	fmt.Fprintf(out, "  reports: %d\n", s.Reports)
	fmt.Fprintf(out, "  time:    %d ms\n", s.TimeMillis)
	fmt.Fprintf(out, "  errors:  %d\n", s.ErrorCount)
	for _, msg := range s.Errors {
		fmt.Fprintf(out, "    - %s\n", msg)
	}
}
