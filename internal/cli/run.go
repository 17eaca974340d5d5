package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/unmake/internal/harness"
	"github.com/roach88/unmake/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
}

// RunSummary is the run command's output payload.
type RunSummary struct {
	Scenario    string   `json:"scenario"`
	Pass        bool     `json:"pass"`
	Events      int      `json:"events"`
	Destructors []string `json:"destructors"`
	Errors      []string `json:"errors,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute a teardown scenario, recording its trace",
		Long: `Execute a scenario against a fresh lifecycle registry.

The scenario's objects, edges, and steps are executed deterministically,
and every lifecycle event is recorded into a SQLite trace database for
later inspection with the trace command.

Example:
  unmake run --db ./teardown.db ./scenarios/parent-child.yaml
  unmake run --db /tmp/trace.db ./scenario.yaml --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runScenario(opts *RunOptions, scenarioPath string, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	scenario, err := harness.LoadScenario(scenarioPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	logger.Info("scenario loaded", "name", scenario.Name, "objects", len(scenario.Objects), "steps", len(scenario.Steps))

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing trace database", "error", closeErr)
		}
	}()

	rec := st.Recorder(context.Background(), logger)
	result, err := harness.RunRecorded(scenario, rec)
	if err != nil {
		return WrapExitError(ExitCommandError, "scenario execution failed", err)
	}
	if recErr := rec.Err(); recErr != nil {
		return WrapExitError(ExitCommandError, "failed to persist trace", recErr)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	summary := RunSummary{
		Scenario:    scenario.Name,
		Pass:        result.Pass,
		Events:      len(result.Trace),
		Destructors: result.Destructors,
		Errors:      result.Errors,
	}

	if opts.Format == "json" {
		if err := formatter.Success(summary); err != nil {
			return err
		}
	} else {
		printRunSummary(formatter, summary)
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s failed", scenario.Name))
	}
	return nil
}

func printRunSummary(f *OutputFormatter, s RunSummary) {
	status := "PASS"
	if !s.Pass {
		status = "FAIL"
	}
	fmt.Fprintf(f.Writer, "%s %s (%d events)\n", status, s.Scenario, s.Events)
	if len(s.Destructors) > 0 {
		fmt.Fprintf(f.Writer, "teardown order: %s\n", strings.Join(s.Destructors, ", "))
	}
	for _, e := range s.Errors {
		fmt.Fprintf(f.Writer, "  %s\n", e)
	}
}
