package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/unmake/internal/lifecycle"
	"github.com/roach88/unmake/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Object   string // optional - filter to a single object's timeline
}

// TraceOutput holds the complete trace view.
type TraceOutput struct {
	Timeline []lifecycle.Event `json:"timeline"`
	Stats    store.TraceStats  `json:"stats"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show a recorded teardown timeline",
		Long: `Read a recorded teardown trace from a SQLite database and print the
event timeline in seq order, with summary statistics.

The timeline reconstructs the exact order resources were released: marks,
pre-teardown hooks, destructor invocations, and terminal transitions.

Examples:
  unmake trace --db ./teardown.db
  unmake trace --db ./teardown.db --object conn-pool
  unmake trace --db ./teardown.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite trace database (required)")
	cmd.Flags().StringVar(&opts.Object, "object", "", "filter to a single object's events")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace database", err)
	}
	defer st.Close()

	ctx := context.Background()

	var events []lifecycle.Event
	if opts.Object != "" {
		events, err = st.ReadObjectTrace(ctx, opts.Object)
	} else {
		events, err = st.ReadTrace(ctx)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read trace", err)
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read stats", err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	output := TraceOutput{Timeline: events, Stats: stats}
	if opts.Format == "json" {
		return formatter.Success(output)
	}

	printTrace(formatter, output)
	return nil
}

func printTrace(f *OutputFormatter, out TraceOutput) {
	for _, ev := range out.Timeline {
		if ev.Detail != "" {
			fmt.Fprintf(f.Writer, "%6d  %-16s %s (%s)\n", ev.Seq, ev.Kind, ev.Object, ev.Detail)
		} else {
			fmt.Fprintf(f.Writer, "%6d  %-16s %s\n", ev.Seq, ev.Kind, ev.Object)
		}
	}

	s := out.Stats
	fmt.Fprintf(f.Writer, "\n%d events: %d created, %d marked, %d destructors (%d errors), %d destroyed\n",
		s.TotalEvents, s.Created, s.Marked, s.Destructors, s.Errors, s.Destroyed)
	if s.Complete {
		fmt.Fprintln(f.Writer, "teardown complete: every marked object reached destroyed")
	} else {
		fmt.Fprintln(f.Writer, "teardown INCOMPLETE: marked objects never reached destroyed")
	}
}
