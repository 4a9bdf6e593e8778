package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/eldritch/internal/config"
	"github.com/roach88/eldritch/internal/dice"
	"github.com/roach88/eldritch/internal/engine"
	"github.com/roach88/eldritch/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - defaults to the latest run
}

// ReplayResult is the replay report plus where the replayed campaign ended.
type ReplayResult struct {
	store.ReplayReport
	Scenario      string `json:"scenario"`
	Deterministic bool   `json:"deterministic"`
	FinalTurn     int    `json:"final_turn"`
	Ending        string `json:"ending,omitempty"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-simulate a journaled run and verify determinism",
		Long: `Re-simulate a journaled run from its seed and initial campaign.

Each turn's journaled orders are fed back through a fresh engine and the
resulting campaign digest is compared with the one recorded when the turn
was first played.

Exit codes:
  0 - Every turn replayed to its journaled digest
  1 - The replay diverged
  2 - Command error (database not found, unknown run, etc.)

Examples:
  eldritch replay --db ./eldritch.db
  eldritch replay --db ./eldritch.db --run 0192f3c4-...
  eldritch replay --db ./eldritch.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay this run instead of the latest")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := opts.logger(cfg, cmd.ErrOrStderr())

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var run store.Run
	if opts.RunID != "" {
		run, err = st.ReadRun(ctx, opts.RunID)
	} else {
		run, err = st.LatestRun(ctx)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find run", err)
	}

	report, err := st.Replay(ctx, run.ID, func(r store.Run) (*engine.Engine, error) {
		settings, err := config.FromSettings(r.Settings)
		if err != nil {
			return nil, err
		}
		return engine.New(dice.New(r.Seed), append(settings.EngineOptions(), engine.WithLogger(logger))...), nil
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "replay failed", err)
	}

	result := ReplayResult{ReplayReport: report, Scenario: run.Scenario, Deterministic: report.OK()}
	if report.Final != nil {
		result.FinalTurn = report.Final.State.Turn()
		if report.Final.Victory != nil {
			result.Ending = string(report.Final.Victory.Ending)
		}
	}

	f := opts.formatter(cmd)
	if !result.Deterministic {
		return f.Fail(ExitFailure, CodeDiverged, "determinism verification failed", result,
			func(w io.Writer) { printReplay(w, result, opts.Verbose) })
	}
	return f.Print(result, func(w io.Writer) { printReplay(w, result, opts.Verbose) })
}

func printReplay(w io.Writer, r ReplayResult, verbose bool) {
	fmt.Fprintf(w, "Replay: run %s (%s)\n", r.RunID, r.Scenario)
	fmt.Fprintf(w, "  Seed: %d\n", r.Seed)
	fmt.Fprintf(w, "  Turns replayed: %d\n", r.Turns)
	fmt.Fprintf(w, "  Final turn: %d\n", r.FinalTurn)
	if r.Ending != "" {
		fmt.Fprintf(w, "  Ending: %s\n", r.Ending)
	}
	for _, m := range r.Mismatches {
		if m.Turn == 0 {
			fmt.Fprintf(w, "  ✗ %s\n", m.Reason)
		} else {
			fmt.Fprintf(w, "  ✗ turn %d: %s\n", m.Turn, m.Reason)
		}
		if verbose && m.Want != "" {
			fmt.Fprintf(w, "      want %s\n      got  %s\n", m.Want, m.Got)
		}
	}
	fmt.Fprintln(w)
	if r.Deterministic {
		fmt.Fprintln(w, "✓ Replay matched the journal")
		return
	}
	fmt.Fprintln(w, "✗ Determinism verification failed")
}
