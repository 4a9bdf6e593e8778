package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/eldritch/internal/dice"
	"github.com/roach88/eldritch/internal/scenario"
	"github.com/roach88/eldritch/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	DryRun   bool
	Seed     int64
	Turns    int
	Out      string // optional path for the final campaign JSON
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Play a scenario and journal it",
		Long: `Play a scenario turn by turn and report how the campaign ended.

Every successful turn is journaled to the SQLite database so the run can be
replayed later. Scenarios with scripted rolls are played but never
journaled, since they cannot be replayed from a seed.

Exit codes:
  0 - Every expectation and assertion held
  1 - The scenario failed
  2 - Command error (unreadable scenario, database errors)

Examples:
  eldritch run ./scenarios/first_revelation.yaml
  eldritch run --db /tmp/cult.db --seed 42 ./scenarios/long_night.yaml
  eldritch run --dry-run --turns 10 --out final.json ./scenarios/long_night.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (default from config)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "play without journaling")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "override the scenario seed (a fresh seed is drawn when neither the scenario nor the config sets one)")
	cmd.Flags().IntVar(&opts.Turns, "turns", 0, "stop after this many turns (0 = all)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "write the final campaign as JSON to this path")

	return cmd
}

func runScenarioFile(opts *RunOptions, path string, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	s, err := scenario.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	logger := opts.logger(cfg, cmd.ErrOrStderr())
	runOpts := []scenario.Option{scenario.WithConfig(cfg), scenario.WithLogger(logger)}
	switch {
	case cmd.Flags().Changed("seed"):
		runOpts = append(runOpts, scenario.WithSeed(opts.Seed))
	case s.Seed == 0 && cfg.Seed == 0 && len(s.Rolls) == 0:
		// Nothing fixes the dice: roll a fresh campaign. The seed is
		// journaled and printed, so the run can still be replayed.
		seed, err := dice.NewSeed()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to seed the campaign", err)
		}
		runOpts = append(runOpts, scenario.WithSeed(seed))
	}
	if opts.Turns > 0 {
		runOpts = append(runOpts, scenario.WithMaxTurns(opts.Turns))
	}

	if !opts.DryRun && len(s.Rolls) == 0 {
		db := opts.Database
		if db == "" {
			db = cfg.DB
		}
		st, err := store.Open(db)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		runOpts = append(runOpts, scenario.WithStore(st))
	}

	result, err := scenario.NewRunner(runOpts...).Run(cmd.Context(), s)
	if err != nil {
		return WrapExitError(ExitCommandError, "run failed", err)
	}

	if opts.Out != "" {
		if err := writeCampaign(opts.Out, result); err != nil {
			return WrapExitError(ExitCommandError, "failed to write final campaign", err)
		}
		logger.Debug("final campaign written", slog.String("path", opts.Out))
	}

	f := opts.formatter(cmd)
	if !result.Pass {
		return f.Fail(ExitFailure, CodeFailed, fmt.Sprintf("scenario %s failed", result.Scenario), result,
			func(w io.Writer) { printRun(w, result) })
	}
	return f.Print(result, func(w io.Writer) { printRun(w, result) })
}

func writeCampaign(path string, result *scenario.Result) error {
	data, err := json.MarshalIndent(result.Final, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func printRun(w io.Writer, r *scenario.Result) {
	status := "✓"
	if !r.Pass {
		status = "✗"
	}
	fmt.Fprintf(w, "%s Scenario: %s\n", status, r.Scenario)
	if r.RunID != "" {
		fmt.Fprintf(w, "  Run: %s\n", r.RunID)
	}
	fmt.Fprintf(w, "  Seed: %d\n", r.Seed)
	fmt.Fprintf(w, "  Turns played: %d\n", len(r.Trace))
	if r.Final != nil {
		fmt.Fprintf(w, "  Final turn: %d\n", r.Final.State.Turn())
	}
	if r.Ending != nil {
		ending := string(r.Ending.Ending)
		if r.Ending.Variant != "" {
			ending += "/" + r.Ending.Variant
		}
		fmt.Fprintf(w, "  Ending: %s on turn %d\n", ending, r.Ending.Turn)
		if len(r.Perks) > 0 {
			names := make([]string, len(r.Perks))
			for i, p := range r.Perks {
				names[i] = p.Name
			}
			fmt.Fprintf(w, "  Legacy: %s\n", strings.Join(names, ", "))
		}
	} else {
		fmt.Fprintln(w, "  Ending: none")
	}
	fmt.Fprintf(w, "  Score: %.0f (%s)\n", r.Score.Total, r.Score.Grade)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  - %s\n", e)
	}
}
