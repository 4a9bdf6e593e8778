package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string
	Kind     string // optional - filter events to one kind
	Turn     int    // optional - include the ledger of one turn
}

// TraceTurn is one journaled turn in the timeline.
type TraceTurn struct {
	Turn     int                `json:"turn"`
	Orders   []string           `json:"orders"`
	Outcomes []campaign.Outcome `json:"outcomes"`
	Points   float64            `json:"points"`
	Ending   string             `json:"ending,omitempty"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	RunID    string                 `json:"run_id"`
	Scenario string                 `json:"scenario"`
	Seed     int64                  `json:"seed"`
	Turns    []TraceTurn            `json:"turns"`
	Events   []campaign.Event       `json:"events"`
	Changes  []campaign.StateChange `json:"changes,omitempty"`
	Stats    TraceStats             `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	Turns  int            `json:"turns"`
	Events int            `json:"events"`
	Kinds  map[string]int `json:"kinds"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the journal of a run",
		Long: `Show what happened in a journaled run.

The output includes:
- Turns: the orders of each turn and how they resolved
- Events: every narrative event in sequence order
- Changes: with --turn, the ledger entries applied on that turn
- Stats: event counts per kind

Examples:
  eldritch trace --db ./eldritch.db
  eldritch trace --db ./eldritch.db --kind phase2_unlocked
  eldritch trace --db ./eldritch.db --run 0192f3c4-... --turn 12 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run to trace (default: latest)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "filter events to this kind")
	cmd.Flags().IntVar(&opts.Turn, "turn", 0, "include the state changes of this turn")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()

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

	turns, err := st.ReadTurns(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read turns", err)
	}
	events, err := st.ReadEvents(ctx, run.ID, opts.Kind)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}

	result := TraceResult{
		RunID:    run.ID,
		Scenario: run.Scenario,
		Seed:     run.Seed,
		Turns:    buildTimeline(turns),
		Events:   events,
		Stats:    TraceStats{Turns: len(turns), Events: len(events), Kinds: map[string]int{}},
	}
	for _, ev := range events {
		result.Stats.Kinds[ev.Kind]++
	}
	if opts.Turn > 0 {
		result.Changes, err = st.ReadChanges(ctx, run.ID, opts.Turn)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read changes", err)
		}
	}

	return opts.formatter(cmd).Print(result, func(w io.Writer) { printTrace(w, result, opts.Verbose) })
}

// buildTimeline reduces journaled turns to their order kinds and outcomes.
func buildTimeline(turns []store.TurnRecord) []TraceTurn {
	out := make([]TraceTurn, 0, len(turns))
	for _, rec := range turns {
		tt := TraceTurn{Turn: rec.Turn, Outcomes: rec.Outcomes, Points: rec.Points, Ending: rec.Ending, Orders: []string{}}
		for _, o := range rec.Orders {
			tt.Orders = append(tt.Orders, string(o.Kind))
		}
		out = append(out, tt)
	}
	return out
}

func printTrace(w io.Writer, r TraceResult, verbose bool) {
	fmt.Fprintf(w, "Trace for run: %s (%s, seed %d)\n", r.RunID, r.Scenario, r.Seed)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Turns ===")
	if len(r.Turns) == 0 {
		fmt.Fprintln(w, "  (no turns)")
	}
	for _, t := range r.Turns {
		fmt.Fprintf(w, "  [%d] %s", t.Turn, strings.Join(t.Orders, ", "))
		if t.Points != 0 {
			fmt.Fprintf(w, " (+%.0f points)", t.Points)
		}
		if t.Ending != "" {
			fmt.Fprintf(w, " -> %s", t.Ending)
		}
		fmt.Fprintln(w)
		if verbose {
			for _, o := range t.Outcomes {
				mark := "✓"
				if !o.Success {
					mark = "✗"
				}
				fmt.Fprintf(w, "       %s %s: %s\n", mark, o.Order, o.Message)
			}
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Events ===")
	if len(r.Events) == 0 {
		fmt.Fprintln(w, "  (no events)")
	}
	for _, ev := range r.Events {
		fmt.Fprintf(w, "  [%d] turn %d %s: %s\n", ev.Seq, ev.Turn, ev.Kind, ev.Message)
		if verbose && len(ev.Meta) > 0 {
			fmt.Fprintf(w, "       Meta: %s\n", formatMeta(ev.Meta))
		}
	}
	fmt.Fprintln(w)

	if len(r.Changes) > 0 {
		fmt.Fprintln(w, "=== Changes ===")
		for _, c := range r.Changes {
			fmt.Fprintf(w, "  %s %s\n", c.Kind, formatChange(c))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Turns:  %d\n", r.Stats.Turns)
	fmt.Fprintf(w, "  Events: %d\n", r.Stats.Events)
	kinds := make([]string, 0, len(r.Stats.Kinds))
	for k := range r.Stats.Kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(w, "    %s: %d\n", k, r.Stats.Kinds[k])
	}
}

// formatMeta formats event metadata with sorted keys.
func formatMeta(meta map[string]string) string {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+meta[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatChange(c campaign.StateChange) string {
	var parts []string
	if c.RegionID != "" {
		parts = append(parts, "region="+c.RegionID)
	}
	if c.SiteID != "" {
		parts = append(parts, "site="+c.SiteID)
	}
	if c.EntityID != "" {
		parts = append(parts, "entity="+c.EntityID)
	}
	if c.Amount != 0 {
		parts = append(parts, fmt.Sprintf("amount=%g", c.Amount))
	}
	if c.Count != 0 {
		parts = append(parts, fmt.Sprintf("count=%d", c.Count))
	}
	if c.Source != "" {
		parts = append(parts, "source="+c.Source)
	}
	return strings.Join(parts, " ")
}
