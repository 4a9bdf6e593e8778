package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/eldritch/internal/engine"
	"github.com/roach88/eldritch/internal/victory"
)

// ScoreResult is the scored view of a campaign snapshot.
type ScoreResult struct {
	Turn      int               `json:"turn"`
	Score     victory.Score     `json:"score"`
	Checks    []victory.Check   `json:"checks"`
	Ending    *victory.Achieved `json:"ending,omitempty"`
	Narrative string            `json:"narrative,omitempty"`
	Perks     []victory.Perk    `json:"perks,omitempty"`
}

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <campaign.json>",
		Short: "Score a campaign snapshot",
		Long: `Score a campaign snapshot and report how close each ending is.

The snapshot is the JSON written by "eldritch run --out". When the campaign
has reached an ending, the closing narrative and the legacy perks it earns
are printed too.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runScore(opts *RootOptions, path string, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read snapshot", err)
	}
	c := &engine.Campaign{}
	if err := json.Unmarshal(data, c); err != nil {
		return WrapExitError(ExitCommandError, "failed to decode snapshot", err)
	}
	if c.State == nil {
		return NewExitError(ExitCommandError, "snapshot has no campaign state")
	}

	result := ScoreResult{
		Turn:   c.State.Turn(),
		Score:  c.Score(),
		Checks: c.Checks(cfg.Endings),
		Ending: c.Victory,
	}
	if c.Victory != nil {
		result.Narrative = victory.Narrative(*c.Victory, result.Score)
		result.Perks = victory.Perks(*c.Victory, result.Score.Grade)
	}

	return opts.formatter(cmd).Print(result, func(w io.Writer) { printScore(w, result) })
}

func printScore(w io.Writer, r ScoreResult) {
	if r.Narrative != "" {
		fmt.Fprintln(w, r.Narrative)
	}
	fmt.Fprintf(w, "Turn %d: score %.0f, grade %s\n", r.Turn, r.Score.Total, r.Score.Grade)
	for _, l := range r.Score.Lines {
		fmt.Fprintf(w, "  %-18s %8.0f\n", l.Name, l.Value)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Endings:")
	for _, c := range r.Checks {
		fmt.Fprintf(w, "  %-18s %-12s %3.0f%%\n", c.Ending, c.Status, c.Progress*100)
	}
	for _, p := range r.Perks {
		fmt.Fprintf(w, "Legacy: %s - %s\n", p.Name, p.Description)
	}
}
