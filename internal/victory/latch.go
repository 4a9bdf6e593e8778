package victory

import (
	"fmt"

	"github.com/roach88/eldritch/internal/campaign"
)

// Achieved is a latched ending.
type Achieved struct {
	Ending  Ending `json:"ending"`
	Variant string `json:"variant,omitempty"`
	Turn    int    `json:"turn"`
}

// Loss reports whether the campaign was lost.
func (a Achieved) Loss() bool {
	return a.Ending.Loss()
}

// Latch evaluates the endings unless one was already achieved, in which
// case it returns prev untouched with no checks and no events. When an
// ending holds for the first time it is latched and announced.
func Latch(prev *Achieved, in Input, th Thresholds) (*Achieved, []Check, []campaign.Event) {
	if prev != nil {
		return prev, nil, nil
	}
	checks := Evaluate(in, th)
	won, ok := First(checks)
	if !ok {
		return nil, checks, nil
	}

	turn := in.State.Turn()
	a := &Achieved{Ending: won.Ending, Variant: won.Variant, Turn: turn}
	kind, msg := "victory_achieved", fmt.Sprintf("the campaign ends in %s", Title(a.Ending))
	if a.Loss() {
		kind, msg = "campaign_lost", "the cult is banished and its work undone"
	}
	ev := campaign.NewEvent(turn, "victory", kind, campaign.ImportanceCritical, msg).
		With("ending", string(a.Ending))
	if a.Variant != "" {
		ev = ev.With("variant", a.Variant)
	}
	return a, checks, []campaign.Event{ev}
}
