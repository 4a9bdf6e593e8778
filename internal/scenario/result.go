package scenario

import (
	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/engine"
	"github.com/roach88/eldritch/internal/victory"
)

// TurnTrace is the golden-file view of one played turn. A failed turn
// carries only its error code.
type TurnTrace struct {
	Turn     int                `json:"turn"`
	Outcomes []campaign.Outcome `json:"outcomes,omitempty"`
	Events   []string           `json:"events,omitempty"`
	Points   float64            `json:"points,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass     bool        `json:"pass"`
	Scenario string      `json:"scenario"`
	RunID    string      `json:"run_id,omitempty"`
	Seed     int64       `json:"seed"`
	Trace    []TurnTrace `json:"trace"`
	Errors   []string    `json:"errors,omitempty"`

	Score  victory.Score     `json:"score"`
	Ending *victory.Achieved `json:"ending,omitempty"`
	Perks  []victory.Perk    `json:"perks,omitempty"`

	// Events holds every event of the successful turns in order.
	Events []campaign.Event `json:"-"`
	Final  *engine.Campaign `json:"-"`
}

// NewResult returns a passing, empty result.
func NewResult(name string) *Result {
	return &Result{
		Pass:     true,
		Scenario: name,
		Trace:    []TurnTrace{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}
