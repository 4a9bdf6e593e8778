package scenario

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/eldritch/internal/canon"
)

// TraceSnapshot is the part of a run compared against golden files. It
// holds nothing that depends on the clock or on run ids.
type TraceSnapshot struct {
	Scenario  string      `json:"scenario"`
	Trace     []TurnTrace `json:"trace"`
	FinalTurn int         `json:"final_turn"`
	Ending    string      `json:"ending,omitempty"`
}

// Snapshot returns the golden view of a result.
func (r *Result) Snapshot() TraceSnapshot {
	s := TraceSnapshot{Scenario: r.Scenario, Trace: r.Trace}
	if r.Final != nil {
		s.FinalTurn = r.Final.State.Turn()
	}
	if r.Ending != nil {
		s.Ending = string(r.Ending.Ending)
	}
	return s
}

// AssertGolden compares a result's trace, in canonical JSON, with
// testdata/golden/<name>.golden.
func AssertGolden(t *testing.T, name string, r *Result) error {
	t.Helper()

	data, err := canon.Marshal(r.Snapshot())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

// RunWithGolden plays a scenario and compares its trace with the golden file
// named after it.
func RunWithGolden(t *testing.T, r *Runner, s *Scenario) (*Result, error) {
	t.Helper()

	result, err := r.Run(t.Context(), s)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, s.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}
