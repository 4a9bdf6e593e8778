package scenario

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/phase"
)

// AssertionError describes one failed check.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// fields are the final_state values an assertion can read. Numbers are
// float64 so YAML ints and floats compare alike.
var fields = map[string]func(r *Result) any{
	"turn":     func(r *Result) any { return float64(r.Final.State.Turn()) },
	"doctrine": func(r *Result) any { return string(r.Final.State.Doctrine()) },
	"veil":     func(r *Result) any { return r.Final.State.Veil().Integrity },

	"global_unity":   func(r *Result) any { return r.Final.State.GlobalUnity() },
	"council_unity":  func(r *Result) any { return r.Final.State.Council().Unity },
	"schism":         func(r *Result) any { return r.Final.State.Schism().Severity },
	"truth_level":    func(r *Result) any { return r.Final.State.Revelation().TruthLevel },
	"stance":         func(r *Result) any { return string(r.Final.State.Revelation().Stance) },
	"total_summoned": func(r *Result) any { return float64(r.Final.State.TotalSummoned()) },
	"entities":       func(r *Result) any { return float64(len(r.Final.State.Entities())) },

	"average_corruption": func(r *Result) any { return r.Final.State.AverageCorruption() },
	"average_sanity":     func(r *Result) any { return r.Final.State.AverageSanity() },

	"sanity_fragments": func(r *Result) any { return r.Final.State.Resources().SanityFragments },
	"eldritch_power":   func(r *Result) any { return r.Final.State.Resources().EldritchPower },
	"corruption_index": func(r *Result) any { return r.Final.State.Resources().CorruptionIndex },
	"elder_favor":      func(r *Result) any { return r.Final.State.Resources().ElderFavor },
	"cultists":         func(r *Result) any { return float64(r.Final.State.Resources().Cultists) },
	"psychics":         func(r *Result) any { return float64(r.Final.State.Resources().Psychics) },
	"hybrids":          func(r *Result) any { return float64(r.Final.State.Resources().Hybrids) },

	"phase2_unlocked":  func(r *Result) any { return r.Final.Phase2.Unlocked },
	"phase2_completed": func(r *Result) any { return r.Final.Phase2.Completed },
	"phase3_unlocked":  func(r *Result) any { return r.Final.Phase3.Unlocked },
	"doctrine_points":  func(r *Result) any { return phase.TotalPoints(r.Final.Phase2, r.Final.Phase3) },

	"score":  func(r *Result) any { return r.Score.Total },
	"grade":  func(r *Result) any { return string(r.Score.Grade) },
	"events": func(r *Result) any { return float64(len(r.Events)) },
}

// EvaluateAssertions checks every assertion against a finished run and
// returns one message per failure.
func EvaluateAssertions(r *Result, assertions []Assertion) []string {
	var msgs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertEventEmitted:
			err = assertEventEmitted(r.Events, a)
		case AssertEventOrder:
			err = assertEventOrder(r.Events, a)
		case AssertEventCount:
			err = assertEventCount(r.Events, a)
		case AssertFinalState:
			err = assertFinalState(r, a)
		case AssertEnding:
			err = assertEnding(r, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			msgs = append(msgs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return msgs
}

func assertEventEmitted(events []campaign.Event, a Assertion) error {
	for _, ev := range events {
		if ev.Kind == a.Kind {
			return nil
		}
	}
	return &AssertionError{Type: a.Type, Expected: "a " + a.Kind + " event", Actual: "none in " + kinds(events)}
}

// assertEventOrder checks that the kinds occur in order. Other events may
// come between them.
func assertEventOrder(events []campaign.Event, a Assertion) error {
	next := 0
	for _, ev := range events {
		if next < len(a.Kinds) && ev.Kind == a.Kinds[next] {
			next++
		}
	}
	if next == len(a.Kinds) {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: strings.Join(a.Kinds, " then "),
		Actual:   fmt.Sprintf("%s missing after %d in order from %s", a.Kinds[next], next, kinds(events)),
	}
}

func assertEventCount(events []campaign.Event, a Assertion) error {
	n := 0
	for _, ev := range events {
		if ev.Kind == a.Kind {
			n++
		}
	}
	if n == a.Count {
		return nil
	}
	return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%d %s events", a.Count, a.Kind), Actual: fmt.Sprint(n)}
}

func assertFinalState(r *Result, a Assertion) error {
	read, ok := fields[a.Field]
	if !ok {
		return fmt.Errorf("unknown final_state field %q", a.Field)
	}
	got := read(r)

	if a.Expect != nil && !equal(got, a.Expect) {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%s = %v", a.Field, a.Expect), Actual: fmt.Sprint(got)}
	}
	if a.Min == nil && a.Max == nil {
		return nil
	}
	n, ok := got.(float64)
	if !ok {
		return fmt.Errorf("final_state field %q is not numeric", a.Field)
	}
	if a.Min != nil && n < *a.Min {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%s >= %v", a.Field, *a.Min), Actual: fmt.Sprint(n)}
	}
	if a.Max != nil && n > *a.Max {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%s <= %v", a.Field, *a.Max), Actual: fmt.Sprint(n)}
	}
	return nil
}

func assertEnding(r *Result, a Assertion) error {
	got := EndingNone
	if r.Ending != nil {
		got = string(r.Ending.Ending)
	}
	if got == a.Ending {
		return nil
	}
	return &AssertionError{Type: a.Type, Expected: a.Ending, Actual: got}
}

// checkExpect matches a turn's outcomes against its expectations by
// position.
func checkExpect(turn int, expect []Expect, outcomes []campaign.Outcome) []string {
	var msgs []string
	for j, e := range expect {
		if j >= len(outcomes) {
			msgs = append(msgs, fmt.Sprintf("turns[%d].expect[%d]: no outcome for %s", turn, j, e.Order))
			continue
		}
		o := outcomes[j]
		if o.Order != e.Order {
			msgs = append(msgs, fmt.Sprintf("turns[%d].expect[%d]: order %s, expected %s", turn, j, o.Order, e.Order))
			continue
		}
		if e.Success != nil && o.Success != *e.Success {
			msgs = append(msgs, fmt.Sprintf("turns[%d].expect[%d]: %s success %t, expected %t", turn, j, o.Order, o.Success, *e.Success))
		}
		if e.Message != "" && !strings.Contains(o.Message, e.Message) {
			msgs = append(msgs, fmt.Sprintf("turns[%d].expect[%d]: %s message %q does not contain %q", turn, j, o.Order, o.Message, e.Message))
		}
	}
	return msgs
}

func equal(got, want any) bool {
	switch g := got.(type) {
	case float64:
		var w float64
		switch v := want.(type) {
		case int:
			w = float64(v)
		case int64:
			w = float64(v)
		case float64:
			w = v
		default:
			return false
		}
		return math.Abs(g-w) < 1e-6
	case bool:
		w, ok := want.(bool)
		return ok && g == w
	case string:
		return g == fmt.Sprint(want)
	}
	return false
}

func kinds(events []campaign.Event) string {
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Kind
	}
	return "[" + strings.Join(out, " ") + "]"
}
