package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/engine"
	"github.com/roach88/eldritch/internal/testutil"
	"github.com/roach88/eldritch/internal/victory"
)

func eventsOf(kinds ...string) []campaign.Event {
	out := make([]campaign.Event, len(kinds))
	for i, k := range kinds {
		out[i] = campaign.Event{Seq: int64(i + 1), Kind: k}
	}
	return out
}

func finishedResult(t *testing.T) *Result {
	t.Helper()
	c, err := engine.NewCampaign(testutil.NewCampaign(t,
		testutil.WithDoctrine(campaign.DoctrineCorruption),
		testutil.WithVeil(64),
	))
	require.NoError(t, err)
	r := NewResult("finished")
	r.Final = c
	r.Score = c.Score()
	r.Events = eventsOf("doctrine_chosen", "schism", "truth_revealed", "schism")
	return r
}

func ptr(v float64) *float64 { return &v }

func TestEvaluateAssertions_Events(t *testing.T) {
	r := finishedResult(t)
	tests := []struct {
		name string
		a    Assertion
		fail string
	}{
		{"emitted", Assertion{Type: AssertEventEmitted, Kind: "truth_revealed"}, ""},
		{"not emitted", Assertion{Type: AssertEventEmitted, Kind: "phase2_unlocked"}, "none in [doctrine_chosen schism truth_revealed schism]"},
		{"order with gaps", Assertion{Type: AssertEventOrder, Kinds: []string{"doctrine_chosen", "truth_revealed"}}, ""},
		{"order repeats", Assertion{Type: AssertEventOrder, Kinds: []string{"schism", "schism"}}, ""},
		{"order reversed", Assertion{Type: AssertEventOrder, Kinds: []string{"truth_revealed", "doctrine_chosen"}}, "doctrine_chosen missing after 1"},
		{"count", Assertion{Type: AssertEventCount, Kind: "schism", Count: 2}, ""},
		{"count of absent kind", Assertion{Type: AssertEventCount, Kind: "phase3_unlocked"}, ""},
		{"wrong count", Assertion{Type: AssertEventCount, Kind: "schism", Count: 1}, "got 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := EvaluateAssertions(r, []Assertion{tt.a})
			if tt.fail == "" {
				assert.Empty(t, msgs)
				return
			}
			require.Len(t, msgs, 1)
			assert.Contains(t, msgs[0], tt.fail)
		})
	}
}

func TestEvaluateAssertions_FinalState(t *testing.T) {
	r := finishedResult(t)
	tests := []struct {
		name string
		a    Assertion
		ok   bool
	}{
		{"int against float", Assertion{Type: AssertFinalState, Field: "veil", Expect: 64}, true},
		{"float", Assertion{Type: AssertFinalState, Field: "veil", Expect: 64.0}, true},
		{"wrong number", Assertion{Type: AssertFinalState, Field: "veil", Expect: 80}, false},
		{"string", Assertion{Type: AssertFinalState, Field: "doctrine", Expect: "corruption"}, true},
		{"empty stance", Assertion{Type: AssertFinalState, Field: "stance", Expect: ""}, true},
		{"bool", Assertion{Type: AssertFinalState, Field: "phase2_unlocked", Expect: false}, true},
		{"bool against string", Assertion{Type: AssertFinalState, Field: "phase2_unlocked", Expect: "false"}, false},
		{"within range", Assertion{Type: AssertFinalState, Field: "cultists", Min: ptr(50), Max: ptr(60)}, true},
		{"below min", Assertion{Type: AssertFinalState, Field: "turn", Min: ptr(3)}, false},
		{"above max", Assertion{Type: AssertFinalState, Field: "sanity_fragments", Max: ptr(499)}, false},
		{"range on a string", Assertion{Type: AssertFinalState, Field: "grade", Min: ptr(1)}, false},
		{"event total", Assertion{Type: AssertFinalState, Field: "events", Expect: 4}, true},
		{"score", Assertion{Type: AssertFinalState, Field: "score", Expect: r.Score.Total}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := EvaluateAssertions(r, []Assertion{tt.a})
			if tt.ok {
				assert.Empty(t, msgs)
			} else {
				assert.Len(t, msgs, 1)
			}
		})
	}
}

func TestEvaluateAssertions_Ending(t *testing.T) {
	r := finishedResult(t)
	assert.Empty(t, EvaluateAssertions(r, []Assertion{{Type: AssertEnding, Ending: EndingNone}}))

	r.Ending = &victory.Achieved{Ending: victory.EndingShadowEmpire, Turn: 90}
	assert.Empty(t, EvaluateAssertions(r, []Assertion{{Type: AssertEnding, Ending: "shadow_empire"}}))

	msgs := EvaluateAssertions(r, []Assertion{{Type: AssertEnding, Ending: EndingNone}})
	require.Len(t, msgs, 1)
	assert.Equal(t, "assertions[0]: ending: expected none, got shadow_empire", msgs[0])
}

func TestCheckExpect(t *testing.T) {
	yes, no := true, false
	outcomes := []campaign.Outcome{
		{Order: "choose_doctrine", Success: true, Message: "doctrine chosen: corruption"},
		{Order: "corruption/suppress", Message: "unknown influence node \"n-9\""},
	}

	assert.Empty(t, checkExpect(0, []Expect{
		{Order: "choose_doctrine", Success: &yes, Message: "corruption"},
		{Order: "corruption/suppress", Success: &no},
	}, outcomes))

	msgs := checkExpect(4, []Expect{
		{Order: "adopt_stance"},
		{Order: "corruption/suppress", Message: "n-1"},
	}, outcomes)
	require.Len(t, msgs, 2)
	assert.Equal(t, "turns[4].expect[0]: order choose_doctrine, expected adopt_stance", msgs[0])
	assert.Contains(t, msgs[1], `does not contain "n-1"`)
}
