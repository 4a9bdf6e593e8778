package scenario

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/domination"
	"github.com/roach88/eldritch/internal/engine"
)

const minimal = `name: minimal
description: the smallest scenario that loads
campaign:
  regions:
    - id: arkham
  council:
    unity: 60
turns:
  - orders: []
`

func withLine(doc, after, line string) string {
	return strings.Replace(doc, after, after+line, 1)
}

func TestLoad(t *testing.T) {
	s, err := Load("testdata/first_revelation.yaml")
	require.NoError(t, err)

	assert.Equal(t, "first_revelation", s.Name)
	assert.Len(t, s.Rolls, 8)
	assert.Len(t, s.Campaign.Regions, 2)
	assert.Equal(t, 2, s.Campaign.Alignment.Turn)
	require.Len(t, s.Turns, 4)

	assert.Equal(t, string(engine.ErrCodeDoctrineUnset), s.Turns[1].ExpectError)
	require.NotNil(t, s.Turns[1].Orders[0].Domination)
	assert.Equal(t, domination.OrderBanish, s.Turns[1].Orders[0].Domination.Kind)

	assert.Equal(t, campaign.StanceReverent, s.Turns[0].Orders[0].Stance)
	assert.Equal(t, 100.0, s.Turns[0].Orders[1].Reveal)
	require.NotNil(t, s.Turns[2].Expect[0].Success)
	assert.False(t, *s.Turns[2].Expect[0].Success)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/no_such_scenario.yaml")
	assert.ErrorContains(t, err, "read scenario")
}

func TestParse_Minimal(t *testing.T) {
	s, err := Parse([]byte(minimal))
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)
	assert.Empty(t, s.Turns[0].Orders)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte(minimal + "assertion:\n  - type: ending\n    ending: none\n"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "assertion")
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"corruption above 100", withLine(minimal, "    - id: arkham\n", "      corruption: 150\n")},
		{"roll out of range", minimal + "rolls: [0.5, 1.5]\n"},
		{"unknown error code", minimal + "  - orders: []\n    expect_error: BOOM\n"},
		{"unknown assertion type", minimal + "assertions:\n  - type: trace_contains\n"},
		{"name with spaces", strings.Replace(minimal, "name: minimal", "name: Not Minimal", 1)},
		{"no turns", strings.Replace(minimal, "turns:\n  - orders: []\n", "turns: []\n", 1)},
		{"unknown stance", withLine(minimal, "    - id: arkham\n", "  revelation:\n    stance: smug\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrSchema)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"seed and rolls", minimal + "seed: 3\nrolls: [0.5]\n", "mutually exclusive"},
		{"unknown perk", minimal + "legacy: [nope]\n", `unknown perk "nope"`},
		{"duplicate region", withLine(minimal, "    - id: arkham\n", "    - id: arkham\n"), "campaign"},
		{"unknown field", minimal + "assertions:\n  - type: final_state\n    field: vibes\n    expect: 1\n", `unknown final_state field "vibes"`},
		{"final_state without a bound", minimal + "assertions:\n  - type: final_state\n    field: veil\n", "needs expect, min or max"},
		{"short event_order", minimal + "assertions:\n  - type: event_order\n    kinds: [schism]\n", "at least two kinds"},
		{"event_count without kind", minimal + "assertions:\n  - type: event_count\n    count: 2\n", "kind is required"},
		{"expect and expect_error", minimal + "  - orders: []\n    expect_error: INVALID_ORDER\n    expect:\n      - order: reveal_truth\n", "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrSchema)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
