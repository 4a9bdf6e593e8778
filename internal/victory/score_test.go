package victory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/phase"
	"github.com/roach88/eldritch/internal/testutil"
)

func TestGradeFor(t *testing.T) {
	tests := []struct {
		total float64
		want  Grade
	}{
		{9000, GradeS},
		{5000, GradeS},
		{4999.5, GradeA},
		{3000, GradeB},
		{2500, GradeC},
		{1000, GradeD},
		{999, GradeF},
		{-200, GradeF},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeFor(tt.total), "total %v", tt.total)
	}
}

func TestCompute(t *testing.T) {
	st := testutil.NewCampaign(t)
	s := Compute(Input{State: st, Phase2: phase.Phase2State{DoctrinePoints: 100}})

	// 1000 base + 1000 points + 996 speed + 300 veil.
	assert.Equal(t, 3296.0, s.Total)
	assert.Equal(t, GradeB, s.Grade)
	assert.Len(t, s.Lines, 9)
}

func TestCompute_EveryTerm(t *testing.T) {
	st := testutil.NewCampaign(t,
		testutil.WithTurn(600),
		testutil.WithVeil(20),
		testutil.WithEntities(testutil.Entity("e1", campaign.TierHorror, 80), testutil.Entity("e2", campaign.TierServitor, 10)),
		testutil.WithResources(func(r *campaign.Resources) {
			r.ElderFavor = 120
			r.CorruptionIndex = 40
		}),
		func(s *campaign.Snapshot) {
			s.Schism.Severity = 25
			s.GlobalUnity = 30
		},
	)
	s := Compute(Input{
		State:  st,
		Phase2: phase.Phase2State{DoctrinePoints: 300},
		Phase3: phase.Phase3State{DoctrinePoints: 50},
	})

	want := map[string]float64{
		"base":             1000,
		"doctrine_points":  3500,
		"elder_favor":      120,
		"speed":            0,
		"corruption_index": 200,
		"veil":             -300,
		"entities":         100,
		"schism":           -50,
		"global_unity":     -150,
	}
	for _, l := range s.Lines {
		assert.Equal(t, want[l.Name], l.Value, l.Name)
	}
	assert.Equal(t, 4420.0, s.Total)
	assert.Equal(t, GradeA, s.Grade)
}
