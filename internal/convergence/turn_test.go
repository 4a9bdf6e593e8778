package convergence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
	"github.com/roach88/eldritch/internal/testutil"
)

func TestOrder_Validate(t *testing.T) {
	assert.NoError(t, Order{Kind: OrderResolve, Resolve: &ResolveOrder{PromiseID: "x"}}.Validate())
	assert.ErrorIs(t, Order{Kind: OrderSacrifice}.Validate(), ErrInvalidOrder)
	assert.ErrorIs(t, Order{Kind: "ascend"}.Validate(), ErrInvalidOrder)
}

func TestTurn(t *testing.T) {
	st := testutil.NewCampaign(t, testutil.WithDoctrine(campaign.DoctrineConvergence))
	d := campaign.NewDraft(st)
	ds := NewState()

	orders := []Order{
		{Kind: OrderFound, Found: &FoundOrder{RegionID: testutil.RegionArkham, Cultists: 5}},
		{Kind: OrderPromise, Promise: &PromiseOrder{Description: "free tuition", Impact: 3}},
		{Kind: OrderSacrifice, Sacrifice: &SacrificeOrder{RegionID: testutil.RegionArkham, Victims: 1}},
	}
	rep, err := Turn(d, ds, orders, dice.NewScripted(0.5), Options{})
	require.NoError(t, err)

	require.Len(t, rep.Outcomes, 3)
	assert.True(t, rep.Outcomes[0].Success)
	assert.True(t, rep.Outcomes[1].Success)
	assert.False(t, rep.Outcomes[2].Success, "sacrifice is sealed before the third phase")
	assert.Equal(t, 20.0, rep.Points)
	assert.Nil(t, rep.Exposed)

	require.Len(t, ds.Programs, 1)
	// Drift after founding: reputation 62 brings six more students.
	assert.Equal(t, 26, ds.Programs[0].Enrollment)
	assert.Len(t, ds.Meter.Pending(), 1)
	assert.Equal(t, 900.0, d.State().Resources().EldritchPower)
	assert.Zero(t, ds.Sacrificed)
}

func TestTurn_ScrutinyExposesTheCult(t *testing.T) {
	st := testutil.NewCampaign(t, testutil.WithDoctrine(campaign.DoctrineConvergence))
	d := campaign.NewDraft(st)
	ds := NewState()
	ds.Meter.Deception = 60

	rep, err := Turn(d, ds, nil, dice.NewScripted(0.0), Options{})
	require.NoError(t, err)
	require.NotNil(t, rep.Exposed)
	assert.Equal(t, ConsequenceReputationCollapse, rep.Exposed.Consequence)
	require.Len(t, d.Effects().Events, 1)
	assert.Equal(t, "deception_exposed", d.Effects().Events[0].Kind)
}

func TestTurn_Deterministic(t *testing.T) {
	run := func() (Report, *State) {
		st := testutil.NewCampaign(t, testutil.WithDoctrine(campaign.DoctrineConvergence))
		ds := programState(3, 120, 55)
		ds.Volunteers = 4
		ds.Meter.Deception = 15
		orders := []Order{
			{Kind: OrderProgress, Progress: &ProgressOrder{ProgramID: "p1", PushHard: true}},
			{Kind: OrderInspire, Inspire: &MovementOrder{Type: MovementWellness, RegionID: testutil.RegionMiskatonic, Power: 50}},
			{Kind: OrderSacrifice, Sacrifice: &SacrificeOrder{RegionID: testutil.RegionDunwich, Victims: 2, Willing: true}},
		}
		rep, err := Turn(campaign.NewDraft(st), ds, orders, dice.New(99), Options{Phase3: true})
		require.NoError(t, err)
		return rep, ds
	}
	r1, s1 := run()
	r2, s2 := run()
	assert.Equal(t, r1, r2)
	assert.Equal(t, s1, s2)
}
