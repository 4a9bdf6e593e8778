package convergence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
	"github.com/roach88/eldritch/internal/testutil"
)

func promise(t *testing.T, st *campaign.State, ds *State, impact float64) string {
	t.Helper()
	r := MakePromise(st, ds, PromiseOrder{Description: "no one will be harmed", Impact: impact}, dice.New(int64(len(ds.Meter.Promises)+1)))
	require.True(t, r.Success, r.Message)
	return ds.Meter.Promises[len(ds.Meter.Promises)-1].ID
}

func TestResolvePromise_BrokenHighImpactIsBetrayal(t *testing.T) {
	st := testutil.NewCampaign(t)
	ds := NewState()
	id := promise(t, st, ds, 10)

	r := ResolvePromise(st, ds, id, false)
	assert.False(t, r.Success)
	assert.Equal(t, -50.0, r.TrustDelta)
	assert.Equal(t, -40.0, r.MoralityDelta)
	assert.Equal(t, 20.0, r.DeceptionDelta)
	assert.True(t, r.BetrayalTriggered)

	m := ds.Meter
	assert.Equal(t, 0.0, m.PublicTrust)
	assert.Equal(t, -40.0, m.Morality)
	assert.Equal(t, 20.0, m.Deception)
	require.Len(t, m.Betrayals, 1)
	assert.True(t, m.RedemptionLocked)
	assert.False(t, m.RedemptionAvailable())

	require.NoError(t, st.Apply(r.Changes))
	assert.Equal(t, 10.0, st.GlobalUnity())

	again := ResolvePromise(st, ds, id, true)
	assert.False(t, again.Success, "a settled promise stays settled")
}

func TestResolvePromise(t *testing.T) {
	st := testutil.NewCampaign(t)

	t.Run("kept", func(t *testing.T) {
		ds := NewState()
		r := ResolvePromise(st, ds, promise(t, st, ds, 4), true)
		assert.True(t, r.Success)
		assert.Equal(t, 58.0, ds.Meter.PublicTrust)
		assert.Equal(t, 12.0, ds.Meter.Morality)
		assert.Empty(t, r.Changes)
	})

	t.Run("broken below the betrayal threshold", func(t *testing.T) {
		ds := NewState()
		r := ResolvePromise(st, ds, promise(t, st, ds, 4), false)
		assert.False(t, r.BetrayalTriggered)
		assert.Equal(t, 30.0, ds.Meter.PublicTrust)
		assert.Equal(t, -16.0, ds.Meter.Morality)
		assert.Equal(t, 8.0, ds.Meter.Deception)
		assert.Empty(t, ds.Meter.Betrayals)
	})

	t.Run("betrayal below the lock severity", func(t *testing.T) {
		ds := NewState()
		r := ResolvePromise(st, ds, promise(t, st, ds, 6), false)
		assert.True(t, r.BetrayalTriggered)
		assert.True(t, ds.Meter.RedemptionAvailable())
	})

	t.Run("impact out of range", func(t *testing.T) {
		assert.False(t, MakePromise(st, NewState(), PromiseOrder{Impact: 0}, dice.New(1)).Success)
		assert.False(t, MakePromise(st, NewState(), PromiseOrder{Impact: 11}, dice.New(1)).Success)
	})
}

func TestRedemptionLatch(t *testing.T) {
	st := testutil.NewCampaign(t)
	ds := NewState()
	ResolvePromise(st, ds, promise(t, st, ds, 9), false)
	require.True(t, ds.Meter.RedemptionLocked)

	for _, cost := range []float64{0, 100, 1000} {
		for _, action := range []RedemptionAction{ActionPublicConfession, ActionReleaseFollowers} {
			rng := dice.New(7)
			r := AttemptRedemption(st, ds, RedemptionOrder{Action: action, ResourceCost: cost}, rng)
			assert.False(t, r.Success)
			assert.True(t, r.Effects.Empty())
			assert.Zero(t, rng.Draws())
		}
	}
	// Kept promises do not reopen it.
	ResolvePromise(st, ds, promise(t, st, ds, 10), true)
	assert.True(t, ds.Meter.RedemptionLocked)
}

func TestAttemptRedemption(t *testing.T) {
	st := testutil.NewCampaign(t)

	t.Run("confession", func(t *testing.T) {
		ds := NewState()
		ds.Meter.Morality = -20
		ds.Meter.Deception = 10
		o := RedemptionOrder{Action: ActionPublicConfession, ResourceCost: 500}
		assert.Equal(t, 79.0, RedemptionChance(ds.Meter, o))

		r := AttemptRedemption(st, ds, o, dice.NewScripted(0.0))
		require.True(t, r.Success, r.Message)
		assert.False(t, r.Redeemed)
		assert.Equal(t, 5.0, ds.Meter.Morality)
		assert.Equal(t, 0.0, ds.Meter.Deception)
		assert.Equal(t, 57.5, ds.Meter.PublicTrust)

		c := st.Clone()
		require.NoError(t, c.Apply(r.Changes))
		assert.Equal(t, 500.0, c.Resources().EldritchPower)
		assert.Equal(t, 75.0, c.Veil().Integrity)
	})

	t.Run("release opens the redeemed path", func(t *testing.T) {
		rich := testutil.NewCampaign(t, testutil.WithResources(func(r *campaign.Resources) { r.EldritchPower = 2000 }))
		ds := NewState()
		ds.Meter.Morality = 45
		o := RedemptionOrder{Action: ActionReleaseFollowers, ResourceCost: 1500}
		assert.Equal(t, 95.0, RedemptionChance(ds.Meter, o))

		r := AttemptRedemption(rich, ds, o, dice.NewScripted(0.0))
		require.True(t, r.Success, r.Message)
		assert.True(t, r.Redeemed)
		assert.True(t, ds.Meter.Redeemed)
		assert.Equal(t, 75.0, ds.Meter.Morality)
		require.NotEmpty(t, r.Events)
		assert.Equal(t, "redemption_path", r.Events[0].Kind)

		require.NoError(t, rich.Apply(r.Changes))
		assert.Equal(t, 54, rich.Resources().Cultists)
		assert.Equal(t, 500.0, rich.Resources().EldritchPower)
	})

	t.Run("spending more than the cult has is inert", func(t *testing.T) {
		ds := NewState()
		r := AttemptRedemption(st, ds, RedemptionOrder{Action: ActionReleaseFollowers, ResourceCost: 1500}, dice.NewScripted(0.0))
		assert.False(t, r.Success)
		assert.True(t, r.Effects.Empty())
		assert.False(t, ds.Meter.Redeemed)
	})

	t.Run("failure costs trust", func(t *testing.T) {
		ds := NewState()
		r := AttemptRedemption(st, ds, RedemptionOrder{Action: ActionCharitableWorks}, dice.NewScripted(0.99))
		assert.False(t, r.Success)
		assert.Equal(t, 45.0, ds.Meter.PublicTrust)
	})
}

func TestExposeDeception(t *testing.T) {
	t.Run("hidden entities", func(t *testing.T) {
		st := testutil.NewCampaign(t)
		ds := NewState()
		r := ExposeDeception(st, ds, DeceptionHiddenEntities, 6)
		assert.Equal(t, ConsequenceViolentRejection, r.Consequence)
		assert.Equal(t, 3.0, r.Scale)
		assert.False(t, r.RedemptionClosed)
		assert.Equal(t, 44.0, ds.Meter.PublicTrust)

		require.NoError(t, st.Apply(r.Changes))
		assert.Equal(t, 6.0, st.GlobalUnity())
		assert.Equal(t, 77.0, st.Veil().Integrity)
		arkham, _ := st.Region(testutil.RegionArkham)
		assert.Equal(t, 16.0, arkham.InvestigationHeat)
	})

	t.Run("mind alteration closes redemption", func(t *testing.T) {
		st := testutil.NewCampaign(t)
		ds := programState(2, 100, 60)
		r := ExposeDeception(st, ds, DeceptionMindAlteration, 8)
		assert.Equal(t, ConsequenceMassExodus, r.Consequence)
		assert.Equal(t, 4.0, r.Scale)
		assert.True(t, r.RedemptionClosed)
		assert.True(t, ds.Meter.RedemptionLocked)
		assert.Equal(t, 80, ds.Programs[0].Enrollment)

		require.NoError(t, st.Apply(r.Changes))
		assert.Equal(t, 56, st.Resources().Cultists)
	})

	t.Run("trust softens the blow", func(t *testing.T) {
		st := testutil.NewCampaign(t)
		ds := NewState()
		ds.Meter.PublicTrust = 100
		r := ExposeDeception(st, ds, DeceptionSacrificialIntent, 5)
		assert.Equal(t, 0.0, r.Scale)
	})
}

func TestScrutiny(t *testing.T) {
	st := testutil.NewCampaign(t)

	ds := NewState()
	rng := dice.NewScripted()
	_, ok := Scrutiny(st, ds, rng)
	assert.False(t, ok)
	assert.Zero(t, rng.Draws(), "an honest cult is never scrutinised")

	ds.Meter.Deception = 30
	r, ok := Scrutiny(st, ds, dice.NewScripted(0.05))
	require.True(t, ok)
	assert.Equal(t, ConsequenceReputationCollapse, r.Consequence)
	assert.Equal(t, 1.5, r.Scale)
	assert.Equal(t, 42.5, ds.Meter.PublicTrust)
	assert.Equal(t, 24.0, ds.Meter.Deception)

	ds.Volunteers = 3
	r, ok = Scrutiny(st, ds, dice.NewScripted(0.0))
	require.True(t, ok)
	assert.Equal(t, ConsequenceMassSuicide, r.Consequence)
	assert.Zero(t, ds.Volunteers)
}
