package domination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/testutil"
)

func TestBandFor(t *testing.T) {
	assert.Equal(t, BandOverwhelming, BandFor(2.01))
	assert.Equal(t, BandVictory, BandFor(2))
	assert.Equal(t, BandStalemate, BandFor(1))
	assert.Equal(t, BandDefeat, BandFor(0.5))
}

func TestEngage_Victory(t *testing.T) {
	st := testutil.NewCampaign(t, testutil.WithEntities(testutil.Entity("avatar", campaign.TierAvatar, 80)))

	r := Engage(st, Engagement{
		RegionID:       testutil.RegionArkham,
		EntityIDs:      []string{"avatar"},
		MilitaryPower:  50,
		Conditions:     []Condition{ConditionNight},
		Assets:         []Asset{AssetArtillery},
		CivilianShield: true,
	})
	require.True(t, r.Success, r.Message)
	assert.InDelta(t, 130.0, r.EntityPower, 1e-9)
	assert.InDelta(t, 70.0, r.MilitaryPower, 1e-9)
	assert.Equal(t, BandVictory, r.Band)
	assert.Equal(t, 30.0, r.MilitaryLosses)
	assert.Equal(t, 39.0, r.CivilianCasualties)

	require.NoError(t, st.Apply(r.Changes))
	e, _ := st.Entity("avatar")
	assert.Equal(t, 75.0, e.BindingStrength)
}

func TestEngage_DefeatDestroysWeakest(t *testing.T) {
	st := testutil.NewCampaign(t, testutil.WithEntities(
		testutil.Entity("horror", campaign.TierHorror, 80),
		testutil.Entity("servitor", campaign.TierServitor, 80),
	))

	r := Engage(st, Engagement{
		RegionID:      testutil.RegionArkham,
		EntityIDs:     []string{"horror", "servitor"},
		MilitaryPower: 100,
		Assets:        []Asset{AssetBlessedWeapons},
	})
	assert.False(t, r.Success)
	assert.Equal(t, BandDefeat, r.Band)
	assert.Equal(t, "servitor", r.Destroyed)

	require.NoError(t, st.Apply(r.Changes))
	_, ok := st.Entity("servitor")
	assert.False(t, ok)
	e, _ := st.Entity("horror")
	assert.Equal(t, 65.0, e.BindingStrength)
}

func TestEngage_RepeatedEntityCountsOnce(t *testing.T) {
	st := testutil.NewCampaign(t, testutil.WithEntities(testutil.Entity("s", campaign.TierServitor, 80)))

	r := Engage(st, Engagement{
		RegionID:      testutil.RegionArkham,
		EntityIDs:     []string{"s", "s"},
		MilitaryPower: 1000,
	})
	assert.Equal(t, 10.0, r.EntityPower)
	assert.Equal(t, BandDefeat, r.Band)
	assert.Equal(t, "s", r.Destroyed)
	for _, c := range r.Changes {
		assert.NotEqual(t, campaign.ChangeEntityBindingLoss, c.Kind)
	}

	require.NoError(t, st.Apply(r.Changes))
	_, ok := st.Entity("s")
	assert.False(t, ok)
}

func TestEngage_Inert(t *testing.T) {
	st := testutil.NewCampaign(t)
	assert.False(t, Engage(st, Engagement{RegionID: "atlantis", MilitaryPower: 10}).Success)
	assert.False(t, Engage(st, Engagement{RegionID: testutil.RegionArkham, MilitaryPower: 0}).Success)
	r := Engage(st, Engagement{RegionID: testutil.RegionArkham, MilitaryPower: 10, EntityIDs: []string{"ghost"}})
	assert.True(t, r.Effects.Empty())
}
