package domination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
	"github.com/roach88/eldritch/internal/testutil"
)

func TestOrder_Validate(t *testing.T) {
	assert.NoError(t, Order{Kind: OrderBanish, Banish: "x"}.Validate())
	assert.ErrorIs(t, Order{Kind: OrderSummon}.Validate(), ErrInvalidOrder)
	assert.ErrorIs(t, Order{Kind: "parley"}.Validate(), ErrInvalidOrder)
}

func TestTurn_LaterOrdersSeeEarlierOnes(t *testing.T) {
	st := testutil.NewCampaign(t,
		testutil.WithDoctrine(campaign.DoctrineDomination),
		func(s *campaign.Snapshot) { s.Resources.EldritchPower = 60 })
	d := campaign.NewDraft(st)
	ds := NewState()

	orders := []Order{
		{Kind: OrderSummon, Summon: &Attempt{Tier: campaign.TierServitor, SiteID: testutil.SiteOldChurch, Cultists: 5}},
		{Kind: OrderSummon, Summon: &Attempt{Tier: campaign.TierServitor, SiteID: testutil.SiteOldChurch, Cultists: 5}},
	}
	rep, err := Turn(d, ds, orders, dice.NewScripted(0.0), Options{})
	require.NoError(t, err)

	require.Len(t, rep.Outcomes, 2)
	assert.True(t, rep.Outcomes[0].Success)
	assert.False(t, rep.Outcomes[1].Success, "the first ritual spent the power")
	assert.Equal(t, 1, ds.Summonings)
	// servitor power plus one turn of tithe
	assert.Equal(t, 11.0, rep.Points)

	assert.Empty(t, st.Entities(), "the caller's state is untouched")
	require.NoError(t, st.Apply(d.Effects().Changes))
	assert.Equal(t, 12.0, st.Resources().EldritchPower)
	es := st.Entities()
	require.Len(t, es, 1)
	assert.Equal(t, 83.5, es[0].BindingStrength)
}

func TestTurn_AwakeningIsSealedBeforePhaseThree(t *testing.T) {
	st := testutil.NewCampaign(t, testutil.WithDoctrine(campaign.DoctrineDomination))
	ds := NewState()
	orders := []Order{{Kind: OrderAwaken, Awaken: &AwakenOrder{Chain: "shub_niggurath", SiteIDs: []string{testutil.SiteOldChurch}}}}

	rep, err := Turn(campaign.NewDraft(st), ds, orders, dice.New(1), Options{})
	require.NoError(t, err)
	assert.False(t, rep.Outcomes[0].Success)
	assert.Zero(t, ds.Awakenings["shub_niggurath"])

	rep, err = Turn(campaign.NewDraft(st), ds, orders, dice.New(1), Options{Phase3: true})
	require.NoError(t, err)
	assert.True(t, rep.Outcomes[0].Success)
	assert.Equal(t, 100.0, rep.Points)
}

func TestTurn_InvalidOrder(t *testing.T) {
	st := testutil.NewCampaign(t)
	_, err := Turn(campaign.NewDraft(st), NewState(), []Order{{Kind: OrderTerror}}, dice.New(1), Options{})
	require.ErrorIs(t, err, ErrInvalidOrder)
}

func TestState_Clone(t *testing.T) {
	ds := NewState()
	ds.Awakenings["hastur"] = 2
	c := ds.Clone()
	c.Awakenings["hastur"] = 3
	assert.Equal(t, 2, ds.Awakenings["hastur"])
	assert.Equal(t, campaign.DoctrineDomination, c.Kind())
}
