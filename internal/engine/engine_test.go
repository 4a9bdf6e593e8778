package engine

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
	"github.com/roach88/eldritch/internal/domination"
	"github.com/roach88/eldritch/internal/testutil"
	"github.com/roach88/eldritch/internal/victory"
)

func newEngine(rng *dice.Roller, opts ...Option) *Engine {
	return New(rng, append([]Option{WithLogger(slog.New(slog.DiscardHandler))}, opts...)...)
}

func newCampaign(t *testing.T, mutate ...func(*campaign.Snapshot)) *Campaign {
	t.Helper()
	c, err := NewCampaign(testutil.NewCampaign(t, mutate...))
	require.NoError(t, err)
	return c
}

func readyCampaign(t *testing.T, mutate ...func(*campaign.Snapshot)) *Campaign {
	t.Helper()
	base := []func(*campaign.Snapshot){
		testutil.WithDoctrine(campaign.DoctrineDomination),
		testutil.WithRegions(40, 50),
		testutil.WithTurn(20),
	}
	return newCampaign(t, append(base, mutate...)...)
}

func changeKinds(changes []campaign.StateChange) []campaign.ChangeKind {
	out := make([]campaign.ChangeKind, len(changes))
	for i, c := range changes {
		out[i] = c.Kind
	}
	return out
}

func eventKinds(events []campaign.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestNewCampaign_AttachesDoctrineState(t *testing.T) {
	c := newCampaign(t, testutil.WithDoctrine(campaign.DoctrineConvergence))
	require.NotNil(t, c.Phase2.Doctrine)
	assert.Equal(t, campaign.DoctrineConvergence, c.Phase2.Doctrine.Kind())

	c = newCampaign(t)
	assert.Nil(t, c.Phase2.Doctrine)
}

func TestProcessTurn_LeavesCampaignUntouched(t *testing.T) {
	c := readyCampaign(t)
	before := c.Clone()

	_, err := newEngine(dice.New(1)).ProcessTurn(c, []Order{{Kind: OrderRevealTruth, Reveal: 100}})
	require.NoError(t, err)
	assert.Equal(t, before.State.Snapshot(), c.State.Snapshot())
	assert.Equal(t, before.Phase2, c.Phase2)
	assert.Equal(t, before.Phase3, c.Phase3)
}

func TestProcessTurn_ChooseDoctrine(t *testing.T) {
	e := newEngine(dice.New(1))
	c := newCampaign(t)

	r, err := e.ProcessTurn(c, []Order{{Kind: OrderChooseDoctrine, Choose: campaign.DoctrineCorruption}})
	require.NoError(t, err)
	require.NotNil(t, r.Phase2.Doctrine)
	assert.Equal(t, campaign.DoctrineCorruption, r.Phase2.Doctrine.Kind())
	assert.False(t, r.Phase2.Unlocked)
	assert.Equal(t, []string{"doctrine_chosen"}, eventKinds(r.Events))
	assert.Equal(t, []campaign.ChangeKind{
		campaign.ChangeDoctrineChosen,
		campaign.ChangeCouncilUnityLoss, // two councillors favour other doctrines
		campaign.ChangeGlobalUnityGain,
	}, changeKinds(r.Changes))

	require.NoError(t, e.Commit(c, r))
	assert.Equal(t, campaign.DoctrineCorruption, c.State.Doctrine())
	assert.Equal(t, 58.0, c.State.Council().Unity)
	assert.Equal(t, campaign.DoctrineCorruption, c.Phase2.Doctrine.Kind())

	_, err = e.ProcessTurn(c, []Order{{Kind: OrderChooseDoctrine, Choose: campaign.DoctrineDomination}})
	assert.True(t, IsInvalidOrder(err))
}

func TestProcessTurn_OrderErrors(t *testing.T) {
	banish := &domination.Order{Kind: domination.OrderBanish, Banish: "e1"}

	tests := []struct {
		name     string
		campaign func(t *testing.T) *Campaign
		orders   []Order
		code     ErrorCode
	}{
		{
			name:     "doctrine order before a doctrine",
			campaign: func(t *testing.T) *Campaign { return newCampaign(t) },
			orders:   []Order{{Kind: OrderDomination, Domination: banish}},
			code:     ErrCodeDoctrineUnset,
		},
		{
			name: "order for another doctrine",
			campaign: func(t *testing.T) *Campaign {
				return newCampaign(t, testutil.WithDoctrine(campaign.DoctrineConvergence))
			},
			orders: []Order{{Kind: OrderDomination, Domination: banish}},
			code:   ErrCodeInvalidOrder,
		},
		{
			name:     "missing payload",
			campaign: func(t *testing.T) *Campaign { return readyCampaign(t) },
			orders:   []Order{{Kind: OrderDomination}},
			code:     ErrCodeInvalidOrder,
		},
		{
			name:     "unknown stance",
			campaign: func(t *testing.T) *Campaign { return readyCampaign(t) },
			orders:   []Order{{Kind: OrderAdoptStance, Stance: "smug"}},
			code:     ErrCodeInvalidOrder,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newEngine(dice.New(1)).ProcessTurn(tt.campaign(t), tt.orders)
			require.Error(t, err)
			assert.True(t, HasCode(err, tt.code), err.Error())
		})
	}
}

func TestProcessTurn_MalformedDoctrineOrderUnwraps(t *testing.T) {
	c := readyCampaign(t)
	_, err := newEngine(dice.New(1)).ProcessTurn(c, []Order{
		{Kind: OrderDomination, Domination: &domination.Order{Kind: domination.OrderSummon}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domination.ErrInvalidOrder)

	var ee *EngineError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 0, ee.Order)
	assert.Equal(t, 20, ee.Turn)
}

func TestProcessTurn_OrderQuota(t *testing.T) {
	c := readyCampaign(t)
	orders := []Order{
		{Kind: OrderRevealTruth, Reveal: 10},
		{Kind: OrderRevealTruth, Reveal: 10},
		{Kind: OrderRevealTruth, Reveal: 10},
	}
	_, err := newEngine(dice.New(1), WithMaxOrders(2)).ProcessTurn(c, orders)
	assert.True(t, IsInvalidOrder(err))

	_, err = newEngine(dice.New(1), WithMaxOrders(3)).ProcessTurn(c, orders)
	assert.NoError(t, err)
}

func TestProcessTurn_LockedPhaseSkipsDoctrineOrders(t *testing.T) {
	c := newCampaign(t, testutil.WithDoctrine(campaign.DoctrineDomination))

	r, err := newEngine(dice.New(1)).ProcessTurn(c, []Order{
		{Kind: OrderDomination, Domination: &domination.Order{Kind: domination.OrderBanish, Banish: "e1"}},
	})
	require.NoError(t, err)
	assert.False(t, r.Phase2.Unlocked)
	require.Len(t, r.Outcomes, 1)
	assert.Equal(t, "domination/banish", r.Outcomes[0].Order)
	assert.False(t, r.Outcomes[0].Success)
	assert.Contains(t, r.Outcomes[0].Message, "the doctrine phase is locked")
	assert.Contains(t, r.Outcomes[0].Message, "turn 2/20")
	assert.Zero(t, r.Points)
}

func TestProcessTurn_UnlocksPhase2(t *testing.T) {
	c := readyCampaign(t)

	r, err := newEngine(dice.New(1)).ProcessTurn(c, nil)
	require.NoError(t, err)
	assert.True(t, r.Phase2.Unlocked)
	assert.Equal(t, 20, r.Phase2.UnlockedTurn)
	require.Equal(t, []string{"phase2_unlocked"}, eventKinds(r.Events))
	assert.Equal(t, int64(1), r.Events[0].Seq)
	assert.Equal(t, []campaign.ChangeKind{campaign.ChangeCouncilUnityLoss, campaign.ChangeGlobalUnityGain}, changeKinds(r.Changes))
	assert.InDelta(t, 0.35, r.Changes[1].Amount, 1e-9)
	assert.Nil(t, r.Victory)
}

func TestProcessTurn_DoctrineWaitsForTheTurnAfterUnlock(t *testing.T) {
	e := newEngine(dice.New(1))
	c := readyCampaign(t, testutil.WithEntities(testutil.Entity("e1", campaign.TierServitor, 80)))
	banish := []Order{{Kind: OrderDomination, Domination: &domination.Order{Kind: domination.OrderBanish, Banish: "e1"}}}

	r, err := e.Advance(c, banish)
	require.NoError(t, err)
	assert.True(t, r.Phase2.Unlocked)
	assert.Equal(t, []string{"phase2_unlocked"}, eventKinds(r.Events))
	require.Len(t, r.Outcomes, 1)
	assert.False(t, r.Outcomes[0].Success)
	assert.Contains(t, r.Outcomes[0].Message, "opens next turn")
	assert.NotContains(t, changeKinds(r.Changes), campaign.ChangeEntityBanished)
	assert.Zero(t, r.Points)
	_, ok := c.State.Entity("e1")
	assert.True(t, ok)

	r, err = e.Advance(c, banish)
	require.NoError(t, err)
	assert.Equal(t, 21, r.Turn)
	require.Len(t, r.Outcomes, 1)
	assert.Equal(t, "domination/banish", r.Outcomes[0].Order)
	assert.True(t, r.Outcomes[0].Success, r.Outcomes[0].Message)
	assert.Contains(t, changeKinds(r.Changes), campaign.ChangeEntityBanished)
	_, ok = c.State.Entity("e1")
	assert.False(t, ok)
}

func TestProcessTurn_SharedOrders(t *testing.T) {
	e := newEngine(dice.New(1))
	c := readyCampaign(t)

	r, err := e.ProcessTurn(c, []Order{
		{Kind: OrderRevealTruth, Reveal: 100},
		{Kind: OrderAdoptStance, Stance: campaign.StanceAbsurdist},
	})
	require.NoError(t, err)
	require.Len(t, r.Outcomes, 2)
	assert.Equal(t, "reveal_truth", r.Outcomes[0].Order)
	assert.True(t, r.Outcomes[0].Success)
	assert.True(t, r.Outcomes[1].Success)

	require.NoError(t, e.Commit(c, r))
	rev := c.State.Revelation()
	assert.InDelta(t, 10, rev.TruthLevel, 1e-9)
	assert.Equal(t, campaign.StanceAbsurdist, rev.Stance)
	assert.Equal(t, 400.0, c.State.Resources().SanityFragments)
	assert.InDelta(t, 75, c.State.Veil().Integrity, 1e-9)
}

func TestProcessTurn_SequenceContinuesAcrossTurns(t *testing.T) {
	e := newEngine(dice.New(1))
	c := readyCampaign(t)

	r1, err := e.ProcessTurn(c, nil)
	require.NoError(t, err)
	r2, err := e.ProcessTurn(c, []Order{{Kind: OrderAdoptStance, Stance: campaign.StanceReverent}})
	require.NoError(t, err)

	require.NotEmpty(t, r1.Events)
	require.NotEmpty(t, r2.Events)
	assert.Greater(t, r2.Events[0].Seq, r1.Events[len(r1.Events)-1].Seq)
	assert.Equal(t, r2.Events[len(r2.Events)-1].Seq, e.Clock().Current())
}

func TestProcessTurn_CampaignOver(t *testing.T) {
	c := readyCampaign(t)
	c.Victory = &victory.Achieved{Ending: victory.EndingShadowEmpire, Turn: 19}

	_, err := newEngine(dice.New(1)).ProcessTurn(c, nil)
	assert.True(t, IsCampaignOver(err))
}

func TestCommit_RejectsStaleResult(t *testing.T) {
	e := newEngine(dice.New(1))
	c := readyCampaign(t)
	r, err := e.ProcessTurn(c, nil)
	require.NoError(t, err)
	r.Turn = 19

	err = e.Commit(c, r)
	assert.True(t, HasCode(err, ErrCodeApplyFailed))
	assert.False(t, c.Phase2.Unlocked)
}

func TestAdvance(t *testing.T) {
	e := newEngine(dice.New(3))
	c := readyCampaign(t)

	r, err := e.Advance(c, nil)
	require.NoError(t, err)
	assert.Equal(t, 20, r.Turn)
	assert.Equal(t, 21, c.State.Turn())
	assert.True(t, c.Phase2.Unlocked)
	assert.Contains(t, changeKinds(r.Changes), campaign.ChangeTurnAdvanced)
	assert.Equal(t, campaign.ChangeCelestialEvents, r.Changes[len(r.Changes)-1].Kind)
}

func TestAdvance_LatchedEndingStopsTheCalendar(t *testing.T) {
	e := newEngine(dice.New(3))
	goo := func(id string) campaign.Entity { return testutil.Entity(id, campaign.TierGreatOldOne, 90) }
	c := newCampaign(t,
		testutil.WithDoctrine(campaign.DoctrineDomination),
		testutil.WithRegions(85, 15),
		testutil.WithEntities(goo("a"), goo("b"), goo("c")),
	)

	r, err := e.Advance(c, nil)
	require.NoError(t, err)
	require.NotNil(t, r.Victory)
	assert.Equal(t, victory.EndingTotalDomination, r.Victory.Ending)
	assert.Equal(t, 2, c.State.Turn())
	assert.True(t, c.Over())
	assert.NotContains(t, changeKinds(r.Changes), campaign.ChangeTurnAdvanced)
	assert.Contains(t, eventKinds(r.Events), "victory_achieved")

	_, err = e.Advance(c, nil)
	assert.True(t, IsCampaignOver(err))
}

func TestAdvance_Deterministic(t *testing.T) {
	run := func() ([]TurnResult, *Campaign) {
		e := newEngine(dice.New(99))
		c := readyCampaign(t, func(s *campaign.Snapshot) { s.Council.Unity = 45 })
		var out []TurnResult
		for range 6 {
			r, err := e.Advance(c, []Order{{Kind: OrderRevealTruth, Reveal: 20}})
			require.NoError(t, err)
			out = append(out, r)
		}
		return out, c
	}
	r1, c1 := run()
	r2, c2 := run()
	assert.Equal(t, r1, r2)
	assert.Equal(t, c1.State.Snapshot(), c2.State.Snapshot())
	assert.Equal(t, 26, c1.State.Turn())
}
