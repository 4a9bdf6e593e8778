package victory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/convergence"
	"github.com/roach88/eldritch/internal/phase"
	"github.com/roach88/eldritch/internal/testutil"
)

func greatOldOnes(n int) []campaign.Entity {
	out := make([]campaign.Entity, n)
	for i := range out {
		out[i] = testutil.Entity(fmt.Sprintf("goo-%d", i), campaign.TierGreatOldOne, 80)
	}
	return out
}

// regions grows the map to n regions and sets every region's corruption
// and sanity.
func regions(n int, corruption, sanity float64) func(*campaign.Snapshot) {
	return func(s *campaign.Snapshot) {
		for i := len(s.Regions); i < n; i++ {
			s.Regions = append(s.Regions, campaign.Region{
				ID: fmt.Sprintf("region-%d", i), Name: fmt.Sprintf("Region %d", i), Population: 1000,
			})
		}
		for i := range s.Regions {
			s.Regions[i].Corruption = corruption
			s.Regions[i].Sanity = sanity
		}
	}
}

func check(t *testing.T, checks []Check, e Ending) Check {
	t.Helper()
	for _, c := range checks {
		if c.Ending == e {
			return c
		}
	}
	t.Fatalf("no check for %s", e)
	return Check{}
}

func TestOrder(t *testing.T) {
	assert.Equal(t, []Ending{
		EndingCosmicJoke,
		EndingTotalDomination,
		EndingShadowEmpire,
		EndingTranscendence,
		EndingDarkConvergence,
		EndingBanishment,
	}, Order())
}

func TestTotalDomination_NeedsThreeGreatOldOnes(t *testing.T) {
	st := testutil.NewCampaign(t,
		testutil.WithDoctrine(campaign.DoctrineDomination),
		testutil.WithEntities(greatOldOnes(2)...),
		testutil.WithRegions(85, 15),
	)
	in := Input{State: st}

	c := check(t, Evaluate(in, DefaultThresholds()), EndingTotalDomination)
	assert.Equal(t, StatusApproaching, c.Status)
	assert.InDelta(t, 8.0/9, c.Progress, 1e-9)
	assert.False(t, c.Conditions[0].Met)
	assert.True(t, c.Conditions[1].Met)
	assert.True(t, c.Conditions[2].Met)

	got, _, events := Latch(nil, in, DefaultThresholds())
	assert.Nil(t, got)
	assert.Empty(t, events)
}

func TestTotalDomination_Met(t *testing.T) {
	st := testutil.NewCampaign(t,
		testutil.WithDoctrine(campaign.DoctrineDomination),
		testutil.WithEntities(greatOldOnes(3)...),
		testutil.WithRegions(85, 15),
		testutil.WithTurn(140),
	)
	got, checks, events := Latch(nil, Input{State: st}, DefaultThresholds())
	require.NotNil(t, got)
	assert.Equal(t, Achieved{Ending: EndingTotalDomination, Turn: 140}, *got)
	assert.Len(t, checks, 6)
	require.Len(t, events, 1)
	assert.Equal(t, "victory_achieved", events[0].Kind)
	assert.Equal(t, campaign.ImportanceCritical, events[0].Importance)
	assert.Equal(t, "the campaign ends in Total Domination", events[0].Message)
}

func TestDoctrineEndingsNeedTheirDoctrine(t *testing.T) {
	st := testutil.NewCampaign(t,
		testutil.WithDoctrine(campaign.DoctrineCorruption),
		testutil.WithEntities(greatOldOnes(3)...),
		testutil.WithRegions(85, 15),
	)
	c := check(t, Evaluate(Input{State: st}, DefaultThresholds()), EndingTotalDomination)
	assert.Equal(t, StatusDistant, c.Status)
	assert.Zero(t, c.Progress)
}

func TestFirstInListWins(t *testing.T) {
	st := testutil.NewCampaign(t,
		testutil.WithDoctrine(campaign.DoctrineDomination),
		testutil.WithEntities(greatOldOnes(3)...),
		testutil.WithRegions(85, 15),
		testutil.WithTruth(100),
		func(s *campaign.Snapshot) {
			s.Revelation.Stance = campaign.StanceAbsurdist
			s.TotalSummoned = 5
		},
	)
	checks := Evaluate(Input{State: st}, DefaultThresholds())
	assert.True(t, check(t, checks, EndingCosmicJoke).Met())
	assert.True(t, check(t, checks, EndingTotalDomination).Met())

	first, ok := First(checks)
	require.True(t, ok)
	assert.Equal(t, EndingCosmicJoke, first.Ending)
}

func TestLatch_IsTerminal(t *testing.T) {
	prev := &Achieved{Ending: EndingShadowEmpire, Turn: 90}
	st := testutil.NewCampaign(t,
		testutil.WithDoctrine(campaign.DoctrineDomination),
		testutil.WithEntities(greatOldOnes(3)...),
		testutil.WithRegions(85, 15),
	)
	got, checks, events := Latch(prev, Input{State: st}, DefaultThresholds())
	assert.Same(t, prev, got)
	assert.Nil(t, checks)
	assert.Nil(t, events)
}

func TestShadowEmpire(t *testing.T) {
	t.Run("twelve regions", func(t *testing.T) {
		st := testutil.NewCampaign(t, testutil.WithDoctrine(campaign.DoctrineCorruption), regions(12, 95, 45))
		got, _, _ := Latch(nil, Input{State: st}, DefaultThresholds())
		require.NotNil(t, got)
		assert.Equal(t, EndingShadowEmpire, got.Ending)
	})

	t.Run("eleven regions", func(t *testing.T) {
		st := testutil.NewCampaign(t, testutil.WithDoctrine(campaign.DoctrineCorruption), regions(11, 95, 45))
		c := check(t, Evaluate(Input{State: st}, DefaultThresholds()), EndingShadowEmpire)
		assert.Equal(t, StatusApproaching, c.Status)
		assert.InDelta(t, (1+11.0/12+1)/3, c.Progress, 1e-9)
	})

	t.Run("noticed", func(t *testing.T) {
		st := testutil.NewCampaign(t, testutil.WithDoctrine(campaign.DoctrineCorruption), regions(12, 95, 30))
		c := check(t, Evaluate(Input{State: st}, DefaultThresholds()), EndingShadowEmpire)
		assert.False(t, c.Met())
	})
}

func convergenceInput(t *testing.T, morality float64, redeemed bool) Input {
	t.Helper()
	st := testutil.NewCampaign(t,
		testutil.WithDoctrine(campaign.DoctrineConvergence),
		testutil.WithResources(func(r *campaign.Resources) { r.Hybrids = 50 }),
	)
	ds := convergence.NewState()
	ds.Conversions = 500
	ds.Meter.Morality = morality
	ds.Meter.Redeemed = redeemed
	return Input{State: st, Phase2: phase.Phase2State{Unlocked: true, Doctrine: ds}}
}

func TestConvergenceEndings(t *testing.T) {
	tests := []struct {
		name     string
		morality float64
		redeemed bool
		want     Achieved
	}{
		{"benevolent", 10, false, Achieved{Ending: EndingTranscendence, Turn: 2}},
		{"neutral counts as benevolent", 0, false, Achieved{Ending: EndingTranscendence, Turn: 2}},
		{"redeemed", 60, true, Achieved{Ending: EndingTranscendence, Variant: VariantRedeemed, Turn: 2}},
		{"malevolent", -5, false, Achieved{Ending: EndingDarkConvergence, Turn: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, events := Latch(nil, convergenceInput(t, tt.morality, tt.redeemed), DefaultThresholds())
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
			require.Len(t, events, 1)
			assert.Equal(t, string(tt.want.Ending), events[0].Meta["ending"])
		})
	}
}

func TestConvergenceEndings_ShortOfConversions(t *testing.T) {
	in := convergenceInput(t, 10, false)
	in.Phase2.Doctrine.(*convergence.State).Conversions = 499
	checks := Evaluate(in, DefaultThresholds())
	assert.False(t, check(t, checks, EndingTranscendence).Met())
	// The other morality branch can never come close.
	assert.Equal(t, StatusDistant, check(t, checks, EndingDarkConvergence).Status)
}

func TestBanishment(t *testing.T) {
	t.Run("held back by the grace period", func(t *testing.T) {
		st := testutil.NewCampaign(t, testutil.WithRegions(5, 90), testutil.WithTurn(99))
		c := check(t, Evaluate(Input{State: st}, DefaultThresholds()), EndingBanishment)
		assert.Equal(t, StatusApproaching, c.Status)
		assert.Equal(t, 1.0, c.Progress)
	})

	t.Run("all three after the grace period", func(t *testing.T) {
		st := testutil.NewCampaign(t, testutil.WithRegions(5, 90), testutil.WithTurn(100))
		got, _, events := Latch(nil, Input{State: st}, DefaultThresholds())
		require.NotNil(t, got)
		assert.Equal(t, EndingBanishment, got.Ending)
		assert.True(t, got.Loss())
		require.Len(t, events, 1)
		assert.Equal(t, "campaign_lost", events[0].Kind)
	})

	t.Run("two of three", func(t *testing.T) {
		st := testutil.NewCampaign(t, testutil.WithRegions(50, 90), testutil.WithTurn(120))
		c := check(t, Evaluate(Input{State: st}, DefaultThresholds()), EndingBanishment)
		assert.True(t, c.Met())
	})

	t.Run("one of three", func(t *testing.T) {
		st := testutil.NewCampaign(t,
			testutil.WithRegions(50, 90),
			testutil.WithTurn(120),
			testutil.WithEntities(testutil.Entity("e1", campaign.TierServitor, 80)),
		)
		c := check(t, Evaluate(Input{State: st}, DefaultThresholds()), EndingBanishment)
		assert.False(t, c.Met())
	})
}

func TestBanishment_LosesToAWin(t *testing.T) {
	in := convergenceInput(t, 10, false)
	snap := in.State.Snapshot()
	regions(4, 5, 90)(&snap)
	snap.Alignment.Turn = 150
	snap.Alignment.LunarPhase = ""
	st, err := campaign.NewState(snap)
	require.NoError(t, err)
	in.State = st

	checks := Evaluate(in, DefaultThresholds())
	require.True(t, check(t, checks, EndingBanishment).Met())
	first, ok := First(checks)
	require.True(t, ok)
	assert.Equal(t, EndingTranscendence, first.Ending)
}
