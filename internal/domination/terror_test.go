package domination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/testutil"
)

func TestTerror_Haunting(t *testing.T) {
	st := testutil.NewCampaign(t,
		testutil.WithDoctrine(campaign.DoctrineDomination),
		testutil.WithEntities(testutil.Entity("horror", campaign.TierHorror, 60)))

	r := Terror(st, TerrorOrder{Type: TerrorHaunting, RegionID: testutil.RegionArkham, EntityIDs: []string{"horror"}})
	require.True(t, r.Success, r.Message)

	// radius 2 * power 30 * 0.5 * 1.0
	assert.Equal(t, 30.0, r.Fear)
	// 30 * 0.1 * 0.8, superstitious x1.5, Domination x1.2
	assert.InDelta(t, 4.32, r.SanityDrain, 1e-9)
	assert.Equal(t, MediaCoverup, r.Media)
	// 30 * 0.05 * 0.6, coverup x0.5, Domination x0.8
	assert.InDelta(t, 0.36, r.VeilDamage, 1e-9)

	require.NoError(t, st.Apply(r.Changes))
	e, _ := st.Entity("horror")
	assert.Equal(t, campaign.TaskTerror, e.Task)
	assert.InDelta(t, 504.32, st.Resources().SanityFragments, 1e-9)
}

func TestTerror_RepeatedEntityCountsOnce(t *testing.T) {
	st := testutil.NewCampaign(t,
		testutil.WithDoctrine(campaign.DoctrineDomination),
		testutil.WithEntities(testutil.Entity("horror", campaign.TierHorror, 60)))

	r := Terror(st, TerrorOrder{Type: TerrorHaunting, RegionID: testutil.RegionArkham, EntityIDs: []string{"horror", "horror", "horror"}})
	require.True(t, r.Success, r.Message)
	assert.Equal(t, 30.0, r.Fear)
	assert.InDelta(t, 4.32, r.SanityDrain, 1e-9)

	tasks := 0
	for _, c := range r.Changes {
		if c.Kind == campaign.ChangeEntityTask {
			tasks++
		}
	}
	assert.Equal(t, 1, tasks)
	require.NoError(t, st.Apply(r.Changes))
}

func TestTerror_MassacreCausesPanic(t *testing.T) {
	st := testutil.NewCampaign(t, testutil.WithEntities(testutil.Entity("avatar", campaign.TierAvatar, 80)))

	r := Terror(st, TerrorOrder{Type: TerrorMassacre, RegionID: testutil.RegionInnsmouth, EntityIDs: []string{"avatar"}})
	require.True(t, r.Success)
	assert.Equal(t, 600.0, r.Fear)
	assert.Equal(t, MediaPanic, r.Media)
	assert.InDelta(t, 600*0.05*3.0*1.5, r.VeilDamage, 1e-9)

	require.NoError(t, st.Apply(r.Changes))
	assert.Equal(t, 2.0, st.GlobalUnity())
}

func TestTerror_OnlyBoundEntities(t *testing.T) {
	st := testutil.NewCampaign(t, testutil.WithEntities(testutil.Entity("dormant", campaign.TierHorror, 40)))

	r := Terror(st, TerrorOrder{Type: TerrorHaunting, RegionID: testutil.RegionArkham, EntityIDs: []string{"dormant", "ghost"}})
	assert.False(t, r.Success)
	assert.True(t, r.Effects.Empty())

	r = Terror(st, TerrorOrder{Type: "parade", RegionID: testutil.RegionArkham})
	assert.False(t, r.Success)
}

func TestClassifyMedia(t *testing.T) {
	st := testutil.NewCampaign(t)
	arkham, _ := st.Region(testutil.RegionArkham)
	valley, _ := st.Region(testutil.RegionMiskatonic)

	tests := []struct {
		name   string
		veil   float64
		fear   float64
		region campaign.Region
		want   MediaResponse
	}{
		{"quiet night", 80, 50, arkham, MediaCoverup},
		{"too big to hide", 80, 250, arkham, MediaPanic},
		{"thin veil", 20, 10, valley, MediaPanic},
		{"sceptics", 50, 50, valley, MediaDenial},
		{"tabloids", 50, 50, arkham, MediaExploitation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyMedia(tt.veil, tt.fear, tt.region))
		})
	}
}
