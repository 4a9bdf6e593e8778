package corruption

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
	"github.com/roach88/eldritch/internal/testutil"
)

func TestInfiltrationChance(t *testing.T) {
	st := testutil.NewCampaign(t)
	arkham, _ := st.Region(testutil.RegionArkham)
	valley, _ := st.Region(testutil.RegionMiskatonic)

	// 40 + 15 cultists + 10 power + 4 regional corruption.
	assert.Equal(t, 69.0, InfiltrationChance(st, arkham,
		InfiltrateOrder{Institution: InstitutionMedia, Cultists: 5, Power: 100}))

	corrupt := testutil.NewCampaign(t, testutil.WithDoctrine(campaign.DoctrineCorruption))
	assert.Equal(t, 95.0, InfiltrationChance(corrupt, arkham,
		InfiltrateOrder{Institution: InstitutionMedia, Cultists: 5, Power: 100}))
	// 40 + 30 + 20 + 40 + 2 - 15 rationalist - 35 intelligence.
	assert.Equal(t, 82.0, InfiltrationChance(corrupt, valley,
		InfiltrateOrder{Institution: InstitutionIntelligence, Cultists: 10, Power: 200}))

	arkham.Traits = append(arkham.Traits, campaign.TraitFaithful)
	// Faithful regions resist the church twice as hard.
	assert.Equal(t, 9.0, InfiltrationChance(st, arkham,
		InfiltrateOrder{Institution: InstitutionChurch, Cultists: 5, Power: 100}))
}

func TestInfiltrate(t *testing.T) {
	order := InfiltrateOrder{RegionID: testutil.RegionArkham, Institution: InstitutionMedia, Cultists: 5, Power: 100}

	t.Run("success founds a node", func(t *testing.T) {
		st := testutil.NewCampaign(t)
		ds := NewState()

		r := Infiltrate(st, ds, order, dice.NewScripted(0.0))
		require.True(t, r.Success, r.Message)
		require.Len(t, ds.Nodes, 1)
		n := ds.Nodes[0]
		assert.Equal(t, 30.0, n.Influence)
		assert.Equal(t, 1, n.SleeperCells)
		assert.False(t, n.UnderInvestigation)

		require.NoError(t, st.Apply(r.Changes))
		arkham, _ := st.Region(testutil.RegionArkham)
		assert.Equal(t, 25.0, arkham.Corruption)
		assert.Equal(t, 900.0, st.Resources().EldritchPower)
		assert.Equal(t, 3.0, st.Resources().CorruptionIndex)

		dup := Infiltrate(st, ds, order, dice.NewScripted(0.0))
		assert.False(t, dup.Success)
		assert.True(t, dup.Effects.Empty())
	})

	t.Run("failure raises heat and costs cultists", func(t *testing.T) {
		st := testutil.NewCampaign(t)
		ds := NewState()

		r := Infiltrate(st, ds, order, dice.NewScripted(0.99))
		require.False(t, r.Success)
		assert.Empty(t, ds.Nodes)

		require.NoError(t, st.Apply(r.Changes))
		arkham, _ := st.Region(testutil.RegionArkham)
		assert.Equal(t, 20.0, arkham.InvestigationHeat)
		assert.Equal(t, 57, st.Resources().Cultists)
	})

	t.Run("inert requests", func(t *testing.T) {
		st := testutil.NewCampaign(t)
		ds := NewState()
		for _, o := range []InfiltrateOrder{
			{RegionID: "r'lyeh", Institution: InstitutionMedia, Cultists: 1},
			{RegionID: testutil.RegionArkham, Institution: "guild", Cultists: 1},
			{RegionID: testutil.RegionArkham, Institution: InstitutionMedia, Cultists: 0},
			{RegionID: testutil.RegionArkham, Institution: InstitutionMedia, Cultists: 1, Power: 1e6},
		} {
			rng := dice.NewScripted()
			r := Infiltrate(st, ds, o, rng)
			assert.False(t, r.Success)
			assert.Zero(t, rng.Draws())
		}
	})
}

func TestDeepen(t *testing.T) {
	node := InfluenceNode{ID: "n1", RegionID: testutil.RegionArkham, Institution: InstitutionPolice, Influence: 30}
	newState := func() *State { return &State{Nodes: []InfluenceNode{node}} }
	st := testutil.NewCampaign(t)

	assert.Equal(t, 47.5, DeepenChance(st, node, MethodBlackmail))
	assert.Equal(t, 5.0, DeepenChance(st, node, MethodReplacement))

	t.Run("blackmail buys middling loyalty", func(t *testing.T) {
		ds := newState()
		r := Deepen(st, ds, DeepenOrder{NodeID: "n1", Target: "Chief Barnes", Method: MethodBlackmail}, dice.NewScripted(0.0, 0.5))
		require.True(t, r.Success, r.Message)
		require.NotNil(t, r.Person)
		assert.Equal(t, 50.0, r.Person.Loyalty)
		assert.False(t, r.Person.Reliable())
		assert.Equal(t, 35.0, ds.Node("n1").Influence)
		require.Len(t, ds.Node("n1").People, 1)
	})

	t.Run("replacement is always loyal", func(t *testing.T) {
		ds := newState()
		r := Deepen(st, ds, DeepenOrder{NodeID: "n1", Target: "Judge Pike", Method: MethodReplacement}, dice.NewScripted(0.0, 0.3))
		require.True(t, r.Success)
		assert.Equal(t, 100.0, r.Person.Loyalty)
		assert.True(t, r.Person.Reliable())
	})

	t.Run("unknown node", func(t *testing.T) {
		r := Deepen(st, newState(), DeepenOrder{NodeID: "nope", Method: MethodBribery}, dice.NewScripted())
		assert.False(t, r.Success)
	})
}

func TestState_Clone(t *testing.T) {
	ds := &State{Nodes: []InfluenceNode{{ID: "n1", People: []CompromisedPerson{{ID: "p1"}}}}}
	c := ds.Clone()
	c.Nodes[0].People[0].Loyalty = 99
	c.Nodes[0].Influence = 99
	assert.Zero(t, ds.Nodes[0].People[0].Loyalty)
	assert.Zero(t, ds.Nodes[0].Influence)
	assert.Equal(t, campaign.DoctrineCorruption, c.Kind())
}
