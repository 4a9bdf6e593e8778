package testutil

import (
	"testing"

	"github.com/roach88/eldritch/internal/campaign"
)

// Fixture ids used across package tests.
const (
	RegionArkham     = "arkham"
	RegionInnsmouth  = "innsmouth"
	RegionDunwich    = "dunwich"
	RegionMiskatonic = "miskatonic"

	SiteOldChurch    = "old-church"    // temple, forest, arkham
	SiteDevilsReef   = "devils-reef"   // gateway, coastal, innsmouth
	SiteSentinelHill = "sentinel-hill" // shrine, swamp, dunwich, warded
	SiteLibrary      = "library-vault" // nexus, ruins, miskatonic
)

// BaseSnapshot returns a four-region campaign on turn 2 (waxing moon, no
// celestial events) with no doctrine chosen.
//
// Every call returns fresh slices, so callers may mutate the result.
func BaseSnapshot() campaign.Snapshot {
	return campaign.Snapshot{
		Regions: []campaign.Region{
			{
				ID: RegionArkham, Name: "Arkham", Corruption: 20, Sanity: 70, InvestigationHeat: 10,
				Population: 40000, Traits: []campaign.Trait{campaign.TraitSuperstitious, campaign.TraitUrban},
				Sites: []campaign.RitualSite{
					{ID: SiteOldChurch, Name: "Old Church", Type: campaign.SiteTemple, Biome: campaign.BiomeForest, Integrity: 100},
				},
			},
			{
				ID: RegionInnsmouth, Name: "Innsmouth", Corruption: 45, Sanity: 50, InvestigationHeat: 5,
				Population: 6000, Traits: []campaign.Trait{campaign.TraitIsolated},
				Sites: []campaign.RitualSite{
					{ID: SiteDevilsReef, Name: "Devil's Reef", Type: campaign.SiteGateway, Biome: campaign.BiomeCoastal, Integrity: 100},
				},
			},
			{
				ID: RegionDunwich, Name: "Dunwich", Corruption: 30, Sanity: 60, InvestigationHeat: 0,
				Population: 1500, Traits: []campaign.Trait{campaign.TraitSuperstitious, campaign.TraitIsolated},
				Sites: []campaign.RitualSite{
					{ID: SiteSentinelHill, Name: "Sentinel Hill", Type: campaign.SiteShrine, Biome: campaign.BiomeSwamp, Wards: true, Integrity: 100},
				},
			},
			{
				ID: RegionMiskatonic, Name: "Miskatonic Valley", Corruption: 10, Sanity: 85, InvestigationHeat: 20,
				Population: 25000, Traits: []campaign.Trait{campaign.TraitIntellectual, campaign.TraitRationalist},
				Sites: []campaign.RitualSite{
					{ID: SiteLibrary, Name: "Library Vault", Type: campaign.SiteNexus, Biome: campaign.BiomeRuins, Integrity: 100},
				},
			},
		},
		Resources: campaign.Resources{
			SanityFragments: 500,
			EldritchPower:   1000,
			Cultists:        60,
		},
		Veil: campaign.Veil{Integrity: 80},
		Council: campaign.Council{
			Members: []campaign.CouncilMember{
				{Name: "Asenath Waite", Alignment: campaign.DoctrineDomination, Loyalty: 70},
				{Name: "Wilbur Whateley", Alignment: campaign.DoctrineConvergence, Loyalty: 55},
				{Name: "Obed Marsh", Loyalty: 60},
			},
			Unity: 60,
		},
		Alignment: campaign.Alignment{Turn: 2},
	}
}

// NewCampaign builds a State from BaseSnapshot after applying each mutator.
func NewCampaign(t testing.TB, mutate ...func(*campaign.Snapshot)) *campaign.State {
	t.Helper()
	snap := BaseSnapshot()
	for _, m := range mutate {
		m(&snap)
	}
	st, err := campaign.NewState(snap)
	if err != nil {
		t.Fatalf("build campaign fixture: %v", err)
	}
	return st
}

// WithDoctrine sets the campaign's doctrine.
func WithDoctrine(d campaign.Doctrine) func(*campaign.Snapshot) {
	return func(s *campaign.Snapshot) { s.Doctrine = d }
}

// WithEntities adds entities to the campaign.
func WithEntities(es ...campaign.Entity) func(*campaign.Snapshot) {
	return func(s *campaign.Snapshot) { s.Entities = append(s.Entities, es...) }
}

// WithVeil sets veil integrity.
func WithVeil(v float64) func(*campaign.Snapshot) {
	return func(s *campaign.Snapshot) { s.Veil.Integrity = v }
}

// WithTurn sets the turn; the lunar phase is derived from it.
func WithTurn(turn int) func(*campaign.Snapshot) {
	return func(s *campaign.Snapshot) {
		s.Alignment.Turn = turn
		s.Alignment.LunarPhase = ""
	}
}

// WithRegions sets every region's corruption and sanity.
func WithRegions(corruption, sanity float64) func(*campaign.Snapshot) {
	return func(s *campaign.Snapshot) {
		for i := range s.Regions {
			s.Regions[i].Corruption = corruption
			s.Regions[i].Sanity = sanity
		}
	}
}

// Entity builds a fixture entity in Arkham.
func Entity(id string, tier campaign.Tier, binding float64) campaign.Entity {
	return campaign.NewEntity(id, id, tier, campaign.OriginRitual, binding, RegionArkham, SiteOldChurch, 1)
}

// WithRegion edits one region in place.
func WithRegion(id string, edit func(*campaign.Region)) func(*campaign.Snapshot) {
	return func(s *campaign.Snapshot) {
		for i := range s.Regions {
			if s.Regions[i].ID == id {
				edit(&s.Regions[i])
			}
		}
	}
}

// WithResources edits the cult's resources.
func WithResources(edit func(*campaign.Resources)) func(*campaign.Snapshot) {
	return func(s *campaign.Snapshot) { edit(&s.Resources) }
}

// WithTruth sets the revelation truth level.
func WithTruth(level float64) func(*campaign.Snapshot) {
	return func(s *campaign.Snapshot) { s.Revelation.TruthLevel = level }
}
