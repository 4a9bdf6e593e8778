package domination

import (
	"fmt"
	"math"
	"sort"

	"github.com/roach88/eldritch/internal/campaign"
)

// Condition favours the entities in an engagement.
type Condition string

const (
	ConditionNight Condition = "night"
	ConditionUrban Condition = "urban"
	ConditionStorm Condition = "storm"
)

var conditionMult = map[Condition]float64{
	ConditionNight: 1.3,
	ConditionUrban: 1.2,
	ConditionStorm: 1.15,
}

// Asset favours the military in an engagement.
type Asset string

const (
	AssetBlessedWeapons Asset = "blessed_weapons"
	AssetFlamethrowers  Asset = "flamethrowers"
	AssetArtillery      Asset = "artillery"
	AssetPsychics       Asset = "psychics"
)

var assetMult = map[Asset]float64{
	AssetBlessedWeapons: 1.5,
	AssetFlamethrowers:  1.3,
	AssetArtillery:      1.4,
	AssetPsychics:       1.6,
}

// Band is the discrete outcome of an engagement.
type Band string

const (
	BandOverwhelming Band = "overwhelming"
	BandVictory      Band = "victory"
	BandStalemate    Band = "stalemate"
	BandDefeat       Band = "defeat"
)

// BandFor classifies a power ratio.
func BandFor(ratio float64) Band {
	switch {
	case ratio > 2:
		return BandOverwhelming
	case ratio > 1:
		return BandVictory
	case ratio > 0.5:
		return BandStalemate
	default:
		return BandDefeat
	}
}

type bandLosses struct {
	military float64 // fraction of military power destroyed
	binding  float64 // binding lost by each engaged entity
	veil     float64
}

var losses = map[Band]bandLosses{
	BandOverwhelming: {military: 0.9, binding: 0, veil: 12},
	BandVictory:      {military: 0.6, binding: 5, veil: 8},
	BandStalemate:    {military: 0.3, binding: 10, veil: 6},
	BandDefeat:       {military: 0.1, binding: 15, veil: 4},
}

const civilianShieldFactor = 3.0

// Engagement is a confrontation between entities and a military force.
type Engagement struct {
	RegionID       string      `json:"region_id" yaml:"region_id"`
	EntityIDs      []string    `json:"entity_ids" yaml:"entity_ids"`
	MilitaryPower  float64     `json:"military_power" yaml:"military_power"`
	Conditions     []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	Assets         []Asset     `json:"assets,omitempty" yaml:"assets,omitempty"`
	CivilianShield bool        `json:"civilian_shield,omitempty" yaml:"civilian_shield,omitempty"`
}

// EngageResult reports an engagement.
type EngageResult struct {
	campaign.Result
	EntityPower        float64 `json:"entity_power"`
	MilitaryPower      float64 `json:"military_power"`
	Ratio              float64 `json:"ratio"`
	Band               Band    `json:"band"`
	MilitaryLosses     float64 `json:"military_losses"`
	CivilianCasualties float64 `json:"civilian_casualties"`
	Destroyed          string  `json:"destroyed,omitempty"`
}

// Engage resolves an engagement. Success means the entities won (victory or
// better). On defeat the weakest engaged entity is driven out of the world.
func Engage(st *campaign.State, en Engagement) EngageResult {
	region, ok := st.Region(en.RegionID)
	if !ok {
		return EngageResult{Result: campaign.Inert("unknown region %q", en.RegionID)}
	}
	if en.MilitaryPower <= 0 {
		return EngageResult{Result: campaign.Inert("military power must be positive")}
	}
	var engaged []campaign.Entity
	for _, id := range uniqueIDs(en.EntityIDs) {
		if e, ok := st.Entity(id); ok {
			engaged = append(engaged, e)
		}
	}
	if len(engaged) == 0 {
		return EngageResult{Result: campaign.Inert("no entities to engage in %s", region.Name)}
	}

	entityPower := 0.0
	for _, e := range engaged {
		entityPower += e.Power
	}
	for _, c := range en.Conditions {
		if m, ok := conditionMult[c]; ok {
			entityPower *= m
		}
	}
	militaryPower := en.MilitaryPower
	for _, a := range en.Assets {
		if m, ok := assetMult[a]; ok {
			militaryPower *= m
		}
	}

	ratio := entityPower / militaryPower
	band := BandFor(ratio)
	l := losses[band]

	out := EngageResult{
		EntityPower:    entityPower,
		MilitaryPower:  militaryPower,
		Ratio:          ratio,
		Band:           band,
		MilitaryLosses: math.Round(en.MilitaryPower * l.military),
	}
	out.CivilianCasualties = math.Round(entityPower * 0.1)
	if en.CivilianShield {
		out.CivilianCasualties *= civilianShieldFactor
	}
	out.Success = band == BandOverwhelming || band == BandVictory

	if band == BandDefeat {
		sort.SliceStable(engaged, func(i, j int) bool { return engaged[i].Power < engaged[j].Power })
		out.Destroyed = engaged[0].ID
		out.Change(campaign.EntityBanished(engaged[0].ID, "engage"))
		engaged = engaged[1:]
	}
	for _, e := range engaged {
		out.Change(campaign.EntityBindingLoss(e.ID, l.binding, "engage"))
	}
	out.Change(
		campaign.VeilDamage(l.veil, "engage"),
		campaign.SanityDrain(region.ID, min(20, out.CivilianCasualties*0.05), "engage"),
		campaign.InvestigationHeat(region.ID, l.veil, "engage"),
	)

	imp := campaign.ImportanceHigh
	if band == BandDefeat {
		imp = campaign.ImportanceCritical
	}
	out.Message = fmt.Sprintf("engagement in %s ended in %s (ratio %.2f, %.0f civilian casualties)",
		region.Name, band, ratio, out.CivilianCasualties)
	out.Emit(event(st.Turn(), "military_engagement", imp, out.Message).
		With("region", region.ID).
		With("band", string(band)))
	return out
}
