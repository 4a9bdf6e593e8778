package victory

import (
	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/phase"
)

// Ending identifies one way a campaign can finish.
type Ending string

const (
	EndingCosmicJoke      Ending = "cosmic_joke"
	EndingTotalDomination Ending = "total_domination"
	EndingShadowEmpire    Ending = "shadow_empire"
	EndingTranscendence   Ending = "transcendence"
	EndingDarkConvergence Ending = "dark_convergence"
	EndingBanishment      Ending = "banishment"
)

// Loss reports whether the ending is a defeat for the cult.
func (e Ending) Loss() bool {
	return e == EndingBanishment
}

// Variant refines an ending. Only transcendence has one today.
const VariantRedeemed = "redeemed"

// Status is how close an ending is.
type Status string

const (
	StatusDistant     Status = "distant"
	StatusApproaching Status = "approaching"
	StatusMet         Status = "met"
)

// Condition is one requirement of an ending and how far along it is.
type Condition struct {
	Name     string  `json:"name"`
	Current  float64 `json:"current"`
	Target   float64 `json:"target"`
	Met      bool    `json:"met"`
	Progress float64 `json:"progress"`
}

// Check is the evaluation of one ending on one turn.
type Check struct {
	Ending     Ending      `json:"ending"`
	Status     Status      `json:"status"`
	Progress   float64     `json:"progress"`
	Variant    string      `json:"variant,omitempty"`
	Conditions []Condition `json:"conditions,omitempty"`
}

// Met reports whether the ending holds.
func (c Check) Met() bool {
	return c.Status == StatusMet
}

// Input is everything a predicate reads.
type Input struct {
	State  *campaign.State
	Phase2 phase.Phase2State
	Phase3 phase.Phase3State
}

// Thresholds configure the endings.
type Thresholds struct {
	CosmicTruth    float64 `json:"cosmic_truth" yaml:"cosmic_truth"`
	CosmicEntities int     `json:"cosmic_entities" yaml:"cosmic_entities"`

	DominationGreatOldOnes int     `json:"domination_great_old_ones" yaml:"domination_great_old_ones"`
	DominationCorruption   float64 `json:"domination_corruption" yaml:"domination_corruption"`
	DominationSanity       float64 `json:"domination_sanity" yaml:"domination_sanity"`

	EmpireCorruption       float64 `json:"empire_corruption" yaml:"empire_corruption"`
	EmpireRegions          int     `json:"empire_regions" yaml:"empire_regions"`
	EmpireRegionCorruption float64 `json:"empire_region_corruption" yaml:"empire_region_corruption"`
	EmpireSanity           float64 `json:"empire_sanity" yaml:"empire_sanity"`

	ConvergenceConversions int `json:"convergence_conversions" yaml:"convergence_conversions"`
	ConvergenceHybrids     int `json:"convergence_hybrids" yaml:"convergence_hybrids"`

	BanishmentCorruption float64 `json:"banishment_corruption" yaml:"banishment_corruption"`
	BanishmentSanity     float64 `json:"banishment_sanity" yaml:"banishment_sanity"`
	BanishmentGraceTurn  int     `json:"banishment_grace_turn" yaml:"banishment_grace_turn"`

	// Approaching is the progress at which an unmet ending is reported as
	// approaching.
	Approaching float64 `json:"approaching" yaml:"approaching"`
}

// DefaultThresholds returns the standard ending thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CosmicTruth:            100,
		CosmicEntities:         5,
		DominationGreatOldOnes: 3,
		DominationCorruption:   80,
		DominationSanity:       20,
		EmpireCorruption:       90,
		EmpireRegions:          12,
		EmpireRegionCorruption: 70,
		EmpireSanity:           40,
		ConvergenceConversions: 500,
		ConvergenceHybrids:     50,
		BanishmentCorruption:   10,
		BanishmentSanity:       80,
		BanishmentGraceTurn:    100,
		Approaching:            0.75,
	}
}
