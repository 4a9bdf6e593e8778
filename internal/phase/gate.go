package phase

import (
	"fmt"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/convergence"
	"github.com/roach88/eldritch/internal/corruption"
	"github.com/roach88/eldritch/internal/domination"
)

// Thresholds configure the gates.
type Thresholds struct {
	Phase2Regions      int     `json:"phase2_regions" yaml:"phase2_regions"`
	Phase2Corruption   float64 `json:"phase2_corruption" yaml:"phase2_corruption"`
	Phase2CouncilUnity float64 `json:"phase2_council_unity" yaml:"phase2_council_unity"`
	Phase2Sites        int     `json:"phase2_sites" yaml:"phase2_sites"`
	Phase2Power        float64 `json:"phase2_power" yaml:"phase2_power"`
	Phase2Turn         int     `json:"phase2_turn" yaml:"phase2_turn"`

	Phase3Points float64 `json:"phase3_points" yaml:"phase3_points"`
	Phase3Turn   int     `json:"phase3_turn" yaml:"phase3_turn"`

	// Phase 2 completion milestones, one per doctrine.
	DominationEntities  int `json:"domination_entities" yaml:"domination_entities"`
	CorruptionNodes     int `json:"corruption_nodes" yaml:"corruption_nodes"`
	ConvergencePrograms int `json:"convergence_programs" yaml:"convergence_programs"`
}

// DefaultThresholds returns the standard campaign gates.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Phase2Regions:       3,
		Phase2Corruption:    30,
		Phase2CouncilUnity:  50,
		Phase2Sites:         2,
		Phase2Power:         200,
		Phase2Turn:          20,
		Phase3Points:        1000,
		Phase3Turn:          60,
		DominationEntities:  3,
		CorruptionNodes:     5,
		ConvergencePrograms: 2,
	}
}

// Phase2Unmet lists the Phase 2 requirements st does not meet. An empty
// list means the phase can unlock.
func Phase2Unmet(st *campaign.State, th Thresholds) []string {
	var unmet []string
	if n := corruptedRegions(st, th.Phase2Corruption); n < th.Phase2Regions {
		unmet = append(unmet, fmt.Sprintf("%d/%d regions at corruption %.0f", n, th.Phase2Regions, th.Phase2Corruption))
	}
	if u := st.Council().Unity; u < th.Phase2CouncilUnity {
		unmet = append(unmet, fmt.Sprintf("council unity %.0f/%.0f", u, th.Phase2CouncilUnity))
	}
	if n := st.SiteCount(); n < th.Phase2Sites {
		unmet = append(unmet, fmt.Sprintf("ritual sites %d/%d", n, th.Phase2Sites))
	}
	if p := st.Resources().EldritchPower; p < th.Phase2Power {
		unmet = append(unmet, fmt.Sprintf("eldritch power %.0f/%.0f", p, th.Phase2Power))
	}
	if t := st.Turn(); t < th.Phase2Turn {
		unmet = append(unmet, fmt.Sprintf("turn %d/%d", t, th.Phase2Turn))
	}
	if st.Doctrine() == campaign.DoctrineNone {
		unmet = append(unmet, "a doctrine")
	}
	return unmet
}

func corruptedRegions(st *campaign.State, threshold float64) int {
	n := 0
	for _, r := range st.Regions() {
		if r.Corruption >= threshold {
			n++
		}
	}
	return n
}

// Phase3Unmet lists the Phase 3 requirements not yet met.
func Phase3Unmet(st *campaign.State, p2 Phase2State, p3 Phase3State, th Thresholds) []string {
	var unmet []string
	if !p2.Completed {
		unmet = append(unmet, "phase 2 completion")
	}
	if pts := TotalPoints(p2, p3); pts < th.Phase3Points {
		unmet = append(unmet, fmt.Sprintf("doctrine points %.0f/%.0f", pts, th.Phase3Points))
	}
	if t := st.Turn(); t < th.Phase3Turn {
		unmet = append(unmet, fmt.Sprintf("turn %d/%d", t, th.Phase3Turn))
	}
	return unmet
}

// Complete reports whether the doctrine's Phase 2 milestone is met:
// enough bound entities of horror tier or above, enough influence nodes,
// or enough programs at their final stage.
func Complete(st *campaign.State, ds DoctrineState, th Thresholds) bool {
	switch s := ds.(type) {
	case *domination.State:
		n := st.CountEntities(func(e campaign.Entity) bool {
			return e.Bound() && e.Tier.Rank() >= campaign.TierHorror.Rank()
		})
		return n >= th.DominationEntities
	case *corruption.State:
		return len(s.Nodes) >= th.CorruptionNodes
	case *convergence.State:
		return s.FinalStagePrograms() >= th.ConvergencePrograms
	}
	return false
}

const source = "phase"

// Check evaluates every gate in order: Phase 2 unlock, Phase 2 completion,
// Phase 3 unlock. Each transition happens at most once and emits an event.
// Gates already passed on input stay passed.
func Check(st *campaign.State, p2 Phase2State, p3 Phase3State, th Thresholds) (Phase2State, Phase3State, []campaign.Event) {
	turn := st.Turn()
	var events []campaign.Event

	if !p2.Unlocked && len(Phase2Unmet(st, th)) == 0 {
		p2.Unlocked = true
		p2.UnlockedTurn = turn
		events = append(events, campaign.NewEvent(turn, source, "phase2_unlocked", campaign.ImportanceCritical,
			fmt.Sprintf("the cult steps out of the shadows: the way of %s is open", st.Doctrine())))
	}
	if p2.Unlocked && !p2.Completed && p2.Doctrine != nil && Complete(st, p2.Doctrine, th) {
		p2.Completed = true
		p2.CompletedTurn = turn
		events = append(events, campaign.NewEvent(turn, source, "phase2_completed", campaign.ImportanceHigh,
			fmt.Sprintf("the %s milestone is reached", p2.Doctrine.Kind())))
	}
	if p2.Unlocked && !p3.Unlocked && len(Phase3Unmet(st, p2, p3, th)) == 0 {
		p3.Unlocked = true
		p3.UnlockedTurn = turn
		events = append(events, campaign.NewEvent(turn, source, "phase3_unlocked", campaign.ImportanceCritical,
			"the stars turn: the culmination is at hand"))
	}
	return p2, p3, events
}
