package engine

import (
	"fmt"
	"math"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
)

const source = "shared"

func event(turn int, kind string, imp campaign.Importance, msg string) campaign.Event {
	return campaign.NewEvent(turn, source, kind, imp, msg)
}

// chooseDoctrine commits the campaign to a doctrine.
func chooseDoctrine(st *campaign.State, d campaign.Doctrine) campaign.Effects {
	var fx campaign.Effects
	fx.Change(campaign.DoctrineChosen(d, "choose_doctrine"))
	fx.Emit(event(st.Turn(), "doctrine_chosen", campaign.ImportanceHigh,
		fmt.Sprintf("the council commits the cult to %s", d)).
		With("doctrine", string(d)))
	return fx
}

// Revelation.
const (
	truthPerFragment  = 0.1
	veilPerFragment   = 0.05
	sanityPerFragment = 0.02
)

// RevealTruth spends sanity fragments to make the cosmic truth public. It
// raises the truth level and wears down the veil and the world's sanity.
func RevealTruth(st *campaign.State, fragments float64) campaign.Result {
	rev := st.Revelation()
	if rev.TruthLevel >= 100 {
		return campaign.Inert("the truth is already fully revealed")
	}
	if have := st.Resources().SanityFragments; have < fragments {
		return campaign.Inert("revealing the truth needs %.0f sanity fragments, the cult has %.0f", fragments, have)
	}

	turn := st.Turn()
	r := campaign.Result{Success: true}
	gain := math.Min(fragments*truthPerFragment, 100-rev.TruthLevel)
	r.Change(
		campaign.SpendSanityFragments(fragments, "reveal_truth"),
		campaign.TruthRevealed(gain, "reveal_truth"),
		campaign.VeilDamage(fragments*veilPerFragment, "reveal_truth"),
		campaign.SanityDrain("", fragments*sanityPerFragment, "reveal_truth"),
	)
	r.Message = fmt.Sprintf("the truth spreads: %.0f%% of it is now known", rev.TruthLevel+gain)
	r.Emit(event(turn, "truth_revealed", campaign.ImportanceMedium, r.Message))
	if rev.TruthLevel+gain >= 100 {
		r.Emit(event(turn, "truth_complete", campaign.ImportanceCritical,
			"nothing is hidden any more; the whole of the truth is known"))
	}
	return r
}

const stanceShiftUnity = 5.0

// AdoptStance declares the cult's stance toward the truth. Changing a
// declared stance unsettles the council.
func AdoptStance(st *campaign.State, s campaign.Stance) campaign.Result {
	prev := st.Revelation().Stance
	if prev == s {
		return campaign.Inert("the cult already holds the %s stance", s)
	}
	r := campaign.Result{Success: true, Message: fmt.Sprintf("the cult adopts the %s stance", s)}
	r.Change(campaign.StanceAdopted(s, "adopt_stance"))
	if prev != campaign.StanceNone {
		r.Change(campaign.CouncilUnityLoss(stanceShiftUnity, "adopt_stance"))
	}
	r.Emit(event(st.Turn(), "stance_adopted", campaign.ImportanceMedium, r.Message).
		With("stance", string(s)))
	return r
}

// Council.
const (
	schismUnity        = 50.0
	misalignedPressure = 5.0
	misalignedDrift    = 1.0
	alignedDrift       = 0.5
	schismUnityLoss    = 10.0
	schismBaseSeverity = 10.0
	schismCultistShare = 0.05
)

// misaligned counts council members aligned with some other doctrine.
// Unaligned members count on neither side.
func misaligned(st *campaign.State) (against, with int) {
	d := st.Doctrine()
	for _, m := range st.Council().Members {
		switch {
		case m.Alignment == campaign.DoctrineNone:
		case m.Alignment == d:
			with++
		default:
			against++
		}
	}
	return against, with
}

// CouncilDrift moves council unity toward the members who share the
// campaign's doctrine and away from those who do not. Before a doctrine is
// chosen the council holds steady.
func CouncilDrift(st *campaign.State) campaign.Effects {
	var fx campaign.Effects
	if st.Doctrine() == campaign.DoctrineNone {
		return fx
	}
	against, with := misaligned(st)
	net := float64(with)*alignedDrift - float64(against)*misalignedDrift
	switch {
	case net > 0:
		fx.Change(campaign.CouncilUnityGain(net, "council"))
	case net < 0:
		fx.Change(campaign.CouncilUnityLoss(-net, "council"))
	}
	return fx
}

// SchismChance is the chance of a schism this turn. A council at or above
// schismUnity never splits.
func SchismChance(st *campaign.State) float64 {
	unity := st.Council().Unity
	if unity >= schismUnity {
		return 0
	}
	against, _ := misaligned(st)
	return campaign.Clamp(schismUnity-unity+float64(against)*misalignedPressure, 0, 100)
}

// Schism rolls for a council split. No draw is taken when the chance is 0.
func Schism(st *campaign.State, rng *dice.Roller) campaign.Effects {
	var fx campaign.Effects
	chance := SchismChance(st)
	if chance <= 0 || !rng.Chance(chance) {
		return fx
	}
	unity := st.Council().Unity
	severity := schismBaseSeverity + (schismUnity-unity)/2
	cultists := st.Resources().Cultists
	lost := min(cultists, max(1, int(math.Floor(float64(cultists)*schismCultistShare))))

	fx.Change(
		campaign.SchismOccurred(severity, "schism"),
		campaign.CouncilUnityLoss(schismUnityLoss, "schism"),
		campaign.CultistLoss(lost, "schism"),
	)
	fx.Emit(event(st.Turn(), "schism", campaign.ImportanceHigh,
		fmt.Sprintf("the council splits; %d cultists follow the dissenters", lost)).
		With("severity", fmt.Sprintf("%.1f", severity)))
	return fx
}

// World.
const (
	complacency  = 1.0
	veilExposure = 20.0
	heatExposure = 25.0
)

// UnityDrift moves the world's unity against the cult. Exposure (a thin
// veil, hot investigations) pulls the world together; without it the world
// slowly forgets.
func UnityDrift(st *campaign.State) campaign.Effects {
	var fx campaign.Effects
	heat := 0.0
	regions := st.Regions()
	for _, r := range regions {
		heat += r.InvestigationHeat
	}
	heat /= float64(len(regions))

	delta := (100-st.Veil().Integrity)/veilExposure + heat/heatExposure - complacency
	switch {
	case delta > 0:
		fx.Change(campaign.GlobalUnityGain(delta, "world"))
	case delta < 0:
		fx.Change(campaign.GlobalUnityLoss(-delta, "world"))
	}
	return fx
}

// Celestial odds per turn, in percent.
const (
	eclipseOdds     = 4.0
	conjunctionOdds = 6.0
	starsRightOdds  = 10.0
)

// Heavens rolls the celestial events of the given turn. The stars can only
// come right under a full moon. The returned change always replaces the
// previous turn's events.
func Heavens(turn int, rng *dice.Roller) campaign.Effects {
	var labels []string
	if rng.Chance(eclipseOdds) {
		labels = append(labels, campaign.CelestialEclipse)
	}
	if rng.Chance(conjunctionOdds) {
		labels = append(labels, campaign.CelestialConjunction)
	}
	if campaign.LunarPhaseForTurn(turn) == campaign.LunarFull && rng.Chance(starsRightOdds) {
		labels = append(labels, campaign.CelestialStarsRight)
	}

	var fx campaign.Effects
	fx.Change(campaign.CelestialEvents(labels, "heavens"))
	for _, l := range labels {
		imp := campaign.ImportanceMedium
		if l == campaign.CelestialStarsRight {
			imp = campaign.ImportanceCritical
		}
		fx.Emit(event(turn, "celestial_"+l, imp, "the heavens shift: "+l))
	}
	return fx
}
