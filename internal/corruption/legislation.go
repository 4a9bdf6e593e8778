package corruption

import (
	"fmt"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
)

// Law is a piece of puppet legislation.
type Law string

const (
	LawOccultTolerance        Law = "occult_tolerance"
	LawSurveillanceRelaxation Law = "surveillance_relaxation"
	LawEducationReform        Law = "education_reform"
	LawEmergencyPowers        Law = "emergency_powers"
	LawReligiousFreedom       Law = "religious_freedom"
)

var lawDifficulty = map[Law]float64{
	LawOccultTolerance:        25,
	LawSurveillanceRelaxation: 15,
	LawEducationReform:        30,
	LawEmergencyPowers:        45,
	LawReligiousFreedom:       20,
}

// PuppetInfluence is the government-node influence needed to legislate.
const PuppetInfluence = 60.0

// LegislationChance returns the clamped chance of passing a law through a
// government node.
func LegislationChance(st *campaign.State, gov InfluenceNode, l Law) float64 {
	chance := 40 + gov.Influence/2 - lawDifficulty[l]
	if st.Doctrine() == campaign.DoctrineCorruption {
		chance += 20
	}
	return clampChance(chance)
}

// Enact pushes a law through the puppet government. Without a government
// node of sufficient influence the request is inert. A failed vote draws
// suspicion sized to the law's difficulty.
func Enact(st *campaign.State, ds *State, l Law, rng *dice.Roller) campaign.Result {
	difficulty, ok := lawDifficulty[l]
	if !ok {
		return campaign.Inert("unknown law %q", l)
	}
	if ds.HasLaw(l) {
		return campaign.Inert("%s is already law", l)
	}
	gov := ds.PuppetGovernment()
	if gov == nil {
		return campaign.Inert("no government node holds %.0f influence", PuppetInfluence)
	}

	turn := st.Turn()
	var out campaign.Result
	if !rng.Chance(LegislationChance(st, *gov, l)) {
		out.Change(
			campaign.GlobalUnityGain(difficulty/5, "legislation"),
			campaign.InvestigationHeat(gov.RegionID, difficulty/3, "legislation"),
		)
		out.Message = fmt.Sprintf("the %s bill died in committee amid awkward questions", l)
		out.Emit(event(turn, "legislation_failed", campaign.ImportanceMedium, out.Message).With("law", string(l)))
		return out
	}
	ds.Laws = append(ds.Laws, EnactedLaw{Law: l, Turn: turn})
	out.Success = true
	out.Message = fmt.Sprintf("%s passed into law", l)
	out.Emit(event(turn, "law_enacted", campaign.ImportanceHigh, out.Message).With("law", string(l)))
	return out
}

// LawEffects returns the standing per-turn effects of every enacted law.
func LawEffects(st *campaign.State, ds *State) campaign.Effects {
	var fx campaign.Effects
	const src = "law"
	for _, e := range ds.Laws {
		switch e.Law {
		case LawOccultTolerance:
			for _, r := range st.Regions() {
				fx.Change(campaign.InvestigationCooling(r.ID, 2, src))
			}
			fx.Change(campaign.VeilRestore(0.5, src))
		case LawSurveillanceRelaxation:
			for _, r := range st.Regions() {
				fx.Change(campaign.InvestigationCooling(r.ID, 3, src))
			}
		case LawEducationReform:
			for _, r := range st.Regions() {
				fx.Change(campaign.CorruptionGain(r.ID, 1, src))
			}
		case LawEmergencyPowers:
			fx.Change(
				campaign.GlobalUnityLoss(1, src),
				campaign.CorruptionIndex(5, src),
			)
		case LawReligiousFreedom:
			fx.Change(campaign.CultistRecruitment(2, src))
		}
	}
	return fx
}
