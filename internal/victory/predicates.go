package victory

import (
	"cmp"
	"slices"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/convergence"
)

type predicate struct {
	ending Ending
	eval   func(Input, Thresholds) Check
}

// predicates is the evaluation order. When more than one ending holds on
// the same turn the earliest one wins: the secret ending outranks the
// doctrine endings, and the loss comes last so a cult that has already won
// is never also banished.
var predicates = []predicate{
	{EndingCosmicJoke, cosmicJoke},
	{EndingTotalDomination, totalDomination},
	{EndingShadowEmpire, shadowEmpire},
	{EndingTranscendence, transcendence},
	{EndingDarkConvergence, darkConvergence},
	{EndingBanishment, banishment},
}

// Order returns the endings in evaluation order.
func Order() []Ending {
	out := make([]Ending, len(predicates))
	for i, p := range predicates {
		out[i] = p.ending
	}
	return out
}

// Evaluate runs every predicate and returns one check per ending, in Order.
func Evaluate(in Input, th Thresholds) []Check {
	out := make([]Check, len(predicates))
	for i, p := range predicates {
		out[i] = p.eval(in, th)
	}
	return out
}

// First returns the earliest met check.
func First(checks []Check) (Check, bool) {
	for _, c := range checks {
		if c.Met() {
			return c, true
		}
	}
	return Check{}, false
}

func cosmicJoke(in Input, th Thresholds) Check {
	st := in.State
	rev := st.Revelation()
	return finish(EndingCosmicJoke, th,
		atLeast("truth_level", rev.TruthLevel, th.CosmicTruth),
		flag("absurdist_stance", rev.Stance == campaign.StanceAbsurdist),
		atLeast("entities_summoned", float64(st.TotalSummoned()), float64(th.CosmicEntities)),
	)
}

func totalDomination(in Input, th Thresholds) Check {
	st := in.State
	if st.Doctrine() != campaign.DoctrineDomination {
		return distant(EndingTotalDomination)
	}
	old := st.CountEntities(func(e campaign.Entity) bool { return e.Tier == campaign.TierGreatOldOne })
	return finish(EndingTotalDomination, th,
		atLeast("great_old_ones", float64(old), float64(th.DominationGreatOldOnes)),
		atLeast("corruption", st.AverageCorruption(), th.DominationCorruption),
		atMost("sanity", st.AverageSanity(), th.DominationSanity),
	)
}

func shadowEmpire(in Input, th Thresholds) Check {
	st := in.State
	if st.Doctrine() != campaign.DoctrineCorruption {
		return distant(EndingShadowEmpire)
	}
	return finish(EndingShadowEmpire, th,
		atLeast("corruption", st.AverageCorruption(), th.EmpireCorruption),
		atLeast("corrupted_regions", float64(st.RegionsAbove(th.EmpireRegionCorruption)), float64(th.EmpireRegions)),
		atLeast("sanity", st.AverageSanity(), th.EmpireSanity),
	)
}

func transcendence(in Input, th Thresholds) Check {
	if in.State.Doctrine() != campaign.DoctrineConvergence {
		return distant(EndingTranscendence)
	}
	ds := convergenceState(in)
	c := finish(EndingTranscendence, th, append(convergenceConditions(in, ds, th),
		flag("morality_non_negative", ds.Meter.Morality >= 0))...)
	if ds.Meter.Redeemed {
		c.Variant = VariantRedeemed
	}
	return c
}

func darkConvergence(in Input, th Thresholds) Check {
	if in.State.Doctrine() != campaign.DoctrineConvergence {
		return distant(EndingDarkConvergence)
	}
	ds := convergenceState(in)
	return finish(EndingDarkConvergence, th, append(convergenceConditions(in, ds, th),
		flag("morality_negative", ds.Meter.Morality < 0))...)
}

func convergenceConditions(in Input, ds *convergence.State, th Thresholds) []Condition {
	return []Condition{
		atLeast("conversions", float64(ds.Conversions), float64(th.ConvergenceConversions)),
		atLeast("hybrids", float64(in.State.Resources().Hybrids), float64(th.ConvergenceHybrids)),
	}
}

func convergenceState(in Input) *convergence.State {
	if ds, ok := in.Phase2.Doctrine.(*convergence.State); ok && ds != nil {
		return ds
	}
	return convergence.NewState()
}

// banishment needs any two of its three conditions, and only once the
// grace period is over.
func banishment(in Input, th Thresholds) Check {
	st := in.State
	n := len(st.Entities())
	conds := []Condition{
		below("corruption", st.AverageCorruption(), th.BanishmentCorruption),
		above("sanity", st.AverageSanity(), th.BanishmentSanity),
		{Name: "entities", Current: float64(n), Target: 0, Met: n == 0, Progress: 1 / float64(1+n)},
	}

	met := 0
	for _, c := range conds {
		if c.Met {
			met++
		}
	}
	best := slices.SortedFunc(slices.Values(conds), func(a, b Condition) int {
		return cmp.Compare(b.Progress, a.Progress)
	})
	progress := (best[0].Progress + best[1].Progress) / 2

	grace := atLeast("grace_period", float64(st.Turn()), float64(th.BanishmentGraceTurn))
	c := Check{Ending: EndingBanishment, Progress: progress, Conditions: append(conds, grace)}
	switch {
	case met >= 2 && grace.Met:
		c.Status = StatusMet
	case progress >= th.Approaching:
		c.Status = StatusApproaching
	default:
		c.Status = StatusDistant
	}
	return c
}

func distant(e Ending) Check {
	return Check{Ending: e, Status: StatusDistant}
}

func finish(e Ending, th Thresholds, conds ...Condition) Check {
	c := Check{Ending: e, Conditions: conds}
	all := true
	total := 0.0
	for _, cond := range conds {
		all = all && cond.Met
		total += cond.Progress
	}
	if len(conds) > 0 {
		c.Progress = total / float64(len(conds))
	}
	switch {
	case all:
		c.Status = StatusMet
	case c.Progress >= th.Approaching:
		c.Status = StatusApproaching
	default:
		c.Status = StatusDistant
	}
	return c
}

func ratio(cur, target float64) float64 {
	if target <= 0 {
		return 1
	}
	return campaign.Clamp(cur/target, 0, 1)
}

func atLeast(name string, cur, target float64) Condition {
	return Condition{Name: name, Current: cur, Target: target, Met: cur >= target, Progress: ratio(cur, target)}
}

func above(name string, cur, target float64) Condition {
	c := Condition{Name: name, Current: cur, Target: target, Met: cur > target, Progress: ratio(cur, target)}
	if c.Met {
		c.Progress = 1
	}
	return c
}

// atMost measures progress on a 0-100 scale falling toward target.
func atMost(name string, cur, target float64) Condition {
	c := Condition{Name: name, Current: cur, Target: target, Met: cur <= target, Progress: 1}
	if !c.Met {
		c.Progress = campaign.Clamp((100-cur)/(100-target), 0, 1)
	}
	return c
}

func below(name string, cur, target float64) Condition {
	c := Condition{Name: name, Current: cur, Target: target, Met: cur < target, Progress: 1}
	if !c.Met {
		c.Progress = ratio(target, cur)
	}
	return c
}

func flag(name string, ok bool) Condition {
	c := Condition{Name: name, Target: 1, Met: ok}
	if ok {
		c.Current, c.Progress = 1, 1
	}
	return c
}
