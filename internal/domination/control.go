package domination

import (
	"fmt"
	"strconv"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
)

const (
	baseDecay          = 2.0
	councilDecayRelief = 0.5
	lowVeilDecay       = 3.0
	lowVeil            = 30.0
)

// BindingDelta returns this turn's binding change for a non-rampaging
// entity. It is never positive: council presence slows decay but cannot
// reverse it.
func BindingDelta(st *campaign.State) float64 {
	delta := -baseDecay
	if st.Doctrine() == campaign.DoctrineDomination {
		delta += councilDecayRelief * float64(st.Council().AlignedWith(campaign.DoctrineDomination))
	}
	if st.Veil().Integrity < lowVeil {
		delta -= lowVeilDecay
	}
	return min(0, delta)
}

// MaintainControl decays every non-rampaging entity's binding.
//
// Falling below the rampage threshold is terminal. Falling below the bound
// threshold triggers a control roll against the entity's difficulty: failure
// is terminal too, success leaves the entity dormant. Neither path ever
// raises binding strength.
func MaintainControl(st *campaign.State, rng *dice.Roller) campaign.Effects {
	var fx campaign.Effects
	turn := st.Turn()
	delta := BindingDelta(st)

	for _, e := range st.Entities() {
		if e.Rampaging {
			continue
		}
		next := campaign.Clamp(e.BindingStrength+delta, 0, 100)
		fx.Change(campaign.EntityBindingLoss(e.ID, -delta, "control"))

		switch {
		case next < campaign.RampageThreshold:
			fx.Change(campaign.EntityRampage(e.ID, "control"))
			fx.Emit(event(turn, "entity_rampage", campaign.ImportanceCritical,
				fmt.Sprintf("%s broke its bindings (%.1f) and is rampaging", e.Name, next)).
				With("entity", e.ID))
		case next < campaign.BoundThreshold:
			if rng.Percent() < e.ControlDifficulty {
				fx.Change(campaign.EntityRampage(e.ID, "control"))
				fx.Emit(event(turn, "entity_rampage", campaign.ImportanceCritical,
					fmt.Sprintf("%s slipped its weakened bindings and is rampaging", e.Name)).
					With("entity", e.ID))
				continue
			}
			if e.Bound() {
				fx.Emit(event(turn, "entity_dormant", campaign.ImportanceHigh,
					fmt.Sprintf("%s no longer obeys but lies dormant (binding %.1f)", e.Name, next)).
					With("entity", e.ID))
			}
		}
	}
	return fx
}

// RampageEffects applies one turn of damage from every rampaging entity to
// its region.
func RampageEffects(st *campaign.State) campaign.Effects {
	var fx campaign.Effects
	for _, e := range st.Entities() {
		if !e.Rampaging {
			continue
		}
		fx.Change(
			campaign.SanityDrain(e.RegionID, e.Power*0.1, "rampage"),
			campaign.VeilDamage(e.TerrorRadius*0.5, "rampage"),
			campaign.InvestigationHeat(e.RegionID, e.TerrorRadius, "rampage"),
		)
	}
	return fx
}

// RebindRequest is an explicit attempt to restore control of an entity.
type RebindRequest struct {
	EntityID string `json:"entity_id" yaml:"entity_id"`
	Cultists int    `json:"cultists" yaml:"cultists"`
	TrueName string `json:"true_name,omitempty" yaml:"true_name,omitempty"`
}

// RebindChance returns the clamped chance of a rebinding attempt.
func RebindChance(st *campaign.State, e campaign.Entity, req RebindRequest) float64 {
	tpl, _ := campaign.Template(e.Tier)
	chance := 50 - e.ControlDifficulty/2 + CultistBonus(req.Cultists, tpl.RequiredCultists)
	if req.TrueName != "" {
		chance += 20
	}
	if st.Doctrine() == campaign.DoctrineDomination {
		chance += 15
	}
	return campaign.Clamp(chance, minChance, maxChance)
}

// Rebind attempts to restore an unbound entity. The attempt costs half the
// tier's summoning power whether or not it succeeds; success resets binding
// to the summoning formula, bounded to [10,100].
func Rebind(st *campaign.State, req RebindRequest, rng *dice.Roller) campaign.Result {
	e, ok := st.Entity(req.EntityID)
	if !ok {
		return campaign.Inert("unknown entity %q", req.EntityID)
	}
	if e.Bound() {
		return campaign.Inert("%s is already bound", e.Name)
	}
	res := st.Resources()
	if req.Cultists <= 0 || req.Cultists > res.Cultists {
		return campaign.Inert("cannot assign %d cultists (%d available)", req.Cultists, res.Cultists)
	}
	tpl, _ := campaign.Template(e.Tier)
	cost := tpl.PowerCost / 2
	if res.EldritchPower < cost {
		return campaign.Inert("rebinding %s needs %.0f eldritch power", e.Name, cost)
	}

	turn := st.Turn()
	chance := RebindChance(st, e, req)
	var out campaign.Result
	out.Change(campaign.SpendEldritchPower(cost, "rebind"))

	if !rng.Chance(chance) {
		lost := max(1, req.Cultists/4)
		out.Change(campaign.CultistLoss(lost, "rebind"))
		out.Message = fmt.Sprintf("the rebinding of %s failed; %d cultists were lost", e.Name, lost)
		out.Emit(event(turn, "rebind_failed", campaign.ImportanceMedium, out.Message).With("entity", e.ID))
		return out
	}

	wards := false
	if site, _, ok := st.Site(e.SiteID); ok {
		wards = site.Wards
	}
	strength := BindingStrength(st, e.Tier, req.TrueName != "", nil, wards)
	out.Success = true
	out.Change(campaign.EntityRebound(e.ID, strength, "rebind"))
	out.Message = fmt.Sprintf("%s was bound anew (binding %.0f)", e.Name, strength)
	out.Emit(event(turn, "entity_rebound", campaign.ImportanceHigh, out.Message).
		With("entity", e.ID).
		With("binding", strconv.FormatFloat(strength, 'f', 0, 64)))
	return out
}

// Banish sends an entity back. Bound entities go quietly and refund a
// quarter of their summoning power; unbound ones resist.
func Banish(st *campaign.State, entityID string, rng *dice.Roller) campaign.Result {
	e, ok := st.Entity(entityID)
	if !ok {
		return campaign.Inert("unknown entity %q", entityID)
	}
	turn := st.Turn()
	tpl, _ := campaign.Template(e.Tier)
	var out campaign.Result

	if e.Bound() {
		out.Success = true
		out.Change(
			campaign.EntityBanished(e.ID, "banish"),
			campaign.EldritchPower(tpl.PowerCost/4, "banish"),
		)
		out.Message = fmt.Sprintf("%s was dismissed", e.Name)
		out.Emit(event(turn, "entity_banished", campaign.ImportanceMedium, out.Message).With("entity", e.ID))
		return out
	}

	chance := campaign.Clamp(60-e.ControlDifficulty/2, minChance, maxChance)
	if !rng.Chance(chance) {
		out.Change(
			campaign.SanityDrain(e.RegionID, 5, "banish"),
			campaign.CultistLoss(2, "banish"),
		)
		out.Message = fmt.Sprintf("%s resisted banishment", e.Name)
		out.Emit(event(turn, "banish_failed", campaign.ImportanceMedium, out.Message).With("entity", e.ID))
		return out
	}
	out.Success = true
	out.Change(campaign.EntityBanished(e.ID, "banish"))
	out.Message = fmt.Sprintf("%s was driven back across the veil", e.Name)
	out.Emit(event(turn, "entity_banished", campaign.ImportanceHigh, out.Message).With("entity", e.ID))
	return out
}
