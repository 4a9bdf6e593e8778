package domination

import (
	"fmt"
	"strconv"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
)

// Component is a ritual ingredient.
type Component string

const (
	ComponentBlackCandles     Component = "black_candles"
	ComponentBloodOffering    Component = "blood_offering"
	ComponentElderSign        Component = "elder_sign"
	ComponentSilverDagger     Component = "silver_dagger"
	ComponentNecronomiconPage Component = "necronomicon_page"
	ComponentStarStone        Component = "star_stone"
)

type componentBonus struct {
	success float64
	control float64
}

var components = map[Component]componentBonus{
	ComponentBlackCandles:     {success: 5, control: 0},
	ComponentBloodOffering:    {success: 10, control: 5},
	ComponentElderSign:        {success: 0, control: 20},
	ComponentSilverDagger:     {success: 5, control: 10},
	ComponentNecronomiconPage: {success: 15, control: 10},
	ComponentStarStone:        {success: 10, control: 15},
}

// Valid reports whether c is a known component.
func (c Component) Valid() bool {
	_, ok := components[c]
	return ok
}

var siteBonus = map[campaign.SiteType]float64{
	campaign.SiteShrine:  0,
	campaign.SiteTemple:  10,
	campaign.SiteNexus:   20,
	campaign.SiteGateway: 30,
}

const (
	minChance = 5.0
	maxChance = 95.0

	affinityBonus   = 15.0
	doctrineBonus   = 20.0
	rushedPenalty   = 30.0
	wardsBonus      = 10.0
	trueNameBinding = 40.0
	councilBinding  = 5.0
	wardsBinding    = 15.0
	minBinding      = 10.0
)

// Attempt describes a summoning ritual.
type Attempt struct {
	Tier       campaign.Tier `json:"tier" yaml:"tier"`
	SiteID     string        `json:"site_id" yaml:"site_id"`
	Cultists   int           `json:"cultists" yaml:"cultists"`
	Components []Component   `json:"components,omitempty" yaml:"components,omitempty"`
	TrueName   string        `json:"true_name,omitempty" yaml:"true_name,omitempty"`
	Rushed     bool          `json:"rushed,omitempty" yaml:"rushed,omitempty"`
	Name       string        `json:"name,omitempty" yaml:"name,omitempty"`
}

// SummonResult is the outcome of a ritual.
type SummonResult struct {
	campaign.Result
	Chance   float64          `json:"chance"`
	Entity   *campaign.Entity `json:"entity,omitempty"`
	Backlash *Backlash        `json:"backlash,omitempty"`
}

// AlignmentModifier returns the cosmic bonus or penalty for rituals this
// turn. Lunar phase and celestial events stack.
func AlignmentModifier(a campaign.Alignment) float64 {
	mod := 0.0
	switch a.LunarPhase {
	case campaign.LunarFull:
		mod += 10
	case campaign.LunarNew:
		mod -= 5
	}
	if a.Has(campaign.CelestialEclipse) {
		mod += 15
	}
	if a.Has(campaign.CelestialConjunction) {
		mod += 10
	}
	if a.StarsRight() {
		mod += 20
	}
	return mod
}

// CultistBonus rewards staffing a ritual: ten points per full complement of
// required cultists, at most twenty.
func CultistBonus(assigned, required int) float64 {
	if required <= 0 || assigned <= 0 {
		return 0
	}
	return min(20, float64(assigned)/float64(required)*10)
}

// SummonChance returns the clamped success chance of an attempt at site.
func SummonChance(st *campaign.State, a Attempt, site campaign.RitualSite) float64 {
	tpl, _ := campaign.Template(a.Tier)

	chance := 50 + siteBonus[site.Type]
	if tpl.HasAffinity(site.Biome) {
		chance += affinityBonus
	}
	chance += CultistBonus(a.Cultists, tpl.RequiredCultists)
	for _, c := range a.Components {
		chance += components[c].success
	}
	chance += AlignmentModifier(st.Alignment())
	if st.Doctrine() == campaign.DoctrineDomination {
		chance += doctrineBonus
	}
	if a.Rushed {
		chance -= rushedPenalty
	}
	if site.Wards {
		chance += wardsBonus
	}
	return campaign.Clamp(chance, minChance, maxChance)
}

// BindingStrength returns the initial binding of a freshly summoned entity.
// It is independent of the success roll.
func BindingStrength(st *campaign.State, tier campaign.Tier, trueName bool, comps []Component, wards bool) float64 {
	tpl, _ := campaign.Template(tier)

	binding := 100 - tpl.ControlDifficulty
	if trueName {
		binding += trueNameBinding
	}
	for _, c := range comps {
		binding += components[c].control
	}
	binding += councilBinding * float64(st.Council().AlignedWith(campaign.DoctrineDomination))
	if wards {
		binding += wardsBinding
	}
	return campaign.Clamp(binding, minBinding, 100)
}

// Summon resolves a ritual. Unknown tiers or sites, unknown components,
// too few cultists and unaffordable eldritch power produce an inert result.
// Otherwise the power and sanity costs are always paid; success spawns an
// entity and failure unleashes a backlash.
func Summon(st *campaign.State, a Attempt, rng *dice.Roller) SummonResult {
	tpl, ok := campaign.Template(a.Tier)
	if !ok {
		return SummonResult{Result: campaign.Inert("unknown tier %q", a.Tier)}
	}
	site, region, ok := st.Site(a.SiteID)
	if !ok {
		return SummonResult{Result: campaign.Inert("unknown ritual site %q", a.SiteID)}
	}
	for _, c := range a.Components {
		if !c.Valid() {
			return SummonResult{Result: campaign.Inert("unknown ritual component %q", c)}
		}
	}
	res := st.Resources()
	if a.Cultists <= 0 || a.Cultists > res.Cultists {
		return SummonResult{Result: campaign.Inert("cannot assign %d cultists (%d available)", a.Cultists, res.Cultists)}
	}
	if res.EldritchPower < tpl.PowerCost {
		return SummonResult{Result: campaign.Inert("summoning a %s needs %.0f eldritch power (%.0f available)",
			a.Tier, tpl.PowerCost, res.EldritchPower)}
	}

	turn := st.Turn()
	chance := SummonChance(st, a, site)
	out := SummonResult{Chance: chance}
	out.Change(
		campaign.SpendEldritchPower(tpl.PowerCost, "summon"),
		campaign.SpendSanityFragments(tpl.SanityCost, "summon"),
	)

	if !rng.Chance(chance) {
		bl := resolveBacklash(st, a, site, region, rng)
		out.Backlash = &bl
		out.Merge(bl.Effects)
		out.Message = fmt.Sprintf("the %s ritual at %s failed: %s (severity %d)", a.Tier, site.Name, bl.Type, bl.Severity)
		return out
	}

	binding := BindingStrength(st, a.Tier, a.TrueName != "", a.Components, site.Wards)
	name := a.Name
	if name == "" {
		name = fmt.Sprintf("%s %d", titleTier(a.Tier), st.TotalSummoned()+1)
	}
	e := campaign.NewEntity(rng.NewID("entity"), name, a.Tier, campaign.OriginRitual, binding, region.ID, site.ID, turn)
	if binding < campaign.RampageThreshold {
		e.Rampaging = true
	}
	out.Entity = &e
	out.Success = true
	out.Change(
		campaign.EntitySpawned(e, "summon"),
		campaign.VeilDamage(tpl.TerrorRadius, "summon"),
	)

	imp := campaign.ImportanceHigh
	switch {
	case e.Rampaging:
		out.Message = fmt.Sprintf("%s answered the call at %s but tore free of its bindings", name, site.Name)
		imp = campaign.ImportanceCritical
	case !e.Bound():
		out.Message = fmt.Sprintf("%s answered the call at %s, barely held (binding %.0f)", name, site.Name, binding)
	default:
		out.Message = fmt.Sprintf("%s answered the call at %s (binding %.0f)", name, site.Name, binding)
	}
	out.Emit(event(turn, "entity_summoned", imp, out.Message).
		With("entity", e.ID).
		With("tier", string(a.Tier)).
		With("binding", strconv.FormatFloat(binding, 'f', 0, 64)))
	return out
}
