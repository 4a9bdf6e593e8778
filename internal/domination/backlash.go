package domination

import (
	"fmt"
	"math"
	"strconv"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
)

// BacklashType is fixed per tier.
type BacklashType string

const (
	BacklashMinorCasualties           BacklashType = "minor_casualties"
	BacklashSiteDamage                BacklashType = "site_damage"
	BacklashVeilBreach                BacklashType = "veil_breach"
	BacklashUncontrolledManifestation BacklashType = "uncontrolled_manifestation"
	BacklashElderWrath                BacklashType = "elder_wrath"
)

var backlashByTier = map[campaign.Tier]BacklashType{
	campaign.TierServitor:    BacklashMinorCasualties,
	campaign.TierHorror:      BacklashSiteDamage,
	campaign.TierStarSpawn:   BacklashVeilBreach,
	campaign.TierAvatar:      BacklashUncontrolledManifestation,
	campaign.TierGreatOldOne: BacklashElderWrath,
}

// BacklashFor returns the backlash a failed ritual of the given tier causes.
func BacklashFor(t campaign.Tier) BacklashType {
	return backlashByTier[t]
}

const (
	spawnSeverity = 7
	tearSeverity  = 9
)

// Backlash is what a failed ritual costs.
type Backlash struct {
	Type         BacklashType     `json:"type"`
	Severity     int              `json:"severity"`
	CultistsLost int              `json:"cultists_lost"`
	SiteDamage   float64          `json:"site_damage"`
	VeilDamage   float64          `json:"veil_damage"`
	SanityDrain  float64          `json:"sanity_drain"`
	PowerLost    float64          `json:"power_lost"`
	Spawned      *campaign.Entity `json:"spawned,omitempty"`
	RealityTear  bool             `json:"reality_tear,omitempty"`

	campaign.Effects `json:"-"`
}

// backlashProfile scales each effect per point of severity.
type backlashProfile struct {
	casualties float64 // fraction of assigned cultists lost per severity point
	site       float64
	veil       float64
	madness    float64 // regional sanity drain per severity point
	powerDrain float64 // fraction of current eldritch power lost per severity point
}

var profiles = map[BacklashType]backlashProfile{
	BacklashMinorCasualties:           {casualties: 0.05},
	BacklashSiteDamage:                {casualties: 0.05, site: 8},
	BacklashVeilBreach:                {casualties: 0.05, site: 5, veil: 2, madness: 3},
	BacklashUncontrolledManifestation: {casualties: 0.1, site: 6, veil: 3, madness: 4},
	BacklashElderWrath:                {casualties: 0.1, site: 10, veil: 5, madness: 5, powerDrain: 0.05},
}

// resolveBacklash rolls severity and converts the tier's profile into
// concrete effects, bounded by what the cult actually has.
func resolveBacklash(st *campaign.State, a Attempt, site campaign.RitualSite, region campaign.Region, rng *dice.Roller) Backlash {
	typ := BacklashFor(a.Tier)
	p := profiles[typ]
	sev := rng.D10()
	s := float64(sev)
	res := st.Resources()

	bl := Backlash{Type: typ, Severity: sev}
	bl.CultistsLost = min(res.Cultists, max(1, int(math.Ceil(float64(a.Cultists)*p.casualties*s))))
	bl.SiteDamage = p.site * s
	bl.VeilDamage = p.veil * s
	bl.SanityDrain = p.madness * s
	bl.PowerLost = math.Floor(res.EldritchPower * p.powerDrain * s)

	bl.Change(
		campaign.CultistLoss(bl.CultistsLost, "backlash"),
		campaign.SiteDamage(site.ID, bl.SiteDamage, "backlash"),
		campaign.VeilDamage(bl.VeilDamage, "backlash"),
		campaign.SanityDrain(region.ID, bl.SanityDrain, "backlash"),
		campaign.SpendEldritchPower(bl.PowerLost, "backlash"),
	)

	turn := st.Turn()
	imp := campaign.ImportanceMedium
	if a.Tier.Rank() >= campaign.TierStarSpawn.Rank() {
		imp = campaign.ImportanceHigh
	}
	bl.Emit(event(turn, "ritual_backlash", imp,
		fmt.Sprintf("the ritual at %s collapsed into %s; %d cultists were lost", site.Name, typ, bl.CultistsLost)).
		With("severity", strconv.Itoa(sev)).
		With("site", site.ID))

	// Something else answers instead.
	if sev >= spawnSeverity && (typ == BacklashUncontrolledManifestation || typ == BacklashElderWrath) {
		tier := campaign.Tiers[a.Tier.Rank()-1]
		e := campaign.NewEntity(rng.NewID("entity"), "Uninvited "+titleTier(tier), tier,
			campaign.OriginBacklash, 0, region.ID, site.ID, turn)
		e.Rampaging = true
		bl.Spawned = &e
		bl.Change(campaign.EntitySpawned(e, "backlash"))
		bl.Emit(event(turn, "uncontrolled_spawn", campaign.ImportanceCritical,
			fmt.Sprintf("an uninvited %s slipped through at %s and is rampaging", tier, site.Name)).
			With("entity", e.ID))
	}

	if sev >= tearSeverity && typ == BacklashElderWrath {
		bl.RealityTear = true
		for _, r := range st.Regions() {
			bl.Change(campaign.SanityDrain(r.ID, s*2, "reality_tear"))
		}
		bl.Change(campaign.VeilDamage(10, "reality_tear"))
		bl.Emit(event(turn, "reality_tear", campaign.ImportanceCritical,
			"reality tore open; every region felt the wound"))
	}
	return bl
}
