package domination

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
)

// Stage is one step of an awakening chain. All thresholds must be met at
// once; there is no partial credit.
type Stage struct {
	Name            string
	EldritchPower   float64
	SanityFragments float64
	Cultists        int
	Biomes          []campaign.Biome
	StarsRight      bool
}

// AwakeningChain is the fixed stage sequence for one Great Old One.
type AwakeningChain struct {
	Name   string
	Title  string
	Stages []Stage
}

var chains = map[string]AwakeningChain{
	"cthulhu": {
		Name:  "cthulhu",
		Title: "Cthulhu",
		Stages: []Stage{
			{Name: "Dreams of R'lyeh", EldritchPower: 500, SanityFragments: 100, Cultists: 30,
				Biomes: []campaign.Biome{campaign.BiomeCoastal}},
			{Name: "The Sunken City Stirs", EldritchPower: 1500, SanityFragments: 300, Cultists: 60,
				Biomes: []campaign.Biome{campaign.BiomeOcean, campaign.BiomeCoastal}},
			{Name: "The Dreamer Turns", EldritchPower: 3000, SanityFragments: 600, Cultists: 100,
				Biomes: []campaign.Biome{campaign.BiomeOcean, campaign.BiomeCoastal, campaign.BiomeRuins}},
			{Name: "R'lyeh Rises", EldritchPower: 6000, SanityFragments: 1000, Cultists: 150,
				Biomes: []campaign.Biome{campaign.BiomeOcean, campaign.BiomeArctic}, StarsRight: true},
		},
	},
	"hastur": {
		Name:  "hastur",
		Title: "Hastur",
		Stages: []Stage{
			{Name: "The Yellow Sign", EldritchPower: 400, SanityFragments: 150, Cultists: 25,
				Biomes: []campaign.Biome{campaign.BiomeUrban}},
			{Name: "The King in Yellow", EldritchPower: 1200, SanityFragments: 400, Cultists: 50,
				Biomes: []campaign.Biome{campaign.BiomeUrban, campaign.BiomeRuins}},
			{Name: "Carcosa Reflected", EldritchPower: 2500, SanityFragments: 700, Cultists: 90,
				Biomes: []campaign.Biome{campaign.BiomeDesert, campaign.BiomeRuins}},
			{Name: "The Lake of Hali", EldritchPower: 5000, SanityFragments: 1200, Cultists: 140,
				Biomes: []campaign.Biome{campaign.BiomeDesert, campaign.BiomeMountain}, StarsRight: true},
		},
	},
	"shub_niggurath": {
		Name:  "shub_niggurath",
		Title: "Shub-Niggurath",
		Stages: []Stage{
			{Name: "The Black Goat's Wood", EldritchPower: 300, SanityFragments: 80, Cultists: 30,
				Biomes: []campaign.Biome{campaign.BiomeForest}},
			{Name: "The Thousand Young", EldritchPower: 1000, SanityFragments: 250, Cultists: 70,
				Biomes: []campaign.Biome{campaign.BiomeForest, campaign.BiomeSwamp}},
			{Name: "The Fertile Dark", EldritchPower: 2200, SanityFragments: 500, Cultists: 110,
				Biomes: []campaign.Biome{campaign.BiomeForest, campaign.BiomeSwamp, campaign.BiomePlains}},
			{Name: "Mother of a Thousand", EldritchPower: 4500, SanityFragments: 900, Cultists: 160,
				Biomes: []campaign.Biome{campaign.BiomeForest, campaign.BiomeSwamp}, StarsRight: true},
		},
	},
}

// Chain returns a named awakening chain.
func Chain(name string) (AwakeningChain, bool) {
	c, ok := chains[name]
	return c, ok
}

// ChainNames lists the known chains in sorted order.
func ChainNames() []string {
	names := make([]string, 0, len(chains))
	for n := range chains {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// AwakenOrder advances one chain by one stage using the given ritual sites.
type AwakenOrder struct {
	Chain   string   `json:"chain" yaml:"chain"`
	SiteIDs []string `json:"site_ids" yaml:"site_ids"`
}

// Shortfalls lists every unmet requirement of a stage. An empty list means
// the stage can be completed.
func Shortfalls(st *campaign.State, stage Stage, siteIDs []string) []string {
	var missing []string
	res := st.Resources()
	if res.EldritchPower < stage.EldritchPower {
		missing = append(missing, fmt.Sprintf("eldritch power %.0f/%.0f", res.EldritchPower, stage.EldritchPower))
	}
	if res.SanityFragments < stage.SanityFragments {
		missing = append(missing, fmt.Sprintf("sanity fragments %.0f/%.0f", res.SanityFragments, stage.SanityFragments))
	}
	if res.Cultists < stage.Cultists {
		missing = append(missing, fmt.Sprintf("cultists %d/%d", res.Cultists, stage.Cultists))
	}
	have := map[campaign.Biome]bool{}
	for _, id := range siteIDs {
		if site, _, ok := st.Site(id); ok {
			have[site.Biome] = true
		}
	}
	for _, b := range stage.Biomes {
		if !have[b] {
			missing = append(missing, "a "+string(b)+" site")
		}
	}
	if stage.StarsRight && !st.Alignment().StarsRight() {
		missing = append(missing, "the stars to be right")
	}
	return missing
}

// Awaken attempts the next stage of a chain. The stage either completes in
// full, spending its power and fragments, or nothing happens. Completing the
// final stage brings the Great Old One into the world, bound by the cult's
// knowledge of its true name.
func Awaken(st *campaign.State, ds *State, o AwakenOrder, rng *dice.Roller) campaign.Result {
	chain, ok := Chain(o.Chain)
	if !ok {
		return campaign.Inert("unknown awakening %q", o.Chain)
	}
	done := ds.Awakenings[chain.Name]
	if done >= len(chain.Stages) {
		return campaign.Inert("%s is already awake", chain.Title)
	}
	stage := chain.Stages[done]
	if missing := Shortfalls(st, stage, o.SiteIDs); len(missing) > 0 {
		return campaign.Inert("%s: %q needs %s", chain.Title, stage.Name, strings.Join(missing, ", "))
	}

	turn := st.Turn()
	var out campaign.Result
	out.Success = true
	out.Change(
		campaign.SpendEldritchPower(stage.EldritchPower, "awakening"),
		campaign.SpendSanityFragments(stage.SanityFragments, "awakening"),
		campaign.VeilDamage(float64(5*(done+1)), "awakening"),
	)
	if ds.Awakenings == nil {
		ds.Awakenings = map[string]int{}
	}
	ds.Awakenings[chain.Name] = done + 1

	if done+1 < len(chain.Stages) {
		out.Message = fmt.Sprintf("%s stirs: %s (%d/%d)", chain.Title, stage.Name, done+1, len(chain.Stages))
		out.Emit(event(turn, "awakening_stage", campaign.ImportanceHigh, out.Message).
			With("chain", chain.Name).
			With("stage", strconv.Itoa(done+1)))
		return out
	}

	regionID, siteID := "", ""
	for _, id := range o.SiteIDs {
		if site, region, ok := st.Site(id); ok {
			regionID, siteID = region.ID, site.ID
			break
		}
	}
	binding := BindingStrength(st, campaign.TierGreatOldOne, true, nil, false)
	e := campaign.NewEntity(rng.NewID("entity"), chain.Title, campaign.TierGreatOldOne,
		campaign.OriginAwakening, binding, regionID, siteID, turn)
	out.Change(campaign.EntitySpawned(e, "awakening"))
	out.Message = fmt.Sprintf("%s has awakened", chain.Title)
	out.Emit(event(turn, "great_old_one_awakened", campaign.ImportanceCritical, out.Message).
		With("chain", chain.Name).
		With("entity", e.ID))
	return out
}
