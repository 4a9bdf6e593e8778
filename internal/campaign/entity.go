package campaign

// Tier is the power class of a summoned entity. Tiers are strictly ordered:
// each tier is more powerful, more expensive and harder to control than the
// one before it.
type Tier string

const (
	TierServitor    Tier = "servitor"
	TierHorror      Tier = "horror"
	TierStarSpawn   Tier = "star_spawn"
	TierAvatar      Tier = "avatar"
	TierGreatOldOne Tier = "great_old_one"
)

// Tiers lists every tier from weakest to strongest.
var Tiers = []Tier{TierServitor, TierHorror, TierStarSpawn, TierAvatar, TierGreatOldOne}

// Rank returns the tier's position in Tiers, or -1 for an unknown tier.
func (t Tier) Rank() int {
	for i, tier := range Tiers {
		if tier == t {
			return i
		}
	}
	return -1
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	return t.Rank() >= 0
}

// TierTemplate fixes the creation-time stats of a tier.
type TierTemplate struct {
	Tier              Tier
	Power             float64
	TerrorRadius      float64
	ControlDifficulty float64
	RequiredCultists  int
	PowerCost         float64
	SanityCost        float64
	Biomes            []Biome
}

var tierTemplates = map[Tier]TierTemplate{
	TierServitor: {
		Tier: TierServitor, Power: 10, TerrorRadius: 1, ControlDifficulty: 20,
		RequiredCultists: 5, PowerCost: 50, SanityCost: 5,
		Biomes: []Biome{BiomeSwamp, BiomeForest},
	},
	TierHorror: {
		Tier: TierHorror, Power: 30, TerrorRadius: 2, ControlDifficulty: 40,
		RequiredCultists: 10, PowerCost: 150, SanityCost: 15,
		Biomes: []Biome{BiomeForest, BiomeRuins},
	},
	TierStarSpawn: {
		Tier: TierStarSpawn, Power: 60, TerrorRadius: 3, ControlDifficulty: 60,
		RequiredCultists: 20, PowerCost: 400, SanityCost: 40,
		Biomes: []Biome{BiomeOcean, BiomeCoastal},
	},
	TierAvatar: {
		Tier: TierAvatar, Power: 100, TerrorRadius: 4, ControlDifficulty: 75,
		RequiredCultists: 35, PowerCost: 800, SanityCost: 80,
		Biomes: []Biome{BiomeDesert, BiomeMountain},
	},
	TierGreatOldOne: {
		Tier: TierGreatOldOne, Power: 200, TerrorRadius: 5, ControlDifficulty: 90,
		RequiredCultists: 50, PowerCost: 2000, SanityCost: 200,
		Biomes: []Biome{BiomeOcean, BiomeArctic},
	},
}

// Template returns the creation template for a tier.
func Template(t Tier) (TierTemplate, bool) {
	tpl, ok := tierTemplates[t]
	if !ok {
		return TierTemplate{}, false
	}
	tpl.Biomes = append([]Biome(nil), tpl.Biomes...)
	return tpl, true
}

// HasAffinity reports whether biome b is one of the tier's affinity biomes.
func (t TierTemplate) HasAffinity(b Biome) bool {
	for _, have := range t.Biomes {
		if have == b {
			return true
		}
	}
	return false
}

// Binding thresholds.
const (
	// BoundThreshold is the binding strength at or above which an entity
	// obeys its summoners.
	BoundThreshold = 50.0

	// RampageThreshold is the binding strength below which an unbound
	// entity breaks loose for good.
	RampageThreshold = 30.0
)

// Task is what an entity is currently doing.
type Task string

const (
	TaskIdle     Task = "idle"
	TaskGuarding Task = "guarding"
	TaskTerror   Task = "terror"
	TaskHunting  Task = "hunting"
	TaskRampage  Task = "rampage"
)

// Origin records how an entity entered the world.
type Origin string

const (
	OriginRitual    Origin = "ritual"
	OriginBacklash  Origin = "backlash"
	OriginAwakening Origin = "awakening"
)

// Entity is a summoned being.
//
// Bound is derived rather than stored: an entity obeys only while it is not
// rampaging and its binding strength is at least BoundThreshold. Binding
// strength only rises through the entity_rebound change, which is emitted
// solely by an explicit, rolled rebinding attempt, so an unbound entity can
// never drift back into control on its own.
type Entity struct {
	ID                string  `json:"id" yaml:"id"`
	Name              string  `json:"name" yaml:"name"`
	Tier              Tier    `json:"tier" yaml:"tier"`
	Origin            Origin  `json:"origin" yaml:"origin"`
	BindingStrength   float64 `json:"binding_strength" yaml:"binding_strength"`
	Rampaging         bool    `json:"rampaging,omitempty" yaml:"rampaging,omitempty"`
	Power             float64 `json:"power" yaml:"power"`
	TerrorRadius      float64 `json:"terror_radius" yaml:"terror_radius"`
	ControlDifficulty float64 `json:"control_difficulty" yaml:"control_difficulty"`
	Task              Task    `json:"task" yaml:"task"`
	RegionID          string  `json:"region_id" yaml:"region_id"`
	SiteID            string  `json:"site_id,omitempty" yaml:"site_id,omitempty"`
	SummonedTurn      int     `json:"summoned_turn" yaml:"summoned_turn"`
}

// Bound reports whether the entity is under control.
func (e Entity) Bound() bool {
	return !e.Rampaging && e.BindingStrength >= BoundThreshold
}

// NewEntity builds an entity from its tier template.
func NewEntity(id, name string, tier Tier, origin Origin, binding float64, regionID, siteID string, turn int) Entity {
	tpl, _ := Template(tier)
	return Entity{
		ID:                id,
		Name:              name,
		Tier:              tier,
		Origin:            origin,
		BindingStrength:   Clamp(binding, 0, 100),
		Power:             tpl.Power,
		TerrorRadius:      tpl.TerrorRadius,
		ControlDifficulty: tpl.ControlDifficulty,
		Task:              TaskIdle,
		RegionID:          regionID,
		SiteID:            siteID,
		SummonedTurn:      turn,
	}
}
