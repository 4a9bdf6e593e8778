package campaign

// Trait is a cultural trait of a region.
type Trait string

const (
	TraitSuperstitious Trait = "superstitious"
	TraitRationalist   Trait = "rationalist"
	TraitFaithful      Trait = "faithful"
	TraitUrban         Trait = "urban"
	TraitIsolated      Trait = "isolated"
	TraitIntellectual  Trait = "intellectual"
	TraitBohemian      Trait = "bohemian"
	TraitSpiritual     Trait = "spiritual"
)

// Biome is the terrain of a ritual site.
type Biome string

const (
	BiomeSwamp    Biome = "swamp"
	BiomeForest   Biome = "forest"
	BiomeRuins    Biome = "ruins"
	BiomeOcean    Biome = "ocean"
	BiomeCoastal  Biome = "coastal"
	BiomeDesert   Biome = "desert"
	BiomeMountain Biome = "mountain"
	BiomeArctic   Biome = "arctic"
	BiomeUrban    Biome = "urban"
	BiomePlains   Biome = "plains"
)

// SiteType is the kind of ritual site. Larger sites grant larger summoning
// bonuses.
type SiteType string

const (
	SiteShrine  SiteType = "shrine"
	SiteTemple  SiteType = "temple"
	SiteNexus   SiteType = "nexus"
	SiteGateway SiteType = "gateway"
)

// Valid reports whether t is a known site type.
func (t SiteType) Valid() bool {
	switch t {
	case SiteShrine, SiteTemple, SiteNexus, SiteGateway:
		return true
	}
	return false
}

// RitualSite is a place where rituals can be performed.
type RitualSite struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Type      SiteType `json:"type" yaml:"type"`
	Biome     Biome    `json:"biome" yaml:"biome"`
	Wards     bool     `json:"wards,omitempty" yaml:"wards,omitempty"`
	Integrity float64  `json:"integrity" yaml:"integrity"`
}

// Region is one territory of the campaign map.
type Region struct {
	ID                string       `json:"id" yaml:"id"`
	Name              string       `json:"name" yaml:"name"`
	Corruption        float64      `json:"corruption" yaml:"corruption"`
	Sanity            float64      `json:"sanity" yaml:"sanity"`
	InvestigationHeat float64      `json:"investigation_heat" yaml:"investigation_heat"`
	Population        float64      `json:"population" yaml:"population"`
	Traits            []Trait      `json:"traits,omitempty" yaml:"traits,omitempty"`
	Sites             []RitualSite `json:"sites,omitempty" yaml:"sites,omitempty"`
}

// HasTrait reports whether the region carries trait t.
func (r Region) HasTrait(t Trait) bool {
	for _, have := range r.Traits {
		if have == t {
			return true
		}
	}
	return false
}

// Site returns the ritual site with the given id.
func (r Region) Site(id string) (RitualSite, bool) {
	for _, s := range r.Sites {
		if s.ID == id {
			return s, true
		}
	}
	return RitualSite{}, false
}

func (r Region) clone() Region {
	out := r
	out.Traits = append([]Trait(nil), r.Traits...)
	out.Sites = append([]RitualSite(nil), r.Sites...)
	return out
}
