package domination

import (
	"fmt"
	"strconv"

	"github.com/roach88/eldritch/internal/campaign"
)

// TerrorType selects the scale of a terror campaign.
type TerrorType string

const (
	TerrorMassNightmares      TerrorType = "mass_nightmares"
	TerrorHaunting            TerrorType = "haunting"
	TerrorPublicManifestation TerrorType = "public_manifestation"
	TerrorMassacre            TerrorType = "massacre"
)

type terrorProfile struct {
	fear, sanity, veil float64
}

var terrorProfiles = map[TerrorType]terrorProfile{
	TerrorMassNightmares:      {fear: 0.5, sanity: 0.5, veil: 0.3},
	TerrorHaunting:            {fear: 1.0, sanity: 0.8, veil: 0.6},
	TerrorPublicManifestation: {fear: 1.5, sanity: 1.2, veil: 1.5},
	TerrorMassacre:            {fear: 3.0, sanity: 2.5, veil: 3.0},
}

// MediaResponse is how the world's press reacts to a terror campaign.
type MediaResponse string

const (
	MediaCoverup      MediaResponse = "coverup"
	MediaPanic        MediaResponse = "panic"
	MediaDenial       MediaResponse = "denial"
	MediaExploitation MediaResponse = "exploitation"
)

var mediaVeilScale = map[MediaResponse]float64{
	MediaCoverup:      0.5,
	MediaPanic:        1.5,
	MediaDenial:       0.7,
	MediaExploitation: 1.2,
}

// ClassifyMedia derives the media response. Checks run in order: coverup,
// panic, denial, exploitation.
func ClassifyMedia(veil, fear float64, region campaign.Region) MediaResponse {
	switch {
	case veil >= 70 && fear < 100:
		return MediaCoverup
	case fear >= 200 || veil < 30:
		return MediaPanic
	case region.HasTrait(campaign.TraitRationalist):
		return MediaDenial
	default:
		return MediaExploitation
	}
}

// TerrorOrder directs bound entities to terrorise a region.
type TerrorOrder struct {
	Type      TerrorType `json:"type" yaml:"type"`
	RegionID  string     `json:"region_id" yaml:"region_id"`
	EntityIDs []string   `json:"entity_ids" yaml:"entity_ids"`
}

// TerrorResult reports a terror campaign's yield.
type TerrorResult struct {
	campaign.Result
	Fear        float64       `json:"fear"`
	SanityDrain float64       `json:"sanity_drain"`
	VeilDamage  float64       `json:"veil_damage"`
	Media       MediaResponse `json:"media"`
}

// Terror runs a terror campaign. Only bound entities take part; an order
// naming none produces an inert result. The campaign harvests the drained
// sanity as sanity fragments.
func Terror(st *campaign.State, o TerrorOrder) TerrorResult {
	p, ok := terrorProfiles[o.Type]
	if !ok {
		return TerrorResult{Result: campaign.Inert("unknown terror type %q", o.Type)}
	}
	region, ok := st.Region(o.RegionID)
	if !ok {
		return TerrorResult{Result: campaign.Inert("unknown region %q", o.RegionID)}
	}

	var used []campaign.Entity
	for _, id := range uniqueIDs(o.EntityIDs) {
		if e, ok := st.Entity(id); ok && e.Bound() {
			used = append(used, e)
		}
	}
	if len(used) == 0 {
		return TerrorResult{Result: campaign.Inert("no bound entities available for terror in %s", region.Name)}
	}

	total := 0.0
	for _, e := range used {
		total += e.TerrorRadius * e.Power
	}
	fear := total * 0.5 * p.fear

	domination := st.Doctrine() == campaign.DoctrineDomination
	sanity := fear * 0.1 * p.sanity
	if region.HasTrait(campaign.TraitSuperstitious) {
		sanity *= 1.5
	}
	if domination {
		sanity *= 1.2
	}

	veil := st.Veil().Integrity
	media := ClassifyMedia(veil, fear, region)
	veilDamage := fear * 0.05 * p.veil * mediaVeilScale[media]
	if domination {
		veilDamage *= 0.8
	}

	out := TerrorResult{Fear: fear, SanityDrain: sanity, VeilDamage: veilDamage, Media: media}
	out.Success = true
	for _, e := range used {
		out.Change(campaign.EntityTask(e.ID, campaign.TaskTerror, region.ID, "terror"))
	}
	out.Change(
		campaign.SanityDrain(region.ID, sanity, "terror"),
		campaign.VeilDamage(veilDamage, "terror"),
		campaign.SanityFragments(sanity, "terror"),
		campaign.InvestigationHeat(region.ID, fear*0.02, "terror"),
	)
	if media == MediaPanic {
		out.Change(campaign.GlobalUnityGain(2, "terror"))
	}

	turn := st.Turn()
	imp := campaign.ImportanceMedium
	if o.Type == TerrorMassacre || media == MediaPanic {
		imp = campaign.ImportanceHigh
	}
	out.Message = fmt.Sprintf("%s in %s generated %.0f fear; the press answered with %s", o.Type, region.Name, fear, media)
	out.Emit(event(turn, "terror_campaign", imp, out.Message).
		With("region", region.ID).
		With("media", string(media)).
		With("fear", strconv.FormatFloat(fear, 'f', 1, 64)))
	return out
}
