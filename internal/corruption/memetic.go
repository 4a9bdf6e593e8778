package corruption

import (
	"fmt"
	"strconv"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
)

// MemeType is the vehicle of a memetic agent.
type MemeType string

const (
	MemeIdeology   MemeType = "ideology"
	MemeConspiracy MemeType = "conspiracy"
	MemeArt        MemeType = "art"
	MemeReligious  MemeType = "religious"
	MemeViralMedia MemeType = "viral_media"
)

type memeProfile struct {
	spreadRate float64
	resistance float64
	cost       float64
	affinity   campaign.Trait
}

var memeProfiles = map[MemeType]memeProfile{
	MemeIdeology:   {spreadRate: 15, resistance: 50, cost: 60, affinity: campaign.TraitIntellectual},
	MemeConspiracy: {spreadRate: 25, resistance: 30, cost: 40, affinity: campaign.TraitSuperstitious},
	MemeArt:        {spreadRate: 12, resistance: 40, cost: 30, affinity: campaign.TraitBohemian},
	MemeReligious:  {spreadRate: 18, resistance: 60, cost: 70, affinity: campaign.TraitFaithful},
	MemeViralMedia: {spreadRate: 35, resistance: 20, cost: 50, affinity: campaign.TraitUrban},
}

const (
	seedReach         = 100.0
	mediaNodeBoost    = 10.0
	academiaNodeBoost = 5.0
	counterSuccessCut = 0.7
	counterFailureCut = 0.9
	counterWinChance  = 50.0
)

// MemeticAgent is an idea released into a region.
type MemeticAgent struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Type       MemeType `json:"type" yaml:"type"`
	RegionID   string   `json:"region_id" yaml:"region_id"`
	Reach      float64  `json:"reach" yaml:"reach"`
	Virality   float64  `json:"virality" yaml:"virality"`
	Resistance float64  `json:"resistance" yaml:"resistance"`
}

// Penetration is reach as a fraction of the population cap.
func (m MemeticAgent) Penetration(popCap float64) float64 {
	if popCap <= 0 {
		return 1
	}
	return campaign.Clamp(m.Reach/popCap, 0, 1)
}

// MemeOrder releases a new memetic agent.
type MemeOrder struct {
	Name     string   `json:"name" yaml:"name"`
	Type     MemeType `json:"type" yaml:"type"`
	RegionID string   `json:"region_id" yaml:"region_id"`
}

// Launch releases a memetic agent. It costs eldritch power by type and
// always succeeds when affordable.
func Launch(st *campaign.State, ds *State, o MemeOrder, rng *dice.Roller) campaign.Result {
	p, ok := memeProfiles[o.Type]
	if !ok {
		return campaign.Inert("unknown meme type %q", o.Type)
	}
	region, ok := st.Region(o.RegionID)
	if !ok {
		return campaign.Inert("unknown region %q", o.RegionID)
	}
	if st.Resources().EldritchPower < p.cost {
		return campaign.Inert("a %s meme needs %.0f eldritch power", o.Type, p.cost)
	}
	name := o.Name
	if name == "" {
		name = fmt.Sprintf("%s #%d", o.Type, len(ds.Memes)+1)
	}
	agent := MemeticAgent{
		ID:         rng.NewID("meme"),
		Name:       name,
		Type:       o.Type,
		RegionID:   region.ID,
		Reach:      min(seedReach, region.Population),
		Virality:   p.spreadRate,
		Resistance: p.resistance,
	}
	ds.Memes = append(ds.Memes, agent)

	var out campaign.Result
	out.Success = true
	out.Change(campaign.SpendEldritchPower(p.cost, "meme"))
	out.Message = fmt.Sprintf("%q was released in %s", name, region.Name)
	out.Emit(event(st.Turn(), "meme_released", campaign.ImportanceLow, out.Message).With("meme", agent.ID))
	return out
}

// SpreadRate returns an agent's effective spread rate in its region, after
// infiltration boosts and regional traits.
func SpreadRate(ds *State, region campaign.Region, m MemeticAgent) float64 {
	rate := m.Virality
	for _, n := range ds.NodesIn(region.ID) {
		switch n.Institution {
		case InstitutionMedia:
			rate += mediaNodeBoost
		case InstitutionAcademia:
			rate += academiaNodeBoost
		}
	}
	if region.HasTrait(campaign.TraitUrban) {
		rate *= 1.3
	}
	if region.HasTrait(campaign.TraitIsolated) {
		rate *= 0.6
	}
	if p, ok := memeProfiles[m.Type]; ok && region.HasTrait(p.affinity) {
		rate *= 1.5
	}
	return rate
}

// NextReach advances an epidemic by one turn:
// min(cap, reach*growth + 100) with growth = 1 + rate/100*(1-penetration).
func NextReach(reach, popCap, rate float64) float64 {
	pen := 1.0
	if popCap > 0 {
		pen = campaign.Clamp(reach/popCap, 0, 1)
	}
	growth := 1 + (rate/100)*(1-pen)
	return min(popCap, reach*growth+seedReach)
}

// Spread advances every agent one turn and rolls the world's counter-memes.
// Counter-memes trigger with chance heat/2 - resistance/2; once triggered
// they win half the time, cutting virality by 30%, and otherwise still cut
// it by 10%.
func Spread(st *campaign.State, ds *State, rng *dice.Roller) (campaign.Effects, float64) {
	var fx campaign.Effects
	turn := st.Turn()
	points := 0.0

	for i := range ds.Memes {
		m := &ds.Memes[i]
		region, ok := st.Region(m.RegionID)
		if !ok {
			continue
		}
		popCap := region.Population
		before := m.Penetration(popCap)
		m.Reach = NextReach(m.Reach, popCap, SpreadRate(ds, region, *m))
		gained := m.Penetration(popCap) - before

		fx.Change(
			campaign.CorruptionGain(region.ID, gained*20, "meme"),
			campaign.CorruptionIndex(gained*10, "meme"),
		)
		points += gained * 50

		if rng.Chance(region.InvestigationHeat/2 - m.Resistance/2) {
			cut := counterFailureCut
			outcome := "blunted"
			if rng.Chance(counterWinChance) {
				cut = counterSuccessCut
				outcome = "crippled"
			}
			m.Virality *= cut
			fx.Emit(event(turn, "counter_meme", campaign.ImportanceLow,
				fmt.Sprintf("a counter-campaign in %s %s %q", region.Name, outcome, m.Name)).
				With("meme", m.ID).
				With("virality", strconv.FormatFloat(m.Virality, 'f', 1, 64)))
		}
	}
	return fx, points
}
