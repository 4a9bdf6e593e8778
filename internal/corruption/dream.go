package corruption

import (
	"fmt"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
)

// DreamType is a dream ritual, ordered by difficulty.
type DreamType string

const (
	DreamWhisper   DreamType = "whisper"
	DreamNightmare DreamType = "nightmare"
	DreamVision    DreamType = "vision"
	DreamShared    DreamType = "shared_dream"
	DreamInvasion  DreamType = "dream_invasion"
)

var dreamDifficulty = map[DreamType]float64{
	DreamWhisper:   10,
	DreamNightmare: 25,
	DreamVision:    35,
	DreamShared:    50,
	DreamInvasion:  65,
}

// DreamOrder sends dreams into a region.
type DreamOrder struct {
	Type     DreamType `json:"type" yaml:"type"`
	RegionID string    `json:"region_id" yaml:"region_id"`
	Psychics int       `json:"psychics" yaml:"psychics"`
	Power    float64   `json:"power" yaml:"power"`
}

// DreamChance returns the clamped chance of a dream ritual.
func DreamChance(st *campaign.State, o DreamOrder) float64 {
	chance := 40 + min(20, float64(o.Psychics)*4) + min(20, o.Power/10) - dreamDifficulty[o.Type]
	if st.Doctrine() == campaign.DoctrineCorruption {
		chance += 20
	}
	return clampChance(chance)
}

// Dream performs a dream ritual. The power invested is spent either way;
// failure leaves suspicion proportional to the ritual's difficulty.
func Dream(st *campaign.State, ds *State, o DreamOrder, rng *dice.Roller) (campaign.Result, float64) {
	difficulty, ok := dreamDifficulty[o.Type]
	if !ok {
		return campaign.Inert("unknown dream ritual %q", o.Type), 0
	}
	region, ok := st.Region(o.RegionID)
	if !ok {
		return campaign.Inert("unknown region %q", o.RegionID), 0
	}
	res := st.Resources()
	if o.Psychics < 0 || o.Psychics > res.Psychics {
		return campaign.Inert("cannot commit %d psychics (%d available)", o.Psychics, res.Psychics), 0
	}
	if o.Power < 0 || o.Power > res.EldritchPower {
		return campaign.Inert("cannot invest %.0f eldritch power", o.Power), 0
	}

	turn := st.Turn()
	var out campaign.Result
	out.Change(campaign.SpendEldritchPower(o.Power, "dream"))

	if !rng.Chance(DreamChance(st, o)) {
		out.Change(
			campaign.InvestigationHeat(region.ID, difficulty/5, "dream"),
			campaign.VeilDamage(difficulty/10, "dream"),
		)
		out.Message = fmt.Sprintf("the %s over %s was remembered by too many", o.Type, region.Name)
		out.Emit(event(turn, "dream_exposed", campaign.ImportanceMedium, out.Message).With("region", region.ID))
		return out, 0
	}

	ds.Dreams++
	out.Success = true
	out.Change(dreamEffects(region.ID, o.Type)...)
	out.Message = fmt.Sprintf("a %s settled over %s", o.Type, region.Name)
	out.Emit(event(turn, "dream_ritual", campaign.ImportanceMedium, out.Message).With("region", region.ID))
	return out, difficulty / 2
}

func dreamEffects(regionID string, t DreamType) []campaign.StateChange {
	const src = "dream"
	switch t {
	case DreamWhisper:
		return []campaign.StateChange{campaign.CorruptionGain(regionID, 3, src)}
	case DreamNightmare:
		return []campaign.StateChange{
			campaign.SanityDrain(regionID, 8, src),
			campaign.SanityFragments(8, src),
		}
	case DreamVision:
		return []campaign.StateChange{
			campaign.CorruptionGain(regionID, 6, src),
			campaign.CultistRecruitment(3, src),
		}
	case DreamShared:
		return []campaign.StateChange{
			campaign.CorruptionGain(regionID, 10, src),
			campaign.CultistRecruitment(8, src),
		}
	case DreamInvasion:
		return []campaign.StateChange{
			campaign.CorruptionGain(regionID, 15, src),
			campaign.SanityDrain(regionID, 10, src),
			campaign.PsychicAwakening(1, src),
		}
	}
	return nil
}
