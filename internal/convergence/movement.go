package convergence

import (
	"fmt"
	"math"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
)

// MovementType is the cultural current a movement rides.
type MovementType string

const (
	MovementArt          MovementType = "art"
	MovementMusic        MovementType = "music"
	MovementPhilosophy   MovementType = "philosophy"
	MovementWellness     MovementType = "wellness"
	MovementSpirituality MovementType = "spirituality"
)

type movementProfile struct {
	difficulty float64
	affinity   campaign.Trait
}

var movementProfiles = map[MovementType]movementProfile{
	MovementArt:          {difficulty: 20, affinity: campaign.TraitBohemian},
	MovementMusic:        {difficulty: 15, affinity: campaign.TraitUrban},
	MovementPhilosophy:   {difficulty: 30, affinity: campaign.TraitIntellectual},
	MovementWellness:     {difficulty: 10, affinity: campaign.TraitRationalist},
	MovementSpirituality: {difficulty: 25, affinity: campaign.TraitSpiritual},
}

// Movement is a cultural movement seeded in one region.
type Movement struct {
	ID          string       `json:"id" yaml:"id"`
	Type        MovementType `json:"type" yaml:"type"`
	RegionID    string       `json:"region_id" yaml:"region_id"`
	Strength    float64      `json:"strength" yaml:"strength"`
	FoundedTurn int          `json:"founded_turn" yaml:"founded_turn"`
}

// MovementOrder seeds a movement, investing eldritch power.
type MovementOrder struct {
	Type     MovementType `json:"type" yaml:"type"`
	RegionID string       `json:"region_id" yaml:"region_id"`
	Power    float64      `json:"power" yaml:"power"`
}

// MovementResult reports an attempt to seed a movement.
type MovementResult struct {
	campaign.Result
	Chance   float64   `json:"chance"`
	Movement *Movement `json:"movement,omitempty"`
}

// MovementChance returns the clamped chance of seeding a movement.
func MovementChance(st *campaign.State, region campaign.Region, o MovementOrder) float64 {
	p := movementProfiles[o.Type]
	chance := 50 + min(20, o.Power/10) - p.difficulty
	if region.HasTrait(p.affinity) {
		chance += 15
	}
	if st.Doctrine() == campaign.DoctrineConvergence {
		chance += 20
	}
	return clampChance(chance)
}

// Inspire seeds a cultural movement. One movement of each type may run in a
// region. The investment is spent either way; failure draws attention sized
// to the movement's difficulty.
func Inspire(st *campaign.State, ds *State, o MovementOrder, rng *dice.Roller) MovementResult {
	p, ok := movementProfiles[o.Type]
	if !ok {
		return MovementResult{Result: campaign.Inert("unknown movement %q", o.Type)}
	}
	region, ok := st.Region(o.RegionID)
	if !ok {
		return MovementResult{Result: campaign.Inert("unknown region %q", o.RegionID)}
	}
	for _, m := range ds.Movements {
		if m.RegionID == region.ID && m.Type == o.Type {
			return MovementResult{Result: campaign.Inert("a %s movement already runs in %s", o.Type, region.Name)}
		}
	}
	if o.Power < 0 || o.Power > st.Resources().EldritchPower {
		return MovementResult{Result: campaign.Inert("cannot invest %.0f eldritch power", o.Power)}
	}

	turn := st.Turn()
	out := MovementResult{Chance: MovementChance(st, region, o)}
	out.Change(campaign.SpendEldritchPower(o.Power, "movement"))

	if !rng.Chance(out.Chance) {
		out.Change(campaign.InvestigationHeat(region.ID, p.difficulty/5, "movement"))
		out.Message = fmt.Sprintf("the %s movement in %s never caught on", o.Type, region.Name)
		return out
	}

	m := Movement{
		ID:          rng.NewID("movement"),
		Type:        o.Type,
		RegionID:    region.ID,
		Strength:    10 + min(30, o.Power/10),
		FoundedTurn: turn,
	}
	ds.Movements = append(ds.Movements, m)
	out.Movement = &m
	out.Success = true
	out.Change(campaign.CorruptionGain(region.ID, 3, "movement"))
	out.Message = fmt.Sprintf("a %s movement took root in %s", o.Type, region.Name)
	out.Emit(event(turn, "movement_founded", campaign.ImportanceMedium, out.Message).With("movement", m.ID))
	return out
}

// MovementYield grows every movement by a tenth and collects what it
// brings in: cultists, students for the programs in its region and a
// little corruption.
func MovementYield(st *campaign.State, ds *State) (campaign.Effects, float64) {
	var fx campaign.Effects
	points := 0.0
	for i := range ds.Movements {
		m := &ds.Movements[i]
		m.Strength = min(100, m.Strength*1.1)

		fx.Change(
			campaign.CultistRecruitment(int(m.Strength/20), "movement"),
			campaign.CorruptionGain(m.RegionID, m.Strength/50, "movement"),
		)
		points += m.Strength / 20

		limit := math.MaxInt
		if region, ok := st.Region(m.RegionID); ok {
			limit = int(region.Population)
		}
		for j := range ds.Programs {
			p := &ds.Programs[j]
			if p.RegionID == m.RegionID {
				p.Enrollment = min(limit, p.Enrollment+int(m.Strength/10))
			}
		}
	}
	return fx, points
}
