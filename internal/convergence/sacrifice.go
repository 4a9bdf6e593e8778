package convergence

import (
	"fmt"
	"math"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
)

const (
	powerPerVictim    = 25.0
	willingMultiplier = 2.0
	volunteerShare    = 0.05
	volunteerDeceit   = 3.0
)

// VolunteerOrder asks a program's students to offer themselves.
type VolunteerOrder struct {
	ProgramID string  `json:"program_id" yaml:"program_id"`
	Power     float64 `json:"power" yaml:"power"`
}

// VolunteerResult reports a recruitment drive.
type VolunteerResult struct {
	campaign.Result
	Chance     float64 `json:"chance"`
	Volunteers int     `json:"volunteers"`
}

// VolunteerChance is 30 + 10 per completed stage + trust/5 + min(20,
// power/10), plus 20 under Convergence, clamped.
func VolunteerChance(st *campaign.State, ds *State, p Program, power float64) float64 {
	chance := 30 + 10*float64(p.CurrentStage) + ds.Meter.PublicTrust/5 + min(20, power/10)
	if st.Doctrine() == campaign.DoctrineConvergence {
		chance += 20
	}
	return clampChance(chance)
}

// RecruitVolunteers draws willing sacrifices out of a program's enrollment.
// Every drive deepens the cult's deception; a failed one costs trust.
func RecruitVolunteers(st *campaign.State, ds *State, o VolunteerOrder, rng *dice.Roller) VolunteerResult {
	p := ds.Program(o.ProgramID)
	if p == nil {
		return VolunteerResult{Result: campaign.Inert("unknown program %q", o.ProgramID)}
	}
	if p.Enrollment <= 0 {
		return VolunteerResult{Result: campaign.Inert("%s has no students", p.Name)}
	}
	if o.Power < 0 || o.Power > st.Resources().EldritchPower {
		return VolunteerResult{Result: campaign.Inert("cannot invest %.0f eldritch power", o.Power)}
	}

	out := VolunteerResult{Chance: VolunteerChance(st, ds, *p, o.Power)}
	out.Change(campaign.SpendEldritchPower(o.Power, "volunteers"))
	if !rng.Chance(out.Chance) {
		ds.Meter.adjust(-5, 0, 0)
		out.Message = fmt.Sprintf("no one in %s stepped forward", p.Name)
		return out
	}

	n := max(1, int(math.Floor(float64(p.Enrollment)*volunteerShare)))
	p.Enrollment -= n
	ds.Volunteers += n
	ds.Meter.deceive(volunteerDeceit)
	out.Volunteers = n
	out.Success = true
	out.Message = fmt.Sprintf("%d students of %s offered themselves", n, p.Name)
	out.Emit(event(st.Turn(), "volunteers", campaign.ImportanceMedium, out.Message).With("program", p.ID))
	return out
}

// SacrificeOrder offers victims at a region. Willing victims come from the
// volunteer pool; unwilling ones are taken.
type SacrificeOrder struct {
	RegionID string `json:"region_id" yaml:"region_id"`
	Victims  int    `json:"victims" yaml:"victims"`
	Willing  bool   `json:"willing" yaml:"willing"`
}

// SacrificeResult reports a sacrifice.
type SacrificeResult struct {
	campaign.Result
	Chance float64 `json:"chance"`
	Power  float64 `json:"power"`
}

// SacrificeChance is 50, plus 20 under Convergence, plus 15 for willing
// victims or minus 10 for unwilling ones, clamped.
func SacrificeChance(st *campaign.State, o SacrificeOrder) float64 {
	chance := 50.0
	if st.Doctrine() == campaign.DoctrineConvergence {
		chance += 20
	}
	if o.Willing {
		chance += 15
	} else {
		chance -= 10
	}
	return clampChance(chance)
}

// SacrificePower is the eldritch power a successful sacrifice yields.
// Willing victims are worth twice as much.
func SacrificePower(victims int, willing bool) float64 {
	p := float64(victims) * powerPerVictim
	if willing {
		p *= willingMultiplier
	}
	return p
}

// Sacrifice performs the rite. The victims are consumed either way.
// Unwilling victims stain the cult's morality and draw attention.
func Sacrifice(st *campaign.State, ds *State, o SacrificeOrder, rng *dice.Roller) SacrificeResult {
	region, ok := st.Region(o.RegionID)
	if !ok {
		return SacrificeResult{Result: campaign.Inert("unknown region %q", o.RegionID)}
	}
	if o.Victims <= 0 {
		return SacrificeResult{Result: campaign.Inert("a sacrifice needs victims")}
	}
	if o.Willing && o.Victims > ds.Volunteers {
		return SacrificeResult{Result: campaign.Inert("only %d volunteers are waiting", ds.Volunteers)}
	}

	turn := st.Turn()
	out := SacrificeResult{Chance: SacrificeChance(st, o)}
	if o.Willing {
		ds.Volunteers -= o.Victims
	}
	ds.Sacrificed += o.Victims

	if !o.Willing {
		v := float64(o.Victims)
		ds.Meter.adjust(0, -2*v, v)
		out.Change(
			campaign.SanityDrain(region.ID, 5, "sacrifice"),
			campaign.InvestigationHeat(region.ID, 2*v, "sacrifice"),
		)
	} else {
		ds.Meter.deceive(float64(o.Victims) / 2)
	}

	if !rng.Chance(out.Chance) {
		out.Change(campaign.InvestigationHeat(region.ID, 5, "sacrifice"))
		out.Message = fmt.Sprintf("the rite in %s was refused; %d lives were spent for nothing", region.Name, o.Victims)
		out.Emit(event(turn, "sacrifice_refused", campaign.ImportanceMedium, out.Message).With("region", region.ID))
		return out
	}

	out.Power = SacrificePower(o.Victims, o.Willing)
	mult := 1.0
	if o.Willing {
		mult = willingMultiplier
	}
	out.Success = true
	out.Change(
		campaign.EldritchPower(out.Power, "sacrifice"),
		campaign.ElderFavor(float64(o.Victims)*mult, "sacrifice"),
	)
	out.Message = fmt.Sprintf("%d were given in %s, yielding %.0f eldritch power", o.Victims, region.Name, out.Power)
	out.Emit(event(turn, "sacrifice", campaign.ImportanceHigh, out.Message).With("region", region.ID))
	return out
}
