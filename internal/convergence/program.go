package convergence

import (
	"fmt"
	"math"
	"strconv"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
)

// Benefit is the typed side effect a curriculum stage draws from its
// conversions.
type Benefit string

const (
	BenefitNone      Benefit = "none"
	BenefitPsychic   Benefit = "psychic"
	BenefitFragments Benefit = "fragments"
	BenefitHybrid    Benefit = "hybrid"
	BenefitSacrifice Benefit = "sacrifice"
)

// Stage is one step of a curriculum. Risks and rates are percentages.
type Stage struct {
	Name           string  `json:"name" yaml:"name"`
	SanityRisk     float64 `json:"sanity_risk" yaml:"sanity_risk"`
	DropoutRisk    float64 `json:"dropout_risk" yaml:"dropout_risk"`
	ConversionRate float64 `json:"conversion_rate" yaml:"conversion_rate"`
	Benefit        Benefit `json:"benefit" yaml:"benefit"`
}

// DefaultCurriculum returns the five-stage path every new program follows.
func DefaultCurriculum() []Stage {
	return []Stage{
		{Name: "Mindfulness Retreat", SanityRisk: 2, DropoutRisk: 5, ConversionRate: 8, Benefit: BenefitNone},
		{Name: "Inner Listening", SanityRisk: 5, DropoutRisk: 10, ConversionRate: 10, Benefit: BenefitPsychic},
		{Name: "Deeper Currents", SanityRisk: 10, DropoutRisk: 15, ConversionRate: 12, Benefit: BenefitFragments},
		{Name: "Communion", SanityRisk: 20, DropoutRisk: 20, ConversionRate: 15, Benefit: BenefitHybrid},
		{Name: "Final Convergence", SanityRisk: 35, DropoutRisk: 25, ConversionRate: 20, Benefit: BenefitSacrifice},
	}
}

// Program is an enlightenment program: a benevolent front running students
// through a curriculum.
type Program struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	RegionID     string  `json:"region_id" yaml:"region_id"`
	Stages       []Stage `json:"stages" yaml:"stages"`
	CurrentStage int     `json:"current_stage" yaml:"current_stage"`
	Enrollment   int     `json:"enrollment" yaml:"enrollment"`
	Reputation   float64 `json:"reputation" yaml:"reputation"`
	FoundedTurn  int     `json:"founded_turn" yaml:"founded_turn"`
}

// Stage returns the program's current stage.
func (p Program) Stage() Stage {
	if len(p.Stages) == 0 {
		return Stage{}
	}
	return p.Stages[min(max(p.CurrentStage, 0), len(p.Stages)-1)]
}

// Final reports whether the program has reached its last stage.
func (p Program) Final() bool {
	return len(p.Stages) > 0 && p.CurrentStage >= len(p.Stages)-1
}

const (
	foundCost        = 100.0
	baseReputation   = 60.0
	frontDeception   = 2.0
	benefitShare     = 0.1
	fragmentsPerHead = 2.0

	// Students in the first stages who learn too much may walk out.
	defectionTruth  = 60.0
	defectionChance = 25.0
	earlyStages     = 2

	breakdownReputation = 10.0
)

// FoundOrder opens a program in a region, staffed by committed cultists.
type FoundOrder struct {
	Name     string `json:"name" yaml:"name"`
	RegionID string `json:"region_id" yaml:"region_id"`
	Cultists int    `json:"cultists" yaml:"cultists"`
}

// FoundResult reports a new program.
type FoundResult struct {
	campaign.Result
	Program *Program `json:"program,omitempty"`
}

// Found opens a program. It always succeeds when affordable; every front
// adds a little to the cult's deception.
func Found(st *campaign.State, ds *State, o FoundOrder, rng *dice.Roller) FoundResult {
	region, ok := st.Region(o.RegionID)
	if !ok {
		return FoundResult{Result: campaign.Inert("unknown region %q", o.RegionID)}
	}
	res := st.Resources()
	if o.Cultists < 0 || o.Cultists > res.Cultists {
		return FoundResult{Result: campaign.Inert("cannot commit %d cultists (%d available)", o.Cultists, res.Cultists)}
	}
	if res.EldritchPower < foundCost {
		return FoundResult{Result: campaign.Inert("a program needs %.0f eldritch power", foundCost)}
	}

	name := o.Name
	if name == "" {
		name = fmt.Sprintf("%s Wellness Circle", region.Name)
	}
	p := Program{
		ID:          rng.NewID("program"),
		Name:        name,
		RegionID:    region.ID,
		Stages:      DefaultCurriculum(),
		Enrollment:  min(10+2*o.Cultists, int(region.Population)),
		Reputation:  baseReputation,
		FoundedTurn: st.Turn(),
	}
	ds.Programs = append(ds.Programs, p)
	ds.Meter.deceive(frontDeception)

	out := FoundResult{Program: &p}
	out.Success = true
	out.Change(campaign.SpendEldritchPower(foundCost, "program"))
	out.Message = fmt.Sprintf("%s opened its doors in %s with %d students", name, region.Name, p.Enrollment)
	out.Emit(event(st.Turn(), "program_founded", campaign.ImportanceMedium, out.Message).With("program", p.ID))
	return out
}

// DropoutRate returns the effective dropout percentage for a program's
// current stage.
func DropoutRate(st *campaign.State, p Program, pushHard bool) float64 {
	rate := p.Stage().DropoutRisk
	if pushHard {
		rate *= 1.5
	}
	if st.Revelation().TruthLevel > 80 {
		rate *= 0.7
	}
	if p.Reputation < 40 {
		rate *= 1.3
	}
	return rate
}

// ConversionRate returns the effective conversion percentage for a
// program's current stage.
func ConversionRate(p Program, pushHard bool) float64 {
	rate := p.Stage().ConversionRate
	if pushHard {
		rate *= 1.2
	}
	return rate
}

// ProgressResult reports one round of enlightenment.
type ProgressResult struct {
	campaign.Result
	Dropouts    int  `json:"dropouts"`
	Conversions int  `json:"conversions"`
	Advanced    bool `json:"advanced"`
	Breakdown   bool `json:"breakdown,omitempty"`
	Defectors   int  `json:"defectors,omitempty"`
}

// Progress runs a program's current stage and moves it to the next one.
// Enrollment changes by conversions minus dropouts, and a share of the
// conversions turns into the stage's benefit. Two fixed-probability side
// effects follow: a breakdown roll against the stage's sanity risk that
// costs reputation, and, when the truth level is high, a defection roll
// among students still in the early stages.
func Progress(st *campaign.State, ds *State, programID string, pushHard bool, rng *dice.Roller) ProgressResult {
	p := ds.Program(programID)
	if p == nil {
		return ProgressResult{Result: campaign.Inert("unknown program %q", programID)}
	}
	if p.Enrollment <= 0 {
		return ProgressResult{Result: campaign.Inert("%s has no students", p.Name)}
	}
	turn := st.Turn()
	stage := p.Stage()

	var out ProgressResult
	out.Dropouts = int(math.Floor(float64(p.Enrollment) * DropoutRate(st, *p, pushHard) / 100))
	out.Conversions = int(math.Floor(float64(p.Enrollment) * ConversionRate(*p, pushHard) / 100))
	p.Enrollment = max(0, p.Enrollment+out.Conversions-out.Dropouts)
	ds.Conversions += out.Conversions
	out.Change(benefitEffects(ds, stage.Benefit, out.Conversions)...)

	if rng.Chance(stage.SanityRisk) {
		out.Breakdown = true
		p.Reputation = campaign.Clamp(p.Reputation-breakdownReputation, 0, 100)
		out.Change(campaign.SanityDrain(p.RegionID, 2, "program"))
		out.Emit(event(turn, "student_breakdown", campaign.ImportanceLow,
			fmt.Sprintf("a student of %s broke down during %s", p.Name, stage.Name)).
			With("program", p.ID))
	}

	if st.Revelation().TruthLevel > defectionTruth && p.CurrentStage < earlyStages && rng.Chance(defectionChance) {
		out.Defectors = p.Enrollment / 4
		p.Enrollment -= out.Defectors
		out.Change(campaign.InvestigationHeat(p.RegionID, 5, "program"))
		out.Emit(event(turn, "mass_defection", campaign.ImportanceMedium,
			fmt.Sprintf("%d students fled %s after glimpsing what waits at the end", out.Defectors, p.Name)).
			With("program", p.ID).
			With("defectors", strconv.Itoa(out.Defectors)))
	}

	if !p.Final() {
		p.CurrentStage++
		out.Advanced = true
	}
	out.Success = true
	out.Message = fmt.Sprintf("%s finished %s: %d converted, %d dropped out", p.Name, stage.Name, out.Conversions, out.Dropouts)
	if out.Advanced && p.Final() {
		out.Emit(event(turn, "program_culminating", campaign.ImportanceHigh,
			fmt.Sprintf("%s has reached %s", p.Name, p.Stage().Name)).
			With("program", p.ID))
	}
	return out
}

func benefitEffects(ds *State, b Benefit, conversions int) []campaign.StateChange {
	const src = "curriculum"
	share := int(math.Floor(float64(conversions) * benefitShare))
	switch b {
	case BenefitPsychic:
		return []campaign.StateChange{campaign.PsychicAwakening(share, src)}
	case BenefitFragments:
		return []campaign.StateChange{campaign.SanityFragments(float64(conversions)*fragmentsPerHead, src)}
	case BenefitHybrid:
		return []campaign.StateChange{campaign.HybridTransformation(share, src)}
	case BenefitSacrifice:
		ds.Volunteers += share
	}
	return nil
}

// ProgramDrift is the passive turn of every program: reputation recovers a
// little and word of mouth brings new students, up to the region's
// population.
func ProgramDrift(st *campaign.State, ds *State) {
	for i := range ds.Programs {
		p := &ds.Programs[i]
		p.Reputation = campaign.Clamp(p.Reputation+2, 0, 100)
		limit := math.MaxInt
		if region, ok := st.Region(p.RegionID); ok {
			limit = int(region.Population)
		}
		p.Enrollment = min(limit, p.Enrollment+int(p.Reputation/10))
	}
}
