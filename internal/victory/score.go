package victory

import "github.com/roach88/eldritch/internal/phase"

// Grade bands a final score.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

var gradeBands = []struct {
	floor float64
	grade Grade
}{
	{5000, GradeS},
	{4000, GradeA},
	{3000, GradeB},
	{2000, GradeC},
	{1000, GradeD},
}

// GradeFor returns the band a total falls in.
func GradeFor(total float64) Grade {
	for _, b := range gradeBands {
		if total >= b.floor {
			return b.grade
		}
	}
	return GradeF
}

// Line is one named term of a score.
type Line struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Score is a campaign's final tally.
type Score struct {
	Total float64 `json:"total"`
	Grade Grade   `json:"grade"`
	Lines []Line  `json:"lines"`
}

const (
	baseScore    = 1000.0
	pointWeight  = 10.0
	speedBase    = 1000.0
	turnPenalty  = 2.0
	indexWeight  = 5.0
	veilPivot    = 50.0
	veilWeight   = 10.0
	entityWeight = 50.0
	schismWeight = 2.0
	unityWeight  = 5.0
)

// Compute scores the campaign as it stands.
func Compute(in Input) Score {
	st := in.State
	res := st.Resources()
	lines := []Line{
		{"base", baseScore},
		{"doctrine_points", phase.TotalPoints(in.Phase2, in.Phase3) * pointWeight},
		{"elder_favor", res.ElderFavor},
		{"speed", max(0, speedBase-float64(st.Turn())*turnPenalty)},
		{"corruption_index", res.CorruptionIndex * indexWeight},
		{"veil", (st.Veil().Integrity - veilPivot) * veilWeight},
		{"entities", float64(len(st.Entities())) * entityWeight},
		{"schism", -st.Schism().Severity * schismWeight},
		{"global_unity", -st.GlobalUnity() * unityWeight},
	}
	total := 0.0
	for _, l := range lines {
		total += l.Value
	}
	return Score{Total: total, Grade: GradeFor(total), Lines: lines}
}
