package convergence

import (
	"slices"

	"github.com/roach88/eldritch/internal/campaign"
)

// State is the Convergence doctrine's private progress.
type State struct {
	Programs  []Program  `json:"programs,omitempty" yaml:"programs,omitempty"`
	Movements []Movement `json:"movements,omitempty" yaml:"movements,omitempty"`
	Meter     Meter      `json:"meter" yaml:"meter"`

	// Conversions counts every student ever converted.
	Conversions int `json:"conversions" yaml:"conversions"`
	// Volunteers are converts who have offered themselves for sacrifice.
	Volunteers int `json:"volunteers" yaml:"volunteers"`
	Sacrificed int `json:"sacrificed" yaml:"sacrificed"`
}

// NewState returns an empty Convergence state with a neutral meter.
func NewState() *State {
	return &State{Meter: NewMeter()}
}

// Kind identifies the doctrine this state belongs to.
func (s *State) Kind() campaign.Doctrine {
	return campaign.DoctrineConvergence
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	out := *s
	out.Programs = make([]Program, len(s.Programs))
	for i, p := range s.Programs {
		p.Stages = slices.Clone(p.Stages)
		out.Programs[i] = p
	}
	out.Movements = slices.Clone(s.Movements)
	out.Meter = s.Meter.clone()
	return &out
}

// Program returns a pointer to the program with the given id, or nil.
func (s *State) Program(id string) *Program {
	for i := range s.Programs {
		if s.Programs[i].ID == id {
			return &s.Programs[i]
		}
	}
	return nil
}

// FinalStagePrograms counts programs that have reached their last stage.
func (s *State) FinalStagePrograms() int {
	n := 0
	for _, p := range s.Programs {
		if p.Final() {
			n++
		}
	}
	return n
}

const source = "convergence"

func event(turn int, kind string, imp campaign.Importance, msg string) campaign.Event {
	return campaign.NewEvent(turn, source, kind, imp, msg)
}

func clampChance(v float64) float64 {
	return campaign.Clamp(v, 5, 95)
}
