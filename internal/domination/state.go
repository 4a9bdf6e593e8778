package domination

import (
	"maps"

	"github.com/roach88/eldritch/internal/campaign"
)

// State is the Domination doctrine's private progress.
type State struct {
	// Awakenings maps a chain name to the number of completed stages.
	Awakenings map[string]int `json:"awakenings,omitempty" yaml:"awakenings,omitempty"`

	Summonings      int     `json:"summonings" yaml:"summonings"`
	Backlashes      int     `json:"backlashes" yaml:"backlashes"`
	TerrorCampaigns int     `json:"terror_campaigns" yaml:"terror_campaigns"`
	FearGenerated   float64 `json:"fear_generated" yaml:"fear_generated"`
}

// NewState returns an empty Domination state.
func NewState() *State {
	return &State{Awakenings: map[string]int{}}
}

// Kind identifies the doctrine this state belongs to.
func (s *State) Kind() campaign.Doctrine {
	return campaign.DoctrineDomination
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	out := *s
	out.Awakenings = maps.Clone(s.Awakenings)
	if out.Awakenings == nil {
		out.Awakenings = map[string]int{}
	}
	return &out
}

// AwakenedCount returns how many chains have run to completion.
func (s *State) AwakenedCount() int {
	n := 0
	for name, done := range s.Awakenings {
		if chain, ok := Chain(name); ok && done >= len(chain.Stages) {
			n++
		}
	}
	return n
}

const source = "domination"

func event(turn int, kind string, imp campaign.Importance, msg string) campaign.Event {
	return campaign.NewEvent(turn, source, kind, imp, msg)
}
