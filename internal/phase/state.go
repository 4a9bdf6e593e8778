package phase

import "encoding/json"

// Phase2State tracks the doctrine phase. Doctrine is nil until a doctrine
// has been chosen.
type Phase2State struct {
	Unlocked       bool
	UnlockedTurn   int
	Completed      bool
	CompletedTurn  int
	DoctrinePoints float64
	Doctrine       DoctrineState
}

// Phase3State tracks the culmination phase.
type Phase3State struct {
	Unlocked       bool    `json:"unlocked"`
	UnlockedTurn   int     `json:"unlocked_turn,omitempty"`
	DoctrinePoints float64 `json:"doctrine_points"`
}

// Clone deep-copies the state, including its doctrine state.
func (p Phase2State) Clone() Phase2State {
	p.Doctrine = CloneDoctrineState(p.Doctrine)
	return p
}

type phase2JSON struct {
	Unlocked       bool            `json:"unlocked"`
	UnlockedTurn   int             `json:"unlocked_turn,omitempty"`
	Completed      bool            `json:"completed"`
	CompletedTurn  int             `json:"completed_turn,omitempty"`
	DoctrinePoints float64         `json:"doctrine_points"`
	Doctrine       json.RawMessage `json:"doctrine"`
}

// MarshalJSON writes the doctrine state with its kind discriminator.
func (p Phase2State) MarshalJSON() ([]byte, error) {
	doc, err := marshalDoctrine(p.Doctrine)
	if err != nil {
		return nil, err
	}
	return json.Marshal(phase2JSON{
		Unlocked:       p.Unlocked,
		UnlockedTurn:   p.UnlockedTurn,
		Completed:      p.Completed,
		CompletedTurn:  p.CompletedTurn,
		DoctrinePoints: p.DoctrinePoints,
		Doctrine:       doc,
	})
}

// UnmarshalJSON restores the concrete doctrine state named by the
// discriminator.
func (p *Phase2State) UnmarshalJSON(data []byte) error {
	var raw phase2JSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	doc, err := unmarshalDoctrine(raw.Doctrine)
	if err != nil {
		return err
	}
	*p = Phase2State{
		Unlocked:       raw.Unlocked,
		UnlockedTurn:   raw.UnlockedTurn,
		Completed:      raw.Completed,
		CompletedTurn:  raw.CompletedTurn,
		DoctrinePoints: raw.DoctrinePoints,
		Doctrine:       doc,
	}
	return nil
}

// TotalPoints is the doctrine points earned across both phases.
func TotalPoints(p2 Phase2State, p3 Phase3State) float64 {
	return p2.DoctrinePoints + p3.DoctrinePoints
}
