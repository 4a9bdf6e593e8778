package engine

import (
	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/phase"
	"github.com/roach88/eldritch/internal/victory"
)

// Campaign is everything carried from one turn to the next.
type Campaign struct {
	State   *campaign.State   `json:"state"`
	Phase2  phase.Phase2State `json:"phase2"`
	Phase3  phase.Phase3State `json:"phase3"`
	Victory *victory.Achieved `json:"victory,omitempty"`
}

// NewCampaign starts a campaign from a state. If the state already carries
// a doctrine its empty doctrine state is attached.
func NewCampaign(st *campaign.State) (*Campaign, error) {
	c := &Campaign{State: st}
	if d := st.Doctrine(); d != campaign.DoctrineNone {
		ds, err := phase.NewDoctrineState(d)
		if err != nil {
			return nil, err
		}
		c.Phase2.Doctrine = ds
	}
	return c, nil
}

// Clone returns a deep copy.
func (c *Campaign) Clone() *Campaign {
	out := &Campaign{
		State:  c.State.Clone(),
		Phase2: c.Phase2.Clone(),
		Phase3: c.Phase3,
	}
	if c.Victory != nil {
		v := *c.Victory
		out.Victory = &v
	}
	return out
}

// Over reports whether the campaign has reached an ending.
func (c *Campaign) Over() bool {
	return c.Victory != nil
}

func (c *Campaign) input() victory.Input {
	return victory.Input{State: c.State, Phase2: c.Phase2, Phase3: c.Phase3}
}

// Score scores the campaign as it stands.
func (c *Campaign) Score() victory.Score {
	return victory.Compute(c.input())
}

// Checks evaluates every ending against the campaign without latching.
func (c *Campaign) Checks(th victory.Thresholds) []victory.Check {
	return victory.Evaluate(c.input(), th)
}
