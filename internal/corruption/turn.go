package corruption

import (
	"errors"
	"fmt"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
)

// OrderKind names a Corruption order.
type OrderKind string

const (
	OrderInfiltrate OrderKind = "infiltrate"
	OrderDeepen     OrderKind = "deepen"
	OrderActivate   OrderKind = "activate"
	OrderSuppress   OrderKind = "suppress"
	OrderMeme       OrderKind = "meme"
	OrderDream      OrderKind = "dream"
	OrderLegislate  OrderKind = "legislate"
)

// ErrInvalidOrder marks an order whose payload does not match its kind.
var ErrInvalidOrder = errors.New("invalid corruption order")

// Order is one Corruption order. Exactly the payload matching Kind is set.
type Order struct {
	Kind       OrderKind        `json:"kind" yaml:"kind"`
	Infiltrate *InfiltrateOrder `json:"infiltrate,omitempty" yaml:"infiltrate,omitempty"`
	Deepen     *DeepenOrder     `json:"deepen,omitempty" yaml:"deepen,omitempty"`
	Activate   *SleeperOrder    `json:"activate,omitempty" yaml:"activate,omitempty"`
	Suppress   string           `json:"suppress,omitempty" yaml:"suppress,omitempty"`
	Meme       *MemeOrder       `json:"meme,omitempty" yaml:"meme,omitempty"`
	Dream      *DreamOrder      `json:"dream,omitempty" yaml:"dream,omitempty"`
	Legislate  Law              `json:"legislate,omitempty" yaml:"legislate,omitempty"`
}

// Validate checks that the payload matches the kind.
func (o Order) Validate() error {
	ok := false
	switch o.Kind {
	case OrderInfiltrate:
		ok = o.Infiltrate != nil
	case OrderDeepen:
		ok = o.Deepen != nil
	case OrderActivate:
		ok = o.Activate != nil
	case OrderSuppress:
		ok = o.Suppress != ""
	case OrderMeme:
		ok = o.Meme != nil
	case OrderDream:
		ok = o.Dream != nil
	case OrderLegislate:
		ok = o.Legislate != ""
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidOrder, o.Kind)
	}
	if !ok {
		return fmt.Errorf("%w: %s order has no %s payload", ErrInvalidOrder, o.Kind, o.Kind)
	}
	return nil
}

// Options carries the pipeline's view of the campaign's progression.
type Options struct {
	// Phase3 unlocks legislation.
	Phase3 bool
}

// Report summarises a Corruption turn.
type Report struct {
	Points   float64            `json:"points"`
	Outcomes []campaign.Outcome `json:"outcomes,omitempty"`
}

const (
	investigationDrain = 5.0
	naturalCooling     = 1.0
)

// Turn runs one Corruption turn: orders, node yield, memetic spread,
// standing laws, heat cooling and pressure on investigated nodes.
func Turn(d *campaign.Draft, ds *State, orders []Order, rng *dice.Roller, opts Options) (Report, error) {
	var rep Report
	for i, o := range orders {
		if err := o.Validate(); err != nil {
			return rep, fmt.Errorf("order %d: %w", i, err)
		}
		r, points := resolve(d.State(), ds, o, rng, opts)
		if err := d.Add(r.Effects); err != nil {
			return rep, fmt.Errorf("order %d (%s): %w", i, o.Kind, err)
		}
		rep.Points += points
		rep.Outcomes = append(rep.Outcomes, campaign.OutcomeOf(string(o.Kind), r))
	}

	yield, points := NodeYield(d.State(), ds)
	if err := d.Add(yield); err != nil {
		return rep, fmt.Errorf("node yield: %w", err)
	}
	rep.Points += points

	spread, points := Spread(d.State(), ds, rng)
	if err := d.Add(spread); err != nil {
		return rep, fmt.Errorf("memetic spread: %w", err)
	}
	rep.Points += points

	if err := d.Add(LawEffects(d.State(), ds)); err != nil {
		return rep, fmt.Errorf("laws: %w", err)
	}
	if err := d.Add(Pressure(d.State(), ds)); err != nil {
		return rep, fmt.Errorf("investigation pressure: %w", err)
	}
	return rep, nil
}

func resolve(st *campaign.State, ds *State, o Order, rng *dice.Roller, opts Options) (campaign.Result, float64) {
	switch o.Kind {
	case OrderInfiltrate:
		r := Infiltrate(st, ds, *o.Infiltrate, rng)
		if r.Success {
			return r.Result, 25
		}
		return r.Result, 0
	case OrderDeepen:
		r := Deepen(st, ds, *o.Deepen, rng)
		if r.Success {
			return r.Result, 10
		}
		return r.Result, 0
	case OrderActivate:
		r := Activate(st, ds, *o.Activate, rng)
		points := 0.0
		for _, n := range r.Nodes {
			if n.Success {
				points += 15
			}
		}
		return r.Result, points
	case OrderSuppress:
		return Suppress(st, ds, o.Suppress, rng), 0
	case OrderMeme:
		r := Launch(st, ds, *o.Meme, rng)
		if r.Success {
			return r, 5
		}
		return r, 0
	case OrderDream:
		return Dream(st, ds, *o.Dream, rng)
	case OrderLegislate:
		if !opts.Phase3 {
			return campaign.Inert("legislation is out of reach until the third phase"), 0
		}
		r := Enact(st, ds, o.Legislate, rng)
		if r.Success {
			return r, 50
		}
		return r, 0
	}
	return campaign.Inert("unhandled order %q", o.Kind), 0
}

// NodeYield is the passive return of the infiltration graph: corruption in
// each node's region and the corruption index, proportional to influence.
// Uninvestigated nodes also grow one point of influence.
func NodeYield(st *campaign.State, ds *State) (campaign.Effects, float64) {
	var fx campaign.Effects
	points := 0.0
	for i := range ds.Nodes {
		n := &ds.Nodes[i]
		fx.Change(
			campaign.CorruptionGain(n.RegionID, n.Influence/50, "node"),
			campaign.CorruptionIndex(n.Influence/20, "node"),
		)
		points += n.Influence / 10
		if !n.UnderInvestigation {
			n.Influence = campaign.Clamp(n.Influence+1, 0, 100)
		}
	}
	for _, r := range st.Regions() {
		fx.Change(campaign.InvestigationCooling(r.ID, naturalCooling, "cooling"))
	}
	return fx, points
}

// Pressure erodes nodes under investigation. A node whose influence runs
// out is dismantled.
func Pressure(st *campaign.State, ds *State) campaign.Effects {
	var fx campaign.Effects
	turn := st.Turn()
	var lost []string
	for i := range ds.Nodes {
		n := &ds.Nodes[i]
		if !n.UnderInvestigation {
			continue
		}
		n.Influence = campaign.Clamp(n.Influence-investigationDrain, 0, 100)
		fx.Change(campaign.InvestigationHeat(n.RegionID, 2, "investigation"))
		if n.Influence == 0 {
			lost = append(lost, n.ID)
			fx.Emit(event(turn, "node_dismantled", campaign.ImportanceHigh,
				fmt.Sprintf("investigators dismantled the %s node", n.Institution)).
				With("node", n.ID))
		}
	}
	for _, id := range lost {
		ds.removeNode(id)
	}
	return fx
}
