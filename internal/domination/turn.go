package domination

import (
	"errors"
	"fmt"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
)

// OrderKind names a Domination order.
type OrderKind string

const (
	OrderSummon OrderKind = "summon"
	OrderRebind OrderKind = "rebind"
	OrderBanish OrderKind = "banish"
	OrderTerror OrderKind = "terror"
	OrderEngage OrderKind = "engage"
	OrderAwaken OrderKind = "awaken"
	OrderAssign OrderKind = "assign"
)

// ErrInvalidOrder marks an order whose payload does not match its kind.
var ErrInvalidOrder = errors.New("invalid domination order")

// Assignment puts a bound entity to work.
type Assignment struct {
	EntityID string        `json:"entity_id" yaml:"entity_id"`
	Task     campaign.Task `json:"task" yaml:"task"`
	RegionID string        `json:"region_id,omitempty" yaml:"region_id,omitempty"`
}

// Order is one Domination order. Exactly the payload matching Kind is set.
type Order struct {
	Kind   OrderKind      `json:"kind" yaml:"kind"`
	Summon *Attempt       `json:"summon,omitempty" yaml:"summon,omitempty"`
	Rebind *RebindRequest `json:"rebind,omitempty" yaml:"rebind,omitempty"`
	Banish string         `json:"banish,omitempty" yaml:"banish,omitempty"`
	Terror *TerrorOrder   `json:"terror,omitempty" yaml:"terror,omitempty"`
	Engage *Engagement    `json:"engage,omitempty" yaml:"engage,omitempty"`
	Awaken *AwakenOrder   `json:"awaken,omitempty" yaml:"awaken,omitempty"`
	Assign *Assignment    `json:"assign,omitempty" yaml:"assign,omitempty"`
}

// Validate checks that the payload matches the kind.
func (o Order) Validate() error {
	ok := false
	switch o.Kind {
	case OrderSummon:
		ok = o.Summon != nil
	case OrderRebind:
		ok = o.Rebind != nil
	case OrderBanish:
		ok = o.Banish != ""
	case OrderTerror:
		ok = o.Terror != nil
	case OrderEngage:
		ok = o.Engage != nil
	case OrderAwaken:
		ok = o.Awaken != nil
	case OrderAssign:
		ok = o.Assign != nil
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
	// Phase3 unlocks the awakening chains.
	Phase3 bool
}

// Report summarises a Domination turn.
type Report struct {
	Points   float64            `json:"points"`
	Outcomes []campaign.Outcome `json:"outcomes,omitempty"`
}

// Turn runs one Domination turn against a draft: orders in submission order,
// then control maintenance, rampage damage and the tithe of bound entities.
// Each step sees the changes of the steps before it.
//
// Turn returns an error only for malformed orders or for effects the ledger
// rejects; domain failures are reported as unsuccessful outcomes.
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

	if err := d.Add(MaintainControl(d.State(), rng)); err != nil {
		return rep, fmt.Errorf("control maintenance: %w", err)
	}
	if err := d.Add(RampageEffects(d.State())); err != nil {
		return rep, fmt.Errorf("rampage: %w", err)
	}

	tithe, points := Tithe(d.State())
	if err := d.Add(tithe); err != nil {
		return rep, fmt.Errorf("tithe: %w", err)
	}
	rep.Points += points
	return rep, nil
}

func resolve(st *campaign.State, ds *State, o Order, rng *dice.Roller, opts Options) (campaign.Result, float64) {
	switch o.Kind {
	case OrderSummon:
		r := Summon(st, *o.Summon, rng)
		if r.Chance > 0 {
			ds.Summonings++
		}
		if r.Backlash != nil {
			ds.Backlashes++
		}
		if r.Entity != nil {
			return r.Result, r.Entity.Power
		}
		return r.Result, 0
	case OrderRebind:
		r := Rebind(st, *o.Rebind, rng)
		if r.Success {
			return r, 20
		}
		return r, 0
	case OrderBanish:
		return Banish(st, o.Banish, rng), 0
	case OrderTerror:
		r := Terror(st, *o.Terror)
		if r.Success {
			ds.TerrorCampaigns++
			ds.FearGenerated += r.Fear
		}
		return r.Result, r.Fear / 10
	case OrderEngage:
		r := Engage(st, *o.Engage)
		switch r.Band {
		case BandOverwhelming:
			return r.Result, 50
		case BandVictory:
			return r.Result, 25
		}
		return r.Result, 0
	case OrderAwaken:
		if !opts.Phase3 {
			return campaign.Inert("awakenings are sealed until the third phase"), 0
		}
		before := ds.Awakenings[o.Awaken.Chain]
		r := Awaken(st, ds, *o.Awaken, rng)
		if !r.Success {
			return r, 0
		}
		if chain, _ := Chain(o.Awaken.Chain); before+1 == len(chain.Stages) {
			return r, 500
		}
		return r, float64(100 * (before + 1))
	case OrderAssign:
		return Assign(st, *o.Assign), 0
	}
	return campaign.Inert("unhandled order %q", o.Kind), 0
}

// Assign sets a bound entity's task.
func Assign(st *campaign.State, a Assignment) campaign.Result {
	e, ok := st.Entity(a.EntityID)
	if !ok {
		return campaign.Inert("unknown entity %q", a.EntityID)
	}
	if !e.Bound() {
		return campaign.Inert("%s does not obey", e.Name)
	}
	switch a.Task {
	case campaign.TaskIdle, campaign.TaskGuarding, campaign.TaskHunting, campaign.TaskTerror:
	default:
		return campaign.Inert("cannot assign task %q", a.Task)
	}
	if a.RegionID != "" {
		if _, ok := st.Region(a.RegionID); !ok {
			return campaign.Inert("unknown region %q", a.RegionID)
		}
	}
	var out campaign.Result
	out.Success = true
	out.Message = fmt.Sprintf("%s now %s", e.Name, a.Task)
	out.Change(campaign.EntityTask(e.ID, a.Task, a.RegionID, "assign"))
	return out
}

// Tithe is the passive yield of bound entities: elder favour and eldritch
// power proportional to their power, and doctrine points.
func Tithe(st *campaign.State) (campaign.Effects, float64) {
	var fx campaign.Effects
	total := 0.0
	for _, e := range st.Entities() {
		if e.Bound() {
			total += e.Power
		}
	}
	fx.Change(
		campaign.ElderFavor(total*0.1, "tithe"),
		campaign.EldritchPower(total*0.2, "tithe"),
	)
	return fx, total * 0.1
}
