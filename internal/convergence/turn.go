package convergence

import (
	"errors"
	"fmt"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
)

// OrderKind names a Convergence order.
type OrderKind string

const (
	OrderFound     OrderKind = "found"
	OrderProgress  OrderKind = "progress"
	OrderPromise   OrderKind = "promise"
	OrderResolve   OrderKind = "resolve"
	OrderRedeem    OrderKind = "redeem"
	OrderInspire   OrderKind = "inspire"
	OrderVolunteer OrderKind = "volunteer"
	OrderSacrifice OrderKind = "sacrifice"
)

// ErrInvalidOrder marks an order whose payload does not match its kind.
var ErrInvalidOrder = errors.New("invalid convergence order")

// ProgressOrder advances one program.
type ProgressOrder struct {
	ProgramID string `json:"program_id" yaml:"program_id"`
	PushHard  bool   `json:"push_hard,omitempty" yaml:"push_hard,omitempty"`
}

// ResolveOrder settles a pending promise.
type ResolveOrder struct {
	PromiseID string `json:"promise_id" yaml:"promise_id"`
	Keep      bool   `json:"keep" yaml:"keep"`
}

// Order is one Convergence order. Exactly the payload matching Kind is set.
type Order struct {
	Kind      OrderKind        `json:"kind" yaml:"kind"`
	Found     *FoundOrder      `json:"found,omitempty" yaml:"found,omitempty"`
	Progress  *ProgressOrder   `json:"progress,omitempty" yaml:"progress,omitempty"`
	Promise   *PromiseOrder    `json:"promise,omitempty" yaml:"promise,omitempty"`
	Resolve   *ResolveOrder    `json:"resolve,omitempty" yaml:"resolve,omitempty"`
	Redeem    *RedemptionOrder `json:"redeem,omitempty" yaml:"redeem,omitempty"`
	Inspire   *MovementOrder   `json:"inspire,omitempty" yaml:"inspire,omitempty"`
	Volunteer *VolunteerOrder  `json:"volunteer,omitempty" yaml:"volunteer,omitempty"`
	Sacrifice *SacrificeOrder  `json:"sacrifice,omitempty" yaml:"sacrifice,omitempty"`
}

// Validate checks that the payload matches the kind.
func (o Order) Validate() error {
	ok := false
	switch o.Kind {
	case OrderFound:
		ok = o.Found != nil
	case OrderProgress:
		ok = o.Progress != nil
	case OrderPromise:
		ok = o.Promise != nil
	case OrderResolve:
		ok = o.Resolve != nil
	case OrderRedeem:
		ok = o.Redeem != nil
	case OrderInspire:
		ok = o.Inspire != nil
	case OrderVolunteer:
		ok = o.Volunteer != nil
	case OrderSacrifice:
		ok = o.Sacrifice != nil
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
	// Phase3 unlocks sacrifice.
	Phase3 bool
}

// Report summarises a Convergence turn.
type Report struct {
	Points   float64            `json:"points"`
	Outcomes []campaign.Outcome `json:"outcomes,omitempty"`
	// Exposed is set when scrutiny uncovered a deception this turn.
	Exposed *ExposureResult `json:"exposed,omitempty"`
}

// Turn runs one Convergence turn: orders, program drift, movement yield
// and the world's scrutiny of the cult's secrets.
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

	ProgramDrift(d.State(), ds)

	yield, points := MovementYield(d.State(), ds)
	if err := d.Add(yield); err != nil {
		return rep, fmt.Errorf("movement yield: %w", err)
	}
	rep.Points += points

	if exp, ok := Scrutiny(d.State(), ds, rng); ok {
		if err := d.Add(exp.Effects); err != nil {
			return rep, fmt.Errorf("scrutiny: %w", err)
		}
		rep.Exposed = &exp
	}
	return rep, nil
}

func resolve(st *campaign.State, ds *State, o Order, rng *dice.Roller, opts Options) (campaign.Result, float64) {
	switch o.Kind {
	case OrderFound:
		r := Found(st, ds, *o.Found, rng)
		if r.Success {
			return r.Result, 20
		}
		return r.Result, 0
	case OrderProgress:
		r := Progress(st, ds, o.Progress.ProgramID, o.Progress.PushHard, rng)
		return r.Result, float64(r.Conversions)
	case OrderPromise:
		return MakePromise(st, ds, *o.Promise, rng), 0
	case OrderResolve:
		r := ResolvePromise(st, ds, o.Resolve.PromiseID, o.Resolve.Keep)
		if r.Success {
			return r.Result, r.TrustDelta
		}
		return r.Result, 0
	case OrderRedeem:
		r := AttemptRedemption(st, ds, *o.Redeem, rng)
		if r.Success {
			return r.Result, 50
		}
		return r.Result, 0
	case OrderInspire:
		r := Inspire(st, ds, *o.Inspire, rng)
		if r.Success {
			return r.Result, 15
		}
		return r.Result, 0
	case OrderVolunteer:
		r := RecruitVolunteers(st, ds, *o.Volunteer, rng)
		return r.Result, float64(2 * r.Volunteers)
	case OrderSacrifice:
		if !opts.Phase3 {
			return campaign.Inert("the great sacrifice waits for the third phase"), 0
		}
		r := Sacrifice(st, ds, *o.Sacrifice, rng)
		return r.Result, r.Power / 10
	}
	return campaign.Inert("unhandled order %q", o.Kind), 0
}
