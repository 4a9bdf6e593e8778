package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/convergence"
	"github.com/roach88/eldritch/internal/corruption"
	"github.com/roach88/eldritch/internal/domination"
)

// OrderKind discriminates Order.
type OrderKind string

const (
	OrderChooseDoctrine OrderKind = "choose_doctrine"
	OrderRevealTruth    OrderKind = "reveal_truth"
	OrderAdoptStance    OrderKind = "adopt_stance"
	OrderDomination     OrderKind = "domination"
	OrderCorruption     OrderKind = "corruption"
	OrderConvergence    OrderKind = "convergence"
)

var errMalformed = errors.New("malformed order")

// Order is one instruction for a turn. Exactly the payload matching Kind is
// set: the doctrine kinds wrap that doctrine's own order type.
type Order struct {
	Kind OrderKind `json:"kind" yaml:"kind"`

	Choose campaign.Doctrine `json:"choose,omitempty" yaml:"choose,omitempty"`
	// Reveal is the number of sanity fragments spent revealing the truth.
	Reveal float64         `json:"reveal,omitempty" yaml:"reveal,omitempty"`
	Stance campaign.Stance `json:"stance,omitempty" yaml:"stance,omitempty"`

	Domination  *domination.Order  `json:"domination,omitempty" yaml:"domination,omitempty"`
	Corruption  *corruption.Order  `json:"corruption,omitempty" yaml:"corruption,omitempty"`
	Convergence *convergence.Order `json:"convergence,omitempty" yaml:"convergence,omitempty"`
}

// Validate checks the order's shape. It does not check the order against
// the campaign.
func (o Order) Validate() error {
	switch o.Kind {
	case OrderChooseDoctrine:
		if !o.Choose.Valid() {
			return fmt.Errorf("%w: unknown doctrine %q", errMalformed, o.Choose)
		}
	case OrderRevealTruth:
		if o.Reveal <= 0 {
			return fmt.Errorf("%w: reveal_truth needs a positive fragment spend", errMalformed)
		}
	case OrderAdoptStance:
		if !o.Stance.Valid() {
			return fmt.Errorf("%w: unknown stance %q", errMalformed, o.Stance)
		}
	case OrderDomination:
		if o.Domination == nil {
			return fmt.Errorf("%w: domination order has no payload", errMalformed)
		}
		return o.Domination.Validate()
	case OrderCorruption:
		if o.Corruption == nil {
			return fmt.Errorf("%w: corruption order has no payload", errMalformed)
		}
		return o.Corruption.Validate()
	case OrderConvergence:
		if o.Convergence == nil {
			return fmt.Errorf("%w: convergence order has no payload", errMalformed)
		}
		return o.Convergence.Validate()
	default:
		return fmt.Errorf("%w: unknown kind %q", errMalformed, o.Kind)
	}
	return nil
}

// doctrine returns the doctrine a doctrine order belongs to, or
// DoctrineNone for shared orders.
func (o Order) doctrine() campaign.Doctrine {
	switch o.Kind {
	case OrderDomination:
		return campaign.DoctrineDomination
	case OrderCorruption:
		return campaign.DoctrineCorruption
	case OrderConvergence:
		return campaign.DoctrineConvergence
	}
	return campaign.DoctrineNone
}

// label names the order in outcomes, e.g. "domination/summon".
func (o Order) label() string {
	switch o.Kind {
	case OrderDomination:
		return string(o.Kind) + "/" + string(o.Domination.Kind)
	case OrderCorruption:
		return string(o.Kind) + "/" + string(o.Corruption.Kind)
	case OrderConvergence:
		return string(o.Kind) + "/" + string(o.Convergence.Kind)
	}
	return string(o.Kind)
}
