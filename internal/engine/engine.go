package engine

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/convergence"
	"github.com/roach88/eldritch/internal/corruption"
	"github.com/roach88/eldritch/internal/dice"
	"github.com/roach88/eldritch/internal/domination"
	"github.com/roach88/eldritch/internal/phase"
	"github.com/roach88/eldritch/internal/victory"
)

// Engine resolves turns. It owns the campaign's dice and clock; the
// campaign itself is passed in on every call.
//
// An Engine is not safe for concurrent use. Every ProcessTurn consumes
// draws from the roller, so a result that is never committed still moves
// the stream on.
type Engine struct {
	rng     *dice.Roller
	clock   *Clock
	logger  *slog.Logger
	gates   phase.Thresholds
	endings victory.Thresholds
	quota   orderQuota
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock resumes event numbering from an existing clock.
func WithClock(c *Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithGates overrides the phase thresholds.
func WithGates(th phase.Thresholds) Option {
	return func(e *Engine) {
		e.gates = th
	}
}

// WithEndings overrides the victory thresholds.
func WithEndings(th victory.Thresholds) Option {
	return func(e *Engine) {
		e.endings = th
	}
}

// WithMaxOrders caps the orders accepted per turn. Zero disables the cap.
//
// Default: DefaultMaxOrders.
func WithMaxOrders(n int) Option {
	return func(e *Engine) {
		e.quota = orderQuota{max: n}
	}
}

// New creates an engine drawing from rng.
func New(rng *dice.Roller, opts ...Option) *Engine {
	e := &Engine{
		rng:     rng,
		clock:   NewClock(),
		logger:  slog.Default(),
		gates:   phase.DefaultThresholds(),
		endings: victory.DefaultThresholds(),
		quota:   orderQuota{max: DefaultMaxOrders},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Clock returns the engine's event clock.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// Endings returns the victory thresholds in force.
func (e *Engine) Endings() victory.Thresholds {
	return e.endings
}

// TurnResult is everything one turn produced. Events and Changes are in
// emission order; Phase2, Phase3 and Victory are the states to install on
// commit.
type TurnResult struct {
	Turn     int                    `json:"turn"`
	Events   []campaign.Event       `json:"events"`
	Changes  []campaign.StateChange `json:"changes"`
	Outcomes []campaign.Outcome     `json:"outcomes,omitempty"`
	Points   float64                `json:"points"`
	Phase2   phase.Phase2State      `json:"phase2"`
	Phase3   phase.Phase3State      `json:"phase3"`
	Victory  *victory.Achieved      `json:"victory,omitempty"`
	Checks   []victory.Check        `json:"checks,omitempty"`
}

// ProcessTurn resolves one turn of orders against c without modifying it.
func (e *Engine) ProcessTurn(c *Campaign, orders []Order) (TurnResult, error) {
	turn := c.State.Turn()
	if c.Over() {
		return TurnResult{}, newError(ErrCodeCampaignOver, turn, -1, nil, "campaign ended in %s", c.Victory.Ending)
	}
	if err := e.quota.check(turn, len(orders)); err != nil {
		return TurnResult{}, err
	}
	for i, o := range orders {
		if err := o.Validate(); err != nil {
			return TurnResult{}, newError(ErrCodeInvalidOrder, turn, i, err, "invalid %s order", o.Kind)
		}
	}

	d := campaign.NewDraft(c.State)
	p2 := c.Phase2.Clone()
	p3 := c.Phase3
	res := TurnResult{Turn: turn}

	// Doctrine choice comes first so that the rest of the turn sees it.
	for i, o := range orders {
		if o.Kind != OrderChooseDoctrine {
			continue
		}
		if have := d.State().Doctrine(); have != campaign.DoctrineNone {
			return TurnResult{}, newError(ErrCodeInvalidOrder, turn, i, nil, "doctrine already chosen (%s)", have)
		}
		if err := d.Add(chooseDoctrine(d.State(), o.Choose)); err != nil {
			return TurnResult{}, newError(ErrCodeApplyFailed, turn, i, err, "choose doctrine")
		}
		res.Outcomes = append(res.Outcomes, campaign.Outcome{Order: o.label(), Success: true, Message: "doctrine chosen: " + string(o.Choose)})
	}
	doctrine := d.State().Doctrine()
	if doctrine != campaign.DoctrineNone && p2.Doctrine == nil {
		ds, err := phase.NewDoctrineState(doctrine)
		if err != nil {
			return TurnResult{}, newError(ErrCodeApplyFailed, turn, -1, err, "doctrine state")
		}
		p2.Doctrine = ds
	}

	var doctrineOrders []Order
	for i, o := range orders {
		od := o.doctrine()
		if od == campaign.DoctrineNone {
			continue
		}
		if doctrine == campaign.DoctrineNone {
			return TurnResult{}, newError(ErrCodeDoctrineUnset, turn, i, nil, "%s order before a doctrine was chosen", od)
		}
		if od != doctrine {
			return TurnResult{}, newError(ErrCodeInvalidOrder, turn, i, nil, "%s order in a %s campaign", od, doctrine)
		}
		doctrineOrders = append(doctrineOrders, o)
	}

	// Doctrine systems run only in a phase that was already open when the
	// turn began; a locked phase spends its turn checking the gate.
	open2, open3 := c.Phase2.Unlocked, c.Phase3.Unlocked

	var ev []campaign.Event
	p2, p3, ev = phase.Check(d.State(), p2, p3, e.gates)
	emit(d, ev)
	e.logTransitions(ev)

	if open2 && p2.Doctrine != nil {
		outcomes, points, err := e.runDoctrine(d, p2.Doctrine, doctrineOrders, open3)
		if err != nil {
			return TurnResult{}, e.doctrineError(turn, err)
		}
		res.Outcomes = append(res.Outcomes, outcomes...)
		res.Points = points
		if open3 {
			p3.DoctrinePoints += points
		} else {
			p2.DoctrinePoints += points
		}
	} else if len(doctrineOrders) > 0 {
		reason := "the doctrine phase opens next turn"
		if !p2.Unlocked {
			reason = "the doctrine phase is locked: needs " + strings.Join(phase.Phase2Unmet(d.State(), e.gates), ", ")
		}
		for _, o := range doctrineOrders {
			res.Outcomes = append(res.Outcomes, campaign.Outcome{Order: o.label(), Message: reason})
		}
	}

	for i, o := range orders {
		var r campaign.Result
		switch o.Kind {
		case OrderRevealTruth:
			r = RevealTruth(d.State(), o.Reveal)
		case OrderAdoptStance:
			r = AdoptStance(d.State(), o.Stance)
		default:
			continue
		}
		if err := d.Add(r.Effects); err != nil {
			return TurnResult{}, newError(ErrCodeApplyFailed, turn, i, err, "%s", o.Kind)
		}
		res.Outcomes = append(res.Outcomes, campaign.OutcomeOf(o.label(), r))
	}
	if err := d.Add(CouncilDrift(d.State())); err != nil {
		return TurnResult{}, newError(ErrCodeApplyFailed, turn, -1, err, "council drift")
	}
	if err := d.Add(Schism(d.State(), e.rng)); err != nil {
		return TurnResult{}, newError(ErrCodeApplyFailed, turn, -1, err, "schism")
	}
	if err := d.Add(UnityDrift(d.State())); err != nil {
		return TurnResult{}, newError(ErrCodeApplyFailed, turn, -1, err, "unity drift")
	}

	p2, p3, ev = phase.Check(d.State(), p2, p3, e.gates)
	emit(d, ev)
	e.logTransitions(ev)

	won, checks, ev := victory.Latch(nil, victory.Input{State: d.State(), Phase2: p2, Phase3: p3}, e.endings)
	emit(d, ev)
	if won != nil {
		e.logger.Info("campaign ended", "event", "victory_latched", "ending", won.Ending, "variant", won.Variant, "turn", turn)
	}
	for _, ch := range checks {
		if ch.Status == victory.StatusApproaching {
			e.logger.Debug("ending approaching", "ending", ch.Ending, "progress", ch.Progress, "turn", turn)
		}
	}

	fx := d.Effects()
	for i := range fx.Events {
		fx.Events[i].Seq = e.clock.Next()
	}
	res.Events = fx.Events
	res.Changes = fx.Changes
	res.Phase2, res.Phase3 = p2, p3
	res.Victory = won
	res.Checks = checks

	e.logger.Debug("turn processed",
		"turn", turn,
		"orders", len(orders),
		"events", len(res.Events),
		"changes", len(res.Changes),
		"points", res.Points)
	return res, nil
}

func (e *Engine) runDoctrine(d *campaign.Draft, ds phase.DoctrineState, orders []Order, phase3 bool) ([]campaign.Outcome, float64, error) {
	prefix := func(outcomes []campaign.Outcome, kind OrderKind) []campaign.Outcome {
		for i := range outcomes {
			outcomes[i].Order = string(kind) + "/" + outcomes[i].Order
		}
		return outcomes
	}
	switch s := ds.(type) {
	case *domination.State:
		ords := make([]domination.Order, len(orders))
		for i, o := range orders {
			ords[i] = *o.Domination
		}
		rep, err := domination.Turn(d, s, ords, e.rng, domination.Options{Phase3: phase3})
		return prefix(rep.Outcomes, OrderDomination), rep.Points, err
	case *corruption.State:
		ords := make([]corruption.Order, len(orders))
		for i, o := range orders {
			ords[i] = *o.Corruption
		}
		rep, err := corruption.Turn(d, s, ords, e.rng, corruption.Options{Phase3: phase3})
		return prefix(rep.Outcomes, OrderCorruption), rep.Points, err
	case *convergence.State:
		ords := make([]convergence.Order, len(orders))
		for i, o := range orders {
			ords[i] = *o.Convergence
		}
		rep, err := convergence.Turn(d, s, ords, e.rng, convergence.Options{Phase3: phase3})
		if rep.Exposed != nil {
			e.logger.Info("deception exposed", "event", "deception_exposed", "consequence", rep.Exposed.Consequence)
		}
		return prefix(rep.Outcomes, OrderConvergence), rep.Points, err
	}
	return nil, 0, errors.New("no doctrine state")
}

// doctrineError maps a doctrine handler failure onto an EngineError.
func (e *Engine) doctrineError(turn int, err error) error {
	if errors.Is(err, campaign.ErrInvalidChange) {
		e.logger.Warn("ledger rejected doctrine effects", "turn", turn, "error", err)
		return newError(ErrCodeApplyFailed, turn, -1, err, "doctrine step")
	}
	return newError(ErrCodeInvalidOrder, turn, -1, err, "doctrine step")
}

func (e *Engine) logTransitions(events []campaign.Event) {
	for _, ev := range events {
		e.logger.Info("phase transition", "event", ev.Kind, "turn", ev.Turn)
	}
}

// Commit installs a processed turn into c. The changes are applied as one
// atomic batch; on error c is unchanged.
func (e *Engine) Commit(c *Campaign, r TurnResult) error {
	if c.Over() {
		return newError(ErrCodeCampaignOver, c.State.Turn(), -1, nil, "campaign ended in %s", c.Victory.Ending)
	}
	if r.Turn != c.State.Turn() {
		return newError(ErrCodeApplyFailed, c.State.Turn(), -1, nil, "result is for turn %d", r.Turn)
	}
	if err := c.State.Apply(r.Changes); err != nil {
		e.logger.Warn("commit rejected", "turn", r.Turn, "error", err)
		return newError(ErrCodeApplyFailed, r.Turn, -1, err, "commit")
	}
	c.Phase2 = r.Phase2
	c.Phase3 = r.Phase3
	c.Victory = r.Victory
	return nil
}

// Advance processes a turn, moves the calendar on and commits it all. When
// the turn ends the campaign the calendar stays where it is.
func (e *Engine) Advance(c *Campaign, orders []Order) (TurnResult, error) {
	r, err := e.ProcessTurn(c, orders)
	if err != nil {
		return r, err
	}
	if r.Victory == nil {
		var fx campaign.Effects
		fx.Change(campaign.TurnAdvanced("calendar"))
		fx.Merge(Heavens(r.Turn+1, e.rng))
		for i := range fx.Events {
			fx.Events[i].Seq = e.clock.Next()
		}
		r.Events = append(r.Events, fx.Events...)
		r.Changes = append(r.Changes, fx.Changes...)
	}
	if err := e.Commit(c, r); err != nil {
		return r, err
	}
	return r, nil
}

// emit records events that carry no changes; Add cannot fail for them.
func emit(d *campaign.Draft, events []campaign.Event) {
	_ = d.Add(campaign.Effects{Events: events})
}
