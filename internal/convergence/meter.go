package convergence

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
)

// Promise is a public commitment the cult has made.
type Promise struct {
	ID          string  `json:"id" yaml:"id"`
	Description string  `json:"description" yaml:"description"`
	Impact      float64 `json:"impact" yaml:"impact"`
	MadeTurn    int     `json:"made_turn" yaml:"made_turn"`
	Resolved    bool    `json:"resolved,omitempty" yaml:"resolved,omitempty"`
	Kept        bool    `json:"kept,omitempty" yaml:"kept,omitempty"`
}

// Betrayal records a broken promise or an exposed deception.
type Betrayal struct {
	Source   string  `json:"source" yaml:"source"`
	Severity float64 `json:"severity" yaml:"severity"`
	Turn     int     `json:"turn" yaml:"turn"`
}

// Meter is the True Intentions Meter.
//
// RedemptionLocked is a one-way latch: the first betrayal of severity
// LockSeverity or more sets it and nothing clears it.
type Meter struct {
	Deception        float64    `json:"deception" yaml:"deception"`
	Morality         float64    `json:"morality" yaml:"morality"`
	PublicTrust      float64    `json:"public_trust" yaml:"public_trust"`
	Promises         []Promise  `json:"promises,omitempty" yaml:"promises,omitempty"`
	Betrayals        []Betrayal `json:"betrayals,omitempty" yaml:"betrayals,omitempty"`
	RedemptionLocked bool       `json:"redemption_locked,omitempty" yaml:"redemption_locked,omitempty"`
	// Redeemed is set by a redemption that lifts morality above
	// RedeemedMorality; it opens the redeemed ending.
	Redeemed bool `json:"redeemed,omitempty" yaml:"redeemed,omitempty"`
}

// LockSeverity is the betrayal severity that closes redemption for good.
const LockSeverity = 8.0

// NewMeter returns a meter with middling public trust.
func NewMeter() Meter {
	return Meter{PublicTrust: 50}
}

// RedemptionAvailable reports whether redemption can still be attempted.
func (m Meter) RedemptionAvailable() bool {
	return !m.RedemptionLocked
}

// Promise returns the promise with the given id.
func (m Meter) Promise(id string) (Promise, bool) {
	for _, p := range m.Promises {
		if p.ID == id {
			return p, true
		}
	}
	return Promise{}, false
}

// Pending returns the unresolved promises.
func (m Meter) Pending() []Promise {
	var out []Promise
	for _, p := range m.Promises {
		if !p.Resolved {
			out = append(out, p)
		}
	}
	return out
}

func (m Meter) clone() Meter {
	m.Promises = slices.Clone(m.Promises)
	m.Betrayals = slices.Clone(m.Betrayals)
	return m
}

func (m *Meter) deceive(amount float64) {
	m.Deception = campaign.Clamp(m.Deception+amount, 0, 100)
}

func (m *Meter) adjust(trust, morality, deception float64) {
	m.PublicTrust = campaign.Clamp(m.PublicTrust+trust, 0, 100)
	m.Morality = campaign.Clamp(m.Morality+morality, -100, 100)
	m.Deception = campaign.Clamp(m.Deception+deception, 0, 100)
}

// betray records a betrayal and reports whether it closed redemption.
func (m *Meter) betray(src string, severity float64, turn int) bool {
	m.Betrayals = append(m.Betrayals, Betrayal{Source: src, Severity: severity, Turn: turn})
	if severity >= LockSeverity && !m.RedemptionLocked {
		m.RedemptionLocked = true
		return true
	}
	return false
}

// PromiseOrder makes a public commitment. Impact runs from 1 to 10.
type PromiseOrder struct {
	Description string  `json:"description" yaml:"description"`
	Impact      float64 `json:"impact" yaml:"impact"`
}

// MakePromise adds a pending promise to the ledger.
func MakePromise(st *campaign.State, ds *State, o PromiseOrder, rng *dice.Roller) campaign.Result {
	if o.Impact < 1 || o.Impact > 10 {
		return campaign.Inert("promise impact %.0f is outside 1-10", o.Impact)
	}
	p := Promise{
		ID:          rng.NewID("promise"),
		Description: o.Description,
		Impact:      o.Impact,
		MadeTurn:    st.Turn(),
	}
	ds.Meter.Promises = append(ds.Meter.Promises, p)

	var out campaign.Result
	out.Success = true
	out.Message = fmt.Sprintf("the cult promised %q", o.Description)
	out.Emit(event(st.Turn(), "promise_made", campaign.ImportanceLow, out.Message).With("promise", p.ID))
	return out
}

// PromiseResult reports the resolution of a promise.
type PromiseResult struct {
	campaign.Result
	TrustDelta        float64 `json:"trust_delta"`
	MoralityDelta     float64 `json:"morality_delta"`
	DeceptionDelta    float64 `json:"deception_delta"`
	BetrayalTriggered bool    `json:"betrayal_triggered,omitempty"`
}

// BetrayalImpact is the promise impact at which breaking it counts as a
// betrayal.
const BetrayalImpact = 5.0

// ResolvePromise keeps or breaks a pending promise. Keeping raises trust by
// impact*2 and morality by impact*3; breaking lowers trust by impact*5 and
// morality by impact*4 and raises deception by impact*2. A broken promise
// of impact BetrayalImpact or more is a betrayal of severity equal to its
// impact. The deltas reported are the nominal ones, before clamping.
func ResolvePromise(st *campaign.State, ds *State, id string, keep bool) PromiseResult {
	idx := slices.IndexFunc(ds.Meter.Promises, func(p Promise) bool { return p.ID == id })
	if idx < 0 {
		return PromiseResult{Result: campaign.Inert("unknown promise %q", id)}
	}
	p := &ds.Meter.Promises[idx]
	if p.Resolved {
		return PromiseResult{Result: campaign.Inert("the promise %q was already settled", p.Description)}
	}
	p.Resolved = true
	p.Kept = keep
	turn := st.Turn()

	var out PromiseResult
	if keep {
		out.TrustDelta = p.Impact * 2
		out.MoralityDelta = p.Impact * 3
		ds.Meter.adjust(out.TrustDelta, out.MoralityDelta, 0)
		out.Success = true
		out.Message = fmt.Sprintf("the cult kept its promise: %s", p.Description)
		out.Emit(event(turn, "promise_kept", campaign.ImportanceLow, out.Message).With("promise", p.ID))
		return out
	}

	out.TrustDelta = -p.Impact * 5
	out.MoralityDelta = -p.Impact * 4
	out.DeceptionDelta = p.Impact * 2
	ds.Meter.adjust(out.TrustDelta, out.MoralityDelta, out.DeceptionDelta)
	out.Message = fmt.Sprintf("the cult broke its promise: %s", p.Description)

	if p.Impact >= BetrayalImpact {
		out.BetrayalTriggered = true
		out.Change(campaign.GlobalUnityGain(p.Impact, "betrayal"))
		imp := campaign.ImportanceHigh
		if ds.Meter.betray("promise", p.Impact, turn) {
			imp = campaign.ImportanceCritical
		}
		out.Emit(event(turn, "betrayal", imp, out.Message).
			With("promise", p.ID).
			With("severity", strconv.FormatFloat(p.Impact, 'f', 0, 64)))
		return out
	}
	out.Emit(event(turn, "promise_broken", campaign.ImportanceMedium, out.Message).With("promise", p.ID))
	return out
}

// DeceptionType is what the world finds out.
type DeceptionType string

const (
	DeceptionFalseBenevolence  DeceptionType = "false_benevolence"
	DeceptionHiddenEntities    DeceptionType = "hidden_entities"
	DeceptionMindAlteration    DeceptionType = "mind_alteration"
	DeceptionSacrificialIntent DeceptionType = "sacrificial_intent"
)

// Consequence is the world's reaction to an exposed deception.
type Consequence string

const (
	ConsequenceReputationCollapse Consequence = "reputation_collapse"
	ConsequenceViolentRejection   Consequence = "violent_rejection"
	ConsequenceMassExodus         Consequence = "mass_exodus"
	ConsequenceMassSuicide        Consequence = "mass_suicide"
)

var consequences = map[DeceptionType]Consequence{
	DeceptionFalseBenevolence:  ConsequenceReputationCollapse,
	DeceptionHiddenEntities:    ConsequenceViolentRejection,
	DeceptionMindAlteration:    ConsequenceMassExodus,
	DeceptionSacrificialIntent: ConsequenceMassSuicide,
}

// ExposureResult reports an exposed deception. Scale is
// severity*(100-publicTrust)/100, taken before the exposure moves trust.
type ExposureResult struct {
	campaign.Result
	Consequence      Consequence `json:"consequence"`
	Scale            float64     `json:"scale"`
	RedemptionClosed bool        `json:"redemption_closed,omitempty"`
}

// ExposeDeception applies the consequences of the world learning the
// truth. Severity runs from 1 to 10. Exposure is something that happens to
// the cult, so the result is never a success.
func ExposeDeception(st *campaign.State, ds *State, t DeceptionType, severity float64) ExposureResult {
	cons, ok := consequences[t]
	if !ok {
		return ExposureResult{Result: campaign.Inert("unknown deception %q", t)}
	}
	severity = campaign.Clamp(severity, 1, 10)
	turn := st.Turn()
	scale := severity * (100 - ds.Meter.PublicTrust) / 100
	out := ExposureResult{Consequence: cons, Scale: scale}

	const src = "exposure"
	switch cons {
	case ConsequenceReputationCollapse:
		for i := range ds.Programs {
			ds.Programs[i].Reputation = campaign.Clamp(ds.Programs[i].Reputation-scale*5, 0, 100)
		}
		ds.Meter.adjust(-scale*3, 0, 0)
	case ConsequenceViolentRejection:
		out.Change(
			campaign.GlobalUnityGain(scale*2, src),
			campaign.VeilDamage(scale, src),
		)
		for _, r := range st.Regions() {
			out.Change(campaign.InvestigationHeat(r.ID, scale*2, src))
		}
	case ConsequenceMassExodus:
		for i := range ds.Programs {
			p := &ds.Programs[i]
			p.Enrollment -= int(math.Floor(float64(p.Enrollment) * min(1, scale*5/100)))
		}
		out.Change(campaign.CultistLoss(min(st.Resources().Cultists, int(math.Round(scale))), src))
	case ConsequenceMassSuicide:
		for _, r := range st.Regions() {
			out.Change(campaign.SanityDrain(r.ID, scale*2, src))
		}
		out.Change(campaign.CultistLoss(min(st.Resources().Cultists, int(math.Round(scale*2))), src))
		ds.Volunteers = 0
		ds.Meter.adjust(0, -scale*2, 0)
	}
	ds.Meter.adjust(-scale*2, 0, -severity*2)
	out.RedemptionClosed = ds.Meter.betray(string(t), severity, turn)

	out.Message = fmt.Sprintf("the world learned of the cult's %s: %s", t, cons)
	imp := campaign.ImportanceHigh
	if out.RedemptionClosed {
		imp = campaign.ImportanceCritical
	}
	out.Emit(event(turn, "deception_exposed", imp, out.Message).
		With("consequence", string(cons)).
		With("scale", strconv.FormatFloat(scale, 'f', 1, 64)))
	return out
}

// Scrutiny rolls whether the world sees through the cult this turn. The
// chance is a third of the deception level; what is exposed is the worst
// secret the cult currently keeps, at severity deception/10 rounded up.
func Scrutiny(st *campaign.State, ds *State, rng *dice.Roller) (ExposureResult, bool) {
	if ds.Meter.Deception <= 0 || !rng.Chance(ds.Meter.Deception/3) {
		return ExposureResult{}, false
	}
	t := DeceptionFalseBenevolence
	switch {
	case ds.Volunteers > 0 || ds.Sacrificed > 0:
		t = DeceptionSacrificialIntent
	case len(st.Entities()) > 0:
		t = DeceptionHiddenEntities
	case slices.ContainsFunc(ds.Programs, func(p Program) bool { return p.CurrentStage >= earlyStages }):
		t = DeceptionMindAlteration
	}
	return ExposeDeception(st, ds, t, math.Ceil(ds.Meter.Deception/10)), true
}

// RedemptionAction is a public act of contrition.
type RedemptionAction string

const (
	ActionPublicConfession RedemptionAction = "public_confession"
	ActionReparations      RedemptionAction = "reparations"
	ActionReleaseFollowers RedemptionAction = "release_followers"
	ActionCharitableWorks  RedemptionAction = "charitable_works"
)

var actionBonus = map[RedemptionAction]float64{
	ActionPublicConfession: 15,
	ActionReparations:      10,
	ActionReleaseFollowers: 20,
	ActionCharitableWorks:  5,
}

// RedeemedMorality is the morality a redemption must reach to open the
// redeemed ending.
const RedeemedMorality = 50.0

// RedemptionOrder attempts redemption, spending eldritch power.
type RedemptionOrder struct {
	Action       RedemptionAction `json:"action" yaml:"action"`
	ResourceCost float64          `json:"resource_cost" yaml:"resource_cost"`
}

// RedemptionResult reports a redemption attempt.
type RedemptionResult struct {
	campaign.Result
	Chance   float64 `json:"chance"`
	Redeemed bool    `json:"redeemed,omitempty"`
}

// RedemptionChance is 60 - (|morality|+deception)/5 + min(30, cost/50) +
// the action bonus, clamped.
func RedemptionChance(m Meter, o RedemptionOrder) float64 {
	chance := 60 - (math.Abs(m.Morality)+m.Deception)/5 + min(30, o.ResourceCost/50) + actionBonus[o.Action]
	return clampChance(chance)
}

// AttemptRedemption tries to atone. Once redemption is locked it fails
// unconditionally: no roll is made and nothing is spent.
func AttemptRedemption(st *campaign.State, ds *State, o RedemptionOrder, rng *dice.Roller) RedemptionResult {
	if ds.Meter.RedemptionLocked {
		return RedemptionResult{Result: campaign.Inert("redemption is no longer possible")}
	}
	bonus, ok := actionBonus[o.Action]
	if !ok {
		return RedemptionResult{Result: campaign.Inert("unknown redemption action %q", o.Action)}
	}
	res := st.Resources()
	if o.ResourceCost < 0 || o.ResourceCost > res.EldritchPower {
		return RedemptionResult{Result: campaign.Inert("cannot spend %.0f eldritch power", o.ResourceCost)}
	}

	turn := st.Turn()
	out := RedemptionResult{Chance: RedemptionChance(ds.Meter, o)}
	out.Change(campaign.SpendEldritchPower(o.ResourceCost, "redemption"))

	if !rng.Chance(out.Chance) {
		ds.Meter.adjust(-5, 0, 0)
		out.Message = fmt.Sprintf("the %s rang hollow", o.Action)
		out.Emit(event(turn, "redemption_failed", campaign.ImportanceMedium, out.Message))
		return out
	}

	ds.Meter.adjust(bonus/2, 10+bonus, -bonus)
	switch o.Action {
	case ActionPublicConfession:
		out.Change(campaign.VeilDamage(5, "redemption"))
	case ActionReleaseFollowers:
		out.Change(campaign.CultistLoss(res.Cultists/10, "redemption"))
	}
	out.Success = true
	out.Message = fmt.Sprintf("the %s was accepted; morality now %.0f", o.Action, ds.Meter.Morality)
	if ds.Meter.Morality > RedeemedMorality && !ds.Meter.Redeemed {
		ds.Meter.Redeemed = true
		out.Redeemed = true
		out.Emit(event(turn, "redemption_path", campaign.ImportanceCritical,
			"the cult has turned toward the light; a different ending is within reach"))
	}
	out.Emit(event(turn, "redemption", campaign.ImportanceHigh, out.Message).With("action", string(o.Action)))
	return out
}
