package campaign

// Importance ranks an event for the notification layer.
type Importance string

const (
	ImportanceLow      Importance = "low"
	ImportanceMedium   Importance = "medium"
	ImportanceHigh     Importance = "high"
	ImportanceCritical Importance = "critical"
)

// Event is an inert narrative record. It carries no rendering instructions.
// Seq is assigned by the turn pipeline's logical clock; resolvers leave it 0.
type Event struct {
	Seq        int64             `json:"seq"`
	Turn       int               `json:"turn"`
	Source     string            `json:"source"`
	Kind       string            `json:"kind"`
	Importance Importance        `json:"importance"`
	Message    string            `json:"message"`
	Meta       map[string]string `json:"meta,omitempty"`
}

// Effects is the output of any doctrine computation: narrative events plus the
// state changes that realise them, both in emission order.
type Effects struct {
	Events  []Event       `json:"events,omitempty"`
	Changes []StateChange `json:"changes,omitempty"`
}

// Emit appends an event.
func (e *Effects) Emit(ev Event) {
	e.Events = append(e.Events, ev)
}

// Change appends state changes, dropping records that would be no-ops
// (zero amount and zero count on counter kinds).
func (e *Effects) Change(changes ...StateChange) {
	for _, c := range changes {
		if isNoop(c) {
			continue
		}
		e.Changes = append(e.Changes, c)
	}
}

// Merge appends another batch after this one.
func (e *Effects) Merge(o Effects) {
	e.Events = append(e.Events, o.Events...)
	e.Changes = append(e.Changes, o.Changes...)
}

// Empty reports whether the batch carries nothing.
func (e Effects) Empty() bool {
	return len(e.Events) == 0 && len(e.Changes) == 0
}

func isNoop(c StateChange) bool {
	switch c.Kind {
	case ChangeVeilDamage, ChangeVeilRestore, ChangeSanityDrain, ChangeSanityRestore,
		ChangeCorruptionGain, ChangeCorruptionLoss, ChangeInvestigationHeat,
		ChangeInvestigationCooling, ChangeSanityFragments, ChangeSanityFragmentsSpend,
		ChangeEldritchPower, ChangeEldritchPowerSpend, ChangeCorruptionIndex,
		ChangeElderFavor, ChangeCouncilUnityGain, ChangeCouncilUnityLoss,
		ChangeGlobalUnityGain, ChangeGlobalUnityLoss, ChangeTruthRevealed,
		ChangeSiteDamage, ChangeEntityBindingLoss:
		return c.Amount == 0
	case ChangeCultistRecruitment, ChangeCultistLoss, ChangePsychicAwakening, ChangeHybridTransformation:
		return c.Count == 0
	}
	return false
}
