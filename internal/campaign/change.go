package campaign

// ChangeKind identifies a state-change record. The set is closed: Apply
// rejects any kind not listed here.
type ChangeKind string

const (
	// Veil.
	ChangeVeilDamage  ChangeKind = "veil_damage"
	ChangeVeilRestore ChangeKind = "veil_restore"

	// Region-scoped. An empty RegionID spreads the amount evenly.
	ChangeSanityDrain          ChangeKind = "sanity_drain"
	ChangeSanityRestore        ChangeKind = "sanity_restore"
	ChangeCorruptionGain       ChangeKind = "corruption_gain"
	ChangeCorruptionLoss       ChangeKind = "corruption_loss"
	ChangeInvestigationHeat    ChangeKind = "investigation_heat"
	ChangeInvestigationCooling ChangeKind = "investigation_cooling"

	// Resources.
	ChangeSanityFragments      ChangeKind = "sanity_fragments"
	ChangeSanityFragmentsSpend ChangeKind = "sanity_fragments_spend"
	ChangeEldritchPower        ChangeKind = "eldritch_power"
	ChangeEldritchPowerSpend   ChangeKind = "eldritch_power_spend"
	ChangeCorruptionIndex      ChangeKind = "corruption_index"
	ChangeElderFavor           ChangeKind = "elder_favor"
	ChangeCultistRecruitment   ChangeKind = "cultist_recruitment"
	ChangeCultistLoss          ChangeKind = "cultist_loss"
	ChangePsychicAwakening     ChangeKind = "psychic_awakening"
	ChangeHybridTransformation ChangeKind = "hybrid_transformation"

	// Council and world.
	ChangeCouncilUnityGain ChangeKind = "council_unity_gain"
	ChangeCouncilUnityLoss ChangeKind = "council_unity_loss"
	ChangeSchism           ChangeKind = "schism"
	ChangeGlobalUnityGain  ChangeKind = "global_unity_gain"
	ChangeGlobalUnityLoss  ChangeKind = "global_unity_loss"
	ChangeTruthRevealed    ChangeKind = "truth_revealed"
	ChangeStanceAdopted    ChangeKind = "stance_adopted"

	// Sites and entities.
	ChangeSiteDamage        ChangeKind = "site_damage"
	ChangeEntitySpawned     ChangeKind = "entity_spawned"
	ChangeEntityBindingLoss ChangeKind = "entity_binding_loss"
	ChangeEntityRebound     ChangeKind = "entity_rebound"
	ChangeEntityRampage     ChangeKind = "entity_rampage"
	ChangeEntityBanished    ChangeKind = "entity_banished"
	ChangeEntityTask        ChangeKind = "entity_task"

	// Campaign calendar.
	ChangeDoctrineChosen  ChangeKind = "doctrine_chosen"
	ChangeCelestialEvents ChangeKind = "celestial_events"
	ChangeTurnAdvanced    ChangeKind = "turn_advanced"
)

// StateChange is one typed mutation record. Which fields are meaningful
// depends on Kind; Apply validates the combination.
type StateChange struct {
	Kind     ChangeKind `json:"kind"`
	Amount   float64    `json:"amount,omitempty"`
	Count    int        `json:"count,omitempty"`
	RegionID string     `json:"region_id,omitempty"`
	SiteID   string     `json:"site_id,omitempty"`
	EntityID string     `json:"entity_id,omitempty"`
	Entity   *Entity    `json:"entity,omitempty"`
	Task     Task       `json:"task,omitempty"`
	Doctrine Doctrine   `json:"doctrine,omitempty"`
	Stance   Stance     `json:"stance,omitempty"`
	Labels   []string   `json:"labels,omitempty"`

	// Source names the operation that emitted the change, for the audit trail.
	Source string `json:"source,omitempty"`
}

func amountChange(kind ChangeKind, amount float64, source string) StateChange {
	return StateChange{Kind: kind, Amount: amount, Source: source}
}

func regionChange(kind ChangeKind, regionID string, amount float64, source string) StateChange {
	return StateChange{Kind: kind, RegionID: regionID, Amount: amount, Source: source}
}

func countChange(kind ChangeKind, n int, source string) StateChange {
	return StateChange{Kind: kind, Count: n, Source: source}
}

// VeilDamage lowers veil integrity.
func VeilDamage(amount float64, source string) StateChange {
	return amountChange(ChangeVeilDamage, amount, source)
}

// VeilRestore raises veil integrity.
func VeilRestore(amount float64, source string) StateChange {
	return amountChange(ChangeVeilRestore, amount, source)
}

// SanityDrain lowers sanity in one region, or evenly across all regions when
// regionID is empty.
func SanityDrain(regionID string, amount float64, source string) StateChange {
	return regionChange(ChangeSanityDrain, regionID, amount, source)
}

// SanityRestore raises regional sanity.
func SanityRestore(regionID string, amount float64, source string) StateChange {
	return regionChange(ChangeSanityRestore, regionID, amount, source)
}

// CorruptionGain raises regional corruption.
func CorruptionGain(regionID string, amount float64, source string) StateChange {
	return regionChange(ChangeCorruptionGain, regionID, amount, source)
}

// CorruptionLoss lowers regional corruption.
func CorruptionLoss(regionID string, amount float64, source string) StateChange {
	return regionChange(ChangeCorruptionLoss, regionID, amount, source)
}

// InvestigationHeat raises regional investigation heat.
func InvestigationHeat(regionID string, amount float64, source string) StateChange {
	return regionChange(ChangeInvestigationHeat, regionID, amount, source)
}

// InvestigationCooling lowers regional investigation heat.
func InvestigationCooling(regionID string, amount float64, source string) StateChange {
	return regionChange(ChangeInvestigationCooling, regionID, amount, source)
}

// SanityFragments adds harvested sanity fragments.
func SanityFragments(amount float64, source string) StateChange {
	return amountChange(ChangeSanityFragments, amount, source)
}

// SpendSanityFragments removes sanity fragments.
func SpendSanityFragments(amount float64, source string) StateChange {
	return amountChange(ChangeSanityFragmentsSpend, amount, source)
}

// EldritchPower adds eldritch power.
func EldritchPower(amount float64, source string) StateChange {
	return amountChange(ChangeEldritchPower, amount, source)
}

// SpendEldritchPower removes eldritch power.
func SpendEldritchPower(amount float64, source string) StateChange {
	return amountChange(ChangeEldritchPowerSpend, amount, source)
}

// CorruptionIndex raises the global corruption index.
func CorruptionIndex(amount float64, source string) StateChange {
	return amountChange(ChangeCorruptionIndex, amount, source)
}

// ElderFavor adds favor with the elder powers.
func ElderFavor(amount float64, source string) StateChange {
	return amountChange(ChangeElderFavor, amount, source)
}

// CultistRecruitment adds cultists.
func CultistRecruitment(n int, source string) StateChange {
	return countChange(ChangeCultistRecruitment, n, source)
}

// CultistLoss removes cultists.
func CultistLoss(n int, source string) StateChange {
	return countChange(ChangeCultistLoss, n, source)
}

// PsychicAwakening adds awakened psychics.
func PsychicAwakening(n int, source string) StateChange {
	return countChange(ChangePsychicAwakening, n, source)
}

// HybridTransformation adds transformed hybrids.
func HybridTransformation(n int, source string) StateChange {
	return countChange(ChangeHybridTransformation, n, source)
}

// CouncilUnityGain raises council unity.
func CouncilUnityGain(amount float64, source string) StateChange {
	return amountChange(ChangeCouncilUnityGain, amount, source)
}

// CouncilUnityLoss lowers council unity.
func CouncilUnityLoss(amount float64, source string) StateChange {
	return amountChange(ChangeCouncilUnityLoss, amount, source)
}

// SchismOccurred records a council schism of the given severity.
func SchismOccurred(severity float64, source string) StateChange {
	return amountChange(ChangeSchism, severity, source)
}

// GlobalUnityGain raises the world's unity against the cult.
func GlobalUnityGain(amount float64, source string) StateChange {
	return amountChange(ChangeGlobalUnityGain, amount, source)
}

// GlobalUnityLoss lowers the world's unity against the cult.
func GlobalUnityLoss(amount float64, source string) StateChange {
	return amountChange(ChangeGlobalUnityLoss, amount, source)
}

// TruthRevealed raises the revelation truth level.
func TruthRevealed(amount float64, source string) StateChange {
	return amountChange(ChangeTruthRevealed, amount, source)
}

// StanceAdopted declares the cult's narrative stance.
func StanceAdopted(stance Stance, source string) StateChange {
	return StateChange{Kind: ChangeStanceAdopted, Stance: stance, Source: source}
}

// SiteDamage lowers a ritual site's integrity.
func SiteDamage(siteID string, amount float64, source string) StateChange {
	return StateChange{Kind: ChangeSiteDamage, SiteID: siteID, Amount: amount, Source: source}
}

// EntitySpawned adds an entity to the world.
func EntitySpawned(e Entity, source string) StateChange {
	return StateChange{Kind: ChangeEntitySpawned, EntityID: e.ID, Entity: &e, Source: source}
}

// EntityBindingLoss lowers an entity's binding strength.
func EntityBindingLoss(entityID string, amount float64, source string) StateChange {
	return StateChange{Kind: ChangeEntityBindingLoss, EntityID: entityID, Amount: amount, Source: source}
}

// EntityRebound sets a new binding strength after a successful rebinding and
// ends any rampage. Amount is the new strength, not a delta.
func EntityRebound(entityID string, strength float64, source string) StateChange {
	return StateChange{Kind: ChangeEntityRebound, EntityID: entityID, Amount: strength, Source: source}
}

// EntityRampage breaks an entity loose.
func EntityRampage(entityID string, source string) StateChange {
	return StateChange{Kind: ChangeEntityRampage, EntityID: entityID, Task: TaskRampage, Source: source}
}

// EntityBanished removes an entity from the world.
func EntityBanished(entityID string, source string) StateChange {
	return StateChange{Kind: ChangeEntityBanished, EntityID: entityID, Source: source}
}

// EntityTask reassigns an entity, optionally moving it to another region.
func EntityTask(entityID string, task Task, regionID string, source string) StateChange {
	return StateChange{Kind: ChangeEntityTask, EntityID: entityID, Task: task, RegionID: regionID, Source: source}
}

// DoctrineChosen fixes the campaign doctrine. It can be applied once.
func DoctrineChosen(d Doctrine, source string) StateChange {
	return StateChange{Kind: ChangeDoctrineChosen, Doctrine: d, Source: source}
}

// CelestialEvents replaces the active celestial events.
func CelestialEvents(labels []string, source string) StateChange {
	return StateChange{Kind: ChangeCelestialEvents, Labels: append([]string(nil), labels...), Source: source}
}

// TurnAdvanced moves the calendar forward one turn.
func TurnAdvanced(source string) StateChange {
	return StateChange{Kind: ChangeTurnAdvanced, Source: source}
}
