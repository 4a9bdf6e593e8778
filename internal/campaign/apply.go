package campaign

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidChange indicates a malformed state-change record.
var ErrInvalidChange = errors.New("invalid state change")

// ApplyError reports the first record of a batch that could not be applied.
// When Apply returns an ApplyError the state is unchanged.
type ApplyError struct {
	Index  int
	Kind   ChangeKind
	Reason string
}

// Error implements the error interface.
func (e *ApplyError) Error() string {
	return fmt.Sprintf("apply change %d (%s): %s", e.Index, e.Kind, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidChange.
func (e *ApplyError) Unwrap() error {
	return ErrInvalidChange
}

// Apply applies a batch of changes in order.
//
// The batch is atomic: records are applied to a working copy and the copy is
// installed only when every record succeeded. Later records may refer to
// entities spawned by earlier records in the same batch.
//
// After a successful Apply, veil integrity, council unity, global unity, the
// truth level and every regional corruption, sanity and heat value are in
// [0,100], and every resource counter is in [0, limit].
func (s *State) Apply(changes []StateChange) error {
	work := s.s.clone()
	for i, c := range changes {
		if err := applyOne(&work, c); err != nil {
			return &ApplyError{Index: i, Kind: c.Kind, Reason: err.Error()}
		}
	}
	s.s = work
	return nil
}

// Preview returns a copy of the state with changes applied. The receiver is
// not modified.
func (s *State) Preview(changes []StateChange) (*State, error) {
	c := s.Clone()
	if err := c.Apply(changes); err != nil {
		return nil, err
	}
	return c, nil
}

func applyOne(snap *Snapshot, c StateChange) error {
	if c.Amount < 0 || math.IsNaN(c.Amount) || math.IsInf(c.Amount, 0) {
		return fmt.Errorf("amount %v must be a finite non-negative number", c.Amount)
	}
	if c.Count < 0 {
		return fmt.Errorf("count %d must be non-negative", c.Count)
	}

	res := &snap.Resources
	lim := snap.Limits

	switch c.Kind {
	case ChangeVeilDamage:
		snap.Veil.Integrity = Clamp(snap.Veil.Integrity-c.Amount, 0, 100)
	case ChangeVeilRestore:
		snap.Veil.Integrity = Clamp(snap.Veil.Integrity+c.Amount, 0, 100)

	case ChangeSanityDrain:
		return applyRegional(snap, c, func(r *Region, v float64) { r.Sanity = Clamp(r.Sanity-v, 0, 100) })
	case ChangeSanityRestore:
		return applyRegional(snap, c, func(r *Region, v float64) { r.Sanity = Clamp(r.Sanity+v, 0, 100) })
	case ChangeCorruptionGain:
		return applyRegional(snap, c, func(r *Region, v float64) { r.Corruption = Clamp(r.Corruption+v, 0, 100) })
	case ChangeCorruptionLoss:
		return applyRegional(snap, c, func(r *Region, v float64) { r.Corruption = Clamp(r.Corruption-v, 0, 100) })
	case ChangeInvestigationHeat:
		return applyRegional(snap, c, func(r *Region, v float64) {
			r.InvestigationHeat = Clamp(r.InvestigationHeat+v, 0, 100)
		})
	case ChangeInvestigationCooling:
		return applyRegional(snap, c, func(r *Region, v float64) {
			r.InvestigationHeat = Clamp(r.InvestigationHeat-v, 0, 100)
		})

	case ChangeSanityFragments:
		res.SanityFragments = Clamp(res.SanityFragments+c.Amount, 0, lim.MaxSanityFragments)
	case ChangeSanityFragmentsSpend:
		res.SanityFragments = Clamp(res.SanityFragments-c.Amount, 0, lim.MaxSanityFragments)
	case ChangeEldritchPower:
		res.EldritchPower = Clamp(res.EldritchPower+c.Amount, 0, lim.MaxEldritchPower)
	case ChangeEldritchPowerSpend:
		res.EldritchPower = Clamp(res.EldritchPower-c.Amount, 0, lim.MaxEldritchPower)
	case ChangeCorruptionIndex:
		res.CorruptionIndex = Clamp(res.CorruptionIndex+c.Amount, 0, lim.MaxCorruptionIndex)
	case ChangeElderFavor:
		res.ElderFavor = Clamp(res.ElderFavor+c.Amount, 0, lim.MaxElderFavor)
	case ChangeCultistRecruitment:
		res.Cultists = clampInt(res.Cultists+c.Count, 0, lim.MaxCultists)
	case ChangeCultistLoss:
		res.Cultists = clampInt(res.Cultists-c.Count, 0, lim.MaxCultists)
	case ChangePsychicAwakening:
		res.Psychics += c.Count
	case ChangeHybridTransformation:
		res.Hybrids += c.Count

	case ChangeCouncilUnityGain:
		snap.Council.Unity = Clamp(snap.Council.Unity+c.Amount, 0, 100)
	case ChangeCouncilUnityLoss:
		snap.Council.Unity = Clamp(snap.Council.Unity-c.Amount, 0, 100)
	case ChangeSchism:
		snap.Schism.Severity += c.Amount
		snap.Schism.Count++
	case ChangeGlobalUnityGain:
		snap.GlobalUnity = Clamp(snap.GlobalUnity+c.Amount, 0, 100)
	case ChangeGlobalUnityLoss:
		snap.GlobalUnity = Clamp(snap.GlobalUnity-c.Amount, 0, 100)
	case ChangeTruthRevealed:
		snap.Revelation.TruthLevel = Clamp(snap.Revelation.TruthLevel+c.Amount, 0, 100)
	case ChangeStanceAdopted:
		if !c.Stance.Valid() {
			return fmt.Errorf("unknown stance %q", c.Stance)
		}
		snap.Revelation.Stance = c.Stance

	case ChangeSiteDamage:
		return applySiteDamage(snap, c)
	case ChangeEntitySpawned:
		return applyEntitySpawned(snap, c)
	case ChangeEntityBindingLoss:
		return withEntity(snap, c.EntityID, func(e *Entity) error {
			e.BindingStrength = Clamp(e.BindingStrength-c.Amount, 0, 100)
			return nil
		})
	case ChangeEntityRebound:
		return withEntity(snap, c.EntityID, func(e *Entity) error {
			if c.Amount < 10 || c.Amount > 100 {
				return fmt.Errorf("rebound strength %.2f outside [10,100]", c.Amount)
			}
			e.BindingStrength = c.Amount
			e.Rampaging = false
			if e.Task == TaskRampage {
				e.Task = TaskIdle
			}
			return nil
		})
	case ChangeEntityRampage:
		return withEntity(snap, c.EntityID, func(e *Entity) error {
			e.Rampaging = true
			e.Task = TaskRampage
			return nil
		})
	case ChangeEntityBanished:
		return removeEntity(snap, c.EntityID)
	case ChangeEntityTask:
		if c.RegionID != "" && regionIndex(snap, c.RegionID) < 0 {
			return fmt.Errorf("unknown region %q", c.RegionID)
		}
		return withEntity(snap, c.EntityID, func(e *Entity) error {
			if e.Rampaging {
				return fmt.Errorf("entity %q is rampaging and takes no orders", e.ID)
			}
			e.Task = c.Task
			if c.RegionID != "" {
				e.RegionID = c.RegionID
			}
			return nil
		})

	case ChangeDoctrineChosen:
		if !c.Doctrine.Valid() {
			return fmt.Errorf("unknown doctrine %q", c.Doctrine)
		}
		if snap.Doctrine != DoctrineNone {
			return fmt.Errorf("doctrine already chosen (%s)", snap.Doctrine)
		}
		snap.Doctrine = c.Doctrine
	case ChangeCelestialEvents:
		snap.Alignment.CelestialEvents = append([]string(nil), c.Labels...)
	case ChangeTurnAdvanced:
		snap.Alignment.Turn++
		snap.Alignment.LunarPhase = LunarPhaseForTurn(snap.Alignment.Turn)

	default:
		return fmt.Errorf("unknown change kind %q", c.Kind)
	}
	return nil
}

// applyRegional applies an amount to one region, or splits it evenly across
// all regions when the change names none.
func applyRegional(snap *Snapshot, c StateChange, fn func(r *Region, v float64)) error {
	if c.RegionID != "" {
		i := regionIndex(snap, c.RegionID)
		if i < 0 {
			return fmt.Errorf("unknown region %q", c.RegionID)
		}
		fn(&snap.Regions[i], c.Amount)
		return nil
	}
	share := c.Amount / float64(len(snap.Regions))
	for i := range snap.Regions {
		fn(&snap.Regions[i], share)
	}
	return nil
}

func applySiteDamage(snap *Snapshot, c StateChange) error {
	for ri := range snap.Regions {
		for si := range snap.Regions[ri].Sites {
			site := &snap.Regions[ri].Sites[si]
			if site.ID == c.SiteID {
				site.Integrity = Clamp(site.Integrity-c.Amount, 0, 100)
				return nil
			}
		}
	}
	return fmt.Errorf("unknown site %q", c.SiteID)
}

func applyEntitySpawned(snap *Snapshot, c StateChange) error {
	if c.Entity == nil {
		return errors.New("entity payload is required")
	}
	e := *c.Entity
	if e.ID == "" {
		return errors.New("entity id is required")
	}
	if !e.Tier.Valid() {
		return fmt.Errorf("unknown tier %q", e.Tier)
	}
	if entityIndex(snap, e.ID) >= 0 {
		return fmt.Errorf("entity %q already exists", e.ID)
	}
	if e.RegionID != "" && regionIndex(snap, e.RegionID) < 0 {
		return fmt.Errorf("unknown region %q", e.RegionID)
	}
	e.BindingStrength = Clamp(e.BindingStrength, 0, 100)
	if e.Rampaging {
		e.Task = TaskRampage
	}
	snap.Entities = append(snap.Entities, e)
	if e.Origin == OriginRitual || e.Origin == OriginAwakening {
		snap.TotalSummoned++
	}
	return nil
}

func withEntity(snap *Snapshot, id string, fn func(e *Entity) error) error {
	i := entityIndex(snap, id)
	if i < 0 {
		return fmt.Errorf("unknown entity %q", id)
	}
	return fn(&snap.Entities[i])
}

func removeEntity(snap *Snapshot, id string) error {
	i := entityIndex(snap, id)
	if i < 0 {
		return fmt.Errorf("unknown entity %q", id)
	}
	snap.Entities = append(snap.Entities[:i], snap.Entities[i+1:]...)
	return nil
}

func regionIndex(snap *Snapshot, id string) int {
	for i, r := range snap.Regions {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func entityIndex(snap *Snapshot, id string) int {
	for i, e := range snap.Entities {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
