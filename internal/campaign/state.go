package campaign

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidState indicates a snapshot that violates a structural invariant
// (empty region list, duplicate ids, out-of-range values).
var ErrInvalidState = errors.New("invalid campaign state")

// Resources are the cult's global counters. All are non-negative and capped
// by Limits.
type Resources struct {
	SanityFragments float64 `json:"sanity_fragments" yaml:"sanity_fragments"`
	EldritchPower   float64 `json:"eldritch_power" yaml:"eldritch_power"`
	CorruptionIndex float64 `json:"corruption_index" yaml:"corruption_index"`
	ElderFavor      float64 `json:"elder_favor" yaml:"elder_favor"`
	Cultists        int     `json:"cultists" yaml:"cultists"`
	Psychics        int     `json:"psychics" yaml:"psychics"`
	Hybrids         int     `json:"hybrids" yaml:"hybrids"`
}

// Limits cap the resource counters.
type Limits struct {
	MaxSanityFragments float64 `json:"max_sanity_fragments" yaml:"max_sanity_fragments"`
	MaxEldritchPower   float64 `json:"max_eldritch_power" yaml:"max_eldritch_power"`
	MaxCorruptionIndex float64 `json:"max_corruption_index" yaml:"max_corruption_index"`
	MaxElderFavor      float64 `json:"max_elder_favor" yaml:"max_elder_favor"`
	MaxCultists        int     `json:"max_cultists" yaml:"max_cultists"`
}

// DefaultLimits returns the standard resource caps.
func DefaultLimits() Limits {
	return Limits{
		MaxSanityFragments: 10000,
		MaxEldritchPower:   50000,
		MaxCorruptionIndex: 1000,
		MaxElderFavor:      100000,
		MaxCultists:        100000,
	}
}

// Veil is the global secrecy meter. Integrity 0 means total exposure.
type Veil struct {
	Integrity float64 `json:"integrity" yaml:"integrity"`
}

// CouncilMember is one seat on the cult's inner council. Alignment is the
// doctrine the member favours; DoctrineNone means unaligned.
type CouncilMember struct {
	Name      string   `json:"name" yaml:"name"`
	Alignment Doctrine `json:"alignment,omitempty" yaml:"alignment,omitempty"`
	Loyalty   float64  `json:"loyalty" yaml:"loyalty"`
}

// Council is the cult's leadership.
type Council struct {
	Members []CouncilMember `json:"members" yaml:"members"`
	Unity   float64         `json:"unity" yaml:"unity"`
}

// AlignedWith counts members aligned with doctrine d.
func (c Council) AlignedWith(d Doctrine) int {
	n := 0
	for _, m := range c.Members {
		if d != DoctrineNone && m.Alignment == d {
			n++
		}
	}
	return n
}

// LunarPhase is derived from the turn counter.
type LunarPhase string

const (
	LunarNew    LunarPhase = "new"
	LunarWaxing LunarPhase = "waxing"
	LunarFull   LunarPhase = "full"
	LunarWaning LunarPhase = "waning"
)

const lunarCycle = 8

// LunarPhaseForTurn returns the phase of the moon on a turn. The cycle is
// eight turns long: two turns per phase starting with the new moon.
func LunarPhaseForTurn(turn int) LunarPhase {
	if turn < 0 {
		turn = -turn
	}
	switch (turn % lunarCycle) / 2 {
	case 0:
		return LunarNew
	case 1:
		return LunarWaxing
	case 2:
		return LunarFull
	default:
		return LunarWaning
	}
}

// Celestial event labels understood by the rules.
const (
	CelestialEclipse     = "eclipse"
	CelestialConjunction = "conjunction"
	CelestialStarsRight  = "stars_right"
)

// Alignment is the cosmic calendar.
type Alignment struct {
	Turn            int        `json:"turn" yaml:"turn"`
	LunarPhase      LunarPhase `json:"lunar_phase" yaml:"lunar_phase"`
	CelestialEvents []string   `json:"celestial_events,omitempty" yaml:"celestial_events,omitempty"`
}

// Has reports whether a celestial event is active this turn.
func (a Alignment) Has(event string) bool {
	for _, e := range a.CelestialEvents {
		if e == event {
			return true
		}
	}
	return false
}

// StarsRight reports the final-awakening celestial flag.
func (a Alignment) StarsRight() bool {
	return a.Has(CelestialStarsRight)
}

// Schism tracks council fracture.
type Schism struct {
	Severity float64 `json:"severity" yaml:"severity"`
	Count    int     `json:"count" yaml:"count"`
}

// Stance is the cult's declared narrative stance toward the truth it serves.
type Stance string

const (
	StanceNone       Stance = ""
	StanceReverent   Stance = "reverent"
	StancePragmatic  Stance = "pragmatic"
	StanceNihilistic Stance = "nihilistic"
	StanceAbsurdist  Stance = "absurdist"
)

// Valid reports whether s is a declarable stance.
func (s Stance) Valid() bool {
	switch s {
	case StanceReverent, StancePragmatic, StanceNihilistic, StanceAbsurdist:
		return true
	}
	return false
}

// Revelation tracks how much of the cosmic truth has been made public.
type Revelation struct {
	TruthLevel float64 `json:"truth_level" yaml:"truth_level"`
	Stance     Stance  `json:"stance,omitempty" yaml:"stance,omitempty"`
}

// Snapshot is the plain-data form of a campaign state. It is what callers
// build a State from and what they persist between turns.
type Snapshot struct {
	Doctrine      Doctrine   `json:"doctrine,omitempty" yaml:"doctrine,omitempty"`
	Regions       []Region   `json:"regions" yaml:"regions"`
	Resources     Resources  `json:"resources" yaml:"resources"`
	Veil          Veil       `json:"veil" yaml:"veil"`
	Entities      []Entity   `json:"entities,omitempty" yaml:"entities,omitempty"`
	Council       Council    `json:"council" yaml:"council"`
	Alignment     Alignment  `json:"alignment" yaml:"alignment"`
	Schism        Schism     `json:"schism" yaml:"schism"`
	GlobalUnity   float64    `json:"global_unity" yaml:"global_unity"`
	Revelation    Revelation `json:"revelation" yaml:"revelation"`
	TotalSummoned int        `json:"total_summoned" yaml:"total_summoned"`
	Limits        Limits     `json:"limits" yaml:"limits"`
}

// State is the campaign root. It exposes read accessors only; Apply is the
// sole mutator.
type State struct {
	s Snapshot
}

// NewState validates a snapshot and builds a State from a private copy of it.
// A zero Limits value is replaced by DefaultLimits and an empty lunar phase is
// derived from the turn.
func NewState(snap Snapshot) (*State, error) {
	snap = snap.clone()
	if snap.Limits == (Limits{}) {
		snap.Limits = DefaultLimits()
	}
	if snap.Alignment.LunarPhase == "" {
		snap.Alignment.LunarPhase = LunarPhaseForTurn(snap.Alignment.Turn)
	}
	if err := validateSnapshot(snap); err != nil {
		return nil, err
	}
	return &State{s: snap}, nil
}

func validateSnapshot(snap Snapshot) error {
	if len(snap.Regions) == 0 {
		return fmt.Errorf("%w: at least one region is required", ErrInvalidState)
	}
	if snap.Doctrine != DoctrineNone && !snap.Doctrine.Valid() {
		return fmt.Errorf("%w: unknown doctrine %q", ErrInvalidState, snap.Doctrine)
	}

	regionIDs := make(map[string]bool, len(snap.Regions))
	siteIDs := make(map[string]bool)
	for _, r := range snap.Regions {
		if r.ID == "" {
			return fmt.Errorf("%w: region id is required", ErrInvalidState)
		}
		if regionIDs[r.ID] {
			return fmt.Errorf("%w: duplicate region id %q", ErrInvalidState, r.ID)
		}
		regionIDs[r.ID] = true
		for name, v := range map[string]float64{
			"corruption":         r.Corruption,
			"sanity":             r.Sanity,
			"investigation_heat": r.InvestigationHeat,
		} {
			if v < 0 || v > 100 {
				return fmt.Errorf("%w: region %q %s %.2f outside [0,100]", ErrInvalidState, r.ID, name, v)
			}
		}
		if r.Population < 0 {
			return fmt.Errorf("%w: region %q population is negative", ErrInvalidState, r.ID)
		}
		for _, site := range r.Sites {
			if site.ID == "" {
				return fmt.Errorf("%w: site id is required in region %q", ErrInvalidState, r.ID)
			}
			if siteIDs[site.ID] {
				return fmt.Errorf("%w: duplicate site id %q", ErrInvalidState, site.ID)
			}
			siteIDs[site.ID] = true
			if !site.Type.Valid() {
				return fmt.Errorf("%w: site %q has unknown type %q", ErrInvalidState, site.ID, site.Type)
			}
			if site.Integrity < 0 || site.Integrity > 100 {
				return fmt.Errorf("%w: site %q integrity outside [0,100]", ErrInvalidState, site.ID)
			}
		}
	}

	if v := snap.Veil.Integrity; v < 0 || v > 100 {
		return fmt.Errorf("%w: veil integrity %.2f outside [0,100]", ErrInvalidState, v)
	}
	if v := snap.Council.Unity; v < 0 || v > 100 {
		return fmt.Errorf("%w: council unity %.2f outside [0,100]", ErrInvalidState, v)
	}
	if v := snap.GlobalUnity; v < 0 || v > 100 {
		return fmt.Errorf("%w: global unity %.2f outside [0,100]", ErrInvalidState, v)
	}
	res := snap.Resources
	if res.SanityFragments < 0 || res.EldritchPower < 0 || res.CorruptionIndex < 0 ||
		res.ElderFavor < 0 || res.Cultists < 0 || res.Psychics < 0 || res.Hybrids < 0 {
		return fmt.Errorf("%w: resources must be non-negative", ErrInvalidState)
	}

	entityIDs := make(map[string]bool, len(snap.Entities))
	for _, e := range snap.Entities {
		if e.ID == "" || entityIDs[e.ID] {
			return fmt.Errorf("%w: entity ids must be unique and non-empty", ErrInvalidState)
		}
		entityIDs[e.ID] = true
		if !e.Tier.Valid() {
			return fmt.Errorf("%w: entity %q has unknown tier %q", ErrInvalidState, e.ID, e.Tier)
		}
		if e.BindingStrength < 0 || e.BindingStrength > 100 {
			return fmt.Errorf("%w: entity %q binding outside [0,100]", ErrInvalidState, e.ID)
		}
		if e.RegionID != "" && !regionIDs[e.RegionID] {
			return fmt.Errorf("%w: entity %q in unknown region %q", ErrInvalidState, e.ID, e.RegionID)
		}
	}
	return nil
}

// Snapshot returns a deep copy of the state's data.
func (s *State) Snapshot() Snapshot {
	return s.s.clone()
}

// Clone returns an independent copy of the state.
func (s *State) Clone() *State {
	return &State{s: s.s.clone()}
}

// MarshalJSON encodes the state as its snapshot.
func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.s)
}

// UnmarshalJSON decodes and validates a snapshot.
func (s *State) UnmarshalJSON(data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode campaign state: %w", err)
	}
	st, err := NewState(snap)
	if err != nil {
		return err
	}
	s.s = st.s
	return nil
}

// Doctrine returns the chosen doctrine, or DoctrineNone.
func (s *State) Doctrine() Doctrine { return s.s.Doctrine }

// Regions returns a copy of all regions.
func (s *State) Regions() []Region {
	out := make([]Region, len(s.s.Regions))
	for i, r := range s.s.Regions {
		out[i] = r.clone()
	}
	return out
}

// RegionCount returns the number of regions (always at least one).
func (s *State) RegionCount() int { return len(s.s.Regions) }

// Region looks up a region by id.
func (s *State) Region(id string) (Region, bool) {
	if i := s.regionIndex(id); i >= 0 {
		return s.s.Regions[i].clone(), true
	}
	return Region{}, false
}

// Site looks up a ritual site and the region that holds it.
func (s *State) Site(id string) (RitualSite, Region, bool) {
	for _, r := range s.s.Regions {
		if site, ok := r.Site(id); ok {
			return site, r.clone(), true
		}
	}
	return RitualSite{}, Region{}, false
}

// SiteCount returns the number of ritual sites across all regions.
func (s *State) SiteCount() int {
	n := 0
	for _, r := range s.s.Regions {
		n += len(r.Sites)
	}
	return n
}

// Resources returns the global counters.
func (s *State) Resources() Resources { return s.s.Resources }

// Limits returns the resource caps.
func (s *State) Limits() Limits { return s.s.Limits }

// Veil returns the veil meter.
func (s *State) Veil() Veil { return s.s.Veil }

// Entities returns a copy of all entities in summoning order.
func (s *State) Entities() []Entity {
	return append([]Entity(nil), s.s.Entities...)
}

// Entity looks up an entity by id.
func (s *State) Entity(id string) (Entity, bool) {
	if i := s.entityIndex(id); i >= 0 {
		return s.s.Entities[i], true
	}
	return Entity{}, false
}

// CountEntities counts entities matching pred.
func (s *State) CountEntities(pred func(Entity) bool) int {
	n := 0
	for _, e := range s.s.Entities {
		if pred(e) {
			n++
		}
	}
	return n
}

// TotalSummoned counts entities ever brought over by ritual or awakening.
func (s *State) TotalSummoned() int { return s.s.TotalSummoned }

// Council returns a copy of the council.
func (s *State) Council() Council {
	c := s.s.Council
	c.Members = append([]CouncilMember(nil), c.Members...)
	return c
}

// Alignment returns a copy of the cosmic calendar.
func (s *State) Alignment() Alignment {
	a := s.s.Alignment
	a.CelestialEvents = append([]string(nil), a.CelestialEvents...)
	return a
}

// Turn returns the current turn number.
func (s *State) Turn() int { return s.s.Alignment.Turn }

// Schism returns council fracture data.
func (s *State) Schism() Schism { return s.s.Schism }

// GlobalUnity returns the world's unity against the cult.
func (s *State) GlobalUnity() float64 { return s.s.GlobalUnity }

// Revelation returns the truth-revelation track.
func (s *State) Revelation() Revelation { return s.s.Revelation }

// AverageCorruption returns mean regional corruption.
func (s *State) AverageCorruption() float64 {
	total := 0.0
	for _, r := range s.s.Regions {
		total += r.Corruption
	}
	return total / float64(len(s.s.Regions))
}

// AverageSanity returns mean regional sanity.
func (s *State) AverageSanity() float64 {
	total := 0.0
	for _, r := range s.s.Regions {
		total += r.Sanity
	}
	return total / float64(len(s.s.Regions))
}

// RegionsAbove counts regions whose corruption is strictly above threshold.
func (s *State) RegionsAbove(threshold float64) int {
	n := 0
	for _, r := range s.s.Regions {
		if r.Corruption > threshold {
			n++
		}
	}
	return n
}

func (s *State) regionIndex(id string) int {
	for i, r := range s.s.Regions {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) entityIndex(id string) int {
	for i, e := range s.s.Entities {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (snap Snapshot) clone() Snapshot {
	out := snap
	out.Regions = make([]Region, len(snap.Regions))
	for i, r := range snap.Regions {
		out.Regions[i] = r.clone()
	}
	out.Entities = append([]Entity(nil), snap.Entities...)
	out.Council.Members = append([]CouncilMember(nil), snap.Council.Members...)
	out.Alignment.CelestialEvents = append([]string(nil), snap.Alignment.CelestialEvents...)
	return out
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
