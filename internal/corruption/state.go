package corruption

import (
	"slices"

	"github.com/roach88/eldritch/internal/campaign"
)

// Institution is an infiltration target.
type Institution string

const (
	InstitutionMedia        Institution = "media"
	InstitutionAcademia     Institution = "academia"
	InstitutionFinance      Institution = "finance"
	InstitutionChurch       Institution = "church"
	InstitutionPolice       Institution = "police"
	InstitutionJudiciary    Institution = "judiciary"
	InstitutionGovernment   Institution = "government"
	InstitutionMilitary     Institution = "military"
	InstitutionIntelligence Institution = "intelligence"
)

var institutionDifficulty = map[Institution]float64{
	InstitutionMedia:        0,
	InstitutionAcademia:     10,
	InstitutionFinance:      15,
	InstitutionChurch:       20,
	InstitutionPolice:       20,
	InstitutionJudiciary:    25,
	InstitutionGovernment:   30,
	InstitutionMilitary:     30,
	InstitutionIntelligence: 35,
}

// Difficulty returns the institution's infiltration penalty and whether the
// institution is known.
func (i Institution) Difficulty() (float64, bool) {
	d, ok := institutionDifficulty[i]
	return d, ok
}

// CompromisedPerson is an individual inside an influence node.
type CompromisedPerson struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Method     Method  `json:"method" yaml:"method"`
	Loyalty    float64 `json:"loyalty" yaml:"loyalty"`
	ActionRisk float64 `json:"action_risk" yaml:"action_risk"`
}

// Reliable is derived: only loyalty above 70 is trusted.
func (p CompromisedPerson) Reliable() bool {
	return p.Loyalty > 70
}

// InfluenceNode is one infiltrated institution in one region.
//
// UnderInvestigation is one-way: it is set by a failed high-risk operation
// and cleared only by Suppress.
type InfluenceNode struct {
	ID                 string              `json:"id" yaml:"id"`
	RegionID           string              `json:"region_id" yaml:"region_id"`
	Institution        Institution         `json:"institution" yaml:"institution"`
	Influence          float64             `json:"influence" yaml:"influence"`
	SleeperCells       int                 `json:"sleeper_cells" yaml:"sleeper_cells"`
	People             []CompromisedPerson `json:"people,omitempty" yaml:"people,omitempty"`
	UnderInvestigation bool                `json:"under_investigation,omitempty" yaml:"under_investigation,omitempty"`
	FoundedTurn        int                 `json:"founded_turn" yaml:"founded_turn"`
}

// EnactedLaw records a passed law.
type EnactedLaw struct {
	Law  Law `json:"law" yaml:"law"`
	Turn int `json:"turn" yaml:"turn"`
}

// State is the Corruption doctrine's private progress.
type State struct {
	Nodes  []InfluenceNode `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Memes  []MemeticAgent  `json:"memes,omitempty" yaml:"memes,omitempty"`
	Laws   []EnactedLaw    `json:"laws,omitempty" yaml:"laws,omitempty"`
	Dreams int             `json:"dreams" yaml:"dreams"`
}

// NewState returns an empty Corruption state.
func NewState() *State {
	return &State{}
}

// Kind identifies the doctrine this state belongs to.
func (s *State) Kind() campaign.Doctrine {
	return campaign.DoctrineCorruption
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	out := &State{
		Nodes:  make([]InfluenceNode, len(s.Nodes)),
		Memes:  slices.Clone(s.Memes),
		Laws:   slices.Clone(s.Laws),
		Dreams: s.Dreams,
	}
	for i, n := range s.Nodes {
		n.People = slices.Clone(n.People)
		out.Nodes[i] = n
	}
	return out
}

// Node returns a pointer to the node with the given id, or nil.
func (s *State) Node(id string) *InfluenceNode {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i]
		}
	}
	return nil
}

// NodesIn returns the nodes in a region.
func (s *State) NodesIn(regionID string) []InfluenceNode {
	var out []InfluenceNode
	for _, n := range s.Nodes {
		if n.RegionID == regionID {
			out = append(out, n)
		}
	}
	return out
}

// HasLaw reports whether a law has been enacted.
func (s *State) HasLaw(l Law) bool {
	for _, e := range s.Laws {
		if e.Law == l {
			return true
		}
	}
	return false
}

// PuppetGovernment returns the first government node with enough influence
// to pass laws, or nil.
func (s *State) PuppetGovernment() *InfluenceNode {
	for i := range s.Nodes {
		n := &s.Nodes[i]
		if n.Institution == InstitutionGovernment && n.Influence >= PuppetInfluence {
			return n
		}
	}
	return nil
}

func (s *State) removeNode(id string) {
	s.Nodes = slices.DeleteFunc(s.Nodes, func(n InfluenceNode) bool { return n.ID == id })
}

const source = "corruption"

func event(turn int, kind string, imp campaign.Importance, msg string) campaign.Event {
	return campaign.NewEvent(turn, source, kind, imp, msg)
}

const (
	minChance = 5.0
	maxChance = 95.0
)

func clampChance(v float64) float64 {
	return campaign.Clamp(v, minChance, maxChance)
}
