package corruption

import (
	"fmt"
	"math"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
)

const (
	rationalistPenalty = 15.0
	faithfulPenalty    = 20.0
	doctrineBonus      = 40.0
)

// InfiltrateOrder commits cultists and eldritch power against an
// institution in a region.
type InfiltrateOrder struct {
	RegionID    string      `json:"region_id" yaml:"region_id"`
	Institution Institution `json:"institution" yaml:"institution"`
	Cultists    int         `json:"cultists" yaml:"cultists"`
	Power       float64     `json:"power" yaml:"power"`
}

// InfiltrateResult reports an infiltration attempt.
type InfiltrateResult struct {
	campaign.Result
	Chance float64        `json:"chance"`
	Node   *InfluenceNode `json:"node,omitempty"`
}

// InfiltrationChance returns the clamped infiltration chance.
func InfiltrationChance(st *campaign.State, region campaign.Region, o InfiltrateOrder) float64 {
	difficulty, _ := o.Institution.Difficulty()

	chance := 40 + min(30, float64(o.Cultists)*3) + min(20, o.Power/10)
	if st.Doctrine() == campaign.DoctrineCorruption {
		chance += doctrineBonus
	}
	chance += region.Corruption / 5
	if region.HasTrait(campaign.TraitRationalist) {
		chance -= rationalistPenalty
	}
	if region.HasTrait(campaign.TraitFaithful) {
		penalty := faithfulPenalty
		if o.Institution == InstitutionChurch {
			penalty *= 2
		}
		chance -= penalty
	}
	chance -= difficulty
	return clampChance(chance)
}

// Infiltrate attempts to establish an influence node. The power invested is
// spent either way. Success founds a node; failure raises regional heat and
// costs half the committed cultists.
func Infiltrate(st *campaign.State, ds *State, o InfiltrateOrder, rng *dice.Roller) InfiltrateResult {
	region, ok := st.Region(o.RegionID)
	if !ok {
		return InfiltrateResult{Result: campaign.Inert("unknown region %q", o.RegionID)}
	}
	if _, ok := o.Institution.Difficulty(); !ok {
		return InfiltrateResult{Result: campaign.Inert("unknown institution %q", o.Institution)}
	}
	for _, n := range ds.NodesIn(o.RegionID) {
		if n.Institution == o.Institution {
			return InfiltrateResult{Result: campaign.Inert("%s in %s is already infiltrated", o.Institution, region.Name)}
		}
	}
	res := st.Resources()
	if o.Cultists <= 0 || o.Cultists > res.Cultists {
		return InfiltrateResult{Result: campaign.Inert("cannot commit %d cultists (%d available)", o.Cultists, res.Cultists)}
	}
	if o.Power < 0 || o.Power > res.EldritchPower {
		return InfiltrateResult{Result: campaign.Inert("cannot invest %.0f eldritch power", o.Power)}
	}

	turn := st.Turn()
	chance := InfiltrationChance(st, region, o)
	out := InfiltrateResult{Chance: chance}
	out.Change(campaign.SpendEldritchPower(o.Power, "infiltrate"))

	if !rng.Chance(chance) {
		lost := int(math.Ceil(float64(o.Cultists) / 2))
		out.Change(
			campaign.InvestigationHeat(region.ID, 10, "infiltrate"),
			campaign.CultistLoss(lost, "infiltrate"),
		)
		out.Message = fmt.Sprintf("infiltration of %s in %s was rebuffed; %d cultists were exposed", o.Institution, region.Name, lost)
		out.Emit(event(turn, "infiltration_failed", campaign.ImportanceMedium, out.Message).With("region", region.ID))
		return out
	}

	node := InfluenceNode{
		ID:           rng.NewID("node"),
		RegionID:     region.ID,
		Institution:  o.Institution,
		Influence:    min(60, 20+2*float64(o.Cultists)),
		SleeperCells: int(math.Floor(float64(o.Cultists) * 0.3)),
		FoundedTurn:  turn,
	}
	ds.Nodes = append(ds.Nodes, node)
	out.Node = &node
	out.Success = true
	out.Change(
		campaign.CorruptionGain(region.ID, 5, "infiltrate"),
		campaign.CorruptionIndex(node.Influence/10, "infiltrate"),
	)
	out.Message = fmt.Sprintf("the cult now has a hand inside %s in %s (influence %.0f, %d sleeper cells)",
		o.Institution, region.Name, node.Influence, node.SleeperCells)
	out.Emit(event(turn, "node_established", campaign.ImportanceHigh, out.Message).
		With("node", node.ID).
		With("institution", string(o.Institution)))
	return out
}

// Method is how a person is compromised.
type Method string

const (
	MethodBlackmail   Method = "blackmail"
	MethodBribery     Method = "bribery"
	MethodSeduction   Method = "seduction"
	MethodIdeological Method = "ideological"
	MethodMemetic     Method = "memetic"
	MethodReplacement Method = "replacement"
)

type methodProfile struct {
	difficulty float64
	loyaltyLo  int
	loyaltyHi  int
	actionRisk float64
	cost       float64
}

var methods = map[Method]methodProfile{
	MethodBlackmail:   {difficulty: 10, loyaltyLo: 40, loyaltyHi: 60, actionRisk: 35, cost: 20},
	MethodBribery:     {difficulty: 20, loyaltyLo: 50, loyaltyHi: 70, actionRisk: 25, cost: 50},
	MethodSeduction:   {difficulty: 30, loyaltyLo: 55, loyaltyHi: 75, actionRisk: 30, cost: 30},
	MethodIdeological: {difficulty: 40, loyaltyLo: 65, loyaltyHi: 85, actionRisk: 15, cost: 40},
	MethodMemetic:     {difficulty: 45, loyaltyLo: 60, loyaltyHi: 90, actionRisk: 20, cost: 60},
	MethodReplacement: {difficulty: 60, loyaltyLo: 100, loyaltyHi: 100, actionRisk: 10, cost: 150},
}

// DeepenOrder compromises a named person inside a node.
type DeepenOrder struct {
	NodeID string `json:"node_id" yaml:"node_id"`
	Target string `json:"target" yaml:"target"`
	Method Method `json:"method" yaml:"method"`
}

// DeepenResult reports a compromise attempt.
type DeepenResult struct {
	campaign.Result
	Chance float64            `json:"chance"`
	Person *CompromisedPerson `json:"person,omitempty"`
}

// DeepenChance returns the chance of compromising someone inside node.
func DeepenChance(st *campaign.State, node InfluenceNode, m Method) float64 {
	chance := 50 + node.Influence/4 - methods[m].difficulty
	if st.Doctrine() == campaign.DoctrineCorruption {
		chance += 15
	}
	return clampChance(chance)
}

// Deepen compromises a person. Easier methods buy less loyalty; replacement
// is hardest and guarantees loyalty 100.
func Deepen(st *campaign.State, ds *State, o DeepenOrder, rng *dice.Roller) DeepenResult {
	node := ds.Node(o.NodeID)
	if node == nil {
		return DeepenResult{Result: campaign.Inert("unknown influence node %q", o.NodeID)}
	}
	m, ok := methods[o.Method]
	if !ok {
		return DeepenResult{Result: campaign.Inert("unknown method %q", o.Method)}
	}
	if st.Resources().EldritchPower < m.cost {
		return DeepenResult{Result: campaign.Inert("%s needs %.0f eldritch power", o.Method, m.cost)}
	}

	turn := st.Turn()
	chance := DeepenChance(st, *node, o.Method)
	out := DeepenResult{Chance: chance}
	out.Change(campaign.SpendEldritchPower(m.cost, "deepen"))

	if !rng.Chance(chance) {
		out.Change(campaign.InvestigationHeat(node.RegionID, m.difficulty/5, "deepen"))
		out.Message = fmt.Sprintf("%s resisted %s", o.Target, o.Method)
		out.Emit(event(turn, "compromise_failed", campaign.ImportanceLow, out.Message).With("node", node.ID))
		return out
	}

	p := CompromisedPerson{
		ID:         rng.NewID("person"),
		Name:       o.Target,
		Method:     o.Method,
		Loyalty:    float64(rng.Between(m.loyaltyLo, m.loyaltyHi)),
		ActionRisk: m.actionRisk,
	}
	node.People = append(node.People, p)
	node.Influence = campaign.Clamp(node.Influence+5, 0, 100)
	out.Person = &p
	out.Success = true
	out.Change(campaign.CorruptionIndex(p.Loyalty/20, "deepen"))
	out.Message = fmt.Sprintf("%s was compromised by %s (loyalty %.0f)", o.Target, o.Method, p.Loyalty)
	out.Emit(event(turn, "person_compromised", campaign.ImportanceMedium, out.Message).
		With("node", node.ID).
		With("person", p.ID))
	return out
}
