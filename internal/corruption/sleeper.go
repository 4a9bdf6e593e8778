package corruption

import (
	"fmt"

	"github.com/roach88/eldritch/internal/campaign"
	"github.com/roach88/eldritch/internal/dice"
)

// Operation is a sleeper-cell activation.
type Operation string

const (
	OpSabotage       Operation = "sabotage"
	OpLeak           Operation = "leak"
	OpRiot           Operation = "riot"
	OpAbduction      Operation = "abduction"
	OpMassActivation Operation = "mass_activation"
	OpAssassination  Operation = "assassination"
)

var opDifficulty = map[Operation]float64{
	OpSabotage:       30,
	OpLeak:           35,
	OpRiot:           40,
	OpAbduction:      50,
	OpMassActivation: 55,
	OpAssassination:  60,
}

// HighRisk reports whether an operation spends a cell on success and can
// expose the node on failure.
func (o Operation) HighRisk() bool {
	return o == OpAssassination || o == OpMassActivation
}

const (
	investigationPenalty = 30.0
	exposureRoll         = 80.0
)

// SleeperOrder activates the cells of one or more nodes.
type SleeperOrder struct {
	Operation Operation `json:"operation" yaml:"operation"`
	NodeIDs   []string  `json:"node_ids" yaml:"node_ids"`
}

// NodeOutcome is one node's part in a sleeper operation.
type NodeOutcome struct {
	NodeID  string  `json:"node_id"`
	Chance  float64 `json:"chance"`
	Roll    float64 `json:"roll"`
	Success bool    `json:"success"`
	Exposed bool    `json:"exposed,omitempty"`
}

// SleeperResult reports a sleeper operation. Success means at least one
// node succeeded.
type SleeperResult struct {
	campaign.Result
	Nodes []NodeOutcome `json:"nodes"`
}

// OperationChance returns the clamped chance for one node.
func OperationChance(region campaign.Region, node InfluenceNode, op Operation) float64 {
	chance := 50 + region.Corruption/2 + float64(node.SleeperCells)*2 - opDifficulty[op]
	if node.UnderInvestigation {
		chance -= investigationPenalty
	}
	return clampChance(chance)
}

// Activate rolls the operation separately for every targeted node that has
// cells. Unknown nodes and empty nodes are skipped without a roll.
func Activate(st *campaign.State, ds *State, o SleeperOrder, rng *dice.Roller) SleeperResult {
	if _, ok := opDifficulty[o.Operation]; !ok {
		return SleeperResult{Result: campaign.Inert("unknown operation %q", o.Operation)}
	}
	turn := st.Turn()
	var out SleeperResult

	for _, id := range o.NodeIDs {
		node := ds.Node(id)
		if node == nil || node.SleeperCells <= 0 {
			continue
		}
		region, ok := st.Region(node.RegionID)
		if !ok {
			continue
		}
		chance := OperationChance(region, *node, o.Operation)
		roll := rng.Percent()
		no := NodeOutcome{NodeID: id, Chance: chance, Roll: roll}

		if roll < chance {
			no.Success = true
			out.Success = true
			if o.Operation.HighRisk() {
				node.SleeperCells--
			}
			out.Change(operationEffects(region, o.Operation)...)
			out.Emit(event(turn, "sleeper_operation", campaign.ImportanceMedium,
				fmt.Sprintf("sleepers in %s carried out %s", region.Name, o.Operation)).
				With("node", id))
		} else if o.Operation.HighRisk() && roll > exposureRoll {
			no.Exposed = true
			node.SleeperCells /= 2
			node.UnderInvestigation = true
			out.Change(campaign.InvestigationHeat(region.ID, 15, "sleeper"))
			out.Emit(event(turn, "node_exposed", campaign.ImportanceHigh,
				fmt.Sprintf("a botched %s put the %s node in %s under investigation", o.Operation, node.Institution, region.Name)).
				With("node", id))
		} else {
			out.Change(campaign.InvestigationHeat(region.ID, opDifficulty[o.Operation]/10, "sleeper"))
		}
		out.Nodes = append(out.Nodes, no)
	}

	if len(out.Nodes) == 0 {
		return SleeperResult{Result: campaign.Inert("no targeted node has sleeper cells")}
	}
	wins := 0
	for _, n := range out.Nodes {
		if n.Success {
			wins++
		}
	}
	out.Message = fmt.Sprintf("%s: %d of %d cells succeeded", o.Operation, wins, len(out.Nodes))
	return out
}

func operationEffects(region campaign.Region, op Operation) []campaign.StateChange {
	const src = "sleeper"
	switch op {
	case OpSabotage:
		return []campaign.StateChange{
			campaign.CorruptionGain(region.ID, 5, src),
			campaign.CorruptionIndex(5, src),
		}
	case OpLeak:
		return []campaign.StateChange{
			campaign.CorruptionIndex(10, src),
			campaign.GlobalUnityLoss(2, src),
		}
	case OpRiot:
		return []campaign.StateChange{
			campaign.SanityDrain(region.ID, 5, src),
			campaign.GlobalUnityLoss(3, src),
			campaign.InvestigationHeat(region.ID, 5, src),
		}
	case OpAbduction:
		return []campaign.StateChange{
			campaign.SanityFragments(20, src),
			campaign.InvestigationHeat(region.ID, 5, src),
		}
	case OpMassActivation:
		return []campaign.StateChange{
			campaign.CorruptionGain(region.ID, 10, src),
			campaign.CultistRecruitment(5, src),
			campaign.VeilDamage(3, src),
		}
	case OpAssassination:
		return []campaign.StateChange{
			campaign.GlobalUnityLoss(5, src),
			campaign.CorruptionIndex(15, src),
			campaign.InvestigationHeat(region.ID, 10, src),
		}
	}
	return nil
}

// Suppress tries to bury an investigation into a node. It is the only way
// to clear the flag.
func Suppress(st *campaign.State, ds *State, nodeID string, rng *dice.Roller) campaign.Result {
	node := ds.Node(nodeID)
	if node == nil {
		return campaign.Inert("unknown influence node %q", nodeID)
	}
	if !node.UnderInvestigation {
		return campaign.Inert("the %s node is not under investigation", node.Institution)
	}
	region, _ := st.Region(node.RegionID)

	chance := SuppressChance(st, region)
	turn := st.Turn()
	var out campaign.Result
	if !rng.Chance(chance) {
		out.Change(campaign.InvestigationHeat(region.ID, 5, "suppress"))
		out.Message = fmt.Sprintf("the investigation into the %s node could not be buried", node.Institution)
		out.Emit(event(turn, "suppression_failed", campaign.ImportanceMedium, out.Message).With("node", nodeID))
		return out
	}
	node.UnderInvestigation = false
	out.Success = true
	out.Change(campaign.InvestigationCooling(region.ID, 10, "suppress"))
	out.Message = fmt.Sprintf("the investigation into the %s node was quietly closed", node.Institution)
	out.Emit(event(turn, "investigation_suppressed", campaign.ImportanceMedium, out.Message).With("node", nodeID))
	return out
}

// SuppressChance returns the clamped suppression chance in a region.
func SuppressChance(st *campaign.State, region campaign.Region) float64 {
	chance := 60 - region.InvestigationHeat/2
	if st.Doctrine() == campaign.DoctrineCorruption {
		chance += 20
	}
	return clampChance(chance)
}
