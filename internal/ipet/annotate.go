package ipet

import (
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/cfgraph"
	"github.com/smetzlaff/isptap-sub000/internal/config"
	"github.com/smetzlaff/isptap-sub000/internal/cost"
	"github.com/smetzlaff/isptap-sub000/internal/flowfacts"
	"github.com/smetzlaff/isptap-sub000/internal/vivu"
)

// Annotate stamps Cost and MemPenalty onto every edge of m, per spec §4.6's
// edge-cost assignment rules: assigned reports which block start addresses
// internal/scratchpad placed on-chip (nil or empty under mode == cost.NoMem,
// where nothing is on-chip by definition). It also resets Activation to
// flowfacts.Unknown, since any previous solve's result is now stale.
//
// Every node is costed as if entered by fallthrough, the same
// context-free simplification internal/scratchpad's candidate builder
// uses: the exact entry alignment a node sees depends on which in-edge the
// WC-path actually takes, which is circular with the quantity this package
// computes. Re-annotating after a path is known and re-solving once would
// remove the approximation; the pipeline does not do this extra fixed-point
// pass, matching the original's own single-pass cost model.
func Annotate(m *vivu.MSG, assigned map[uint32]bool, mode cost.MemoryMode, p *config.Profile) error {
	for _, id := range m.Nodes() {
		nd, ok := m.Node(id)
		if !ok || nd.Kind != cfg.BasicBlockNode || nd.BB == nil {
			if err := annotatePassthroughEdges(m, id); err != nil {
				return err
			}
			continue
		}

		onChip := cost.BlockCost(*nd.BB, true, cost.OnChip, p)
		offChip := cost.BlockCost(*nd.BB, true, cost.OffChip, p)

		for _, e := range m.OutEdges(id) {
			edata, _, _, ok := m.FullEdge(e)
			if !ok {
				continue
			}
			c, penalty := cost.AssignEdgeCost(edata.Kind, onChip, offChip, mode, assigned[nd.Addr])
			edata.Cost = c
			edata.MemPenalty = penalty
			edata.Activation = flowfacts.Unknown
			if err := m.SetFullEdge(e, edata); err != nil {
				return err
			}
		}
	}
	return nil
}

// annotatePassthroughEdges zeroes the cost of every out-edge of a node with
// no associated basic block (Entry, Exit, CallSiteNode left unresolved,
// UnknownJumpTargetNode, or a FlowJoinNode) — pure graph plumbing
// contributes no cycles of its own.
func annotatePassthroughEdges(m *vivu.MSG, id cfgraph.NodeID) error {
	for _, e := range m.OutEdges(id) {
		edata, _, _, ok := m.FullEdge(e)
		if !ok {
			continue
		}
		edata.Cost = 0
		edata.MemPenalty = 0
		edata.Activation = flowfacts.Unknown
		if err := m.SetFullEdge(e, edata); err != nil {
			return err
		}
	}
	return nil
}
