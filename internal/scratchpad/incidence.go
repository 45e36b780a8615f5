package scratchpad

import (
	"sort"

	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/config"
	"github.com/smetzlaff/isptap-sub000/internal/cost"
	"github.com/smetzlaff/isptap-sub000/internal/isa"
)

func (k penaltyKind) bytes(p *config.Profile) int {
	switch k {
	case penaltyContinuousAddressing:
		return p.Displacement.ContinuousAddressing
	case penaltyJumpShort:
		return p.Displacement.JumpShort
	case penaltyCallShort:
		return p.Displacement.CallShort
	default:
		return 0
	}
}

// candidate is one assignable unit: a basic block, its size, its benefit
// under this optimizer's static cost estimate, and the widening-penalty
// columns matrix/impl_incidence.go's row-per-vertex shape suggested —
// here a row per candidate block, one column per penalty kind, holding the
// set of successor addresses that would force that kind of widening were
// this block assigned and that successor left unassigned.
type candidate struct {
	addr        uint32
	size        int
	benefit     int64 // off-chip cost minus on-chip cost, single fallthrough pass
	kindTargets map[penaltyKind][]uint32
}

// penalty returns the widening-penalty bytes b incurs given the current
// assigned set, applying each present kind at most once regardless of how
// many of its targets are unassigned (spec §4.7).
func (c *candidate) penalty(assigned map[uint32]bool, p *config.Profile) int {
	total := 0
	for kind, targets := range c.kindTargets {
		for _, t := range targets {
			if !assigned[t] {
				total += kind.bytes(p)
				break
			}
		}
	}
	return total
}

// buildCandidates collects every basic block across every function CFG in
// cfgs into a candidate, keyed by block start address (addresses are
// unique across the whole program's flat address space).
func buildCandidates(cfgs map[string]*cfg.CFG, p *config.Profile) map[uint32]*candidate {
	entryAddr := make(map[string]uint32, len(cfgs))
	for label, c := range cfgs {
		entryAddr[label] = c.Addr
	}

	cands := make(map[uint32]*candidate)
	for _, c := range cfgs {
		for _, id := range c.Nodes() {
			nd, _ := c.Node(id)
			if nd.Kind != cfg.BasicBlockNode || nd.BB == nil {
				continue
			}

			cand := &candidate{
				addr:        nd.Addr,
				size:        int(nd.BB.Size),
				kindTargets: make(map[penaltyKind][]uint32),
			}
			cand.benefit = blockBenefit(*nd.BB, p)

			last, hasLast := nd.BB.Last()
			for _, e := range c.OutEdges(id) {
				edata, _, to, ok := c.Edge(e)
				if !ok {
					continue
				}
				toData, _ := c.Node(to)

				switch {
				case edata.Kind == cfg.ForwardStep && toData.Kind == cfg.BasicBlockNode:
					cand.addTarget(penaltyContinuousAddressing, toData.Addr)

				case (edata.Kind == cfg.ForwardJump || edata.Kind == cfg.BackwardJump) &&
					toData.Kind == cfg.BasicBlockNode && hasLast &&
					(last.Class == isa.BranchUncond || last.Class == isa.BranchCond) &&
					last.Displacement == isa.DispShort:
					cand.addTarget(penaltyJumpShort, toData.Addr)

				case toData.Kind == cfg.CallSiteNode && hasLast &&
					last.Class == isa.Call && last.Displacement == isa.DispShort:
					if calleeAddr, ok := entryAddr[toData.Label]; ok {
						cand.addTarget(penaltyCallShort, calleeAddr)
					}
				}
			}
			cands[cand.addr] = cand
		}
	}
	return cands
}

func (c *candidate) addTarget(kind penaltyKind, addr uint32) {
	c.kindTargets[kind] = append(c.kindTargets[kind], addr)
}

// blockBenefit estimates the per-pass cycle saving of placing bb on-chip,
// assuming entry by fallthrough — a static, context-free proxy good enough
// to rank and bound candidates; the exact context-sensitive saving is only
// known once a WCET pass (internal/ipet) runs over the final assignment.
func blockBenefit(bb cfg.BasicBlock, p *config.Profile) int64 {
	on := cost.BlockCost(bb, true, cost.OnChip, p)
	off := cost.BlockCost(bb, true, cost.OffChip, p)
	return off.ForwardStep - on.ForwardStep
}

// sortedAddrs returns cands' keys in ascending order, for deterministic
// iteration everywhere this package needs one.
func sortedAddrs(cands map[uint32]*candidate) []uint32 {
	out := make([]uint32, 0, len(cands))
	for a := range cands {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// usedSize computes the total scratchpad footprint of assigned under p,
// including widening penalties.
func usedSize(cands map[uint32]*candidate, assigned map[uint32]bool, p *config.Profile) int {
	total := 0
	for addr := range assigned {
		c, ok := cands[addr]
		if !ok {
			continue
		}
		total += c.size + c.penalty(assigned, p)
	}
	return total
}
