package scratchpad

import (
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/config"
	"github.com/smetzlaff/isptap-sub000/internal/isa"
)

// Rewrite mutates cfgs in place once a scratchpad Assignment is final: any
// basic block whose jump-short or call-short widening penalty actually
// applies under assigned — because the branch's target was left off-chip —
// has its terminating instruction's Displacement promoted from
// isa.DispShort to isa.DispLong, and, where the decoder preserved verbatim
// disassembly text in BasicBlock.Opcodes, that entry rewritten with a
// ".w" long-form suffix. This keeps the structured and textual views of
// the code in sync after layout changes, the same two-layer update
// disp_instrumentator.cpp performs once a block's final address and
// neighbors are fixed; continuous-addressing penalties are left alone
// since they widen a fetch, not an instruction's own encoding.
func Rewrite(cfgs map[string]*cfg.CFG, assigned map[uint32]bool, p *config.Profile) {
	cands := buildCandidates(cfgs, p)
	for _, addr := range sortedAddrs(cands) {
		c := cands[addr]
		if !widensEncoding(c, assigned) {
			continue
		}
		if bb := findBasicBlock(cfgs, addr); bb != nil {
			widenLast(bb)
		}
	}
}

// widensEncoding reports whether c's jump-short or call-short target is
// left unassigned, forcing its own terminating branch/call to widen.
func widensEncoding(c *candidate, assigned map[uint32]bool) bool {
	for _, t := range c.kindTargets[penaltyJumpShort] {
		if !assigned[t] {
			return true
		}
	}
	for _, t := range c.kindTargets[penaltyCallShort] {
		if !assigned[t] {
			return true
		}
	}
	return false
}

// findBasicBlock locates the *cfg.BasicBlock starting at addr across every
// function CFG in cfgs.
func findBasicBlock(cfgs map[string]*cfg.CFG, addr uint32) *cfg.BasicBlock {
	for _, c := range cfgs {
		id, ok := c.BasicBlockAt(addr)
		if !ok {
			continue
		}
		nd, ok := c.Node(id)
		if !ok || nd.BB == nil {
			continue
		}
		return nd.BB
	}
	return nil
}

// widenLast promotes bb's terminating instruction to a long-form
// displacement and, if verbatim opcode text survived decode, annotates it
// to match.
func widenLast(bb *cfg.BasicBlock) {
	if len(bb.Instructions) == 0 {
		return
	}
	last := len(bb.Instructions) - 1
	bb.Instructions[last].Displacement = isa.DispLong
	if last < len(bb.Opcodes) && bb.Opcodes[last] != "" {
		bb.Opcodes[last] = bb.Opcodes[last] + ".w"
	}
}
