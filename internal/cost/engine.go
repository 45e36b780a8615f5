package cost

import (
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/config"
	"github.com/smetzlaff/isptap-sub000/internal/isa"
)

// MemKind selects which side of the memory-latency table a cost
// computation uses.
type MemKind int

const (
	OnChip MemKind = iota
	OffChip
)

// BlockCosts is the (forward_step_cost, jump_cost) pair spec §4.6 assigns
// to a basic block: the cycle cost of leaving it by fallthrough/Meta versus
// by a taken jump. They differ only when the block's last instruction is a
// conditional branch.
type BlockCosts struct {
	ForwardStep int64
	Jump        int64
}

// pick selects the BlockCosts field an edge of the given kind is charged:
// ForwardStep/Meta edges leave by fallthrough, ForwardJump/BackwardJump
// edges leave by a taken branch.
func (bc BlockCosts) pick(kind cfg.EdgeKind) int64 {
	if kind == cfg.ForwardStep || kind == cfg.Meta {
		return bc.ForwardStep
	}
	return bc.Jump
}

// MemoryMode selects how a BB's memory placement affects edge cost and
// penalty, per spec §4.6's edge-cost assignment rules.
type MemoryMode int

const (
	NoMem MemoryMode = iota
	StaticISP
	Dynamic
)

// AssignEdgeCost computes the (cost, memPenalty) pair for one out-edge of a
// BB whose on-chip and off-chip costs have already been computed. assigned
// reports whether the BB is statically placed in the scratchpad; it is
// ignored outside StaticISP mode.
func AssignEdgeCost(kind cfg.EdgeKind, onChip, offChip BlockCosts, mode MemoryMode, assigned bool) (cost int64, memPenalty int64) {
	switch mode {
	case NoMem:
		return offChip.pick(kind), 0
	case StaticISP:
		c := onChip.pick(kind)
		if assigned {
			return c, 0
		}
		return c, offChip.pick(kind) - onChip.pick(kind)
	default: // Dynamic: penalty is filled in later by a separate DFA, out of core scope.
		return onChip.pick(kind), 0
	}
}

// BlockCost computes a block's exit-sensitive costs: a conditional branch
// at the tail charges its taken latency onto Jump and its not-taken latency
// onto ForwardStep; every other terminator contributes the same amount to
// both.
func BlockCost(bb cfg.BasicBlock, enteredByFallthrough bool, mem MemKind, p *config.Profile) BlockCosts {
	fb := NewFetchBuffer(bb.Start, enteredByFallthrough, p)
	fetchBytes := p.FetchBytesPerCycle()
	fetchLat := p.Fetch.LatencyOnChip
	if mem == OffChip {
		fetchLat = p.Fetch.LatencyOffChip
	}

	var fs, jp int64
	for _, ins := range bb.Instructions {
		fetch := fb.Consume(int(ins.Length), fetchBytes, fetchLat)
		fs += fetch
		jp += fetch

		insFS, insJP := instructionLatency(ins, mem, p)
		fs += insFS
		jp += insJP
	}
	return BlockCosts{ForwardStep: fs, Jump: jp}
}

// BlockCostUniform mirrors the original's BB_COST_DO_NOT_DEPEND_ON_BB_EXIT
// mode: a single total that does not distinguish forward-step from jump
// exits, taking the worse (taken) latency for a trailing conditional
// branch. Both returned fields carry the same value.
func BlockCostUniform(bb cfg.BasicBlock, enteredByFallthrough bool, mem MemKind, p *config.Profile) BlockCosts {
	fb := NewFetchBuffer(bb.Start, enteredByFallthrough, p)
	fetchBytes := p.FetchBytesPerCycle()
	fetchLat := p.Fetch.LatencyOnChip
	if mem == OffChip {
		fetchLat = p.Fetch.LatencyOffChip
	}

	var total int64
	for _, ins := range bb.Instructions {
		total += fb.Consume(int(ins.Length), fetchBytes, fetchLat)
		if ins.Class == isa.BranchCond {
			total += 1 + int64(max(p.Latency.CondTaken, p.Latency.CondNotTaken))
			continue
		}
		insFS, _ := instructionLatency(ins, mem, p)
		total += insFS
	}
	return BlockCosts{ForwardStep: total, Jump: total}
}

// instructionLatency returns one instruction's contribution to
// (forward_step_cost, jump_cost), not counting fetch latency. The two
// differ only for a conditional branch.
func instructionLatency(ins isa.Instruction, mem MemKind, p *config.Profile) (fs, jp int64) {
	switch ins.Class {
	case isa.Arithmetic:
		v := 1 + int64(p.Latency.Arith)
		return v, v

	case isa.Load:
		lat := p.Latency.LoadOnChip
		if mem == OffChip {
			lat = p.Latency.LoadOffChip
		}
		v := 1 + int64(lat)
		return v, v

	case isa.Store:
		lat := p.Latency.StoreOnChip
		if mem == OffChip {
			lat = p.Latency.StoreOffChip
		}
		v := 1 + int64(lat)
		return v, v

	case isa.MultiRegMem:
		lat := p.Latency.MemOnChip
		if mem == OffChip {
			lat = p.Latency.MemOffChip
		}
		v := 1 + int64(len(ins.RegisterList))*int64(lat)
		if ins.PCInList() {
			v += int64(p.Latency.PopReturnExtra)
		}
		return v, v

	case isa.BranchUncond:
		if ins.Displacement == isa.DispIndirect {
			v := 1 + int64(p.Latency.Bx)
			return v, v
		}
		v := 1 + int64(p.Latency.Uncond)
		return v, v

	case isa.BranchCond:
		return 1 + int64(p.Latency.CondNotTaken), 1 + int64(p.Latency.CondTaken)

	case isa.Call:
		v := 1 + int64(p.Latency.Call)
		return v, v

	case isa.CallIndirect:
		v := 1 + int64(p.Latency.Blx)
		return v, v

	case isa.Return:
		v := 1 + int64(p.Latency.Bx)
		return v, v

	case isa.MemBarrier:
		v := 1 + int64(memBarrierLatency(ins, p))
		return v, v

	default: // isa.System and anything else non-control-flow, non-memory
		v := 1 + int64(p.Latency.System)
		return v, v
	}
}

// memBarrierLatency disambiguates DMB/DSB/ISB from the raw 32-bit encoding,
// since isa.Class collapses all three into MemBarrier (classify.go's
// decode32, option field at bits [7:4] of the second halfword).
func memBarrierLatency(ins isa.Instruction, p *config.Profile) int {
	opt := (uint16(ins.Raw) >> 4) & 0xFFF
	switch opt {
	case 0x8F4:
		return p.Latency.Dsb
	case 0x8F6:
		return p.Latency.Isb
	default: // 0x8F5 and any unrecognized variant default to DMB's latency
		return p.Latency.Dmb
	}
}
