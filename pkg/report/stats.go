package report

import (
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/ipet"
	"github.com/smetzlaff/isptap-sub000/internal/isa"
)

// InstrStats tallies the WC-path's instructions by category. It supplements
// the trace and histogram spec §6 names with the teacher's instr_stat_t /
// countAndCategorizeInstruction breakdown, rebuilt here as a walk over the
// already-exported path rather than a second pass over the annotated graph
// (the path already visits each block once per its activation count, so no
// activation weighting is needed).
type InstrStats struct {
	Instructions  uint64
	Arithmetic    uint64
	Branch        uint64
	CondBranch    uint64
	Call          uint64
	Return        uint64
	Load          uint64
	Store         uint64
	MultiRegMem   uint64 // PUSH/POP/LDM/STM: direction isn't recoverable from isa.Class alone
	Sync          uint64
	Other         uint64
	Unknown       uint64
}

// ComputeInstrStats categorizes every instruction the path visits.
func ComputeInstrStats(path []ipet.PathStep) InstrStats {
	var s InstrStats
	for _, step := range path {
		if step.Data.Kind != cfg.BasicBlockNode || step.Data.BB == nil {
			continue
		}
		for _, ins := range step.Data.BB.Instructions {
			s.Instructions++
			switch ins.Class {
			case isa.Arithmetic:
				s.Arithmetic++
			case isa.BranchUncond:
				s.Branch++
			case isa.BranchCond:
				s.CondBranch++
			case isa.Call, isa.CallIndirect:
				s.Call++
			case isa.Return:
				s.Return++
			case isa.Load:
				s.Load++
			case isa.MultiRegMem:
				s.MultiRegMem++
			case isa.Store:
				s.Store++
			case isa.MemBarrier:
				s.Sync++
			case isa.System:
				s.Other++
			default:
				s.Unknown++
			}
		}
	}
	return s
}
