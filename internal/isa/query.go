package isa

// JumpTarget returns the resolved branch target, if any. It is defined only
// for direct branches/calls (BranchUncond, BranchCond, Call); indirect and
// non-control-flow instructions always report ok=false.
func JumpTarget(ins Instruction) (target uint32, ok bool) {
	if ins.Target == nil {
		return 0, false
	}
	switch ins.Class {
	case BranchUncond, BranchCond, Call:
		return *ins.Target, true
	default:
		return 0, false
	}
}

// RegisterList returns the decoded register list for a MultiRegMem
// instruction, or (nil, false) for any other class.
func RegisterList(ins Instruction) ([]Reg, bool) {
	if ins.Class != MultiRegMem {
		return nil, false
	}
	return ins.RegisterList, true
}

// PCInList reports whether ins is a MultiRegMem instruction whose register
// list includes PC (the classic "pop {..., pc}" return idiom). Non-MultiRegMem
// instructions always report false.
func PCInList(ins Instruction) bool {
	if ins.Class != MultiRegMem {
		return false
	}
	return ins.PCInList()
}

// DisplacementCategoryOf returns the displacement size class used by the
// scratchpad optimizer to price widening. Non-control-flow instructions
// always report DispNone.
func DisplacementCategoryOf(ins Instruction) DisplacementCategory {
	if !ins.Class.IsControlFlow() {
		return DispNone
	}
	return ins.Displacement
}
