package scratchpad

import "github.com/smetzlaff/isptap-sub000/internal/lpsolve"

// SolutionKind is spec §4.7's enumerated outcome of compute_assignment.
// It is lpsolve.Status directly: the two vocabularies name the exact same
// five outcomes, and the scratchpad optimizer's own solve path is a
// straight pass-through of whatever internal/lpsolve reports.
type SolutionKind = lpsolve.Status

const (
	NotCalculated = lpsolve.NotCalculated
	Optimal       = lpsolve.Optimal
	SubOptimal    = lpsolve.SubOptimal
	Infeasible    = lpsolve.Infeasible
	Timeout       = lpsolve.Timeout
)

// Assignment is the result of compute_assignment.
type Assignment struct {
	Kind               SolutionKind
	UsedSize           int
	AssignedBlockAddrs []uint32
	EstimatedCycles    int64
}

// penaltyKind is one of spec §4.7's three widening-penalty kinds.
type penaltyKind int

const (
	penaltyNone penaltyKind = iota
	penaltyContinuousAddressing
	penaltyJumpShort
	penaltyCallShort
)
