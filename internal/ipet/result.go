package ipet

import (
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/cfgraph"
	"github.com/smetzlaff/isptap-sub000/internal/lpsolve"
)

// SolutionKind aliases lpsolve.Status: IPET's solve path reports the exact
// same five outcomes internal/scratchpad does, via the same shared boundary.
type SolutionKind = lpsolve.Status

const (
	NotCalculated = lpsolve.NotCalculated
	Optimal       = lpsolve.Optimal
	SubOptimal    = lpsolve.SubOptimal
	Infeasible    = lpsolve.Infeasible
	Timeout       = lpsolve.Timeout
)

// PathStep is one node visited along the exported WC-path.
type PathStep struct {
	Node         cfgraph.NodeID
	Data         cfg.NodeData
	ContextDepth int
}

// Result is the outcome of running the IPET core end to end over one MSG.
type Result struct {
	Kind      SolutionKind
	WCET      int64
	Path      []PathStep
	Histogram map[uint32]int64 // basic-block address -> activation count
}
