package ipet

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/smetzlaff/isptap-sub000/internal/flowfacts"
	"github.com/smetzlaff/isptap-sub000/internal/lpsolve"
	"github.com/smetzlaff/isptap-sub000/internal/vivu"
)

// SolverConfig names the external LP solver binary Compute submits the
// IPET formulation to, mirroring internal/scratchpad.SolverConfig's own
// binary/args/timeout triple — the two packages deliberately don't share a
// type, since a caller may reasonably want WCET solved by a different
// solver invocation than ISP assignment.
type SolverConfig struct {
	Binary  string
	Args    []string
	Timeout time.Duration
}

// Compute runs the IPET core over m, which must already be cost-annotated
// (see Annotate): a feasibility pre-check, LP generation, external solve,
// activation write-back, and WC-path/histogram export.
func Compute(ctx context.Context, m *vivu.MSG, solver SolverConfig) (Result, error) {
	if !HasFeasibleCirculation(m) {
		return Result{Kind: Infeasible}, nil
	}

	problem, edges := BuildProblem(m)
	values, status, err := lpsolve.Solve(ctx, solver.Binary, solver.Args, problem, solver.Timeout)
	if err != nil {
		return Result{Kind: NotCalculated}, fmt.Errorf("ipet: solve: %w", err)
	}
	if status != lpsolve.Optimal && status != lpsolve.SubOptimal {
		return Result{Kind: status}, nil
	}

	for i, e := range edges {
		edata, _, _, ok := m.FullEdge(e)
		if !ok {
			continue
		}
		if v, present := values[edgeVar(i)]; present {
			edata.Activation = int64(math.Round(v))
		} else {
			edata.Activation = flowfacts.Unknown
		}
		if err := m.SetFullEdge(e, edata); err != nil {
			return Result{Kind: NotCalculated}, fmt.Errorf("ipet: write back activation: %w", err)
		}
	}

	path := ExportPath(m)
	return Result{
		Kind:      status,
		WCET:      WCET(m),
		Path:      path,
		Histogram: Histogram(path),
	}, nil
}
