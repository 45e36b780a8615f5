package scratchpad

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/config"
	"github.com/smetzlaff/isptap-sub000/internal/lpsolve"
)

// SolverConfig names the external LP solver binary the Optimizer submits
// its exact formulation to, mirroring internal/lpsolve.Solve's own
// binary/args/timeout triple. A zero value (Binary == "") disables the
// exact path: ComputeAssignment then reports whatever the greedy+two-opt
// heuristic found, with Kind set to NotCalculated.
type SolverConfig struct {
	Binary  string
	Args    []string
	Timeout time.Duration
}

// Optimizer is the spec §4.7 ISP assignment contract: set_size,
// compute_assignment, get_block_assignment, used_size.
type Optimizer struct {
	cfgs    map[string]*cfg.CFG
	profile *config.Profile
	solver  SolverConfig

	capacity int
	result   Assignment
}

// NewOptimizer builds an Optimizer over every function CFG in cfgs (the
// whole program's raw, per-function graphs — ISP placement is a
// cross-function, context-free decision made before any context-sensitive
// WCET computation runs over the inlined MSG).
func NewOptimizer(cfgs map[string]*cfg.CFG, profile *config.Profile, solver SolverConfig) *Optimizer {
	return &Optimizer{cfgs: cfgs, profile: profile, solver: solver}
}

// SetSize sets the scratchpad's capacity in bytes, per spec §4.7's
// set_size.
func (o *Optimizer) SetSize(capacityBytes int) {
	o.capacity = capacityBytes
}

// ComputeAssignment runs the optimizer: it builds the candidate set, seeds
// a feasible assignment with greedyAssign, refines it with the two-opt
// local search, and — if a solver binary is configured — submits the exact
// ILP formulation. When the solver reports Optimal or SubOptimal, the
// solver's assignment is kept whenever its used size (penalties included)
// fits the capacity; otherwise the heuristic assignment is kept. Any other
// solver status is returned as Kind alongside the heuristic assignment.
func (o *Optimizer) ComputeAssignment(ctx context.Context) (Assignment, error) {
	cands := buildCandidates(o.cfgs, o.profile)

	seed := greedyAssign(cands, o.capacity, o.profile)
	heuristic := refine(cands, seed, o.capacity, o.profile, 0)

	result := Assignment{
		Kind:               SubOptimal,
		UsedSize:           usedSize(cands, heuristic, o.profile),
		AssignedBlockAddrs: sortedAssigned(heuristic),
		EstimatedCycles:    estimateProgramCycles(o.cfgs, heuristic, o.profile),
	}
	if len(heuristic) == 0 && o.capacity >= 0 {
		result.Kind = Optimal // nothing fits, nothing to improve on
	}

	if o.solver.Binary == "" {
		result.Kind = NotCalculated
		return o.setResult(result), nil
	}

	problem, order := buildProblem(cands, o.capacity, o.profile)
	values, status, err := lpsolve.Solve(ctx, o.solver.Binary, o.solver.Args, problem, o.solver.Timeout)
	if err != nil {
		return o.setResult(result), fmt.Errorf("scratchpad: solve: %w", err)
	}
	if status != lpsolve.Optimal && status != lpsolve.SubOptimal {
		result.Kind = status
		return o.setResult(result), nil
	}

	exact := make(map[uint32]bool)
	for _, addr := range order {
		if values[varName(addr)] > 0.5 {
			exact[addr] = true
		}
	}
	exactResult := Assignment{
		Kind:               status,
		UsedSize:           usedSize(cands, exact, o.profile),
		AssignedBlockAddrs: sortedAssigned(exact),
		EstimatedCycles:    estimateProgramCycles(o.cfgs, exact, o.profile),
	}
	if exactResult.UsedSize <= o.capacity {
		return o.setResult(exactResult), nil
	}
	return o.setResult(result), nil
}

func (o *Optimizer) setResult(a Assignment) Assignment {
	o.result = a
	return a
}

// GetBlockAssignment returns the block start addresses the last
// ComputeAssignment call placed on-chip, per spec §4.7's
// get_block_assignment.
func (o *Optimizer) GetBlockAssignment() []uint32 {
	return o.result.AssignedBlockAddrs
}

// UsedSize returns the scratchpad footprint of the last computed
// assignment, per spec §4.7's used_size.
func (o *Optimizer) UsedSize() int {
	return o.result.UsedSize
}

func sortedAssigned(assigned map[uint32]bool) []uint32 {
	out := make([]uint32, 0, len(assigned))
	for a := range assigned {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// varName is the LP variable naming spec §6 requires: block-assignment
// indicators must match `a\d+` so the solver boundary's consumer can
// distinguish them from everything else the solver echoes back.
func varName(addr uint32) string { return fmt.Sprintf("a%d", addr) }

// penaltyVarName names a block/kind widening-penalty auxiliary variable.
// It deliberately does not match `a\d+` or `sp`: spec §6 only promises
// those two are meaningful, and every other name — these included — is
// passed through unexamined by the core.
func penaltyVarName(addr uint32, kind penaltyKind) string {
	return fmt.Sprintf("p%d_%d", addr, kind)
}

// buildProblem writes the exact ILP formulation: a binary a<addr> per
// candidate block; a binary auxiliary p<addr>_<kind> per (block, penalty
// kind) pair the block actually has, forced to 1 whenever any of that
// kind's targets is unassigned via "p + a_target >= 1" rows (one row per
// target, so p can only be 0 once every target is 1); an equality row
// defining the aggregated "sp" variable spec §6 names as size-plus-
// penalties; "sp <= capacity"; and an objective maximizing total benefit.
func buildProblem(cands map[uint32]*candidate, capacity int, p *config.Profile) (lpsolve.Problem, []uint32) {
	order := sortedAddrs(cands)

	var prob lpsolve.Problem
	prob.Minimize = false

	spTerms := []lpsolve.Term{{Var: "sp", Coeff: -1}}
	for _, addr := range order {
		c := cands[addr]
		av := varName(addr)
		prob.BinaryVars = append(prob.BinaryVars, av)
		prob.Objective = append(prob.Objective, lpsolve.Term{Var: av, Coeff: float64(c.benefit)})
		spTerms = append(spTerms, lpsolve.Term{Var: av, Coeff: float64(c.size)})

		kinds := sortedKinds(c.kindTargets)
		for _, kind := range kinds {
			targets := c.kindTargets[kind]
			pv := penaltyVarName(addr, kind)
			prob.BinaryVars = append(prob.BinaryVars, pv)
			spTerms = append(spTerms, lpsolve.Term{Var: pv, Coeff: float64(kind.bytes(p))})

			for i, t := range targets {
				prob.Constraints = append(prob.Constraints, lpsolve.Constraint{
					Name: fmt.Sprintf("pen_%d_%d_%d", addr, kind, i),
					Terms: []lpsolve.Term{
						{Var: pv, Coeff: 1},
						{Var: varName(t), Coeff: 1},
					},
					Op:  lpsolve.GE,
					RHS: 1,
				})
			}
		}
	}

	prob.Constraints = append(prob.Constraints, lpsolve.Constraint{
		Name:  "space_def",
		Terms: spTerms,
		Op:    lpsolve.EQ,
		RHS:   0,
	})
	prob.Constraints = append(prob.Constraints, lpsolve.Constraint{
		Name:  "capacity",
		Terms: []lpsolve.Term{{Var: "sp", Coeff: 1}},
		Op:    lpsolve.LE,
		RHS:   float64(capacity),
	})

	return prob, order
}

func sortedKinds(m map[penaltyKind][]uint32) []penaltyKind {
	out := make([]penaltyKind, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
