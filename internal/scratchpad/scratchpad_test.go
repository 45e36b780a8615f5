package scratchpad

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/config"
	"github.com/smetzlaff/isptap-sub000/internal/isa"
)

// twoBlockFunc builds a two-block function: a Load-heavy block at addr
// falling through to an Arithmetic-only block at addr+size, terminated by
// a Return. Each block is size bytes of Load/Arithmetic instructions.
func twoBlockFunc(t *testing.T, label string, addr uint32, size uint32) *cfg.CFG {
	t.Helper()
	c := cfg.New(label, addr)

	bb1 := cfg.BasicBlock{
		Start: addr,
		End:   addr + size,
		Size:  size,
		Instructions: []isa.Instruction{
			{Address: addr, Length: 2, Class: isa.Load},
			{Address: addr + 2, Length: 2, Class: isa.Load},
		},
	}
	bb2Addr := addr + size
	bb2 := cfg.BasicBlock{
		Start: bb2Addr,
		End:   bb2Addr + size,
		Size:  size,
		Instructions: []isa.Instruction{
			{Address: bb2Addr, Length: 2, Class: isa.Arithmetic},
			{Address: bb2Addr + 2, Length: 2, Class: isa.Return},
		},
	}

	n1, err := c.AddBasicBlock(bb1)
	require.NoError(t, err)
	n2, err := c.AddBasicBlock(bb2)
	require.NoError(t, err)

	_, err = c.Connect(c.Entry, n1, cfg.Meta)
	require.NoError(t, err)
	_, err = c.Connect(n1, n2, cfg.ForwardStep)
	require.NoError(t, err)
	_, err = c.Connect(n2, c.Exit, cfg.Meta)
	require.NoError(t, err)

	require.NoError(t, c.Finish())
	return c
}

func TestBuildCandidatesCollectsEveryBlockWithContinuousAddressingPenalty(t *testing.T) {
	p := config.Default()
	c := twoBlockFunc(t, "f", 0x1000, 4)
	cands := buildCandidates(map[string]*cfg.CFG{"f": c}, p)

	require.Len(t, cands, 2)
	first := cands[0x1000]
	require.NotNil(t, first)
	assert.Greater(t, first.benefit, int64(0), "a load-heavy block should benefit from on-chip placement")
	assert.Contains(t, first.kindTargets[penaltyContinuousAddressing], uint32(0x1004))
}

func TestGreedyAssignRespectsCapacity(t *testing.T) {
	p := config.Default()
	c := twoBlockFunc(t, "f", 0x1000, 4)
	cands := buildCandidates(map[string]*cfg.CFG{"f": c}, p)

	assigned := greedyAssign(cands, 4, p)
	assert.LessOrEqual(t, usedSize(cands, assigned, p), 4)
	assert.NotEmpty(t, assigned, "4 bytes of capacity should fit exactly one 4-byte block")
}

func TestGreedyAssignInfeasibleCapacityAssignsNothing(t *testing.T) {
	p := config.Default()
	c := twoBlockFunc(t, "f", 0x1000, 4)
	cands := buildCandidates(map[string]*cfg.CFG{"f": c}, p)

	assigned := greedyAssign(cands, 0, p)
	assert.Empty(t, assigned)
}

func TestRefineNeverExceedsCapacityOrRegressesBenefit(t *testing.T) {
	p := config.Default()
	c := twoBlockFunc(t, "f", 0x1000, 4)
	cands := buildCandidates(map[string]*cfg.CFG{"f": c}, p)

	seed := greedyAssign(cands, 4, p)
	refined := refine(cands, seed, 4, p, 0)

	assert.LessOrEqual(t, usedSize(cands, refined, p), 4)
	assert.GreaterOrEqual(t, totalBenefit(cands, refined), totalBenefit(cands, seed))
}

func TestEstimateCriticalPathPrefersOffChipCostWhenUnassigned(t *testing.T) {
	p := config.Default()
	c := twoBlockFunc(t, "f", 0x1000, 4)

	unassigned := estimateCriticalPath(c, map[uint32]bool{}, p)
	assigned := estimateCriticalPath(c, map[uint32]bool{0x1000: true, 0x1004: true}, p)

	assert.Greater(t, unassigned, int64(0))
	assert.Less(t, assigned, unassigned, "placing both blocks on-chip must not cost more than leaving them off-chip")
}

func TestOptimizerWithoutSolverFallsBackToHeuristic(t *testing.T) {
	p := config.Default()
	c := twoBlockFunc(t, "f", 0x1000, 4)
	cfgs := map[string]*cfg.CFG{"f": c}

	opt := NewOptimizer(cfgs, p, SolverConfig{})
	opt.SetSize(4)
	result, err := opt.ComputeAssignment(context.Background())
	require.NoError(t, err)

	assert.Equal(t, NotCalculated, result.Kind)
	assert.LessOrEqual(t, result.UsedSize, 4)
	assert.Equal(t, result.AssignedBlockAddrs, opt.GetBlockAssignment())
	assert.Equal(t, result.UsedSize, opt.UsedSize())
}

func TestOptimizerWithSolverUsesExactAssignmentWhenFeasible(t *testing.T) {
	p := config.Default()
	c := twoBlockFunc(t, "f", 0x1000, 4)
	cfgs := map[string]*cfg.CFG{"f": c}

	opt := NewOptimizer(cfgs, p, SolverConfig{
		Binary: "/bin/sh",
		Args:   []string{"-c", "cat > /dev/null; echo 'a4096 0'; echo 'a4100 1'; echo 'sp 4'"},
	})
	opt.SetSize(4)
	result, err := opt.ComputeAssignment(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Optimal, result.Kind)
	assert.Equal(t, []uint32{0x1004}, result.AssignedBlockAddrs)
	assert.Equal(t, 4, result.UsedSize)
}

func TestOptimizerWithSolverFallsBackWhenSolverReportsInfeasible(t *testing.T) {
	p := config.Default()
	c := twoBlockFunc(t, "f", 0x1000, 4)
	cfgs := map[string]*cfg.CFG{"f": c}

	opt := NewOptimizer(cfgs, p, SolverConfig{
		Binary: "/bin/sh",
		Args:   []string{"-c", "cat > /dev/null; echo 'This problem is INFEASIBLE'"},
	})
	opt.SetSize(4)
	result, err := opt.ComputeAssignment(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Infeasible, result.Kind)
}

func TestVarNameMatchesSpecVariableConvention(t *testing.T) {
	assert.Equal(t, "a4096", varName(0x1000))
}
