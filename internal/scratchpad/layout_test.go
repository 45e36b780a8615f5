package scratchpad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/config"
	"github.com/smetzlaff/isptap-sub000/internal/isa"
)

// branchingFunc builds a block at addr ending in a short-displacement
// unconditional branch to a far block at addr+0x1000, so the near block's
// only out-edge is a ForwardJump that triggers penaltyJumpShort whenever
// the far block is left unassigned.
func branchingFunc(t *testing.T, label string, addr uint32) *cfg.CFG {
	t.Helper()
	c := cfg.New(label, addr)

	near := cfg.BasicBlock{
		Start: addr, End: addr + 2, Size: 2,
		Instructions: []isa.Instruction{{Address: addr, Length: 2, Class: isa.BranchUncond, Displacement: isa.DispShort}},
		Opcodes:      []string{"b.n"},
	}
	farAddr := addr + 0x1000
	far := cfg.BasicBlock{
		Start: farAddr, End: farAddr + 2, Size: 2,
		Instructions: []isa.Instruction{{Address: farAddr, Length: 2, Class: isa.Return}},
	}

	n1, err := c.AddBasicBlock(near)
	require.NoError(t, err)
	n2, err := c.AddBasicBlock(far)
	require.NoError(t, err)

	_, err = c.Connect(c.Entry, n1, cfg.Meta)
	require.NoError(t, err)
	_, err = c.Connect(n1, n2, cfg.ForwardJump)
	require.NoError(t, err)
	_, err = c.Connect(n2, c.Exit, cfg.Meta)
	require.NoError(t, err)

	require.NoError(t, c.Finish())
	return c
}

func TestRewritePromotesDisplacementWhenJumpTargetUnassigned(t *testing.T) {
	p := config.Default()
	c := branchingFunc(t, "f", 0x5000)
	cfgs := map[string]*cfg.CFG{"f": c}

	Rewrite(cfgs, map[uint32]bool{0x5000: true}, p) // far block (0x6000) left off-chip

	id, ok := c.BasicBlockAt(0x5000)
	require.True(t, ok)
	nd, _ := c.Node(id)
	require.NotNil(t, nd.BB)
	last, ok := nd.BB.Last()
	require.True(t, ok)
	assert.Equal(t, isa.DispLong, last.Displacement)
	assert.Equal(t, "b.n.w", nd.BB.Opcodes[0])
}

func TestRewriteLeavesDisplacementAloneWhenTargetAssigned(t *testing.T) {
	p := config.Default()
	c := branchingFunc(t, "f", 0x5000)
	cfgs := map[string]*cfg.CFG{"f": c}

	Rewrite(cfgs, map[uint32]bool{0x5000: true, 0x6000: true}, p)

	id, ok := c.BasicBlockAt(0x5000)
	require.True(t, ok)
	nd, _ := c.Node(id)
	last, ok := nd.BB.Last()
	require.True(t, ok)
	assert.Equal(t, isa.DispShort, last.Displacement)
}
