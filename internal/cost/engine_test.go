package cost

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/config"
	"github.com/smetzlaff/isptap-sub000/internal/isa"
)

func arith(addr uint32) isa.Instruction {
	return isa.Instruction{Address: addr, Length: 2, Class: isa.Arithmetic}
}

func TestFetchBufferRoundTrip(t *testing.T) {
	p := config.Default()
	const n = 9
	var instrs []isa.Instruction
	for i := 0; i < n; i++ {
		instrs = append(instrs, arith(uint32(i*2)))
	}
	bb := cfg.BasicBlock{Start: 0, End: uint32(n * 2), Instructions: instrs}

	costs := BlockCost(bb, false, OnChip, p)

	fetchBytes := p.FetchBytesPerCycle()
	fetches := (2*n + fetchBytes - 1) / fetchBytes
	wantFetch := int64(fetches * p.Fetch.LatencyOnChip)
	wantInstr := int64(n) * (1 + int64(p.Latency.Arith))
	assert.Equal(t, wantFetch+wantInstr, costs.ForwardStep)
	assert.Equal(t, costs.ForwardStep, costs.Jump)
}

func TestBlockCostDiffersOnConditionalBranchExit(t *testing.T) {
	p := config.Default()
	p.Latency.CondTaken = 5
	p.Latency.CondNotTaken = 1

	bb := cfg.BasicBlock{
		Start: 0, End: 2,
		Instructions: []isa.Instruction{
			{Address: 0, Length: 2, Class: isa.BranchCond},
		},
	}
	costs := BlockCost(bb, false, OnChip, p)
	fetch := int64(p.Fetch.LatencyOnChip) // one fetch covers the single 2-byte instruction
	assert.NotEqual(t, costs.ForwardStep, costs.Jump)
	assert.Equal(t, fetch+int64(1+p.Latency.CondNotTaken), costs.ForwardStep)
	assert.Equal(t, fetch+int64(1+p.Latency.CondTaken), costs.Jump)
}

func TestBlockCostUniformTakesWorstCaseForCondBranch(t *testing.T) {
	p := config.Default()
	p.Latency.CondTaken = 5
	p.Latency.CondNotTaken = 1

	bb := cfg.BasicBlock{
		Start: 0, End: 2,
		Instructions: []isa.Instruction{
			{Address: 0, Length: 2, Class: isa.BranchCond},
		},
	}
	costs := BlockCostUniform(bb, false, OnChip, p)
	fetch := int64(p.Fetch.LatencyOnChip)
	assert.Equal(t, costs.ForwardStep, costs.Jump)
	assert.Equal(t, fetch+int64(1+p.Latency.CondTaken), costs.Jump)
}

func TestMultiRegMemChargesPopReturnExtraOnlyWithPC(t *testing.T) {
	p := config.Default()
	withPC := isa.Instruction{Address: 0, Length: 2, Class: isa.MultiRegMem, RegisterList: []isa.Reg{isa.R4, isa.PC}}
	withoutPC := isa.Instruction{Address: 2, Length: 2, Class: isa.MultiRegMem, RegisterList: []isa.Reg{isa.R4, isa.LR}}

	bbPC := cfg.BasicBlock{Start: 0, End: 2, Instructions: []isa.Instruction{withPC}}
	bbNoPC := cfg.BasicBlock{Start: 2, End: 4, Instructions: []isa.Instruction{withoutPC}}

	// Same register count in both blocks, and both blocks are entered by
	// fallthrough so the fetch-buffer state lines up identically — the only
	// difference in total cost is the pop-return-extra latency.
	costPC := BlockCost(bbPC, true, OnChip, p)
	costNoPC := BlockCost(bbNoPC, true, OnChip, p)

	assert.Equal(t, int64(p.Latency.PopReturnExtra), costPC.ForwardStep-costNoPC.ForwardStep)
}

func TestAssignEdgeCostStaticISPPenalty(t *testing.T) {
	on := BlockCosts{ForwardStep: 4, Jump: 6}
	off := BlockCosts{ForwardStep: 10, Jump: 14}

	cost, penalty := AssignEdgeCost(cfg.ForwardStep, on, off, StaticISP, false)
	assert.Equal(t, int64(4), cost)
	assert.Equal(t, int64(6), penalty)

	cost, penalty = AssignEdgeCost(cfg.ForwardJump, on, off, StaticISP, true)
	assert.Equal(t, int64(6), cost)
	assert.Equal(t, int64(0), penalty)

	cost, penalty = AssignEdgeCost(cfg.Meta, on, off, NoMem, false)
	assert.Equal(t, int64(10), cost)
	assert.Equal(t, int64(0), penalty)
}
