package fixtures

import (
	"fmt"

	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/cfgraph"
	"github.com/smetzlaff/isptap-sub000/internal/isa"
)

// arithBlock returns n two-byte-aligned arithmetic instructions starting at
// addr, the filler code every scenario below uses where the spec only cares
// about control flow, not instruction mix.
func arithBlock(addr uint32, n int) []isa.Instruction {
	out := make([]isa.Instruction, n)
	for i := 0; i < n; i++ {
		out[i] = isa.Instruction{Address: addr + uint32(2*i), Length: 2, Class: isa.Arithmetic}
	}
	return out
}

// single wraps one instruction as a one-element slice, for block tails
// (branches, calls, returns) appended after filler arithmetic.
func single(ins isa.Instruction) []isa.Instruction { return []isa.Instruction{ins} }

// addrAfter returns the address one past the end of n two-byte
// instructions starting at addr.
func addrAfter(addr uint32, n int) uint32 { return addr + uint32(2*n) }

// addArith adds a block of n filler arithmetic instructions starting at
// addr to c, the shape every scenario uses for code whose only purpose is
// to occupy a node in the control-flow graph.
func addArith(c *cfg.CFG, addr uint32, n int) (cfgraph.NodeID, error) {
	id, err := c.AddBasicBlock(cfg.BasicBlock{
		Start:        addr,
		End:          addrAfter(addr, n),
		Size:         uint32(2 * n),
		Instructions: arithBlock(addr, n),
	})
	if err != nil {
		return cfgraph.NodeID{}, fmt.Errorf("fixtures: addArith(0x%x): %w", addr, err)
	}
	return id, nil
}

// edge names one connectAll call's endpoints and kind.
type edge struct {
	from, to cfgraph.NodeID
	kind     cfg.EdgeKind
}

// connectAll wires every edge in order, stopping at the first failure.
func connectAll(c *cfg.CFG, edges ...edge) error {
	for _, e := range edges {
		if _, err := c.Connect(e.from, e.to, e.kind); err != nil {
			return err
		}
	}
	return nil
}
