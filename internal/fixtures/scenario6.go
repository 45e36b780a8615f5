package fixtures

import (
	"fmt"

	"github.com/smetzlaff/isptap-sub000/internal/callgraph"
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
)

// ScratchpadFitExact builds spec §8 scenario 6: two blocks, B1 (0x4000) and
// B2 (0x4004), connected only by a ForwardStep edge from B1 to B2 — their
// one inter-block edge stays inside the assigned set whenever both are
// placed on-chip together, so a scratchpad sized to exactly their combined
// size should report zero widening penalty. CapacityForFitExact returns
// that exact byte count.
func ScratchpadFitExact() (Scenario, error) {
	c := cfg.New("f", 0x4000)

	b1, err := addArith(c, 0x4000, 2) // 4 bytes
	if err != nil {
		return Scenario{}, err
	}
	b2, err := addArith(c, 0x4004, 2) // 4 bytes
	if err != nil {
		return Scenario{}, err
	}

	if err := connectAll(c,
		edge{c.Entry, b1, cfg.Meta},
		edge{b1, b2, cfg.ForwardStep},
		edge{b2, c.Exit, cfg.Meta},
	); err != nil {
		return Scenario{}, fmt.Errorf("fixtures: ScratchpadFitExact: %w", err)
	}
	if err := c.Finish(); err != nil {
		return Scenario{}, fmt.Errorf("fixtures: ScratchpadFitExact: %w", err)
	}

	calls := callgraph.New()
	calls.AddFunction("f")

	return Scenario{
		CFGs:  map[string]*cfg.CFG{"f": c},
		Calls: calls,
		Root:  "f",
	}, nil
}

// CapacityForFitExact is the scratchpad capacity (in bytes) that exactly
// fits ScratchpadFitExact's two blocks and nothing more.
const CapacityForFitExact = 8
