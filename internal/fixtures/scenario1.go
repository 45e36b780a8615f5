package fixtures

import (
	"fmt"

	"github.com/smetzlaff/isptap-sub000/internal/callgraph"
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
)

// StraightLineBlock builds spec §8 scenario 1: a single function "f"
// consisting of one basic block of four aligned 2-byte arithmetic
// instructions at 0x0000, with no branches, calls, or loops.
func StraightLineBlock() (Scenario, error) {
	c := cfg.New("f", 0x0000)
	bb, err := c.AddBasicBlock(cfg.BasicBlock{
		Start:        0x0000,
		End:          addrAfter(0x0000, 4),
		Size:         8,
		Instructions: arithBlock(0x0000, 4),
	})
	if err != nil {
		return Scenario{}, fmt.Errorf("fixtures: StraightLineBlock: %w", err)
	}
	if _, err := c.Connect(c.Entry, bb, cfg.Meta); err != nil {
		return Scenario{}, fmt.Errorf("fixtures: StraightLineBlock: %w", err)
	}
	if _, err := c.Connect(bb, c.Exit, cfg.Meta); err != nil {
		return Scenario{}, fmt.Errorf("fixtures: StraightLineBlock: %w", err)
	}
	if err := c.Finish(); err != nil {
		return Scenario{}, fmt.Errorf("fixtures: StraightLineBlock: %w", err)
	}

	calls := callgraph.New()
	calls.AddFunction("f")

	return Scenario{
		CFGs:  map[string]*cfg.CFG{"f": c},
		Calls: calls,
		Root:  "f",
	}, nil
}
