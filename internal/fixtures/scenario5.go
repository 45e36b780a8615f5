package fixtures

import (
	"fmt"

	"github.com/smetzlaff/isptap-sub000/internal/callgraph"
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/isa"
)

// UnresolvedIndirectBranch builds spec §8 scenario 5: a block (0x3000)
// whose indirect branch could not be resolved to a single target, modeled
// as an UnknownJumpTargetNode side-edge alongside the block's ordinary
// resolved successor (0x3002). Nothing forces flow onto the unresolved
// edge, so a WC-path solve that never activates it — the scenario's
// expectation — is a property of how the caller drives IPET over this
// fixture, not of the fixture's own structure.
func UnresolvedIndirectBranch() (Scenario, error) {
	c := cfg.New("f", 0x3000)

	bb1, err := c.AddBasicBlock(cfg.BasicBlock{
		Start: 0x3000, End: 0x3002, Size: 2,
		Instructions: single(isa.Instruction{Address: 0x3000, Length: 2, Class: isa.BranchUncond}),
	})
	if err != nil {
		return Scenario{}, fmt.Errorf("fixtures: UnresolvedIndirectBranch: %w", err)
	}
	bb2, err := addArith(c, 0x3002, 1)
	if err != nil {
		return Scenario{}, err
	}
	unk, err := c.AddUnknownJumpTarget(0x3000)
	if err != nil {
		return Scenario{}, fmt.Errorf("fixtures: UnresolvedIndirectBranch: %w", err)
	}

	if err := connectAll(c,
		edge{c.Entry, bb1, cfg.Meta},
		edge{bb1, bb2, cfg.ForwardStep},    // resolved fallthrough successor
		edge{bb1, unk, cfg.ForwardJump},    // the unresolved indirect target
		edge{bb2, c.Exit, cfg.Meta},
		edge{unk, c.Exit, cfg.Meta},
	); err != nil {
		return Scenario{}, fmt.Errorf("fixtures: UnresolvedIndirectBranch: %w", err)
	}
	if err := c.Finish(); err != nil {
		return Scenario{}, fmt.Errorf("fixtures: UnresolvedIndirectBranch: %w", err)
	}

	calls := callgraph.New()
	calls.AddFunction("f")

	return Scenario{
		CFGs:  map[string]*cfg.CFG{"f": c},
		Calls: calls,
		Root:  "f",
	}, nil
}
