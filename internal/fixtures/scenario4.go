package fixtures

import (
	"fmt"

	"github.com/smetzlaff/isptap-sub000/internal/callgraph"
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
)

// FunctionCalledTwice builds spec §8 scenario 4: a leaf function "leaf"
// called from two distinct call sites (0x2000 and 0x2010) inside "main".
// internal/scfg.Build inlines "leaf" once per call site, so the resulting
// SCFG carries two independent copies with distinct node identities —
// changing "leaf"'s own cost changes the caller's WCET by the sum of both
// sites' activation counts times that delta.
func FunctionCalledTwice() (Scenario, error) {
	leaf := cfg.New("leaf", 0x0ff0) // Entry's own Addr, distinct from the body block below
	leafBB, err := addArith(leaf, 0x1000, 2)
	if err != nil {
		return Scenario{}, err
	}
	if err := connectAll(leaf,
		edge{leaf.Entry, leafBB, cfg.Meta},
		edge{leafBB, leaf.Exit, cfg.Meta},
	); err != nil {
		return Scenario{}, fmt.Errorf("fixtures: FunctionCalledTwice: %w", err)
	}
	if err := leaf.Finish(); err != nil {
		return Scenario{}, fmt.Errorf("fixtures: FunctionCalledTwice: %w", err)
	}

	main := cfg.New("main", 0x2000)
	call1, err := main.AddCallSite(0x2000, "leaf")
	if err != nil {
		return Scenario{}, fmt.Errorf("fixtures: FunctionCalledTwice: %w", err)
	}
	mid, err := addArith(main, 0x2004, 1)
	if err != nil {
		return Scenario{}, err
	}
	call2, err := main.AddCallSite(0x2010, "leaf")
	if err != nil {
		return Scenario{}, fmt.Errorf("fixtures: FunctionCalledTwice: %w", err)
	}
	if err := connectAll(main,
		edge{main.Entry, call1, cfg.Meta},
		edge{call1, mid, cfg.Meta},
		edge{mid, call2, cfg.ForwardStep},
		edge{call2, main.Exit, cfg.Meta},
	); err != nil {
		return Scenario{}, fmt.Errorf("fixtures: FunctionCalledTwice: %w", err)
	}
	if err := main.Finish(); err != nil {
		return Scenario{}, fmt.Errorf("fixtures: FunctionCalledTwice: %w", err)
	}

	calls := callgraph.New()
	calls.AddCall("main", "leaf")

	return Scenario{
		CFGs:  map[string]*cfg.CFG{"main": main, "leaf": leaf},
		Calls: calls,
		Root:  "main",
	}, nil
}
