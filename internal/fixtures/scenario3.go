package fixtures

import (
	"fmt"
	"strings"

	"github.com/smetzlaff/isptap-sub000/internal/callgraph"
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/flowfacts"
	"github.com/smetzlaff/isptap-sub000/internal/isa"
)

// CondInsideLoop builds spec §8 scenario 3: a loop (head 0x0300, back edge
// from 0x0320) whose body contains a conditional block A (0x0302) with
// distinct taken ("skip", a ForwardJump to 0x0310) and not-taken
// ("fallthrough", a ForwardStep into 0x0304 doing extra work) successors,
// both rejoining at a common block (0x0320) before the loop either repeats
// or exits to 0x0330.
func CondInsideLoop(bound int64) (Scenario, error) {
	c := cfg.New("f", 0x0300)

	head, err := addArith(c, 0x0300, 1)
	if err != nil {
		return Scenario{}, err
	}
	a, err := c.AddBasicBlock(cfg.BasicBlock{
		Start: 0x0302, End: 0x0304, Size: 2,
		Instructions: single(isa.Instruction{Address: 0x0302, Length: 2, Class: isa.BranchCond}),
	})
	if err != nil {
		return Scenario{}, fmt.Errorf("fixtures: CondInsideLoop: %w", err)
	}
	fallthroughBlk, err := addArith(c, 0x0304, 2)
	if err != nil {
		return Scenario{}, err
	}
	skip, err := addArith(c, 0x0310, 1)
	if err != nil {
		return Scenario{}, err
	}
	bottom, err := addArith(c, 0x0320, 1)
	if err != nil {
		return Scenario{}, err
	}
	after, err := addArith(c, 0x0330, 1)
	if err != nil {
		return Scenario{}, err
	}

	if err := connectAll(c,
		edge{c.Entry, head, cfg.Meta},  // loop-injecting edge
		edge{head, a, cfg.ForwardStep},
		edge{a, skip, cfg.ForwardJump},        // taken
		edge{a, fallthroughBlk, cfg.ForwardStep}, // not taken
		edge{skip, bottom, cfg.ForwardStep},
		edge{fallthroughBlk, bottom, cfg.ForwardStep},
		edge{bottom, head, cfg.BackwardJump}, // the loop back edge
		edge{bottom, after, cfg.ForwardStep}, // loop exit
		edge{after, c.Exit, cfg.Meta},
	); err != nil {
		return Scenario{}, fmt.Errorf("fixtures: CondInsideLoop: %w", err)
	}
	if err := c.Finish(); err != nil {
		return Scenario{}, fmt.Errorf("fixtures: CondInsideLoop: %w", err)
	}

	calls := callgraph.New()
	calls.AddFunction("f")

	flow, err := flowfacts.Load(strings.NewReader(fmt.Sprintf(
		"edges:\n  - from: \"0x%x\"\n    to: \"0x%x\"\n    max_iterations: %d\n", 0x0320, 0x0300, bound)))
	if err != nil {
		return Scenario{}, fmt.Errorf("fixtures: CondInsideLoop: %w", err)
	}

	return Scenario{
		CFGs:  map[string]*cfg.CFG{"f": c},
		Calls: calls,
		Flow:  flow,
		Root:  "f",
	}, nil
}
