package fixtures

import (
	"fmt"
	"strings"

	"github.com/smetzlaff/isptap-sub000/internal/callgraph"
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/flowfacts"
	"github.com/smetzlaff/isptap-sub000/internal/isa"
)

// SingleForLoop builds spec §8 scenario 2: a single-block loop headed at
// 0x0100, with bound iterations recorded as a self back edge's flow fact.
// The loop head's only non-back in-edge is Entry's, so it is also the
// loop-injecting edge loophelper.LoopInjectingEdge expects.
func SingleForLoop(bound int64) (Scenario, error) {
	const headAddr = 0x0100
	c := cfg.New("f", headAddr)

	head, err := c.AddBasicBlock(cfg.BasicBlock{
		Start:        headAddr,
		End:          addrAfter(headAddr, 2),
		Size:         4,
		Instructions: append(arithBlock(headAddr, 1), single(isa.Instruction{Address: headAddr + 2, Length: 2, Class: isa.BranchCond})...),
	})
	if err != nil {
		return Scenario{}, fmt.Errorf("fixtures: SingleForLoop: %w", err)
	}

	afterAddr := addrAfter(headAddr, 2)
	after, err := c.AddBasicBlock(cfg.BasicBlock{
		Start:        afterAddr,
		End:          addrAfter(afterAddr, 1),
		Size:         2,
		Instructions: arithBlock(afterAddr, 1),
	})
	if err != nil {
		return Scenario{}, fmt.Errorf("fixtures: SingleForLoop: %w", err)
	}

	if _, err := c.Connect(c.Entry, head, cfg.Meta); err != nil { // loop-injecting edge
		return Scenario{}, fmt.Errorf("fixtures: SingleForLoop: %w", err)
	}
	if _, err := c.Connect(head, head, cfg.BackwardJump); err != nil { // the back edge bound below
		return Scenario{}, fmt.Errorf("fixtures: SingleForLoop: %w", err)
	}
	if _, err := c.Connect(head, after, cfg.ForwardStep); err != nil {
		return Scenario{}, fmt.Errorf("fixtures: SingleForLoop: %w", err)
	}
	if _, err := c.Connect(after, c.Exit, cfg.Meta); err != nil {
		return Scenario{}, fmt.Errorf("fixtures: SingleForLoop: %w", err)
	}
	if err := c.Finish(); err != nil {
		return Scenario{}, fmt.Errorf("fixtures: SingleForLoop: %w", err)
	}

	calls := callgraph.New()
	calls.AddFunction("f")

	flow, err := flowfacts.Load(strings.NewReader(fmt.Sprintf(
		"edges:\n  - from: \"0x%x\"\n    to: \"0x%x\"\n    max_iterations: %d\n", headAddr, headAddr, bound)))
	if err != nil {
		return Scenario{}, fmt.Errorf("fixtures: SingleForLoop: %w", err)
	}

	return Scenario{
		CFGs:  map[string]*cfg.CFG{"f": c},
		Calls: calls,
		Flow:  flow,
		Root:  "f",
	}, nil
}
