package ipet

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smetzlaff/isptap-sub000/internal/callgraph"
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/config"
	"github.com/smetzlaff/isptap-sub000/internal/cost"
	"github.com/smetzlaff/isptap-sub000/internal/isa"
	"github.com/smetzlaff/isptap-sub000/internal/scfg"
	"github.com/smetzlaff/isptap-sub000/internal/vivu"
)

// straightLineMSG builds Entry -> bb(0x1000, two Load instructions) ->
// bb(0x1004, Arithmetic + Return) -> Exit, with no loops, and runs it
// through scfg/vivu exactly as the real pipeline would.
func straightLineMSG(t *testing.T) *vivu.MSG {
	t.Helper()
	c := cfg.New("f", 0x1000)
	bb1, err := c.AddBasicBlock(cfg.BasicBlock{
		Start: 0x1000, End: 0x1004, Size: 4,
		Instructions: []isa.Instruction{
			{Address: 0x1000, Length: 2, Class: isa.Load},
			{Address: 0x1002, Length: 2, Class: isa.Load},
		},
	})
	require.NoError(t, err)
	bb2, err := c.AddBasicBlock(cfg.BasicBlock{
		Start: 0x1004, End: 0x1008, Size: 4,
		Instructions: []isa.Instruction{
			{Address: 0x1004, Length: 2, Class: isa.Arithmetic},
			{Address: 0x1006, Length: 2, Class: isa.Return},
		},
	})
	require.NoError(t, err)

	_, err = c.Connect(c.Entry, bb1, cfg.Meta)
	require.NoError(t, err)
	_, err = c.Connect(bb1, bb2, cfg.ForwardStep)
	require.NoError(t, err)
	_, err = c.Connect(bb2, c.Exit, cfg.Meta)
	require.NoError(t, err)
	require.NoError(t, c.Finish())

	calls := callgraph.New()
	calls.AddFunction("f")
	s, err := scfg.Build("f", map[string]*cfg.CFG{"f": c}, calls)
	require.NoError(t, err)

	m, err := vivu.Build(s, nil)
	require.NoError(t, err)
	return m
}

func TestAnnotateStampsCostOnEveryEdge(t *testing.T) {
	p := config.Default()
	m := straightLineMSG(t)
	require.NoError(t, Annotate(m, nil, cost.NoMem, p))

	var sawPositiveCost bool
	for _, e := range m.Edges() {
		edata, _, _, ok := m.FullEdge(e)
		require.True(t, ok)
		assert.Equal(t, int64(-1), edata.Activation)
		if edata.Cost > 0 {
			sawPositiveCost = true
		}
	}
	assert.True(t, sawPositiveCost)
}

func TestHasFeasibleCirculationOnAcyclicGraph(t *testing.T) {
	p := config.Default()
	m := straightLineMSG(t)
	require.NoError(t, Annotate(m, nil, cost.NoMem, p))
	assert.True(t, HasFeasibleCirculation(m))
}

func TestBuildProblemProducesEntryAndExitActivationRows(t *testing.T) {
	p := config.Default()
	m := straightLineMSG(t)
	require.NoError(t, Annotate(m, nil, cost.NoMem, p))

	prob, edges := BuildProblem(m)
	require.NotEmpty(t, edges)

	var sawEntry, sawExit bool
	for _, c := range prob.Constraints {
		switch c.Name {
		case "entry_activation":
			sawEntry = true
			assert.Equal(t, float64(1), c.RHS)
		case "exit_activation":
			sawExit = true
			assert.Equal(t, float64(1), c.RHS)
		}
	}
	assert.True(t, sawEntry)
	assert.True(t, sawExit)
}

func TestComputeWithoutSolverReportsNotCalculated(t *testing.T) {
	p := config.Default()
	m := straightLineMSG(t)
	require.NoError(t, Annotate(m, nil, cost.NoMem, p))

	result, err := Compute(context.Background(), m, SolverConfig{})
	require.NoError(t, err)
	assert.Equal(t, NotCalculated, result.Kind)
}

func TestComputeWithSolverExportsPathAndHistogram(t *testing.T) {
	p := config.Default()
	m := straightLineMSG(t)
	require.NoError(t, Annotate(m, nil, cost.NoMem, p))

	_, edges := BuildProblem(m)
	var script string
	for i := range edges {
		script += fmt.Sprintf("echo 'f%d 1'; ", i)
	}
	script = "cat > /dev/null; " + script

	result, err := Compute(context.Background(), m, SolverConfig{
		Binary: "/bin/sh",
		Args:   []string{"-c", script},
	})
	require.NoError(t, err)
	assert.Equal(t, Optimal, result.Kind)
	assert.NotEmpty(t, result.Path)
	assert.Equal(t, result.Path[0].Node, m.Entry)
	assert.Equal(t, result.Path[len(result.Path)-1].Node, m.Exit)
	assert.Contains(t, result.Histogram, uint32(0x1000))
	assert.Contains(t, result.Histogram, uint32(0x1004))
	assert.Greater(t, result.WCET, int64(0))
}
