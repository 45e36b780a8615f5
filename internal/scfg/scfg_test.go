package scfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smetzlaff/isptap-sub000/internal/callgraph"
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
)

func buildLeafAndMain(t *testing.T) (map[string]*cfg.CFG, *callgraph.Graph) {
	t.Helper()

	leaf := cfg.New("leaf", 0)
	leafBB, err := leaf.AddBasicBlock(cfg.BasicBlock{Start: 0, End: 4, Size: 4})
	require.NoError(t, err)
	_, err = leaf.Connect(leaf.Entry, leafBB, cfg.Meta)
	require.NoError(t, err)
	_, err = leaf.Connect(leafBB, leaf.Exit, cfg.Meta)
	require.NoError(t, err)
	require.NoError(t, leaf.Finish())

	main := cfg.New("main", 0x10)
	bb1, err := main.AddBasicBlock(cfg.BasicBlock{Start: 0x10, End: 0x18, Size: 8})
	require.NoError(t, err)
	callSite, err := main.AddCallSite(0x18, "leaf")
	require.NoError(t, err)
	bb2, err := main.AddBasicBlock(cfg.BasicBlock{Start: 0x1c, End: 0x1e, Size: 2})
	require.NoError(t, err)
	_, err = main.Connect(main.Entry, bb1, cfg.Meta)
	require.NoError(t, err)
	_, err = main.Connect(bb1, callSite, cfg.Meta)
	require.NoError(t, err)
	_, err = main.Connect(callSite, bb2, cfg.Meta)
	require.NoError(t, err)
	_, err = main.Connect(bb2, main.Exit, cfg.Meta)
	require.NoError(t, err)
	require.NoError(t, main.Finish())

	calls := callgraph.New()
	calls.AddFunction("leaf")
	calls.AddCall("main", "leaf")

	return map[string]*cfg.CFG{"leaf": leaf, "main": main}, calls
}

func TestBuildInlinesResolvedCallSite(t *testing.T) {
	cfgs, calls := buildLeafAndMain(t)

	s, err := Build("main", cfgs, calls)
	require.NoError(t, err)
	assert.True(t, s.Frozen())

	// No CallSiteNode should survive inlining of a resolved direct call.
	for _, id := range s.Nodes() {
		data, _ := s.Node(id)
		assert.NotEqual(t, cfg.CallSiteNode, data.Kind)
	}

	// main's Entry/Exit/BB1/BB2 (4) + leaf's Entry/Exit/BB (3) = 7.
	assert.Len(t, s.Nodes(), 7)
}

func TestBuildLeavesUnresolvedCallSiteIntact(t *testing.T) {
	main := cfg.New("main", 0)
	bb, err := main.AddBasicBlock(cfg.BasicBlock{Start: 0, End: 4, Size: 4})
	require.NoError(t, err)
	callSite, err := main.AddCallSite(4, "indirect@0x4")
	require.NoError(t, err)
	_, err = main.Connect(main.Entry, bb, cfg.Meta)
	require.NoError(t, err)
	_, err = main.Connect(bb, callSite, cfg.Meta)
	require.NoError(t, err)
	_, err = main.Connect(callSite, main.Exit, cfg.Meta)
	require.NoError(t, err)
	require.NoError(t, main.Finish())

	calls := callgraph.New()
	calls.AddFunction("main")

	s, err := Build("main", map[string]*cfg.CFG{"main": main}, calls)
	require.NoError(t, err)

	var sawCallSite bool
	for _, id := range s.Nodes() {
		data, _ := s.Node(id)
		if data.Kind == cfg.CallSiteNode {
			sawCallSite = true
		}
	}
	assert.True(t, sawCallSite)
}

func TestBuildMissingFunctionErrors(t *testing.T) {
	calls := callgraph.New()
	_, err := Build("nope", map[string]*cfg.CFG{}, calls)
	require.ErrorIs(t, err, ErrMissingCallee)
}
