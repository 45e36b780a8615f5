package loophelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smetzlaff/isptap-sub000/internal/cfg"
)

// buildSingleLoopCFG builds: Entry -> head -> body -> (back edge to head).
func buildSingleLoopCFG(t *testing.T) *cfg.CFG {
	t.Helper()
	c := cfg.New("loopy", 0)
	head, err := c.AddBasicBlock(cfg.BasicBlock{Start: 0, End: 4, Size: 4})
	require.NoError(t, err)
	body, err := c.AddBasicBlock(cfg.BasicBlock{Start: 4, End: 8, Size: 4})
	require.NoError(t, err)

	_, err = c.Connect(c.Entry, head, cfg.Meta)
	require.NoError(t, err)
	_, err = c.Connect(head, body, cfg.ForwardStep)
	require.NoError(t, err)
	_, err = c.Connect(body, head, cfg.BackwardJump)
	require.NoError(t, err)
	_, err = c.Connect(body, c.Exit, cfg.ForwardJump)
	require.NoError(t, err)
	require.NoError(t, c.Finish())
	return c
}

func TestLoopHeadsAndInjectingEdge(t *testing.T) {
	c := buildSingleLoopCFG(t)

	backs := BackEdges(c)
	require.Len(t, backs, 1)
	assert.True(t, IsLoopCausingBackEdge(c, backs[0]))

	heads := LoopHeads(c)
	require.Len(t, heads, 1)

	head, ok := c.BasicBlockAt(0)
	require.True(t, ok)
	injEdges, ok := heads[head]
	require.True(t, ok)
	require.Len(t, injEdges, 1)

	inj, found := LoopInjectingEdge(c, head, injEdges[0])
	require.True(t, found)
	data, _, _, _ := c.Edge(inj)
	assert.Equal(t, cfg.Meta, data.Kind)
}

func TestPathExistsIgnoresBackEdges(t *testing.T) {
	c := buildSingleLoopCFG(t)
	head, _ := c.BasicBlockAt(0)
	body, _ := c.BasicBlockAt(4)

	assert.True(t, PathExists(c, head, body))
	// body reaches head only through the back edge, which PathExists skips.
	assert.False(t, PathExists(c, body, head))
}

func TestContextStackPushPopEqual(t *testing.T) {
	s1 := NewContextStack()
	s1.Push(0x100)
	s1.Push(0x200)
	assert.Equal(t, uint32(2), s1.Depth())
	assert.Equal(t, uint32(0x200), s1.Top())
	assert.Equal(t, uint32(0x100), s1.TopAt(1))

	s2 := s1.Clone()
	assert.True(t, s1.Equal(s2))

	assert.Equal(t, uint32(0x200), s1.Pop())
	assert.False(t, s1.Equal(s2))
	assert.False(t, s1.Empty())
	s1.Pop()
	assert.True(t, s1.Empty())
	assert.Equal(t, uint32(0), s1.Pop())
}
