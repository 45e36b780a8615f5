package cfgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNodeAddEdge(t *testing.T) {
	g := New[string, int]()
	a, err := g.AddNode("a")
	require.NoError(t, err)
	b, err := g.AddNode("b")
	require.NoError(t, err)
	e, err := g.AddEdge(a, b, 42)
	require.NoError(t, err)

	data, from, to, ok := g.Edge(e)
	require.True(t, ok)
	assert.Equal(t, 42, data)
	assert.Equal(t, a, from)
	assert.Equal(t, b, to)

	assert.Equal(t, []EdgeID{e}, g.OutEdges(a))
	assert.Equal(t, []EdgeID{e}, g.InEdges(b))
}

func TestFreezeRejectsStructuralMutation(t *testing.T) {
	g := New[string, int]()
	a, _ := g.AddNode("a")
	b, _ := g.AddNode("b")
	g.Freeze()

	_, err := g.AddEdge(a, b, 1)
	assert.ErrorIs(t, err, ErrFrozen)

	_, err = g.AddNode("c")
	assert.ErrorIs(t, err, ErrFrozen)
}

func TestAnnotateAfterFreeze(t *testing.T) {
	g := New[string, int]()
	a, _ := g.AddNode("a")
	b, _ := g.AddNode("b")
	e, _ := g.AddEdge(a, b, 1)
	g.Freeze()

	require.NoError(t, g.SetEdge(e, 99))
	data, _, _, ok := g.Edge(e)
	require.True(t, ok)
	assert.Equal(t, 99, data)
}

func TestStaleHandle(t *testing.T) {
	g := New[string, int]()
	a, _ := g.AddNode("a")
	bogus := NodeID{idx: 999, gen: 1}
	_, ok := g.Node(bogus)
	assert.False(t, ok)
	_, ok = g.Node(a)
	assert.True(t, ok)
}

func TestNodesEdgesDeterministicOrder(t *testing.T) {
	g := New[int, int]()
	ids := make([]NodeID, 5)
	for i := 0; i < 5; i++ {
		ids[i], _ = g.AddNode(i)
	}
	got := g.Nodes()
	require.Len(t, got, 5)
	for i, id := range got {
		assert.Equal(t, ids[i], id)
	}
}
