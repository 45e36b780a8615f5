package cfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func straightLineBlock(start, end uint32) BasicBlock {
	return BasicBlock{Start: start, End: end, Size: end - start}
}

func TestBuildStraightLineCFG(t *testing.T) {
	c := New("f", 0x0000)
	bb, err := c.AddBasicBlock(straightLineBlock(0x0000, 0x0008))
	require.NoError(t, err)

	_, err = c.Connect(c.Entry, bb, Meta)
	require.NoError(t, err)
	_, err = c.Connect(bb, c.Exit, Meta)
	require.NoError(t, err)

	require.NoError(t, c.Finish())
	assert.True(t, c.Frozen())

	low, high := c.AddressRange()
	assert.Equal(t, uint32(0x0000), low)
	assert.Equal(t, uint32(0x0008), high)
}

func TestFinishRejectsDanglingBlock(t *testing.T) {
	c := New("f", 0x0000)
	_, err := c.AddBasicBlock(straightLineBlock(0x0000, 0x0004))
	require.NoError(t, err)
	// no outgoing edge connected -> Finish must fail
	err = c.Finish()
	require.Error(t, err)
	var ute *ErrUnresolvedTarget
	require.ErrorAs(t, err, &ute)
}

func TestDuplicateBasicBlockRejected(t *testing.T) {
	c := New("f", 0x0000)
	_, err := c.AddBasicBlock(straightLineBlock(0x0000, 0x0004))
	require.NoError(t, err)
	_, err = c.AddBasicBlock(straightLineBlock(0x0000, 0x0004))
	require.Error(t, err)
}
