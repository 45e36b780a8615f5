package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLength(t *testing.T) {
	assert.Equal(t, uint8(2), Length(0x1C00))    // ADDS r0,r0,#0 (format 2)
	assert.Equal(t, uint8(4), Length(0xF3BF))    // DMB/DSB/ISB prefix
	assert.Equal(t, uint8(4), Length(0xF000))    // BL prefix
}

func TestDecodeArithmetic(t *testing.T) {
	dec := NewArmv6M()
	i, err := dec.Decode(0x1C00, 0, 0x1000)
	require.NoError(t, err)
	assert.Equal(t, Arithmetic, i.Class)
	assert.Equal(t, uint8(2), i.Length)
	assert.False(t, i.Class.IsControlFlow())
}

func TestDecodeConditionalBranch(t *testing.T) {
	dec := NewArmv6M()
	// BEQ with imm8 = 2 -> target = pc+4+4
	hw := uint16(0b1101_0000_00000010)
	i, err := dec.Decode(hw, 0, 0x2000)
	require.NoError(t, err)
	assert.Equal(t, BranchCond, i.Class)
	assert.True(t, i.Class.IsControlFlow())
	target, ok := JumpTarget(i)
	require.True(t, ok)
	assert.Equal(t, uint32(0x2008), target)
	assert.Equal(t, DispShort, DisplacementCategoryOf(i))
}

func TestDecodeUnconditionalBranch(t *testing.T) {
	dec := NewArmv6M()
	hw := uint16(0b11100_00000000001) // imm11=1 -> target = pc+4+2
	i, err := dec.Decode(hw, 0, 0x3000)
	require.NoError(t, err)
	assert.Equal(t, BranchUncond, i.Class)
	target, ok := JumpTarget(i)
	require.True(t, ok)
	assert.Equal(t, uint32(0x3006), target)
}

func TestDecodeBL(t *testing.T) {
	dec := NewArmv6M()
	// S=0,J1=1,J2=1 (so I1=0,I2=0),imm10=0,imm11=2 -> offset=4 -> target=pc+4+4
	hw1 := uint16(0b11110_0_0000000000)
	hw2 := uint16(0b11_1_1_1_00000000010)
	i, err := dec.Decode(hw1, hw2, 0x4000)
	require.NoError(t, err)
	assert.Equal(t, Call, i.Class)
	assert.Equal(t, uint8(4), i.Length)
	target, ok := JumpTarget(i)
	require.True(t, ok)
	assert.Equal(t, uint32(0x4008), target)
}

func TestDecodePopReturn(t *testing.T) {
	dec := NewArmv6M()
	// POP {r4, pc}: 1011_110_1_00010000
	hw := uint16(0b1011_110_1_00010000)
	i, err := dec.Decode(hw, 0, 0x5000)
	require.NoError(t, err)
	assert.Equal(t, MultiRegMem, i.Class)
	assert.True(t, PCInList(i))
	list, ok := RegisterList(i)
	require.True(t, ok)
	assert.Contains(t, list, PC)
	assert.Contains(t, list, R4)
}

func TestDecodeUnknownIsFatal(t *testing.T) {
	dec := NewArmv6M()
	_, err := dec.Decode(0xFFFF, 0, 0x6000)
	require.Error(t, err)
	var de *DecodeError
	require.ErrorAs(t, err, &de)
}
