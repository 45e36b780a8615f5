package cfg

import (
	"github.com/smetzlaff/isptap-sub000/internal/isa"
)

// NodeKind distinguishes the five CFG node vocabulary members of spec §3.
type NodeKind int

const (
	Entry NodeKind = iota
	Exit
	BasicBlockNode
	CallSiteNode
	UnknownJumpTargetNode
)

func (k NodeKind) String() string {
	switch k {
	case Entry:
		return "Entry"
	case Exit:
		return "Exit"
	case BasicBlockNode:
		return "BasicBlock"
	case CallSiteNode:
		return "CallSite"
	case UnknownJumpTargetNode:
		return "UnknownJumpTarget"
	default:
		return "Unknown"
	}
}

// EdgeKind distinguishes the four CFG edge vocabulary members of spec §3.
type EdgeKind int

const (
	ForwardStep EdgeKind = iota // fallthrough to the immediately following address
	ForwardJump                 // address-increasing branch
	BackwardJump                // address-decreasing branch
	Meta                        // graph plumbing: entry/exit/call/return connectives
)

func (k EdgeKind) String() string {
	switch k {
	case ForwardStep:
		return "ForwardStep"
	case ForwardJump:
		return "ForwardJump"
	case BackwardJump:
		return "BackwardJump"
	case Meta:
		return "Meta"
	default:
		return "?"
	}
}

// BasicBlock is a maximal straight-line instruction sequence. Opcodes is
// the verbatim textual opcode listing preserved alongside the structured
// Instructions, per spec §9's two-layer representation: analysis uses
// Instructions, and any later rewriting (scratchpad widening) mutates the
// structured layer and re-serializes through Opcodes.
type BasicBlock struct {
	Start        uint32
	End          uint32 // address one past the last instruction's last byte
	Size         uint32
	Instructions []isa.Instruction
	Opcodes      []string
}

// InstrCount returns the number of instructions in the block.
func (bb BasicBlock) InstrCount() int { return len(bb.Instructions) }

// Last returns the block's terminating instruction, if any.
func (bb BasicBlock) Last() (isa.Instruction, bool) {
	if len(bb.Instructions) == 0 {
		return isa.Instruction{}, false
	}
	return bb.Instructions[len(bb.Instructions)-1], true
}

// NodeData is the fixed attribute record carried by every cfgraph node in
// a CFG.
type NodeData struct {
	Kind  NodeKind
	BB    *BasicBlock // non-nil only for BasicBlockNode
	Label string      // function label (Entry/Exit), or callee label (CallSite)
	Addr  uint32       // block/call-site start address
}

// EdgeData is the fixed attribute record carried by every cfgraph edge in
// a CFG.
type EdgeData struct {
	Kind EdgeKind
}
