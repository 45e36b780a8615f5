package cfg

import (
	"fmt"
	"sort"

	"github.com/smetzlaff/isptap-sub000/internal/cfgraph"
)

// CFG is one function's control-flow graph: exactly one Entry and one
// Exit node, built incrementally by internal/dumpparser and then sealed
// with Finish.
type CFG struct {
	Label string
	Addr  uint32

	g     *cfgraph.Graph[NodeData, EdgeData]
	Entry cfgraph.NodeID
	Exit  cfgraph.NodeID

	bbByAddr map[uint32]cfgraph.NodeID
}

// New creates an empty CFG for the function named label starting at addr,
// pre-populated with its Entry and Exit nodes.
func New(label string, addr uint32) *CFG {
	g := cfgraph.New[NodeData, EdgeData]()
	entry, _ := g.AddNode(NodeData{Kind: Entry, Label: label, Addr: addr})
	exit, _ := g.AddNode(NodeData{Kind: Exit, Label: label})
	return &CFG{
		Label:    label,
		Addr:     addr,
		g:        g,
		Entry:    entry,
		Exit:     exit,
		bbByAddr: make(map[uint32]cfgraph.NodeID),
	}
}

// AddBasicBlock inserts a BasicBlockNode for bb. It is an error to insert
// two blocks with the same start address.
func (c *CFG) AddBasicBlock(bb BasicBlock) (cfgraph.NodeID, error) {
	if _, exists := c.bbByAddr[bb.Start]; exists {
		return cfgraph.NodeID{}, fmt.Errorf("cfg: duplicate basic block at 0x%x in %q", bb.Start, c.Label)
	}
	id, err := c.g.AddNode(NodeData{Kind: BasicBlockNode, BB: &bb, Addr: bb.Start})
	if err != nil {
		return cfgraph.NodeID{}, err
	}
	c.bbByAddr[bb.Start] = id
	return id, nil
}

// AddCallSite inserts a CallSiteNode naming the callee (by label for
// direct calls, or a synthetic "indirect@<addr>" label for indirect
// calls the dump parser could not resolve to a single target).
func (c *CFG) AddCallSite(addr uint32, calleeLabel string) (cfgraph.NodeID, error) {
	return c.g.AddNode(NodeData{Kind: CallSiteNode, Label: calleeLabel, Addr: addr})
}

// AddUnknownJumpTarget inserts an UnknownJumpTargetNode for an indirect
// branch the parser could not resolve, per spec §4.2's recoverable
// "unresolved indirect branch" condition.
func (c *CFG) AddUnknownJumpTarget(addr uint32) (cfgraph.NodeID, error) {
	return c.g.AddNode(NodeData{Kind: UnknownJumpTargetNode, Addr: addr})
}

// Connect adds an edge of the given kind between two existing nodes.
func (c *CFG) Connect(from, to cfgraph.NodeID, kind EdgeKind) (cfgraph.EdgeID, error) {
	return c.g.AddEdge(from, to, EdgeData{Kind: kind})
}

// BasicBlockAt returns the node handle for the basic block starting at
// addr, if one was added.
func (c *CFG) BasicBlockAt(addr uint32) (cfgraph.NodeID, bool) {
	id, ok := c.bbByAddr[addr]
	return id, ok
}

// Node returns the attribute record for id.
func (c *CFG) Node(id cfgraph.NodeID) (NodeData, bool) { return c.g.Node(id) }

// Edge returns the attribute record and endpoints for id.
func (c *CFG) Edge(id cfgraph.EdgeID) (EdgeData, cfgraph.NodeID, cfgraph.NodeID, bool) {
	return c.g.Edge(id)
}

// OutEdges/InEdges expose the underlying arena's adjacency queries.
func (c *CFG) OutEdges(id cfgraph.NodeID) []cfgraph.EdgeID { return c.g.OutEdges(id) }
func (c *CFG) InEdges(id cfgraph.NodeID) []cfgraph.EdgeID  { return c.g.InEdges(id) }

// Nodes/Edges return every live handle, in allocation order.
func (c *CFG) Nodes() []cfgraph.NodeID { return c.g.Nodes() }
func (c *CFG) Edges() []cfgraph.EdgeID { return c.g.Edges() }

// Frozen reports whether Finish has sealed the graph.
func (c *CFG) Frozen() bool { return c.g.Frozen() }

// Arena exposes the underlying cfgraph.Graph for packages (scfg, loophelper)
// that need direct arena access to build derived structures.
func (c *CFG) Arena() *cfgraph.Graph[NodeData, EdgeData] { return c.g }

// ErrUnresolvedTarget is returned by Finish when a basic block was left
// with no outgoing edge — spec §7's "parser state drift" fatal condition.
// Target is that block's start address.
type ErrUnresolvedTarget struct {
	FuncLabel string
	Target    uint32
}

func (e *ErrUnresolvedTarget) Error() string {
	return fmt.Sprintf("cfg: %q has a basic block at 0x%x with no outgoing edge", e.FuncLabel, e.Target)
}

// Finish checks the isFinished invariant (every BasicBlockNode has at least
// one outgoing edge, i.e. the builder wired every block to a successor) and
// seals the graph. Jump targets themselves are not checked against block
// starts here.
// It is the caller's (internal/dumpparser's) responsibility to have
// connected every resolvable jump before calling Finish; unresolved
// indirect branches must already have been represented as
// UnknownJumpTargetNode, which Finish treats as resolved.
func (c *CFG) Finish() error {
	for _, id := range c.g.Nodes() {
		nd, _ := c.g.Node(id)
		if nd.Kind != BasicBlockNode {
			continue
		}
		if len(c.g.OutEdges(id)) == 0 {
			return &ErrUnresolvedTarget{FuncLabel: c.Label, Target: nd.Addr}
		}
	}
	c.g.Freeze()
	return nil
}

// AddressRange returns the [lowest, highest) basic-block address range
// covered by the CFG, used by the BB-address-contiguity test property
// (spec §8).
func (c *CFG) AddressRange() (low, high uint32) {
	addrs := make([]uint32, 0, len(c.bbByAddr))
	for a := range c.bbByAddr {
		addrs = append(addrs, a)
	}
	if len(addrs) == 0 {
		return 0, 0
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	low = addrs[0]
	lastID := c.bbByAddr[addrs[len(addrs)-1]]
	nd, _ := c.g.Node(lastID)
	high = nd.BB.End
	return low, high
}
