package vivu

import (
	"fmt"

	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/cfgraph"
	"github.com/smetzlaff/isptap-sub000/internal/flowfacts"
	"github.com/smetzlaff/isptap-sub000/internal/loophelper"
	"github.com/smetzlaff/isptap-sub000/internal/scfg"
)

// Node is an MSG node: either a copy of exactly one SCFG node, or a
// synthetic FlowJoinNode with no SCFG counterpart (IsJoin true, NodeData
// left zero).
type Node struct {
	cfg.NodeData
	IsJoin bool
}

// EdgeData is an MSG edge. Kind reuses the CFG vocabulary for everything
// except the ForwardStepUnroll case, which is tagged via Unroll rather than
// given its own cfg.EdgeKind value so existing CFG-edge-kind switches keep
// working unmodified on MSG data. Flow is the per-edge flow value: 1 for a
// forced first-iteration or join edge, bound-1 for a rest-iteration's own
// back edge, and flowfacts.Unknown (-1) for anything VIVU left untouched.
//
// Cost, MemPenalty and Activation are left zero by Build; internal/ipet
// fills them in during its own Annotate phase (SetFullEdge), after VIVU's
// own Freeze — the same build/annotate split cfgraph.Graph itself enforces
// structurally (Freeze blocks AddNode/AddEdge but not SetNode/SetEdge).
type EdgeData struct {
	Kind       cfg.EdgeKind
	Unroll     bool
	Flow       int64
	Cost       int64 // cycles charged to this edge's source block, per spec §4.6
	MemPenalty int64 // additional cycles from an unassigned scratchpad block
	Activation int64 // IPET solver's activation count for this edge, -1 until solved
}

// MSG is the VIVU-transformed graph for one (already inlined) function.
type MSG struct {
	FuncLabel   string
	g           *cfgraph.Graph[Node, EdgeData]
	Entry, Exit cfgraph.NodeID
}

// The four accessors below hand back plain cfg-shaped data so an MSG
// satisfies loophelper.Graph exactly like cfg.CFG and scfg.SCFG do — loop
// and path queries never need to know about FlowJoinNode or flow values.
func (m *MSG) Nodes() []cfgraph.NodeID { return m.g.Nodes() }
func (m *MSG) Edges() []cfgraph.EdgeID { return m.g.Edges() }
func (m *MSG) Node(id cfgraph.NodeID) (cfg.NodeData, bool) {
	n, ok := m.g.Node(id)
	return n.NodeData, ok
}
func (m *MSG) Edge(id cfgraph.EdgeID) (cfg.EdgeData, cfgraph.NodeID, cfgraph.NodeID, bool) {
	e, from, to, ok := m.g.Edge(id)
	return cfg.EdgeData{Kind: e.Kind}, from, to, ok
}
func (m *MSG) OutEdges(id cfgraph.NodeID) []cfgraph.EdgeID { return m.g.OutEdges(id) }
func (m *MSG) InEdges(id cfgraph.NodeID) []cfgraph.EdgeID  { return m.g.InEdges(id) }

// FullNode and FullEdge expose the MSG-specific attributes (join-node
// tagging, unroll tagging, flow values) that the thin cfg-shaped accessors
// above discard.
func (m *MSG) FullNode(id cfgraph.NodeID) (Node, bool) { return m.g.Node(id) }
func (m *MSG) FullEdge(id cfgraph.EdgeID) (EdgeData, cfgraph.NodeID, cfgraph.NodeID, bool) {
	return m.g.Edge(id)
}

// SetFullEdge overwrites an edge's attributes in place. It remains legal
// after Freeze (cfgraph's Annotate phase), which is how internal/ipet
// stamps Cost/MemPenalty/Activation onto an already-built MSG.
func (m *MSG) SetFullEdge(id cfgraph.EdgeID, data EdgeData) error {
	return m.g.SetEdge(id, data)
}

func (m *MSG) Freeze()      { m.g.Freeze() }
func (m *MSG) Frozen() bool { return m.g.Frozen() }

// loopInfo describes one loop instance: a (head, backEdge) pair per
// loophelper's Open-Question decision, its iteration bound, and the set of
// SCFG nodes that lie on some acyclic path from head to the back edge's
// source.
type loopInfo struct {
	head, bottom cfgraph.NodeID
	bound        int64
	body         map[cfgraph.NodeID]bool
}

// computeLoops finds every loop instance in s and, for each, the set of
// edges that constitute its loop-injecting edge (so Build can force flow 1
// on the edge that carries flow into the loop's first iteration).
func computeLoops(s *scfg.SCFG, ft *flowfacts.Table) (byBackEdge map[cfgraph.EdgeID]*loopInfo, injecting map[cfgraph.EdgeID]bool) {
	byBackEdge = make(map[cfgraph.EdgeID]*loopInfo)
	injecting = make(map[cfgraph.EdgeID]bool)

	for head, backs := range loophelper.LoopHeads(s) {
		for _, be := range backs {
			_, bottom, _, _ := s.Edge(be)
			bound := loophelper.LoopBound(s, ft, be)

			body := make(map[cfgraph.NodeID]bool)
			for _, n := range s.Nodes() {
				if loophelper.IsNodeOnPath(s, n, head, bottom) {
					body[n] = true
				}
			}

			byBackEdge[be] = &loopInfo{head: head, bottom: bottom, bound: bound, body: body}
			if inj, ok := loophelper.LoopInjectingEdge(s, head, be); ok {
				injecting[inj] = true
			}
		}
	}
	return byBackEdge, injecting
}

// builder carries the read-only loop index alongside the graph under
// construction; walk is its only recursive method.
type builder struct {
	src        *scfg.SCFG
	dst        *cfgraph.Graph[Node, EdgeData]
	byBackEdge map[cfgraph.EdgeID]*loopInfo
	injecting  map[cfgraph.EdgeID]bool
	global     map[cfgraph.NodeID]cfgraph.NodeID
}

// walk copies srcID (and everything reachable from it) into the MSG being
// built, returning srcID's MSG counterpart. memo holds the identity map for
// the scope currently being expanded; cur is that scope's loop instance, or
// nil for the outermost (whole-function) scope. A node outside cur's body —
// code that follows a loop rather than living inside it — always resolves
// through the shared global memo, regardless of which local memo the caller
// is using, so loop-exit continuations are built exactly once no matter how
// many times a loop gets peeled.
func (b *builder) walk(srcID cfgraph.NodeID, memo map[cfgraph.NodeID]cfgraph.NodeID, cur *loopInfo) cfgraph.NodeID {
	m := memo
	if cur != nil && !cur.body[srcID] {
		m = b.global
	}
	if id, ok := m[srcID]; ok {
		return id
	}
	data, _ := b.src.Node(srcID)
	newID, _ := b.dst.AddNode(Node{NodeData: data})
	m[srcID] = newID

	for _, e := range b.src.OutEdges(srcID) {
		edata, _, to, _ := b.src.Edge(e)

		lp, isBackEdge := b.byBackEdge[e]
		if !isBackEdge {
			flow := int64(flowfacts.Unknown)
			if b.injecting[e] {
				flow = 1
			}
			toDst := b.walk(to, m, cur)
			_, _ = b.dst.AddEdge(newID, toDst, EdgeData{Kind: edata.Kind, Flow: flow})
			continue
		}

		switch {
		case lp.bound <= 0:
			// Unknown or "unroll only if needed": leave the back edge as a
			// literal cycle with an unconstrained flow value.
			toDst := b.walk(to, m, cur)
			_, _ = b.dst.AddEdge(newID, toDst, EdgeData{Kind: cfg.BackwardJump, Flow: flowfacts.Unknown})

		case cur == lp:
			// Already expanding this loop's rest-iteration copy: close the
			// self-loop with the remaining iteration count.
			headDst := b.walk(to, memo, cur)
			_, _ = b.dst.AddEdge(newID, headDst, EdgeData{Kind: cfg.BackwardJump, Flow: lp.bound - 1})

		default:
			// First time this loop's back edge is seen: build the
			// rest-iteration subgraph in a fresh scope, then splice a
			// FlowJoinNode between the peeled first iteration and it.
			restMemo := make(map[cfgraph.NodeID]cfgraph.NodeID)
			restHead := b.walk(lp.head, restMemo, lp)

			join, _ := b.dst.AddNode(Node{IsJoin: true})
			_, _ = b.dst.AddEdge(newID, join, EdgeData{Kind: cfg.ForwardStep, Unroll: true, Flow: 1})
			_, _ = b.dst.AddEdge(join, restHead, EdgeData{Kind: cfg.Meta, Flow: 1})
		}
	}
	return newID
}

// Build runs the VIVU transform over s, using ft to resolve each loop's
// iteration bound. ft may be nil, in which case every loop is left unpeeled
// (every bound resolves to flowfacts.Unknown).
func Build(s *scfg.SCFG, ft *flowfacts.Table) (*MSG, error) {
	if s == nil {
		return nil, fmt.Errorf("vivu: nil SCFG")
	}

	byBackEdge, injecting := computeLoops(s, ft)
	b := &builder{
		src:        s,
		dst:        cfgraph.New[Node, EdgeData](),
		byBackEdge: byBackEdge,
		injecting:  injecting,
		global:     make(map[cfgraph.NodeID]cfgraph.NodeID),
	}

	entry := b.walk(s.Entry, b.global, nil)
	exit := b.walk(s.Exit, b.global, nil)

	m := &MSG{FuncLabel: s.FuncLabel, g: b.dst, Entry: entry, Exit: exit}
	m.Freeze()
	return m, nil
}
