package loophelper

import (
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/cfgraph"
	"github.com/smetzlaff/isptap-sub000/internal/flowfacts"
)

// Graph is the arena query surface both internal/cfg.CFG and
// internal/scfg.SCFG expose — loop and path queries work identically over a
// per-function CFG or a fully inlined SCFG, since both differ only in
// whether a CallSiteNode still appears unresolved.
type Graph interface {
	Nodes() []cfgraph.NodeID
	Edges() []cfgraph.EdgeID
	Node(cfgraph.NodeID) (cfg.NodeData, bool)
	Edge(cfgraph.EdgeID) (cfg.EdgeData, cfgraph.NodeID, cfgraph.NodeID, bool)
	OutEdges(cfgraph.NodeID) []cfgraph.EdgeID
	InEdges(cfgraph.NodeID) []cfgraph.EdgeID
}

// BackEdges returns every BackwardJump edge in c, in allocation order.
func BackEdges(c Graph) []cfgraph.EdgeID {
	var out []cfgraph.EdgeID
	for _, id := range c.Edges() {
		data, _, _, ok := c.Edge(id)
		if ok && data.Kind == cfg.BackwardJump {
			out = append(out, id)
		}
	}
	return out
}

// LoopHeads groups every back edge by its target node — the loop head, per
// spec §3's definition of a loop as a BackwardJump into an earlier block.
// Open Question decision (see DESIGN.md): a head reached by more than one
// back edge is modeled as that many independent loop instances, keyed by
// the (head, backEdge) pair, rather than merged into one loop — so callers
// iterate the returned slice instead of assuming a single loop per head.
func LoopHeads(c Graph) map[cfgraph.NodeID][]cfgraph.EdgeID {
	heads := make(map[cfgraph.NodeID][]cfgraph.EdgeID)
	for _, e := range BackEdges(c) {
		_, _, to, _ := c.Edge(e)
		heads[to] = append(heads[to], e)
	}
	return heads
}

// IsLoopCausingBackEdge reports whether e is a BackwardJump edge. This is a
// direct classification rather than the heuristic the tail-decision
// analysis the original implementation used. internal/dumpparser emits a
// BackwardJump for every branch to a lower address, including one whose
// target lies outside the function and so lands on an
// UnknownJumpTargetNode; such an edge is reported as loop-causing too.
func IsLoopCausingBackEdge(c Graph, e cfgraph.EdgeID) bool {
	data, _, _, ok := c.Edge(e)
	return ok && data.Kind == cfg.BackwardJump
}

// LoopInjectingEdge returns the edge that carries flow into head from
// outside the loop body associated with backEdge: an in-edge of head that
// is neither backEdge itself nor another BackwardJump. Per the original
// design this assumes a loop head has exactly one such edge; if more than
// one qualifies, the first in allocation order is returned.
func LoopInjectingEdge(c Graph, head cfgraph.NodeID, backEdge cfgraph.EdgeID) (cfgraph.EdgeID, bool) {
	for _, e := range c.InEdges(head) {
		if e == backEdge {
			continue
		}
		data, _, _, ok := c.Edge(e)
		if ok && data.Kind != cfg.BackwardJump {
			return e, true
		}
	}
	return cfgraph.EdgeID{}, false
}

// LoopBound looks up the flow-fact bound for the loop closed by backEdge,
// keyed by the (from, to) addresses of that edge, per spec §4.4's mapping
// from a back edge to its flow-fact entry. It returns flowfacts.Unknown if
// ft is nil or has no entry for the edge.
func LoopBound(c Graph, ft *flowfacts.Table, backEdge cfgraph.EdgeID) int64 {
	if ft == nil {
		return flowfacts.Unknown
	}
	_, from, to, ok := c.Edge(backEdge)
	if !ok {
		return flowfacts.Unknown
	}
	fromData, _ := c.Node(from)
	toData, _ := c.Node(to)
	return ft.MaxIterations(fromData.Addr, toData.Addr)
}

// PathExists reports whether start can reach end by following only
// ForwardStep, ForwardJump, and Meta edges — i.e. without traversing a
// back edge, per the original getPath()'s edge-kind restriction.
func PathExists(c Graph, start, end cfgraph.NodeID) bool {
	if start == end {
		return true
	}
	visited := map[cfgraph.NodeID]bool{start: true}
	queue := []cfgraph.NodeID{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, e := range c.OutEdges(n) {
			data, _, to, ok := c.Edge(e)
			if !ok || data.Kind == cfg.BackwardJump {
				continue
			}
			if to == end {
				return true
			}
			if !visited[to] {
				visited[to] = true
				queue = append(queue, to)
			}
		}
	}
	return false
}

// IsNodeOnPath reports whether some acyclic (non-back-edge) path from
// pathBegin to pathEnd passes through node, approximated as: node is
// reachable from pathBegin, and pathEnd is reachable from node.
func IsNodeOnPath(c Graph, node, pathBegin, pathEnd cfgraph.NodeID) bool {
	return PathExists(c, pathBegin, node) && PathExists(c, node, pathEnd)
}

// IsPredecessorNode reports whether predecessor can reach node without
// crossing a back edge.
func IsPredecessorNode(c Graph, predecessor, node cfgraph.NodeID) bool {
	return PathExists(c, predecessor, node)
}

// IsSuccessorNode reports whether node can reach successor without
// crossing a back edge.
func IsSuccessorNode(c Graph, successor, node cfgraph.NodeID) bool {
	return PathExists(c, node, successor)
}
