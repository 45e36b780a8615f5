package ipet

import (
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/cfgraph"
	"github.com/smetzlaff/isptap-sub000/internal/loophelper"
	"github.com/smetzlaff/isptap-sub000/internal/vivu"
)

// maxPathSteps bounds the exported trace against a malformed or
// non-integral activation assignment that would otherwise walk forever;
// no well-formed program this core can analyze needs anywhere near this
// many steps.
const maxPathSteps = 1_000_000

// ExportPath walks m from Entry to Exit, at each node following whichever
// out-edge still has unconsumed activation and the highest Activation
// value, consuming one unit of that edge's activation per visit — so a
// loop whose body activation is N appears N times in the returned trace,
// the same "replay the solved flow as a linear path" idea spec §4.8
// describes.
//
// It pushes a loophelper.ContextStack frame on crossing into an inlined
// callee's own Entry node (not m.Entry itself) and pops on crossing back
// out through that callee's Exit node, adapting spec §4.8's "push on
// entering an Exit node" rule to this core's graph shape: internal/scfg
// already resolves call sites by substitution rather than keeping
// separate CallPoint/ReturnPoint nodes (see DESIGN.md), so the natural
// forward-walk equivalent of "entering a call's matching return" is
// "entering a nested Entry node" / "leaving through its Exit".
func ExportPath(m *vivu.MSG) []PathStep {
	remaining := make(map[cfgraph.EdgeID]int64)
	for _, e := range m.Edges() {
		edata, _, _, _ := m.FullEdge(e)
		remaining[e] = edata.Activation
	}

	ctx := loophelper.NewContextStack()
	var path []PathStep
	cur := m.Entry

	for step := 0; step < maxPathSteps; step++ {
		data, ok := m.Node(cur)
		if !ok {
			break
		}
		path = append(path, PathStep{Node: cur, Data: data, ContextDepth: int(ctx.Depth())})

		if cur == m.Exit {
			break
		}
		if full, _ := m.FullNode(cur); data.Kind == cfg.Entry && cur != m.Entry && !full.IsJoin {
			ctx.Push(data.Addr)
		}
		if data.Kind == cfg.Exit {
			ctx.Pop()
		}

		next, e, ok := bestNextEdge(m, cur, remaining)
		if !ok {
			break
		}
		remaining[e]--
		cur = next
	}
	return path
}

// bestNextEdge returns the out-edge of cur with remaining activation and
// the highest Activation value, breaking ties by allocation order.
func bestNextEdge(m *vivu.MSG, cur cfgraph.NodeID, remaining map[cfgraph.EdgeID]int64) (cfgraph.NodeID, cfgraph.EdgeID, bool) {
	var bestTo cfgraph.NodeID
	var bestEdge cfgraph.EdgeID
	var bestActivation int64 = -1
	found := false

	for _, e := range m.OutEdges(cur) {
		if remaining[e] <= 0 {
			continue
		}
		edata, _, to, ok := m.FullEdge(e)
		if !ok {
			continue
		}
		if !found || edata.Activation > bestActivation {
			bestTo, bestEdge, bestActivation, found = to, e, edata.Activation, true
		}
	}
	return bestTo, bestEdge, found
}

// Histogram aggregates path's basic-block visits by SCFG address, summed
// over every calling context the path revisits that address in — spec
// §6's "(c) a histogram: one line per distinct SCFG basic-block address,
// summed over contexts."
func Histogram(path []PathStep) map[uint32]int64 {
	hist := make(map[uint32]int64)
	for _, step := range path {
		if step.Data.Kind == cfg.BasicBlockNode {
			hist[step.Data.Addr]++
		}
	}
	return hist
}

// WCET sums (cost+penalty)*activation over every solved edge of m — the
// same quantity the LP objective maximized, read back off the annotated
// graph rather than recomputed from the exported path. Activations are the
// solver's values as Compute stored them, already rounded to integers.
func WCET(m *vivu.MSG) int64 {
	var total int64
	for _, e := range m.Edges() {
		edata, _, _, ok := m.FullEdge(e)
		if !ok || edata.Activation <= 0 {
			continue
		}
		total += (edata.Cost + edata.MemPenalty) * edata.Activation
	}
	return total
}
