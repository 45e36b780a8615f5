package ipet

import (
	"github.com/smetzlaff/isptap-sub000/internal/flowfacts"
	"github.com/smetzlaff/isptap-sub000/internal/vivu"
)

// unbounded stands in for "no upper bound" on an edge VIVU left
// unconstrained. It only needs to exceed any real activation count a
// single-execution analysis could ever produce.
const unbounded = 1 << 30

// superSource and superSink are sentinel vertex keys for the lower-bound
// feasibility reduction below. cfgraph.NodeID.String() always renders a
// real node as "n<idx>.<gen>", so these two names can never collide with
// one.
const superSource = "__source__"
const superSink = "__sink__"

// HasFeasibleCirculation reports whether m's forced VIVU flows (Entry and
// Exit fixed at one execution, every Flow-pinned edge fixed at its bound)
// can simultaneously be satisfied by some non-negative assignment to the
// unconstrained edges, without invoking the external LP solver.
//
// This is flow/dinic.go's BFS level-graph + DFS blocking-flow shape,
// retargeted from plain max-flow to the classical lower-bounded-flow
// feasibility reduction: a super source/sink absorbs each edge's forced
// lower bound as node excess/deficit, and the network is feasible iff a
// max flow from the super source saturates every edge leaving it.
func HasFeasibleCirculation(m *vivu.MSG) bool {
	type boundedEdge struct {
		from, to   string
		lower, cap int64
	}

	var edges []boundedEdge
	for _, e := range m.Edges() {
		edata, from, to, ok := m.FullEdge(e)
		if !ok {
			continue
		}
		fromKey, toKey := from.String(), to.String()
		if edata.Flow != flowfacts.Unknown {
			edges = append(edges, boundedEdge{from: fromKey, to: toKey, lower: edata.Flow, cap: edata.Flow})
		} else {
			edges = append(edges, boundedEdge{from: fromKey, to: toKey, lower: 0, cap: unbounded})
		}
	}
	// One unit must flow from Entry to Exit (a single execution); folding
	// that requirement in as a forced Exit->Entry edge turns the s-t flow
	// requirement into a pure circulation-feasibility question, the
	// standard reduction this construction relies on.
	edges = append(edges, boundedEdge{from: m.Exit.String(), to: m.Entry.String(), lower: 1, cap: 1})

	cap := make(map[string]map[string]int64)
	excess := make(map[string]int64)
	addCap := func(u, v string, c int64) {
		if cap[u] == nil {
			cap[u] = make(map[string]int64)
		}
		cap[u][v] += c
	}

	for _, e := range edges {
		if residual := e.cap - e.lower; residual > 0 {
			addCap(e.from, e.to, residual)
		}
		excess[e.to] += e.lower
		excess[e.from] -= e.lower
	}

	var required int64
	for n, ex := range excess {
		switch {
		case ex > 0:
			addCap(superSource, n, ex)
			required += ex
		case ex < 0:
			addCap(n, superSink, -ex)
		}
	}
	if required == 0 {
		return true // no forced edges at all: the all-zero assignment is trivially feasible
	}

	return maxFlow(cap, superSource, superSink) >= required
}

// maxFlow runs Dinic's algorithm — BFS level graph, then repeated DFS
// blocking-flow pushes until the sink falls out of the level graph —
// exactly flow/dinic.go's two-phase loop, with its string-keyed adjacency
// kept as-is, its float64 capacities changed to int64, and the vertex
// alphabet changed (MSG node identities instead of arbitrary graph vertex
// names).
func maxFlow(cap map[string]map[string]int64, source, sink string) int64 {
	var total int64
	for {
		level, reached := bfsLevels(cap, source)
		if !reached[sink] {
			break
		}
		iter := make(map[string]int)
		for {
			pushed := dfsPush(cap, level, reached, iter, source, sink, unbounded)
			if pushed == 0 {
				break
			}
			total += pushed
		}
	}
	return total
}

func bfsLevels(cap map[string]map[string]int64, source string) (level map[string]int, reached map[string]bool) {
	level = map[string]int{source: 0}
	reached = map[string]bool{source: true}
	queue := []string{source}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for v, c := range cap[u] {
			if c > 0 && !reached[v] {
				reached[v] = true
				level[v] = level[u] + 1
				queue = append(queue, v)
			}
		}
	}
	return level, reached
}

func dfsPush(cap map[string]map[string]int64, level map[string]int, reached map[string]bool, iter map[string]int, u, sink string, avail int64) int64 {
	if u == sink {
		return avail
	}
	neighbors := neighborList(cap[u])
	for ; iter[u] < len(neighbors); iter[u]++ {
		v := neighbors[iter[u]]
		c := cap[u][v]
		if c <= 0 || !reached[v] || level[v] != level[u]+1 {
			continue
		}
		send := avail
		if c < send {
			send = c
		}
		if pushed := dfsPush(cap, level, reached, iter, v, sink, send); pushed > 0 {
			cap[u][v] -= pushed
			if cap[v] == nil {
				cap[v] = make(map[string]int64)
			}
			cap[v][u] += pushed
			return pushed
		}
	}
	return 0
}

func neighborList(m map[string]int64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
