package scratchpad

import (
	"container/heap"
	"math"

	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/cfgraph"
	"github.com/smetzlaff/isptap-sub000/internal/config"
	"github.com/smetzlaff/isptap-sub000/internal/cost"
)

// estimateProgramCycles sums each function's own critical-path estimate
// under assigned. It is a coarse, per-function proxy for the real
// context-sensitive WCET bound internal/ipet computes over the full MSG —
// good enough to rank and report a scratchpad assignment's expected payoff
// without running the whole pipeline.
func estimateProgramCycles(cfgs map[string]*cfg.CFG, assigned map[uint32]bool, p *config.Profile) int64 {
	var total int64
	for _, c := range cfgs {
		total += estimateCriticalPath(c, assigned, p)
	}
	return total
}

// estimateCriticalPath computes the longest Entry-to-Exit path in c,
// skipping back edges so a loop body is costed for a single pass. It is
// dijkstra/dijkstra.go's relax loop with two changes: the priority queue
// orders by decreasing distance instead of increasing, and dist starts at
// -infinity (unreached) rather than +infinity, turning "extract the
// closest unsettled vertex, relax its edges" into "extract the farthest
// unsettled vertex, relax its edges" — shortest path becomes longest path
// over the loop-free projection of the graph.
func estimateCriticalPath(c *cfg.CFG, assigned map[uint32]bool, p *config.Profile) int64 {
	dist := make(map[cfgraph.NodeID]int64, len(c.Nodes()))
	visited := make(map[cfgraph.NodeID]bool, len(c.Nodes()))
	for _, id := range c.Nodes() {
		dist[id] = math.MinInt64
	}
	dist[c.Entry] = 0

	pq := &longestPQ{}
	heap.Init(pq)
	heap.Push(pq, &longestItem{id: c.Entry, dist: 0})

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*longestItem)
		u := item.id
		if visited[u] {
			continue
		}
		visited[u] = true

		for _, e := range c.OutEdges(u) {
			edata, _, v, ok := c.Edge(e)
			if !ok || edata.Kind == cfg.BackwardJump {
				continue
			}
			nd := dist[u] + edgeCost(c, u, edata.Kind, assigned, p)
			if nd > dist[v] {
				dist[v] = nd
				heap.Push(pq, &longestItem{id: v, dist: nd})
			}
		}
	}

	if d := dist[c.Exit]; d > math.MinInt64 {
		return d
	}
	return 0
}

// edgeCost returns the cycle cost of leaving node u over an edge of the
// given kind, under u's current memory placement in assigned.
func edgeCost(c *cfg.CFG, u cfgraph.NodeID, kind cfg.EdgeKind, assigned map[uint32]bool, p *config.Profile) int64 {
	nd, _ := c.Node(u)
	if nd.Kind != cfg.BasicBlockNode || nd.BB == nil {
		return 0
	}
	mem := cost.OffChip
	if assigned[nd.Addr] {
		mem = cost.OnChip
	}
	bc := cost.BlockCost(*nd.BB, true, mem, p)
	if kind == cfg.ForwardStep || kind == cfg.Meta {
		return bc.ForwardStep
	}
	return bc.Jump
}

// longestItem and longestPQ are dijkstra/dijkstra.go's nodeItem/nodePQ,
// renamed and flipped to max-heap ordering (see estimateCriticalPath).
type longestItem struct {
	id   cfgraph.NodeID
	dist int64
}

type longestPQ []*longestItem

func (pq longestPQ) Len() int            { return len(pq) }
func (pq longestPQ) Less(i, j int) bool  { return pq[i].dist > pq[j].dist }
func (pq longestPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *longestPQ) Push(x interface{}) { *pq = append(*pq, x.(*longestItem)) }
func (pq *longestPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
