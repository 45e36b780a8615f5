package scratchpad

import (
	"sort"

	"github.com/smetzlaff/isptap-sub000/internal/config"
)

// greedyAssign builds a feasible seed assignment: sort candidates by
// benefit-per-byte descending, then walk the sorted list adding each block
// whose inclusion keeps the running used size within capacity.
//
// This mirrors prim_kruskal/kruskal.go's shape one-for-one: Kruskal sorts
// edges ascending by weight and greedily unions whichever next edge does
// not close a cycle; here we sort candidates descending by value density
// and greedily add whichever next candidate does not overflow the budget.
// The feasibility check itself (recompute usedSize, which re-evaluates
// every already-assigned block's penalty since a new addition can relieve
// a neighbor's ContinuousAddressing/Jump/Call penalty) stands in for
// Kruskal's union-find cycle test.
func greedyAssign(cands map[uint32]*candidate, capacity int, p *config.Profile) map[uint32]bool {
	addrs := sortedAddrs(cands)
	sort.SliceStable(addrs, func(i, j int) bool {
		return density(cands[addrs[i]]) > density(cands[addrs[j]])
	})

	assigned := make(map[uint32]bool, len(addrs))
	for _, addr := range addrs {
		assigned[addr] = true
		if usedSize(cands, assigned, p) > capacity {
			delete(assigned, addr)
		}
	}
	return assigned
}

// density is a candidate's benefit per byte of footprint, the sort key
// greedyAssign uses in place of Kruskal's edge weight.
func density(c *candidate) float64 {
	if c.size <= 0 {
		return 0
	}
	return float64(c.benefit) / float64(c.size)
}
