package scratchpad

import "github.com/smetzlaff/isptap-sub000/internal/config"

// refine runs first-improvement pairwise swaps over assigned, styled after
// tsp/two_opt.go's restart-after-accept loop: instead of reversing a tour
// segment, a "move" here exchanges one assigned block for one unassigned
// block when doing so strictly improves total benefit without breaking
// the capacity constraint, and scanning restarts from the top after every
// accepted swap exactly as two_opt.go restarts its (i,k) scan.
//
// maxIters bounds the number of accepted swaps, mirroring
// tsp.Options.TwoOptMaxIters (0 means unlimited, i.e. run to a local
// optimum).
func refine(cands map[uint32]*candidate, assigned map[uint32]bool, capacity int, p *config.Profile, maxIters int) map[uint32]bool {
	cur := make(map[uint32]bool, len(assigned))
	for a := range assigned {
		cur[a] = true
	}

	addrs := sortedAddrs(cands)
	accepted := 0
	for {
		improved := false

		for _, out := range addrs {
			if !cur[out] {
				continue
			}
			for _, in := range addrs {
				if cur[in] {
					continue
				}

				before := totalBenefit(cands, cur)

				delete(cur, out)
				cur[in] = true
				if usedSize(cands, cur, p) > capacity {
					delete(cur, in)
					cur[out] = true
					continue
				}

				after := totalBenefit(cands, cur)
				if after > before {
					improved = true
					accepted++
					break
				}
				// Not an improvement: revert and keep scanning.
				delete(cur, in)
				cur[out] = true
			}
			if improved {
				break
			}
		}

		if !improved {
			break // local optimum under the single-swap neighborhood
		}
		if maxIters > 0 && accepted >= maxIters {
			break
		}
	}
	return cur
}

func totalBenefit(cands map[uint32]*candidate, assigned map[uint32]bool) int64 {
	var total int64
	for addr := range assigned {
		if c, ok := cands[addr]; ok {
			total += c.benefit
		}
	}
	return total
}
