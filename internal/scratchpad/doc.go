// Package scratchpad implements the instruction-scratchpad (ISP)
// assignment contract of spec §4.7: given a capacity in bytes, choose the
// subset of basic blocks that fit and minimize the estimated cycle bound.
//
// Grounded on original_source/src/memory/sisp_optimizer_if.cpp,
// disp_instrumentator.cpp/hpp, fifo_bf_disp_state_maintainer.cpp for the
// contract shape (set_size/compute_assignment/get_block_assignment/
// used_size), and on four pieces of the teacher's algorithm collection for
// the mechanics, each kept in its own file:
//
//   - incidence.go: per-block widening-penalty bookkeeping, styled after
//     matrix/impl_incidence.go's dense incidence rows — one row per block,
//     one boolean column per penalty kind, rather than matrix's {-1,0,+1}
//     topology values, since here the question is "does this block's
//     placement force a size penalty", not "is this vertex this edge's
//     endpoint".
//   - greedy.go: an initial feasible assignment, styled after
//     prim_kruskal/kruskal.go's sort-then-greedy-with-feasibility-check
//     shape — ascending-weight edge sort + union-find cycle check becomes
//     descending-benefit-density block sort + running-size capacity check.
//   - twoopt.go: a local-search refinement pass over the greedy seed,
//     styled after tsp/two_opt.go's first-improvement restart-on-accept
//     loop — segment reversal becomes a single assigned/unassigned swap.
//   - estimate.go: a per-function critical-path cycle estimate, styled
//     after dijkstra/dijkstra.go's heap-based relax loop with lazy
//     decrease-key, adapted from shortest-path (non-negative weights,
//     minimize) to longest-path over the acyclic (back-edge-free)
//     projection of a function's CFG.
//
// The exact solve path writes the same candidate set as an LP (binary
// block-assignment indicators "a<addr>" plus widening-penalty indicators,
// aggregated into the single "sp" used-space variable spec §6 names) and
// submits it through internal/lpsolve; the heuristic above only runs when
// no solver binary is configured, or as the starting point two-opt
// refines before the LP path is attempted.
package scratchpad
