// Package vivu transforms an SCFG into a Memory-State Graph by peeling the
// first iteration of every loop whose bound is known and positive, grounded
// on original_source/src/graph/vivug_creator.hpp's createVivuGraphForSequentialCode
// recursion: a loop's body is built once for the first iteration, then built
// again (completely independently) for "the rest of the iterations", and the
// first copy's back edge is redirected through a synthetic join node into
// the second copy's head rather than looping on itself.
//
// A loop whose bound is unknown or non-positive is left unpeeled: its back
// edge is copied verbatim with an unconstrained flow value, and the ILP
// stage inherits the job of deciding whether that leaves the bound
// unconstrained or infeasible.
//
// Nested loops fall out of the recursion for free: peeling an outer loop
// re-triggers the whole walk (including its own nested peel) for each of the
// outer loop's two copies, so an doubly-nested loop structure produces four
// copies of the innermost body. This multiplicative growth is inherent to
// virtual inlining/unrolling, not a defect of this implementation.
package vivu
