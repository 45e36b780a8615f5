// Package ipet implements the IPET (Implicit Path Enumeration Technique)
// core: annotate an already-built MSG with per-edge cost and memory
// penalty, write it as an LP whose objective is the cycle bound and whose
// rows are the standard flow-conservation constraints, submit it through
// internal/lpsolve, and map the returned activation counts back onto the
// MSG's edges to recover the worst-case path.
//
// Grounded on original_source/src/util/wcpath_export.cpp/hpp for the
// overall responsibility split (annotate, generate, solve, export) and on
// four pieces of the teacher's algorithm collection:
//
//   - annotate.go: per-edge cost/penalty stamping, reusing
//     internal/cost.AssignEdgeCost directly rather than re-deriving it —
//     internal/cost is this repo's own component, not teacher code, so
//     there is nothing to adapt here beyond wiring it to MSG's
//     SetFullEdge Annotate-phase mutator.
//   - feasibility.go: a lower-bounded max-flow feasibility pre-check,
//     styled after flow/dinic.go's BFS level-graph + DFS blocking-flow
//     shape, run before the (expensive, external) LP solve to reject a
//     network whose forced VIVU flows already make conservation
//     impossible without ever shelling out.
//   - generator.go: the LP itself — one binary-free continuous variable
//     per MSG edge, a flow-conservation row per internal node, an
//     equality row per VIVU-forced edge, and an objective that maximizes
//     total charged cycles. Unlike internal/scratchpad's ILP this has no
//     0/1 variables: IPET's classical formulation is already a pure LP
//     relaxation with an integral optimum on this constraint structure.
//   - wcpath.go: maps solved activations back onto MSG edges and walks
//     Entry to Exit by always taking the highest-activation out-edge,
//     pushing/popping a loophelper.ContextStack frame on every inlined
//     Entry/Exit boundary crossed along the way (spec §4.8's context-
//     sensitive path export, mirroring §4.4's push/pop rule).
package ipet
