// Package callgraph is a small function-level call graph used by
// internal/scfg to order inlining leaves-first and to reject recursive
// programs early with a named cycle; internal/scfg has no inlining-stack
// check of its own and relies on this one. Vertices are function labels
// (strings), which is the
// one place in this codebase a generic string-keyed graph is still the
// right tool — unlike CFG/SCFG/MSG nodes, a function label carries no
// per-node attribute set that would need a fixed-record arena.
//
// The concurrency model — RWMutex-guarded maps, build-then-query — and the
// sentinel-error style are carried over from the teacher library's
// core.Graph.
package callgraph
