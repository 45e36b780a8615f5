// Package loophelper provides loop and path queries over an
// internal/cfg.CFG (and an SCFG or MSG built on the same node/edge
// vocabulary): finding the edge that injects flow into a loop, the back
// edge(s) that cause a loop, and whether two nodes are connected by a path
// that uses no back edge. The path queries are plain reachability: they do
// not track call/return context and do not use ContextStack, so they do
// not themselves rule out a path that "returns" into a different call site
// than the one it "called" from.
//
// It is grounded on the call/return-context design of
// original_source/src/graph/context_stack.hpp and the query surface of
// original_source/src/graph/cfgloophelper.hpp, adapted from boost-graph
// property maps to cfgraph.Graph handles.
package loophelper
