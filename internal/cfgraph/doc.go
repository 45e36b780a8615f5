// Package cfgraph is the shared arena graph engine used by internal/cfg,
// internal/scfg, and internal/vivu to represent the CFG, SCFG, and MSG.
//
// It replaces the generic string-keyed, Metadata-bag graph style (as seen
// in the teacher library's core.Graph) with a fixed-record arena: nodes and
// edges live in contiguous tables and are addressed by a generation-tagged
// handle, per spec §9's redesign flag against void*-typed properties and
// cyclic pointer ownership. Each graph instance owns exactly one Graph[N, E]
// arena, parameterized by the node/edge attribute record the calling layer
// needs (cfg.NodeData/cfg.EdgeData, scfg's, msg's).
//
// Lifecycle follows spec §5: a Graph is writable (Build phase) until Freeze
// is called; after that, structural mutation (AddNode/AddEdge) returns
// ErrFrozen, but a
// strict subset of per-node/per-edge attributes may still be overwritten via
// SetNode/SetEdge during the Annotate phase (costs, flows, activations).
package cfgraph
