// Package flowfacts loads the flow-fact file described in spec §6: a
// mapping from (source-BB-address, target-BB-address) to an integer
// max_iterations bound (the edge's circulation). Edges missing from the
// file default to -1 ("unknown / not constrained").
package flowfacts
