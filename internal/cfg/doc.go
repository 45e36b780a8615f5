// Package cfg builds and queries the per-function control-flow graph
// described in spec §3 ("CFG") and §4.2/§4.3: one Entry, one Exit, a
// BasicBlock node per maximal straight-line run, CallSite nodes at call
// instructions, and UnknownJumpTarget nodes for indirect branches the
// parser could not resolve.
//
// A CFG is built incrementally by internal/dumpparser (Build phase) and
// sealed with Finish, which also checks the "isFinished" invariant: every
// basic block must have at least one outgoing edge, or the CFG is rejected
// per spec §7's parser-state-drift fatal condition.
package cfg
