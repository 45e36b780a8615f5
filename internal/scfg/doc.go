// Package scfg builds a Super Control Flow Graph: one function's CFG with
// every resolved direct call site replaced by an inlined copy of the
// callee's own (already-inlined) graph, processed leaves-first so a
// function is only ever inlined after all of its own callees have been
// flattened into it (spec §4.3, §9).
//
// A call site whose callee has no CFG (an external symbol, or an
// indirect/unresolved branch target) is left as a plain CallSiteNode —
// inlining only ever removes a call site, it never invents a body for one.
//
// Unlike internal/cfg.CFG, an SCFG does not enforce one basic block per
// address: the same source address can legitimately appear many times,
// once per inlined call-site context, so duplicate detection is dropped
// rather than worked around — the arena's generation-tagged NodeID already
// gives every copy a distinct identity (spec §9's redesign away from
// address-keyed lookups for anything but the per-function CFG layer).
package scfg
