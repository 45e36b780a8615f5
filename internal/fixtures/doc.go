// Package fixtures builds small, deterministic synthetic programs for the
// six end-to-end scenarios spec §8 names, so every downstream package can
// test against the same inputs the spec describes instead of each
// re-deriving its own ad hoc graph. Every builder follows the teacher
// library's builder.Constructor shape (builder/impl_path.go,
// impl_cycle.go): a plain function, deterministic vertex/edge emission
// order, and sentinel errors rather than panics — generalized here from
// "build one graph" to "build one or more function CFGs plus the
// call/flow-fact tables that go with them."
package fixtures
