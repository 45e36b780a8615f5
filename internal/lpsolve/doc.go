// Package lpsolve is the shared LP-text + external-solver boundary spec §6
// describes: "the generator writes an LP in a solver-agnostic text form and
// invokes an external solver, receiving back a list of (variable_name,
// value) pairs." Both internal/ipet (WCET bound) and internal/scratchpad
// (ISP assignment) write a Problem here and call Solve against whatever
// solver binary the caller configures; neither package talks to os/exec
// directly.
package lpsolve
