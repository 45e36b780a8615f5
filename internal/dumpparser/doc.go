// Package dumpparser turns a disassembly listing into per-function CFGs,
// per spec §4.2. It recognizes the two line shapes spec §6 names — a label
// line ("<hex-addr> <LABEL>:") and a code line
// ("<hex-addr>:\t<opcode-bytes>\t<mnemonic+operands>") — plus "..." memory
// holes and ".word" data directives, and classifies every code line's
// opcode bytes via internal/isa.
//
// The parser is deliberately textual and line-oriented (spec §1 places
// "dump-file textual parsing details" out of the core's scope); the only
// structural contract it owes the rest of the pipeline is producing
// well-formed internal/cfg.CFG values per function, per §4.2's bullets.
package dumpparser
