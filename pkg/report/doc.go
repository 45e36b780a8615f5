// Package report renders an internal/ipet.Result as the two plain-text
// artifacts spec §6 names: a human-readable WC-path trace and a basic-block
// activation histogram. Both are grounded on
// original_source/src/util/wcpath_export.cpp's WCPathExporter: its
// printNode (the "; Node: ... Type: ... Name: ..." line, followed by one
// quoted-opcode line per instruction of a basic block) and its printWCHist
// (one "0x<addr>\t<count>" line per distinct block address). The original
// traverses the annotated graph itself to build these lines; here the walk
// already happened in internal/ipet.ExportPath, so this package is a pure
// formatter over its output.
package report
