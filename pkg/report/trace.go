package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/ipet"
)

// WriteTrace renders path as the WC-path trace format spec §6 names: one
// "; Node: <id> Type: <kind> Name: <label>" line per visited node,
// immediately followed — for a BasicBlockNode — by one
// "<address-hex> \"<mnemonic>\"" line per instruction in the block, in the
// teacher's printNode order.
//
// Name carries the SCFG label: a function name for Entry/Exit/CallSite, the
// block's hex start address for a BasicBlockNode, matching
// startAddrStringNProp's dual use in the teacher.
func WriteTrace(w io.Writer, path []ipet.PathStep) error {
	bw := bufio.NewWriter(w)
	for _, step := range path {
		name := step.Data.Label
		if step.Data.Kind == cfg.BasicBlockNode {
			name = fmt.Sprintf("0x%x", step.Data.Addr)
		}
		if _, err := fmt.Fprintf(bw, "; Node: %s Type: %s Name: %s\n", step.Node, step.Data.Kind, name); err != nil {
			return err
		}
		if step.Data.Kind != cfg.BasicBlockNode || step.Data.BB == nil {
			continue
		}
		for i, ins := range step.Data.BB.Instructions {
			if _, err := fmt.Fprintf(bw, "%x \"%s\"\n", ins.Address, mnemonic(step.Data.BB.Opcodes, i, ins.Class)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// mnemonic returns opcodes[i] when the decoded-dump disassembly text
// survived alongside the structured instruction, falling back to the
// instruction's abstract class — the same fallback the teacher's own
// decoder takes when a dump line carries no disassembly comment.
func mnemonic(opcodes []string, i int, class interface{ String() string }) string {
	if i < len(opcodes) && opcodes[i] != "" {
		return opcodes[i]
	}
	return class.String()
}
