package dumpparser

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"

	"github.com/smetzlaff/isptap-sub000/internal/callgraph"
	"github.com/smetzlaff/isptap-sub000/internal/cfg"
	"github.com/smetzlaff/isptap-sub000/internal/cfgraph"
	"github.com/smetzlaff/isptap-sub000/internal/isa"
)

// Result is everything one call to Parse produces: one CFG per function,
// the call graph recording every resolved direct call, and the function
// table the caller can use to map an address back to its owning function.
type Result struct {
	Functions *FunctionTable
	CFGs      map[string]*cfg.CFG
	Calls     *callgraph.Graph
}

// ErrUnsupportedArchitecture names an architecture that has no decoder
// (spec's CarCore placeholder). cmd/isptap returns it when CarCore is
// selected; Parse itself never does.
var ErrUnsupportedArchitecture = fmt.Errorf("dumpparser: unsupported architecture")

// LineClassifier decodes one instruction's opcode half-words. internal/isa's
// Armv6M satisfies this; a CarCore decoder can be plugged in the same way
// once one exists.
type LineClassifier interface {
	Decode(hw1, hw2 uint16, address uint32) (isa.Instruction, error)
}

type instrLine struct {
	addr uint32
	ins  isa.Instruction
}

// Parse reads a full disassembly listing from r and builds one CFG per
// function, per spec §4.2. It is a two-pass process: the first pass
// collects function labels and decodes every instruction; the second walks
// each function's instruction range, splitting basic blocks at jump
// targets and wiring edges.
//
// A "..." hole is bridged with a run of 2-byte NOP placeholders spanning
// the elided address range (spec §4.2's "dead-code alignment padding"),
// since the dump tool omits repeated filler rather than list it
// instruction-by-instruction. A ".word" data directive immediately
// interrupts whatever basic block is in progress: the bytes it names are
// not executable, so the block ends at the preceding instruction and a
// fresh block begins at the next code line.
func Parse(r io.Reader, dec LineClassifier, logger *zap.Logger) (*Result, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	funcs := NewFunctionTable()
	var instrs []instrLine
	var pendingHole bool
	var holeFrom uint32
	var haveHoleFrom bool
	var afterWord bool
	wordBreaks := make(map[uint32]struct{})

	for sc.Scan() {
		line, err := ParseLine(sc.Text())
		if err != nil {
			return nil, err
		}
		switch line.Kind {
		case LineLabel:
			funcs.Add(line.Addr, line.Label)
		case LineHole:
			pendingHole = true
			if len(instrs) > 0 {
				last := instrs[len(instrs)-1]
				holeFrom = last.addr + uint32(last.ins.Length)
				haveHoleFrom = true
			}
		case LineWord:
			// Not executable: breaks whatever run of instructions precedes it.
			// No instrLine is emitted for it.
			afterWord = true
		case LineCode:
			if afterWord {
				wordBreaks[line.Addr] = struct{}{}
				afterWord = false
			}
			if pendingHole && haveHoleFrom {
				for a := holeFrom; a < line.Addr; a += 2 {
					instrs = append(instrs, instrLine{addr: a, ins: isa.Instruction{Address: a, Length: 2, Class: isa.System}})
				}
			}
			pendingHole = false
			haveHoleFrom = false

			if len(line.Halfwords) == 0 {
				return nil, fmt.Errorf("dumpparser: code line at 0x%x has no opcode half-words", line.Addr)
			}
			var hw2 uint16
			if len(line.Halfwords) > 1 {
				hw2 = line.Halfwords[1]
			}
			decoded, err := dec.Decode(line.Halfwords[0], hw2, line.Addr)
			if err != nil {
				return nil, err
			}
			instrs = append(instrs, instrLine{addr: line.Addr, ins: decoded})
		case LineOther:
			// ignored
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("dumpparser: scan: %w", err)
	}

	sort.Slice(instrs, func(i, j int) bool { return instrs[i].addr < instrs[j].addr })

	jumpTargets := make(map[uint32]struct{})
	for _, il := range instrs {
		if t, ok := isa.JumpTarget(il.ins); ok {
			jumpTargets[t] = struct{}{}
		}
	}
	for _, a := range funcs.Addrs() {
		jumpTargets[a] = struct{}{}
	}
	for a := range wordBreaks {
		jumpTargets[a] = struct{}{}
	}

	calls := callgraph.New()
	for _, addr := range funcs.Addrs() {
		label, _ := funcs.LabelAt(addr)
		calls.AddFunction(label)
	}

	cfgs := make(map[string]*cfg.CFG, len(funcs.Addrs()))
	for _, funcAddr := range funcs.Addrs() {
		label, _ := funcs.LabelAt(funcAddr)
		end, hasNext := funcs.NextFunctionAfter(funcAddr)
		if !hasNext {
			end = ^uint32(0)
		}
		g := cfg.New(label, funcAddr)

		funcInstrs := instrsInRange(instrs, funcAddr, end)
		if len(funcInstrs) == 0 {
			// An empty function (e.g. a declared-but-stripped symbol): wire
			// Entry straight to Exit so Finish's invariant still holds.
			if _, err := g.Connect(g.Entry, g.Exit, cfg.Meta); err != nil {
				return nil, err
			}
			if err := g.Finish(); err != nil {
				return nil, err
			}
			cfgs[label] = g
			continue
		}

		if err := buildFunctionCFG(g, funcInstrs, jumpTargets, funcs, calls, logger); err != nil {
			return nil, err
		}
		if err := g.Finish(); err != nil {
			return nil, err
		}
		cfgs[label] = g
	}

	return &Result{Functions: funcs, CFGs: cfgs, Calls: calls}, nil
}

func instrsInRange(all []instrLine, lo, hi uint32) []instrLine {
	start := sort.Search(len(all), func(i int) bool { return all[i].addr >= lo })
	end := sort.Search(len(all), func(i int) bool { return all[i].addr >= hi })
	if start > end {
		start = end
	}
	return all[start:end]
}

// buildFunctionCFG splits funcInstrs into basic blocks at every address that
// is either this function's entry, a jump target, or the instruction
// immediately following a control-flow instruction, then wires edges
// between the resulting blocks (and call sites, and unknown-jump-target
// placeholders) per spec §3's CFG edge vocabulary.
func buildFunctionCFG(
	g *cfg.CFG,
	funcInstrs []instrLine,
	jumpTargets map[uint32]struct{},
	funcs *FunctionTable,
	calls *callgraph.Graph,
	logger *zap.Logger,
) error {
	type blockSpan struct {
		start, end int // indices into funcInstrs, end exclusive
	}
	var spans []blockSpan
	spanStart := 0
	for i, il := range funcInstrs {
		_, isTarget := jumpTargets[il.ins.Address]
		if i > 0 && isTarget {
			spans = append(spans, blockSpan{spanStart, i})
			spanStart = i
		}
		if il.ins.Class.IsControlFlow() {
			spans = append(spans, blockSpan{spanStart, i + 1})
			spanStart = i + 1
		}
	}
	if spanStart < len(funcInstrs) {
		spans = append(spans, blockSpan{spanStart, len(funcInstrs)})
	}

	// First sub-pass: materialize every basic block node so branch wiring
	// can resolve forward references regardless of block order.
	starts := make([]uint32, 0, len(spans))
	for _, sp := range spans {
		start := funcInstrs[sp.start].ins.Address
		last := funcInstrs[sp.end-1].ins
		end := last.Address + uint32(last.Length)
		bbInstrs := make([]isa.Instruction, 0, sp.end-sp.start)
		for _, il := range funcInstrs[sp.start:sp.end] {
			bbInstrs = append(bbInstrs, il.ins)
		}
		bb := cfg.BasicBlock{
			Start:        start,
			End:          end,
			Size:         end - start,
			Instructions: bbInstrs,
		}
		if _, err := g.AddBasicBlock(bb); err != nil {
			return err
		}
		starts = append(starts, start)
	}

	// Entry connects to the block starting at the function's own address.
	entryID, _ := g.BasicBlockAt(funcInstrs[0].ins.Address)
	if _, err := g.Connect(g.Entry, entryID, cfg.Meta); err != nil {
		return err
	}

	for spi, sp := range spans {
		start := funcInstrs[sp.start].ins.Address
		nodeID, _ := g.BasicBlockAt(start)
		last := funcInstrs[sp.end-1].ins

		switch last.Class {
		case isa.Return:
			if _, err := g.Connect(nodeID, g.Exit, cfg.Meta); err != nil {
				return err
			}

		case isa.BranchUncond:
			if t, ok := isa.JumpTarget(last); ok {
				if err := connectBranch(g, nodeID, last.Address, t); err != nil {
					return err
				}
			} else {
				if err := connectUnresolved(g, nodeID, last.Address, logger, "indirect branch"); err != nil {
					return err
				}
			}

		case isa.BranchCond:
			if t, ok := isa.JumpTarget(last); ok {
				if err := connectBranch(g, nodeID, last.Address, t); err != nil {
					return err
				}
			} else {
				if err := connectUnresolved(g, nodeID, last.Address, logger, "conditional branch"); err != nil {
					return err
				}
			}
			if spi+1 < len(spans) {
				fallthroughID, _ := g.BasicBlockAt(starts[spi+1])
				if _, err := g.Connect(nodeID, fallthroughID, cfg.ForwardStep); err != nil {
					return err
				}
			}

		case isa.Call, isa.CallIndirect:
			var calleeLabel string
			if t, ok := isa.JumpTarget(last); ok {
				if l, ok := funcs.LabelAt(t); ok {
					calleeLabel = l
				} else {
					calleeLabel = fmt.Sprintf("unresolved@0x%x", t)
				}
			} else {
				calleeLabel = fmt.Sprintf("indirect@0x%x", last.Address)
			}
			callSite, err := g.AddCallSite(last.Address, calleeLabel)
			if err != nil {
				return err
			}
			if _, err := g.Connect(nodeID, callSite, cfg.Meta); err != nil {
				return err
			}
			if last.Class == isa.Call {
				calls.AddCall(g.Label, calleeLabel)
			}
			if spi+1 < len(spans) {
				fallthroughID, _ := g.BasicBlockAt(starts[spi+1])
				if _, err := g.Connect(callSite, fallthroughID, cfg.Meta); err != nil {
					return err
				}
			} else {
				if _, err := g.Connect(callSite, g.Exit, cfg.Meta); err != nil {
					return err
				}
			}

		default:
			// Block ended only because a jump target interrupted it, not
			// because it ends on control flow: fall through normally.
			if spi+1 < len(spans) {
				fallthroughID, _ := g.BasicBlockAt(starts[spi+1])
				if _, err := g.Connect(nodeID, fallthroughID, cfg.ForwardStep); err != nil {
					return err
				}
			} else {
				if _, err := g.Connect(nodeID, g.Exit, cfg.Meta); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// connectBranch wires from's edge to the basic block starting at target,
// classifying the edge ForwardJump or BackwardJump by address direction. A
// target outside the function's own block set (a tail call's target in
// another function, or a target this pass never materialized) becomes an
// UnknownJumpTargetNode instead of a dangling reference.
func connectBranch(g *cfg.CFG, from cfgraph.NodeID, fromAddr, target uint32) error {
	to, ok := g.BasicBlockAt(target)
	if !ok {
		uj, err := g.AddUnknownJumpTarget(target)
		if err != nil {
			return err
		}
		kind := cfg.ForwardJump
		if target < fromAddr {
			kind = cfg.BackwardJump
		}
		_, err = g.Connect(from, uj, kind)
		return err
	}
	kind := cfg.ForwardJump
	if target < fromAddr {
		kind = cfg.BackwardJump
	}
	_, err := g.Connect(from, to, kind)
	return err
}

func connectUnresolved(g *cfg.CFG, from cfgraph.NodeID, atAddr uint32, logger *zap.Logger, what string) error {
	uj, err := g.AddUnknownJumpTarget(atAddr)
	if err != nil {
		return err
	}
	if _, err := g.Connect(from, uj, cfg.ForwardJump); err != nil {
		return err
	}
	logger.Warn("unresolved "+what+" target", zap.Uint32("addr", atAddr))
	return nil
}
