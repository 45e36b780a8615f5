package dumpparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	labelLineRe = regexp.MustCompile(`^([0-9a-fA-F]{4,8})\s+<([^>]+)>:\s*$`)
	codeLineRe  = regexp.MustCompile(`^\s*([0-9a-fA-F]{4,8}):\t([0-9a-fA-F]{4}(?:\s[0-9a-fA-F]{4})?)\t(.*)$`)
	holeLineRe  = regexp.MustCompile(`^\s*\.\.\.\s*$`)
	wordLineRe  = regexp.MustCompile(`^\s*([0-9a-fA-F]{4,8}):\t([0-9a-fA-F]{8})\t\.word.*$`)
)

// LineKind classifies one line of the disassembly listing.
type LineKind int

const (
	LineLabel LineKind = iota
	LineCode
	LineHole
	LineWord
	LineOther // blank lines, section headers, etc. — ignored
)

// Line is one tokenized line of the disassembly.
type Line struct {
	Kind     LineKind
	Addr     uint32
	Halfwords []uint16
	Mnemonic string // verbatim text after the opcode bytes
	Label    string // function label, for LineLabel
}

// ParseLine classifies a single text line. It never returns an error for
// unrecognized lines — those become LineOther — because the dump format
// carries plenty of lines (section banners, blank separators) the parser
// doesn't need.
func ParseLine(text string) (Line, error) {
	if holeLineRe.MatchString(text) {
		return Line{Kind: LineHole}, nil
	}
	if m := labelLineRe.FindStringSubmatch(text); m != nil {
		addr, err := strconv.ParseUint(m[1], 16, 32)
		if err != nil {
			return Line{}, fmt.Errorf("dumpparser: bad label address %q: %w", m[1], err)
		}
		return Line{Kind: LineLabel, Addr: uint32(addr), Label: m[2]}, nil
	}
	if m := wordLineRe.FindStringSubmatch(text); m != nil {
		addr, err := strconv.ParseUint(m[1], 16, 32)
		if err != nil {
			return Line{}, fmt.Errorf("dumpparser: bad .word address %q: %w", m[1], err)
		}
		return Line{Kind: LineWord, Addr: uint32(addr)}, nil
	}
	if m := codeLineRe.FindStringSubmatch(text); m != nil {
		addr, err := strconv.ParseUint(m[1], 16, 32)
		if err != nil {
			return Line{}, fmt.Errorf("dumpparser: bad code address %q: %w", m[1], err)
		}
		hws, err := parseHalfwords(m[2])
		if err != nil {
			return Line{}, err
		}
		return Line{Kind: LineCode, Addr: uint32(addr), Halfwords: hws, Mnemonic: strings.TrimSpace(m[3])}, nil
	}
	return Line{Kind: LineOther}, nil
}

func parseHalfwords(field string) ([]uint16, error) {
	parts := strings.Fields(field)
	out := make([]uint16, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(p, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("dumpparser: bad opcode half-word %q: %w", p, err)
		}
		out = append(out, uint16(v))
	}
	return out, nil
}
