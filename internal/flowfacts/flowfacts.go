package flowfacts

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Unknown is the sentinel circulation value for an edge with no recorded
// bound.
const Unknown int64 = -1

// edgeEntry is the on-disk YAML shape: addresses are written as hex
// strings ("0x1000") to match the disassembly's own address notation.
type edgeEntry struct {
	From          string `yaml:"from"`
	To            string `yaml:"to"`
	MaxIterations int64  `yaml:"max_iterations"`
}

type fileShape struct {
	Edges []edgeEntry `yaml:"edges"`
}

// Key identifies a flow-annotated edge by its basic-block endpoints.
type Key struct {
	From uint32
	To   uint32
}

// Table is the parsed mapping from edge endpoints to their circulation
// bound.
type Table struct {
	bounds map[Key]int64
}

// Load parses a flow-fact YAML document from r.
func Load(r io.Reader) (*Table, error) {
	var shape fileShape
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&shape); err != nil && err != io.EOF {
		return nil, fmt.Errorf("flowfacts: decode: %w", err)
	}

	t := &Table{bounds: make(map[Key]int64, len(shape.Edges))}
	for _, e := range shape.Edges {
		from, err := parseAddr(e.From)
		if err != nil {
			return nil, fmt.Errorf("flowfacts: bad 'from' address %q: %w", e.From, err)
		}
		to, err := parseAddr(e.To)
		if err != nil {
			return nil, fmt.Errorf("flowfacts: bad 'to' address %q: %w", e.To, err)
		}
		t.bounds[Key{From: from, To: to}] = e.MaxIterations
	}
	return t, nil
}

func parseAddr(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// MaxIterations returns the recorded circulation for edge (from, to), or
// Unknown if the flow-fact file has no entry for it.
func (t *Table) MaxIterations(from, to uint32) int64 {
	if t == nil {
		return Unknown
	}
	v, ok := t.bounds[Key{From: from, To: to}]
	if !ok {
		return Unknown
	}
	return v
}

// Len reports how many edges carry an explicit bound.
func (t *Table) Len() int { return len(t.bounds) }
