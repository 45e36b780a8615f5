package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Latencies holds the per-instruction-class base latencies spec §4.6
// requires the cost engine to add (the "canonical issue cycle of 1" is
// added by the cost engine itself, not stored here).
type Latencies struct {
	Arith          int `yaml:"arith"`
	LoadOnChip     int `yaml:"load_onchip"`
	LoadOffChip    int `yaml:"load_offchip"`
	StoreOnChip    int `yaml:"store_onchip"`
	StoreOffChip   int `yaml:"store_offchip"`
	MemOnChip      int `yaml:"mem_onchip"`  // per register, multi-reg load/store
	MemOffChip     int `yaml:"mem_offchip"` // per register, multi-reg load/store
	PopReturnExtra int `yaml:"pop_return_extra"`
	Uncond         int `yaml:"uncond"`
	Call           int `yaml:"call"`
	Bx             int `yaml:"bx"`
	Blx            int `yaml:"blx"`
	CondTaken      int `yaml:"cond_taken"`
	CondNotTaken   int `yaml:"cond_not_taken"`
	Isb            int `yaml:"isb"`
	Dsb            int `yaml:"dsb"`
	Dmb            int `yaml:"dmb"`
	System         int `yaml:"system"` // NOP and other misc special ops
}

// DisplacementPenalties is the size-penalty table of spec §4.7, in bytes,
// keyed by widening kind.
type DisplacementPenalties struct {
	ContinuousAddressing int `yaml:"continuous_addressing"`
	JumpShort             int `yaml:"jump_short"`
	CallShort             int `yaml:"call_short"`
}

// FetchModel parameterizes spec §4.6's fetch-buffer simulation.
type FetchModel struct {
	BandwidthBits  int `yaml:"bandwidth_bits"`
	LatencyOnChip  int `yaml:"latency_onchip"`
	LatencyOffChip int `yaml:"latency_offchip"`
}

// Profile is the complete architecture configuration. It is created once
// and shared by reference; nothing in this package mutates a Profile after
// construction.
type Profile struct {
	Name         string                `yaml:"name"`
	Fetch        FetchModel            `yaml:"fetch"`
	Latency      Latencies             `yaml:"latency"`
	Displacement DisplacementPenalties `yaml:"displacement"`
}

// Default returns the ARMv6-M profile used by spec §8's six worked
// scenarios, with round, easy-to-verify latencies.
func Default() *Profile {
	return &Profile{
		Name: "armv6m-default",
		Fetch: FetchModel{
			BandwidthBits:  16,
			LatencyOnChip:  1,
			LatencyOffChip: 3,
		},
		Latency: Latencies{
			Arith: 1, LoadOnChip: 1, LoadOffChip: 3, StoreOnChip: 1, StoreOffChip: 3,
			MemOnChip: 1, MemOffChip: 3, PopReturnExtra: 1,
			Uncond: 1, Call: 1, Bx: 1, Blx: 1,
			CondTaken: 1, CondNotTaken: 1,
			Isb: 2, Dsb: 2, Dmb: 2, System: 0,
		},
		Displacement: DisplacementPenalties{
			ContinuousAddressing: 2,
			JumpShort:            2,
			CallShort:            2,
		},
	}
}

// Load parses a Profile from r, starting from Default() so a partial file
// only needs to override what differs.
func Load(r io.Reader) (*Profile, error) {
	p := Default()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(p); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if p.Fetch.BandwidthBits <= 0 {
		return nil, fmt.Errorf("config: fetch.bandwidth_bits must be positive, got %d", p.Fetch.BandwidthBits)
	}
	return p, nil
}

// LoadFile opens and parses path.
func LoadFile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// FetchBytesPerCycle returns the number of bytes the fetch buffer can
// refill in one fetch, i.e. W/8 from spec §4.6/§8.
func (p *Profile) FetchBytesPerCycle() int { return p.Fetch.BandwidthBits / 8 }
