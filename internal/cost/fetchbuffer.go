package cost

import "github.com/smetzlaff/isptap-sub000/internal/config"

// FetchBuffer tracks the unconsumed, already-fetched bytes available to the
// decoder between instructions — the only carrier of temporal state across
// an instruction sequence (spec §4.6).
type FetchBuffer struct {
	buffered int
}

// NewFetchBuffer returns the buffer state a block starting at addr begins
// with, if it is entered by straight fallthrough from its predecessor
// (enteredByFallthrough). A block entered by a jump always starts with an
// empty buffer: a taken branch flushes whatever the fetch unit had queued.
func NewFetchBuffer(addr uint32, enteredByFallthrough bool, p *config.Profile) *FetchBuffer {
	if !enteredByFallthrough {
		return &FetchBuffer{}
	}
	fetchBytes := p.FetchBytesPerCycle()
	if int(addr)%fetchBytes != 0 {
		return &FetchBuffer{buffered: fetchBytes / 2}
	}
	return &FetchBuffer{}
}

// Consume charges the fetch latency for decoding the next `length` bytes,
// fetching fetchBytes-sized chunks (at latency cycles apiece) until enough
// bytes are buffered, then debiting the consumed bytes.
func (b *FetchBuffer) Consume(length, fetchBytes, latency int) int64 {
	var cycles int64
	for b.buffered < length {
		b.buffered += fetchBytes
		cycles += int64(latency)
	}
	b.buffered -= length
	return cycles
}
