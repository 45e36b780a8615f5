// Package cost computes per-basic-block cycle costs under a fixed
// pipeline/fetch model, grounded on
// original_source/src/arch/armv6m_core_timing.cpp/hpp and
// original_source/src/graph/cfgcost_calc.cpp/hpp.
//
// The fetch-buffer simulation (FetchBuffer) is a deliberate generalization
// of the original's hardware-window model, which hardcodes a 32-bit fetch
// bandwidth and charges up to two fetches for an unaligned 4-byte
// instruction by reasoning about aligned fetch windows directly. This
// package instead treats the buffer as a running byte count: consuming an
// instruction that needs more bytes than are buffered repeats "add one
// fetch's worth of bytes" until enough are available. This is simpler,
// generalizes to any configured fetch bandwidth, and satisfies the same
// round-trip law the original's model was built to satisfy — for n
// two-byte aligned instructions starting fetch-aligned, total fetch
// latency is ceil(2n / (bandwidth_bits/8)) * fetch_latency.
package cost
