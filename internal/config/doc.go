// Package config loads the architecture configuration described in spec §6:
// fetch bandwidth/latency, per-instruction-class latencies (§4.6), and the
// displacement-category size-penalty table (§4.7). A Profile is created
// once at startup (config.Load or config.Default) and then shared by
// reference as immutable process-wide configuration, per spec §5.
package config
