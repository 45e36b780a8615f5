// Command isptap is the end-to-end WCET analyzer of spec §6: it reads a
// disassembly dump, builds one CFG per function, inlines call sites into a
// whole-program SCFG, transforms known-bound loops into a VIVU-expanded
// MSG, optionally assigns basic blocks to an instruction scratchpad, and
// solves the resulting IPET formulation for a worst-case execution-time
// bound, WC-path trace, and basic-block activation histogram.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process-wide structured logger from zap's production
// config, at debug level when verbose is set and with stack traces disabled.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}
