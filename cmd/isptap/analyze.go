package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smetzlaff/isptap-sub000/internal/config"
	"github.com/smetzlaff/isptap-sub000/internal/cost"
	"github.com/smetzlaff/isptap-sub000/internal/dumpparser"
	"github.com/smetzlaff/isptap-sub000/internal/flowfacts"
	"github.com/smetzlaff/isptap-sub000/internal/ipet"
	"github.com/smetzlaff/isptap-sub000/internal/isa"
	"github.com/smetzlaff/isptap-sub000/internal/scfg"
	"github.com/smetzlaff/isptap-sub000/internal/scratchpad"
	"github.com/smetzlaff/isptap-sub000/internal/vivu"
	"github.com/smetzlaff/isptap-sub000/pkg/report"
)

// analyzeFlags holds the analyze subcommand's own flags, on top of the
// root command's shared --config/--verbose.
type analyzeFlags struct {
	dumpPath      string
	flowFactsPath string
	arch          string
	rootFunc      string
	ispSize       int
	solverBinary  string
	tracePath     string
	histPath      string
	statsPath     string
}

func newAnalyzeCmd(root *rootFlags) *cobra.Command {
	flags := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute a worst-case execution-time bound for one function",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(root, flags)
		},
	}

	cmd.Flags().StringVar(&flags.dumpPath, "dump", "", "disassembly dump file (required)")
	cmd.Flags().StringVar(&flags.flowFactsPath, "flow-facts", "", "loop-bound flow-fact YAML (optional; unbound loops fail feasibility)")
	cmd.Flags().StringVar(&flags.arch, "arch", "armv6m", "target architecture decoder: armv6m or carcore")
	cmd.Flags().StringVar(&flags.rootFunc, "func", "main", "function to compute the WCET bound for")
	cmd.Flags().IntVar(&flags.ispSize, "isp-size", 0, "instruction scratchpad capacity in bytes (0 disables ISP assignment)")
	cmd.Flags().StringVar(&flags.solverBinary, "solver", "", "external LP solver binary (empty: heuristic-only paths report not-calculated where an exact solve is required)")
	cmd.Flags().StringVar(&flags.tracePath, "out-trace", "-", "WC-path trace output file ('-' for stdout)")
	cmd.Flags().StringVar(&flags.histPath, "out-histogram", "-", "basic-block activation histogram output file ('-' for stdout)")
	cmd.Flags().StringVar(&flags.statsPath, "out-stats", "", "instruction-category breakdown output file (omit to skip)")
	_ = cmd.MarkFlagRequired("dump")

	return cmd
}

// lineClassifierFor resolves --arch to a dumpparser.LineClassifier. CarCore
// has no decoder; selecting it reports dumpparser.ErrUnsupportedArchitecture
// here, at selection time, before Parse runs.
func lineClassifierFor(arch string) (dumpparser.LineClassifier, error) {
	switch arch {
	case "armv6m":
		return isa.NewArmv6M(), nil
	case "carcore":
		return nil, dumpparser.ErrUnsupportedArchitecture
	default:
		return nil, fmt.Errorf("isptap: unknown --arch %q", arch)
	}
}

func runAnalyze(root *rootFlags, flags *analyzeFlags) error {
	logger, err := newLogger(root.verbose)
	if err != nil {
		return fmt.Errorf("isptap: logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush on exit

	profile := config.Default()
	if root.configPath != "" {
		profile, err = config.LoadFile(root.configPath)
		if err != nil {
			return fmt.Errorf("isptap: %w", err)
		}
	}

	dec, err := lineClassifierFor(flags.arch)
	if err != nil {
		return fmt.Errorf("isptap: %w", err)
	}

	dumpFile, err := os.Open(flags.dumpPath)
	if err != nil {
		return fmt.Errorf("isptap: %w", err)
	}
	defer dumpFile.Close()

	parsed, err := dumpparser.Parse(dumpFile, dec, logger)
	if err != nil {
		return fmt.Errorf("isptap: parse: %w", err)
	}
	logger.Info("parsed disassembly dump",
		zap.Int("functions", len(parsed.Functions.Addrs())),
		zap.String("root", flags.rootFunc))

	var flowTable *flowfacts.Table
	if flags.flowFactsPath != "" {
		ff, err := os.Open(flags.flowFactsPath)
		if err != nil {
			return fmt.Errorf("isptap: %w", err)
		}
		defer ff.Close()
		flowTable, err = flowfacts.Load(ff)
		if err != nil {
			return fmt.Errorf("isptap: %w", err)
		}
	}

	assigned, err := assignScratchpad(flags, profile, parsed, logger)
	if err != nil {
		return err
	}
	memMode := cost.NoMem
	if assigned != nil {
		memMode = cost.StaticISP
		scratchpad.Rewrite(parsed.CFGs, assigned, profile)
	}

	built, err := scfg.Build(flags.rootFunc, parsed.CFGs, parsed.Calls)
	if err != nil {
		return fmt.Errorf("isptap: scfg: %w", err)
	}

	msg, err := vivu.Build(built, flowTable)
	if err != nil {
		return fmt.Errorf("isptap: vivu: %w", err)
	}

	if err := ipet.Annotate(msg, assigned, memMode, profile); err != nil {
		return fmt.Errorf("isptap: annotate: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), solverTimeout)
	defer cancel()

	result, err := ipet.Compute(ctx, msg, ipet.SolverConfig{Binary: flags.solverBinary, Timeout: solverTimeout})
	if err != nil {
		return fmt.Errorf("isptap: compute: %w", err)
	}
	if result.Kind != ipet.Optimal && result.Kind != ipet.SubOptimal {
		return fmt.Errorf("isptap: IPET solve reported %s", result.Kind)
	}
	logger.Info("WCET computed", zap.Int64("wcet", result.WCET), zap.String("kind", result.Kind.String()))

	if err := writeNamedOutput(flags.tracePath, func(w *os.File) error { return report.WriteTrace(w, result.Path) }); err != nil {
		return fmt.Errorf("isptap: trace: %w", err)
	}
	if err := writeNamedOutput(flags.histPath, func(w *os.File) error { return report.WriteHistogram(w, result.Histogram) }); err != nil {
		return fmt.Errorf("isptap: histogram: %w", err)
	}
	if flags.statsPath != "" {
		stats := report.ComputeInstrStats(result.Path)
		if err := writeNamedOutput(flags.statsPath, func(w *os.File) error {
			_, err := fmt.Fprintf(w, "%+v\n", stats)
			return err
		}); err != nil {
			return fmt.Errorf("isptap: stats: %w", err)
		}
	}

	return nil
}

const solverTimeout = 30 * time.Second

// assignScratchpad runs the ISP optimizer over every parsed function when
// --isp-size is positive, returning nil (no scratchpad modeled) otherwise.
func assignScratchpad(flags *analyzeFlags, profile *config.Profile, parsed *dumpparser.Result, logger *zap.Logger) (map[uint32]bool, error) {
	if flags.ispSize <= 0 {
		return nil, nil
	}
	opt := scratchpad.NewOptimizer(parsed.CFGs, profile, scratchpad.SolverConfig{Binary: flags.solverBinary, Timeout: solverTimeout})
	opt.SetSize(flags.ispSize)

	ctx, cancel := context.WithTimeout(context.Background(), solverTimeout)
	defer cancel()
	assignment, err := opt.ComputeAssignment(ctx)
	if err != nil {
		return nil, fmt.Errorf("scratchpad: %w", err)
	}
	logger.Info("scratchpad assignment computed",
		zap.Int("used_size", assignment.UsedSize),
		zap.Int("blocks", len(assignment.AssignedBlockAddrs)))

	assigned := make(map[uint32]bool, len(assignment.AssignedBlockAddrs))
	for _, addr := range assignment.AssignedBlockAddrs {
		assigned[addr] = true
	}
	return assigned, nil
}

// writeNamedOutput opens path (or stdout, for "-") and runs write over it.
func writeNamedOutput(path string, write func(*os.File) error) error {
	if path == "-" || path == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}
