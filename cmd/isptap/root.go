package main

import (
	"github.com/spf13/cobra"
)

// rootFlags holds the flags every subcommand shares, set once by
// newRootCmd's PersistentFlags and read back by each subcommand's RunE.
type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:          "isptap",
		Short:        "Static WCET analysis for ARMv6-M/CarCore binaries",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "architecture profile YAML (default: built-in ARMv6-M profile)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug-level logging")

	root.AddCommand(newAnalyzeCmd(flags))
	return root
}
