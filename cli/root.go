// Package cli is the staffing command tree.
package cli

import (
	"agent-staffing/config"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X agent-staffing/cli.Version=...".
var Version = "dev"

// NewRootCommand returns the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "staffing",
		Short: "Erlang B/C staffing planner for contact centers",
		Long: `staffing sizes agent head-count and trunk lines for contact center
call batches using the Erlang B and Erlang C queueing formulas.`,
		SilenceUsage: true,
	}

	// Global persistent flags
	root.PersistentFlags().String(config.KeyLogLevel, "info", "Log level: debug|info|warn|error")
	root.PersistentFlags().String(config.KeyConfigFile, "", "YAML config file")
	root.PersistentFlags().String(config.KeyEnvFile, config.DefaultEnvFile, "dotenv file loaded into the environment when present")

	root.AddCommand(newScheduleCommand(), newCalcCommand(), newVersionCommand())
	return root
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
