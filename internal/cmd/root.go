package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for mvp
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mvp",
		Short: "Adjacency matrix personalization and validation",
		Long: `mvp validates a client's design decisions for a custom residence.

It starts from the benchmark adjacency matrix for the project's size tier,
applies the chosen decision options as patches, and scores the proposed
matrix against module checklists, required bridges and red-flag rules to
produce a pass, warning or fail gate.

Configuration is loaded from .mvp/config.yaml if present.
CLI flags override configuration file settings.`,
		Version: Version,

		// main prints the error once; usage would only repeat the help text
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: .mvp/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().String("log-dir", "", "Directory for run log files")

	cmd.AddCommand(NewTierCommand())
	cmd.AddCommand(NewPresetCommand())
	cmd.AddCommand(NewDecisionsCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewChooseCommand())
	cmd.AddCommand(NewExportCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
