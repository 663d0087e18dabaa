package main

import (
	"github.com/spf13/cobra"
)

// rootFlags holds the global flags shared by every subcommand (spec
// §2.1, §7).
type rootFlags struct {
	output  string
	pretty  bool
	verbose bool
	config  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "cilens",
		Short:         "CI Lens analyzes a project's CI pipeline history for reliability and critical-path insights",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.output, "output", "o", "", "Write the report to this file instead of stdout")
	cmd.PersistentFlags().BoolVar(&flags.pretty, "pretty", false, "Pretty-print the JSON report")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.config, "config", "", "Path to a cilens config file")

	cmd.AddCommand(newGitLabCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
