package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deepracer",
		Short: "Run experiments in remote DeepRacer environments",
		Long: `deepracer connects to a remote DeepRacer simulation and runs
agents in it, saving the return and episode length of every agent.

Transports and config clients are selected by name. Only those linked
into the binary are available; list them with "deepracer drivers".`,
		// SilenceUsage is set to true to prevent printing usage message on
		// errors handled by us (e.g. invalid configs, failed connections)
		SilenceUsage: true,
	}

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newDriversCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "deepracer version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}
