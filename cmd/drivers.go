package cmd

import (
	"fmt"
	"io"

	"github.com/samuelfneumann/deepracerenv/environment/envconfig"
	"github.com/samuelfneumann/deepracerenv/ude"
	"github.com/spf13/cobra"
)

func newDriversCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drivers",
		Short: "List the registered transports and config clients",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			printNames(out, "Drivers", ude.Drivers())
			printNames(out, "Config clients", envconfig.Clients())
		},
	}
}

func printNames(w io.Writer, title string, names []string) {
	fmt.Fprintf(w, "%s:\n", title)
	if len(names) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", name)
	}
}
