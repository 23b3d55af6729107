package cmd

import (
	"fmt"

	"github.com/samuelfneumann/deepracerenv/environment/envconfig"
	"github.com/samuelfneumann/deepracerenv/experiment"
	"github.com/samuelfneumann/deepracerenv/ude"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check an experiment config without connecting",
		Long: `Validate loads an experiment config, checks its connection
parameters, and checks that its driver and config client are
registered. No connection is made.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(configFile)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %v for %d steps on %v "+
				"(driver %s, config client %s)\n", configFile, c.Type,
				c.MaxSteps, c.Env.Address, c.Env.Driver, c.Env.ConfigClient)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "",
		"experiment config file")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

// loadConfig loads an experiment config and checks that it can be run
// by this binary
func loadConfig(path string) (experiment.Config, error) {
	c, err := experiment.LoadConfig(path)
	if err != nil {
		return experiment.Config{}, err
	}

	if c.Type != experiment.OnlineExp {
		return experiment.Config{}, fmt.Errorf("unknown experiment type %q",
			c.Type)
	}
	if c.MaxSteps == 0 {
		return experiment.Config{}, fmt.Errorf("maxSteps must be positive")
	}
	if _, err := ude.Lookup(c.Env.Driver); err != nil {
		return experiment.Config{}, err
	}
	if _, err := envconfig.Lookup(c.Env.ConfigClient); err != nil {
		return experiment.Config{}, err
	}
	return c, nil
}
