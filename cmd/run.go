package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samuelfneumann/deepracerenv/environment/deepracer"
	"github.com/samuelfneumann/deepracerenv/experiment"
	"github.com/samuelfneumann/deepracerenv/experiment/tracker"
	"github.com/samuelfneumann/deepracerenv/logging"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type runOptions struct {
	configFile string
	outDir     string
	logLevel   string
	progress   bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run random agents in a DeepRacer environment",
		Long: `Run connects to the DeepRacer environment of an experiment
config and runs every agent with a uniform random policy until the step
budget is used up. The return and episode length of each agent are
saved to the output directory as <agent>_return.bin and
<agent>_length.bin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiment(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "",
		"experiment config file")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", ".",
		"directory to save results in")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info",
		"minimum log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&opts.progress, "progress", false,
		"display a progress bar")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func runExperiment(cmd *cobra.Command, opts *runOptions) (err error) {
	level, err := logging.ParseLogLevel(opts.logLevel)
	if err != nil {
		return err
	}
	logger := logging.NewTextLogger(cmd.ErrOrStderr(), level)

	c, err := loadConfig(opts.configFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("could not create output directory: %w", err)
	}

	env, err := c.Connect(func(o *deepracer.Options) {
		o.Logger = logger
	})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := env.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not close environment: %w", closeErr)
		}
	}()

	exp, err := c.CreateExp(env, func(o *experiment.Options) {
		o.Logger = logger
		if opts.progress {
			o.Progress = cmd.ErrOrStderr()
		}
	})
	if err != nil {
		return err
	}

	spaces, err := env.ActionSpace()
	if err != nil {
		return err
	}
	agents := maps.Keys(spaces)
	slices.Sort(agents)
	for _, id := range agents {
		prefix := filepath.Join(opts.outDir, string(id))
		exp.Register(id, tracker.NewReturn(prefix+"_return.bin"))
		exp.Register(id, tracker.NewEpisodeLength(prefix+"_length.bin"))
	}

	if err := exp.Run(); err != nil {
		return err
	}
	if err := exp.Save(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "saved results of %d agents to %s\n",
		len(agents), opts.outDir)
	return nil
}
