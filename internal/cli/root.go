// Package cli implements the shelfmatch command line tool.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shelfmatch/backend/config"
	"github.com/shelfmatch/backend/internal/logger"
)

const app = "shelfmatch"

// Actual version can be specified in build command.
var version = "dev"

// options are the persistent flags shared by every subcommand
type options struct {
	configFile string
	debug      bool
	json       bool

	logger *zap.Logger
}

// loadConfig reads the configuration named by --config, or the default locations
func (o *options) loadConfig() (*config.Config, error) {
	return config.LoadFile(o.configFile)
}

// NewRootCommand builds the shelfmatch command tree
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           app,
		Short:         "shelfmatch matches small food brands with independent NYC stores",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Command output owns stdout, so logs go to stderr.
			zl, err := logger.New(config.LogConfig{JSON: opts.json, Debug: opts.debug, Output: "stderr"})
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}
			opts.logger = zl
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "a config file (default is config.yaml in ., ./config or /etc/shelfmatch)")
	root.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")
	root.PersistentFlags().BoolVarP(&opts.json, "json", "j", false, "json format for logging")

	root.AddCommand(
		newMatchCommand(opts),
		newIntakeCommand(opts),
		newSeedCommand(opts),
		newVersionCommand(),
	)

	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}
