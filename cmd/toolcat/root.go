package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/toolcat/internal/config"
	"github.com/five82/toolcat/internal/logging"
	"github.com/five82/toolcat/internal/prefs"
)

type cliOptions struct {
	configPath string
	prefsPath  string
	jsonOutput bool

	config config.Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := cliOptions{
		configPath: config.DefaultPath(),
		prefsPath:  prefs.DefaultPath(),
		logger:     zap.NewNop(),
	}

	root := &cobra.Command{
		Use:           "toolcat",
		Short:         "Browse and compare AI developer tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd, &opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", opts.configPath, "config file path")
	flags.StringVar(&opts.prefsPath, "prefs", opts.prefsPath, "preferences file path")
	flags.String("catalog", "", "catalog file or http(s) API base URL")
	flags.Bool("watch", true, "reload a file catalog when it changes")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("log", "", "log file path")
	flags.BoolVar(&opts.jsonOutput, "json", false, "output JSON")

	root.AddCommand(
		newBrowseCmd(&opts),
		newListCmd(&opts),
		newSearchCmd(&opts),
		newShowCmd(&opts),
		newFeaturedCmd(&opts),
		newStatsCmd(&opts),
		newLogsCmd(&opts),
	)

	return root
}

// load resolves configuration from the command's flags and builds the
// file logger shared by every subcommand.
func (o *cliOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	o.config = cfg

	logger, err := logging.New(logging.Options{File: cfg.LogFile, Debug: cfg.Debug})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	o.logger = logger.With(zap.String("command", cmd.Name()))
	return nil
}
