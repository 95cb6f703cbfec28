package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/toolcat/internal/app"
	"github.com/five82/toolcat/internal/catalog"
	"github.com/five82/toolcat/internal/logging"
	"github.com/five82/toolcat/internal/toolservice"
)

// openShell builds the application shell for a one-shot command. Commands
// that print catalog data fail when the catalog could not be loaded.
func (o *cliOptions) openShell(cmd *cobra.Command) (*app.Shell, error) {
	cfg := o.config
	shell, err := app.Open(cmd.Context(), app.Options{
		Config:    &cfg,
		PrefsPath: o.prefsPath,
		Logger:    o.logger,
	})
	if err != nil {
		return nil, err
	}
	if info := shell.Store.GetState().Error; info != nil {
		_ = shell.Close()
		return nil, exitWith(exitUnavailable, "%s: %s", info.Message, info.Details)
	}
	return shell, nil
}

func runBrowse(cmd *cobra.Command, opts *cliOptions) error {
	cfg := opts.config
	return app.Run(cmd.Context(), app.Options{
		Config:    &cfg,
		PrefsPath: opts.prefsPath,
		Logger:    opts.logger,
	})
}

func newBrowseCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive catalog (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd, opts)
		},
	}
}

func newListCmd(opts *cliOptions) *cobra.Command {
	var (
		filters   toolservice.Filters
		minRating float64
		sortKey   string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tools matching the given filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("min-rating") {
				filters.MinRating = &minRating
			}
			shell, err := opts.openShell(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = shell.Close() }()

			key := catalog.ParseSortKey(sortKey)
			if !cmd.Flags().Changed("sort") {
				key = catalog.ParseSortKey(shell.Prefs.Sort)
			}
			tools := shell.Service.SortTools(shell.Service.FilterTools(filters), key)
			return printTools(cmd.OutOrStdout(), tools, opts.jsonOutput)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&filters.Type, "type", "", "tool type")
	flags.StringVar(&filters.Price, "price", "", "price model")
	flags.StringVar(&filters.Category, "category", "", "category")
	flags.StringVar(&filters.Status, "status", "", "release status")
	flags.Float64Var(&minRating, "min-rating", 0, "minimum rating")
	flags.StringSliceVar(&filters.Languages, "language", nil, "supported language (repeatable)")
	flags.StringSliceVar(&filters.Platforms, "platform", nil, "platform (repeatable)")
	flags.StringVar(&sortKey, "sort", string(catalog.SortPopularity), "sort key: popularity, name, rating, users, updated")
	return cmd
}

func newSearchCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search tools by relevance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell, err := opts.openShell(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = shell.Close() }()

			tools := shell.Service.SearchTools(strings.Join(args, " "))
			return printTools(cmd.OutOrStdout(), tools, opts.jsonOutput)
		},
	}
}

func newShowCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell, err := opts.openShell(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = shell.Close() }()

			tool, ok := shell.Service.Tool(args[0])
			if !ok {
				return exitWith(exitNotFound, "tool %q not found", args[0])
			}
			return printTool(cmd.OutOrStdout(), tool, opts.jsonOutput)
		},
	}
}

func newFeaturedCmd(opts *cliOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "featured",
		Short: "List featured tools by priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shell, err := opts.openShell(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = shell.Close() }()

			if !cmd.Flags().Changed("limit") {
				limit = shell.Config.FeaturedLimit
			}
			return printTools(cmd.OutOrStdout(), shell.Service.FeaturedTools(limit), opts.jsonOutput)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of tools (0 for all)")
	return cmd
}

func newStatsCmd(opts *cliOptions) *cobra.Command {
	var metrics bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shell, err := opts.openShell(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = shell.Close() }()

			if metrics {
				return printMetrics(cmd.OutOrStdout(), shell.Registry)
			}
			return printStatistics(cmd.OutOrStdout(), shell.Store.GetState().Statistics, opts.jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&metrics, "metrics", false, "print service metrics in Prometheus text format")
	return cmd
}

func newLogsCmd(opts *cliOptions) *cobra.Command {
	var lines int
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if lines <= 0 {
				return exitWith(1, "--lines must be positive")
			}
			tail, err := logging.Tail(opts.config.LogFile, lines)
			if err != nil {
				return err
			}
			return printLogLines(cmd.OutOrStdout(), tail, opts.jsonOutput)
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 100, "number of lines")
	return cmd
}
