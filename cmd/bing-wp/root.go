package main

import (
	"github.com/spf13/cobra"

	"github.com/handiism/bing-wallpaper/internal/logging"
	"github.com/handiism/bing-wallpaper/internal/wallpaper"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var dirFlag string
	var number int
	var state int
	var update bool

	ctx := newCommandContext(&configFlag, &dirFlag)

	rootCmd := &cobra.Command{
		Use:   "bing-wp",
		Short: "Download the Bing photo of the day and use it as wallpaper",
		Long: `bing-wp fetches the Bing image archive, downloads the selected day's
photo as wallpaper.jpg (keeping the previous one as a numbered backup),
optionally rewrites lines 2 and 3 of README.md and, on Windows, applies the
image as desktop background.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureSettings()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, ctx, wallpaper.Options{
				DayOffset:  number,
				RunDepth:   wallpaper.RunDepth(state),
				UpdateOnly: update,
			})
		},
	}

	rootCmd.Flags().IntVarP(&number, "number", "n", 0, "Day offset, 0 (today) to 7")
	rootCmd.Flags().IntVarP(&state, "state", "s", int(wallpaper.DepthApply), "Run depth: 0 link only, 1 download, 2 download and set wallpaper")
	rootCmd.Flags().BoolVarP(&update, "update", "u", false, "Only update the markdown document and log to the console")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", "", "Working directory for wallpapers, backups and logs")

	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newArchiveCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

func runFetch(cmd *cobra.Command, ctx *commandContext, opts wallpaper.Options) error {
	settings, err := ctx.ensureSettings()
	if err != nil {
		return err
	}

	logger, closeLog, err := ctx.newLogger(opts.UpdateOnly, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeLog()

	logger, opts.RunID = logging.WithRun(logger)
	logger.Info("Start", "offset", opts.DayOffset, "state", opts.RunDepth, "update", opts.UpdateOnly)

	fetcher := wallpaper.NewFetcher(settings, opts, progressLogger(logger))
	fetcher.SetHistoryOpener(ctx.openHistory)
	defer fetcher.Close()

	res, err := fetcher.Run(cmd.Context())
	if err != nil {
		logger.Error("Run failed", "error", err)
		return err
	}

	logger.Info("Finish",
		"url", res.URL,
		"backup", res.BackupName,
		"readme", res.ReadmePatched,
		"applied", res.WallpaperApplied,
	)
	return nil
}
