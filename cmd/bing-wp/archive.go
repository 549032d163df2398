package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handiism/bing-wallpaper/internal/logging"
	"github.com/handiism/bing-wallpaper/internal/wallpaper"
)

func newArchiveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "archive [dir]",
		Short: "Download every image in the Bing archive",
		Long: `Download all images of the current manifest into dir (archive.dir by
default) as <enddate>_<name>.jpg. Images already present are skipped.
dir must differ from the working directory, where dated names would be
counted as wallpaper backups.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}

			logger, closeLog, err := ctx.newLogger(true, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeLog()
			logger, runID := logging.WithRun(logger)

			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}

			fetcher := wallpaper.NewFetcher(settings, wallpaper.Options{RunID: runID}, progressLogger(logger))
			res, err := fetcher.Archive(cmd.Context(), dir)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Archived %d new images into %s (%d already present)\n",
				res.Downloaded, res.Dir, res.Skipped)
			return nil
		},
	}
}
