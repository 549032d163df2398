package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/handiism/bing-wallpaper/internal/config"
	"github.com/handiism/bing-wallpaper/internal/history"
	"github.com/handiism/bing-wallpaper/internal/tui"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	var dir string

	cmd := &cobra.Command{
		Use:           "bing-wp-tui",
		Short:         "Pick a Bing photo of the day interactively",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = filepath.Join(dir, config.FileName)
			}
			settings, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if dir != "" {
				settings.Files.WorkDir = dir
			}

			var store *history.Store
			if path := settings.Resolve(settings.Files.HistoryDB); path != "" {
				if store, err = history.Open(path); err != nil {
					return err
				}
				defer store.Close()
			}

			return tui.Run(settings, store)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Working directory for wallpapers, backups and logs")
	return cmd
}
