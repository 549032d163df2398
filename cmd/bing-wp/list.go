package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/handiism/bing-wallpaper/internal/readme"
	"github.com/handiism/bing-wallpaper/internal/wallpaper"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var showURLs bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the images currently in the Bing archive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}

			fetcher := wallpaper.NewFetcher(settings, wallpaper.Options{}, nil)
			entries, err := fetcher.Entries(cmd.Context())
			if err != nil {
				return err
			}

			headers := []string{"#", "Date", "Title", "Copyright"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft}
			if showURLs {
				headers = append(headers, "URL")
				aligns = append(aligns, alignLeft)
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				date, err := readme.FormatDate(entry.EndDate)
				if err != nil {
					date = entry.EndDate
				}
				row := []string{strconv.Itoa(entry.Offset), date, entry.Title, entry.Copyright}
				if showURLs {
					row = append(row, fetcher.ResolveURL(entry))
				}
				rows = append(rows, row)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showURLs, "urls", false, "Include absolute image URLs")
	return cmd
}
