package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/handiism/bing-wallpaper/internal/readme"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded wallpaper downloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("history is disabled (files.history_db is empty)")
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No downloads recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				day, err := readme.FormatDate(rec.EndDate)
				if err != nil {
					day = rec.EndDate
				}
				rows = append(rows, []string{
					strconv.FormatInt(rec.ID, 10),
					rec.DownloadedAt.Local().Format("2006-01-02 15:04"),
					day,
					rec.Title,
					rec.BackupName,
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Downloaded", "Day", "Title", "Backup"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of rows")
	return cmd
}
