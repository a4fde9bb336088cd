package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			books, err := store.ListBooks(cmd.Context())
			if err != nil {
				return err
			}
			if len(books) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "catalog is empty")
				return nil
			}

			rows := make([][]string, 0, len(books))
			for _, book := range books {
				series := book.Series
				if series != "" && book.SeriesIndex > 0 {
					series = fmt.Sprintf("%s #%s", series, strconv.FormatFloat(book.SeriesIndex, 'f', -1, 64))
				}
				rows = append(rows, []string{
					strconv.FormatInt(book.ID, 10),
					book.Title,
					strings.Join(book.Authors, ", "),
					series,
					book.Publisher,
				})
			}
			out := renderTable(
				[]string{"ID", "Title", "Authors", "Series", "Publisher"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
