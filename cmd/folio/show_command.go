package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one catalog entry in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid book id %q", args[0])
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			book, err := store.GetBook(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:     %s\n", book.Title)
			if len(book.Authors) > 0 {
				fmt.Fprintf(out, "Authors:   %s\n", strings.Join(book.Authors, ", "))
			}
			if book.Series != "" {
				fmt.Fprintf(out, "Series:    %s #%s\n", book.Series, strconv.FormatFloat(book.SeriesIndex, 'f', -1, 64))
			}
			if book.Publisher != "" {
				fmt.Fprintf(out, "Publisher: %s\n", book.Publisher)
			}
			if len(book.Tags) > 0 {
				fmt.Fprintf(out, "Tags:      %s\n", strings.Join(book.Tags, ", "))
			}
			if book.Path != "" {
				fmt.Fprintf(out, "File:      %s\n", book.Path)
			}
			fmt.Fprintf(out, "Added:     %s\n", book.AddedAt)
			return nil
		},
	}
}
