package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"folio/internal/catalog"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var nb catalog.NewBook

	cmd := &cobra.Command{
		Use:   "add --title TITLE",
		Short: "Register a book in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			book, err := store.AddBook(cmd.Context(), nb)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added book %d: %s\n", book.ID, book.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&nb.Title, "title", "", "Book title (required)")
	cmd.Flags().StringArrayVar(&nb.Authors, "author", nil, "Author name (repeatable)")
	cmd.Flags().StringVar(&nb.Publisher, "publisher", "", "Publisher name")
	cmd.Flags().StringVar(&nb.Series, "series", "", "Series name")
	cmd.Flags().Float64Var(&nb.SeriesIndex, "series-index", 0, "Position within the series")
	cmd.Flags().StringArrayVar(&nb.Tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringVar(&nb.Path, "file", "", "Path to the book file")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}
