package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/liamso/folio"
	"github.com/liamso/folio/content"
)

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the category index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closer, err := folio.OpenStore(c.cfg)
			if err != nil {
				return err
			}
			defer closer()

			idx, err := folio.NewContentService(c.cfg, store, c.logger).GetCategorizedArticles()
			if err != nil {
				return err
			}
			printIndex(cmd.OutOrStdout(), idx)
			return nil
		},
	}
}

func printIndex(w io.Writer, idx *content.Index) {
	if idx.Len() == 0 {
		fmt.Fprintln(w, dimStyle.Render("no articles"))
		return
	}
	for i, cat := range idx.Categories {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n", headingStyle.Render(cat.Name), dimStyle.Render(fmt.Sprintf("(%d)", len(cat.Articles))))
		for _, s := range cat.Articles {
			fmt.Fprintf(w, "  %s  %-24s %s\n", dimStyle.Render(s.Date.Format(content.DateLayout)), s.Slug, s.Title)
		}
	}
}
