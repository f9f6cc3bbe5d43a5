package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/liamso/folio"
	"github.com/liamso/folio/content"
)

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate every article and report each failure",
		Long: `check builds the category index and renders every article, the same
work the server does on first request. Every article that fails is
listed; the command exits non-zero if any did.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closer, err := folio.OpenStore(c.cfg)
			if err != nil {
				return err
			}
			defer closer()

			failures, total, err := checkStore(folio.NewContentService(c.cfg, store, c.logger))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range failures {
				fmt.Fprintf(out, "%s %s: %v\n", errStyle.Render("FAIL"), f.Slug, f.Err)
			}
			if len(failures) > 0 {
				return fmt.Errorf("%d of %d article(s) failed", len(failures), total)
			}
			fmt.Fprintf(out, "%s %d article(s)\n", okStyle.Render("ok"), total)
			return nil
		},
	}
}

// checkStore indexes and renders every article in svc. Store failures are
// returned as err; per-article failures are collected.
func checkStore(svc *content.Service) ([]*content.ArticleError, int, error) {
	slugs, err := svc.ListSlugs()
	if err != nil {
		return nil, 0, err
	}

	var failures []*content.ArticleError
	failed := make(map[string]bool)
	if _, err := svc.GetCategorizedArticles(); err != nil {
		var ie *content.IndexError
		if !errors.As(err, &ie) {
			return nil, 0, err
		}
		for _, f := range ie.Failures {
			failures = append(failures, f)
			failed[f.Slug] = true
		}
	}

	// Metadata may parse while the body still fails to render.
	for _, slug := range slugs {
		if failed[slug] {
			continue
		}
		if _, err := svc.GetArticle(slug); err != nil {
			failures = append(failures, &content.ArticleError{Slug: slug, Err: err})
		}
	}
	return failures, len(slugs), nil
}
