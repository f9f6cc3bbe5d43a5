package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/liamso/folio"
	"github.com/liamso/folio/content"
)

func (c *cli) importCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Mirror a markdown directory into the content database",
		Long: `import copies every article in <dir> into the SQLite database named
by content_db and removes articles no longer present. The directory is
checked first; pass --force to import even if some articles fail.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.ContentDB == "" {
				return errors.New("import: content_db is not configured")
			}
			dir := args[0]
			info, err := os.Stat(dir)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("import: %s is not a directory", dir)
			}
			src := content.NewDirStore(os.DirFS(dir))
			out := cmd.OutOrStdout()

			if !force {
				failures, _, err := checkStore(folio.NewContentService(c.cfg, src, c.logger))
				if err != nil {
					return err
				}
				if len(failures) > 0 {
					for _, f := range failures {
						fmt.Fprintf(out, "%s %s: %v\n", errStyle.Render("FAIL"), f.Slug, f.Err)
					}
					return fmt.Errorf("import: %d article(s) failed, nothing imported", len(failures))
				}
			}

			db, err := content.OpenSQLiteStore(c.cfg.ContentDB)
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := db.Sync(src)
			if err != nil {
				return err
			}
			c.logger.Infof("imported %s into %s", dir, c.cfg.ContentDB)
			fmt.Fprintf(out, "%s %d written, %d deleted\n", okStyle.Render("ok"), res.Written, res.Deleted)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "import even if some articles fail to parse or render")
	return cmd
}
