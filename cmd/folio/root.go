package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/liamso/folio"
)

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorError  = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#F25D94"}

	headingStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	errStyle     = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(colorAccent)
)

type cli struct {
	cfgFile string
	cfg     folio.SiteConfig
	logger  *log.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: log.New("folio")}

	root := &cobra.Command{
		Use:   "folio",
		Short: "folio - a markdown blog served with Go, Echo, and templ",
		Long: `folio serves a personal site whose blog is a directory of markdown
articles with YAML or TOML front matter, grouped by category.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := folio.LoadConfig(c.cfgFile)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger.SetLevel(logLevel(cfg.LogLevel))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ./folio.yaml)")

	root.AddCommand(
		c.serveCmd(),
		c.checkCmd(),
		c.listCmd(),
		c.importCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the folio version",
		Args:  cobra.NoArgs,
		// Skip config loading.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "folio %s\n", version)
		},
	}
}

func logLevel(s string) log.Lvl {
	switch s {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
