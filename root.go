package main

import (
	"github.com/spf13/cobra"

	"github.com/ongw/whatword/internal/catalog"
	"github.com/ongw/whatword/internal/config"
)

// cfg is filled from the environment (and .env) before any command runs;
// flags then override individual fields.
var cfg config.Config

func newRootCmd() *cobra.Command {
	var (
		categories string
		seconds    int
		logLevel   string
	)
	root := &cobra.Command{
		Use:          "whatword",
		Short:        "Name a thing in the category starting with the letter, before time runs out",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("categories") {
				c.Categories = categories
			}
			if flags.Changed("seconds") {
				c.Seconds = seconds
			}
			if flags.Changed("log-level") {
				c.LogLevel = logLevel
			}
			cfg = c
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&categories, "categories", "", "category file (.yaml, .json or .plist); default is the built-in list")
	pf.IntVar(&seconds, "seconds", 5, "round length in seconds (3-10)")
	pf.StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")

	root.AddCommand(playCmd(), serveCmd(), categoriesCmd())
	return root
}

// loadCatalog reads the configured category file or the built-in one.
func loadCatalog() (*catalog.Catalog, error) {
	return catalog.FromEnv(cfg.Categories)
}
