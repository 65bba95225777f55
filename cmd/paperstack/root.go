package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/paperstack/paperstack/internal/config"
	"github.com/paperstack/paperstack/internal/sqlite"
	"github.com/paperstack/paperstack/internal/ui"
)

// Global flag values.
var (
	flagConfig  string
	flagVerbose bool
)

// Shared command state, initialized by PersistentPreRunE.
var (
	cfg       *config.Config
	library   *sqlite.Library
	messenger ui.Messenger
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:     "paperstack",
	Short:   "Paperstack is a personal bibliography manager",
	Version: version,
	Long: `Paperstack manages a personal library of bibliography records:
articles, books, and websites. Records live in a local database and can
be filtered, exported to BibTeX or RIS, and scraped from arXiv.`,
	SilenceErrors:      true,
	SilenceUsage:       true,
	PersistentPreRunE:  initApp,
	PersistentPostRunE: closeApp,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"config file (default: $PAPERSTACK_CONFIG or ~/.paperstack/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false,
		"log internal operations")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(versionCmd)
}

// initApp loads configuration and opens the library. The version
// command runs without either.
func initApp(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	messenger = ui.NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.ColorsEnabled())

	if flagVerbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
	} else {
		logger = zap.NewNop()
	}

	path, err := cfg.LibraryPath()
	if err != nil {
		return fmt.Errorf("resolve library path: %w", err)
	}
	library, err = sqlite.Open(path, sqlite.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	return nil
}

// closeApp releases the library. Uncommitted mutations roll back.
func closeApp(cmd *cobra.Command, args []string) error {
	if library != nil {
		return library.Close()
	}
	return nil
}
