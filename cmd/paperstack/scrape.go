// Scrape command fetches record fields from an external source.
package main

import (
	"github.com/spf13/cobra"

	"github.com/paperstack/paperstack/internal/scrape"
	"github.com/paperstack/paperstack/pkg/record"
)

var (
	scrapeSource string
	scrapeAdd    bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <reference>",
	Short: "Scrape record fields from an external source",
	Long: `Scrape resolves a reference (an arXiv id, abs URL, or title) into
record fields and prints them. With --add the scraped record is stored
in the library.

Example:
  paperstack scrape 2301.00001
  paperstack scrape "arXiv:1801.00001v2" --add
  paperstack scrape "On Gravity and Waves" --source arxiv`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeSource, "source", "arxiv", "scraper to use")
	scrapeCmd.Flags().BoolVar(&scrapeAdd, "add", false, "add the scraped record to the library")
}

func runScrape(cmd *cobra.Command, args []string) error {
	registry := scrape.NewRegistry(
		scrape.NewArxiv(cfg.ScrapeTimeout(), scrape.WithScrapeLogger(logger)),
	)
	scraper, err := registry.Lookup(scrapeSource)
	if err != nil {
		return err
	}

	recordType, fields, err := scraper.Scrape(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	r, err := record.New(recordType, fields, cfg.IDFormat(recordType))
	if err != nil {
		return err
	}

	if !scrapeAdd {
		return renderRecord(cmd.OutOrStdout(), r)
	}

	if err := library.Add(r); err != nil {
		return err
	}
	if err := library.Commit(); err != nil {
		return err
	}

	messenger.Success("added %s %q", r.Type, r.ID())
	return nil
}
