// Export command writes matching records to a BibTeX or RIS file.
package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paperstack/paperstack/internal/export"
)

var (
	exportFormat string
	exportFilter string
)

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export records to a bibliography file",
	Long: `Export renders the records matching every filter into a
bibliography file. The format comes from the file extension (.bib,
.ris) unless --format says otherwise. Citation keys are record ids.

Example:
  paperstack export library.bib
  paperstack export gravity.ris --filter "tags: gravity"
  paperstack export refs.txt --format bibtex`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "bibtex or ris (default: from extension)")
	exportCmd.Flags().StringVar(&exportFilter, "filter", "", `filters as "field: query; field2: query2"`)
}

func runExport(cmd *cobra.Command, args []string) error {
	path := args[0]
	format, err := resolveExportFormat(path, exportFormat)
	if err != nil {
		return err
	}
	filters, err := parseFilters(exportFilter)
	if err != nil {
		return err
	}

	records, err := library.Filter(filters)
	if err != nil {
		return err
	}

	var content string
	switch format {
	case "bibtex":
		content, err = export.BibTeX(records)
	case "ris":
		content, err = export.RIS(records)
	}
	if err != nil {
		return err
	}

	if err := export.WriteFile(path, content); err != nil {
		return err
	}

	messenger.Success("exported %d records to %s", len(records), path)
	return nil
}

// resolveExportFormat picks the output format from the --format flag,
// falling back to the file extension.
func resolveExportFormat(path, flag string) (string, error) {
	format := strings.ToLower(flag)
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".bib", ".bibtex":
			format = "bibtex"
		case ".ris":
			format = "ris"
		default:
			return "", fmt.Errorf("cannot infer format from %q: use --format bibtex or --format ris", path)
		}
	}
	if format != "bibtex" && format != "ris" {
		return "", fmt.Errorf("unknown export format %q", format)
	}
	return format, nil
}
