// List command prints records matching the given filters as a table.
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paperstack/paperstack/internal/ui"
	"github.com/paperstack/paperstack/pkg/record"
)

var (
	listFilter  string
	listColumns string
)

// defaultListColumns is the column set shown when --columns is not
// given.
const defaultListColumns = "record_id,record_type,author,title,year"

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List records in the library",
	Long: `List prints the records matching every filter, in the order they
were added. Filters combine with AND. A tags filter matches whole
tags; prefixing any query with a backtick demands an exact match.

Example:
  paperstack list
  paperstack list --filter "author: Smith; year: ` + "`2020" + `"
  paperstack list --filter "tags: gravity" --columns "record_id,title,tags"`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listFilter, "filter", "", `filters as "field: query; field2: query2"`)
	listCmd.Flags().StringVar(&listColumns, "columns", defaultListColumns, "comma-separated columns to show")
}

func runList(cmd *cobra.Command, args []string) error {
	filters, err := parseFilters(listFilter)
	if err != nil {
		return err
	}
	columns, err := parseColumns(listColumns)
	if err != nil {
		return err
	}

	records, err := library.Filter(filters)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		messenger.Neutral("no records matched")
		return nil
	}

	table := ui.NewTable(cmd.OutOrStdout(), columns, !cfg.ColorsEnabled())
	for _, r := range records {
		row := make([]string, len(columns))
		for i, column := range columns {
			switch column {
			case record.ColumnRecordID:
				row[i] = r.ID()
			case record.ColumnRecordType:
				row[i] = r.Type
			default:
				row[i], _ = r.Field(column)
			}
		}
		table.AddRow(row...)
	}
	table.Render()
	return nil
}

// parseColumns splits a --columns argument and rejects names outside
// the shared column layout.
func parseColumns(raw string) ([]string, error) {
	known := make(map[string]bool)
	for _, column := range record.Columns() {
		known[column] = true
	}

	var columns []string
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !known[name] {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		columns = append(columns, name)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("no columns to show")
	}
	return columns, nil
}
