// Show command prints one record field by field.
package main

import (
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <record_id>",
	Short: "Show a record",
	Long: `Show prints the record stored under the given record_id, one field
per line in schema order. Absent optional fields are omitted.

Example:
  paperstack show smith2020`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	r, err := library.Get(args[0])
	if err != nil {
		return err
	}
	return renderRecord(cmd.OutOrStdout(), r)
}
