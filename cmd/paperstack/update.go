// Update command merges new field values over an existing record.
package main

import (
	"github.com/spf13/cobra"
)

var updateEntries string

var updateCmd = &cobra.Command{
	Use:   "update <record_id>",
	Short: "Update fields of a record",
	Long: `Update merges the given entries over the stored record, re-validates
the result, and persists it. An empty value clears a field; record_id
cannot be changed.

Example:
  paperstack update smith2020 --entries "tags: gravity, classic; note: reread"
  paperstack update smith2020 --entries "doi:"`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateEntries, "entries", "", `fields as "key: value; key2: value2"`)
	_ = updateCmd.MarkFlagRequired("entries")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id := args[0]
	pairs, err := parseEntries(updateEntries)
	if err != nil {
		return err
	}
	partial, err := entriesToMap(pairs)
	if err != nil {
		return err
	}

	if err := library.Update(id, partial); err != nil {
		return err
	}
	if err := library.Commit(); err != nil {
		return err
	}

	messenger.Success("updated %q", id)
	return nil
}
