// Remove command deletes a record by id.
package main

import (
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <record_id>",
	Short: "Remove a record from the library",
	Long: `Remove deletes the record stored under the given record_id.

Example:
  paperstack remove smith2020`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	id := args[0]
	if err := library.Remove(id); err != nil {
		return err
	}
	if err := library.Commit(); err != nil {
		return err
	}

	messenger.Success("removed %q", id)
	return nil
}
