// Add command creates a new record from --entries and, when run
// interactively, prompts for any missing required fields.
package main

import (
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/paperstack/paperstack/pkg/record"
)

var (
	addType    string
	addEntries string
	addNoInput bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a record to the library",
	Long: `Add creates a record of the given type from "key: value" entries,
generates its record_id from the configured id template when none is
given, and stores it.

Example:
  paperstack add --type article --entries "author: A. Smith and B. Lee; title: On Gravity; journal: Phys Rev; year: 2020"
  paperstack add --type book --entries "author: C. Kittel; title: Solid State; publisher: Wiley; year: 2004; tags: textbook"
  paperstack add --type website --entries "title: arXiv API; url: https://info.arxiv.org/help/api"`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addType, "type", record.TypeArticle, "record type (article, book, website)")
	addCmd.Flags().StringVar(&addEntries, "entries", "", `fields as "key: value; key2: value2"`)
	addCmd.Flags().BoolVar(&addNoInput, "no-input", false, "never prompt for missing fields")
}

func runAdd(cmd *cobra.Command, args []string) error {
	pairs, err := parseEntries(addEntries)
	if err != nil {
		return err
	}
	fields, err := entriesToMap(pairs)
	if err != nil {
		return err
	}

	requirements, err := record.Requirements(addType)
	if err != nil {
		return err
	}
	if interactive() && !addNoInput {
		if err := promptMissing(requirements, fields); err != nil {
			return err
		}
	}

	r, err := record.New(addType, fields, cfg.IDFormat(addType))
	if err != nil {
		return err
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

// promptMissing queues one input prompt per required field the user
// has not supplied yet, in schema order.
func promptMissing(requirements []record.Requirement, fields map[string]string) error {
	var questions []*survey.Question
	for _, req := range requirements {
		if !req.Required {
			continue
		}
		if value, ok := fields[req.Key]; ok && value != "" {
			continue
		}
		questions = append(questions, &survey.Question{
			Name:     req.Key,
			Prompt:   &survey.Input{Message: req.Label + ":"},
			Validate: survey.Required,
		})
	}
	if len(questions) == 0 {
		return nil
	}

	answers := map[string]interface{}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}
	for key, value := range answers {
		if s, ok := value.(string); ok && s != "" {
			fields[key] = s
		}
	}
	return nil
}

// interactive reports whether stdin is a terminal a person can answer
// prompts on.
func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}
