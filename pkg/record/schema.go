package record

import (
	"fmt"
	"regexp"
)

// Field kinds. A kind selects how a present value is checked during
// validation: integer values must parse as base-10 integers, text
// values may carry a pattern.
const (
	KindText    = "text"
	KindInteger = "integer"
)

// Record types recognized by the registry.
const (
	TypeArticle = "article"
	TypeBook    = "book"
	TypeWebsite = "website"
)

// Reserved column names preceding the per-field columns in every
// storage row.
const (
	ColumnRecordID   = "record_id"
	ColumnRecordType = "record_type"
)

// Field keys with special handling: author drives the multi-name rule
// in ID generation, tags carries the canonical ;tag; list form.
const (
	FieldAuthor = "author"
	FieldTags   = "tags"
)

// Requirement declares a single field of a record type.
type Requirement struct {
	Key      string         // field key, unique within the type
	Label    string         // human-readable label for prompts and listings
	Kind     string         // KindText or KindInteger
	Required bool           // whether a non-empty value must be present
	Pattern  *regexp.Regexp // optional constraint on text values; nil when unconstrained
}

// Patterns for constrained text fields.
var (
	issnPattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{3}[0-9Xx]$`)
	urlPattern  = regexp.MustCompile(`^https?://`)
)

// articleRequirements lists the article fields in schema order. The
// order is load-bearing: validation fails on the first unmet
// requirement, and the storage column layout derives from it.
var articleRequirements = []Requirement{
	{Key: "author", Label: "Author", Kind: KindText, Required: true},
	{Key: "title", Label: "Title", Kind: KindText, Required: true},
	{Key: "journal", Label: "Journal", Kind: KindText, Required: true},
	{Key: "year", Label: "Year", Kind: KindInteger, Required: true},
	{Key: "volume", Label: "Volume", Kind: KindInteger},
	{Key: "number", Label: "Number", Kind: KindInteger},
	{Key: "pages", Label: "Pages", Kind: KindText},
	{Key: "month", Label: "Month", Kind: KindText},
	{Key: "doi", Label: "DOI", Kind: KindText},
	{Key: "issn", Label: "ISSN", Kind: KindText, Pattern: issnPattern},
	{Key: "bibnote", Label: "Bibnote", Kind: KindText},
	{Key: "note", Label: "Note", Kind: KindText},
	{Key: "path", Label: "Path", Kind: KindText},
	{Key: "tags", Label: "Tags", Kind: KindText},
}

var bookRequirements = []Requirement{
	{Key: "author", Label: "Author", Kind: KindText, Required: true},
	{Key: "title", Label: "Title", Kind: KindText, Required: true},
	{Key: "publisher", Label: "Publisher", Kind: KindText, Required: true},
	{Key: "year", Label: "Year", Kind: KindInteger, Required: true},
	{Key: "volume", Label: "Volume", Kind: KindInteger},
	{Key: "edition", Label: "Edition", Kind: KindText},
	{Key: "month", Label: "Month", Kind: KindText},
	{Key: "isbn", Label: "ISBN", Kind: KindText},
	{Key: "bibnote", Label: "Bibnote", Kind: KindText},
	{Key: "note", Label: "Note", Kind: KindText},
	{Key: "path", Label: "Path", Kind: KindText},
	{Key: "tags", Label: "Tags", Kind: KindText},
}

var websiteRequirements = []Requirement{
	{Key: "title", Label: "Title", Kind: KindText, Required: true},
	{Key: "url", Label: "URL", Kind: KindText, Required: true, Pattern: urlPattern},
	{Key: "author", Label: "Author", Kind: KindText},
	{Key: "accessed", Label: "Accessed", Kind: KindText},
	{Key: "bibnote", Label: "Bibnote", Kind: KindText},
	{Key: "note", Label: "Note", Kind: KindText},
	{Key: "path", Label: "Path", Kind: KindText},
	{Key: "tags", Label: "Tags", Kind: KindText},
}

// recordTypes fixes registration order; the shared column layout
// derives from it.
var recordTypes = []string{TypeArticle, TypeBook, TypeWebsite}

// registry maps each record type to its ordered requirement list.
// Static and read-only after process start; new record types are added
// here, not by specializing Record behavior.
var registry = map[string][]Requirement{
	TypeArticle: articleRequirements,
	TypeBook:    bookRequirements,
	TypeWebsite: websiteRequirements,
}

// columns is the flattened storage column order shared by all record
// types: record_id, record_type, then each type's fields in
// registration order, first occurrence winning.
var columns = buildColumns()

func buildColumns() []string {
	cols := []string{ColumnRecordID, ColumnRecordType}
	seen := make(map[string]bool)
	for _, recordType := range recordTypes {
		for _, req := range registry[recordType] {
			if seen[req.Key] {
				continue
			}
			seen[req.Key] = true
			cols = append(cols, req.Key)
		}
	}
	return cols
}

// Requirements returns the ordered requirement list for recordType.
// Returns ErrUnknownRecordType for unregistered types.
func Requirements(recordType string) ([]Requirement, error) {
	reqs, ok := registry[recordType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRecordType, recordType)
	}
	return reqs, nil
}

// Types returns the registered record types in registration order.
func Types() []string {
	out := make([]string, len(recordTypes))
	copy(out, recordTypes)
	return out
}

// Columns returns the shared storage column order. Every record type
// serializes to this exact layout; columns outside a type's own schema
// are null.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}
