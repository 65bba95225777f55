// Package export renders library records into interchange formats
// (BibTeX, RIS) and writes them out atomically. The record_id doubles
// as the citation key, so exported keys are stable across runs.
package export

import (
	"fmt"
	"strings"

	"github.com/paperstack/paperstack/pkg/record"
)

// bibtexEntryTypes maps record types to BibTeX entry types.
var bibtexEntryTypes = map[string]string{
	record.TypeArticle: "article",
	record.TypeBook:    "book",
	record.TypeWebsite: "misc",
}

// bibtexFieldNames maps schema keys whose BibTeX name differs.
var bibtexFieldNames = map[string]string{
	"bibnote":  "note",
	"accessed": "urldate",
}

// unexportedFields is personal library metadata that never leaves the
// library.
var unexportedFields = map[string]bool{
	"note": true,
	"path": true,
	"tags": true,
}

// BibTeX renders records as a BibTeX bibliography, one entry per
// record in the given order, fields in schema order.
func BibTeX(records []*record.Record) (string, error) {
	var sb strings.Builder
	for i, r := range records {
		if i > 0 {
			sb.WriteString("\n")
		}
		if err := writeBibTeXEntry(&sb, r); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func writeBibTeXEntry(sb *strings.Builder, r *record.Record) error {
	entryType, ok := bibtexEntryTypes[r.Type]
	if !ok {
		return fmt.Errorf("no bibtex entry type for record type %q", r.Type)
	}

	requirements, err := record.Requirements(r.Type)
	if err != nil {
		return err
	}

	sb.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, r.ID()))
	for _, req := range requirements {
		if unexportedFields[req.Key] {
			continue
		}
		value, ok := r.Field(req.Key)
		if !ok || value == "" {
			continue
		}
		name := req.Key
		if mapped, ok := bibtexFieldNames[req.Key]; ok {
			name = mapped
		}
		sb.WriteString(fmt.Sprintf("  %s = {%s},\n", name, escapeBibTeX(value)))
	}
	sb.WriteString("}\n")
	return nil
}

// escapeBibTeX escapes BibTeX special characters in one pass, so
// replacement text is never re-escaped.
func escapeBibTeX(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '{':
			b.WriteString(`\{`)
		case '}':
			b.WriteString(`\}`)
		case '&':
			b.WriteString(`\&`)
		case '%':
			b.WriteString(`\%`)
		case '$':
			b.WriteString(`\$`)
		case '#':
			b.WriteString(`\#`)
		case '_':
			b.WriteString(`\_`)
		case '^':
			b.WriteString(`\textasciicircum{}`)
		case '~':
			b.WriteString(`\textasciitilde{}`)
		case '\\':
			b.WriteString(`\textbackslash{}`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
