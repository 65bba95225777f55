package export

import (
	"fmt"
	"strings"

	"github.com/paperstack/paperstack/pkg/record"
)

// risEntryTypes maps record types to RIS reference types.
var risEntryTypes = map[string]string{
	record.TypeArticle: "JOUR",
	record.TypeBook:    "BOOK",
	record.TypeWebsite: "ELEC",
}

// risTags maps schema keys to RIS tags. Authors and pages have
// dedicated handling; keys absent here stay unexported.
var risTags = map[string]string{
	"title":     "TI",
	"journal":   "JO",
	"year":      "PY",
	"volume":    "VL",
	"number":    "IS",
	"doi":       "DO",
	"issn":      "SN",
	"isbn":      "SN",
	"publisher": "PB",
	"edition":   "ET",
	"bibnote":   "N1",
	"url":       "UR",
	"accessed":  "Y2",
}

// RIS renders records in RIS format, one reference per record, tags
// in schema order, each reference closed with ER.
func RIS(records []*record.Record) (string, error) {
	var sb strings.Builder
	for _, r := range records {
		if err := writeRISReference(&sb, r); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func writeRISReference(sb *strings.Builder, r *record.Record) error {
	refType, ok := risEntryTypes[r.Type]
	if !ok {
		return fmt.Errorf("no ris reference type for record type %q", r.Type)
	}

	requirements, err := record.Requirements(r.Type)
	if err != nil {
		return err
	}

	sb.WriteString(fmt.Sprintf("TY  - %s\n", refType))
	sb.WriteString(fmt.Sprintf("ID  - %s\n", r.ID()))
	for _, req := range requirements {
		value, ok := r.Field(req.Key)
		if !ok || value == "" {
			continue
		}
		switch req.Key {
		case record.FieldAuthor:
			for _, author := range strings.Split(value, " and ") {
				if author = strings.TrimSpace(author); author != "" {
					sb.WriteString(fmt.Sprintf("AU  - %s\n", author))
				}
			}
		case "pages":
			start, end := splitPages(value)
			sb.WriteString(fmt.Sprintf("SP  - %s\n", start))
			if end != "" {
				sb.WriteString(fmt.Sprintf("EP  - %s\n", end))
			}
		default:
			tag, ok := risTags[req.Key]
			if !ok {
				continue
			}
			sb.WriteString(fmt.Sprintf("%s  - %s\n", tag, value))
		}
	}
	sb.WriteString("ER  - \n")
	return nil
}

// splitPages splits a page range like 10-20 or 10--20 into start and
// end pages. A single page has no end.
func splitPages(pages string) (string, string) {
	for _, sep := range []string{"--", "-"} {
		if start, end, found := strings.Cut(pages, sep); found {
			return strings.TrimSpace(start), strings.TrimSpace(end)
		}
	}
	return strings.TrimSpace(pages), ""
}
