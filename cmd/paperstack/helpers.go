// Shared helpers for paperstack CLI commands.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/paperstack/paperstack/internal/sqlite"
	"github.com/paperstack/paperstack/internal/ui"
	"github.com/paperstack/paperstack/pkg/record"
)

// entryPair is one key/value from an --entries or --filter argument,
// in the order the user wrote it.
type entryPair struct {
	key   string
	value string
}

// parseEntries parses a "key: value; key2: value2" argument into
// ordered pairs. Semicolons always separate entries, so a value
// cannot contain one; colons after the first belong to the value.
// Empty chunks are skipped, so a trailing semicolon is harmless.
func parseEntries(raw string) ([]entryPair, error) {
	var pairs []entryPair
	for _, chunk := range strings.Split(raw, ";") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		key, value, found := strings.Cut(chunk, ":")
		if !found {
			return nil, fmt.Errorf("malformed entry %q: want \"key: value\"", chunk)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("malformed entry %q: empty key", chunk)
		}
		pairs = append(pairs, entryPair{key: key, value: strings.TrimSpace(value)})
	}
	return pairs, nil
}

// entriesToMap converts parsed pairs into a field mapping, rejecting
// repeated keys.
func entriesToMap(pairs []entryPair) (map[string]string, error) {
	fields := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if _, ok := fields[p.key]; ok {
			return nil, fmt.Errorf("field %q given twice", p.key)
		}
		fields[p.key] = p.value
	}
	return fields, nil
}

// renderRecord prints one record field by field in schema order,
// record_id and record_type first. Absent optional fields are omitted.
func renderRecord(w io.Writer, r *record.Record) error {
	requirements, err := record.Requirements(r.Type)
	if err != nil {
		return err
	}

	list := ui.NewFieldList(w, !cfg.ColorsEnabled())
	list.AddField("record_id", r.ID())
	list.AddField("record_type", r.Type)
	for _, req := range requirements {
		if value, ok := r.Field(req.Key); ok {
			list.AddField(req.Key, value)
		}
	}
	list.Render()
	return nil
}

// parseFilters parses a --filter argument into store filters,
// preserving the written order.
func parseFilters(raw string) ([]sqlite.Filter, error) {
	pairs, err := parseEntries(raw)
	if err != nil {
		return nil, err
	}
	filters := make([]sqlite.Filter, 0, len(pairs))
	for _, p := range pairs {
		filters = append(filters, sqlite.Filter{Field: p.key, Query: p.value})
	}
	return filters, nil
}
