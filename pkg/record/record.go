package record

import (
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// quoteToken substitutes double-quote characters in stored text values
// so the stored form never carries a raw quote. Hydration reverses the
// substitution; the round trip is exact for values that do not contain
// the token themselves.
const quoteToken = "%QUOTE"

// canonicalTags matches a tag list already in canonical form: zero or
// more ;tag; tokens and nothing else. The empty string is canonical.
var canonicalTags = regexp.MustCompile(`^(;[^;]*;)*$`)

// Record is a single bibliography entry: a record type plus a field
// mapping total over the type's schema. Absent optional fields are held
// as explicit nulls, never missing keys, so every record serializes to
// the full shared column set.
type Record struct {
	Type   string
	fields map[string]sql.NullString
}

// New builds a validated Record of the given type from raw field input.
// Empty input values count as absent. Construction sanitizes first,
// then generates a record_id from idFormat when the input carries none
// (idFormat may be empty if the input supplies its own id), then
// validates each requirement in schema order, stopping at the first
// violation. On success the field mapping covers every schema key, with
// explicit nulls for absent optionals.
func New(recordType string, fields map[string]string, idFormat string) (*Record, error) {
	reqs, err := Requirements(recordType)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		known[req.Key] = true
	}
	var unknown []string
	for key := range fields {
		if key != ColumnRecordID && !known[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &ValidationError{RecordType: recordType, Field: unknown[0], Reason: "is not in the schema"}
	}

	r := &Record{Type: recordType, fields: make(map[string]sql.NullString, len(reqs)+1)}
	for key, value := range fields {
		if value == "" {
			continue
		}
		r.fields[key] = sql.NullString{String: value, Valid: true}
	}
	r.sanitize()

	if id := r.fields[ColumnRecordID]; !id.Valid {
		generated, err := GenerateID(recordType, idFormat, r.Fields())
		if err != nil {
			return nil, err
		}
		r.fields[ColumnRecordID] = sql.NullString{String: generated, Valid: true}
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	for _, req := range reqs {
		if _, ok := r.fields[req.Key]; !ok {
			r.fields[req.Key] = sql.NullString{}
		}
	}
	return r, nil
}

// Hydrate reconstructs a Record from a storage row laid out in the
// shared column order, reversing the quote substitution. The
// record_type discriminator selects the schema; rows carrying an
// unregistered type fail with ErrUnknownRecordType.
func Hydrate(row []sql.NullString) (*Record, error) {
	cols := Columns()
	if len(row) != len(cols) {
		return nil, fmt.Errorf("storage row has %d values, want %d", len(row), len(cols))
	}
	recordType := row[1].String
	reqs, err := Requirements(recordType)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(cols))
	for i, col := range cols {
		index[col] = i
	}
	r := &Record{Type: recordType, fields: make(map[string]sql.NullString, len(reqs)+1)}
	r.fields[ColumnRecordID] = sql.NullString{String: row[0].String, Valid: true}
	for _, req := range reqs {
		v := row[index[req.Key]]
		if !v.Valid {
			r.fields[req.Key] = sql.NullString{}
			continue
		}
		r.fields[req.Key] = sql.NullString{String: unescapeQuotes(v.String), Valid: true}
	}
	return r, nil
}

// ID returns the record's identity: the storage primary key and the
// external citation key. Immutable once generated.
func (r *Record) ID() string {
	return r.fields[ColumnRecordID].String
}

// Field returns the value of the named field and whether it is present
// (non-null).
func (r *Record) Field(key string) (string, bool) {
	v, ok := r.fields[key]
	if !ok || !v.Valid {
		return "", false
	}
	return v.String, true
}

// Fields returns a copy of the present fields keyed by field key. The
// keys follow the stable BibTeX-like contract (author, title, journal,
// year, ...) consumed by exporters and listings.
func (r *Record) Fields() map[string]string {
	out := make(map[string]string, len(r.fields))
	for key, v := range r.fields {
		if v.Valid {
			out[key] = v.String
		}
	}
	return out
}

// SetField assigns value to the named field and re-runs sanitization,
// so a raw tag edit lands in canonical form immediately. An empty value
// clears the field to null. The record id cannot be reassigned and
// unknown fields are rejected. Validation of the resulting record is
// deferred to the caller, typically just before persisting.
func (r *Record) SetField(key, value string) error {
	if key == ColumnRecordID {
		return &ValidationError{RecordType: r.Type, Field: key, Reason: "is immutable"}
	}
	reqs, err := Requirements(r.Type)
	if err != nil {
		return err
	}
	found := false
	for _, req := range reqs {
		if req.Key == key {
			found = true
			break
		}
	}
	if !found {
		return &ValidationError{RecordType: r.Type, Field: key, Reason: "is not in the schema"}
	}
	if value == "" {
		r.fields[key] = sql.NullString{}
	} else {
		r.fields[key] = sql.NullString{String: value, Valid: true}
	}
	r.sanitize()
	return nil
}

// Validate checks every requirement of the record's type in schema
// order and returns a ValidationError for the first violation: a
// missing required field, a value of the wrong kind, or a text value
// failing its pattern.
func (r *Record) Validate() error {
	reqs, err := Requirements(r.Type)
	if err != nil {
		return err
	}
	for _, req := range reqs {
		v := r.fields[req.Key]
		if !v.Valid {
			if req.Required {
				return &ValidationError{RecordType: r.Type, Field: req.Key, Reason: "is required"}
			}
			continue
		}
		if req.Kind == KindInteger {
			if _, err := strconv.Atoi(v.String); err != nil {
				return &ValidationError{RecordType: r.Type, Field: req.Key, Reason: "must be an integer"}
			}
			continue
		}
		if req.Pattern != nil && !req.Pattern.MatchString(v.String) {
			return &ValidationError{
				RecordType: r.Type,
				Field:      req.Key,
				Reason:     fmt.Sprintf("does not match pattern %s", req.Pattern),
			}
		}
	}
	return nil
}

// StorageRow serializes the record into the shared column order:
// record_id, record_type, then every registered field with double
// quotes replaced by the substitution token. Columns outside the
// record's own schema are null. Statement construction binds these
// values as parameters; the quote substitution is a data-level
// contract, not the injection defense.
func (r *Record) StorageRow() []sql.NullString {
	cols := Columns()
	row := make([]sql.NullString, len(cols))
	row[0] = sql.NullString{String: r.ID(), Valid: true}
	row[1] = sql.NullString{String: r.Type, Valid: true}
	for i, col := range cols[2:] {
		if v, ok := r.fields[col]; ok && v.Valid {
			row[i+2] = sql.NullString{String: escapeQuotes(v.String), Valid: true}
		}
	}
	return row
}

// Clone returns an independent copy of the record.
func (r *Record) Clone() *Record {
	fields := make(map[string]sql.NullString, len(r.fields))
	for key, v := range r.fields {
		fields[key] = v
	}
	return &Record{Type: r.Type, fields: fields}
}

// sanitize normalizes fields that carry a canonical storage form before
// any validation. Currently this is the tag list; a list that
// normalizes to nothing becomes null. Idempotent.
func (r *Record) sanitize() {
	v, ok := r.fields[FieldTags]
	if !ok || !v.Valid {
		return
	}
	clean := SanitizeTags(v.String)
	if clean == "" {
		r.fields[FieldTags] = sql.NullString{}
		return
	}
	r.fields[FieldTags] = sql.NullString{String: clean, Valid: true}
}

// SanitizeTags normalizes a free-form comma-separated tag list into the
// canonical ;tag; token form. Values already canonical, including the
// empty string, pass through unchanged, which makes the normalization
// idempotent. Embedded semicolons are stripped from tag names so the
// result is always canonical.
func SanitizeTags(value string) string {
	if canonicalTags.MatchString(value) {
		return value
	}
	var b strings.Builder
	for _, tag := range strings.Split(value, ",") {
		tag = strings.TrimSpace(tag)
		tag = strings.ReplaceAll(tag, ";", "")
		if tag == "" {
			continue
		}
		b.WriteString(";")
		b.WriteString(tag)
		b.WriteString(";")
	}
	return b.String()
}

func escapeQuotes(v string) string {
	return strings.ReplaceAll(v, `"`, quoteToken)
}

func unescapeQuotes(v string) string {
	return strings.ReplaceAll(v, quoteToken, `"`)
}
