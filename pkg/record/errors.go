package record

import (
	"errors"
	"fmt"
)

// ErrUnknownRecordType is returned for record types absent from the
// registry.
var ErrUnknownRecordType = errors.New("unknown record type")

// ValidationError reports the first requirement a record failed to meet.
// Validation is fail-fast: the error always names exactly one field.
type ValidationError struct {
	RecordType string
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s record: field %q %s", e.RecordType, e.Field, e.Reason)
}

// ConfigurationError reports a record-ID format template that cannot be
// applied: the template is empty or malformed, or it references a field
// the record does not carry.
type ConfigurationError struct {
	RecordType string
	Format     string
	Field      string // referenced field; empty when the template itself is at fault
	Reason     string
}

func (e *ConfigurationError) Error() string {
	prefix := "id format"
	if e.RecordType != "" {
		prefix = e.RecordType + " id format"
	}
	if e.Field != "" {
		return fmt.Sprintf("%s %q: field %q %s", prefix, e.Format, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", prefix, e.Format, e.Reason)
}
