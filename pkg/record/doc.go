// Package record defines the schema registry and Record entity for
// bibliography entries: per-type field requirements, validation and tag
// sanitization, deterministic record-ID generation, and the flattened
// storage-row representation shared by every record type.
package record
