package sqlite

import (
	"errors"
	"fmt"
)

// Store operation errors.
var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("record id already exists")
	ErrClosed      = errors.New("library is closed")
)

// SchemaError reports drift between the schema registry and the
// library table: a column the registry does not know, a stored record
// type without a schema, or a missing reserved column. Unreachable
// when registry and table are kept in lockstep at startup.
type SchemaError struct {
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("library schema mismatch: %s", e.Detail)
}

// StorageError wraps a storage engine failure that falls outside the
// taxonomy above, such as a malformed predicate or an I/O error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}
