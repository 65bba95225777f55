package sqlite

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/paperstack/paperstack/pkg/record"
)

// libraryTable is the single wide table holding every record type.
const libraryTable = "library"

// idxRecordType speeds up per-type listings.
const idxRecordType = `CREATE INDEX IF NOT EXISTS idx_library_record_type ON library(record_type);`

// createTableDDL renders the CREATE TABLE statement for the library
// table from the shared column layout. Every field column is nullable
// TEXT: integer-kinded fields are validated at the record layer and
// stored as text so values round-trip byte for byte.
func createTableDDL() string {
	cols := record.Columns()
	defs := make([]string, 0, len(cols))
	defs = append(defs, record.ColumnRecordID+" TEXT PRIMARY KEY")
	defs = append(defs, record.ColumnRecordType+" TEXT NOT NULL")
	for _, col := range cols[2:] {
		defs = append(defs, col+" TEXT")
	}
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n    %s\n);",
		libraryTable,
		strings.Join(defs, ",\n    "),
	)
}

// reconcileSchema brings the library table in line with the registry
// at startup: the table is created when absent and a column is added
// for every registry field the table lacks. There is no migration
// path beyond that; table columns the registry does not know are
// drift and fail with a SchemaError before any row is touched.
func reconcileSchema(db *sql.DB) error {
	if _, err := db.Exec(createTableDDL()); err != nil {
		return storageErr("create library table", err)
	}
	if _, err := db.Exec(idxRecordType); err != nil {
		return storageErr("create record_type index", err)
	}

	existing, err := tableColumns(db)
	if err != nil {
		return err
	}

	known := make(map[string]bool)
	for _, col := range record.Columns() {
		known[col] = true
	}
	var drift []string
	for name := range existing {
		if !known[name] {
			drift = append(drift, name)
		}
	}
	if len(drift) > 0 {
		sort.Strings(drift)
		return &SchemaError{Detail: fmt.Sprintf("table column %q is not in the registry", drift[0])}
	}

	for _, col := range record.Columns() {
		if existing[col] {
			continue
		}
		if col == record.ColumnRecordID || col == record.ColumnRecordType {
			return &SchemaError{Detail: fmt.Sprintf("table is missing reserved column %q", col)}
		}
		ddl := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", libraryTable, col)
		if _, err := db.Exec(ddl); err != nil {
			return storageErr("add column "+col, err)
		}
	}
	return nil
}

// tableColumns returns the set of column names the library table
// currently carries.
func tableColumns(db *sql.DB) (map[string]bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", libraryTable))
	if err != nil {
		return nil, storageErr("inspect library table", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var (
			cid          int
			name, ctype  string
			notNull, pk  int
			defaultValue sql.NullString
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &defaultValue, &pk); err != nil {
			return nil, storageErr("inspect library table", err)
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("inspect library table", err)
	}
	return existing, nil
}
