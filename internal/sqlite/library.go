// Package sqlite implements the library store: every bibliography
// record persisted in one wide SQLite table, keyed by record_id and
// discriminated by record_type. Mutations accumulate in a single open
// transaction until the caller commits, so several operations can
// share one durability point.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/asaidimu/go-events"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/paperstack/paperstack/pkg/record"
)

// Library is the single source of truth for persisted records. A
// mutex serializes access: the data model assumes at most one
// operation in flight, and nothing here spawns background work.
type Library struct {
	mu     sync.Mutex
	db     *sql.DB
	tx     *sql.Tx
	logger *zap.Logger
	bus    *events.TypedEventBus[LibraryEvent]
	closed bool
}

// Option configures a Library.
type Option func(*Library)

// WithLogger attaches a logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Library) {
		l.logger = logger
	}
}

// Open opens the library database at path, creating the file and its
// directory when absent, reconciles the table with the schema
// registry, and begins the first transaction. Callers own the
// returned library and must Close it.
func Open(path string, opts ...Option) (*Library, error) {
	l := &Library{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, storageErr("create data directory", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageErr("open database", err)
	}
	if err := reconcileSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	bus, err := events.NewTypedEventBus[LibraryEvent](events.DefaultConfig())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing event bus: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, storageErr("begin transaction", err)
	}

	l.db = db
	l.tx = tx
	l.bus = bus
	l.logger.Info("library opened", zap.String("path", path))
	return l, nil
}

// Commit makes every mutation since the previous Commit durable and
// opens a fresh transaction. Callers batch several operations into one
// durability point; a crash before Commit loses them.
func (l *Library) Commit() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}

	if err := l.tx.Commit(); err != nil {
		return storageErr("commit", err)
	}
	tx, err := l.db.Begin()
	if err != nil {
		return storageErr("begin transaction", err)
	}
	l.tx = tx
	l.logger.Debug("library committed")
	return nil
}

// Close rolls back uncommitted mutations and releases the database.
// Idempotent.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true

	if l.tx != nil {
		_ = l.tx.Rollback()
		l.tx = nil
	}
	if err := l.db.Close(); err != nil {
		return storageErr("close database", err)
	}
	l.logger.Info("library closed")
	return nil
}

// Add inserts a record into the open transaction. The id is checked
// first so a collision reports ErrDuplicateID precisely; the primary
// key constraint backstops the check.
func (l *Library) Add(r *record.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}

	exists, err := l.exists(r.ID())
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %q", ErrDuplicateID, r.ID())
	}

	cols := record.Columns()
	placeholders := strings.Repeat("?, ", len(cols))
	placeholders = strings.TrimSuffix(placeholders, ", ")
	row := r.StorageRow()
	args := make([]any, len(row))
	for i, v := range row {
		args[i] = v
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		libraryTable, strings.Join(cols, ", "), placeholders,
	)
	if _, err := l.tx.Exec(query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", ErrDuplicateID, r.ID())
		}
		return storageErr("insert record", err)
	}

	l.logger.Debug("record added",
		zap.String("record_id", r.ID()),
		zap.String("record_type", r.Type))
	l.emit(RecordAdded, r.ID(), r.Type)
	return nil
}

// Remove deletes the record stored under id. The record is looked up
// first so a missing id reports ErrNotFound precisely and storage is
// never touched.
func (l *Library) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}

	existing, err := l.get(id)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", libraryTable, record.ColumnRecordID)
	if _, err := l.tx.Exec(query, id); err != nil {
		return storageErr("delete record", err)
	}

	l.logger.Debug("record removed", zap.String("record_id", id))
	l.emit(RecordRemoved, id, existing.Type)
	return nil
}

// Update merges partial over the stored record, re-sanitizes and
// re-validates the merged result, and persists only the columns whose
// stored value changed, using the post-sanitize values. An empty
// partial is a no-op. Validation failures leave the stored row
// untouched. record_id is immutable; an id entry in the partial is
// dropped before merging.
func (l *Library) Update(id string, partial map[string]string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	if len(partial) == 0 {
		return nil
	}

	existing, err := l.get(id)
	if err != nil {
		return err
	}

	merged := existing.Clone()
	keys := make([]string, 0, len(partial))
	for key := range partial {
		if key == record.ColumnRecordID {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := merged.SetField(key, partial[key]); err != nil {
			return err
		}
	}
	if err := merged.Validate(); err != nil {
		return err
	}

	oldRow := existing.StorageRow()
	newRow := merged.StorageRow()
	cols := record.Columns()
	var assignments []string
	var args []any
	for i := 2; i < len(cols); i++ {
		if oldRow[i] != newRow[i] {
			assignments = append(assignments, cols[i]+" = ?")
			args = append(args, newRow[i])
		}
	}
	if len(assignments) == 0 {
		return nil
	}
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = ?",
		libraryTable, strings.Join(assignments, ", "), record.ColumnRecordID,
	)
	if _, err := l.tx.Exec(query, args...); err != nil {
		return storageErr("update record", err)
	}

	l.logger.Debug("record updated",
		zap.String("record_id", id),
		zap.Int("columns", len(assignments)))
	l.emit(RecordUpdated, id, merged.Type)
	return nil
}

// Get returns the record stored under id, hydrated through its
// record_type schema. Returns ErrNotFound when no such id exists.
func (l *Library) Get(id string) (*record.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrClosed
	}
	return l.get(id)
}

// Filter returns the records matching every (field, query) pair, in
// insertion order (rowid): deterministic, though not part of the query
// language. An empty filter returns the whole library.
func (l *Library) Filter(filters []Filter) ([]*record.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrClosed
	}

	where, args, err := translateFilters(filters)
	if err != nil {
		return nil, err
	}

	cols := record.Columns()
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), libraryTable)
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY rowid"

	rows, err := l.tx.Query(query, args...)
	if err != nil {
		return nil, storageErr("filter records", err)
	}
	defer rows.Close()

	results := []*record.Record{}
	for rows.Next() {
		values := make([]sql.NullString, len(cols))
		scan := make([]any, len(cols))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, storageErr("scan record", err)
		}
		r, err := record.Hydrate(values)
		if err != nil {
			return nil, &SchemaError{Detail: err.Error()}
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate records", err)
	}
	return results, nil
}

// get hydrates a single record inside the held lock.
func (l *Library) get(id string) (*record.Record, error) {
	cols := record.Columns()
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = ?",
		strings.Join(cols, ", "), libraryTable, record.ColumnRecordID,
	)
	values := make([]sql.NullString, len(cols))
	scan := make([]any, len(cols))
	for i := range values {
		scan[i] = &values[i]
	}
	if err := l.tx.QueryRow(query, id).Scan(scan...); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return nil, storageErr("get record", err)
	}
	r, err := record.Hydrate(values)
	if err != nil {
		// A stored type the registry no longer recognizes is drift.
		return nil, &SchemaError{Detail: err.Error()}
	}
	return r, nil
}

// exists reports whether id is present, including uncommitted inserts
// in the open transaction.
func (l *Library) exists(id string) (bool, error) {
	query := fmt.Sprintf(
		"SELECT 1 FROM %s WHERE %s = ?",
		libraryTable, record.ColumnRecordID,
	)
	var one int
	err := l.tx.QueryRow(query, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, storageErr("check record existence", err)
	}
	return true, nil
}

// isUniqueViolation detects a primary key collision reported by the
// driver. The existence pre-check makes this a backstop.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
