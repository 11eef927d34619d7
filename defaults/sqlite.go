package defaults

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tbxmanager/tbx"

	_ "modernc.org/sqlite" // SQLite driver
)

// DefaultTable is the SQLite table holding stored defaults.
const DefaultTable = "tbx_defaults"

// quoteIdentifier safely quotes a SQLite identifier
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

// SQLiteStore keeps records as (namespace, name, value) rows.
type SQLiteStore struct {
	db        *sql.DB
	table     string
	namespace string
}

// OpenSQLite opens the SQLite database at dsn and creates the table if needed.
func OpenSQLite(ctx context.Context, dsn, table, namespace string) (*SQLiteStore, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tbx.IsValidTableName(table) {
		return nil, fmt.Errorf("open sqlite store: invalid table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", table)
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection keeps ":memory:" databases shared across queries
	db.SetMaxOpenConns(1)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &SQLiteStore{db: db, table: table, namespace: namespace}
	if err = s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			namespace TEXT NOT NULL,
			name TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (namespace, name)
		)
	`, quoteIdentifier(s.table))

	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

// Get returns the stored value for name.
func (s *SQLiteStore) Get(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE namespace = ? AND name = ?`, quoteIdentifier(s.table))

	var value string
	err := s.db.QueryRowContext(ctx, query, s.namespace, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", name, err)
	}
	return value, nil
}

// SetAll replaces every row of the namespace in one transaction.
// Empty fields are not stored.
func (s *SQLiteStore) SetAll(ctx context.Context, rec Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("set defaults: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	table := quoteIdentifier(s.table)
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE namespace = ?`, table), s.namespace); err != nil {
		return fmt.Errorf("set defaults: clear: %w", err)
	}

	insertSQL := fmt.Sprintf(`INSERT INTO %s (namespace, name, value) VALUES (?, ?, ?)`, table)
	for _, name := range Fields {
		value := rec.Field(name)
		if value == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, insertSQL, s.namespace, name, value); err != nil {
			return fmt.Errorf("set defaults: insert %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("set defaults: commit: %w", err)
	}
	return nil
}

// All returns the namespace's record.
func (s *SQLiteStore) All(ctx context.Context) (Record, error) {
	query := fmt.Sprintf(`SELECT name, value FROM %s WHERE namespace = ?`, quoteIdentifier(s.table))

	rows, err := s.db.QueryContext(ctx, query, s.namespace)
	if err != nil {
		return Record{}, fmt.Errorf("list defaults: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rec Record
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return Record{}, fmt.Errorf("list defaults: scan: %w", err)
		}
		rec.SetField(name, value)
	}

	if err := rows.Err(); err != nil {
		return Record{}, fmt.Errorf("list defaults: rows error: %w", err)
	}
	return rec, nil
}

// DeleteAll removes every row of the namespace.
func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE namespace = ?`, quoteIdentifier(s.table))
	if _, err := s.db.ExecContext(ctx, query, s.namespace); err != nil {
		return fmt.Errorf("delete defaults: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
