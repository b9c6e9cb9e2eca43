// Package sqlstore implements the data store collaborators on top of a
// SQLite database via database/sql.
//
// Data store metadata lives in two fixed tables, _datastores and
// _datastore_columns. Every data store additionally owns one physical
// table (see datastore.PhysicalTableName) whose columns mirror the
// declared schema: boolean maps to INTEGER, date and string to TEXT,
// number to REAL. Raw values read back from these tables go through
// the row normalizer in the orchestration layer, so this package never
// interprets cell values beyond driver-level conversion.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gridstore/pkg/logging"
	"gridstore/pkg/types"

	_ "modernc.org/sqlite"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS _datastores (
	id         TEXT PRIMARY KEY,
	project    TEXT NOT NULL,
	name       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE(project, name)
);

CREATE TABLE IF NOT EXISTS _datastore_columns (
	id       TEXT PRIMARY KEY,
	store_id TEXT NOT NULL REFERENCES _datastores(id) ON DELETE CASCADE,
	name     TEXT NOT NULL,
	type     TEXT NOT NULL,
	position INTEGER NOT NULL,
	UNIQUE(store_id, name)
);
`

// internalKeyColumn is a hidden primary key present in every physical
// table. It keeps the CREATE TABLE and last-column DROP COLUMN
// statements valid for stores with no declared columns, and is
// stripped before rows leave this package.
const internalKeyColumn = "_id"

// Store is a SQLite-backed engine implementing all three storage
// collaborators. It is safe for concurrent use; cross-row atomicity
// within a single call comes from per-call transactions.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at the given path and prepares
// the metadata tables. An empty path opens an in-memory database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A single connection keeps in-memory databases coherent and
	// sidesteps SQLITE_BUSY on concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create metadata tables: %w", err)
	}

	logging.WithComponent("sqlstore").Debug("database opened", "path", path)
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction, committing on success and
// rolling back on error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logging.Warn("transaction rollback failed", "error", rbErr.Error())
		}
		return err
	}
	return tx.Commit()
}

// qident quotes a SQL identifier. Physical column names are
// user-defined, so every identifier that reaches DDL or DML goes
// through here.
func qident(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// columnSQLType maps a declared column type to its SQLite storage type.
func columnSQLType(t types.Type) string {
	switch t {
	case types.BoolType:
		return "INTEGER"
	case types.NumberType:
		return "REAL"
	default:
		return "TEXT"
	}
}
